package contact

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"
)

type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

type MailChannelsConfig struct {
	Endpoint   string
	Recipient  string
	Sender     string
	SenderName string
	Timeout    time.Duration
}

// MailChannelsMailer relays messages through the MailChannels transactional API. Every message
// is attempted exactly once.
type MailChannelsMailer struct {
	cfg    MailChannelsConfig
	client *http.Client
}

func NewMailChannelsMailer(cfg MailChannelsConfig) *MailChannelsMailer {
	if cfg.Sender == "" {
		cfg.Sender = cfg.Recipient
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &MailChannelsMailer{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
	}
}

type mailAddress struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

type mailPersonalization struct {
	To []mailAddress `json:"to"`
}

type mailContent struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

type mailRequest struct {
	Personalizations []mailPersonalization `json:"personalizations"`
	From             mailAddress           `json:"from"`
	Subject          string                `json:"subject"`
	Content          []mailContent         `json:"content"`
}

func (m *MailChannelsMailer) payload(msg Message) mailRequest {
	return mailRequest{
		Personalizations: []mailPersonalization{{To: []mailAddress{{Email: m.cfg.Recipient}}}},
		From:             mailAddress{Email: m.cfg.Sender, Name: m.cfg.SenderName},
		Subject:          msg.Subject(),
		Content:          []mailContent{{Type: "text/plain", Value: msg.Body()}},
	}
}

func (m *MailChannelsMailer) Send(ctx context.Context, msg Message) error {
	body, err := json.Marshal(m.payload(msg))
	if err != nil {
		return fmt.Errorf("could not encode mail: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.cfg.Endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("could not create mail request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.client.Do(req)
	if err != nil {
		err = fmt.Errorf("could not reach mail relay: %w", err)
		log.Error(err)
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		log.Errorf("MailChannels error: %d %s", resp.StatusCode, respBody)
		return fmt.Errorf("%w: status %d: %s", ErrRelayFailed, resp.StatusCode, respBody)
	}
	return nil
}
