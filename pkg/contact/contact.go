package contact

import (
	"errors"
	"strings"
)

var ErrMissingFields = errors.New("missing fields")
var ErrRelayFailed = errors.New("mail relay failed")

// Message is a contact form submission.
type Message struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

func (m Message) Validate() error {
	if strings.TrimSpace(m.Name) == "" || strings.TrimSpace(m.Email) == "" || strings.TrimSpace(m.Message) == "" {
		return ErrMissingFields
	}
	return nil
}

func (m Message) Subject() string {
	return "New message from " + m.Name
}

func (m Message) Body() string {
	return "Name: " + m.Name + "\nEmail: " + m.Email + "\n\nMessage:\n" + m.Message
}
