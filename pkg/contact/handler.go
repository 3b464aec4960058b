package contact

import (
	"encoding/json"
	"errors"
	"net/http"

	log "github.com/sirupsen/logrus"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// SendEmail godoc
// @Summary Relay a contact form message
// @Tags Contact
// @Accept json
// @Produce plain
// @Param message body Message true "Message"
// @Success 200 {string} string "OK"
// @Failure 400 {string} string "Missing fields"
// @Failure 500 {string} string "Mail send failed"
// @Router /send-email [post]
func (h *Handler) SendEmail(w http.ResponseWriter, r *http.Request) {
	defer func() {
		if rec := recover(); rec != nil {
			log.Errorf("Function error: %v", rec)
			http.Error(w, "Server error", http.StatusInternalServerError)
		}
	}()

	var msg Message
	if err := json.NewDecoder(r.Body).Decode(&msg); err != nil {
		log.Errorf("Function error: %v", err)
		http.Error(w, "Server error", http.StatusInternalServerError)
		return
	}

	err := h.service.Send(r.Context(), msg)
	switch {
	case err == nil:
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	case errors.Is(err, ErrMissingFields):
		http.Error(w, "Missing fields", http.StatusBadRequest)
	case errors.Is(err, ErrRelayFailed):
		http.Error(w, "Mail send failed", http.StatusInternalServerError)
	default:
		log.Errorf("Function error: %v", err)
		http.Error(w, "Server error", http.StatusInternalServerError)
	}
}
