package util

import (
	"encoding/json"
	"net/http"

	log "github.com/sirupsen/logrus"
)

type ErrorResponse struct {
	Message string `json:"message"`
}

// WithBodyAndStatus writes body as JSON with the given status. A nil body writes the status only.
func WithBodyAndStatus(body interface{}, status int, w http.ResponseWriter) {
	if body == nil {
		w.WriteHeader(status)
		return
	}

	payload, err := json.Marshal(body)
	if err != nil {
		log.WithError(err).Error("failed to marshal response body")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(payload); err != nil {
		log.WithError(err).Error("failed to write response body")
	}
}

// WithError writes {"message": ...} with the given status
func WithError(message string, status int, w http.ResponseWriter) {
	WithBodyAndStatus(ErrorResponse{Message: message}, status, w)
}
