package auth

import (
	"net/http"

	log "github.com/sirupsen/logrus"

	"github.com/syrilster/attendance-timesheet-dashboard/internal/util"
)

// ResetTokensHandler drops every cached issued token so the next request exchanges again.
func ResetTokensHandler(resetter TokenResetter) func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		contextLogger := log.WithContext(r.Context())
		dropped := resetter.InvalidateAll()
		contextLogger.WithField("dropped", dropped).Info("cached attendance API tokens reset")
		util.WithBodyAndStatus(nil, http.StatusNoContent, w)
	}
}
