package middlewares

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

const HeaderRequestID = "X-Request-Id"

type requestIDKey struct{}

// RequestID tags each inbound request with an id, reusing a caller supplied one,
// and logs the request once it completes.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(HeaderRequestID)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		w.Header().Set(HeaderRequestID, id)

		ctx := context.WithValue(r.Context(), requestIDKey{}, id)
		start := time.Now()
		next.ServeHTTP(w, r.WithContext(ctx))

		log.WithContext(ctx).WithFields(log.Fields{
			"request_id": id,
			"method":     r.Method,
			"path":       r.URL.Path,
			"elapsed":    time.Since(start),
		}).Info("handled request")
	})
}

// RequestIDFromContext returns the id set by RequestID, or an empty string.
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// RequestIDHook adds the request id to every logrus entry logged with a request context.
type RequestIDHook struct{}

func (RequestIDHook) Levels() []log.Level {
	return log.AllLevels
}

func (RequestIDHook) Fire(entry *log.Entry) error {
	if entry.Context == nil {
		return nil
	}
	if id := RequestIDFromContext(entry.Context); id != "" {
		entry.Data["request_id"] = id
	}
	return nil
}
