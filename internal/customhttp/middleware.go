package customhttp

import (
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"
)

type middleware func(next httpCommandFunc) httpCommandFunc

func chainMiddleware(m ...middleware) middleware {
	return func(final httpCommandFunc) httpCommandFunc {
		last := final
		for i := len(m) - 1; i >= 0; i-- {
			last = m[i](last)
		}

		return func(req *http.Request) (resp *http.Response, err error) {
			return last(req)
		}
	}
}

func noOpsMiddleware() middleware {
	return func(next httpCommandFunc) httpCommandFunc {
		return func(req *http.Request) (resp *http.Response, err error) {
			return next(req)
		}
	}
}

// loggingMiddleware never logs the query string or headers; both may carry credentials.
func loggingMiddleware() middleware {
	return func(next httpCommandFunc) httpCommandFunc {
		return func(req *http.Request) (resp *http.Response, err error) {
			start := time.Now()
			contextLogger := log.WithContext(req.Context()).WithFields(log.Fields{
				"method": req.Method,
				"host":   req.URL.Host,
				"path":   req.URL.Path,
			})

			resp, err = next(req)
			elapsed := time.Since(start)
			if err != nil {
				contextLogger.WithError(err).WithField("elapsed", elapsed).Error("outbound request failed")
				return resp, err
			}
			contextLogger.WithFields(log.Fields{
				"status":  resp.StatusCode,
				"elapsed": elapsed,
			}).Debug("outbound request completed")
			return resp, nil
		}
	}
}
