package middleware

import (
	"encoding/json"
	"net/http"

	"github.com/sirupsen/logrus"
)

// Recover turns a handler panic into a 500 JSON response.
func Recover(logger logrus.FieldLogger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					logger.WithFields(logrus.Fields{
						"panic":      rec,
						"method":     r.Method,
						"path":       r.URL.Path,
						"request_id": RequestIDFromContext(r.Context()),
					}).Error("panic recovered")
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(map[string]string{"error": "internal server error"})
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
