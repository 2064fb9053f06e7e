// Package middleware provides HTTP middleware for the product API
package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

// RequestRecorder receives one observation per finished request.
type RequestRecorder interface {
	RecordHTTPRequest(method, route string, status int, duration time.Duration)
}

// Observe records metrics and writes one log entry for every request, once
// the handler has finished. Install it with Router.Use so the route template
// is known.
func Observe(rec RequestRecorder, logger logrus.FieldLogger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// Wrap response writer to capture status code
			wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

			next.ServeHTTP(wrapped, r)

			duration := time.Since(start)
			route := routeTemplate(r)

			if rec != nil {
				rec.RecordHTTPRequest(r.Method, route, wrapped.statusCode, duration)
			}
			if logger != nil {
				logger.WithFields(logrus.Fields{
					"method":      r.Method,
					"route":       route,
					"status_code": wrapped.statusCode,
					"duration":    duration.String(),
					"request_id":  RequestIDFromContext(r.Context()),
				}).Info(fmt.Sprintf("%s %s %d", r.Method, route, wrapped.statusCode))
			}
		})
	}
}

// routeTemplate prefers the mux path template over the raw path so that
// /products/{id} is one series, not one per id.
func routeTemplate(r *http.Request) string {
	if route := mux.CurrentRoute(r); route != nil {
		if tpl, err := route.GetPathTemplate(); err == nil {
			return tpl
		}
	}
	return r.URL.Path
}

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
	written    bool
}

func (rw *responseWriter) WriteHeader(code int) {
	if !rw.written {
		rw.statusCode = code
		rw.written = true
		rw.ResponseWriter.WriteHeader(code)
	}
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	if !rw.written {
		rw.WriteHeader(http.StatusOK)
	}
	return rw.ResponseWriter.Write(b)
}
