package handler

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"shopfront/metrics"
	"shopfront/middleware"
)

// RouterConfig carries what the router needs besides the product handlers.
type RouterConfig struct {
	Metrics     *metrics.Collector
	Logger      logrus.FieldLogger
	CORSOrigins []string
	// StoreName is reported by /healthz.
	StoreName string
}

// NewRouter builds the full HTTP stack: request ids and CORS outside the
// router, observation and panic recovery on every matched route.
func NewRouter(h *Handler, cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	var rec middleware.RequestRecorder
	if cfg.Metrics != nil {
		rec = cfg.Metrics
	}
	r.Use(middleware.Observe(rec, cfg.Logger), middleware.Recover(cfg.Logger))

	h.RegisterRoutes(r)

	if cfg.Metrics != nil {
		r.Handle("/metrics", cfg.Metrics.Handler()).Methods("GET")
	}
	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "store": cfg.StoreName})
	}).Methods("GET")

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeErr(w, http.StatusNotFound, "route not found")
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeErr(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	var root http.Handler = r
	root = middleware.NewCORSMiddleware(cfg.CORSOrigins).Handler(root)
	root = middleware.RequestID("")(root)
	return root
}
