package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-faster/errors"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"shopfront/middleware"
	models "shopfront/model"
	"shopfront/service"
)

// maxBodyBytes caps request bodies, bulk included.
const maxBodyBytes = 1 << 20

// Handler is the HTTP layer that talks to service.Service
type Handler struct {
	svc service.ServiceInterface
	log logrus.FieldLogger
}

// NewHandler returns a Handler instance
func NewHandler(s service.ServiceInterface, log logrus.FieldLogger) *Handler {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Handler{svc: s, log: log}
}

// RegisterRoutes registers all routes on the provided router
func (h *Handler) RegisterRoutes(r *mux.Router) {
	// Products
	r.HandleFunc("/products", h.CreateProduct).Methods("POST")
	r.HandleFunc("/products/bulk", h.BulkCreateProducts).Methods("POST")
	r.HandleFunc("/products", h.ListProducts).Methods("GET")
	r.HandleFunc("/products/{id}", h.GetProduct).Methods("GET")
	r.HandleFunc("/products/{id}", h.UpdateProduct).Methods("PUT")
	r.HandleFunc("/products/{id}", h.DeleteProduct).Methods("DELETE")
}

// --- helpers ---
func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}

// writeServiceErr maps service errors to status codes. Store failures are
// logged and answered with a generic message.
func (h *Handler) writeServiceErr(w http.ResponseWriter, r *http.Request, err error) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		if len(verr.Invalid) > 0 {
			writeJSON(w, http.StatusBadRequest, map[string]interface{}{
				"error":           verr.Message,
				"invalidProducts": verr.Invalid,
			})
			return
		}
		writeErr(w, http.StatusBadRequest, verr.Message)
	case errors.Is(err, service.ErrNotFound):
		writeErr(w, http.StatusNotFound, service.MsgNotFound)
	default:
		h.log.WithFields(logrus.Fields{
			"method":     r.Method,
			"path":       r.URL.Path,
			"request_id": middleware.RequestIDFromContext(r.Context()),
		}).WithError(err).Error("request failed")
		writeErr(w, http.StatusInternalServerError, service.MsgInternal)
	}
}

// writeDecodeErr answers 413 for bodies over maxBodyBytes and 400 otherwise.
func writeDecodeErr(w http.ResponseWriter, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		writeErr(w, http.StatusRequestEntityTooLarge, "request body too large")
		return
	}
	writeErr(w, http.StatusBadRequest, "invalid json")
}

// readBody returns the raw body, nil when it is empty.
func readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		return nil, err
	}
	return bytes.TrimSpace(body), nil
}

// --- Handler ---

// CreateProduct handles POST /products
// body: { "title": "...", "description": "...", "imgSrc": "...", "price": 250 }
func (h *Handler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req models.ProductInput
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeDecodeErr(w, err)
		return
	}
	p, err := h.svc.CreateProduct(r.Context(), req)
	if err != nil {
		h.writeServiceErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

// BulkCreateProducts handles POST /products/bulk
// body: [ {product}, {product}, ... ]
func (h *Handler) BulkCreateProducts(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(w, r)
	if err != nil {
		writeDecodeErr(w, err)
		return
	}

	var req []models.ProductInput
	switch {
	case len(body) == 0:
		// treated like a non-array body below
	case !json.Valid(body):
		writeErr(w, http.StatusBadRequest, "invalid json")
		return
	case body[0] == '[':
		if err := json.Unmarshal(body, &req); err != nil {
			writeErr(w, http.StatusBadRequest, "invalid json")
			return
		}
		if req == nil {
			req = []models.ProductInput{}
		}
	}

	ps, err := h.svc.BulkCreateProducts(r.Context(), req)
	if err != nil {
		h.writeServiceErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, ps)
}

// ListProducts handles GET /products
func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	ps, err := h.svc.ListProducts(r.Context())
	if err != nil {
		h.writeServiceErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ps)
}

// GetProduct handles GET /products/{id}
func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	p, err := h.svc.GetProduct(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.writeServiceErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// UpdateProduct handles PUT /products/{id}
// body: any subset of { "title", "description", "imgSrc", "price" }
func (h *Handler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	var req models.ProductPatch
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeDecodeErr(w, err)
		return
	}
	p, err := h.svc.UpdateProduct(r.Context(), mux.Vars(r)["id"], req)
	if err != nil {
		h.writeServiceErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// DeleteProduct handles DELETE /products/{id}
func (h *Handler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteProduct(r.Context(), mux.Vars(r)["id"]); err != nil {
		h.writeServiceErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": service.MsgDeleted})
}
