// Package handler provides HTTP request handlers for the storefront API.
package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/vyrodovalexey/zuice-storefront/internal/model"
	"github.com/vyrodovalexey/zuice-storefront/internal/session"
)

// maxBodyBytes bounds request bodies. A full catalog replacement is the
// largest legitimate payload.
const maxBodyBytes = 1 << 20

var errNoSession = errors.New("no session in request context")

// HealthResponse represents the health check response.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

// ReadyResponse represents the readiness check response.
type ReadyResponse struct {
	Status string `json:"status"`
}

// responder carries the response helpers shared by all handlers.
type responder struct {
	logger *zap.Logger
}

// writeJSON writes a JSON response with the given status code.
func (h responder) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if data == nil {
		return
	}

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode response", zap.Error(err))
	}
}

// writeOK wraps data in a success envelope.
func writeOK[T any](h responder, w http.ResponseWriter, data T) {
	h.writeJSON(w, http.StatusOK, model.NewSuccessResponse(data))
}

// writeError writes an error response with the given status code and message.
func (h responder) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, model.ErrorResponse{
		Code:    status,
		Message: message,
	})
}

// decode reads a JSON body into v and validates it when v has a Validate
// method. It writes the 400 response itself and reports whether the
// handler may continue.
func (h responder) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		h.logger.Warn("invalid request body", zap.Error(err))
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}

	if err := validate(v); err != nil {
		h.logger.Warn("validation failed", zap.Error(err))
		h.writeError(w, http.StatusBadRequest, err.Error())
		return false
	}

	return true
}

// session returns the visitor session attached by the session middleware.
func (h responder) session(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	s, ok := session.FromContext(r.Context())
	if !ok {
		h.logger.Error("handler mounted without session middleware",
			zap.String("path", r.URL.Path), zap.Error(errNoSession))
		h.writeError(w, http.StatusInternalServerError, "internal server error")
	}
	return s, ok
}

type validator interface {
	Validate() error
}

func validate(v any) error {
	if val, ok := v.(validator); ok {
		return val.Validate()
	}
	return nil
}
