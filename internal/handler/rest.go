package handler

import (
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/vyrodovalexey/zuice-storefront/internal/model"
)

// Version is the application version.
const Version = "1.0.0"

// HealthChecker reports whether a dependency can serve traffic.
type HealthChecker interface {
	Healthy() bool
}

// RESTHandler serves the probe endpoints.
type RESTHandler struct {
	responder
	ready HealthChecker
}

// NewRESTHandler creates a new RESTHandler. ready backs the readiness
// probe; nil means always ready.
func NewRESTHandler(ready HealthChecker, logger *zap.Logger) *RESTHandler {
	return &RESTHandler{
		responder: responder{logger: logger},
		ready:     ready,
	}
}

// RegisterRoutes registers the probe routes with the router.
func (h *RESTHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/health", h.HealthCheck).Methods(http.MethodGet)
	router.HandleFunc("/ready", h.ReadyCheck).Methods(http.MethodGet)
}

// HealthCheck handles GET /health requests.
func (h *RESTHandler) HealthCheck(w http.ResponseWriter, _ *http.Request) {
	writeOK(h.responder, w, HealthResponse{
		Status:  "healthy",
		Version: Version,
	})
}

// ReadyCheck handles GET /ready requests. The service is not ready while
// the persistence breaker is open.
func (h *RESTHandler) ReadyCheck(w http.ResponseWriter, _ *http.Request) {
	if h.ready != nil && !h.ready.Healthy() {
		h.writeJSON(w, http.StatusServiceUnavailable,
			model.APIResponse[ReadyResponse]{Data: ReadyResponse{Status: "not ready"}})
		return
	}

	writeOK(h.responder, w, ReadyResponse{Status: "ready"})
}
