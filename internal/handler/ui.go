package handler

import (
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// LoadingRequest sets the loading flag.
type LoadingRequest struct {
	Loading bool `json:"loading"`
}

// UIHandler serves the transient view flags.
type UIHandler struct {
	responder
}

// NewUIHandler creates a new UIHandler.
func NewUIHandler(logger *zap.Logger) *UIHandler {
	return &UIHandler{responder: responder{logger: logger}}
}

// RegisterRoutes registers the UI routes with the router.
func (h *UIHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/ui", h.GetState).Methods(http.MethodGet)
	router.HandleFunc("/ui/mobile-menu/{action:toggle|close}", h.MobileMenu).Methods(http.MethodPost)
	router.HandleFunc("/ui/search/{action:toggle|close}", h.Search).Methods(http.MethodPost)
	router.HandleFunc("/ui/loading", h.SetLoading).Methods(http.MethodPut)
	router.HandleFunc("/ui/navigate", h.Navigate).Methods(http.MethodPost)
}

// GetState handles GET /ui requests.
func (h *UIHandler) GetState(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	writeOK(h.responder, w, s.UI.State())
}

// MobileMenu handles POST /ui/mobile-menu/{toggle|close} requests.
func (h *UIHandler) MobileMenu(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	if mux.Vars(r)["action"] == "toggle" {
		s.UI.ToggleMobileMenu()
	} else {
		s.UI.CloseMobileMenu()
	}
	writeOK(h.responder, w, s.UI.State())
}

// Search handles POST /ui/search/{toggle|close} requests.
func (h *UIHandler) Search(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	if mux.Vars(r)["action"] == "toggle" {
		s.UI.ToggleSearch()
	} else {
		s.UI.CloseSearch()
	}
	writeOK(h.responder, w, s.UI.State())
}

// SetLoading handles PUT /ui/loading requests.
func (h *UIHandler) SetLoading(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	var req LoadingRequest
	if !h.decode(w, r, &req) {
		return
	}

	s.UI.SetLoading(req.Loading)
	writeOK(h.responder, w, s.UI.State())
}

// Navigate handles POST /ui/navigate requests. A route change closes the
// mobile menu.
func (h *UIHandler) Navigate(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	s.UI.CloseMobileMenu()
	writeOK(h.responder, w, s.UI.State())
}
