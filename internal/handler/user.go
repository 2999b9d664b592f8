package handler

import (
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/vyrodovalexey/zuice-storefront/internal/model"
)

// UserHandler serves the current visitor profile. Login takes the profile
// as given; verifying credentials is not this service's job.
type UserHandler struct {
	responder
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(logger *zap.Logger) *UserHandler {
	return &UserHandler{responder: responder{logger: logger}}
}

// RegisterRoutes registers the user routes with the router.
func (h *UserHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/user", h.GetUser).Methods(http.MethodGet)
	router.HandleFunc("/user", h.UpdateUser).Methods(http.MethodPatch)
	router.HandleFunc("/user/login", h.Login).Methods(http.MethodPost)
	router.HandleFunc("/user/logout", h.Logout).Methods(http.MethodPost)
}

// GetUser handles GET /user requests.
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	writeOK(h.responder, w, s.User.State())
}

// Login handles POST /user/login requests.
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	var u model.User
	if !h.decode(w, r, &u) {
		return
	}

	s.User.Login(u)
	writeOK(h.responder, w, s.User.State())
}

// Logout handles POST /user/logout requests.
func (h *UserHandler) Logout(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	s.User.Logout()
	writeOK(h.responder, w, s.User.State())
}

// UpdateUser handles PATCH /user requests with a shallow merge.
func (h *UserHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	var patch model.UserPatch
	if !h.decode(w, r, &patch) {
		return
	}

	s.User.UpdateUser(patch)
	writeOK(h.responder, w, s.User.State())
}
