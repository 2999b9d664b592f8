package handler

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/vyrodovalexey/zuice-storefront/internal/cart"
	"github.com/vyrodovalexey/zuice-storefront/internal/metrics"
	"github.com/vyrodovalexey/zuice-storefront/internal/model"
)

// AddItemRequest adds a product to the cart. A bare ID is resolved against
// the session catalog; a request carrying a name and price is taken as is.
type AddItemRequest struct {
	ID    string           `json:"id" validate:"required,max=64"`
	Name  string           `json:"name" validate:"max=255"`
	Price *decimal.Decimal `json:"price"`
	Image string           `json:"image" validate:"omitempty,uri"`
}

// Validate checks the request fields.
func (r *AddItemRequest) Validate() error {
	if err := model.Validate(r); err != nil {
		return err
	}
	if r.Price != nil && r.Price.IsNegative() {
		return model.ErrNegativePrice
	}
	return nil
}

// QuantityRequest sets a line item quantity. Zero or less removes the item.
type QuantityRequest struct {
	Quantity int `json:"quantity"`
}

// CartResponse is the cart state with its derived totals.
type CartResponse struct {
	Items      []model.LineItem `json:"items"`
	IsOpen     bool             `json:"isOpen"`
	TotalItems int              `json:"totalItems"`
	TotalPrice decimal.Decimal  `json:"totalPrice"`
}

func newCartResponse(st cart.State) CartResponse {
	return CartResponse{
		Items:      st.Items,
		IsOpen:     st.IsOpen,
		TotalItems: st.TotalItems(),
		TotalPrice: st.TotalPrice(),
	}
}

// CartHandler serves the shopping cart.
type CartHandler struct {
	responder
}

// NewCartHandler creates a new CartHandler.
func NewCartHandler(logger *zap.Logger) *CartHandler {
	return &CartHandler{responder: responder{logger: logger}}
}

// RegisterRoutes registers the cart routes with the router.
func (h *CartHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/cart", h.GetCart).Methods(http.MethodGet)
	router.HandleFunc("/cart", h.ClearCart).Methods(http.MethodDelete)
	router.HandleFunc("/cart/items", h.AddItem).Methods(http.MethodPost)
	router.HandleFunc("/cart/items/{id}", h.UpdateQuantity).Methods(http.MethodPut)
	router.HandleFunc("/cart/items/{id}", h.RemoveItem).Methods(http.MethodDelete)
	router.HandleFunc("/cart/{action:toggle|open|close}", h.Drawer).Methods(http.MethodPost)
}

// GetCart handles GET /cart requests.
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	writeOK(h.responder, w, newCartResponse(s.Cart.State()))
}

// AddItem handles POST /cart/items requests.
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	var req AddItemRequest
	if !h.decode(w, r, &req) {
		return
	}

	item := model.LineItem{ID: req.ID, Name: req.Name, Image: req.Image}
	if req.Price == nil {
		p, found := s.Catalog.Product(req.ID)
		if !found {
			h.writeError(w, http.StatusNotFound, "product not found")
			return
		}
		item = p.LineItem()
	} else {
		item.Price = *req.Price
	}

	s.Cart.AddItem(item)
	metrics.CartOperation("add")
	h.writeJSON(w, http.StatusCreated, model.NewSuccessResponse(newCartResponse(s.Cart.State())))
}

// UpdateQuantity handles PUT /cart/items/{id} requests. Unknown IDs leave
// the cart unchanged.
func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	var req QuantityRequest
	if !h.decode(w, r, &req) {
		return
	}

	s.Cart.UpdateQuantity(mux.Vars(r)["id"], req.Quantity)
	metrics.CartOperation("update")
	writeOK(h.responder, w, newCartResponse(s.Cart.State()))
}

// RemoveItem handles DELETE /cart/items/{id} requests.
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	s.Cart.RemoveItem(mux.Vars(r)["id"])
	metrics.CartOperation("remove")
	writeOK(h.responder, w, newCartResponse(s.Cart.State()))
}

// ClearCart handles DELETE /cart requests.
func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	s.Cart.Clear()
	metrics.CartOperation("clear")
	writeOK(h.responder, w, newCartResponse(s.Cart.State()))
}

// Drawer handles POST /cart/{toggle|open|close} requests.
func (h *CartHandler) Drawer(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	action := mux.Vars(r)["action"]
	switch action {
	case "toggle":
		s.Cart.Toggle()
	case "open":
		s.Cart.Open()
	case "close":
		s.Cart.Close()
	}
	metrics.CartOperation(action)
	writeOK(h.responder, w, newCartResponse(s.Cart.State()))
}
