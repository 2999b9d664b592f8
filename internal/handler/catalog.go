package handler

import (
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/vyrodovalexey/zuice-storefront/internal/catalog"
	"github.com/vyrodovalexey/zuice-storefront/internal/model"
)

// ProductsRequest replaces the catalog product list.
type ProductsRequest []model.Product

// Validate checks every product.
func (r ProductsRequest) Validate() error {
	for i := range r {
		if err := r[i].Validate(); err != nil {
			return err
		}
	}
	return nil
}

// CategoriesRequest replaces the explicit category list.
type CategoriesRequest []string

// FiltersRequest is a partial filter update.
type FiltersRequest catalog.FilterPatch

// Validate checks the rating bound.
func (r *FiltersRequest) Validate() error {
	return model.Validate(r)
}

// SortRequest selects the sort order. Unknown orders sort by name.
type SortRequest struct {
	SortBy catalog.SortOrder `json:"sortBy" validate:"max=32"`
}

// Validate checks the request fields.
func (r *SortRequest) Validate() error {
	return model.Validate(r)
}

// SearchRequest sets the free-text search query.
type SearchRequest struct {
	Query string `json:"query" validate:"max=255"`
}

// Validate checks the request fields.
func (r *SearchRequest) Validate() error {
	return model.Validate(r)
}

// CatalogHandler serves the product list and its view criteria.
type CatalogHandler struct {
	responder
}

// NewCatalogHandler creates a new CatalogHandler.
func NewCatalogHandler(logger *zap.Logger) *CatalogHandler {
	return &CatalogHandler{responder: responder{logger: logger}}
}

// RegisterRoutes registers the catalog routes with the router.
func (h *CatalogHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/catalog", h.GetState).Methods(http.MethodGet)
	router.HandleFunc("/catalog/products", h.ListProducts).Methods(http.MethodGet)
	router.HandleFunc("/catalog/products", h.SetProducts).Methods(http.MethodPut)
	router.HandleFunc("/catalog/products/{id}", h.GetProduct).Methods(http.MethodGet)
	router.HandleFunc("/catalog/categories", h.GetCategories).Methods(http.MethodGet)
	router.HandleFunc("/catalog/categories", h.SetCategories).Methods(http.MethodPut)
	router.HandleFunc("/catalog/filters", h.UpdateFilters).Methods(http.MethodPatch)
	router.HandleFunc("/catalog/sort", h.SetSortBy).Methods(http.MethodPut)
	router.HandleFunc("/catalog/search", h.SetSearchQuery).Methods(http.MethodPut)
}

// GetState handles GET /catalog requests.
func (h *CatalogHandler) GetState(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	writeOK(h.responder, w, s.Catalog.State())
}

// ListProducts handles GET /catalog/products requests with the filtered,
// sorted view.
func (h *CatalogHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	writeOK(h.responder, w, s.Catalog.FilteredProducts())
}

// GetProduct handles GET /catalog/products/{id} requests.
func (h *CatalogHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	p, found := s.Catalog.Product(mux.Vars(r)["id"])
	if !found {
		h.writeError(w, http.StatusNotFound, "product not found")
		return
	}
	writeOK(h.responder, w, p)
}

// SetProducts handles PUT /catalog/products requests. An untouched price
// filter grows to cover the new prices.
func (h *CatalogHandler) SetProducts(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	var req ProductsRequest
	if !h.decode(w, r, &req) {
		return
	}

	s.Catalog.ReplaceProducts(req)
	writeOK(h.responder, w, s.Catalog.State())
}

// GetCategories handles GET /catalog/categories requests.
func (h *CatalogHandler) GetCategories(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	writeOK(h.responder, w, s.Catalog.Categories())
}

// SetCategories handles PUT /catalog/categories requests.
func (h *CatalogHandler) SetCategories(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	var req CategoriesRequest
	if !h.decode(w, r, &req) {
		return
	}

	s.Catalog.SetCategories(req)
	writeOK(h.responder, w, s.Catalog.Categories())
}

// UpdateFilters handles PATCH /catalog/filters requests. Fields absent
// from the body keep their value.
func (h *CatalogHandler) UpdateFilters(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	var req FiltersRequest
	if !h.decode(w, r, &req) {
		return
	}

	s.Catalog.UpdateFilters(catalog.FilterPatch(req))
	writeOK(h.responder, w, s.Catalog.State().Filters)
}

// SetSortBy handles PUT /catalog/sort requests.
func (h *CatalogHandler) SetSortBy(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	var req SortRequest
	if !h.decode(w, r, &req) {
		return
	}

	s.Catalog.SetSortBy(req.SortBy)
	writeOK(h.responder, w, s.Catalog.FilteredProducts())
}

// SetSearchQuery handles PUT /catalog/search requests.
func (h *CatalogHandler) SetSearchQuery(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	var req SearchRequest
	if !h.decode(w, r, &req) {
		return
	}

	s.Catalog.SetSearchQuery(req.Query)
	writeOK(h.responder, w, s.Catalog.FilteredProducts())
}
