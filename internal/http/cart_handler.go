package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Koalla18/TakeSmart/internal/cart"
	"github.com/Koalla18/TakeSmart/internal/catalog"
	"github.com/Koalla18/TakeSmart/internal/kv"
)

const HeaderSessionID = "X-Session-Id"

// ProductSource supplies product records for add-to-cart; the live
// catalog service in production.
type ProductSource interface {
	GetProduct(ctx context.Context, id string) (*catalog.Product, error)
}

type CartHandler struct {
	kv       kv.Store
	products ProductSource
	logger   *log.Logger
}

func NewCartHandler(store kv.Store, products ProductSource, logger *log.Logger) *CartHandler {
	return &CartHandler{kv: store, products: products, logger: logger}
}

type cartView struct {
	Items     []cart.LineItem `json:"items"`
	ItemCount int             `json:"itemCount"`
	Subtotal  int64           `json:"subtotal"`
}

func viewOf(s *cart.Store) cartView {
	items := s.Items()
	if items == nil {
		items = []cart.LineItem{}
	}
	return cartView{Items: items, ItemCount: s.ItemCount(), Subtotal: s.Subtotal()}
}

// loadStore builds the per-session cart store. A missing session header
// is the one client error every cart endpoint shares.
func (h *CartHandler) loadStore(w http.ResponseWriter, r *http.Request) (*cart.Store, bool) {
	sessionID := r.Header.Get(HeaderSessionID)
	if sessionID == "" {
		writeError(w, http.StatusBadRequest, "missing "+HeaderSessionID+" header")
		return nil, false
	}

	s := cart.NewStore(h.kv, cart.StorageKey(sessionID), h.logger)
	s.Load(r.Context())
	return s, true
}

func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	s, ok := h.loadStore(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, viewOf(s))
}

func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	s, ok := h.loadStore(w, r)
	if !ok {
		return
	}

	var body struct {
		ProductID string `json:"productId"`
		Quantity  int    `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if body.ProductID == "" {
		writeError(w, http.StatusBadRequest, "missing productId")
		return
	}
	if body.Quantity == 0 {
		body.Quantity = 1
	}

	p, err := h.products.GetProduct(r.Context(), body.ProductID)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			writeError(w, http.StatusNotFound, "product not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to load product")
		return
	}

	s.AddItem(r.Context(), *p, body.Quantity)
	writeJSON(w, http.StatusOK, viewOf(s))
}

func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	s, ok := h.loadStore(w, r)
	if !ok {
		return
	}

	productID := chi.URLParam(r, "productId")

	var body struct {
		Quantity int `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	s.UpdateQuantity(r.Context(), productID, body.Quantity)
	writeJSON(w, http.StatusOK, viewOf(s))
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	s, ok := h.loadStore(w, r)
	if !ok {
		return
	}

	s.RemoveItem(r.Context(), chi.URLParam(r, "productId"))
	writeJSON(w, http.StatusOK, viewOf(s))
}

func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	s, ok := h.loadStore(w, r)
	if !ok {
		return
	}

	s.Clear(r.Context())
	writeJSON(w, http.StatusOK, viewOf(s))
}
