package httpapi

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/Koalla18/TakeSmart/internal/cart"
	"github.com/Koalla18/TakeSmart/internal/checkout"
	"github.com/Koalla18/TakeSmart/internal/kv"
	"github.com/Koalla18/TakeSmart/internal/pricing"
)

type CheckoutHandler struct {
	kv       kv.Store
	checkout *checkout.Service
	logger   *log.Logger
}

func NewCheckoutHandler(store kv.Store, svc *checkout.Service, logger *log.Logger) *CheckoutHandler {
	return &CheckoutHandler{kv: store, checkout: svc, logger: logger}
}

// Quote recomputes the pricing preview for the session's cart and the
// selected options; the checkout page calls it on every option change.
func (h *CheckoutHandler) Quote(w http.ResponseWriter, r *http.Request) {
	sessionID := r.Header.Get(HeaderSessionID)
	if sessionID == "" {
		writeError(w, http.StatusBadRequest, "missing "+HeaderSessionID+" header")
		return
	}

	payment := pricing.PaymentMethod(r.URL.Query().Get("payment"))
	delivery := pricing.DeliveryMethod(r.URL.Query().Get("delivery"))

	s := cart.NewStore(h.kv, cart.StorageKey(sessionID), h.logger)
	s.Load(r.Context())

	quote, err := pricing.MakeQuote(s.Subtotal(), payment, delivery)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, quote)
}

func (h *CheckoutHandler) Submit(w http.ResponseWriter, r *http.Request) {
	sessionID := r.Header.Get(HeaderSessionID)
	if sessionID == "" {
		writeError(w, http.StatusBadRequest, "missing "+HeaderSessionID+" header")
		return
	}

	var req checkout.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	s := cart.NewStore(h.kv, cart.StorageKey(sessionID), h.logger)
	s.Load(r.Context())

	conf, err := h.checkout.Submit(r.Context(), s, req)
	if err != nil {
		var vErr *checkout.ValidationError
		if errors.As(err, &vErr) {
			writeError(w, http.StatusBadRequest, vErr.Error())
			return
		}
		h.logger.Printf("checkout submit: %v", err)
		writeError(w, http.StatusBadGateway, "failed to place order")
		return
	}

	writeJSON(w, http.StatusCreated, conf)
}
