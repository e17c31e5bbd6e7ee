package httpapi

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/quantnexusai/ai-groceries/internal/checkout"
)

type CheckoutHandler struct {
	orchestrator *checkout.Orchestrator
	baseURL      string
	logger       *log.Logger
}

// NewCheckoutHandler takes the public base URL used to build default
// payment redirect targets when the caller supplies none.
func NewCheckoutHandler(o *checkout.Orchestrator, baseURL string, logger *log.Logger) *CheckoutHandler {
	return &CheckoutHandler{orchestrator: o, baseURL: baseURL, logger: logger}
}

type checkoutRequest struct {
	StoreID    string           `json:"storeId,omitempty"`
	Confirm    bool             `json:"confirm"`
	Details    checkout.Details `json:"details"`
	SuccessURL string           `json:"successUrl,omitempty"`
	CancelURL  string           `json:"cancelUrl,omitempty"`
}

// Checkout prices the in-scope lines and, when confirm is set, runs
// the checkout. Without confirm it returns the quote only.
func (h *CheckoutHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	cartID := chi.URLParam(r, "cartId")

	var req checkoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	quote, err := h.orchestrator.Quote(r.Context(), cartID, req.StoreID)
	if err != nil {
		if errors.Is(err, checkout.ErrEmptyCart) {
			writeError(w, http.StatusBadRequest, "nothing to check out")
			return
		}
		h.logger.Printf("quote cart %s: %v", cartID, err)
		writeError(w, http.StatusInternalServerError, "failed to price checkout")
		return
	}

	if !req.Confirm {
		writeJSON(w, http.StatusOK, map[string]any{"quote": quote})
		return
	}

	successURL := req.SuccessURL
	if successURL == "" {
		successURL = h.baseURL + "/checkout/success"
	}
	cancelURL := req.CancelURL
	if cancelURL == "" {
		cancelURL = h.baseURL + "/checkout/cancel"
	}

	result, err := h.orchestrator.Confirm(r.Context(), cartID, req.StoreID, req.Details, successURL, cancelURL)
	if err != nil {
		switch {
		case errors.Is(err, checkout.ErrNotReady):
			writeError(w, http.StatusBadRequest, "address, phone and a delivery slot are required")
		case errors.Is(err, checkout.ErrEmptyCart):
			writeError(w, http.StatusBadRequest, "nothing to check out")
		default:
			h.logger.Printf("confirm checkout %s: %v", cartID, err)
			writeError(w, http.StatusInternalServerError, "failed to complete checkout")
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"quote": quote, "result": result})
}
