package httpapi

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/quantnexusai/ai-groceries/internal/cart"
	"github.com/quantnexusai/ai-groceries/internal/catalog"
)

type CartHandler struct {
	carts   *cart.Service
	catalog catalog.Repository
	logger  *log.Logger
}

func NewCartHandler(carts *cart.Service, cat catalog.Repository, logger *log.Logger) *CartHandler {
	return &CartHandler{carts: carts, catalog: cat, logger: logger}
}

type cartResponse struct {
	CartID    string      `json:"cartId"`
	Lines     []cart.Line `json:"lines"`
	ItemCount int         `json:"itemCount"`
	Subtotal  float64     `json:"subtotal"`
}

func cartView(cartID string, s cart.Snapshot) cartResponse {
	return cartResponse{
		CartID:    cartID,
		Lines:     s.Lines(),
		ItemCount: s.ItemCount(),
		Subtotal:  s.Subtotal(),
	}
}

func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	cartID := chi.URLParam(r, "cartId")
	snap, err := h.carts.Get(r.Context(), cartID)
	if err != nil {
		h.logger.Printf("load cart %s: %v", cartID, err)
		writeError(w, http.StatusInternalServerError, "failed to load cart")
		return
	}
	writeJSON(w, http.StatusOK, cartView(cartID, snap))
}

type addItemRequest struct {
	ItemID   string `json:"itemId"`
	Quantity int    `json:"quantity"`
}

// AddItem resolves the item against the catalog so prices, store id
// and the stock ceiling on the line are authoritative, not
// caller-supplied.
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	cartID := chi.URLParam(r, "cartId")

	var req addItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.ItemID == "" {
		writeError(w, http.StatusBadRequest, "missing itemId")
		return
	}
	if req.Quantity <= 0 {
		req.Quantity = 1
	}

	item, err := h.catalog.GetItem(r.Context(), req.ItemID)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			writeError(w, http.StatusNotFound, "item not found")
			return
		}
		h.logger.Printf("get item %s: %v", req.ItemID, err)
		writeError(w, http.StatusInternalServerError, "failed to load item")
		return
	}

	line := cart.Line{
		ItemID:   item.ID,
		StoreID:  item.StoreID,
		Name:     item.Name,
		Price:    item.Price,
		Quantity: req.Quantity,
		Stock:    item.Stock,
	}
	if item.Sale && item.SalePrice != nil && *item.SalePrice > 0 {
		line.SalePrice = *item.SalePrice
	}

	snap, err := h.carts.Add(r.Context(), cartID, line)
	if err != nil {
		h.logger.Printf("add to cart %s: %v", cartID, err)
		writeError(w, http.StatusInternalServerError, "failed to save cart")
		return
	}
	writeJSON(w, http.StatusOK, cartView(cartID, snap))
}

type updateQuantityRequest struct {
	Quantity int `json:"quantity"`
}

func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	cartID := chi.URLParam(r, "cartId")
	itemID := chi.URLParam(r, "itemId")

	var req updateQuantityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	snap, err := h.carts.UpdateQuantity(r.Context(), cartID, itemID, req.Quantity)
	if err != nil {
		h.logger.Printf("update cart %s: %v", cartID, err)
		writeError(w, http.StatusInternalServerError, "failed to save cart")
		return
	}
	writeJSON(w, http.StatusOK, cartView(cartID, snap))
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	cartID := chi.URLParam(r, "cartId")
	itemID := chi.URLParam(r, "itemId")

	snap, err := h.carts.Remove(r.Context(), cartID, itemID)
	if err != nil {
		h.logger.Printf("remove from cart %s: %v", cartID, err)
		writeError(w, http.StatusInternalServerError, "failed to save cart")
		return
	}
	writeJSON(w, http.StatusOK, cartView(cartID, snap))
}

// Clear empties the cart, or only one store's lines when ?store= is
// given.
func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	cartID := chi.URLParam(r, "cartId")
	storeID := r.URL.Query().Get("store")

	snap, err := h.carts.Clear(r.Context(), cartID, storeID)
	if err != nil {
		h.logger.Printf("clear cart %s: %v", cartID, err)
		writeError(w, http.StatusInternalServerError, "failed to clear cart")
		return
	}
	writeJSON(w, http.StatusOK, cartView(cartID, snap))
}

type storeSummary struct {
	StoreID  string      `json:"storeId"`
	Lines    []cart.Line `json:"lines"`
	Subtotal float64     `json:"subtotal"`
}

type summaryResponse struct {
	CartID    string         `json:"cartId"`
	Stores    []storeSummary `json:"stores"`
	ItemCount int            `json:"itemCount"`
	Subtotal  float64        `json:"subtotal"`
}

// Summary returns the cart grouped by store with per-store subtotals.
func (h *CartHandler) Summary(w http.ResponseWriter, r *http.Request) {
	cartID := chi.URLParam(r, "cartId")
	snap, err := h.carts.Get(r.Context(), cartID)
	if err != nil {
		h.logger.Printf("load cart %s: %v", cartID, err)
		writeError(w, http.StatusInternalServerError, "failed to load cart")
		return
	}

	resp := summaryResponse{
		CartID:    cartID,
		Stores:    []storeSummary{},
		ItemCount: snap.ItemCount(),
		Subtotal:  snap.Subtotal(),
	}
	for _, g := range snap.GroupByStore() {
		resp.Stores = append(resp.Stores, storeSummary{
			StoreID:  g.StoreID,
			Lines:    g.Lines,
			Subtotal: snap.StoreSubtotal(g.StoreID),
		})
	}
	writeJSON(w, http.StatusOK, resp)
}
