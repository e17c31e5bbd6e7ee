package httpapi

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/quantnexusai/ai-groceries/internal/catalog"
)

type CatalogHandler struct {
	repo   catalog.Repository
	logger *log.Logger
}

func NewCatalogHandler(repo catalog.Repository, logger *log.Logger) *CatalogHandler {
	return &CatalogHandler{repo: repo, logger: logger}
}

func (h *CatalogHandler) ListStores(w http.ResponseWriter, r *http.Request) {
	zip := r.URL.Query().Get("zip")
	stores, err := h.repo.ListStores(r.Context(), zip)
	if err != nil {
		h.logger.Printf("list stores: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to load stores")
		return
	}
	if stores == nil {
		stores = []catalog.Store{}
	}
	writeJSON(w, http.StatusOK, stores)
}

func (h *CatalogHandler) GetStore(w http.ResponseWriter, r *http.Request) {
	storeID := chi.URLParam(r, "storeId")
	store, err := h.repo.GetStore(r.Context(), storeID)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			writeError(w, http.StatusNotFound, "store not found")
			return
		}
		h.logger.Printf("get store %s: %v", storeID, err)
		writeError(w, http.StatusInternalServerError, "failed to load store")
		return
	}
	writeJSON(w, http.StatusOK, store)
}

func (h *CatalogHandler) ListItems(w http.ResponseWriter, r *http.Request) {
	storeID := chi.URLParam(r, "storeId")
	department := r.URL.Query().Get("department")

	items, err := h.repo.ListItems(r.Context(), storeID, department)
	if err != nil {
		h.logger.Printf("list items for %s: %v", storeID, err)
		writeError(w, http.StatusInternalServerError, "failed to load items")
		return
	}
	if items == nil {
		items = []catalog.Item{}
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *CatalogHandler) GetItem(w http.ResponseWriter, r *http.Request) {
	itemID := chi.URLParam(r, "itemId")
	item, err := h.repo.GetItem(r.Context(), itemID)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			writeError(w, http.StatusNotFound, "item not found")
			return
		}
		h.logger.Printf("get item %s: %v", itemID, err)
		writeError(w, http.StatusInternalServerError, "failed to load item")
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (h *CatalogHandler) ListDepartments(w http.ResponseWriter, r *http.Request) {
	deps, err := h.repo.ListDepartments(r.Context())
	if err != nil {
		h.logger.Printf("list departments: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to load departments")
		return
	}
	writeJSON(w, http.StatusOK, deps)
}

func (h *CatalogHandler) ListDeliverySlots(w http.ResponseWriter, r *http.Request) {
	slots, err := h.repo.ListDeliverySlots(r.Context())
	if err != nil {
		h.logger.Printf("list delivery slots: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to load delivery slots")
		return
	}
	writeJSON(w, http.StatusOK, slots)
}

func (h *CatalogHandler) UpsertStore(w http.ResponseWriter, r *http.Request) {
	var s catalog.Store
	if err := json.NewDecoder(r.Body).Decode(&s); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if s.ID == "" || s.Name == "" {
		writeError(w, http.StatusBadRequest, "store id and name are required")
		return
	}

	if err := h.repo.UpsertStore(r.Context(), &s); err != nil {
		h.logger.Printf("upsert store %s: %v", s.ID, err)
		writeError(w, http.StatusInternalServerError, "failed to save store")
		return
	}
	writeJSON(w, http.StatusOK, s)
}

func (h *CatalogHandler) UpsertItem(w http.ResponseWriter, r *http.Request) {
	var it catalog.Item
	if err := json.NewDecoder(r.Body).Decode(&it); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if it.ID == "" || it.StoreID == "" || it.Name == "" {
		writeError(w, http.StatusBadRequest, "item id, store id and name are required")
		return
	}
	if it.Price < 0 || it.Stock < 0 {
		writeError(w, http.StatusBadRequest, "price and stock must be non-negative")
		return
	}
	if it.MeasureType == "" {
		it.MeasureType = catalog.MeasureUnit
	}

	if err := h.repo.UpsertItem(r.Context(), &it); err != nil {
		h.logger.Printf("upsert item %s: %v", it.ID, err)
		writeError(w, http.StatusInternalServerError, "failed to save item")
		return
	}
	writeJSON(w, http.StatusOK, it)
}
