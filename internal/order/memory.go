package order

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// MemoryRepository backs demo mode and tests.
type MemoryRepository struct {
	mu        sync.RWMutex
	orders    map[string]Order
	bySession map[string]string
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		orders:    make(map[string]Order),
		bySession: make(map[string]string),
	}
}

func (r *MemoryRepository) CreateFromSession(_ context.Context, o *Order) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if o.ProviderSessionID != "" {
		if _, exists := r.bySession[o.ProviderSessionID]; exists {
			return false, nil
		}
	}
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	if o.Status == "" {
		o.Status = StatusNew
	}
	r.orders[o.ID] = *o
	if o.ProviderSessionID != "" {
		r.bySession[o.ProviderSessionID] = o.ID
	}
	return true, nil
}

func (r *MemoryRepository) GetByID(_ context.Context, orderID string) (*Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	o, ok := r.orders[orderID]
	if !ok {
		return nil, ErrNotFound
	}
	return &o, nil
}

func (r *MemoryRepository) ListByUser(_ context.Context, userID string) ([]Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []Order
	for _, o := range r.orders {
		if o.UserID == userID {
			out = append(out, o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *MemoryRepository) UpdateStatus(_ context.Context, orderID, status string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	o, ok := r.orders[orderID]
	if !ok {
		return ErrNotFound
	}
	o.Status = status
	r.orders[orderID] = o
	return nil
}
