package catalog

import (
	"context"
	"sort"
	"sync"
	"time"
)

// FixtureRepository serves seeded demo data from memory. It is
// selected at startup when no database is configured, so handlers
// never branch on demo mode themselves.
type FixtureRepository struct {
	mu          sync.RWMutex
	stores      map[string]Store
	items       map[string]Item
	departments []Department
	slots       []DeliverySlot
}

func NewFixtureRepository() *FixtureRepository {
	r := &FixtureRepository{
		stores: make(map[string]Store),
		items:  make(map[string]Item),
	}
	r.seed()
	return r
}

func (r *FixtureRepository) ListStores(_ context.Context, zip string) ([]Store, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []Store
	for _, s := range r.stores {
		if !s.Active {
			continue
		}
		if zip != "" && !s.ServesZip(zip) {
			continue
		}
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *FixtureRepository) GetStore(_ context.Context, storeID string) (Store, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.stores[storeID]
	if !ok {
		return Store{}, ErrNotFound
	}
	return s, nil
}

func (r *FixtureRepository) ListItems(_ context.Context, storeID, departmentID string) ([]Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []Item
	for _, it := range r.items {
		if it.StoreID != storeID || !it.Visible {
			continue
		}
		if departmentID != "" && it.DepartmentID != departmentID {
			continue
		}
		out = append(out, it)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *FixtureRepository) GetItem(_ context.Context, itemID string) (Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	it, ok := r.items[itemID]
	if !ok {
		return Item{}, ErrNotFound
	}
	return it, nil
}

func (r *FixtureRepository) ListDepartments(_ context.Context) ([]Department, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Department, len(r.departments))
	copy(out, r.departments)
	return out, nil
}

func (r *FixtureRepository) ListDeliverySlots(_ context.Context) ([]DeliverySlot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]DeliverySlot, len(r.slots))
	copy(out, r.slots)
	return out, nil
}

func (r *FixtureRepository) UpsertStore(_ context.Context, s *Store) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.stores[s.ID]; ok {
		s.CreatedAt = existing.CreatedAt
	} else if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now().UTC()
	}
	s.UpdatedAt = time.Now().UTC()
	r.stores[s.ID] = *s
	return nil
}

func (r *FixtureRepository) UpsertItem(_ context.Context, it *Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.items[it.ID]; ok {
		it.CreatedAt = existing.CreatedAt
	} else if it.CreatedAt.IsZero() {
		it.CreatedAt = time.Now().UTC()
	}
	it.UpdatedAt = time.Now().UTC()
	r.items[it.ID] = *it
	return nil
}

func (r *FixtureRepository) seed() {
	now := time.Now().UTC()

	r.departments = []Department{
		{ID: "dept-1", Name: "Fruits & Vegetables", Icon: "apple", SortOrder: 1, CreatedAt: now},
		{ID: "dept-2", Name: "Dairy & Eggs", Icon: "milk", SortOrder: 2, CreatedAt: now},
		{ID: "dept-3", Name: "Bakery", Icon: "croissant", SortOrder: 3, CreatedAt: now},
		{ID: "dept-4", Name: "Meat & Seafood", Icon: "beef", SortOrder: 4, CreatedAt: now},
		{ID: "dept-5", Name: "Pantry", Icon: "wheat", SortOrder: 5, CreatedAt: now},
	}

	r.slots = []DeliverySlot{
		{ID: "slot-1", Label: "Morning (8am - 11am)", StartHour: 8, EndHour: 11, Active: true, SortOrder: 1},
		{ID: "slot-2", Label: "Midday (11am - 2pm)", StartHour: 11, EndHour: 14, Active: true, SortOrder: 2},
		{ID: "slot-3", Label: "Afternoon (2pm - 5pm)", StartHour: 14, EndHour: 17, Active: true, SortOrder: 3},
		{ID: "slot-4", Label: "Evening (5pm - 8pm)", StartHour: 17, EndHour: 20, Active: true, SortOrder: 4},
	}

	stores := []Store{
		{
			ID: "store-1", Name: "Green Valley Market",
			Address:       "450 Hudson St, New York, NY 10014",
			Description:   "Family-run market with local produce and artisanal goods.",
			ServicedZips:  []string{"10001", "10011", "10014"},
			DepartmentIDs: []string{"dept-1", "dept-2", "dept-5"},
			Active:        true, Rating: 4.8, ReviewCount: 324,
			CreatedAt: now, UpdatedAt: now,
		},
		{
			ID: "store-2", Name: "Harbor Fish & Provisions",
			Address:       "89 South St, New York, NY 10038",
			Description:   "Dock-fresh seafood and butcher counter, delivered same day.",
			ServicedZips:  []string{"10001", "10038"},
			DepartmentIDs: []string{"dept-4", "dept-5"},
			Active:        true, Rating: 4.6, ReviewCount: 198,
			CreatedAt: now, UpdatedAt: now,
		},
		{
			ID: "store-3", Name: "Sunrise Bakery",
			Address:       "201 Bedford Ave, Brooklyn, NY 11211",
			Description:   "Sourdough, pastries and cakes baked every morning.",
			DepartmentIDs: []string{"dept-3"},
			Active:        true, Rating: 4.9, ReviewCount: 412,
			CreatedAt: now, UpdatedAt: now,
		},
	}
	for _, s := range stores {
		r.stores[s.ID] = s
	}

	items := []Item{
		{
			ID: "item-1", StoreID: "store-1", DepartmentID: "dept-1",
			Name: "Organic Honeycrisp Apples", Description: "Crisp and sweet, grown in the Hudson Valley.",
			Price: 3.99, Sale: true, SalePrice: ptr(2.99),
			MeasureType: MeasureWeight, Weight: ptr(500.0), Stock: 40, Visible: true,
			Provenance: "Fix Brothers Farm, Hudson NY",
		},
		{
			ID: "item-2", StoreID: "store-1", DepartmentID: "dept-1",
			Name: "Heirloom Tomatoes", Description: "Mixed varieties, vine ripened.",
			Price: 4.50, MeasureType: MeasureWeight, Weight: ptr(400.0), Stock: 25, Visible: true,
		},
		{
			ID: "item-3", StoreID: "store-1", DepartmentID: "dept-2",
			Name: "Pasture-Raised Eggs", Description: "One dozen large brown eggs.",
			Price: 7.50, MeasureType: MeasureUnit, Stock: 18, Visible: true,
			Provenance: "Feather Ridge Farm, Elizaville NY",
		},
		{
			ID: "item-4", StoreID: "store-2", DepartmentID: "dept-4",
			Name: "Wild Atlantic Salmon Fillet", Description: "Skin-on, cut to order.",
			Price: 14.99, Sale: true, SalePrice: ptr(12.49),
			MeasureType: MeasureWeight, Weight: ptr(300.0), Stock: 12, Visible: true,
		},
		{
			ID: "item-5", StoreID: "store-3", DepartmentID: "dept-3",
			Name: "Country Sourdough Loaf", Description: "Naturally leavened, 36-hour ferment.",
			Price: 8.00, MeasureType: MeasureUnit, Stock: 30, Visible: true,
		},
		{
			ID: "item-6", StoreID: "store-3", DepartmentID: "dept-3",
			Name: "Almond Croissant", Description: "Twice-baked with almond cream.",
			Price: 4.75, MeasureType: MeasureUnit, Stock: 22, Visible: true,
		},
	}
	for _, it := range items {
		it.CreatedAt = now
		it.UpdatedAt = now
		r.items[it.ID] = it
	}
}

func ptr[T any](v T) *T { return &v }
