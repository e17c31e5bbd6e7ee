package cart

// Line is one row in a cart: a single catalog item with its requested
// quantity. Name, store id, prices and the stock ceiling are
// denormalized at add time so the cart renders without re-fetching the
// catalog.
type Line struct {
	ItemID    string  `json:"itemId"`
	StoreID   string  `json:"storeId"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	SalePrice float64 `json:"salePrice,omitempty"`
	Quantity  int     `json:"quantity"`
	Stock     int     `json:"stock"`
}

// EffectivePrice is the sale price when positive, otherwise the list
// price.
func (l Line) EffectivePrice() float64 {
	if l.SalePrice > 0 {
		return l.SalePrice
	}
	return l.Price
}

// Snapshot is the ordered set of cart lines at a point in time. All
// operations return a new Snapshot and never mutate the receiver, so
// snapshots are safe to share and trivial to test.
type Snapshot struct {
	lines []Line
}

func NewSnapshot(lines ...Line) Snapshot {
	s := Snapshot{lines: make([]Line, len(lines))}
	copy(s.lines, lines)
	return s
}

// Lines returns a copy of the lines in insertion order.
func (s Snapshot) Lines() []Line {
	out := make([]Line, len(s.lines))
	copy(out, s.lines)
	return out
}

func (s Snapshot) Len() int { return len(s.lines) }

func (s Snapshot) Empty() bool { return len(s.lines) == 0 }

// Add merges the incoming line into the snapshot. If a line with the
// same item id exists its quantity grows by the incoming quantity;
// otherwise the line is appended. The resulting quantity is always
// clamped to [1, stock], including on the first add, so a caller
// passing an oversized quantity can never exceed the stock ceiling.
// A line with no stock is not added at all.
func (s Snapshot) Add(l Line) Snapshot {
	out := s.Lines()
	for i := range out {
		if out[i].ItemID == l.ItemID {
			out[i].Quantity = clamp(out[i].Quantity+l.Quantity, out[i].Stock)
			return Snapshot{lines: out}
		}
	}
	if l.Stock < 1 {
		return Snapshot{lines: out}
	}
	l.Quantity = clamp(l.Quantity, l.Stock)
	return Snapshot{lines: append(out, l)}
}

// Remove deletes the line with the given item id. Removing an absent
// item is a no-op.
func (s Snapshot) Remove(itemID string) Snapshot {
	out := make([]Line, 0, len(s.lines))
	for _, l := range s.lines {
		if l.ItemID != itemID {
			out = append(out, l)
		}
	}
	return Snapshot{lines: out}
}

// UpdateQuantity sets the quantity of the line with the given item id,
// clamped to the stock ceiling. A quantity of zero or less removes the
// line.
func (s Snapshot) UpdateQuantity(itemID string, quantity int) Snapshot {
	if quantity <= 0 {
		return s.Remove(itemID)
	}
	out := s.Lines()
	for i := range out {
		if out[i].ItemID == itemID {
			out[i].Quantity = clamp(quantity, out[i].Stock)
		}
	}
	return Snapshot{lines: out}
}

// Clear empties the cart.
func (s Snapshot) Clear() Snapshot {
	return Snapshot{}
}

// ClearStore removes only the lines belonging to the given store,
// leaving all other lines and their order untouched.
func (s Snapshot) ClearStore(storeID string) Snapshot {
	out := make([]Line, 0, len(s.lines))
	for _, l := range s.lines {
		if l.StoreID != storeID {
			out = append(out, l)
		}
	}
	return Snapshot{lines: out}
}

// ItemCount is the sum of quantities across all lines, not the number
// of lines.
func (s Snapshot) ItemCount() int {
	n := 0
	for _, l := range s.lines {
		n += l.Quantity
	}
	return n
}

// Subtotal is the sum of effective price times quantity across all
// lines.
func (s Snapshot) Subtotal() float64 {
	sum := 0.0
	for _, l := range s.lines {
		sum += l.EffectivePrice() * float64(l.Quantity)
	}
	return sum
}

// StoreSubtotal is the subtotal restricted to one store's lines.
func (s Snapshot) StoreSubtotal(storeID string) float64 {
	sum := 0.0
	for _, l := range s.lines {
		if l.StoreID == storeID {
			sum += l.EffectivePrice() * float64(l.Quantity)
		}
	}
	return sum
}

// StoreGroup is one store's lines in the order they were added.
type StoreGroup struct {
	StoreID string `json:"storeId"`
	Lines   []Line `json:"lines"`
}

// GroupByStore groups lines by store id. Groups appear in first-seen
// store order and lines keep their insertion order within each group.
func (s Snapshot) GroupByStore() []StoreGroup {
	index := make(map[string]int)
	var groups []StoreGroup
	for _, l := range s.lines {
		i, ok := index[l.StoreID]
		if !ok {
			i = len(groups)
			index[l.StoreID] = i
			groups = append(groups, StoreGroup{StoreID: l.StoreID})
		}
		groups[i].Lines = append(groups[i].Lines, l)
	}
	return groups
}

// StoreLines returns one store's lines in insertion order.
func (s Snapshot) StoreLines(storeID string) []Line {
	var out []Line
	for _, l := range s.lines {
		if l.StoreID == storeID {
			out = append(out, l)
		}
	}
	return out
}

func clamp(quantity, stock int) int {
	if quantity > stock {
		quantity = stock
	}
	if quantity < 1 {
		quantity = 1
	}
	return quantity
}
