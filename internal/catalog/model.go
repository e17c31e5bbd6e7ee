package catalog

import "time"

// MeasureType distinguishes items sold per unit from items sold by
// weight.
const (
	MeasureUnit   = "unit"
	MeasureWeight = "weight"
)

type Department struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Icon      string    `json:"icon"`
	SortOrder int       `json:"sortOrder"`
	CreatedAt time.Time `json:"createdAt"`
}

type Store struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Address       string    `json:"address"`
	Description   string    `json:"description"`
	LogoURL       string    `json:"logoUrl"`
	ImageURL      string    `json:"imageUrl"`
	ServicedZips  []string  `json:"servicedZips"`
	DepartmentIDs []string  `json:"departmentIds"`
	Active        bool      `json:"active"`
	Rating        float64   `json:"rating"`
	ReviewCount   int       `json:"reviewCount"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// ServesZip reports whether the store delivers to the given zip code.
// A store with no serviced zips delivers everywhere.
func (s Store) ServesZip(zip string) bool {
	if len(s.ServicedZips) == 0 {
		return true
	}
	for _, z := range s.ServicedZips {
		if z == zip {
			return true
		}
	}
	return false
}

type Item struct {
	ID           string    `json:"id"`
	StoreID      string    `json:"storeId"`
	DepartmentID string    `json:"departmentId,omitempty"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	ImageURL     string    `json:"imageUrl"`
	Price        float64   `json:"price"`
	Sale         bool      `json:"sale"`
	SalePrice    *float64  `json:"salePrice,omitempty"`
	MeasureType  string    `json:"measureType"`
	Weight       *float64  `json:"weight,omitempty"`
	Stock        int       `json:"stock"`
	Visible      bool      `json:"visible"`
	Provenance   string    `json:"provenance,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// EffectivePrice is the sale price when the item is on sale with a
// positive sale price, otherwise the list price.
func (i Item) EffectivePrice() float64 {
	if i.Sale && i.SalePrice != nil && *i.SalePrice > 0 {
		return *i.SalePrice
	}
	return i.Price
}

type DeliverySlot struct {
	ID        string `json:"id"`
	Label     string `json:"label"`
	StartHour int    `json:"startHour"`
	EndHour   int    `json:"endHour"`
	Active    bool   `json:"active"`
	SortOrder int    `json:"sortOrder"`
}
