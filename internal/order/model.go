package order

import "time"

// Order statuses, in fulfillment sequence.
const (
	StatusNew       = "new"
	StatusAssembled = "assembled"
	StatusPickedUp  = "picked_up"
	StatusDelivered = "delivered"
	StatusCanceled  = "canceled"
)

// Order is the single canonical order record. Provider payloads with
// looser shapes are mapped into it once, at the ingestion boundary.
type Order struct {
	ID                string    `json:"orderId"`
	OrderNumber       string    `json:"orderNumber"`
	UserID            string    `json:"userId"`
	StoreID           string    `json:"storeId"`
	Status            string    `json:"status"`
	DeliveryAddress   string    `json:"deliveryAddress"`
	DeliveryDate      string    `json:"deliveryDate"`
	DeliverySlot      string    `json:"deliverySlot"`
	Phone             string    `json:"phone"`
	Notes             string    `json:"notes,omitempty"`
	Subtotal          float64   `json:"subtotal"`
	PlatformFee       float64   `json:"platformFee"`
	Total             float64   `json:"total"`
	ProviderSessionID string    `json:"providerSessionId,omitempty"`
	ProviderIntentID  string    `json:"providerIntentId,omitempty"`
	Items             []Item    `json:"items"`
	CreatedAt         time.Time `json:"createdAt"`
}

type Item struct {
	ItemID    string  `json:"itemId,omitempty"`
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unitPrice"`
}

func ValidStatus(s string) bool {
	switch s {
	case StatusNew, StatusAssembled, StatusPickedUp, StatusDelivered, StatusCanceled:
		return true
	}
	return false
}
