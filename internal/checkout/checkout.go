package checkout

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/quantnexusai/ai-groceries/internal/cart"
	"github.com/quantnexusai/ai-groceries/internal/payments"
)

// PlatformFee is the flat delivery and platform surcharge added once
// per checkout regardless of scope size.
const PlatformFee = 5.00

var (
	ErrEmptyCart = errors.New("nothing to check out")
	ErrNotReady  = errors.New("delivery details are incomplete")
)

// SessionCreator is satisfied by payments.Client; nil selects the
// offline confirmation path.
type SessionCreator interface {
	CreateSession(ctx context.Context, req payments.SessionRequest) (payments.Session, error)
}

// Details holds the delivery form state a checkout requires.
type Details struct {
	UserID       string `json:"userId"`
	Address      string `json:"address"`
	Phone        string `json:"phone"`
	DeliveryDate string `json:"deliveryDate"`
	DeliverySlot string `json:"deliverySlot"`
	Notes        string `json:"notes,omitempty"`
}

// Ready reports whether checkout may proceed: address, phone, a
// delivery date and a delivery slot must all be present. Checkout is
// disabled, not merely warned, while this is false.
func (d Details) Ready() bool {
	return strings.TrimSpace(d.Address) != "" &&
		strings.TrimSpace(d.Phone) != "" &&
		d.DeliveryDate != "" &&
		d.DeliverySlot != ""
}

// Quote is the fee-inclusive view of the in-scope lines.
type Quote struct {
	StoreID     string      `json:"storeId,omitempty"`
	Lines       []cart.Line `json:"lines"`
	Subtotal    float64     `json:"subtotal"`
	PlatformFee float64     `json:"platformFee"`
	Total       float64     `json:"total"`
}

// Result is the outcome of a confirmed checkout: either a hosted
// payment redirect or an immediately confirmed order reference.
type Result struct {
	RedirectURL string `json:"redirectUrl,omitempty"`
	OrderRef    string `json:"orderRef,omitempty"`
}

// Orchestrator scopes the cart, prices the checkout and either hands
// off to the payment provider or confirms locally.
type Orchestrator struct {
	cart     *cart.Service
	payments SessionCreator
	logger   *log.Logger
}

func NewOrchestrator(cartSvc *cart.Service, pc SessionCreator, logger *log.Logger) *Orchestrator {
	return &Orchestrator{cart: cartSvc, payments: pc, logger: logger}
}

// Quote resolves the in-scope lines (one store when storeID is set,
// the whole cart otherwise) and prices them including the platform
// fee.
func (o *Orchestrator) Quote(ctx context.Context, cartID, storeID string) (Quote, error) {
	snap, err := o.cart.Get(ctx, cartID)
	if err != nil {
		return Quote{}, fmt.Errorf("load cart: %w", err)
	}

	q := Quote{StoreID: storeID, PlatformFee: PlatformFee}
	if storeID != "" {
		q.Lines = snap.StoreLines(storeID)
		q.Subtotal = snap.StoreSubtotal(storeID)
	} else {
		q.Lines = snap.Lines()
		q.Subtotal = snap.Subtotal()
	}
	if len(q.Lines) == 0 {
		return Quote{}, ErrEmptyCart
	}
	q.Total = q.Subtotal + q.PlatformFee
	return q, nil
}

// Confirm runs a checkout for the scoped lines. With a payment
// provider configured it creates a hosted checkout session and leaves
// the cart intact until the webhook confirms payment. Without one it
// clears the in-scope lines immediately and returns a generated order
// reference. The demo path needs no provider round-trip.
func (o *Orchestrator) Confirm(ctx context.Context, cartID, storeID string, d Details, successURL, cancelURL string) (Result, error) {
	if !d.Ready() {
		return Result{}, ErrNotReady
	}

	q, err := o.Quote(ctx, cartID, storeID)
	if err != nil {
		return Result{}, err
	}

	if o.payments == nil {
		ref := NewOrderReference(time.Now())
		if _, err := o.cart.Clear(ctx, cartID, storeID); err != nil {
			return Result{}, fmt.Errorf("clear cart: %w", err)
		}
		o.logger.Printf("offline checkout confirmed, reference %s (cart %s)", ref, cartID)
		return Result{OrderRef: ref}, nil
	}

	req := payments.SessionRequest{
		SuccessURL: successURL,
		CancelURL:  cancelURL,
		Metadata: map[string]string{
			"cart_id":            cartID,
			"store_id":           storeID,
			"user_id":            d.UserID,
			"order_number":       NewOrderReference(time.Now()),
			"delivery_address":   d.Address,
			"delivery_date":      d.DeliveryDate,
			"delivery_slot":      d.DeliverySlot,
			"phone":              d.Phone,
			"notes":              d.Notes,
			"platform_fee_cents": strconv.FormatInt(payments.ToCents(q.PlatformFee), 10),
		},
	}
	for _, l := range q.Lines {
		req.Lines = append(req.Lines, payments.SessionLine{
			ItemID:     l.ItemID,
			Name:       l.Name,
			UnitAmount: payments.ToCents(l.EffectivePrice()),
			Quantity:   l.Quantity,
		})
	}
	// The fee rides along as its own display line.
	req.Lines = append(req.Lines, payments.SessionLine{
		Name:       "Delivery & Platform Fee",
		UnitAmount: payments.ToCents(q.PlatformFee),
		Quantity:   1,
	})

	sess, err := o.payments.CreateSession(ctx, req)
	if err != nil {
		return Result{}, fmt.Errorf("create checkout session: %w", err)
	}
	return Result{RedirectURL: sess.URL}, nil
}

// NewOrderReference generates a human-readable order reference like
// GR-260901-4F2A.
func NewOrderReference(now time.Time) string {
	suffix := strings.ToUpper(uuid.NewString()[:4])
	return fmt.Sprintf("GR-%s-%s", now.Format("060102"), suffix)
}
