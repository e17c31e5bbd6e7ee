package payments

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/quantnexusai/ai-groceries/internal/order"
)

// EventCheckoutCompleted is the only event type with a side effect.
// All other recognized-or-not types are acknowledged and logged.
const EventCheckoutCompleted = "checkout.session.completed"

var ErrWebhookNotConfigured = errors.New("webhook secret is not configured")

// Event is the provider's webhook envelope.
type Event struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Data struct {
		Object json.RawMessage `json:"object"`
	} `json:"data"`
}

// CheckoutSession is the completed-session payload. Amounts are
// integer cents.
type CheckoutSession struct {
	ID             string            `json:"id"`
	AmountSubtotal int64             `json:"amount_subtotal"`
	AmountTotal    int64             `json:"amount_total"`
	PaymentIntent  string            `json:"payment_intent"`
	Metadata       map[string]string `json:"metadata"`
	LineItems      []SessionLine     `json:"line_items"`
}

// OrderCreatedPublisher is satisfied by the events package; nil
// disables publishing.
type OrderCreatedPublisher interface {
	PublishOrderCreated(ctx context.Context, o *order.Order) error
}

// Receiver authenticates inbound provider events and, for completed
// checkout sessions, persists an order exactly once per session id.
type Receiver struct {
	secret    string
	orders    order.Repository
	publisher OrderCreatedPublisher
	logger    *log.Logger
	tolerance time.Duration
	now       func() time.Time
}

func NewReceiver(secret string, orders order.Repository, publisher OrderCreatedPublisher, logger *log.Logger) *Receiver {
	return &Receiver{
		secret:    secret,
		orders:    orders,
		publisher: publisher,
		logger:    logger,
		tolerance: DefaultTolerance,
		now:       time.Now,
	}
}

// Process verifies the signature and dispatches on event type. The
// returned error is one of ErrWebhookNotConfigured,
// ErrMissingSignature or ErrBadSignature for authentication failures
// (never a silent success), or an internal error from persistence.
func (r *Receiver) Process(ctx context.Context, body []byte, signature string) error {
	if r.secret == "" {
		return ErrWebhookNotConfigured
	}
	if err := VerifySignature(signature, body, r.secret, r.tolerance, r.now()); err != nil {
		return err
	}

	var ev Event
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("decode event: %w", err)
	}

	switch ev.Type {
	case EventCheckoutCompleted:
		return r.handleCheckoutCompleted(ctx, ev)
	default:
		// Acknowledged with an audit note only.
		r.logger.Printf("unhandled webhook event type %q (id %s)", ev.Type, ev.ID)
		return nil
	}
}

func (r *Receiver) handleCheckoutCompleted(ctx context.Context, ev Event) error {
	var sess CheckoutSession
	if err := json.Unmarshal(ev.Data.Object, &sess); err != nil {
		return fmt.Errorf("decode checkout session: %w", err)
	}
	if sess.ID == "" {
		return errors.New("checkout session has no id")
	}

	o := orderFromSession(sess, r.now())
	created, err := r.orders.CreateFromSession(ctx, o)
	if err != nil {
		return fmt.Errorf("persist order: %w", err)
	}
	if !created {
		// Redelivery of an already-persisted session.
		r.logger.Printf("duplicate delivery for session %s, order already recorded", sess.ID)
		return nil
	}

	r.logger.Printf("checkout session %s completed, order %s created", sess.ID, o.ID)

	if r.publisher != nil {
		if err := r.publisher.PublishOrderCreated(ctx, o); err != nil {
			// The order is persisted; a publish failure must not make
			// the provider redeliver and double-process.
			r.logger.Printf("publish order created: %v", err)
		}
	}
	return nil
}

// orderFromSession is the single adapter from the provider's loose
// session shape to the canonical order record.
func orderFromSession(sess CheckoutSession, now time.Time) *order.Order {
	md := sess.Metadata
	o := &order.Order{
		OrderNumber:       md["order_number"],
		UserID:            md["user_id"],
		StoreID:           md["store_id"],
		Status:            order.StatusNew,
		DeliveryAddress:   md["delivery_address"],
		DeliveryDate:      md["delivery_date"],
		DeliverySlot:      md["delivery_slot"],
		Phone:             md["phone"],
		Notes:             md["notes"],
		Subtotal:          centsToDollars(sess.AmountSubtotal),
		Total:             centsToDollars(sess.AmountTotal),
		ProviderSessionID: sess.ID,
		ProviderIntentID:  sess.PaymentIntent,
		CreatedAt:         now.UTC(),
	}

	if fee, err := strconv.ParseInt(md["platform_fee_cents"], 10, 64); err == nil {
		o.PlatformFee = centsToDollars(fee)
	} else if sess.AmountTotal > sess.AmountSubtotal {
		o.PlatformFee = centsToDollars(sess.AmountTotal - sess.AmountSubtotal)
	}

	for _, l := range sess.LineItems {
		o.Items = append(o.Items, order.Item{
			ItemID:    l.ItemID,
			Name:      l.Name,
			Quantity:  l.Quantity,
			UnitPrice: centsToDollars(l.UnitAmount),
		})
	}
	return o
}

func centsToDollars(cents int64) float64 {
	return float64(cents) / 100
}
