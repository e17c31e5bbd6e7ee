package payments

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantnexusai/ai-groceries/internal/order"
)

const testSecret = "whsec_test"

func testReceiver(t *testing.T, orders order.Repository, pub OrderCreatedPublisher) *Receiver {
	t.Helper()
	r := NewReceiver(testSecret, orders, pub, log.New(io.Discard, "", 0))
	r.now = func() time.Time { return time.Unix(1_700_000_000, 0) }
	return r
}

func signedEvent(t *testing.T, r *Receiver, eventType string, object any) ([]byte, string) {
	t.Helper()
	raw, err := json.Marshal(object)
	require.NoError(t, err)

	ev := map[string]any{
		"id":   "evt_1",
		"type": eventType,
		"data": map[string]any{"object": json.RawMessage(raw)},
	}
	body, err := json.Marshal(ev)
	require.NoError(t, err)
	return body, Sign(body, testSecret, r.now())
}

func TestReceiver_UnconfiguredSecret(t *testing.T) {
	r := NewReceiver("", order.NewMemoryRepository(), nil, log.New(io.Discard, "", 0))
	err := r.Process(context.Background(), []byte(`{}`), "t=1,v1=abc")
	assert.ErrorIs(t, err, ErrWebhookNotConfigured)
}

func TestReceiver_RejectsBadSignature(t *testing.T) {
	repo := order.NewMemoryRepository()
	r := testReceiver(t, repo, nil)

	err := r.Process(context.Background(), []byte(`{}`), "")
	assert.ErrorIs(t, err, ErrMissingSignature)

	err = r.Process(context.Background(), []byte(`{}`), "t=1700000000,v1=deadbeef")
	assert.ErrorIs(t, err, ErrBadSignature)
}

func TestReceiver_UnknownEventTypeAcked(t *testing.T) {
	repo := order.NewMemoryRepository()
	r := testReceiver(t, repo, nil)

	body, sig := signedEvent(t, r, "payment_intent.created", map[string]any{"id": "pi_1"})
	require.NoError(t, r.Process(context.Background(), body, sig))

	orders, err := repo.ListByUser(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, orders, "no order may be created for unhandled event types")
}

func TestReceiver_CheckoutCompletedCreatesOrderOnce(t *testing.T) {
	repo := order.NewMemoryRepository()
	pub := &capturePublisher{}
	r := testReceiver(t, repo, pub)

	sess := CheckoutSession{
		ID:             "cs_123",
		AmountSubtotal: 1148,
		AmountTotal:    1648,
		PaymentIntent:  "pi_9",
		Metadata: map[string]string{
			"user_id":            "user-1",
			"store_id":           "store-1",
			"order_number":       "GR-260901-AB12",
			"platform_fee_cents": "500",
		},
		LineItems: []SessionLine{
			{ItemID: "item-a", Name: "Organic Honeycrisp Apples", UnitAmount: 199, Quantity: 2},
			{ItemID: "item-b", Name: "Pasture-Raised Eggs", UnitAmount: 750, Quantity: 1},
		},
	}

	body, sig := signedEvent(t, r, EventCheckoutCompleted, sess)
	require.NoError(t, r.Process(context.Background(), body, sig))

	orders, err := repo.ListByUser(context.Background(), "user-1")
	require.NoError(t, err)
	require.Len(t, orders, 1)

	o := orders[0]
	assert.Equal(t, "cs_123", o.ProviderSessionID)
	assert.Equal(t, "GR-260901-AB12", o.OrderNumber)
	assert.InDelta(t, 11.48, o.Subtotal, 1e-9)
	assert.InDelta(t, 5.00, o.PlatformFee, 1e-9)
	assert.InDelta(t, 16.48, o.Total, 1e-9)
	assert.Equal(t, order.StatusNew, o.Status)

	full, err := repo.GetByID(context.Background(), o.ID)
	require.NoError(t, err)
	require.Len(t, full.Items, 2)
	assert.Equal(t, 2, full.Items[0].Quantity)
	assert.InDelta(t, 1.99, full.Items[0].UnitPrice, 1e-9)

	require.Len(t, pub.published, 1)

	// Second delivery of the identical event: acked, no duplicate, no
	// second publish.
	require.NoError(t, r.Process(context.Background(), body, sig))
	orders, err = repo.ListByUser(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Len(t, orders, 1)
	assert.Len(t, pub.published, 1)
}

func TestReceiver_PublishFailureDoesNotFailEvent(t *testing.T) {
	repo := order.NewMemoryRepository()
	pub := &capturePublisher{err: errors.New("broker down")}
	r := testReceiver(t, repo, pub)

	body, sig := signedEvent(t, r, EventCheckoutCompleted, CheckoutSession{
		ID:          "cs_456",
		AmountTotal: 500,
		LineItems:   []SessionLine{{Name: "Fee", UnitAmount: 500, Quantity: 1}},
	})
	require.NoError(t, r.Process(context.Background(), body, sig))
}

type capturePublisher struct {
	published []*order.Order
	err       error
}

func (p *capturePublisher) PublishOrderCreated(_ context.Context, o *order.Order) error {
	if p.err != nil {
		return p.err
	}
	p.published = append(p.published, o)
	return nil
}
