package checkout

import (
	"context"
	"io"
	"log"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantnexusai/ai-groceries/internal/cart"
	"github.com/quantnexusai/ai-groceries/internal/payments"
)

func discard() *log.Logger { return log.New(io.Discard, "", 0) }

func seededCart(t *testing.T) *cart.Service {
	t.Helper()
	ctx := context.Background()
	svc := cart.NewService(cart.NewMemoryRepository(nil))

	_, err := svc.Add(ctx, "cart-1", cart.Line{
		ItemID: "item-a", StoreID: "s1", Name: "Apples",
		Price: 1.99, SalePrice: 1.99, Quantity: 2, Stock: 10,
	})
	require.NoError(t, err)
	_, err = svc.Add(ctx, "cart-1", cart.Line{
		ItemID: "item-b", StoreID: "s1", Name: "Eggs",
		Price: 7.50, Quantity: 1, Stock: 10,
	})
	require.NoError(t, err)
	_, err = svc.Add(ctx, "cart-1", cart.Line{
		ItemID: "item-c", StoreID: "s2", Name: "Bread",
		Price: 8.00, Quantity: 1, Stock: 10,
	})
	require.NoError(t, err)
	return svc
}

func readyDetails() Details {
	return Details{
		UserID:       "user-1",
		Address:      "123 Main St",
		Phone:        "(212) 555-0147",
		DeliveryDate: "2026-09-03",
		DeliverySlot: "slot-2",
	}
}

func TestQuote_StoreScopedTotals(t *testing.T) {
	o := NewOrchestrator(seededCart(t), nil, discard())

	q, err := o.Quote(context.Background(), "cart-1", "s1")
	require.NoError(t, err)

	assert.Len(t, q.Lines, 2)
	assert.InDelta(t, 11.48, q.Subtotal, 1e-9)
	assert.InDelta(t, 5.00, q.PlatformFee, 1e-9)
	assert.InDelta(t, 16.48, q.Total, 1e-9)
}

func TestQuote_FullCart(t *testing.T) {
	o := NewOrchestrator(seededCart(t), nil, discard())

	q, err := o.Quote(context.Background(), "cart-1", "")
	require.NoError(t, err)
	assert.Len(t, q.Lines, 3)
	assert.InDelta(t, 19.48+PlatformFee, q.Total, 1e-9)
}

func TestQuote_EmptyScope(t *testing.T) {
	o := NewOrchestrator(seededCart(t), nil, discard())
	_, err := o.Quote(context.Background(), "cart-1", "no-such-store")
	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestConfirm_RequiresReadyDetails(t *testing.T) {
	o := NewOrchestrator(seededCart(t), nil, discard())

	for _, d := range []Details{
		{},
		{Address: "x", Phone: "y", DeliveryDate: "2026-09-03"},        // missing slot
		{Address: "x", DeliveryDate: "2026-09-03", DeliverySlot: "s"}, // missing phone
		{Address: "   ", Phone: "y", DeliveryDate: "d", DeliverySlot: "s"},
	} {
		_, err := o.Confirm(context.Background(), "cart-1", "", d, "", "")
		assert.ErrorIs(t, err, ErrNotReady)
	}
}

func TestConfirm_OfflinePathClearsScopeOnly(t *testing.T) {
	ctx := context.Background()
	cartSvc := seededCart(t)
	o := NewOrchestrator(cartSvc, nil, discard())

	res, err := o.Confirm(ctx, "cart-1", "s1", readyDetails(), "", "")
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^GR-\d{6}-[0-9A-F]{4}$`), res.OrderRef)
	assert.Empty(t, res.RedirectURL)

	snap, err := cartSvc.Get(ctx, "cart-1")
	require.NoError(t, err)
	require.Equal(t, 1, snap.Len())
	assert.Equal(t, "item-c", snap.Lines()[0].ItemID)
}

func TestConfirm_OfflineFullClear(t *testing.T) {
	ctx := context.Background()
	cartSvc := seededCart(t)
	o := NewOrchestrator(cartSvc, nil, discard())

	_, err := o.Confirm(ctx, "cart-1", "", readyDetails(), "", "")
	require.NoError(t, err)

	snap, err := cartSvc.Get(ctx, "cart-1")
	require.NoError(t, err)
	assert.True(t, snap.Empty())
}

type fakeSessionCreator struct {
	req payments.SessionRequest
}

func (f *fakeSessionCreator) CreateSession(_ context.Context, req payments.SessionRequest) (payments.Session, error) {
	f.req = req
	return payments.Session{ID: "cs_test", URL: "https://pay.example.com/cs_test"}, nil
}

func TestConfirm_ProviderPathBuildsSession(t *testing.T) {
	ctx := context.Background()
	cartSvc := seededCart(t)
	fc := &fakeSessionCreator{}
	o := NewOrchestrator(cartSvc, fc, discard())

	res, err := o.Confirm(ctx, "cart-1", "s1", readyDetails(), "https://ok", "https://back")
	require.NoError(t, err)
	assert.Equal(t, "https://pay.example.com/cs_test", res.RedirectURL)
	assert.Empty(t, res.OrderRef)

	// item lines plus the fee line
	require.Len(t, fc.req.Lines, 3)
	fee := fc.req.Lines[2]
	assert.Equal(t, "Delivery & Platform Fee", fee.Name)
	assert.Equal(t, int64(500), fee.UnitAmount)
	assert.Equal(t, int64(199), fc.req.Lines[0].UnitAmount)
	assert.Equal(t, "500", fc.req.Metadata["platform_fee_cents"])
	assert.Equal(t, "s1", fc.req.Metadata["store_id"])

	// the provider path leaves the cart intact until the webhook
	snap, err := cartSvc.Get(ctx, "cart-1")
	require.NoError(t, err)
	assert.Equal(t, 3, snap.Len())
}

func TestNewOrderReference(t *testing.T) {
	ref := NewOrderReference(time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC))
	assert.Regexp(t, regexp.MustCompile(`^GR-260901-[0-9A-F]{4}$`), ref)
}
