package httpapi

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantnexusai/ai-groceries/internal/ai"
	"github.com/quantnexusai/ai-groceries/internal/cart"
	"github.com/quantnexusai/ai-groceries/internal/catalog"
	"github.com/quantnexusai/ai-groceries/internal/checkout"
	"github.com/quantnexusai/ai-groceries/internal/order"
	"github.com/quantnexusai/ai-groceries/internal/payments"
	"github.com/quantnexusai/ai-groceries/internal/upload"
)

const testWebhookSecret = "whsec_test"

// echoCompleter returns a canned response and records what it was
// asked.
type echoCompleter struct {
	lastSystem string
	lastUser   string
	reply      string
	err        error
}

func (c *echoCompleter) Complete(_ context.Context, system, user string) (string, error) {
	c.lastSystem = system
	c.lastUser = user
	if c.err != nil {
		return "", c.err
	}
	return c.reply, nil
}

// testEnv wires the full router on in-memory implementations, the
// same shape demo mode uses.
type testEnv struct {
	router    http.Handler
	orders    *order.MemoryRepository
	carts     *cart.Service
	completer *echoCompleter
}

type envConfig struct {
	adminSecret string
	aiOffline   bool
}

func newTestEnv(t *testing.T, cfg envConfig) *testEnv {
	t.Helper()
	logger := log.New(io.Discard, "", 0)

	cat := catalog.NewFixtureRepository()
	carts := cart.NewService(cart.NewMemoryRepository(logger))
	orders := order.NewMemoryRepository()

	completer := &echoCompleter{reply: "canned answer"}
	var aiSvc *ai.Service
	if cfg.aiOffline {
		aiSvc = ai.NewService(nil, logger)
	} else {
		aiSvc = ai.NewService(completer, logger)
	}

	receiver := payments.NewReceiver(testWebhookSecret, orders, nil, logger)

	h := Handlers{
		Catalog:  NewCatalogHandler(cat, logger),
		Cart:     NewCartHandler(carts, cat, logger),
		Checkout: NewCheckoutHandler(checkout.NewOrchestrator(carts, nil, logger), "http://localhost:8080", logger),
		Payments: NewPaymentsHandler(nil, receiver, logger),
		AI:       NewAIHandler(aiSvc, logger),
		Upload:   NewUploadHandler(upload.NewService(upload.PlaceholderStore{}, logger), logger),
		Orders:   NewOrderHandler(orders, logger),
	}

	router := NewRouter(h, RouterConfig{
		CORSAllowOrigins: []string{"*"},
		AdminJWTSecret:   cfg.adminSecret,
	})
	return &testEnv{router: router, orders: orders, carts: carts, completer: completer}
}

func (e *testEnv) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var rdr io.Reader
	if body != "" {
		rdr = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rdr)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v))
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t, envConfig{})

	rec := env.do(t, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	decodeBody(t, rec, &body)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "ai-groceries", body["service"])
}

func TestUnknownRouteReturns404(t *testing.T) {
	env := newTestEnv(t, envConfig{})

	rec := env.do(t, http.MethodGet, "/api/nope", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCORSPreflight(t *testing.T) {
	env := newTestEnv(t, envConfig{})

	req := httptest.NewRequest(http.MethodOptions, "/api/stores", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestCorrelationIDEchoed(t *testing.T) {
	env := newTestEnv(t, envConfig{})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(HeaderCorrelationID, "corr-42")
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)

	assert.Equal(t, "corr-42", rec.Header().Get(HeaderCorrelationID))
}

func TestCorrelationIDGenerated(t *testing.T) {
	env := newTestEnv(t, envConfig{})

	rec := env.do(t, http.MethodGet, "/health", "")
	assert.NotEmpty(t, rec.Header().Get(HeaderCorrelationID))
}
