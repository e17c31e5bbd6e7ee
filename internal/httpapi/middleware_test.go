package httpapi

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testAdminSecret = "jwt-test-secret"

func adminToken(t *testing.T, secret string, admin bool) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   "admin@example.com",
		"admin": admin,
		"exp":   time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func doAdmin(env *testEnv, token string) *httptest.ResponseRecorder {
	body := `{"id":"item-new","storeId":"store-1","name":"Fresh Basil","price":2.25,"stock":10}`
	req := httptest.NewRequest(http.MethodPost, "/api/admin/items", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)
	return rec
}

func TestAdminAuthPassThroughWithoutSecret(t *testing.T) {
	env := newTestEnv(t, envConfig{})

	rec := doAdmin(env, "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAdminAuthMissingToken(t *testing.T) {
	env := newTestEnv(t, envConfig{adminSecret: testAdminSecret})

	rec := doAdmin(env, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAdminAuthWrongSecret(t *testing.T) {
	env := newTestEnv(t, envConfig{adminSecret: testAdminSecret})

	rec := doAdmin(env, adminToken(t, "some-other-secret", true))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAdminAuthNonAdminClaim(t *testing.T) {
	env := newTestEnv(t, envConfig{adminSecret: testAdminSecret})

	rec := doAdmin(env, adminToken(t, testAdminSecret, false))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestAdminAuthValidToken(t *testing.T) {
	env := newTestEnv(t, envConfig{adminSecret: testAdminSecret})

	rec := doAdmin(env, adminToken(t, testAdminSecret, true))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestPublicRoutesBypassAdminAuth(t *testing.T) {
	env := newTestEnv(t, envConfig{adminSecret: testAdminSecret})

	rec := env.do(t, http.MethodGet, "/api/stores", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCORSDisallowedOrigin(t *testing.T) {
	handler := CORS([]string{"https://shop.example.com"})(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORSAllowedOrigin(t *testing.T) {
	handler := CORS([]string{"https://shop.example.com"})(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "https://shop.example.com")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, "https://shop.example.com", rec.Header().Get("Access-Control-Allow-Origin"))
}
