package httpapi

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAIGenerate(t *testing.T) {
	env := newTestEnv(t, envConfig{})

	rec := env.do(t, http.MethodPost, "/api/ai",
		`{"context":"recommendation","message":"What goes well with salmon?"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]string
	decodeBody(t, rec, &resp)
	assert.Equal(t, "canned answer", resp["response"])
	assert.Contains(t, env.completer.lastUser, "salmon")
	assert.NotEmpty(t, env.completer.lastSystem)
}

func TestAIGenerateWithStructuredData(t *testing.T) {
	env := newTestEnv(t, envConfig{})

	rec := env.do(t, http.MethodPost, "/api/ai",
		`{"context":"substitution","message":"Out of eggs","data":{"itemId":"item-3"}}`)
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Contains(t, env.completer.lastUser, "Additional context:")
	assert.Contains(t, env.completer.lastUser, "item-3")
}

func TestAIUnknownContext(t *testing.T) {
	env := newTestEnv(t, envConfig{})

	rec := env.do(t, http.MethodPost, "/api/ai", `{"context":"horoscope","message":"hi"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp map[string]string
	decodeBody(t, rec, &resp)
	for _, want := range []string{"recommendation", "substitution", "inventory", "pricing", "description", "delivery_slot"} {
		assert.Contains(t, resp["error"], want)
	}
}

func TestAINotConfigured(t *testing.T) {
	env := newTestEnv(t, envConfig{aiOffline: true})

	rec := env.do(t, http.MethodPost, "/api/ai", `{"context":"recommendation","message":"hi"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp map[string]string
	decodeBody(t, rec, &resp)
	assert.Contains(t, resp["error"], "ANTHROPIC_API_KEY")
}

func TestAIUpstreamFailureIsGeneric(t *testing.T) {
	env := newTestEnv(t, envConfig{})
	env.completer.err = assert.AnError

	rec := env.do(t, http.MethodPost, "/api/ai", `{"context":"pricing","message":"hi"}`)
	require.Equal(t, http.StatusInternalServerError, rec.Code)

	var resp map[string]string
	decodeBody(t, rec, &resp)
	assert.Equal(t, "Failed to get AI response. Please try again.", resp["error"])
}
