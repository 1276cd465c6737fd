package middleware

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/deppfellow/userstore/internal/config"
	"github.com/deppfellow/userstore/internal/errs"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateLimit_DisabledByDefault(t *testing.T) {
	rl := NewRateLimitMiddleware(newTestServer(nil))
	assert.False(t, rl.Enabled())

	handler := rl.Limit()(okHandler)
	for range 20 {
		c, _ := newContext(echo.New(), http.MethodGet, "/users")
		require.NoError(t, handler(c))
	}
}

func TestRateLimit_DeniesAfterBurst(t *testing.T) {
	s := newTestServer(func(cfg *config.Config) {
		cfg.Server.RateLimit = 0.5
	})
	rl := NewRateLimitMiddleware(s)
	require.True(t, rl.Enabled())

	handler := rl.Limit()(okHandler)
	e := echo.New()
	e.HTTPErrorHandler = NewGlobalMiddlewares(s).GlobalErrorHandler

	c, rec := newContext(e, http.MethodGet, "/users")
	require.NoError(t, handler(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	// Denials are written through c.Error, so the chain itself returns nil.
	c, rec = newContext(e, http.MethodGet, "/users")
	require.NoError(t, handler(c))
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)

	var body errs.HTTPError
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "TOO_MANY_REQUESTS", body.Code)
	assert.Equal(t, http.StatusTooManyRequests, body.Status)
}

func TestBurst(t *testing.T) {
	assert.Equal(t, 1, burst(0.5))
	assert.Equal(t, 3, burst(3))
	assert.Equal(t, 4, burst(3.2))
}
