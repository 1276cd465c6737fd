package middleware

import (
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestID_Generated(t *testing.T) {
	c, rec := newContext(echo.New(), http.MethodGet, "/")

	require.NoError(t, RequestID()(okHandler)(c))

	id := rec.Header().Get(RequestIDHeader)
	_, err := uuid.Parse(id)
	assert.NoError(t, err)
	assert.Equal(t, id, GetRequestID(c))
}

func TestRequestID_Propagated(t *testing.T) {
	c, rec := newContext(echo.New(), http.MethodGet, "/")
	c.Request().Header.Set(RequestIDHeader, "abc-123")

	require.NoError(t, RequestID()(okHandler)(c))

	assert.Equal(t, "abc-123", rec.Header().Get(RequestIDHeader))
	assert.Equal(t, "abc-123", GetRequestID(c))
}

func TestEnhanceContext_StoresLogger(t *testing.T) {
	ce := NewContextEnhancer(newTestServer(nil))
	c, _ := newContext(echo.New(), http.MethodGet, "/")

	var fromCtx bool
	err := ce.EnhanceContext()(func(c echo.Context) error {
		fromCtx = LoggerFromContext(c.Request().Context()) == GetLogger(c)
		return nil
	})(c)

	require.NoError(t, err)
	assert.True(t, fromCtx)
}
