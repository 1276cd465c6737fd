package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/deppfellow/userstore/internal/database"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

type fakeDB struct {
	pingErr error
	pinged  bool
}

func (f *fakeDB) Ping(ctx context.Context) error {
	f.pinged = true
	return f.pingErr
}

func (f *fakeDB) Stats() database.PoolStats {
	return database.PoolStats{TotalConns: 2, IdleConns: 1, AcquiredConns: 1, MaxConns: 10}
}

func serveHealth(db DatabaseChecker, mutate func(*HealthHandler)) (int, healthResponse, error) {
	s := newTestServer()
	h := NewHealthHandler(s, db)
	if mutate != nil {
		mutate(h)
	}

	e := newEcho(s)
	e.GET("/status", h.CheckHealth)
	rec := do(e, http.MethodGet, "/status", "")

	var body healthResponse
	err := json.Unmarshal(rec.Body.Bytes(), &body)
	return rec.Code, body, err
}

func TestCheckHealth_Healthy(t *testing.T) {
	status, body, err := serveHealth(&fakeDB{}, nil)

	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "healthy", body.Status)
	assert.Equal(t, "test", body.Environment)
	assert.Equal(t, "healthy", body.Checks["database"].Status)
	assert.Equal(t, int32(10), body.Checks["database"].Pool.MaxConns)
}

func TestCheckHealth_DatabaseDown(t *testing.T) {
	status, body, err := serveHealth(&fakeDB{pingErr: errors.New("dial tcp: secret-host refused")}, nil)

	assert.NoError(t, err)
	assert.Equal(t, http.StatusServiceUnavailable, status)
	assert.Equal(t, "unhealthy", body.Status)
	assert.Equal(t, "database unreachable", body.Checks["database"].Error)
}

func TestCheckHealth_ChecksDisabled(t *testing.T) {
	db := &fakeDB{pingErr: errors.New("down")}
	status, body, err := serveHealth(db, func(h *HealthHandler) {
		h.server.Config.Observability.HealthChecks.Enabled = false
	})

	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, status)
	assert.Empty(t, body.Checks)
	assert.False(t, db.pinged)
}

func TestServeOpenAPI(t *testing.T) {
	s := newTestServer()
	e := newEcho(s)
	e.GET("/docs", NewOpenAPIHandler(s).ServeOpenAPI)

	rec := do(e, http.MethodGet, "/docs", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get(echo.HeaderContentType), "application/json")
	assert.Contains(t, rec.Body.String(), `"/users/{id}"`)
}
