package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/deppfellow/userstore/internal/config"
	"github.com/deppfellow/userstore/internal/middleware"
	"github.com/deppfellow/userstore/internal/server"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer() *server.Server {
	logger := zerolog.Nop()
	return &server.Server{
		Config: &config.Config{
			Primary:       config.Primary{Env: "test"},
			Observability: config.DefaultObservabilityConfig(),
		},
		Logger: &logger,
	}
}

func newEcho(s *server.Server) *echo.Echo {
	e := echo.New()
	e.HTTPErrorHandler = middleware.NewGlobalMiddlewares(s).GlobalErrorHandler
	return e
}

func do(e *echo.Echo, method, target, body string) *httptest.ResponseRecorder {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func requireStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	require.Equal(t, want, rec.Code, rec.Body.String())
}

func TestHandle_FallsBackToServerLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)
	s := newTestServer()
	s.Logger = &logger

	e := newEcho(s)
	create := func(c echo.Context, req *CreateUserRequest) (*CreateUserRequest, error) {
		return req, nil
	}
	e.POST("/users", Handle(NewHandler(s), create, http.StatusCreated, newOf[CreateUserRequest]()))

	rec := do(e, http.MethodPost, "/users", `{"firstName":"Ada"}`)

	requireStatus(t, rec, http.StatusBadRequest)
	assert.Contains(t, buf.String(), "request validation failed")
	assert.Contains(t, buf.String(), `"route":"/users"`)
}

func TestHandle_PrefersRequestLogger(t *testing.T) {
	var serverBuf, requestBuf bytes.Buffer
	serverLogger := zerolog.New(&serverBuf)
	requestLogger := zerolog.New(&requestBuf)
	s := newTestServer()
	s.Logger = &serverLogger

	e := newEcho(s)
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set(middleware.LoggerKey, &requestLogger)
			return next(c)
		}
	})
	remove := func(c echo.Context, req *UserIDRequest) error { return nil }
	e.DELETE("/users/:id", HandleNoContent(NewHandler(s), remove, http.StatusNoContent, newOf[UserIDRequest]()))

	rec := do(e, http.MethodDelete, "/users/abc", "")

	requireStatus(t, rec, http.StatusNoContent)
	assert.Contains(t, requestBuf.String(), "request completed successfully")
	assert.Empty(t, serverBuf.String())
}
