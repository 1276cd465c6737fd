package middleware

import (
	"net/http"
	"net/http/httptest"

	"github.com/deppfellow/userstore/internal/config"
	"github.com/deppfellow/userstore/internal/server"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

const testSecret = "test-secret"

func newTestServer(mutate func(*config.Config)) *server.Server {
	cfg := &config.Config{
		Primary: config.Primary{Env: "test"},
		Server: config.ServerConfig{
			Port:               "8080",
			CORSAllowedOrigins: []string{"*"},
		},
		Auth:          config.AuthConfig{SecretKey: testSecret},
		Observability: config.DefaultObservabilityConfig(),
	}
	if mutate != nil {
		mutate(cfg)
	}

	logger := zerolog.Nop()
	return &server.Server{Config: cfg, Logger: &logger}
}

func newContext(e *echo.Echo, method, target string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func okHandler(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}
