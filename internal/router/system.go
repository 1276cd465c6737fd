package router

import (
	"github.com/deppfellow/userstore/internal/handler"
	"github.com/deppfellow/userstore/internal/server"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
)

// registerSystemRoutes mounts the unauthenticated operational endpoints.
func registerSystemRoutes(r *echo.Echo, s *server.Server, h *handler.Handlers) {
	r.GET("/status", h.Health.CheckHealth)

	r.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{
		Gatherer: s.Metrics,
	}))

	r.GET("/docs", h.OpenAPI.ServeOpenAPI)
}
