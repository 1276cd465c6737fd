// Package router builds the echo instance: global middleware, the error
// handler, system routes and the authenticated /users group.
package router

import (
	"strings"

	"github.com/deppfellow/userstore/internal/handler"
	"github.com/deppfellow/userstore/internal/middleware"
	"github.com/deppfellow/userstore/internal/server"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
)

// NewRouter wires middleware in order: request id, New Relic, tracing,
// request logger context, access log, metrics, CORS, secure headers,
// recover and finally the optional rate limiter.
func NewRouter(s *server.Server, h *handler.Handlers) *echo.Echo {
	middlewares := middleware.NewMiddlewares(s)

	router := echo.New()
	router.HideBanner = true
	router.HidePort = true
	router.HTTPErrorHandler = middlewares.Global.GlobalErrorHandler

	router.Use(
		middleware.RequestID(),
		middlewares.Tracing.NewRelicMiddleware(),
		middlewares.Tracing.EnhanceTracing(),
		middlewares.ContextEnhancer.EnhanceContext(),
		middlewares.Global.RequestLogger(),
		echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
			Namespace:  s.Config.Observability.ServiceName,
			Subsystem:  "http",
			Registerer: s.Metrics,
			Skipper: func(c echo.Context) bool {
				return strings.HasPrefix(c.Path(), "/metrics")
			},
		}),
		middlewares.Global.CORS(),
		middlewares.Global.Secure(),
		middlewares.Global.Recover(),
	)

	if middlewares.RateLimit.Enabled() {
		router.Use(middlewares.RateLimit.Limit())
	}

	registerSystemRoutes(router, s, h)

	users := router.Group("/users", middlewares.Auth.RequireAuth)
	h.Users.Routes(users)

	return router
}
