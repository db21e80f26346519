package router

import (
	"github.com/deppfellow/muslimah-travel/internal/handler"
	"github.com/deppfellow/muslimah-travel/internal/server"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// registerSystemRoutes registers endpoints that are not part of the
// booking domain: welcome, health, metrics and API docs.
func registerSystemRoutes(r *echo.Echo, s *server.Server, h *handler.Handlers) {
	r.GET("/", h.Health.Welcome)

	// Used by load balancers and uptime monitors.
	r.GET("/status", h.Health.CheckHealth)

	if obs := s.Config.Observability; obs != nil && obs.Metrics.Enabled && s.Metrics != nil {
		r.GET(obs.Metrics.Path, echo.WrapHandler(promhttp.HandlerFor(s.Metrics.Registry, promhttp.HandlerOpts{
			Registry: s.Metrics.Registry,
		})))
	}

	// openapi.json and openapi.html.
	r.Static("/static", handler.StaticDir)

	r.GET("/docs", h.OpenAPI.ServeOpenAPIUI)
}
