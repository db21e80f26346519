package middleware

import (
	"strconv"
	"time"

	"github.com/deppfellow/muslimah-travel/internal/lib/metrics"
	"github.com/labstack/echo/v4"
)

// MetricsMiddleware records request counts and latency per route.
type MetricsMiddleware struct {
	metrics *metrics.Metrics
}

func NewMetricsMiddleware(m *metrics.Metrics) *MetricsMiddleware {
	return &MetricsMiddleware{metrics: m}
}

// Observe labels by route template, not raw path, so ids do not explode
// the series count. Unmatched routes share the "unmatched" label.
func (mm *MetricsMiddleware) Observe() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		if mm.metrics == nil {
			return next
		}
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			route := c.Path()
			if route == "" {
				route = "unmatched"
			}
			method := c.Request().Method
			status := statusOf(c, err)

			mm.metrics.RequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
			mm.metrics.RequestDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())

			return err
		}
	}
}
