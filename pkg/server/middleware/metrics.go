package middleware

import (
	"fmt"
	"time"

	"github.com/NeuralTrust/MetaGuard/pkg/infra/prometheus"
	"github.com/gofiber/fiber/v2"
)

const aggregateRoute = "all"

type metricsMiddleware struct{}

func NewMetricsMiddleware() Middleware {
	return &metricsMiddleware{}
}

func (m *metricsMiddleware) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		startTime := time.Now()
		c.Locals(StartTimeKey, startTime)

		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}
		route := aggregateRoute
		if prometheus.Config.EnablePerRoute {
			route = c.Route().Path
		}
		method := c.Method()
		prometheus.RequestTotal.WithLabelValues(method, route, statusClass(status)).Inc()
		prometheus.RequestLatency.WithLabelValues(method, route).
			Observe(float64(time.Since(startTime)) / float64(time.Millisecond))
		return err
	}
}

func statusClass(code int) string {
	if code < 100 || code > 599 {
		return "5xx"
	}
	return fmt.Sprintf("%dxx", code/100)
}
