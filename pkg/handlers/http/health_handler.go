package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

const healthTimeout = 3 * time.Second

// HealthCheck probes one dependency.
type HealthCheck func(ctx context.Context) error

type healthHandler struct {
	logger *logrus.Logger
	checks map[string]HealthCheck
}

func NewHealthHandler(logger *logrus.Logger, checks map[string]HealthCheck) Handler {
	return &healthHandler{
		logger: logger,
		checks: checks,
	}
}

// Handle @Summary Health check
// @Description Probes the metadata tool, the database and the cache
// @Tags System
// @Produce json
// @Success 200 {object} map[string]interface{} "All dependencies healthy"
// @Failure 503 {object} map[string]interface{} "At least one dependency failed"
// @Router /health [get]
func (h *healthHandler) Handle(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), healthTimeout)
	defer cancel()

	names := make([]string, 0, len(h.checks))
	results := make([]string, len(h.checks))
	g, gctx := errgroup.WithContext(ctx)
	i := 0
	for name, check := range h.checks {
		idx, name, check := i, name, check
		names = append(names, name)
		g.Go(func() error {
			if err := check(gctx); err != nil {
				h.logger.WithError(err).WithField("check", name).Warn("health check failed")
				results[idx] = "unavailable"
				return nil
			}
			results[idx] = "ok"
			return nil
		})
		i++
	}
	_ = g.Wait()

	status := fiber.StatusOK
	overall := "ok"
	checks := make(fiber.Map, len(names))
	for idx, name := range names {
		checks[name] = results[idx]
		if results[idx] != "ok" {
			status = fiber.StatusServiceUnavailable
			overall = "degraded"
		}
	}
	return c.Status(status).JSON(fiber.Map{"status": overall, "checks": checks})
}
