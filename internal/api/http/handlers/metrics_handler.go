package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/cs-pendencias/pendencia-service/internal/observability"
)

// MetricsHandler serves the in-process counters.
type MetricsHandler struct {
	metrics *observability.Metrics
}

func NewMetricsHandler(metrics *observability.Metrics) *MetricsHandler {
	return &MetricsHandler{metrics: metrics}
}

// Snapshot GET /metrics. Gestor only, enforced by the router.
func (h *MetricsHandler) Snapshot(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"data": h.metrics.Snapshot()})
}
