package handler

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// HealthChecker is anything with a pingable connection.
type HealthChecker interface {
	Health(ctx context.Context) error
}

type HealthHandler struct {
	db     HealthChecker
	cache  HealthChecker
	logger *zap.Logger
}

func NewHealthHandler(db, cache HealthChecker, logger *zap.Logger) *HealthHandler {
	return &HealthHandler{
		db:     db,
		cache:  cache,
		logger: logger,
	}
}

// Health reports liveness of the store and cache connections.
func (h *HealthHandler) Health(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 2*time.Second)
	defer cancel()

	status := fiber.Map{
		"status": "healthy",
		"time":   time.Now().UTC(),
	}
	healthy := true

	if err := h.db.Health(ctx); err != nil {
		h.logger.Error("Store health check failed", zap.Error(err))
		status["store"] = "unavailable"
		healthy = false
	} else {
		status["store"] = "ok"
	}

	if err := h.cache.Health(ctx); err != nil {
		h.logger.Error("Cache health check failed", zap.Error(err))
		status["cache"] = "unavailable"
		healthy = false
	} else {
		status["cache"] = "ok"
	}

	if !healthy {
		status["status"] = "degraded"
		return c.Status(fiber.StatusServiceUnavailable).JSON(status)
	}

	return c.JSON(status)
}
