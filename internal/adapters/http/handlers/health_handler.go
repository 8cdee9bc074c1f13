package handlers

import (
	"time"

	"labis-admin/internal/config"
	"labis-admin/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// HealthHandler handles health check endpoints
type HealthHandler struct {
	cfg       *config.Config
	startedAt time.Time
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(cfg *config.Config) *HealthHandler {
	return &HealthHandler{
		cfg:       cfg,
		startedAt: time.Now(),
	}
}

// Root handles the root endpoint
func (h *HealthHandler) Root(c *fiber.Ctx) error {
	return response.Success(c, "LabIS Admin API", fiber.Map{
		"name":    "LabIS Admin API",
		"version": "1.0.0",
		"docs":    "/swagger/index.html",
	})
}

// HealthCheck godoc
// @Summary Health check
// @Description Report service and database health
// @Tags health
// @Produce json
// @Success 200 {object} response.Response
// @Failure 503 {object} response.Response
// @Router /health [get]
func (h *HealthHandler) HealthCheck(c *fiber.Ctx) error {
	dbStatus := "up"
	if err := config.HealthCheck(); err != nil {
		dbStatus = "down"
		return response.ErrorWithData(c, fiber.StatusServiceUnavailable, "Service unhealthy", fiber.Map{
			"database": dbStatus,
		})
	}

	return response.Success(c, "Service healthy", fiber.Map{
		"database": dbStatus,
		"mode":     h.cfg.AppMode,
		"uptime":   time.Since(h.startedAt).Round(time.Second).String(),
	})
}
