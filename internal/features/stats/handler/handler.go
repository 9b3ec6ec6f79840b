package handler

import (
	"net/http"

	"storefront/internal/core/auth"
	"storefront/internal/core/logger"
	"storefront/internal/features/stats/domain"
	"storefront/internal/features/stats/ports"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// StatsHandler serves the admin dashboard figures.
type StatsHandler struct {
	service ports.StatsService
}

// NewStatsHandler creates a new StatsHandler.
func NewStatsHandler(service ports.StatsService) *StatsHandler {
	return &StatsHandler{service: service}
}

// ErrorResponse represents the structure of an error response.
type ErrorResponse struct {
	Message string `json:"message"`
	RayID   string `json:"ray_id"`
}

// GetStats handles GET /admin/orders/stats.
// @Summary Order statistics
// @Description Counts and revenue over orders created in the last week, month or year, both window ends inclusive.
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param timeRange query string false "week, month or year" default(week)
// @Success 200 {object} domain.Stats
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} auth.ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /admin/orders/stats [get]
func (h *StatsHandler) GetStats(c *fiber.Ctx) error {
	window, err := domain.ParseWindow(c.Query("timeRange"))
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Message: err.Error(),
			RayID:   auth.RayID(c),
		})
	}

	stats, err := h.service.Compute(c.UserContext(), window)
	if err != nil {
		logger.Get().Error("Failed to compute stats",
			zap.String("time_range", string(window)),
			zap.String("ray_id", auth.RayID(c)),
			zap.Error(err),
		)
		return c.Status(http.StatusInternalServerError).JSON(ErrorResponse{
			Message: "Internal Server Error",
			RayID:   auth.RayID(c),
		})
	}

	return c.Status(http.StatusOK).JSON(stats)
}
