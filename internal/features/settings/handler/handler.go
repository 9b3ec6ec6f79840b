package handler

import (
	"errors"
	"net/http"

	"storefront/internal/core/auth"
	"storefront/internal/core/logger"
	"storefront/internal/features/settings/domain"
	"storefront/internal/features/settings/ports"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// SettingsHandler handles HTTP requests for store settings.
type SettingsHandler struct {
	service ports.SettingsService
}

// NewSettingsHandler creates a new SettingsHandler.
func NewSettingsHandler(service ports.SettingsService) *SettingsHandler {
	return &SettingsHandler{
		service: service,
	}
}

// UpdateSettingsRequest represents the request body for changing settings.
type UpdateSettingsRequest struct {
	AcceptOrders *bool                 `json:"acceptOrders"`
	Contact      domain.ContactChannel `json:"contact"`
}

// GetSettings handles GET /settings.
// @Summary Get store settings
// @Description Returns whether orders are accepted and the contact channel shown otherwise.
// @Tags Settings
// @Produce json
// @Success 200 {object} domain.Settings
// @Failure 500 {object} map[string]string
// @Router /settings [get]
func (h *SettingsHandler) GetSettings(c *fiber.Ctx) error {
	settings, err := h.service.Get(c.UserContext())
	if err != nil {
		logger.Get().Error("Failed to get settings", zap.String("ray_id", auth.RayID(c)), zap.Error(err))
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{
			"error": "Internal server error",
		})
	}

	return c.Status(http.StatusOK).JSON(settings)
}

// UpdateSettings handles PUT /admin/settings.
// @Summary Update store settings
// @Tags Settings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param settings body UpdateSettingsRequest true "New settings"
// @Success 200 {object} domain.Settings
// @Failure 400 {object} map[string]string
// @Failure 403 {object} auth.ErrorResponse
// @Failure 500 {object} map[string]string
// @Router /admin/settings [put]
func (h *SettingsHandler) UpdateSettings(c *fiber.Ctx) error {
	var req UpdateSettingsRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if req.AcceptOrders == nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{
			"error": "acceptOrders is required",
		})
	}

	settings, err := h.service.Update(c.UserContext(), *req.AcceptOrders, req.Contact)
	if err != nil {
		if errors.Is(err, domain.ErrNoContactChannel) {
			return c.Status(http.StatusBadRequest).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		logger.Get().Error("Failed to update settings", zap.String("ray_id", auth.RayID(c)), zap.Error(err))
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{
			"error": "Internal server error",
		})
	}

	return c.Status(http.StatusOK).JSON(settings)
}
