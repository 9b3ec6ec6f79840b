package handler

import (
	"bytes"
	"errors"
	"net/http"
	"time"

	"storefront/internal/core/auth"
	"storefront/internal/core/httpclient"
	"storefront/internal/core/logger"
	"storefront/internal/features/orders/domain"
	"storefront/internal/features/orders/ports"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// OrderHandler handles HTTP requests related to orders.
type OrderHandler struct {
	// service is the order use-case port.
	service ports.OrderService
}

// NewOrderHandler creates a new instance of OrderHandler.
func NewOrderHandler(s ports.OrderService) *OrderHandler {
	return &OrderHandler{
		service: s,
	}
}

// CreateOrderRequest is the body of POST /orders.
type CreateOrderRequest struct {
	Items           []domain.OrderItem     `json:"items"`
	ShippingDetails domain.ShippingDetails `json:"shippingDetails"`
	PaymentMethod   domain.PaymentMethod   `json:"paymentMethod"`
	TotalAmount     decimal.Decimal        `json:"totalAmount" swaggertype:"number"`
}

// UpdateStatusRequest is the body of PUT /orders/{id}/status.
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// ErrorResponse represents the structure of an error response.
type ErrorResponse struct {
	// Message is the error description.
	Message string `json:"message"`
	// RayID is the unique request identifier for debugging.
	RayID string `json:"ray_id"`
}

// CreateOrder handles POST /orders.
// @Summary Place an order
// @Description Validates the cart payload, re-checks the total and stores a pending order. Repeating an Idempotency-Key returns the original order with 200.
// @Tags Orders
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param Idempotency-Key header string false "Client generated key of this submission attempt"
// @Param order body CreateOrderRequest true "Order payload"
// @Success 201 {object} domain.Order
// @Success 200 {object} domain.Order
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} auth.ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Failure 429 {object} ErrorResponse
// @Router /orders [post]
func (h *OrderHandler) CreateOrder(c *fiber.Ctx) error {
	caller, ok := auth.PrincipalFrom(c)
	if !ok {
		return h.unauthorized(c)
	}

	var req CreateOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Message: "Invalid request body",
			RayID:   auth.RayID(c),
		})
	}

	order, replayed, err := h.service.Create(c.UserContext(), caller, domain.NewOrderInput{
		Items:           req.Items,
		ShippingDetails: req.ShippingDetails,
		PaymentMethod:   req.PaymentMethod,
		TotalAmount:     req.TotalAmount,
		IdempotencyKey:  c.Get(httpclient.IdempotencyHeader),
	})
	if err != nil {
		return h.fail(c, err, "Failed to create order")
	}

	if replayed {
		return c.Status(http.StatusOK).JSON(order)
	}
	return c.Status(http.StatusCreated).JSON(order)
}

// ListMyOrders handles GET /orders/user.
// @Summary List my orders
// @Tags Orders
// @Produce json
// @Security BearerAuth
// @Success 200 {array} domain.Order
// @Failure 401 {object} auth.ErrorResponse
// @Router /orders/user [get]
func (h *OrderHandler) ListMyOrders(c *fiber.Ctx) error {
	caller, ok := auth.PrincipalFrom(c)
	if !ok {
		return h.unauthorized(c)
	}

	orders, err := h.service.ListMine(c.UserContext(), caller)
	if err != nil {
		return h.fail(c, err, "Failed to list user orders")
	}
	return c.Status(http.StatusOK).JSON(orders)
}

// ListOrders handles GET /orders.
// @Summary List all orders
// @Tags Orders
// @Produce json
// @Security BearerAuth
// @Success 200 {array} domain.Order
// @Failure 403 {object} auth.ErrorResponse
// @Router /orders [get]
func (h *OrderHandler) ListOrders(c *fiber.Ctx) error {
	orders, err := h.service.ListAll(c.UserContext())
	if err != nil {
		return h.fail(c, err, "Failed to list orders")
	}
	return c.Status(http.StatusOK).JSON(orders)
}

// GetOrder handles GET /orders/{id}.
// @Summary Get Order by ID
// @Description Visible to the order's owner and to admins.
// @Tags Orders
// @Produce json
// @Security BearerAuth
// @Param id path string true "Order ID"
// @Success 200 {object} domain.Order
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /orders/{id} [get]
func (h *OrderHandler) GetOrder(c *fiber.Ctx) error {
	caller, ok := auth.PrincipalFrom(c)
	if !ok {
		return h.unauthorized(c)
	}

	order, err := h.service.Get(c.UserContext(), caller, c.Params("id"))
	if err != nil {
		return h.fail(c, err, "Failed to fetch order")
	}
	return c.Status(http.StatusOK).JSON(order)
}

// UpdateOrderStatus handles PUT /orders/{id}/status.
// @Summary Change order status
// @Description Forward moves may skip steps; cancelled is reachable from any non-terminal state; delivered and cancelled are final.
// @Tags Orders
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Order ID"
// @Param status body UpdateStatusRequest true "Target status"
// @Success 200 {object} domain.Order
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /orders/{id}/status [put]
func (h *OrderHandler) UpdateOrderStatus(c *fiber.Ctx) error {
	var req UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Message: "Invalid request body",
			RayID:   auth.RayID(c),
		})
	}

	status, err := domain.ParseStatus(req.Status)
	if err != nil {
		return h.fail(c, err, "Invalid status")
	}

	order, err := h.service.UpdateStatus(c.UserContext(), c.Params("id"), status)
	if err != nil {
		return h.fail(c, err, "Failed to update order status")
	}
	return c.Status(http.StatusOK).JSON(order)
}

// DeleteOrder handles DELETE /orders/{id}.
// @Summary Delete an order
// @Tags Orders
// @Security BearerAuth
// @Param id path string true "Order ID"
// @Success 204
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /orders/{id} [delete]
func (h *OrderHandler) DeleteOrder(c *fiber.Ctx) error {
	if err := h.service.Delete(c.UserContext(), c.Params("id")); err != nil {
		return h.fail(c, err, "Failed to delete order")
	}
	return c.SendStatus(http.StatusNoContent)
}

// ExportOrders handles GET /orders/export.
// @Summary Export orders as a spreadsheet
// @Tags Orders
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security BearerAuth
// @Success 200 {file} file
// @Failure 500 {object} ErrorResponse
// @Router /orders/export [get]
func (h *OrderHandler) ExportOrders(c *fiber.Ctx) error {
	var buf bytes.Buffer
	if err := h.service.Export(c.UserContext(), &buf); err != nil {
		return h.fail(c, err, "Failed to export orders")
	}

	filename := "orders-" + time.Now().UTC().Format("20060102") + ".xlsx"
	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Attachment(filename)
	return c.Status(http.StatusOK).Send(buf.Bytes())
}

func (h *OrderHandler) unauthorized(c *fiber.Ctx) error {
	return c.Status(http.StatusUnauthorized).JSON(auth.ErrorResponse{
		Message: "authentication required",
		Code:    auth.CodeAuthRequired,
		RayID:   auth.RayID(c),
	})
}

// fail maps domain errors to HTTP responses. Anything unrecognised is logged and reported as 500.
func (h *OrderHandler) fail(c *fiber.Ctx, err error, logMsg string) error {
	rayID := auth.RayID(c)
	status := http.StatusInternalServerError
	msg := "Internal Server Error"

	switch {
	case errors.Is(err, domain.ErrInvalidOrder),
		errors.Is(err, domain.ErrInvalidStatus),
		errors.Is(err, domain.ErrFallbackOrderID):
		status, msg = http.StatusBadRequest, err.Error()
	case errors.Is(err, domain.ErrOrderNotFound):
		status, msg = http.StatusNotFound, "Order not found"
	case errors.Is(err, domain.ErrForbidden), errors.Is(err, domain.ErrOrdersClosed):
		status, msg = http.StatusForbidden, err.Error()
	case errors.Is(err, domain.ErrInvalidTransition),
		errors.Is(err, domain.ErrStatusConflict),
		errors.Is(err, domain.ErrSubmissionInProgress):
		status, msg = http.StatusConflict, err.Error()
	default:
		logger.Get().Error(logMsg,
			zap.String("order_id", c.Params("id")),
			zap.String("ray_id", rayID),
			zap.Error(err),
		)
	}

	return c.Status(status).JSON(ErrorResponse{
		Message: msg,
		RayID:   rayID,
	})
}
