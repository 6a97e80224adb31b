package handlers

import (
	"net/http"

	"billingpanel/internal/common"
	"billingpanel/internal/services"

	"github.com/labstack/echo/v4"
)

// OrderHandlers handles order-related HTTP requests
type OrderHandlers struct {
	orderService services.OrderService
}

func NewOrderHandlers(orderService services.OrderService) *OrderHandlers {
	return &OrderHandlers{orderService: orderService}
}

// CreateOrder handles POST /orders
func (h *OrderHandlers) CreateOrder(c echo.Context) error {
	var req services.CreateOrderRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	order, err := h.orderService.Create(c.Request().Context(), &req)
	if err != nil {
		return serviceError(c, err, "order")
	}
	return c.JSON(http.StatusCreated, order)
}

// GetOrder handles GET /orders/:id
func (h *OrderHandlers) GetOrder(c echo.Context) error {
	orderID, err := common.ValidateUUID(c.Param("id"), "order id")
	if err != nil {
		return serviceError(c, err, "order")
	}

	order, err := h.orderService.GetByID(c.Request().Context(), orderID)
	if err != nil {
		return serviceError(c, err, "order")
	}
	return c.JSON(http.StatusOK, order)
}

// ListOrdersRequest represents query parameters for listing
type ListOrdersRequest struct {
	OrganizationID string `query:"organization_id"`
	Limit          int    `query:"limit"`
	Offset         int    `query:"offset"`
}

// ListOrders handles GET /orders?organization_id=...
func (h *OrderHandlers) ListOrders(c echo.Context) error {
	var req ListOrdersRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid query parameters")
	}

	orgID, err := common.ValidateUUID(req.OrganizationID, "organization_id")
	if err != nil {
		return serviceError(c, err, "orders")
	}

	orders, err := h.orderService.List(c.Request().Context(), orgID, req.Limit, req.Offset)
	if err != nil {
		return serviceError(c, err, "orders")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"orders": orders,
	})
}
