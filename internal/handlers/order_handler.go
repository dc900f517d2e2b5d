package handlers

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rezonsoft/pamiatki/internal/auth"
	"github.com/rezonsoft/pamiatki/internal/models"
	"github.com/rezonsoft/pamiatki/internal/services"
	"github.com/rezonsoft/pamiatki/internal/storage"
)

// OrderHandler обрабатывает HTTP-запросы для работы с заказами.
type OrderHandler struct {
	orderService services.OrderService
}

// NewOrderHandler создаёт новый экземпляр OrderHandler.
func NewOrderHandler(orderService services.OrderService) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
	}
}

// List обрабатывает GET /api/orders.
func (h *OrderHandler) List(c echo.Context) error {
	actorID, actorRole, err := actorFromContext(c)
	if err != nil {
		return err
	}

	orders, err := h.orderService.List(c.Request().Context(), actorID, actorRole)
	if err != nil {
		c.Logger().Errorf("failed to list orders: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}

	resp := make([]*models.OrderResponse, 0, len(orders))
	for _, o := range orders {
		resp = append(resp, o.ToResponse())
	}

	return c.JSON(http.StatusOK, resp)
}

// Create обрабатывает POST /api/orders - создание заказа напрямую,
// без черновика.
func (h *OrderHandler) Create(c echo.Context) error {
	userID, err := auth.GetUserIDFromContext(c)
	if err != nil {
		return err
	}

	var req models.CreateOrderRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request format")
	}

	order, err := h.orderService.CreateOrder(c.Request().Context(), userID, &req)
	if err != nil {
		if errors.Is(err, services.ErrEmptyOrder) {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		c.Logger().Errorf("failed to create order: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}

	return c.JSON(http.StatusCreated, order.ToResponse())
}

// GetByID обрабатывает GET /api/orders/:id.
func (h *OrderHandler) GetByID(c echo.Context) error {
	actorID, actorRole, err := actorFromContext(c)
	if err != nil {
		return err
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid order id")
	}

	order, err := h.orderService.GetByID(c.Request().Context(), actorID, actorRole, orderID)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrOrderNotFound),
			errors.Is(err, services.ErrOrderForbidden):
			// Чужой заказ неотличим от отсутствующего
			return echo.NewHTTPError(http.StatusNotFound, "order not found")
		}
		c.Logger().Errorf("failed to get order: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}

	return c.JSON(http.StatusOK, order.ToResponse())
}

// UpdateStatus обрабатывает PATCH /api/orders/:id/status.
func (h *OrderHandler) UpdateStatus(c echo.Context) error {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid order id")
	}

	var req models.UpdateOrderStatusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request format")
	}

	if err := h.orderService.UpdateStatus(c.Request().Context(), orderID, req.Status); err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidOrderStatus):
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		case errors.Is(err, storage.ErrOrderNotFound):
			return echo.NewHTTPError(http.StatusNotFound, "order not found")
		}
		c.Logger().Errorf("failed to update order status: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{"success": true})
}
