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

// CustomerHandler обрабатывает HTTP-запросы для работы с клиентами.
type CustomerHandler struct {
	customerService services.CustomerService
}

// NewCustomerHandler создаёт новый экземпляр CustomerHandler.
func NewCustomerHandler(customerService services.CustomerService) *CustomerHandler {
	return &CustomerHandler{
		customerService: customerService,
	}
}

// List обрабатывает GET /api/customers.
func (h *CustomerHandler) List(c echo.Context) error {
	actorID, actorRole, err := actorFromContext(c)
	if err != nil {
		return err
	}

	customers, err := h.customerService.List(c.Request().Context(), actorID, actorRole)
	if err != nil {
		c.Logger().Errorf("failed to list customers: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}

	resp := make([]*models.CustomerResponse, 0, len(customers))
	for _, cust := range customers {
		resp = append(resp, cust.ToResponse())
	}

	return c.JSON(http.StatusOK, resp)
}

// Create обрабатывает POST /api/customers.
func (h *CustomerHandler) Create(c echo.Context) error {
	actorID, actorRole, err := actorFromContext(c)
	if err != nil {
		return err
	}

	var req models.CustomerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request format")
	}

	customer, err := h.customerService.Create(c.Request().Context(), actorID, actorRole, &req)
	if err != nil {
		if errors.Is(err, services.ErrEmptyCustomerName) {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		c.Logger().Errorf("failed to create customer: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}

	return c.JSON(http.StatusCreated, customer.ToResponse())
}

// Update обрабатывает PUT /api/customers/:id.
func (h *CustomerHandler) Update(c echo.Context) error {
	actorID, actorRole, err := actorFromContext(c)
	if err != nil {
		return err
	}

	customerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid customer id")
	}

	var req models.CustomerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request format")
	}

	customer, err := h.customerService.Update(c.Request().Context(), actorID, actorRole, customerID, &req)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrCustomerNotFound),
			errors.Is(err, services.ErrCustomerForbidden):
			// Чужой клиент неотличим от отсутствующего
			return echo.NewHTTPError(http.StatusNotFound, "customer not found")
		}
		c.Logger().Errorf("failed to update customer: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}

	return c.JSON(http.StatusOK, customer.ToResponse())
}

// Delete обрабатывает DELETE /api/customers/:id.
func (h *CustomerHandler) Delete(c echo.Context) error {
	actorID, actorRole, err := actorFromContext(c)
	if err != nil {
		return err
	}

	customerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid customer id")
	}

	if err := h.customerService.Delete(c.Request().Context(), actorID, actorRole, customerID); err != nil {
		switch {
		case errors.Is(err, storage.ErrCustomerNotFound),
			errors.Is(err, services.ErrCustomerForbidden):
			return echo.NewHTTPError(http.StatusNotFound, "customer not found")
		}
		c.Logger().Errorf("failed to delete customer: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}

	return c.NoContent(http.StatusNoContent)
}

// actorFromContext извлекает ID и роль текущего пользователя из контекста.
func actorFromContext(c echo.Context) (uuid.UUID, models.UserRole, error) {
	actorID, err := auth.GetUserIDFromContext(c)
	if err != nil {
		return uuid.Nil, "", err
	}
	actorRole, err := auth.GetUserRoleFromContext(c)
	if err != nil {
		return uuid.Nil, "", err
	}
	return actorID, actorRole, nil
}
