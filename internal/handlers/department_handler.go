package handlers

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rezonsoft/pamiatki/internal/models"
	"github.com/rezonsoft/pamiatki/internal/services"
	"github.com/rezonsoft/pamiatki/internal/storage"
)

// DepartmentHandler обрабатывает HTTP-запросы для работы с отделами.
type DepartmentHandler struct {
	departmentService services.DepartmentService
}

// NewDepartmentHandler создаёт новый экземпляр DepartmentHandler.
func NewDepartmentHandler(departmentService services.DepartmentService) *DepartmentHandler {
	return &DepartmentHandler{
		departmentService: departmentService,
	}
}

// List обрабатывает GET /api/departments.
func (h *DepartmentHandler) List(c echo.Context) error {
	departments, err := h.departmentService.List(c.Request().Context())
	if err != nil {
		c.Logger().Errorf("failed to list departments: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}

	resp := make([]*models.DepartmentResponse, 0, len(departments))
	for _, d := range departments {
		resp = append(resp, d.ToResponse())
	}

	return c.JSON(http.StatusOK, resp)
}

// Create обрабатывает POST /api/departments.
func (h *DepartmentHandler) Create(c echo.Context) error {
	var req models.DepartmentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request format")
	}

	department, err := h.departmentService.Create(c.Request().Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrEmptyDepartmentName):
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		case errors.Is(err, storage.ErrDepartmentExists):
			return echo.NewHTTPError(http.StatusConflict, "department already exists")
		}
		c.Logger().Errorf("failed to create department: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}

	return c.JSON(http.StatusCreated, department.ToResponse())
}

// Update обрабатывает PUT /api/departments/:id.
func (h *DepartmentHandler) Update(c echo.Context) error {
	departmentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid department id")
	}

	var req models.DepartmentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request format")
	}

	department, err := h.departmentService.Update(c.Request().Context(), departmentID, &req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrEmptyDepartmentName):
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		case errors.Is(err, storage.ErrDepartmentNotFound):
			return echo.NewHTTPError(http.StatusNotFound, "department not found")
		case errors.Is(err, storage.ErrDepartmentExists):
			return echo.NewHTTPError(http.StatusConflict, "department already exists")
		}
		c.Logger().Errorf("failed to update department: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}

	return c.JSON(http.StatusOK, department.ToResponse())
}

// Delete обрабатывает DELETE /api/departments/:id.
func (h *DepartmentHandler) Delete(c echo.Context) error {
	departmentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid department id")
	}

	if err := h.departmentService.Delete(c.Request().Context(), departmentID); err != nil {
		if errors.Is(err, storage.ErrDepartmentNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "department not found")
		}
		c.Logger().Errorf("failed to delete department: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}

	return c.NoContent(http.StatusNoContent)
}
