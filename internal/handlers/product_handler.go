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

// ProductHandler обрабатывает HTTP-запросы каталога товаров. Один эндпоинт
// отдаёт либо базовый каталог из базы, либо товары локации из объектного
// хранилища - в зависимости от параметра location.
type ProductHandler struct {
	productService services.ProductService
	catalogService services.CatalogService
}

// NewProductHandler создаёт новый экземпляр ProductHandler.
func NewProductHandler(productService services.ProductService, catalogService services.CatalogService) *ProductHandler {
	return &ProductHandler{
		productService: productService,
		catalogService: catalogService,
	}
}

// List обрабатывает GET /api/products. С параметром location запускает
// обнаружение товаров в хранилище, без него отдаёт базовый каталог.
func (h *ProductHandler) List(c echo.Context) error {
	location := c.QueryParam("location")
	if location != "" {
		refresh := c.QueryParam("refresh") == "true"
		resp, err := h.catalogService.Discover(c.Request().Context(), location, refresh)
		if err != nil {
			c.Logger().Errorf("failed to discover catalog for %q: %v", location, err)
			return c.JSON(http.StatusInternalServerError, map[string]interface{}{
				"success": false,
				"error":   "failed to scan location",
			})
		}
		return c.JSON(http.StatusOK, resp)
	}

	products, err := h.productService.ListActive(c.Request().Context())
	if err != nil {
		c.Logger().Errorf("failed to list products: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}

	resp := make([]*models.ProductResponse, 0, len(products))
	for _, p := range products {
		resp = append(resp, p.ToResponse())
	}

	return c.JSON(http.StatusOK, resp)
}

// Create обрабатывает POST /api/products.
func (h *ProductHandler) Create(c echo.Context) error {
	var req models.ProductRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request format")
	}

	product, err := h.productService.Create(c.Request().Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrEmptyProductIdentifier),
			errors.Is(err, services.ErrInvalidProductPrice):
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		case errors.Is(err, storage.ErrProductExists):
			return echo.NewHTTPError(http.StatusConflict, "product identifier already exists")
		}
		c.Logger().Errorf("failed to create product: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}

	return c.JSON(http.StatusCreated, product.ToResponse())
}

// Update обрабатывает PUT /api/products/:id.
func (h *ProductHandler) Update(c echo.Context) error {
	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid product id")
	}

	var req models.ProductRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request format")
	}

	product, err := h.productService.Update(c.Request().Context(), productID, &req)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrProductNotFound):
			return echo.NewHTTPError(http.StatusNotFound, "product not found")
		case errors.Is(err, storage.ErrProductExists):
			return echo.NewHTTPError(http.StatusConflict, "product identifier already exists")
		}
		c.Logger().Errorf("failed to update product: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}

	return c.JSON(http.StatusOK, product.ToResponse())
}

// Delete обрабатывает DELETE /api/products/:id.
func (h *ProductHandler) Delete(c echo.Context) error {
	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid product id")
	}

	if err := h.productService.Delete(c.Request().Context(), productID); err != nil {
		if errors.Is(err, storage.ErrProductNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "product not found")
		}
		c.Logger().Errorf("failed to delete product: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}

	return c.NoContent(http.StatusNoContent)
}
