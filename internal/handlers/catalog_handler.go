package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rezonsoft/pamiatki/internal/services"
)

// maxUploadSize - лимит размера загружаемого изображения.
const maxUploadSize = 10 << 20 // 10 МБ

// CatalogHandler обрабатывает HTTP-запросы к объектному хранилищу каталога.
type CatalogHandler struct {
	catalogService services.CatalogService
}

// NewCatalogHandler создаёт новый экземпляр CatalogHandler.
func NewCatalogHandler(catalogService services.CatalogService) *CatalogHandler {
	return &CatalogHandler{
		catalogService: catalogService,
	}
}

// Locations обрабатывает GET /api/locations.
func (h *CatalogHandler) Locations(c echo.Context) error {
	resp, err := h.catalogService.ListLocations(c.Request().Context())
	if err != nil {
		c.Logger().Errorf("failed to list locations: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}

	return c.JSON(http.StatusOK, resp)
}

// Upload обрабатывает POST /api/uploads - загрузку изображения в хранилище.
func (h *CatalogHandler) Upload(c echo.Context) error {
	key := c.QueryParam("key")
	if key == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "key is required")
	}

	body, err := io.ReadAll(io.LimitReader(c.Request().Body, maxUploadSize))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "failed to read request body")
	}
	if len(body) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "empty request body")
	}

	contentType := c.Request().Header.Get(echo.HeaderContentType)
	overwrite := c.QueryParam("overwrite") == "true"
	url, err := h.catalogService.Upload(c.Request().Context(), key, body, contentType, overwrite)
	if err != nil {
		if errors.Is(err, services.ErrStorageUnavailable) {
			return echo.NewHTTPError(http.StatusServiceUnavailable, "object storage is not configured")
		}
		if errors.Is(err, services.ErrObjectExists) {
			return echo.NewHTTPError(http.StatusConflict, "object already exists")
		}
		c.Logger().Errorf("failed to upload %q: %v", key, err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"success": true,
		"key":     key,
		"url":     url,
	})
}
