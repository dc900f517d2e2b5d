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

// DraftHandler обрабатывает HTTP-запросы для работы с черновиками заказов.
type DraftHandler struct {
	draftService services.DraftService
	orderService services.OrderService
}

// NewDraftHandler создаёт новый экземпляр DraftHandler.
func NewDraftHandler(draftService services.DraftService, orderService services.OrderService) *DraftHandler {
	return &DraftHandler{
		draftService: draftService,
		orderService: orderService,
	}
}

// GetLive обрабатывает GET /api/order-drafts.
func (h *DraftHandler) GetLive(c echo.Context) error {
	userID, err := auth.GetUserIDFromContext(c)
	if err != nil {
		return err
	}

	draft, err := h.draftService.GetLive(c.Request().Context(), userID)
	if err != nil {
		if errors.Is(err, services.ErrNoLiveDraft) {
			return c.NoContent(http.StatusNoContent)
		}
		c.Logger().Errorf("failed to get draft: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}

	return c.JSON(http.StatusOK, draft.ToResponse())
}

// Create обрабатывает POST /api/order-drafts.
func (h *DraftHandler) Create(c echo.Context) error {
	userID, err := auth.GetUserIDFromContext(c)
	if err != nil {
		return err
	}

	var req models.CreateDraftRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request format")
	}

	draft, err := h.draftService.Create(c.Request().Context(), userID, &req)
	if err != nil {
		if errors.Is(err, storage.ErrActiveDraftExists) {
			return echo.NewHTTPError(http.StatusConflict, "an active draft already exists")
		}
		c.Logger().Errorf("failed to create draft: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}

	return c.JSON(http.StatusCreated, draft.ToResponse())
}

// Update обрабатывает PUT /api/order-drafts.
func (h *DraftHandler) Update(c echo.Context) error {
	userID, err := auth.GetUserIDFromContext(c)
	if err != nil {
		return err
	}

	var req models.UpdateDraftRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request format")
	}
	if req.ID == uuid.Nil {
		return echo.NewHTTPError(http.StatusBadRequest, "draft id is required")
	}

	draft, err := h.draftService.Update(c.Request().Context(), userID, &req)
	if err != nil {
		if errors.Is(err, storage.ErrDraftNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "draft not found")
		}
		c.Logger().Errorf("failed to update draft: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}

	return c.JSON(http.StatusOK, draft.ToResponse())
}

// Delete обрабатывает DELETE /api/order-drafts?id=.
func (h *DraftHandler) Delete(c echo.Context) error {
	userID, err := auth.GetUserIDFromContext(c)
	if err != nil {
		return err
	}

	draftID, err := uuid.Parse(c.QueryParam("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "draft id is required")
	}

	if err := h.draftService.Delete(c.Request().Context(), userID, draftID); err != nil {
		if errors.Is(err, storage.ErrDraftNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "draft not found")
		}
		c.Logger().Errorf("failed to delete draft: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}

	return c.NoContent(http.StatusNoContent)
}

// AddItem обрабатывает POST /api/order-drafts/items.
func (h *DraftHandler) AddItem(c echo.Context) error {
	userID, err := auth.GetUserIDFromContext(c)
	if err != nil {
		return err
	}

	var req models.AddDraftItemRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request format")
	}

	item, err := h.draftService.AddItem(c.Request().Context(), userID, &req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidDraftItem):
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		case errors.Is(err, storage.ErrDraftNotFound):
			return echo.NewHTTPError(http.StatusNotFound, "draft not found")
		}
		c.Logger().Errorf("failed to add draft item: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}

	return c.JSON(http.StatusCreated, item)
}

// UpdateItem обрабатывает PUT /api/order-drafts/items/:id.
func (h *DraftHandler) UpdateItem(c echo.Context) error {
	userID, err := auth.GetUserIDFromContext(c)
	if err != nil {
		return err
	}

	itemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid item id")
	}

	var req models.UpdateDraftItemRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request format")
	}

	item, err := h.draftService.UpdateItem(c.Request().Context(), userID, itemID, &req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidDraftItem):
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		case errors.Is(err, storage.ErrDraftItemNotFound):
			return echo.NewHTTPError(http.StatusNotFound, "draft item not found")
		}
		c.Logger().Errorf("failed to update draft item: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}

	return c.JSON(http.StatusOK, item)
}

// DeleteItem обрабатывает DELETE /api/order-drafts/items/:id.
func (h *DraftHandler) DeleteItem(c echo.Context) error {
	userID, err := auth.GetUserIDFromContext(c)
	if err != nil {
		return err
	}

	itemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid item id")
	}

	if err := h.draftService.DeleteItem(c.Request().Context(), userID, itemID); err != nil {
		if errors.Is(err, storage.ErrDraftItemNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "draft item not found")
		}
		c.Logger().Errorf("failed to delete draft item: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}

	return c.NoContent(http.StatusNoContent)
}

// Complete обрабатывает POST /api/order-drafts/complete - финализацию
// черновика в заказ.
func (h *DraftHandler) Complete(c echo.Context) error {
	userID, err := auth.GetUserIDFromContext(c)
	if err != nil {
		return err
	}

	var req models.CompleteDraftRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request format")
	}
	if req.DraftID == uuid.Nil {
		return echo.NewHTTPError(http.StatusBadRequest, "draft id is required")
	}

	resp, err := h.orderService.CompleteDraft(c.Request().Context(), userID, req.DraftID)
	if err != nil {
		if errors.Is(err, services.ErrDraftNotFoundOrEmpty) {
			return echo.NewHTTPError(http.StatusNotFound, "Draft not found or empty")
		}
		c.Logger().Errorf("failed to complete draft: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}

	return c.JSON(http.StatusOK, resp)
}
