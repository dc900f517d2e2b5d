package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rezonsoft/pamiatki/internal/models"
	"github.com/rezonsoft/pamiatki/internal/storage"
	"github.com/shopspring/decimal"
)

var (
	ErrNoLiveDraft      = errors.New("no live draft")
	ErrInvalidDraftItem = errors.New("product and positive quantity are required")
)

// DraftService определяет интерфейс работы с черновиками заказов.
// У пользователя может быть не больше одного живого черновика.
type DraftService interface {
	GetLive(ctx context.Context, userID uuid.UUID) (*models.OrderDraft, error)
	Create(ctx context.Context, userID uuid.UUID, req *models.CreateDraftRequest) (*models.OrderDraft, error)
	Update(ctx context.Context, userID uuid.UUID, req *models.UpdateDraftRequest) (*models.OrderDraft, error)
	Delete(ctx context.Context, userID, draftID uuid.UUID) error
	AddItem(ctx context.Context, userID uuid.UUID, req *models.AddDraftItemRequest) (*models.OrderDraftItem, error)
	UpdateItem(ctx context.Context, userID, itemID uuid.UUID, req *models.UpdateDraftItemRequest) (*models.OrderDraftItem, error)
	DeleteItem(ctx context.Context, userID, itemID uuid.UUID) error
}

// DraftServiceImpl реализует DraftService.
type DraftServiceImpl struct {
	draftStorage DraftStorage
}

// NewDraftService создаёт новый сервис черновиков.
func NewDraftService(draftStorage DraftStorage) *DraftServiceImpl {
	return &DraftServiceImpl{draftStorage: draftStorage}
}

// GetLive возвращает живой черновик пользователя.
func (s *DraftServiceImpl) GetLive(ctx context.Context, userID uuid.UUID) (*models.OrderDraft, error) {
	draft, err := s.draftStorage.GetLiveByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, storage.ErrDraftNotFound) {
			return nil, ErrNoLiveDraft
		}
		return nil, fmt.Errorf("get live draft: %w", err)
	}
	return draft, nil
}

// Create создаёт черновик. Если у пользователя уже есть живой черновик,
// возвращает storage.ErrActiveDraftExists.
func (s *DraftServiceImpl) Create(ctx context.Context, userID uuid.UUID, req *models.CreateDraftRequest) (*models.OrderDraft, error) {
	// Быстрая проверка до вставки; частичный уникальный индекс закрывает гонку.
	if _, err := s.draftStorage.GetLiveByUser(ctx, userID); err == nil {
		return nil, storage.ErrActiveDraftExists
	} else if !errors.Is(err, storage.ErrDraftNotFound) {
		return nil, fmt.Errorf("check live draft: %w", err)
	}

	draft := &models.OrderDraft{
		ID:           uuid.New(),
		UserID:       userID,
		CustomerID:   req.CustomerID,
		LocationName: req.LocationName,
		Status:       models.DraftStatusActive,
		TotalValue:   decimal.Zero,
		Notes:        req.Notes,
	}

	if err := s.draftStorage.Create(ctx, draft); err != nil {
		if errors.Is(err, storage.ErrActiveDraftExists) {
			return nil, storage.ErrActiveDraftExists
		}
		return nil, fmt.Errorf("create draft: %w", err)
	}

	draft.Items = []*models.OrderDraftItem{}
	return draft, nil
}

// Update изменяет поля черновика пользователя.
func (s *DraftServiceImpl) Update(ctx context.Context, userID uuid.UUID, req *models.UpdateDraftRequest) (*models.OrderDraft, error) {
	draft, err := s.draftStorage.GetByIDForUser(ctx, req.ID, userID)
	if err != nil {
		if errors.Is(err, storage.ErrDraftNotFound) {
			return nil, storage.ErrDraftNotFound
		}
		return nil, fmt.Errorf("get draft: %w", err)
	}

	if req.CustomerID != nil {
		draft.CustomerID = req.CustomerID
	}
	if req.LocationName != nil {
		draft.LocationName = req.LocationName
	}
	if req.Notes != nil {
		draft.Notes = req.Notes
	}

	if err := s.draftStorage.Update(ctx, draft); err != nil {
		return nil, fmt.Errorf("update draft: %w", err)
	}

	return draft, nil
}

// Delete удаляет черновик пользователя вместе с позициями.
func (s *DraftServiceImpl) Delete(ctx context.Context, userID, draftID uuid.UUID) error {
	if err := s.draftStorage.Delete(ctx, draftID, userID); err != nil {
		if errors.Is(err, storage.ErrDraftNotFound) {
			return storage.ErrDraftNotFound
		}
		return fmt.Errorf("delete draft: %w", err)
	}
	return nil
}

// AddItem добавляет позицию в черновик пользователя и пересчитывает сумму.
func (s *DraftServiceImpl) AddItem(ctx context.Context, userID uuid.UUID, req *models.AddDraftItemRequest) (*models.OrderDraftItem, error) {
	if req.ProductID == uuid.Nil || req.Quantity <= 0 {
		return nil, ErrInvalidDraftItem
	}

	draft, err := s.draftStorage.GetByIDForUser(ctx, req.DraftID, userID)
	if err != nil {
		if errors.Is(err, storage.ErrDraftNotFound) {
			return nil, storage.ErrDraftNotFound
		}
		return nil, fmt.Errorf("get draft: %w", err)
	}

	unitPrice := decimal.NewFromFloat(req.UnitPrice)
	item := &models.OrderDraftItem{
		ID:            uuid.New(),
		DraftID:       draft.ID,
		ProductID:     req.ProductID,
		Quantity:      req.Quantity,
		UnitPrice:     unitPrice,
		TotalPrice:    unitPrice.Mul(decimal.NewFromInt(int64(req.Quantity))),
		Customization: req.Customization,
		Projects:      req.Projects,
		Source:        req.Source,
	}

	if err := s.draftStorage.AddItem(ctx, item); err != nil {
		return nil, fmt.Errorf("add draft item: %w", err)
	}

	if err := s.draftStorage.RecalcTotal(ctx, draft.ID); err != nil {
		return nil, fmt.Errorf("recalc draft total: %w", err)
	}

	return item, nil
}

// UpdateItem изменяет позицию черновика и пересчитывает сумму.
func (s *DraftServiceImpl) UpdateItem(ctx context.Context, userID, itemID uuid.UUID, req *models.UpdateDraftItemRequest) (*models.OrderDraftItem, error) {
	item, err := s.draftStorage.GetItemForUser(ctx, itemID, userID)
	if err != nil {
		if errors.Is(err, storage.ErrDraftItemNotFound) {
			return nil, storage.ErrDraftItemNotFound
		}
		return nil, fmt.Errorf("get draft item: %w", err)
	}

	if req.Quantity != nil {
		if *req.Quantity <= 0 {
			return nil, ErrInvalidDraftItem
		}
		item.Quantity = *req.Quantity
	}
	if req.UnitPrice != nil {
		item.UnitPrice = decimal.NewFromFloat(*req.UnitPrice)
	}
	if req.Customization != nil {
		item.Customization = req.Customization
	}
	if req.Projects != nil {
		item.Projects = req.Projects
	}
	item.TotalPrice = item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity)))

	if err := s.draftStorage.UpdateItem(ctx, item); err != nil {
		return nil, fmt.Errorf("update draft item: %w", err)
	}

	if err := s.draftStorage.RecalcTotal(ctx, item.DraftID); err != nil {
		return nil, fmt.Errorf("recalc draft total: %w", err)
	}

	return item, nil
}

// DeleteItem удаляет позицию черновика и пересчитывает сумму.
func (s *DraftServiceImpl) DeleteItem(ctx context.Context, userID, itemID uuid.UUID) error {
	item, err := s.draftStorage.GetItemForUser(ctx, itemID, userID)
	if err != nil {
		if errors.Is(err, storage.ErrDraftItemNotFound) {
			return storage.ErrDraftItemNotFound
		}
		return fmt.Errorf("get draft item: %w", err)
	}

	if err := s.draftStorage.DeleteItem(ctx, item.ID); err != nil {
		return fmt.Errorf("delete draft item: %w", err)
	}

	if err := s.draftStorage.RecalcTotal(ctx, item.DraftID); err != nil {
		return fmt.Errorf("recalc draft total: %w", err)
	}

	return nil
}
