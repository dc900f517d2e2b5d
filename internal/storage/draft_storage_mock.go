package storage

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rezonsoft/pamiatki/internal/models"
)

// MockDraftStorage - мок для тестирования (экспортируемый для использования в других пакетах)
type MockDraftStorage struct {
	CreateFunc           func(ctx context.Context, draft *models.OrderDraft) error
	GetLiveByUserFunc    func(ctx context.Context, userID uuid.UUID) (*models.OrderDraft, error)
	GetLiveForUserTxFunc func(ctx context.Context, tx pgx.Tx, draftID, userID uuid.UUID) (*models.OrderDraft, error)
	GetByIDForUserFunc   func(ctx context.Context, draftID, userID uuid.UUID) (*models.OrderDraft, error)
	UpdateFunc           func(ctx context.Context, draft *models.OrderDraft) error
	CompleteTxFunc       func(ctx context.Context, tx pgx.Tx, draftID uuid.UUID, notes string) error
	DeleteFunc           func(ctx context.Context, draftID, userID uuid.UUID) error
	AddItemFunc          func(ctx context.Context, item *models.OrderDraftItem) error
	GetItemForUserFunc   func(ctx context.Context, itemID, userID uuid.UUID) (*models.OrderDraftItem, error)
	UpdateItemFunc       func(ctx context.Context, item *models.OrderDraftItem) error
	DeleteItemFunc       func(ctx context.Context, itemID uuid.UUID) error
	RecalcTotalFunc      func(ctx context.Context, draftID uuid.UUID) error
}

func (m *MockDraftStorage) Create(ctx context.Context, draft *models.OrderDraft) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, draft)
	}
	return nil
}

func (m *MockDraftStorage) GetLiveByUser(ctx context.Context, userID uuid.UUID) (*models.OrderDraft, error) {
	if m.GetLiveByUserFunc != nil {
		return m.GetLiveByUserFunc(ctx, userID)
	}
	return nil, ErrDraftNotFound
}

func (m *MockDraftStorage) GetLiveForUserTx(ctx context.Context, tx pgx.Tx, draftID, userID uuid.UUID) (*models.OrderDraft, error) {
	if m.GetLiveForUserTxFunc != nil {
		return m.GetLiveForUserTxFunc(ctx, tx, draftID, userID)
	}
	return nil, ErrDraftNotFound
}

func (m *MockDraftStorage) GetByIDForUser(ctx context.Context, draftID, userID uuid.UUID) (*models.OrderDraft, error) {
	if m.GetByIDForUserFunc != nil {
		return m.GetByIDForUserFunc(ctx, draftID, userID)
	}
	return nil, ErrDraftNotFound
}

func (m *MockDraftStorage) Update(ctx context.Context, draft *models.OrderDraft) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, draft)
	}
	return nil
}

func (m *MockDraftStorage) CompleteTx(ctx context.Context, tx pgx.Tx, draftID uuid.UUID, notes string) error {
	if m.CompleteTxFunc != nil {
		return m.CompleteTxFunc(ctx, tx, draftID, notes)
	}
	return nil
}

func (m *MockDraftStorage) Delete(ctx context.Context, draftID, userID uuid.UUID) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, draftID, userID)
	}
	return nil
}

func (m *MockDraftStorage) AddItem(ctx context.Context, item *models.OrderDraftItem) error {
	if m.AddItemFunc != nil {
		return m.AddItemFunc(ctx, item)
	}
	return nil
}

func (m *MockDraftStorage) GetItemForUser(ctx context.Context, itemID, userID uuid.UUID) (*models.OrderDraftItem, error) {
	if m.GetItemForUserFunc != nil {
		return m.GetItemForUserFunc(ctx, itemID, userID)
	}
	return nil, ErrDraftItemNotFound
}

func (m *MockDraftStorage) UpdateItem(ctx context.Context, item *models.OrderDraftItem) error {
	if m.UpdateItemFunc != nil {
		return m.UpdateItemFunc(ctx, item)
	}
	return nil
}

func (m *MockDraftStorage) DeleteItem(ctx context.Context, itemID uuid.UUID) error {
	if m.DeleteItemFunc != nil {
		return m.DeleteItemFunc(ctx, itemID)
	}
	return nil
}

func (m *MockDraftStorage) RecalcTotal(ctx context.Context, draftID uuid.UUID) error {
	if m.RecalcTotalFunc != nil {
		return m.RecalcTotalFunc(ctx, draftID)
	}
	return nil
}
