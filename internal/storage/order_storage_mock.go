package storage

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rezonsoft/pamiatki/internal/models"
)

// MockOrderStorage - мок для тестирования (экспортируемый для использования в других пакетах)
type MockOrderStorage struct {
	BeginFunc         func(ctx context.Context) (pgx.Tx, error)
	CountByYearTxFunc func(ctx context.Context, tx pgx.Tx, yearPrefix string) (int, error)
	CreateTxFunc      func(ctx context.Context, tx pgx.Tx, order *models.Order) error
	CreateItemTxFunc  func(ctx context.Context, tx pgx.Tx, item *models.OrderItem) error
	GetByIDFunc       func(ctx context.Context, id uuid.UUID) (*models.Order, error)
	ListAllFunc       func(ctx context.Context) ([]*models.Order, error)
	ListByUserIDFunc  func(ctx context.Context, userID uuid.UUID) ([]*models.Order, error)
	UpdateStatusFunc  func(ctx context.Context, id uuid.UUID, status models.OrderStatus) error
}

func (m *MockOrderStorage) Begin(ctx context.Context) (pgx.Tx, error) {
	if m.BeginFunc != nil {
		return m.BeginFunc(ctx)
	}
	return &MockTx{}, nil
}

func (m *MockOrderStorage) CountByYearTx(ctx context.Context, tx pgx.Tx, yearPrefix string) (int, error) {
	if m.CountByYearTxFunc != nil {
		return m.CountByYearTxFunc(ctx, tx, yearPrefix)
	}
	return 0, nil
}

func (m *MockOrderStorage) CreateTx(ctx context.Context, tx pgx.Tx, order *models.Order) error {
	if m.CreateTxFunc != nil {
		return m.CreateTxFunc(ctx, tx, order)
	}
	return nil
}

func (m *MockOrderStorage) CreateItemTx(ctx context.Context, tx pgx.Tx, item *models.OrderItem) error {
	if m.CreateItemTxFunc != nil {
		return m.CreateItemTxFunc(ctx, tx, item)
	}
	return nil
}

func (m *MockOrderStorage) GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, ErrOrderNotFound
}

func (m *MockOrderStorage) ListAll(ctx context.Context) ([]*models.Order, error) {
	if m.ListAllFunc != nil {
		return m.ListAllFunc(ctx)
	}
	return nil, nil
}

func (m *MockOrderStorage) ListByUserID(ctx context.Context, userID uuid.UUID) ([]*models.Order, error) {
	if m.ListByUserIDFunc != nil {
		return m.ListByUserIDFunc(ctx, userID)
	}
	return nil, nil
}

func (m *MockOrderStorage) UpdateStatus(ctx context.Context, id uuid.UUID, status models.OrderStatus) error {
	if m.UpdateStatusFunc != nil {
		return m.UpdateStatusFunc(ctx, id, status)
	}
	return nil
}
