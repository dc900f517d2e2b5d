package storage

import (
	"context"

	"github.com/google/uuid"
	"github.com/rezonsoft/pamiatki/internal/models"
)

// MockUserStorage - мок для тестирования (экспортируемый для использования в других пакетах)
type MockUserStorage struct {
	CreateFunc         func(ctx context.Context, user *models.User) error
	GetByEmailFunc     func(ctx context.Context, email string) (*models.User, error)
	GetByIDFunc        func(ctx context.Context, id uuid.UUID) (*models.User, error)
	ListFunc           func(ctx context.Context) ([]*models.User, error)
	UpdateFunc         func(ctx context.Context, user *models.User) error
	UpdatePasswordFunc func(ctx context.Context, id uuid.UUID, passwordHash string) error
	DeleteFunc         func(ctx context.Context, id uuid.UUID) error
}

func (m *MockUserStorage) Create(ctx context.Context, user *models.User) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, user)
	}
	return nil
}

func (m *MockUserStorage) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if m.GetByEmailFunc != nil {
		return m.GetByEmailFunc(ctx, email)
	}
	return nil, ErrUserNotFound
}

func (m *MockUserStorage) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, ErrUserNotFound
}

func (m *MockUserStorage) List(ctx context.Context) ([]*models.User, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	return nil, nil
}

func (m *MockUserStorage) Update(ctx context.Context, user *models.User) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, user)
	}
	return nil
}

func (m *MockUserStorage) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	if m.UpdatePasswordFunc != nil {
		return m.UpdatePasswordFunc(ctx, id, passwordHash)
	}
	return nil
}

func (m *MockUserStorage) Delete(ctx context.Context, id uuid.UUID) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}
