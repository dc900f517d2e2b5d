package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rezonsoft/pamiatki/internal/models"
	"github.com/rezonsoft/pamiatki/internal/storage"
)

var ErrEmptyDepartmentName = errors.New("department name is required")

// DepartmentService определяет интерфейс для работы с отделами.
type DepartmentService interface {
	Create(ctx context.Context, req *models.DepartmentRequest) (*models.Department, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Department, error)
	List(ctx context.Context) ([]*models.Department, error)
	Update(ctx context.Context, id uuid.UUID, req *models.DepartmentRequest) (*models.Department, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// DepartmentServiceImpl реализует DepartmentService.
type DepartmentServiceImpl struct {
	departmentStorage DepartmentStorage
}

// NewDepartmentService создаёт новый экземпляр DepartmentService.
func NewDepartmentService(departmentStorage DepartmentStorage) *DepartmentServiceImpl {
	return &DepartmentServiceImpl{departmentStorage: departmentStorage}
}

// Create создаёт новый отдел.
func (s *DepartmentServiceImpl) Create(ctx context.Context, req *models.DepartmentRequest) (*models.Department, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, ErrEmptyDepartmentName
	}

	department := &models.Department{
		ID:   uuid.New(),
		Name: name,
	}

	if err := s.departmentStorage.Create(ctx, department); err != nil {
		if errors.Is(err, storage.ErrDepartmentExists) {
			return nil, storage.ErrDepartmentExists
		}
		return nil, fmt.Errorf("failed to create department: %w", err)
	}

	return department, nil
}

// GetByID возвращает отдел по идентификатору.
func (s *DepartmentServiceImpl) GetByID(ctx context.Context, id uuid.UUID) (*models.Department, error) {
	department, err := s.departmentStorage.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrDepartmentNotFound) {
			return nil, storage.ErrDepartmentNotFound
		}
		return nil, fmt.Errorf("failed to get department: %w", err)
	}
	return department, nil
}

// List возвращает все отделы с количеством пользователей.
func (s *DepartmentServiceImpl) List(ctx context.Context) ([]*models.Department, error) {
	departments, err := s.departmentStorage.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list departments: %w", err)
	}
	return departments, nil
}

// Update изменяет название отдела.
func (s *DepartmentServiceImpl) Update(ctx context.Context, id uuid.UUID, req *models.DepartmentRequest) (*models.Department, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, ErrEmptyDepartmentName
	}

	department, err := s.departmentStorage.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrDepartmentNotFound) {
			return nil, storage.ErrDepartmentNotFound
		}
		return nil, fmt.Errorf("failed to get department: %w", err)
	}

	department.Name = name
	if err := s.departmentStorage.Update(ctx, department); err != nil {
		if errors.Is(err, storage.ErrDepartmentExists) {
			return nil, storage.ErrDepartmentExists
		}
		return nil, fmt.Errorf("failed to update department: %w", err)
	}

	return department, nil
}

// Delete удаляет отдел.
func (s *DepartmentServiceImpl) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.departmentStorage.Delete(ctx, id); err != nil {
		if errors.Is(err, storage.ErrDepartmentNotFound) {
			return storage.ErrDepartmentNotFound
		}
		return fmt.Errorf("failed to delete department: %w", err)
	}
	return nil
}
