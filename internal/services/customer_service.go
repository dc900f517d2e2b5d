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

var (
	ErrEmptyCustomerName = errors.New("customer name is required")
	ErrCustomerForbidden = errors.New("customer belongs to another sales rep")
)

// CustomerService определяет интерфейс для работы с клиентами.
// Торговый представитель видит только своих клиентов, администратор
// и отдел продаж - всех.
type CustomerService interface {
	Create(ctx context.Context, actorID uuid.UUID, actorRole models.UserRole, req *models.CustomerRequest) (*models.Customer, error)
	GetByID(ctx context.Context, actorID uuid.UUID, actorRole models.UserRole, id uuid.UUID) (*models.Customer, error)
	List(ctx context.Context, actorID uuid.UUID, actorRole models.UserRole) ([]*models.Customer, error)
	Update(ctx context.Context, actorID uuid.UUID, actorRole models.UserRole, id uuid.UUID, req *models.CustomerRequest) (*models.Customer, error)
	Delete(ctx context.Context, actorID uuid.UUID, actorRole models.UserRole, id uuid.UUID) error
}

// CustomerServiceImpl реализует CustomerService.
type CustomerServiceImpl struct {
	customerStorage CustomerStorage
}

// NewCustomerService создаёт новый экземпляр CustomerService.
func NewCustomerService(customerStorage CustomerStorage) *CustomerServiceImpl {
	return &CustomerServiceImpl{customerStorage: customerStorage}
}

// seesAllCustomers возвращает true для ролей с полной видимостью клиентов.
func seesAllCustomers(role models.UserRole) bool {
	return role == models.RoleAdmin || role == models.RoleSalesDept
}

// Create создаёт клиента. Торговый представитель всегда становится
// владельцем, администратор может назначить другого представителя.
func (s *CustomerServiceImpl) Create(ctx context.Context, actorID uuid.UUID, actorRole models.UserRole, req *models.CustomerRequest) (*models.Customer, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, ErrEmptyCustomerName
	}

	salesRepID := actorID
	if seesAllCustomers(actorRole) && req.SalesRepID != nil {
		salesRepID = *req.SalesRepID
	}

	customer := &models.Customer{
		ID:         uuid.New(),
		Name:       name,
		Address:    req.Address,
		Phone:      req.Phone,
		Email:      req.Email,
		Notes:      req.Notes,
		SalesRepID: salesRepID,
	}

	if err := s.customerStorage.Create(ctx, customer); err != nil {
		return nil, fmt.Errorf("failed to create customer: %w", err)
	}

	return customer, nil
}

// GetByID возвращает клиента с проверкой видимости.
func (s *CustomerServiceImpl) GetByID(ctx context.Context, actorID uuid.UUID, actorRole models.UserRole, id uuid.UUID) (*models.Customer, error) {
	customer, err := s.customerStorage.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrCustomerNotFound) {
			return nil, storage.ErrCustomerNotFound
		}
		return nil, fmt.Errorf("failed to get customer: %w", err)
	}

	if !seesAllCustomers(actorRole) && customer.SalesRepID != actorID {
		return nil, ErrCustomerForbidden
	}

	return customer, nil
}

// List возвращает клиентов, видимых актору.
func (s *CustomerServiceImpl) List(ctx context.Context, actorID uuid.UUID, actorRole models.UserRole) ([]*models.Customer, error) {
	var (
		customers []*models.Customer
		err       error
	)
	if seesAllCustomers(actorRole) {
		customers, err = s.customerStorage.List(ctx)
	} else {
		customers, err = s.customerStorage.ListBySalesRep(ctx, actorID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}
	return customers, nil
}

// Update изменяет данные клиента с проверкой видимости.
func (s *CustomerServiceImpl) Update(ctx context.Context, actorID uuid.UUID, actorRole models.UserRole, id uuid.UUID, req *models.CustomerRequest) (*models.Customer, error) {
	customer, err := s.GetByID(ctx, actorID, actorRole, id)
	if err != nil {
		return nil, err
	}

	if name := strings.TrimSpace(req.Name); name != "" {
		customer.Name = name
	}
	if req.Address != nil {
		customer.Address = req.Address
	}
	if req.Phone != nil {
		customer.Phone = req.Phone
	}
	if req.Email != nil {
		customer.Email = req.Email
	}
	if req.Notes != nil {
		customer.Notes = req.Notes
	}
	if seesAllCustomers(actorRole) && req.SalesRepID != nil {
		customer.SalesRepID = *req.SalesRepID
	}

	if err := s.customerStorage.Update(ctx, customer); err != nil {
		return nil, fmt.Errorf("failed to update customer: %w", err)
	}

	return customer, nil
}

// Delete удаляет клиента с проверкой видимости.
func (s *CustomerServiceImpl) Delete(ctx context.Context, actorID uuid.UUID, actorRole models.UserRole, id uuid.UUID) error {
	if _, err := s.GetByID(ctx, actorID, actorRole, id); err != nil {
		return err
	}

	if err := s.customerStorage.Delete(ctx, id); err != nil {
		if errors.Is(err, storage.ErrCustomerNotFound) {
			return storage.ErrCustomerNotFound
		}
		return fmt.Errorf("failed to delete customer: %w", err)
	}

	return nil
}
