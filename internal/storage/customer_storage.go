package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rezonsoft/pamiatki/internal/models"
)

var ErrCustomerNotFound = errors.New("customer not found")

// PostgresCustomerStorage реализует CustomerStorage для PostgreSQL.
type PostgresCustomerStorage struct {
	pool *pgxpool.Pool
}

// NewPostgresCustomerStorage создаёт новый экземпляр PostgresCustomerStorage.
func NewPostgresCustomerStorage(pool *pgxpool.Pool) *PostgresCustomerStorage {
	return &PostgresCustomerStorage{pool: pool}
}

// Create создаёт нового клиента.
func (s *PostgresCustomerStorage) Create(ctx context.Context, customer *models.Customer) error {
	query := `
		INSERT INTO customers (id, name, address, phone, email, notes, sales_rep_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`

	if customer.ID == uuid.Nil {
		customer.ID = uuid.New()
	}

	err := s.pool.QueryRow(ctx, query,
		customer.ID,
		customer.Name,
		customer.Address,
		customer.Phone,
		customer.Email,
		customer.Notes,
		customer.SalesRepID,
	).Scan(&customer.ID, &customer.CreatedAt, &customer.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create customer: %w", err)
	}

	return nil
}

// GetByID возвращает клиента по ID.
func (s *PostgresCustomerStorage) GetByID(ctx context.Context, id uuid.UUID) (*models.Customer, error) {
	query := `
		SELECT id, name, address, phone, email, notes, sales_rep_id, created_at, updated_at
		FROM customers
		WHERE id = $1
	`

	return scanCustomer(s.pool.QueryRow(ctx, query, id))
}

// List возвращает всех клиентов (сортировка по имени).
func (s *PostgresCustomerStorage) List(ctx context.Context) ([]*models.Customer, error) {
	query := `
		SELECT id, name, address, phone, email, notes, sales_rep_id, created_at, updated_at
		FROM customers
		ORDER BY name ASC
	`

	return s.queryCustomers(ctx, query)
}

// ListBySalesRep возвращает клиентов, закреплённых за торговым представителем.
func (s *PostgresCustomerStorage) ListBySalesRep(ctx context.Context, salesRepID uuid.UUID) ([]*models.Customer, error) {
	query := `
		SELECT id, name, address, phone, email, notes, sales_rep_id, created_at, updated_at
		FROM customers
		WHERE sales_rep_id = $1
		ORDER BY name ASC
	`

	return s.queryCustomers(ctx, query, salesRepID)
}

// Update изменяет данные клиента.
func (s *PostgresCustomerStorage) Update(ctx context.Context, customer *models.Customer) error {
	query := `
		UPDATE customers
		SET name = $1, address = $2, phone = $3, email = $4, notes = $5, updated_at = NOW()
		WHERE id = $6
	`

	result, err := s.pool.Exec(ctx, query,
		customer.Name,
		customer.Address,
		customer.Phone,
		customer.Email,
		customer.Notes,
		customer.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update customer: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrCustomerNotFound
	}

	return nil
}

// Delete удаляет клиента.
func (s *PostgresCustomerStorage) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := s.pool.Exec(ctx, `DELETE FROM customers WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete customer: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrCustomerNotFound
	}

	return nil
}

func (s *PostgresCustomerStorage) queryCustomers(ctx context.Context, query string, args ...any) ([]*models.Customer, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query customers: %w", err)
	}
	defer rows.Close()

	var customers []*models.Customer
	for rows.Next() {
		customer, err := scanCustomer(rows)
		if err != nil {
			return nil, err
		}
		customers = append(customers, customer)
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("rows error: %w", rows.Err())
	}

	return customers, nil
}

// scanCustomer помогает читать клиента из строки результата.
func scanCustomer(row pgx.Row) (*models.Customer, error) {
	customer := &models.Customer{}
	err := row.Scan(
		&customer.ID,
		&customer.Name,
		&customer.Address,
		&customer.Phone,
		&customer.Email,
		&customer.Notes,
		&customer.SalesRepID,
		&customer.CreatedAt,
		&customer.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCustomerNotFound
		}
		return nil, fmt.Errorf("failed to scan customer: %w", err)
	}

	return customer, nil
}
