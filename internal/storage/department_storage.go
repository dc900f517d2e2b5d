package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rezonsoft/pamiatki/internal/models"
)

var (
	ErrDepartmentNotFound = errors.New("department not found")
	ErrDepartmentExists   = errors.New("department already exists")
)

// PostgresDepartmentStorage реализует DepartmentStorage для PostgreSQL.
type PostgresDepartmentStorage struct {
	pool *pgxpool.Pool
}

// NewPostgresDepartmentStorage создаёт новый экземпляр PostgresDepartmentStorage.
func NewPostgresDepartmentStorage(pool *pgxpool.Pool) *PostgresDepartmentStorage {
	return &PostgresDepartmentStorage{pool: pool}
}

// Create создаёт новый отдел.
func (s *PostgresDepartmentStorage) Create(ctx context.Context, department *models.Department) error {
	query := `
		INSERT INTO departments (id, name, created_at, updated_at)
		VALUES ($1, $2, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`

	if department.ID == uuid.Nil {
		department.ID = uuid.New()
	}

	err := s.pool.QueryRow(ctx, query, department.ID, department.Name).
		Scan(&department.ID, &department.CreatedAt, &department.UpdatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
			return ErrDepartmentExists
		}
		return fmt.Errorf("failed to create department: %w", err)
	}

	return nil
}

// GetByID возвращает отдел по ID.
func (s *PostgresDepartmentStorage) GetByID(ctx context.Context, id uuid.UUID) (*models.Department, error) {
	query := `
		SELECT id, name, created_at, updated_at
		FROM departments
		WHERE id = $1
	`

	department := &models.Department{}
	err := s.pool.QueryRow(ctx, query, id).Scan(
		&department.ID,
		&department.Name,
		&department.CreatedAt,
		&department.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrDepartmentNotFound
		}
		return nil, fmt.Errorf("failed to get department: %w", err)
	}

	return department, nil
}

// List возвращает все отделы с количеством пользователей.
func (s *PostgresDepartmentStorage) List(ctx context.Context) ([]*models.Department, error) {
	query := `
		SELECT d.id, d.name, d.created_at, d.updated_at, COUNT(u.id)
		FROM departments d
		LEFT JOIN users u ON u.department_id = d.id
		GROUP BY d.id
		ORDER BY d.name ASC
	`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query departments: %w", err)
	}
	defer rows.Close()

	var departments []*models.Department
	for rows.Next() {
		department := &models.Department{}
		err := rows.Scan(
			&department.ID,
			&department.Name,
			&department.CreatedAt,
			&department.UpdatedAt,
			&department.UserCount,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan department: %w", err)
		}
		departments = append(departments, department)
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("rows error: %w", rows.Err())
	}

	return departments, nil
}

// Update переименовывает отдел.
func (s *PostgresDepartmentStorage) Update(ctx context.Context, department *models.Department) error {
	query := `
		UPDATE departments
		SET name = $1, updated_at = NOW()
		WHERE id = $2
	`

	result, err := s.pool.Exec(ctx, query, department.Name, department.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDepartmentExists
		}
		return fmt.Errorf("failed to update department: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrDepartmentNotFound
	}

	return nil
}

// Delete удаляет отдел.
func (s *PostgresDepartmentStorage) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := s.pool.Exec(ctx, `DELETE FROM departments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete department: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrDepartmentNotFound
	}

	return nil
}
