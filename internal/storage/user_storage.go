package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rezonsoft/pamiatki/internal/models"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrEmailExists  = errors.New("email already exists")
)

// PostgresUserStorage реализует UserStorage для PostgreSQL.
type PostgresUserStorage struct {
	pool *pgxpool.Pool
}

// NewPostgresUserStorage создаёт новый экземпляр PostgresUserStorage.
func NewPostgresUserStorage(pool *pgxpool.Pool) *PostgresUserStorage {
	return &PostgresUserStorage{pool: pool}
}

// Create создаёт нового пользователя.
func (s *PostgresUserStorage) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (id, name, email, password_hash, role, department_id, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`

	// Генерируем UUID, если не задан
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}

	// Email хранится в нижнем регистре
	user.Email = strings.ToLower(user.Email)

	err := s.pool.QueryRow(ctx, query,
		user.ID,
		user.Name,
		user.Email,
		user.PasswordHash,
		user.Role,
		user.DepartmentID,
		user.IsActive,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)

	if err != nil {
		// Проверка на уникальность email
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
			return ErrEmailExists
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

// GetByEmail ищет пользователя по email.
func (s *PostgresUserStorage) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `
		SELECT id, name, email, password_hash, role, department_id, is_active, created_at, updated_at
		FROM users
		WHERE email = $1
	`

	return scanUser(s.pool.QueryRow(ctx, query, strings.ToLower(email)))
}

// GetByID ищет пользователя по ID.
func (s *PostgresUserStorage) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	query := `
		SELECT id, name, email, password_hash, role, department_id, is_active, created_at, updated_at
		FROM users
		WHERE id = $1
	`

	return scanUser(s.pool.QueryRow(ctx, query, id))
}

// List возвращает всех пользователей со связанными отделами (новые первыми).
func (s *PostgresUserStorage) List(ctx context.Context) ([]*models.User, error) {
	query := `
		SELECT u.id, u.name, u.email, u.password_hash, u.role, u.department_id, u.is_active,
		       u.created_at, u.updated_at,
		       d.id, d.name, d.created_at, d.updated_at
		FROM users u
		LEFT JOIN departments d ON d.id = u.department_id
		ORDER BY u.created_at DESC
	`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		user := &models.User{}
		var (
			depID        *uuid.UUID
			depName      *string
			depCreatedAt *time.Time
			depUpdatedAt *time.Time
		)

		err := rows.Scan(
			&user.ID,
			&user.Name,
			&user.Email,
			&user.PasswordHash,
			&user.Role,
			&user.DepartmentID,
			&user.IsActive,
			&user.CreatedAt,
			&user.UpdatedAt,
			&depID,
			&depName,
			&depCreatedAt,
			&depUpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}

		if depID != nil && depName != nil {
			user.Department = &models.Department{
				ID:        *depID,
				Name:      *depName,
				CreatedAt: *depCreatedAt,
				UpdatedAt: *depUpdatedAt,
			}
		}

		users = append(users, user)
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("rows error: %w", rows.Err())
	}

	return users, nil
}

// Update изменяет имя, роль, отдел и активность пользователя.
func (s *PostgresUserStorage) Update(ctx context.Context, user *models.User) error {
	query := `
		UPDATE users
		SET name = $1, role = $2, department_id = $3, is_active = $4, updated_at = NOW()
		WHERE id = $5
	`

	result, err := s.pool.Exec(ctx, query, user.Name, user.Role, user.DepartmentID, user.IsActive, user.ID)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrUserNotFound
	}

	return nil
}

// UpdatePassword заменяет хеш пароля пользователя.
func (s *PostgresUserStorage) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	query := `
		UPDATE users
		SET password_hash = $1, updated_at = NOW()
		WHERE id = $2
	`

	result, err := s.pool.Exec(ctx, query, passwordHash, id)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrUserNotFound
	}

	return nil
}

// Delete удаляет пользователя.
func (s *PostgresUserStorage) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := s.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrUserNotFound
	}

	return nil
}

// scanUser помогает читать пользователя из строки результата.
func scanUser(row pgx.Row) (*models.User, error) {
	user := &models.User{}
	err := row.Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.PasswordHash,
		&user.Role,
		&user.DepartmentID,
		&user.IsActive,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to scan user: %w", err)
	}

	return user, nil
}
