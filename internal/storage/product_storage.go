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
	ErrProductNotFound = errors.New("product not found")
	ErrProductExists   = errors.New("product already exists")
)

// PostgresProductStorage реализует ProductStorage для PostgreSQL.
type PostgresProductStorage struct {
	pool *pgxpool.Pool
}

// NewPostgresProductStorage создаёт новый экземпляр PostgresProductStorage.
func NewPostgresProductStorage(pool *pgxpool.Pool) *PostgresProductStorage {
	return &PostgresProductStorage{pool: pool}
}

// Create создаёт новый товар.
func (s *PostgresProductStorage) Create(ctx context.Context, product *models.Product) error {
	query := `
		INSERT INTO products (id, identifier, index_code, slug, description, price, image_url,
		                      category, production_path, dimensions, is_active, is_new, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`

	if product.ID == uuid.Nil {
		product.ID = uuid.New()
	}

	err := s.pool.QueryRow(ctx, query,
		product.ID,
		product.Identifier,
		product.IndexCode,
		product.Slug,
		product.Description,
		product.Price,
		product.ImageURL,
		product.Category,
		product.ProductionPath,
		product.Dimensions,
		product.IsActive,
		product.IsNew,
	).Scan(&product.ID, &product.CreatedAt, &product.UpdatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
			return ErrProductExists
		}
		return fmt.Errorf("failed to create product: %w", err)
	}

	return nil
}

// GetByID возвращает товар по ID.
func (s *PostgresProductStorage) GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	query := productSelect + ` WHERE id = $1`
	return scanProduct(s.pool.QueryRow(ctx, query, id))
}

// GetByIdentifier возвращает товар по идентификатору.
func (s *PostgresProductStorage) GetByIdentifier(ctx context.Context, identifier string) (*models.Product, error) {
	query := productSelect + ` WHERE identifier = $1`
	return scanProduct(s.pool.QueryRow(ctx, query, identifier))
}

// ListActive возвращает активные товары (сортировка по идентификатору).
func (s *PostgresProductStorage) ListActive(ctx context.Context) ([]*models.Product, error) {
	query := productSelect + ` WHERE is_active = TRUE ORDER BY identifier ASC`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	var products []*models.Product
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, product)
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("rows error: %w", rows.Err())
	}

	return products, nil
}

// Update изменяет товар.
func (s *PostgresProductStorage) Update(ctx context.Context, product *models.Product) error {
	query := `
		UPDATE products
		SET identifier = $1, index_code = $2, slug = $3, description = $4, price = $5,
		    image_url = $6, category = $7, production_path = $8, dimensions = $9,
		    is_active = $10, is_new = $11, updated_at = NOW()
		WHERE id = $12
	`

	result, err := s.pool.Exec(ctx, query,
		product.Identifier,
		product.IndexCode,
		product.Slug,
		product.Description,
		product.Price,
		product.ImageURL,
		product.Category,
		product.ProductionPath,
		product.Dimensions,
		product.IsActive,
		product.IsNew,
		product.ID,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrProductExists
		}
		return fmt.Errorf("failed to update product: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrProductNotFound
	}

	return nil
}

// Delete удаляет товар.
func (s *PostgresProductStorage) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := s.pool.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrProductNotFound
	}

	return nil
}

const productSelect = `
	SELECT id, identifier, index_code, slug, description, price, image_url,
	       category, production_path, dimensions, is_active, is_new, created_at, updated_at
	FROM products
`

// scanProduct помогает читать товар из строки результата.
func scanProduct(row pgx.Row) (*models.Product, error) {
	product := &models.Product{}
	err := row.Scan(
		&product.ID,
		&product.Identifier,
		&product.IndexCode,
		&product.Slug,
		&product.Description,
		&product.Price,
		&product.ImageURL,
		&product.Category,
		&product.ProductionPath,
		&product.Dimensions,
		&product.IsActive,
		&product.IsNew,
		&product.CreatedAt,
		&product.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to scan product: %w", err)
	}

	return product, nil
}
