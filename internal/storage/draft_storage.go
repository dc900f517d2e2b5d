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
	ErrDraftNotFound     = errors.New("draft not found")
	ErrActiveDraftExists = errors.New("active draft already exists")
	ErrDraftItemNotFound = errors.New("draft item not found")
)

// PostgresDraftStorage реализует DraftStorage для PostgreSQL.
type PostgresDraftStorage struct {
	pool *pgxpool.Pool
}

// NewPostgresDraftStorage создаёт новый экземпляр PostgresDraftStorage.
func NewPostgresDraftStorage(pool *pgxpool.Pool) *PostgresDraftStorage {
	return &PostgresDraftStorage{pool: pool}
}

// Create создаёт новый черновик. Частичный уникальный индекс гарантирует
// не больше одного живого черновика на пользователя.
func (s *PostgresDraftStorage) Create(ctx context.Context, draft *models.OrderDraft) error {
	query := `
		INSERT INTO order_drafts (id, user_id, customer_id, location_name, status, total_value, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
		RETURNING created_at, updated_at
	`

	if draft.ID == uuid.Nil {
		draft.ID = uuid.New()
	}

	err := s.pool.QueryRow(ctx, query,
		draft.ID,
		draft.UserID,
		draft.CustomerID,
		draft.LocationName,
		draft.Status,
		draft.TotalValue,
		draft.Notes,
	).Scan(&draft.CreatedAt, &draft.UpdatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
			return ErrActiveDraftExists
		}
		return fmt.Errorf("failed to create draft: %w", err)
	}

	return nil
}

// GetLiveByUser возвращает живой черновик пользователя (статус draft или active)
// с позициями в порядке добавления.
func (s *PostgresDraftStorage) GetLiveByUser(ctx context.Context, userID uuid.UUID) (*models.OrderDraft, error) {
	query := draftSelect + ` WHERE user_id = $1 AND status IN ('draft', 'active')`

	draft, err := scanDraft(s.pool.QueryRow(ctx, query, userID))
	if err != nil {
		return nil, err
	}

	draft.Items, err = s.loadItems(ctx, s.pool, draft.ID)
	if err != nil {
		return nil, err
	}

	return draft, nil
}

// GetLiveForUserTx возвращает живой черновик по ID и владельцу с блокировкой
// строки и позициями, в рамках транзакции финализации.
func (s *PostgresDraftStorage) GetLiveForUserTx(ctx context.Context, tx pgx.Tx, draftID, userID uuid.UUID) (*models.OrderDraft, error) {
	query := draftSelect + ` WHERE id = $1 AND user_id = $2 AND status IN ('draft', 'active') FOR UPDATE`

	draft, err := scanDraft(tx.QueryRow(ctx, query, draftID, userID))
	if err != nil {
		return nil, err
	}

	draft.Items, err = s.loadItems(ctx, tx, draft.ID)
	if err != nil {
		return nil, err
	}

	return draft, nil
}

// Update изменяет поля черновика. Черновик должен принадлежать пользователю.
func (s *PostgresDraftStorage) Update(ctx context.Context, draft *models.OrderDraft) error {
	query := `
		UPDATE order_drafts
		SET customer_id = $1, location_name = $2, notes = $3, updated_at = NOW()
		WHERE id = $4 AND user_id = $5
	`

	result, err := s.pool.Exec(ctx, query,
		draft.CustomerID,
		draft.LocationName,
		draft.Notes,
		draft.ID,
		draft.UserID,
	)
	if err != nil {
		return fmt.Errorf("failed to update draft: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrDraftNotFound
	}

	return nil
}

// CompleteTx помечает черновик завершённым и записывает ссылку на заказ
// в заметки, в рамках транзакции финализации.
func (s *PostgresDraftStorage) CompleteTx(ctx context.Context, tx pgx.Tx, draftID uuid.UUID, notes string) error {
	query := `
		UPDATE order_drafts
		SET status = $1, notes = $2, updated_at = NOW()
		WHERE id = $3
	`

	result, err := tx.Exec(ctx, query, models.DraftStatusCompleted, notes, draftID)
	if err != nil {
		return fmt.Errorf("failed to complete draft: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrDraftNotFound
	}

	return nil
}

// Delete удаляет черновик пользователя вместе с позициями (каскад).
func (s *PostgresDraftStorage) Delete(ctx context.Context, draftID, userID uuid.UUID) error {
	result, err := s.pool.Exec(ctx,
		`DELETE FROM order_drafts WHERE id = $1 AND user_id = $2`,
		draftID, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete draft: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrDraftNotFound
	}

	return nil
}

// GetByIDForUser возвращает черновик по ID, принадлежащий пользователю.
func (s *PostgresDraftStorage) GetByIDForUser(ctx context.Context, draftID, userID uuid.UUID) (*models.OrderDraft, error) {
	query := draftSelect + ` WHERE id = $1 AND user_id = $2`
	return scanDraft(s.pool.QueryRow(ctx, query, draftID, userID))
}

// AddItem добавляет позицию в черновик. Порядковый номер вычисляется
// как максимум по черновику плюс один.
func (s *PostgresDraftStorage) AddItem(ctx context.Context, item *models.OrderDraftItem) error {
	query := `
		INSERT INTO order_draft_items (id, draft_id, product_id, quantity, unit_price, total_price,
		                               customization, projects, source, sort_order)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9,
		        (SELECT COALESCE(MAX(sort_order), 0) + 1 FROM order_draft_items WHERE draft_id = $2))
		RETURNING sort_order
	`

	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}

	err := s.pool.QueryRow(ctx, query,
		item.ID,
		item.DraftID,
		item.ProductID,
		item.Quantity,
		item.UnitPrice,
		item.TotalPrice,
		item.Customization,
		item.Projects,
		item.Source,
	).Scan(&item.SortOrder)
	if err != nil {
		return fmt.Errorf("failed to add draft item: %w", err)
	}

	return nil
}

// GetItemForUser возвращает позицию черновика, если черновик принадлежит
// пользователю.
func (s *PostgresDraftStorage) GetItemForUser(ctx context.Context, itemID, userID uuid.UUID) (*models.OrderDraftItem, error) {
	query := `
		SELECT i.id, i.draft_id, i.product_id, i.quantity, i.unit_price, i.total_price,
		       i.customization, i.projects, i.source, i.sort_order
		FROM order_draft_items i
		JOIN order_drafts d ON d.id = i.draft_id
		WHERE i.id = $1 AND d.user_id = $2
	`

	item := &models.OrderDraftItem{}
	err := s.pool.QueryRow(ctx, query, itemID, userID).Scan(
		&item.ID,
		&item.DraftID,
		&item.ProductID,
		&item.Quantity,
		&item.UnitPrice,
		&item.TotalPrice,
		&item.Customization,
		&item.Projects,
		&item.Source,
		&item.SortOrder,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrDraftItemNotFound
		}
		return nil, fmt.Errorf("failed to get draft item: %w", err)
	}

	return item, nil
}

// UpdateItem изменяет позицию черновика.
func (s *PostgresDraftStorage) UpdateItem(ctx context.Context, item *models.OrderDraftItem) error {
	query := `
		UPDATE order_draft_items
		SET quantity = $1, unit_price = $2, total_price = $3, customization = $4, projects = $5
		WHERE id = $6
	`

	result, err := s.pool.Exec(ctx, query,
		item.Quantity,
		item.UnitPrice,
		item.TotalPrice,
		item.Customization,
		item.Projects,
		item.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update draft item: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrDraftItemNotFound
	}

	return nil
}

// DeleteItem удаляет позицию черновика.
func (s *PostgresDraftStorage) DeleteItem(ctx context.Context, itemID uuid.UUID) error {
	result, err := s.pool.Exec(ctx, `DELETE FROM order_draft_items WHERE id = $1`, itemID)
	if err != nil {
		return fmt.Errorf("failed to delete draft item: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrDraftItemNotFound
	}

	return nil
}

// RecalcTotal пересчитывает суммарную стоимость черновика по его позициям.
func (s *PostgresDraftStorage) RecalcTotal(ctx context.Context, draftID uuid.UUID) error {
	query := `
		UPDATE order_drafts
		SET total_value = COALESCE(
		        (SELECT SUM(total_price) FROM order_draft_items WHERE draft_id = $1), 0),
		    updated_at = NOW()
		WHERE id = $1
	`

	if _, err := s.pool.Exec(ctx, query, draftID); err != nil {
		return fmt.Errorf("failed to recalc draft total: %w", err)
	}

	return nil
}

const draftSelect = `
	SELECT id, user_id, customer_id, location_name, status, total_value, notes, created_at, updated_at
	FROM order_drafts
`

// queryRower объединяет pgxpool.Pool и pgx.Tx для выборки позиций.
type queryRower interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// loadItems выбирает позиции черновика с товарами в порядке добавления.
func (s *PostgresDraftStorage) loadItems(ctx context.Context, q queryRower, draftID uuid.UUID) ([]*models.OrderDraftItem, error) {
	query := `
		SELECT i.id, i.draft_id, i.product_id, i.quantity, i.unit_price, i.total_price,
		       i.customization, i.projects, i.source, i.sort_order,
		       p.id, p.identifier, p.index_code, p.slug, p.description, p.price, p.image_url,
		       p.category, p.production_path, p.dimensions, p.is_active, p.is_new, p.created_at, p.updated_at
		FROM order_draft_items i
		JOIN products p ON p.id = i.product_id
		WHERE i.draft_id = $1
		ORDER BY i.sort_order ASC
	`

	rows, err := q.Query(ctx, query, draftID)
	if err != nil {
		return nil, fmt.Errorf("failed to query draft items: %w", err)
	}
	defer rows.Close()

	var items []*models.OrderDraftItem
	for rows.Next() {
		item := &models.OrderDraftItem{Product: &models.Product{}}
		err := rows.Scan(
			&item.ID,
			&item.DraftID,
			&item.ProductID,
			&item.Quantity,
			&item.UnitPrice,
			&item.TotalPrice,
			&item.Customization,
			&item.Projects,
			&item.Source,
			&item.SortOrder,
			&item.Product.ID,
			&item.Product.Identifier,
			&item.Product.IndexCode,
			&item.Product.Slug,
			&item.Product.Description,
			&item.Product.Price,
			&item.Product.ImageURL,
			&item.Product.Category,
			&item.Product.ProductionPath,
			&item.Product.Dimensions,
			&item.Product.IsActive,
			&item.Product.IsNew,
			&item.Product.CreatedAt,
			&item.Product.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan draft item: %w", err)
		}
		items = append(items, item)
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("rows error: %w", rows.Err())
	}

	return items, nil
}

// scanDraft помогает читать черновик из строки результата.
func scanDraft(row pgx.Row) (*models.OrderDraft, error) {
	draft := &models.OrderDraft{}
	err := row.Scan(
		&draft.ID,
		&draft.UserID,
		&draft.CustomerID,
		&draft.LocationName,
		&draft.Status,
		&draft.TotalValue,
		&draft.Notes,
		&draft.CreatedAt,
		&draft.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrDraftNotFound
		}
		return nil, fmt.Errorf("failed to scan draft: %w", err)
	}

	return draft, nil
}
