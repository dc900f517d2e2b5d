package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rezonsoft/pamiatki/internal/models"
)

var (
	ErrOrderNotFound    = errors.New("order not found")
	ErrOrderNumberTaken = errors.New("order number already taken")
)

// PostgresOrderStorage реализует OrderStorage для PostgreSQL.
type PostgresOrderStorage struct {
	pool *pgxpool.Pool
}

// NewPostgresOrderStorage создаёт новый экземпляр PostgresOrderStorage.
func NewPostgresOrderStorage(pool *pgxpool.Pool) *PostgresOrderStorage {
	return &PostgresOrderStorage{pool: pool}
}

// Begin открывает транзакцию на пуле хранилища.
func (s *PostgresOrderStorage) Begin(ctx context.Context) (pgx.Tx, error) {
	return s.pool.Begin(ctx)
}

// CountByYearTx возвращает число заказов, чей номер начинается с префикса года,
// в рамках транзакции.
func (s *PostgresOrderStorage) CountByYearTx(ctx context.Context, tx pgx.Tx, yearPrefix string) (int, error) {
	var count int
	err := tx.QueryRow(ctx,
		`SELECT COUNT(*) FROM orders WHERE order_number LIKE $1 || '%'`,
		yearPrefix,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count orders by year: %w", err)
	}
	return count, nil
}

// CreateTx создаёт заказ в рамках транзакции.
func (s *PostgresOrderStorage) CreateTx(ctx context.Context, tx pgx.Tx, order *models.Order) error {
	query := `
		INSERT INTO orders (id, order_number, user_id, customer_id, total, status, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
		RETURNING created_at, updated_at
	`

	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}

	err := tx.QueryRow(ctx, query,
		order.ID,
		order.OrderNumber,
		order.UserID,
		order.CustomerID,
		order.Total,
		order.Status,
		order.Notes,
	).Scan(&order.CreatedAt, &order.UpdatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
			return ErrOrderNumberTaken
		}
		return fmt.Errorf("failed to create order: %w", err)
	}

	return nil
}

// CreateItemTx создаёт позицию заказа в рамках транзакции.
func (s *PostgresOrderStorage) CreateItemTx(ctx context.Context, tx pgx.Tx, item *models.OrderItem) error {
	query := `
		INSERT INTO order_items (id, order_id, product_id, quantity, unit_price, customization,
		                         source, location_name, project_name, selected_projects,
		                         project_quantities, total_quantity, production_notes, sort_order)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`

	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}

	_, err := tx.Exec(ctx, query,
		item.ID,
		item.OrderID,
		item.ProductID,
		item.Quantity,
		item.UnitPrice,
		item.Customization,
		item.Source,
		item.LocationName,
		item.ProjectName,
		item.SelectedProjects,
		item.ProjectQuantities,
		item.TotalQuantity,
		item.ProductionNotes,
		item.SortOrder,
	)
	if err != nil {
		return fmt.Errorf("failed to create order item: %w", err)
	}

	return nil
}

// GetByID возвращает заказ со связями по ID.
func (s *PostgresOrderStorage) GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	orders, err := s.queryOrders(ctx, orderSelect+` WHERE o.id = $1`, id)
	if err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return nil, ErrOrderNotFound
	}
	return orders[0], nil
}

// ListAll возвращает все заказы со связями (новые первыми).
func (s *PostgresOrderStorage) ListAll(ctx context.Context) ([]*models.Order, error) {
	return s.queryOrders(ctx, orderSelect+` ORDER BY o.created_at DESC`)
}

// ListByUserID возвращает заказы пользователя со связями (новые первыми).
func (s *PostgresOrderStorage) ListByUserID(ctx context.Context, userID uuid.UUID) ([]*models.Order, error) {
	return s.queryOrders(ctx, orderSelect+` WHERE o.user_id = $1 ORDER BY o.created_at DESC`, userID)
}

// UpdateStatus изменяет статус заказа.
func (s *PostgresOrderStorage) UpdateStatus(ctx context.Context, id uuid.UUID, status models.OrderStatus) error {
	query := `
		UPDATE orders
		SET status = $1, updated_at = NOW()
		WHERE id = $2
	`

	result, err := s.pool.Exec(ctx, query, status, id)
	if err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrOrderNotFound
	}

	return nil
}

const orderSelect = `
	SELECT o.id, o.order_number, o.user_id, o.customer_id, o.total, o.status, o.notes,
	       o.created_at, o.updated_at,
	       u.id, u.name, u.email, u.role, u.is_active, u.created_at, u.updated_at,
	       c.id, c.name, c.address, c.phone, c.email, c.notes, c.sales_rep_id, c.created_at, c.updated_at
	FROM orders o
	JOIN users u ON u.id = o.user_id
	LEFT JOIN customers c ON c.id = o.customer_id
`

// queryOrders выбирает заказы со связями и догружает позиции одним запросом.
func (s *PostgresOrderStorage) queryOrders(ctx context.Context, query string, args ...any) ([]*models.Order, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	var (
		orders []*models.Order
		index  = make(map[uuid.UUID]*models.Order)
		ids    []uuid.UUID
	)

	for rows.Next() {
		order := &models.Order{User: &models.User{}}
		var (
			custID         *uuid.UUID
			custName       *string
			custAddress    *string
			custPhone      *string
			custEmail      *string
			custNotes      *string
			custSalesRepID *uuid.UUID
			custCreatedAt  *time.Time
			custUpdatedAt  *time.Time
		)

		err := rows.Scan(
			&order.ID,
			&order.OrderNumber,
			&order.UserID,
			&order.CustomerID,
			&order.Total,
			&order.Status,
			&order.Notes,
			&order.CreatedAt,
			&order.UpdatedAt,
			&order.User.ID,
			&order.User.Name,
			&order.User.Email,
			&order.User.Role,
			&order.User.IsActive,
			&order.User.CreatedAt,
			&order.User.UpdatedAt,
			&custID,
			&custName,
			&custAddress,
			&custPhone,
			&custEmail,
			&custNotes,
			&custSalesRepID,
			&custCreatedAt,
			&custUpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}

		if custID != nil && custName != nil {
			order.Customer = &models.Customer{
				ID:         *custID,
				Name:       *custName,
				Address:    custAddress,
				Phone:      custPhone,
				Email:      custEmail,
				Notes:      custNotes,
				SalesRepID: *custSalesRepID,
				CreatedAt:  *custCreatedAt,
				UpdatedAt:  *custUpdatedAt,
			}
		}

		orders = append(orders, order)
		index[order.ID] = order
		ids = append(ids, order.ID)
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("rows error: %w", rows.Err())
	}

	if len(orders) == 0 {
		return orders, nil
	}

	if err := s.loadItems(ctx, index, ids); err != nil {
		return nil, err
	}

	return orders, nil
}

// loadItems догружает позиции заказов с товарами.
func (s *PostgresOrderStorage) loadItems(ctx context.Context, index map[uuid.UUID]*models.Order, ids []uuid.UUID) error {
	query := `
		SELECT i.id, i.order_id, i.product_id, i.quantity, i.unit_price, i.customization,
		       i.source, i.location_name, i.project_name, i.selected_projects,
		       i.project_quantities, i.total_quantity, i.production_notes, i.sort_order,
		       p.id, p.identifier, p.index_code, p.slug, p.description, p.price, p.image_url,
		       p.category, p.production_path, p.dimensions, p.is_active, p.is_new, p.created_at, p.updated_at
		FROM order_items i
		JOIN products p ON p.id = i.product_id
		WHERE i.order_id = ANY($1)
		ORDER BY i.sort_order ASC
	`

	rows, err := s.pool.Query(ctx, query, ids)
	if err != nil {
		return fmt.Errorf("failed to query order items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		item := &models.OrderItem{Product: &models.Product{}}
		err := rows.Scan(
			&item.ID,
			&item.OrderID,
			&item.ProductID,
			&item.Quantity,
			&item.UnitPrice,
			&item.Customization,
			&item.Source,
			&item.LocationName,
			&item.ProjectName,
			&item.SelectedProjects,
			&item.ProjectQuantities,
			&item.TotalQuantity,
			&item.ProductionNotes,
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
			return fmt.Errorf("failed to scan order item: %w", err)
		}

		if order, ok := index[item.OrderID]; ok {
			order.Items = append(order.Items, item)
		}
	}

	if rows.Err() != nil {
		return fmt.Errorf("rows error: %w", rows.Err())
	}

	return nil
}
