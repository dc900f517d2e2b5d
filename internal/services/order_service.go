package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rezonsoft/pamiatki/internal/models"
	"github.com/rezonsoft/pamiatki/internal/storage"
	"github.com/rezonsoft/pamiatki/internal/utils"
	"github.com/shopspring/decimal"
)

var (
	ErrDraftNotFoundOrEmpty = errors.New("draft not found or empty")
	ErrOrderForbidden       = errors.New("order belongs to another user")
	ErrEmptyOrder           = errors.New("customer and at least one item are required")
	ErrInvalidOrderStatus   = errors.New("invalid order status")
)

// OrderService определяет интерфейс работы с заказами.
type OrderService interface {
	CompleteDraft(ctx context.Context, userID, draftID uuid.UUID) (*models.CompleteDraftResponse, error)
	CreateOrder(ctx context.Context, userID uuid.UUID, req *models.CreateOrderRequest) (*models.Order, error)
	GetByID(ctx context.Context, actorID uuid.UUID, actorRole models.UserRole, orderID uuid.UUID) (*models.Order, error)
	List(ctx context.Context, actorID uuid.UUID, actorRole models.UserRole) ([]*models.Order, error)
	UpdateStatus(ctx context.Context, orderID uuid.UUID, status models.OrderStatus) error
}

// OrderServiceImpl реализует OrderService.
type OrderServiceImpl struct {
	orderStorage OrderStorage
	draftStorage DraftStorage
	userStorage  UserStorage
	now          func() time.Time
}

// NewOrderService создаёт новый сервис заказов.
func NewOrderService(orderStorage OrderStorage, draftStorage DraftStorage, userStorage UserStorage) *OrderServiceImpl {
	return &OrderServiceImpl{
		orderStorage: orderStorage,
		draftStorage: draftStorage,
		userStorage:  userStorage,
		now:          time.Now,
	}
}

// CompleteDraft финализирует черновик в заказ в одной транзакции:
// вычисляет номер заказа, создаёт заказ со статусом PENDING, копирует
// позиции в порядке добавления и помечает черновик завершённым.
// Откат транзакции оставляет черновик нетронутым.
func (s *OrderServiceImpl) CompleteDraft(ctx context.Context, userID, draftID uuid.UUID) (*models.CompleteDraftResponse, error) {
	user, err := s.userStorage.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}

	var order *models.Order
	// Номер заказа вычисляется из счётчика внутри транзакции; при гонке
	// уникальный индекс по order_number даёт 23505, и транзакция
	// повторяется с пересчитанным номером.
	err = storage.WithTransientRetry(ctx, func(ctx context.Context) error {
		var txErr error
		order, txErr = s.completeDraftTx(ctx, user, draftID)
		if errors.Is(txErr, storage.ErrOrderNumberTaken) {
			log.Printf("orders: order number taken, retrying finalization: %v", txErr)
			return storage.Retryable(txErr)
		}
		return txErr
	})
	if err != nil {
		if errors.Is(err, storage.ErrOrderNumberTaken) || storage.IsTransient(err) {
			return nil, fmt.Errorf("finalize draft: %w", err)
		}
		return nil, err
	}

	return &models.CompleteDraftResponse{
		Success:     true,
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
		Message:     fmt.Sprintf("Order %s created", order.OrderNumber),
	}, nil
}

// completeDraftTx выполняет одну попытку транзакции финализации.
func (s *OrderServiceImpl) completeDraftTx(ctx context.Context, user *models.User, draftID uuid.UUID) (*models.Order, error) {
	tx, err := s.orderStorage.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	draft, err := s.draftStorage.GetLiveForUserTx(ctx, tx, draftID, user.ID)
	if err != nil {
		if errors.Is(err, storage.ErrDraftNotFound) {
			return nil, ErrDraftNotFoundOrEmpty
		}
		return nil, fmt.Errorf("get draft: %w", err)
	}
	if len(draft.Items) == 0 {
		return nil, ErrDraftNotFoundOrEmpty
	}

	orderNumber, err := s.nextOrderNumber(ctx, tx, user.Name)
	if err != nil {
		return nil, err
	}

	order := &models.Order{
		ID:          uuid.New(),
		OrderNumber: orderNumber,
		UserID:      user.ID,
		CustomerID:  draft.CustomerID,
		Total:       draft.TotalValue,
		Status:      models.OrderStatusPending,
		Notes:       draft.Notes,
	}
	if err := s.orderStorage.CreateTx(ctx, tx, order); err != nil {
		return nil, err
	}

	for _, di := range draft.Items {
		quantity := di.Quantity
		item := &models.OrderItem{
			ID:               uuid.New(),
			OrderID:          order.ID,
			ProductID:        di.ProductID,
			Quantity:         di.Quantity,
			UnitPrice:        di.UnitPrice,
			Customization:    di.Customization,
			Source:           di.Source,
			LocationName:     draft.LocationName,
			SelectedProjects: di.Projects,
			TotalQuantity:    &quantity,
			SortOrder:        di.SortOrder,
		}
		if err := s.orderStorage.CreateItemTx(ctx, tx, item); err != nil {
			return nil, fmt.Errorf("copy draft item: %w", err)
		}
	}

	notes := fmt.Sprintf("Converted to Order #%s", orderNumber)
	if err := s.draftStorage.CompleteTx(ctx, tx, draft.ID, notes); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit transaction: %w", err)
	}

	return order, nil
}

// nextOrderNumber вычисляет следующий номер заказа внутри транзакции:
// ГГГГ/порядковый-номер-в-году/инициалы автора.
func (s *OrderServiceImpl) nextOrderNumber(ctx context.Context, tx pgx.Tx, userName string) (string, error) {
	year := s.now().Year()
	count, err := s.orderStorage.CountByYearTx(ctx, tx, utils.YearPrefix(year))
	if err != nil {
		return "", fmt.Errorf("count orders: %w", err)
	}
	return utils.FormatOrderNumber(year, count+1, utils.Initials(userName)), nil
}

// CreateOrder создаёт заказ напрямую, без черновика. Номер вычисляется
// так же, как при финализации черновика.
func (s *OrderServiceImpl) CreateOrder(ctx context.Context, userID uuid.UUID, req *models.CreateOrderRequest) (*models.Order, error) {
	if req.CustomerID == uuid.Nil || len(req.Items) == 0 {
		return nil, ErrEmptyOrder
	}

	user, err := s.userStorage.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}

	var order *models.Order
	err = storage.WithTransientRetry(ctx, func(ctx context.Context) error {
		var txErr error
		order, txErr = s.createOrderTx(ctx, user, req)
		if errors.Is(txErr, storage.ErrOrderNumberTaken) {
			log.Printf("orders: order number taken, retrying create: %v", txErr)
			return storage.Retryable(txErr)
		}
		return txErr
	})
	if err != nil {
		if errors.Is(err, storage.ErrOrderNumberTaken) || storage.IsTransient(err) {
			return nil, fmt.Errorf("create order: %w", err)
		}
		return nil, err
	}

	return order, nil
}

// createOrderTx выполняет одну попытку транзакции создания заказа.
func (s *OrderServiceImpl) createOrderTx(ctx context.Context, user *models.User, req *models.CreateOrderRequest) (*models.Order, error) {
	tx, err := s.orderStorage.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	orderNumber, err := s.nextOrderNumber(ctx, tx, user.Name)
	if err != nil {
		return nil, err
	}

	customerID := req.CustomerID
	order := &models.Order{
		ID:          uuid.New(),
		OrderNumber: orderNumber,
		UserID:      user.ID,
		CustomerID:  &customerID,
		Total:       decimal.NewFromFloat(req.Total),
		Status:      models.OrderStatusPending,
		Notes:       req.Notes,
	}
	if err := s.orderStorage.CreateTx(ctx, tx, order); err != nil {
		return nil, err
	}

	for i, ri := range req.Items {
		item := &models.OrderItem{
			ID:                uuid.New(),
			OrderID:           order.ID,
			ProductID:         ri.ProductID,
			Quantity:          ri.Quantity,
			UnitPrice:         decimal.NewFromFloat(ri.UnitPrice),
			Customization:     ri.Customization,
			Source:            ri.Source,
			LocationName:      ri.LocationName,
			ProjectName:       ri.ProjectName,
			SelectedProjects:  ri.SelectedProjects,
			ProjectQuantities: ri.ProjectQuantities,
			TotalQuantity:     ri.TotalQuantity,
			ProductionNotes:   ri.ProductionNotes,
			SortOrder:         i + 1,
		}
		if item.TotalQuantity == nil {
			quantity := ri.Quantity
			item.TotalQuantity = &quantity
		}
		if err := s.orderStorage.CreateItemTx(ctx, tx, item); err != nil {
			return nil, fmt.Errorf("create order item: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit transaction: %w", err)
	}

	return order, nil
}

// seesAllOrders возвращает true для ролей с полной видимостью заказов.
func seesAllOrders(role models.UserRole) bool {
	switch role {
	case models.RoleAdmin, models.RoleSalesDept, models.RoleWarehouse:
		return true
	}
	return false
}

// GetByID возвращает заказ с проверкой видимости.
func (s *OrderServiceImpl) GetByID(ctx context.Context, actorID uuid.UUID, actorRole models.UserRole, orderID uuid.UUID) (*models.Order, error) {
	order, err := s.orderStorage.GetByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, storage.ErrOrderNotFound) {
			return nil, storage.ErrOrderNotFound
		}
		return nil, fmt.Errorf("get order: %w", err)
	}

	if !seesAllOrders(actorRole) && order.UserID != actorID {
		return nil, ErrOrderForbidden
	}

	return order, nil
}

// List возвращает заказы, видимые актору, от новых к старым.
func (s *OrderServiceImpl) List(ctx context.Context, actorID uuid.UUID, actorRole models.UserRole) ([]*models.Order, error) {
	var (
		orders []*models.Order
		err    error
	)
	if seesAllOrders(actorRole) {
		orders, err = s.orderStorage.ListAll(ctx)
	} else {
		orders, err = s.orderStorage.ListByUserID(ctx, actorID)
	}
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return orders, nil
}

// UpdateStatus меняет статус обработки заказа.
func (s *OrderServiceImpl) UpdateStatus(ctx context.Context, orderID uuid.UUID, status models.OrderStatus) error {
	if !status.ValidTransitionTarget() {
		return ErrInvalidOrderStatus
	}

	if err := s.orderStorage.UpdateStatus(ctx, orderID, status); err != nil {
		if errors.Is(err, storage.ErrOrderNotFound) {
			return storage.ErrOrderNotFound
		}
		return fmt.Errorf("update order status: %w", err)
	}

	return nil
}
