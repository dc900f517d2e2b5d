package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rezonsoft/pamiatki/internal/models"
	"github.com/rezonsoft/pamiatki/internal/storage"
	"github.com/shopspring/decimal"
)

func fixedNow() time.Time {
	return time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
}

func testUser(id uuid.UUID) *models.User {
	return &models.User{
		ID:       id,
		Name:     "Jan Kowalski",
		Email:    "jan@rezon.pl",
		Role:     models.RoleSalesRep,
		IsActive: true,
	}
}

func testDraft(userID uuid.UUID, items int) *models.OrderDraft {
	draft := &models.OrderDraft{
		ID:         uuid.New(),
		UserID:     userID,
		Status:     models.DraftStatusActive,
		TotalValue: decimal.NewFromFloat(39.98),
	}
	for i := 0; i < items; i++ {
		draft.Items = append(draft.Items, &models.OrderDraftItem{
			ID:         uuid.New(),
			DraftID:    draft.ID,
			ProductID:  uuid.New(),
			Quantity:   2,
			UnitPrice:  decimal.NewFromFloat(9.99),
			TotalPrice: decimal.NewFromFloat(19.98),
			Source:     models.SourceMiejscowosci,
			SortOrder:  i + 1,
		})
	}
	return draft
}

func TestOrderService_CompleteDraft(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	userStorage := &storage.MockUserStorage{
		GetByIDFunc: func(ctx context.Context, id uuid.UUID) (*models.User, error) {
			return testUser(id), nil
		},
	}

	t.Run("draft not found", func(t *testing.T) {
		svc := NewOrderService(&storage.MockOrderStorage{}, &storage.MockDraftStorage{}, userStorage)
		svc.now = fixedNow

		_, err := svc.CompleteDraft(ctx, userID, uuid.New())
		if !errors.Is(err, ErrDraftNotFoundOrEmpty) {
			t.Fatalf("expected ErrDraftNotFoundOrEmpty, got %v", err)
		}
	})

	t.Run("empty draft is rejected without creating an order", func(t *testing.T) {
		draft := testDraft(userID, 0)
		orderCreated := false
		svc := NewOrderService(
			&storage.MockOrderStorage{
				CreateTxFunc: func(ctx context.Context, tx pgx.Tx, order *models.Order) error {
					orderCreated = true
					return nil
				},
			},
			&storage.MockDraftStorage{
				GetLiveForUserTxFunc: func(ctx context.Context, tx pgx.Tx, draftID, uid uuid.UUID) (*models.OrderDraft, error) {
					return draft, nil
				},
			},
			userStorage,
		)
		svc.now = fixedNow

		_, err := svc.CompleteDraft(ctx, userID, draft.ID)
		if !errors.Is(err, ErrDraftNotFoundOrEmpty) {
			t.Fatalf("expected ErrDraftNotFoundOrEmpty, got %v", err)
		}
		if orderCreated {
			t.Fatal("order must not be created for an empty draft")
		}
	})

	t.Run("successful finalization numbers and completes", func(t *testing.T) {
		draft := testDraft(userID, 2)
		tx := &storage.MockTx{}

		var createdOrder *models.Order
		var copiedItems []*models.OrderItem
		var completionNotes string

		svc := NewOrderService(
			&storage.MockOrderStorage{
				BeginFunc: func(ctx context.Context) (pgx.Tx, error) { return tx, nil },
				CountByYearTxFunc: func(ctx context.Context, tx pgx.Tx, yearPrefix string) (int, error) {
					if yearPrefix != "2024/" {
						t.Errorf("year prefix = %q, want %q", yearPrefix, "2024/")
					}
					return 2, nil
				},
				CreateTxFunc: func(ctx context.Context, tx pgx.Tx, order *models.Order) error {
					createdOrder = order
					return nil
				},
				CreateItemTxFunc: func(ctx context.Context, tx pgx.Tx, item *models.OrderItem) error {
					copiedItems = append(copiedItems, item)
					return nil
				},
			},
			&storage.MockDraftStorage{
				GetLiveForUserTxFunc: func(ctx context.Context, tx pgx.Tx, draftID, uid uuid.UUID) (*models.OrderDraft, error) {
					return draft, nil
				},
				CompleteTxFunc: func(ctx context.Context, tx pgx.Tx, draftID uuid.UUID, notes string) error {
					completionNotes = notes
					return nil
				},
			},
			userStorage,
		)
		svc.now = fixedNow

		resp, err := svc.CompleteDraft(ctx, userID, draft.ID)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !resp.Success {
			t.Error("expected success")
		}
		// Третий заказ 2024 года с инициалами Jan Kowalski
		if resp.OrderNumber != "2024/3/JKO" {
			t.Errorf("order number = %q, want %q", resp.OrderNumber, "2024/3/JKO")
		}
		if createdOrder == nil || createdOrder.Status != models.OrderStatusPending {
			t.Fatalf("unexpected order: %+v", createdOrder)
		}
		if len(copiedItems) != 2 {
			t.Fatalf("expected 2 copied items, got %d", len(copiedItems))
		}
		if copiedItems[0].TotalQuantity == nil || *copiedItems[0].TotalQuantity != 2 {
			t.Errorf("total quantity not copied from quantity")
		}
		if completionNotes != "Converted to Order #2024/3/JKO" {
			t.Errorf("completion notes = %q", completionNotes)
		}
		if !tx.Committed {
			t.Error("transaction not committed")
		}
	})

	t.Run("item copy failure rolls the transaction back", func(t *testing.T) {
		draft := testDraft(userID, 1)
		tx := &storage.MockTx{}
		draftCompleted := false

		svc := NewOrderService(
			&storage.MockOrderStorage{
				BeginFunc: func(ctx context.Context) (pgx.Tx, error) { return tx, nil },
				CreateItemTxFunc: func(ctx context.Context, tx pgx.Tx, item *models.OrderItem) error {
					return errors.New("insert failed")
				},
			},
			&storage.MockDraftStorage{
				GetLiveForUserTxFunc: func(ctx context.Context, tx pgx.Tx, draftID, uid uuid.UUID) (*models.OrderDraft, error) {
					return draft, nil
				},
				CompleteTxFunc: func(ctx context.Context, tx pgx.Tx, draftID uuid.UUID, notes string) error {
					draftCompleted = true
					return nil
				},
			},
			userStorage,
		)
		svc.now = fixedNow

		if _, err := svc.CompleteDraft(ctx, userID, draft.ID); err == nil {
			t.Fatal("expected error")
		}
		if tx.Committed {
			t.Error("transaction must not be committed")
		}
		if !tx.RolledBack {
			t.Error("transaction must be rolled back")
		}
		if draftCompleted {
			t.Error("draft must stay untouched after rollback")
		}
	})

	t.Run("retries on taken order number", func(t *testing.T) {
		draft := testDraft(userID, 1)
		attempts := 0

		svc := NewOrderService(
			&storage.MockOrderStorage{
				CreateTxFunc: func(ctx context.Context, tx pgx.Tx, order *models.Order) error {
					attempts++
					if attempts < 3 {
						return storage.ErrOrderNumberTaken
					}
					return nil
				},
			},
			&storage.MockDraftStorage{
				GetLiveForUserTxFunc: func(ctx context.Context, tx pgx.Tx, draftID, uid uuid.UUID) (*models.OrderDraft, error) {
					return draft, nil
				},
			},
			userStorage,
		)
		svc.now = fixedNow

		resp, err := svc.CompleteDraft(ctx, userID, draft.ID)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if attempts != 3 {
			t.Errorf("attempts = %d, want 3", attempts)
		}
		if !resp.Success {
			t.Error("expected success after retry")
		}
	})

	t.Run("gives up after three taken numbers", func(t *testing.T) {
		draft := testDraft(userID, 1)

		svc := NewOrderService(
			&storage.MockOrderStorage{
				CreateTxFunc: func(ctx context.Context, tx pgx.Tx, order *models.Order) error {
					return storage.ErrOrderNumberTaken
				},
			},
			&storage.MockDraftStorage{
				GetLiveForUserTxFunc: func(ctx context.Context, tx pgx.Tx, draftID, uid uuid.UUID) (*models.OrderDraft, error) {
					return draft, nil
				},
			},
			userStorage,
		)
		svc.now = fixedNow

		if _, err := svc.CompleteDraft(ctx, userID, draft.ID); err == nil {
			t.Fatal("expected error after exhausting retries")
		}
	})

	t.Run("retries on prepared statement conflict", func(t *testing.T) {
		draft := testDraft(userID, 1)
		attempts := 0

		svc := NewOrderService(
			&storage.MockOrderStorage{
				CreateTxFunc: func(ctx context.Context, tx pgx.Tx, order *models.Order) error {
					attempts++
					if attempts == 1 {
						return errors.New(`prepared statement "stmtcache_1" already exists`)
					}
					return nil
				},
			},
			&storage.MockDraftStorage{
				GetLiveForUserTxFunc: func(ctx context.Context, tx pgx.Tx, draftID, uid uuid.UUID) (*models.OrderDraft, error) {
					return draft, nil
				},
			},
			userStorage,
		)
		svc.now = fixedNow

		resp, err := svc.CompleteDraft(ctx, userID, draft.ID)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if attempts != 2 {
			t.Errorf("attempts = %d, want 2", attempts)
		}
		if !resp.Success {
			t.Error("expected success after retry")
		}
	})
}

func TestOrderService_CreateOrder(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	userStorage := &storage.MockUserStorage{
		GetByIDFunc: func(ctx context.Context, id uuid.UUID) (*models.User, error) {
			return testUser(id), nil
		},
	}

	t.Run("requires customer and items", func(t *testing.T) {
		svc := NewOrderService(&storage.MockOrderStorage{}, &storage.MockDraftStorage{}, userStorage)
		svc.now = fixedNow

		_, err := svc.CreateOrder(ctx, userID, &models.CreateOrderRequest{CustomerID: uuid.New()})
		if !errors.Is(err, ErrEmptyOrder) {
			t.Fatalf("expected ErrEmptyOrder, got %v", err)
		}
	})

	t.Run("creates numbered pending order", func(t *testing.T) {
		var created *models.Order
		svc := NewOrderService(
			&storage.MockOrderStorage{
				CountByYearTxFunc: func(ctx context.Context, tx pgx.Tx, yearPrefix string) (int, error) {
					return 0, nil
				},
				CreateTxFunc: func(ctx context.Context, tx pgx.Tx, order *models.Order) error {
					created = order
					return nil
				},
			},
			&storage.MockDraftStorage{},
			userStorage,
		)
		svc.now = fixedNow

		req := &models.CreateOrderRequest{
			CustomerID: uuid.New(),
			Total:      19.98,
			Items: []*models.CreateOrderItemRequest{
				{ProductID: uuid.New(), Quantity: 2, UnitPrice: 9.99, Source: models.SourceMiejscowosci},
			},
		}
		order, err := svc.CreateOrder(ctx, userID, req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if order.OrderNumber != "2024/1/JKO" {
			t.Errorf("order number = %q, want %q", order.OrderNumber, "2024/1/JKO")
		}
		if created == nil || created.Status != models.OrderStatusPending {
			t.Fatalf("unexpected order: %+v", created)
		}
	})
}

func TestOrderService_UpdateStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("rejects draft status", func(t *testing.T) {
		svc := NewOrderService(&storage.MockOrderStorage{}, &storage.MockDraftStorage{}, &storage.MockUserStorage{})
		if err := svc.UpdateStatus(ctx, uuid.New(), models.OrderStatusDraft); !errors.Is(err, ErrInvalidOrderStatus) {
			t.Fatalf("expected ErrInvalidOrderStatus, got %v", err)
		}
	})

	t.Run("rejects unknown status", func(t *testing.T) {
		svc := NewOrderService(&storage.MockOrderStorage{}, &storage.MockDraftStorage{}, &storage.MockUserStorage{})
		if err := svc.UpdateStatus(ctx, uuid.New(), "UNKNOWN"); !errors.Is(err, ErrInvalidOrderStatus) {
			t.Fatalf("expected ErrInvalidOrderStatus, got %v", err)
		}
	})

	t.Run("propagates not found", func(t *testing.T) {
		svc := NewOrderService(
			&storage.MockOrderStorage{
				UpdateStatusFunc: func(ctx context.Context, id uuid.UUID, status models.OrderStatus) error {
					return storage.ErrOrderNotFound
				},
			},
			&storage.MockDraftStorage{},
			&storage.MockUserStorage{},
		)
		if err := svc.UpdateStatus(ctx, uuid.New(), models.OrderStatusShipped); !errors.Is(err, storage.ErrOrderNotFound) {
			t.Fatalf("expected ErrOrderNotFound, got %v", err)
		}
	})
}

func TestOrderService_Visibility(t *testing.T) {
	ctx := context.Background()
	ownerID := uuid.New()
	strangerID := uuid.New()
	order := &models.Order{ID: uuid.New(), UserID: ownerID, OrderNumber: "2024/1/JKO"}

	orderStorage := &storage.MockOrderStorage{
		GetByIDFunc: func(ctx context.Context, id uuid.UUID) (*models.Order, error) {
			return order, nil
		},
	}
	svc := NewOrderService(orderStorage, &storage.MockDraftStorage{}, &storage.MockUserStorage{})

	t.Run("owner sees own order", func(t *testing.T) {
		got, err := svc.GetByID(ctx, ownerID, models.RoleSalesRep, order.ID)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.ID != order.ID {
			t.Error("wrong order returned")
		}
	})

	t.Run("stranger sales rep is rejected", func(t *testing.T) {
		if _, err := svc.GetByID(ctx, strangerID, models.RoleSalesRep, order.ID); !errors.Is(err, ErrOrderForbidden) {
			t.Fatalf("expected ErrOrderForbidden, got %v", err)
		}
	})

	t.Run("warehouse sees any order", func(t *testing.T) {
		if _, err := svc.GetByID(ctx, strangerID, models.RoleWarehouse, order.ID); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})
}
