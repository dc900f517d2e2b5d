package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rezonsoft/pamiatki/internal/models"
)

// UserStorage определяет интерфейс для работы с пользователями.
type UserStorage interface {
	Create(ctx context.Context, user *models.User) error
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	List(ctx context.Context) ([]*models.User, error)
	Update(ctx context.Context, user *models.User) error
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// DepartmentStorage определяет интерфейс для работы с отделами.
type DepartmentStorage interface {
	Create(ctx context.Context, department *models.Department) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Department, error)
	List(ctx context.Context) ([]*models.Department, error)
	Update(ctx context.Context, department *models.Department) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// CustomerStorage определяет интерфейс для работы с клиентами.
type CustomerStorage interface {
	Create(ctx context.Context, customer *models.Customer) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Customer, error)
	List(ctx context.Context) ([]*models.Customer, error)
	ListBySalesRep(ctx context.Context, salesRepID uuid.UUID) ([]*models.Customer, error)
	Update(ctx context.Context, customer *models.Customer) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// ProductStorage определяет интерфейс для работы с товарами.
type ProductStorage interface {
	Create(ctx context.Context, product *models.Product) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	GetByIdentifier(ctx context.Context, identifier string) (*models.Product, error)
	ListActive(ctx context.Context) ([]*models.Product, error)
	Update(ctx context.Context, product *models.Product) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// OrderStorage определяет интерфейс для работы с заказами.
type OrderStorage interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	CountByYearTx(ctx context.Context, tx pgx.Tx, yearPrefix string) (int, error)
	CreateTx(ctx context.Context, tx pgx.Tx, order *models.Order) error
	CreateItemTx(ctx context.Context, tx pgx.Tx, item *models.OrderItem) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	ListAll(ctx context.Context) ([]*models.Order, error)
	ListByUserID(ctx context.Context, userID uuid.UUID) ([]*models.Order, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status models.OrderStatus) error
}

// DraftStorage определяет интерфейс для работы с черновиками заказов.
type DraftStorage interface {
	Create(ctx context.Context, draft *models.OrderDraft) error
	GetLiveByUser(ctx context.Context, userID uuid.UUID) (*models.OrderDraft, error)
	GetLiveForUserTx(ctx context.Context, tx pgx.Tx, draftID, userID uuid.UUID) (*models.OrderDraft, error)
	GetByIDForUser(ctx context.Context, draftID, userID uuid.UUID) (*models.OrderDraft, error)
	Update(ctx context.Context, draft *models.OrderDraft) error
	CompleteTx(ctx context.Context, tx pgx.Tx, draftID uuid.UUID, notes string) error
	Delete(ctx context.Context, draftID, userID uuid.UUID) error
	AddItem(ctx context.Context, item *models.OrderDraftItem) error
	GetItemForUser(ctx context.Context, itemID, userID uuid.UUID) (*models.OrderDraftItem, error)
	UpdateItem(ctx context.Context, item *models.OrderDraftItem) error
	DeleteItem(ctx context.Context, itemID uuid.UUID) error
	RecalcTotal(ctx context.Context, draftID uuid.UUID) error
}
