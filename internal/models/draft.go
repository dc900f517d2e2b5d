package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DraftStatus описывает жизненный цикл черновика заказа.
type DraftStatus string

const (
	DraftStatusDraft     DraftStatus = "draft"
	DraftStatusActive    DraftStatus = "active"
	DraftStatusCompleted DraftStatus = "completed"
)

// OrderDraft представляет черновик заказа - изменяемую корзину пользователя.
// У пользователя может быть не больше одного черновика в статусе draft или active.
type OrderDraft struct {
	ID           uuid.UUID       `db:"id"`
	UserID       uuid.UUID       `db:"user_id"`
	CustomerID   *uuid.UUID      `db:"customer_id"`
	LocationName *string         `db:"location_name"`
	Status       DraftStatus     `db:"status"`
	TotalValue   decimal.Decimal `db:"total_value"`
	Notes        *string         `db:"notes"`
	CreatedAt    time.Time       `db:"created_at"`
	UpdatedAt    time.Time       `db:"updated_at"`

	Items []*OrderDraftItem `db:"-"`
}

// OrderDraftItem представляет позицию черновика.
type OrderDraftItem struct {
	ID            uuid.UUID       `db:"id"`
	DraftID       uuid.UUID       `db:"draft_id"`
	ProductID     uuid.UUID       `db:"product_id"`
	Quantity      int             `db:"quantity"`
	UnitPrice     decimal.Decimal `db:"unit_price"`
	TotalPrice    decimal.Decimal `db:"total_price"`
	Customization *string         `db:"customization"`
	Projects      *string         `db:"projects"`
	Source        ProductSource   `db:"source"`
	SortOrder     int             `db:"sort_order"`

	Product *Product `db:"-"`
}

// CreateDraftRequest - запрос на создание черновика.
type CreateDraftRequest struct {
	CustomerID   *uuid.UUID `json:"customerId,omitempty"`
	LocationName *string    `json:"locationName,omitempty"`
	Notes        *string    `json:"notes,omitempty"`
}

// UpdateDraftRequest - запрос на изменение черновика.
type UpdateDraftRequest struct {
	ID           uuid.UUID  `json:"id"`
	CustomerID   *uuid.UUID `json:"customerId,omitempty"`
	LocationName *string    `json:"locationName,omitempty"`
	Notes        *string    `json:"notes,omitempty"`
}

// AddDraftItemRequest - запрос на добавление позиции в черновик.
type AddDraftItemRequest struct {
	DraftID       uuid.UUID     `json:"draftId"`
	ProductID     uuid.UUID     `json:"productId"`
	Quantity      int           `json:"quantity"`
	UnitPrice     float64       `json:"unitPrice"`
	Customization *string       `json:"customization,omitempty"`
	Projects      *string       `json:"projects,omitempty"`
	Source        ProductSource `json:"source"`
}

// UpdateDraftItemRequest - запрос на изменение позиции черновика.
type UpdateDraftItemRequest struct {
	Quantity      *int     `json:"quantity,omitempty"`
	UnitPrice     *float64 `json:"unitPrice,omitempty"`
	Customization *string  `json:"customization,omitempty"`
	Projects      *string  `json:"projects,omitempty"`
}

// CompleteDraftRequest - запрос на финализацию черновика в заказ.
type CompleteDraftRequest struct {
	DraftID uuid.UUID `json:"draftId"`
}

// CompleteDraftResponse - результат финализации.
type CompleteDraftResponse struct {
	Success     bool      `json:"success"`
	OrderID     uuid.UUID `json:"orderId"`
	OrderNumber string    `json:"orderNumber"`
	Message     string    `json:"message"`
}

// DraftItemResponse DTO позиции черновика.
type DraftItemResponse struct {
	ID            uuid.UUID        `json:"id"`
	ProductID     uuid.UUID        `json:"productId"`
	Quantity      int              `json:"quantity"`
	UnitPrice     float64          `json:"unitPrice"`
	TotalPrice    float64          `json:"totalPrice"`
	Customization *string          `json:"customization,omitempty"`
	Projects      *string          `json:"projects,omitempty"`
	Source        ProductSource    `json:"source"`
	SortOrder     int              `json:"sortOrder"`
	Product       *ProductResponse `json:"product,omitempty"`
}

// DraftResponse DTO черновика с позициями.
type DraftResponse struct {
	ID           uuid.UUID            `json:"id"`
	UserID       uuid.UUID            `json:"userId"`
	CustomerID   *uuid.UUID           `json:"customerId,omitempty"`
	LocationName *string              `json:"locationName,omitempty"`
	Status       DraftStatus          `json:"status"`
	TotalValue   float64              `json:"totalValue"`
	Notes        *string              `json:"notes,omitempty"`
	Items        []*DraftItemResponse `json:"items"`
	UpdatedAt    string               `json:"updatedAt"`
}

// ToResponse преобразует черновик с позициями в DTO.
func (d *OrderDraft) ToResponse() *DraftResponse {
	total, _ := d.TotalValue.Float64()
	resp := &DraftResponse{
		ID:           d.ID,
		UserID:       d.UserID,
		CustomerID:   d.CustomerID,
		LocationName: d.LocationName,
		Status:       d.Status,
		TotalValue:   total,
		Notes:        d.Notes,
		Items:        make([]*DraftItemResponse, 0, len(d.Items)),
		UpdatedAt:    d.UpdatedAt.Format(time.RFC3339),
	}
	for _, item := range d.Items {
		unitPrice, _ := item.UnitPrice.Float64()
		totalPrice, _ := item.TotalPrice.Float64()
		ir := &DraftItemResponse{
			ID:            item.ID,
			ProductID:     item.ProductID,
			Quantity:      item.Quantity,
			UnitPrice:     unitPrice,
			TotalPrice:    totalPrice,
			Customization: item.Customization,
			Projects:      item.Projects,
			Source:        item.Source,
			SortOrder:     item.SortOrder,
		}
		if item.Product != nil {
			ir.Product = item.Product.ToResponse()
		}
		resp.Items = append(resp.Items, ir)
	}
	return resp
}
