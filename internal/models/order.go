package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderStatus описывает статус обработки заказа.
type OrderStatus string

const (
	OrderStatusDraft      OrderStatus = "DRAFT"
	OrderStatusPending    OrderStatus = "PENDING"
	OrderStatusProcessing OrderStatus = "PROCESSING"
	OrderStatusShipped    OrderStatus = "SHIPPED"
	OrderStatusDelivered  OrderStatus = "DELIVERED"
	OrderStatusCancelled  OrderStatus = "CANCELLED"
)

// ValidTransitionTarget проверяет, что статус допустим для ручного изменения.
// DRAFT - переходный статус, назначать его вручную нельзя.
func (s OrderStatus) ValidTransitionTarget() bool {
	switch s {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusShipped,
		OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// Order представляет оформленный заказ. После создания заказ не изменяется,
// кроме статуса обработки.
type Order struct {
	ID          uuid.UUID       `db:"id"`
	OrderNumber string          `db:"order_number"`
	UserID      uuid.UUID       `db:"user_id"`
	CustomerID  *uuid.UUID      `db:"customer_id"`
	Total       decimal.Decimal `db:"total"`
	Status      OrderStatus     `db:"status"`
	Notes       *string         `db:"notes"`
	CreatedAt   time.Time       `db:"created_at"`
	UpdatedAt   time.Time       `db:"updated_at"`

	// Связи, заполняются при выборке.
	Items    []*OrderItem `db:"-"`
	Customer *Customer    `db:"-"`
	User     *User        `db:"-"`
}

// OrderItem представляет позицию заказа - денормализованный снимок покупки.
// Изменение товара задним числом не влияет на исторические заказы.
type OrderItem struct {
	ID                uuid.UUID       `db:"id"`
	OrderID           uuid.UUID       `db:"order_id"`
	ProductID         uuid.UUID       `db:"product_id"`
	Quantity          int             `db:"quantity"`
	UnitPrice         decimal.Decimal `db:"unit_price"`
	Customization     *string         `db:"customization"`
	Source            ProductSource   `db:"source"`
	LocationName      *string         `db:"location_name"`
	ProjectName       *string         `db:"project_name"`
	SelectedProjects  *string         `db:"selected_projects"`
	ProjectQuantities *string         `db:"project_quantities"`
	TotalQuantity     *int            `db:"total_quantity"`
	ProductionNotes   *string         `db:"production_notes"`
	SortOrder         int             `db:"sort_order"`

	Product *Product `db:"-"`
}

// CreateOrderItemRequest - позиция в запросе на создание заказа.
type CreateOrderItemRequest struct {
	ProductID         uuid.UUID     `json:"productId"`
	Quantity          int           `json:"quantity"`
	UnitPrice         float64       `json:"unitPrice"`
	Customization     *string       `json:"customization,omitempty"`
	Source            ProductSource `json:"source"`
	LocationName      *string       `json:"locationName,omitempty"`
	ProjectName       *string       `json:"projectName,omitempty"`
	SelectedProjects  *string       `json:"selectedProjects,omitempty"`
	ProjectQuantities *string       `json:"projectQuantities,omitempty"`
	TotalQuantity     *int          `json:"totalQuantity,omitempty"`
	ProductionNotes   *string       `json:"productionNotes,omitempty"`
}

// CreateOrderRequest - запрос на создание заказа напрямую, без черновика.
type CreateOrderRequest struct {
	CustomerID uuid.UUID                 `json:"customerId"`
	Items      []*CreateOrderItemRequest `json:"items"`
	Total      float64                   `json:"total"`
	Notes      *string                   `json:"notes,omitempty"`
}

// UpdateOrderStatusRequest - запрос на смену статуса заказа.
type UpdateOrderStatusRequest struct {
	Status OrderStatus `json:"status"`
}

// OrderItemResponse DTO позиции заказа.
type OrderItemResponse struct {
	ID                uuid.UUID        `json:"id"`
	ProductID         uuid.UUID        `json:"productId"`
	Quantity          int              `json:"quantity"`
	UnitPrice         float64          `json:"unitPrice"`
	Customization     *string          `json:"customization,omitempty"`
	Source            ProductSource    `json:"source"`
	LocationName      *string          `json:"locationName,omitempty"`
	ProjectName       *string          `json:"projectName,omitempty"`
	SelectedProjects  *string          `json:"selectedProjects,omitempty"`
	ProjectQuantities *string          `json:"projectQuantities,omitempty"`
	TotalQuantity     *int             `json:"totalQuantity,omitempty"`
	ProductionNotes   *string          `json:"productionNotes,omitempty"`
	Product           *ProductResponse `json:"product,omitempty"`
}

// OrderResponse DTO заказа.
type OrderResponse struct {
	ID          uuid.UUID            `json:"id"`
	OrderNumber string               `json:"orderNumber"`
	Status      OrderStatus          `json:"status"`
	Total       float64              `json:"total"`
	Notes       *string              `json:"notes,omitempty"`
	CustomerID  *uuid.UUID           `json:"customerId,omitempty"`
	Customer    *CustomerResponse    `json:"customer,omitempty"`
	User        *UserResponse        `json:"user,omitempty"`
	Items       []*OrderItemResponse `json:"items"`
	CreatedAt   string               `json:"createdAt"`
	UpdatedAt   string               `json:"updatedAt"`
}

// ToResponse преобразует заказ со связями в DTO.
func (o *Order) ToResponse() *OrderResponse {
	total, _ := o.Total.Float64()
	resp := &OrderResponse{
		ID:          o.ID,
		OrderNumber: o.OrderNumber,
		Status:      o.Status,
		Total:       total,
		Notes:       o.Notes,
		CustomerID:  o.CustomerID,
		Items:       make([]*OrderItemResponse, 0, len(o.Items)),
		CreatedAt:   o.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   o.UpdatedAt.Format(time.RFC3339),
	}
	if o.Customer != nil {
		resp.Customer = o.Customer.ToResponse()
	}
	if o.User != nil {
		resp.User = o.User.ToResponse()
	}
	for _, item := range o.Items {
		unitPrice, _ := item.UnitPrice.Float64()
		ir := &OrderItemResponse{
			ID:                item.ID,
			ProductID:         item.ProductID,
			Quantity:          item.Quantity,
			UnitPrice:         unitPrice,
			Customization:     item.Customization,
			Source:            item.Source,
			LocationName:      item.LocationName,
			ProjectName:       item.ProjectName,
			SelectedProjects:  item.SelectedProjects,
			ProjectQuantities: item.ProjectQuantities,
			TotalQuantity:     item.TotalQuantity,
			ProductionNotes:   item.ProductionNotes,
		}
		if item.Product != nil {
			ir.Product = item.Product.ToResponse()
		}
		resp.Items = append(resp.Items, ir)
	}
	return resp
}
