package models

import (
	"time"

	"github.com/google/uuid"
)

// Customer представляет клиента (точку продаж), закреплённого за торговым представителем.
type Customer struct {
	ID         uuid.UUID `db:"id"`
	Name       string    `db:"name"`
	Address    *string   `db:"address"`
	Phone      *string   `db:"phone"`
	Email      *string   `db:"email"`
	Notes      *string   `db:"notes"`
	SalesRepID uuid.UUID `db:"sales_rep_id"`
	CreatedAt  time.Time `db:"created_at"`
	UpdatedAt  time.Time `db:"updated_at"`

	// SalesRep заполняется при выборке со связью.
	SalesRep *User `db:"-"`
}

// CustomerRequest - запрос на создание или изменение клиента.
type CustomerRequest struct {
	Name       string     `json:"name"`
	Address    *string    `json:"address,omitempty"`
	Phone      *string    `json:"phone,omitempty"`
	Email      *string    `json:"email,omitempty"`
	Notes      *string    `json:"notes,omitempty"`
	SalesRepID *uuid.UUID `json:"salesRepId,omitempty"`
}

// CustomerResponse DTO клиента.
type CustomerResponse struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	Address    *string   `json:"address,omitempty"`
	Phone      *string   `json:"phone,omitempty"`
	Email      *string   `json:"email,omitempty"`
	Notes      *string   `json:"notes,omitempty"`
	SalesRepID uuid.UUID `json:"salesRepId"`
	SalesRep   *UserResponse `json:"salesRep,omitempty"`
	CreatedAt  string    `json:"createdAt"`
}

// ToResponse преобразует клиента в DTO.
func (c *Customer) ToResponse() *CustomerResponse {
	resp := &CustomerResponse{
		ID:         c.ID,
		Name:       c.Name,
		Address:    c.Address,
		Phone:      c.Phone,
		Email:      c.Email,
		Notes:      c.Notes,
		SalesRepID: c.SalesRepID,
		CreatedAt:  c.CreatedAt.Format(time.RFC3339),
	}
	if c.SalesRep != nil {
		resp.SalesRep = c.SalesRep.ToResponse()
	}
	return resp
}
