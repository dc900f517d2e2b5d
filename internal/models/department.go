package models

import (
	"time"

	"github.com/google/uuid"
)

// Department представляет отдел компании.
type Department struct {
	ID        uuid.UUID `db:"id"`
	Name      string    `db:"name"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`

	// UserCount количество пользователей отдела (заполняется при выборке).
	UserCount int `db:"-"`
}

// DepartmentRequest - запрос на создание или изменение отдела.
type DepartmentRequest struct {
	Name string `json:"name"`
}

// DepartmentResponse DTO отдела.
type DepartmentResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	UserCount int       `json:"userCount"`
	CreatedAt string    `json:"createdAt"`
}

// ToResponse преобразует отдел в DTO.
func (d *Department) ToResponse() *DepartmentResponse {
	return &DepartmentResponse{
		ID:        d.ID,
		Name:      d.Name,
		UserCount: d.UserCount,
		CreatedAt: d.CreatedAt.Format(time.RFC3339),
	}
}
