package models

import (
	"time"

	"github.com/google/uuid"
)

// UserRole описывает роль пользователя в системе.
type UserRole string

const (
	RoleAdmin     UserRole = "ADMIN"
	RoleSalesRep  UserRole = "SALES_REP"
	RoleWarehouse UserRole = "WAREHOUSE"
	RoleSalesDept UserRole = "SALES_DEPT"
	RoleNewUser   UserRole = "NEW_USER"
)

// Valid проверяет, что роль входит в список известных.
func (r UserRole) Valid() bool {
	switch r {
	case RoleAdmin, RoleSalesRep, RoleWarehouse, RoleSalesDept, RoleNewUser:
		return true
	}
	return false
}

// User представляет пользователя системы.
type User struct {
	ID           uuid.UUID  `db:"id"`
	Name         string     `db:"name"`
	Email        string     `db:"email"`
	PasswordHash string     `db:"password_hash"`
	Role         UserRole   `db:"role"`
	DepartmentID *uuid.UUID `db:"department_id"`
	IsActive     bool       `db:"is_active"`
	CreatedAt    time.Time  `db:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at"`

	// Department заполняется при выборке со связью.
	Department *Department `db:"-"`
}

// RegisterRequest - запрос на самостоятельную регистрацию.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest - запрос на аутентификацию пользователя.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// CreateUserRequest - запрос на создание пользователя администратором.
type CreateUserRequest struct {
	Name         string     `json:"name"`
	Email        string     `json:"email"`
	Password     string     `json:"password"`
	Role         UserRole   `json:"role"`
	DepartmentID *uuid.UUID `json:"departmentId,omitempty"`
}

// UpdateUserRequest - запрос на изменение пользователя.
type UpdateUserRequest struct {
	Name         *string    `json:"name,omitempty"`
	Role         *UserRole  `json:"role,omitempty"`
	DepartmentID *uuid.UUID `json:"departmentId,omitempty"`
	IsActive     *bool      `json:"isActive,omitempty"`
}

// ResetPasswordRequest - запрос на сброс пароля пользователя.
type ResetPasswordRequest struct {
	Password string `json:"password"`
}

// UserResponse DTO пользователя без чувствительных полей.
type UserResponse struct {
	ID           uuid.UUID           `json:"id"`
	Name         string              `json:"name"`
	Email        string              `json:"email"`
	Role         UserRole            `json:"role"`
	DepartmentID *uuid.UUID          `json:"departmentId,omitempty"`
	Department   *DepartmentResponse `json:"department,omitempty"`
	IsActive     bool                `json:"isActive"`
	CreatedAt    string              `json:"createdAt"`
	UpdatedAt    string              `json:"updatedAt"`
}

// ToResponse преобразует пользователя в DTO.
func (u *User) ToResponse() *UserResponse {
	resp := &UserResponse{
		ID:           u.ID,
		Name:         u.Name,
		Email:        u.Email,
		Role:         u.Role,
		DepartmentID: u.DepartmentID,
		IsActive:     u.IsActive,
		CreatedAt:    u.CreatedAt.Format(time.RFC3339),
		UpdatedAt:    u.UpdatedAt.Format(time.RFC3339),
	}
	if u.Department != nil {
		resp.Department = u.Department.ToResponse()
	}
	return resp
}
