package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rezonsoft/pamiatki/internal/auth"
	"github.com/rezonsoft/pamiatki/internal/models"
	"github.com/rezonsoft/pamiatki/internal/storage"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmptyCredentials   = errors.New("email and password are required")
	ErrUserInactive       = errors.New("user account is deactivated")
	ErrInvalidRole        = errors.New("invalid role")
	ErrRoleNotAllowed     = errors.New("not allowed to assign this role")
	ErrPasswordTooShort   = errors.New("password must be at least 6 characters")
)

const minPasswordLength = 6

// UserService определяет интерфейс для работы с пользователями.
type UserService interface {
	Register(ctx context.Context, req *models.RegisterRequest) (*models.User, string, error)
	Login(ctx context.Context, email, password string) (*models.User, string, error)
	GetByID(ctx context.Context, userID uuid.UUID) (*models.User, error)
	List(ctx context.Context) ([]*models.User, error)
	CreateUser(ctx context.Context, actorRole models.UserRole, req *models.CreateUserRequest) (*models.User, error)
	UpdateUser(ctx context.Context, actorRole models.UserRole, userID uuid.UUID, req *models.UpdateUserRequest) (*models.User, error)
	ResetPassword(ctx context.Context, userID uuid.UUID, newPassword string) error
	DeleteUser(ctx context.Context, userID uuid.UUID) error
}

// UserServiceImpl реализует UserService.
type UserServiceImpl struct {
	userStorage     UserStorage
	jwtSecret       string
	tokenExpiration time.Duration
}

// NewUserService создаёт новый экземпляр UserService.
func NewUserService(userStorage UserStorage, jwtSecret string, tokenExpiration time.Duration) *UserServiceImpl {
	return &UserServiceImpl{
		userStorage:     userStorage,
		jwtSecret:       jwtSecret,
		tokenExpiration: tokenExpiration,
	}
}

// Register регистрирует нового пользователя. Самостоятельная регистрация
// всегда даёт роль торгового представителя.
func (s *UserServiceImpl) Register(ctx context.Context, req *models.RegisterRequest) (*models.User, string, error) {
	email := strings.TrimSpace(strings.ToLower(req.Email))
	if email == "" || req.Password == "" {
		return nil, "", ErrEmptyCredentials
	}
	if len(req.Password) < minPasswordLength {
		return nil, "", ErrPasswordTooShort
	}

	passwordHash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		ID:           uuid.New(),
		Name:         strings.TrimSpace(req.Name),
		Email:        email,
		PasswordHash: passwordHash,
		Role:         models.RoleSalesRep,
		IsActive:     true,
	}

	err = s.userStorage.Create(ctx, user)
	if err != nil {
		if errors.Is(err, storage.ErrEmailExists) {
			return nil, "", storage.ErrEmailExists
		}
		return nil, "", fmt.Errorf("failed to create user: %w", err)
	}

	token, err := s.generateToken(user)
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate token: %w", err)
	}

	return user, token, nil
}

// Login аутентифицирует пользователя.
func (s *UserServiceImpl) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || password == "" {
		return nil, "", ErrEmptyCredentials
	}

	user, err := s.userStorage.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("failed to get user: %w", err)
	}

	if !auth.CheckPassword(password, user.PasswordHash) {
		return nil, "", ErrInvalidCredentials
	}

	if !user.IsActive {
		return nil, "", ErrUserInactive
	}

	token, err := s.generateToken(user)
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate token: %w", err)
	}

	return user, token, nil
}

// GetByID возвращает пользователя по идентификатору.
func (s *UserServiceImpl) GetByID(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	user, err := s.userStorage.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return nil, storage.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// List возвращает всех пользователей.
func (s *UserServiceImpl) List(ctx context.Context) ([]*models.User, error) {
	users, err := s.userStorage.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// CreateUser создаёт пользователя от имени администратора или отдела продаж.
// Отдел продаж может создавать только торговых представителей и новых
// пользователей, администратор - кого угодно.
func (s *UserServiceImpl) CreateUser(ctx context.Context, actorRole models.UserRole, req *models.CreateUserRequest) (*models.User, error) {
	email := strings.TrimSpace(strings.ToLower(req.Email))
	if email == "" || req.Password == "" {
		return nil, ErrEmptyCredentials
	}
	if len(req.Password) < minPasswordLength {
		return nil, ErrPasswordTooShort
	}
	if !req.Role.Valid() {
		return nil, ErrInvalidRole
	}
	if !canAssignRole(actorRole, req.Role) {
		return nil, ErrRoleNotAllowed
	}

	passwordHash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		ID:           uuid.New(),
		Name:         strings.TrimSpace(req.Name),
		Email:        email,
		PasswordHash: passwordHash,
		Role:         req.Role,
		DepartmentID: req.DepartmentID,
		IsActive:     true,
	}

	if err := s.userStorage.Create(ctx, user); err != nil {
		if errors.Is(err, storage.ErrEmailExists) {
			return nil, storage.ErrEmailExists
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// UpdateUser изменяет данные пользователя.
func (s *UserServiceImpl) UpdateUser(ctx context.Context, actorRole models.UserRole, userID uuid.UUID, req *models.UpdateUserRequest) (*models.User, error) {
	user, err := s.userStorage.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return nil, storage.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if req.Name != nil {
		user.Name = strings.TrimSpace(*req.Name)
	}
	if req.Role != nil {
		if !req.Role.Valid() {
			return nil, ErrInvalidRole
		}
		if !canAssignRole(actorRole, *req.Role) {
			return nil, ErrRoleNotAllowed
		}
		user.Role = *req.Role
	}
	if req.DepartmentID != nil {
		user.DepartmentID = req.DepartmentID
	}
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}

	if err := s.userStorage.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	return user, nil
}

// ResetPassword устанавливает новый пароль пользователя.
func (s *UserServiceImpl) ResetPassword(ctx context.Context, userID uuid.UUID, newPassword string) error {
	if len(newPassword) < minPasswordLength {
		return ErrPasswordTooShort
	}

	passwordHash, err := auth.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.userStorage.UpdatePassword(ctx, userID, passwordHash); err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return storage.ErrUserNotFound
		}
		return fmt.Errorf("failed to update password: %w", err)
	}

	return nil
}

// DeleteUser удаляет пользователя.
func (s *UserServiceImpl) DeleteUser(ctx context.Context, userID uuid.UUID) error {
	if err := s.userStorage.Delete(ctx, userID); err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return storage.ErrUserNotFound
		}
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return nil
}

// canAssignRole проверяет, может ли актор назначить роль.
func canAssignRole(actorRole, target models.UserRole) bool {
	switch actorRole {
	case models.RoleAdmin:
		return true
	case models.RoleSalesDept:
		return target == models.RoleSalesRep || target == models.RoleNewUser
	default:
		return false
	}
}

// generateToken генерирует JWT токен для пользователя.
func (s *UserServiceImpl) generateToken(user *models.User) (string, error) {
	exp := s.tokenExpiration
	if exp <= 0 {
		exp = 24 * time.Hour
	}
	return auth.GenerateToken(user, s.jwtSecret, exp)
}
