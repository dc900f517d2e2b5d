package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rezonsoft/pamiatki/internal/auth"
	"github.com/rezonsoft/pamiatki/internal/models"
	"github.com/rezonsoft/pamiatki/internal/storage"
)

const testJWTSecret = "test-secret"

func newTestUserService(userStorage *storage.MockUserStorage) *UserServiceImpl {
	return NewUserService(userStorage, testJWTSecret, time.Hour)
}

func TestUserService_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("successful registration", func(t *testing.T) {
		var created *models.User
		svc := newTestUserService(&storage.MockUserStorage{
			CreateFunc: func(ctx context.Context, user *models.User) error {
				created = user
				return nil
			},
		})

		user, token, err := svc.Register(ctx, &models.RegisterRequest{
			Name:     "Jan Kowalski",
			Email:    "  Jan.Kowalski@Rezon.PL ",
			Password: "secret123",
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if token == "" {
			t.Error("expected non-empty token")
		}
		if user.Email != "jan.kowalski@rezon.pl" {
			t.Errorf("email = %q, want lowercased and trimmed", user.Email)
		}
		if user.Role != models.RoleSalesRep {
			t.Errorf("role = %q, want %q", user.Role, models.RoleSalesRep)
		}
		if !user.IsActive {
			t.Error("new user must be active")
		}
		if created == nil {
			t.Fatal("user was not persisted")
		}
		if !auth.CheckPassword("secret123", created.PasswordHash) {
			t.Error("stored hash does not match password")
		}
	})

	t.Run("empty credentials", func(t *testing.T) {
		svc := newTestUserService(&storage.MockUserStorage{})
		_, _, err := svc.Register(ctx, &models.RegisterRequest{Email: "", Password: ""})
		if !errors.Is(err, ErrEmptyCredentials) {
			t.Fatalf("expected ErrEmptyCredentials, got %v", err)
		}
	})

	t.Run("password too short", func(t *testing.T) {
		svc := newTestUserService(&storage.MockUserStorage{})
		_, _, err := svc.Register(ctx, &models.RegisterRequest{Email: "a@b.pl", Password: "12345"})
		if !errors.Is(err, ErrPasswordTooShort) {
			t.Fatalf("expected ErrPasswordTooShort, got %v", err)
		}
	})

	t.Run("duplicate email", func(t *testing.T) {
		svc := newTestUserService(&storage.MockUserStorage{
			CreateFunc: func(ctx context.Context, user *models.User) error {
				return storage.ErrEmailExists
			},
		})
		_, _, err := svc.Register(ctx, &models.RegisterRequest{Email: "a@b.pl", Password: "secret123"})
		if !errors.Is(err, storage.ErrEmailExists) {
			t.Fatalf("expected ErrEmailExists, got %v", err)
		}
	})
}

func TestUserService_Login(t *testing.T) {
	ctx := context.Background()

	hash, err := auth.HashPassword("secret123")
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	existing := &models.User{
		ID:           uuid.New(),
		Name:         "Jan Kowalski",
		Email:        "jan@rezon.pl",
		PasswordHash: hash,
		Role:         models.RoleSalesRep,
		IsActive:     true,
	}

	storageWith := func(user *models.User) *storage.MockUserStorage {
		return &storage.MockUserStorage{
			GetByEmailFunc: func(ctx context.Context, email string) (*models.User, error) {
				if email == user.Email {
					return user, nil
				}
				return nil, storage.ErrUserNotFound
			},
		}
	}

	t.Run("successful login", func(t *testing.T) {
		svc := newTestUserService(storageWith(existing))
		user, token, err := svc.Login(ctx, "JAN@rezon.pl", "secret123")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if token == "" {
			t.Error("expected non-empty token")
		}
		if user.ID != existing.ID {
			t.Error("wrong user returned")
		}
	})

	t.Run("unknown email", func(t *testing.T) {
		svc := newTestUserService(storageWith(existing))
		_, _, err := svc.Login(ctx, "nobody@rezon.pl", "secret123")
		if !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("expected ErrInvalidCredentials, got %v", err)
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		svc := newTestUserService(storageWith(existing))
		_, _, err := svc.Login(ctx, "jan@rezon.pl", "wrong")
		if !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("expected ErrInvalidCredentials, got %v", err)
		}
	})

	t.Run("deactivated account", func(t *testing.T) {
		inactive := *existing
		inactive.IsActive = false
		svc := newTestUserService(storageWith(&inactive))
		_, _, err := svc.Login(ctx, "jan@rezon.pl", "secret123")
		if !errors.Is(err, ErrUserInactive) {
			t.Fatalf("expected ErrUserInactive, got %v", err)
		}
	})
}

func TestUserService_CreateUser(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name      string
		actorRole models.UserRole
		target    models.UserRole
		wantErr   error
	}{
		{"admin assigns admin", models.RoleAdmin, models.RoleAdmin, nil},
		{"admin assigns warehouse", models.RoleAdmin, models.RoleWarehouse, nil},
		{"sales dept assigns sales rep", models.RoleSalesDept, models.RoleSalesRep, nil},
		{"sales dept assigns new user", models.RoleSalesDept, models.RoleNewUser, nil},
		{"sales dept assigns admin", models.RoleSalesDept, models.RoleAdmin, ErrRoleNotAllowed},
		{"sales dept assigns warehouse", models.RoleSalesDept, models.RoleWarehouse, ErrRoleNotAllowed},
		{"sales rep assigns anyone", models.RoleSalesRep, models.RoleNewUser, ErrRoleNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestUserService(&storage.MockUserStorage{})
			user, err := svc.CreateUser(ctx, tt.actorRole, &models.CreateUserRequest{
				Name:     "Anna Nowak",
				Email:    "anna@rezon.pl",
				Password: "secret123",
				Role:     tt.target,
			})
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if user.Role != tt.target {
				t.Errorf("role = %q, want %q", user.Role, tt.target)
			}
		})
	}

	t.Run("invalid role", func(t *testing.T) {
		svc := newTestUserService(&storage.MockUserStorage{})
		_, err := svc.CreateUser(ctx, models.RoleAdmin, &models.CreateUserRequest{
			Email:    "anna@rezon.pl",
			Password: "secret123",
			Role:     models.UserRole("SUPERVISOR"),
		})
		if !errors.Is(err, ErrInvalidRole) {
			t.Fatalf("expected ErrInvalidRole, got %v", err)
		}
	})
}

func TestUserService_UpdateUser(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	storageWith := func(user *models.User) *storage.MockUserStorage {
		return &storage.MockUserStorage{
			GetByIDFunc: func(ctx context.Context, id uuid.UUID) (*models.User, error) {
				if id == user.ID {
					return user, nil
				}
				return nil, storage.ErrUserNotFound
			},
		}
	}

	t.Run("updates provided fields only", func(t *testing.T) {
		existing := &models.User{ID: userID, Name: "Jan Kowalski", Role: models.RoleSalesRep, IsActive: true}
		svc := newTestUserService(storageWith(existing))

		name := "Jan Nowak"
		inactive := false
		user, err := svc.UpdateUser(ctx, models.RoleAdmin, userID, &models.UpdateUserRequest{
			Name:     &name,
			IsActive: &inactive,
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if user.Name != "Jan Nowak" {
			t.Errorf("name = %q", user.Name)
		}
		if user.IsActive {
			t.Error("user must be deactivated")
		}
		if user.Role != models.RoleSalesRep {
			t.Errorf("role changed unexpectedly: %q", user.Role)
		}
	})

	t.Run("role assignment respects actor role", func(t *testing.T) {
		existing := &models.User{ID: userID, Role: models.RoleSalesRep, IsActive: true}
		svc := newTestUserService(storageWith(existing))

		role := models.RoleAdmin
		_, err := svc.UpdateUser(ctx, models.RoleSalesDept, userID, &models.UpdateUserRequest{Role: &role})
		if !errors.Is(err, ErrRoleNotAllowed) {
			t.Fatalf("expected ErrRoleNotAllowed, got %v", err)
		}
	})

	t.Run("user not found", func(t *testing.T) {
		svc := newTestUserService(&storage.MockUserStorage{})
		_, err := svc.UpdateUser(ctx, models.RoleAdmin, uuid.New(), &models.UpdateUserRequest{})
		if !errors.Is(err, storage.ErrUserNotFound) {
			t.Fatalf("expected ErrUserNotFound, got %v", err)
		}
	})
}

func TestUserService_ResetPassword(t *testing.T) {
	ctx := context.Background()

	t.Run("stores new hash", func(t *testing.T) {
		var storedHash string
		svc := newTestUserService(&storage.MockUserStorage{
			UpdatePasswordFunc: func(ctx context.Context, id uuid.UUID, passwordHash string) error {
				storedHash = passwordHash
				return nil
			},
		})
		if err := svc.ResetPassword(ctx, uuid.New(), "newsecret"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !auth.CheckPassword("newsecret", storedHash) {
			t.Error("stored hash does not match new password")
		}
	})

	t.Run("password too short", func(t *testing.T) {
		svc := newTestUserService(&storage.MockUserStorage{})
		if err := svc.ResetPassword(ctx, uuid.New(), "123"); !errors.Is(err, ErrPasswordTooShort) {
			t.Fatalf("expected ErrPasswordTooShort, got %v", err)
		}
	})
}
