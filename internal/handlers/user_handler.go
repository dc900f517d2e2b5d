package handlers

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rezonsoft/pamiatki/internal/auth"
	"github.com/rezonsoft/pamiatki/internal/models"
	"github.com/rezonsoft/pamiatki/internal/services"
	"github.com/rezonsoft/pamiatki/internal/storage"
)

// UserHandler обрабатывает HTTP-запросы для работы с пользователями.
type UserHandler struct {
	userService services.UserService
}

// NewUserHandler создаёт новый экземпляр UserHandler.
func NewUserHandler(userService services.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

// Register обрабатывает POST /api/auth/register.
func (h *UserHandler) Register(c echo.Context) error {
	var req models.RegisterRequest

	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request format")
	}

	user, token, err := h.userService.Register(c.Request().Context(), &req)
	if err != nil {
		if errors.Is(err, services.ErrEmptyCredentials) || errors.Is(err, services.ErrPasswordTooShort) {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		if errors.Is(err, storage.ErrEmailExists) {
			return echo.NewHTTPError(http.StatusConflict, "email already exists")
		}
		c.Logger().Errorf("failed to register user: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}

	setAuthToken(c, token)

	return c.JSON(http.StatusOK, map[string]interface{}{
		"user_id": user.ID,
		"email":   user.Email,
		"role":    user.Role,
	})
}

// Login обрабатывает POST /api/auth/login.
func (h *UserHandler) Login(c echo.Context) error {
	var req models.LoginRequest

	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request format")
	}

	user, token, err := h.userService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrEmptyCredentials) {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		if errors.Is(err, services.ErrInvalidCredentials) {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid email or password")
		}
		if errors.Is(err, services.ErrUserInactive) {
			return echo.NewHTTPError(http.StatusUnauthorized, "account is deactivated")
		}
		c.Logger().Errorf("failed to login user: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}

	setAuthToken(c, token)

	return c.JSON(http.StatusOK, map[string]interface{}{
		"user_id": user.ID,
		"email":   user.Email,
		"role":    user.Role,
	})
}

// List обрабатывает GET /api/users.
func (h *UserHandler) List(c echo.Context) error {
	users, err := h.userService.List(c.Request().Context())
	if err != nil {
		c.Logger().Errorf("failed to list users: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}

	resp := make([]*models.UserResponse, 0, len(users))
	for _, u := range users {
		resp = append(resp, u.ToResponse())
	}

	return c.JSON(http.StatusOK, resp)
}

// Create обрабатывает POST /api/users.
func (h *UserHandler) Create(c echo.Context) error {
	actorRole, err := auth.GetUserRoleFromContext(c)
	if err != nil {
		return err
	}

	var req models.CreateUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request format")
	}

	user, err := h.userService.CreateUser(c.Request().Context(), actorRole, &req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrEmptyCredentials),
			errors.Is(err, services.ErrPasswordTooShort),
			errors.Is(err, services.ErrInvalidRole):
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		case errors.Is(err, services.ErrRoleNotAllowed):
			return echo.NewHTTPError(http.StatusForbidden, err.Error())
		case errors.Is(err, storage.ErrEmailExists):
			return echo.NewHTTPError(http.StatusConflict, "email already exists")
		}
		c.Logger().Errorf("failed to create user: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}

	return c.JSON(http.StatusCreated, user.ToResponse())
}

// Update обрабатывает PUT /api/users/:id.
func (h *UserHandler) Update(c echo.Context) error {
	actorRole, err := auth.GetUserRoleFromContext(c)
	if err != nil {
		return err
	}

	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid user id")
	}

	var req models.UpdateUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request format")
	}

	user, err := h.userService.UpdateUser(c.Request().Context(), actorRole, userID, &req)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrUserNotFound):
			return echo.NewHTTPError(http.StatusNotFound, "user not found")
		case errors.Is(err, services.ErrInvalidRole):
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		case errors.Is(err, services.ErrRoleNotAllowed):
			return echo.NewHTTPError(http.StatusForbidden, err.Error())
		}
		c.Logger().Errorf("failed to update user: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}

	return c.JSON(http.StatusOK, user.ToResponse())
}

// Delete обрабатывает DELETE /api/users/:id.
func (h *UserHandler) Delete(c echo.Context) error {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid user id")
	}

	if err := h.userService.DeleteUser(c.Request().Context(), userID); err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "user not found")
		}
		c.Logger().Errorf("failed to delete user: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}

	return c.NoContent(http.StatusNoContent)
}

// ResetPassword обрабатывает POST /api/users/:id/reset-password.
func (h *UserHandler) ResetPassword(c echo.Context) error {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid user id")
	}

	var req models.ResetPasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request format")
	}

	if err := h.userService.ResetPassword(c.Request().Context(), userID, req.Password); err != nil {
		switch {
		case errors.Is(err, services.ErrPasswordTooShort):
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		case errors.Is(err, storage.ErrUserNotFound):
			return echo.NewHTTPError(http.StatusNotFound, "user not found")
		}
		c.Logger().Errorf("failed to reset password: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{"success": true})
}

// setAuthToken устанавливает токен в cookie и заголовок ответа.
func setAuthToken(c echo.Context, token string) {
	cookie := &http.Cookie{
		Name:     "Authorization",
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
		MaxAge:   86400, // 24 часа
	}
	c.SetCookie(cookie)

	// Также устанавливаем в заголовок для удобства
	c.Response().Header().Set("Authorization", "Bearer "+token)
}
