package auth

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rezonsoft/pamiatki/internal/models"
)

// ContextKey - тип для ключей контекста.
type ContextKey string

const (
	// UserIDKey - ключ для хранения ID пользователя в контексте.
	UserIDKey ContextKey = "user_id"
	// UserEmailKey - ключ для хранения email пользователя в контексте.
	UserEmailKey ContextKey = "user_email"
	// UserRoleKey - ключ для хранения роли пользователя в контексте.
	UserRoleKey ContextKey = "user_role"
)

// JWTMiddleware создаёт middleware для проверки JWT токена.
func JWTMiddleware(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := extractTokenFromHeader(c)

			if token == "" {
				token = extractTokenFromCookie(c)
			}

			if token == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing or invalid token")
			}

			claims, err := ValidateToken(token, secret)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			// Сохранение данных пользователя в контексте
			c.Set(string(UserIDKey), claims.UserID)
			c.Set(string(UserEmailKey), claims.Email)
			c.Set(string(UserRoleKey), claims.Role)

			return next(c)
		}
	}
}

// RequireRoles создаёт middleware, пропускающее только пользователей
// с одной из перечисленных ролей.
func RequireRoles(roles ...models.UserRole) echo.MiddlewareFunc {
	allowed := make(map[models.UserRole]struct{}, len(roles))
	for _, role := range roles {
		allowed[role] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, err := GetUserRoleFromContext(c)
			if err != nil {
				return err
			}
			if _, ok := allowed[role]; !ok {
				return echo.NewHTTPError(http.StatusForbidden, "forbidden")
			}
			return next(c)
		}
	}
}

// extractTokenFromHeader извлекает токен из заголовка Authorization.
func extractTokenFromHeader(c echo.Context) string {
	authHeader := c.Request().Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}

	// Проверка формата "Bearer <token>"
	parts := strings.Split(authHeader, " ")
	if len(parts) == 2 && strings.ToLower(parts[0]) == "bearer" {
		return parts[1]
	}

	return ""
}

// extractTokenFromCookie извлекает токен из cookie.
func extractTokenFromCookie(c echo.Context) string {
	cookie, err := c.Cookie("Authorization")
	if err != nil {
		return ""
	}
	return cookie.Value
}

// GetUserIDFromContext извлекает ID пользователя из контекста.
func GetUserIDFromContext(c echo.Context) (uuid.UUID, error) {
	userID, ok := c.Get(string(UserIDKey)).(uuid.UUID)
	if !ok {
		return uuid.Nil, echo.NewHTTPError(http.StatusUnauthorized, "user not found in context")
	}
	return userID, nil
}

// GetUserRoleFromContext извлекает роль пользователя из контекста.
func GetUserRoleFromContext(c echo.Context) (models.UserRole, error) {
	role, ok := c.Get(string(UserRoleKey)).(models.UserRole)
	if !ok {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "user not found in context")
	}
	return role, nil
}

// GetUserEmailFromContext извлекает email пользователя из контекста.
func GetUserEmailFromContext(c echo.Context) (string, error) {
	email, ok := c.Get(string(UserEmailKey)).(string)
	if !ok {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "user not found in context")
	}
	return email, nil
}
