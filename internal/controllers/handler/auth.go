package handler

import (
	"eventplanner/internal/appers"
	"strings"

	"github.com/gofiber/fiber/v2"
)

const userIDKey = "userID"

// RequireUser читает идентификатор пользователя, проставленный шлюзом аутентификации.
// Без заголовка запрос отклоняется с 401.
func RequireUser(header string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := strings.TrimSpace(c.Get(header))
		if userID == "" {
			return appers.SanitizeError(c, appers.ErrUnauthenticated)
		}
		c.Locals(userIDKey, userID)
		return c.Next()
	}
}

// UserID пустая строка, если маршрут не закрыт RequireUser
func UserID(c *fiber.Ctx) string {
	id, _ := c.Locals(userIDKey).(string)
	return id
}
