package api

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"taskquest/internal/auth"
)

// userIDKey is the fiber.Ctx locals key holding the authenticated user id.
const userIDKey = "userID"

// AuthMiddleware validates the Bearer token and stores the user id in the
// request context.
func AuthMiddleware(authSvc *auth.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get("Authorization")
		if header == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
				Error:   "unauthorized",
				Message: "Authorization header is required",
			})
		}

		token := strings.TrimPrefix(header, "Bearer ")
		if token == header || token == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
				Error:   "unauthorized",
				Message: "Invalid authorization header format. Use: Bearer <token>",
			})
		}

		claims, err := authSvc.ValidateToken(token)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
				Error:   "unauthorized",
				Message: "Invalid or expired token",
			})
		}

		c.Locals(userIDKey, claims.UserID)
		return c.Next()
	}
}

func currentUserID(c *fiber.Ctx) string {
	id, _ := c.Locals(userIDKey).(string)
	return id
}
