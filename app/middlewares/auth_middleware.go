// app/middlewares/auth_middleware.go
package middlewares

import (
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"

	"skillswap/app/utils"
)

// AuthRequired validates the Bearer token and stores the caller's user id
// in the request locals
func AuthRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		// Get the Authorization header
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(401).JSON(fiber.Map{
				"status":  "error",
				"message": "Authorization header is required",
			})
		}

		// Check if the header starts with "Bearer "
		if !strings.HasPrefix(authHeader, "Bearer ") {
			return c.Status(401).JSON(fiber.Map{
				"status":  "error",
				"message": "Invalid authorization header format",
			})
		}

		// Extract and validate the token
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		claims, err := utils.ValidateToken(tokenString)
		if err != nil {
			log.Printf("JWT validation failed: %v", err)
			return c.Status(401).JSON(fiber.Map{
				"status":  "error",
				"message": "Invalid JWT token",
				"details": err.Error(),
			})
		}

		c.Locals("userID", claims.UserID)
		return c.Next()
	}
}

// CallerID returns the authenticated user id stored by AuthRequired
func CallerID(c *fiber.Ctx) string {
	if userID, ok := c.Locals("userID").(string); ok {
		return userID
	}
	return ""
}
