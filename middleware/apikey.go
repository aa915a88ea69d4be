// middleware/apikey.go - API-key authentication (x-api-key header)
package middleware

import (
	"scriptura/database"
	"scriptura/models"

	"github.com/gofiber/fiber/v2"
)

// APIKeyMiddleware validates the x-api-key header against active keys.
func APIKeyMiddleware(c *fiber.Ctx) error {
	key := c.Get("x-api-key")
	if key == "" {
		return c.Status(403).JSON(fiber.Map{"error": "Missing API key"})
	}

	db := database.GetDB()
	var apiKey models.APIKey
	if err := db.Where("api_key = ? AND active = ?", key, true).First(&apiKey).Error; err != nil {
		return c.Status(403).JSON(fiber.Map{"error": "Invalid or expired key"})
	}

	c.Locals("apiKeyEmail", apiKey.UserEmail)
	return c.Next()
}
