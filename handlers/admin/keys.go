// handlers/admin/keys.go - API-key management
package admin

import (
	"scriptura/database"
	"scriptura/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type CreateKeyRequest struct {
	UserEmail string `json:"user_email"`
}

// GetKeys lists every API key, newest first.
func GetKeys(c *fiber.Ctx) error {
	db := database.GetDB()

	var keys []models.APIKey
	if err := db.Order("created_at DESC").Find(&keys).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to list API keys"})
	}
	return c.JSON(fiber.Map{"keys": keys})
}

// CreateKey issues an API key manually, outside the payment flow.
func CreateKey(c *fiber.Ctx) error {
	var req CreateKeyRequest
	if err := c.BodyParser(&req); err != nil || req.UserEmail == "" {
		return c.Status(400).JSON(fiber.Map{"error": "user_email is required"})
	}

	key := models.APIKey{
		UserEmail: req.UserEmail,
		APIKey:    uuid.New().String(),
		Active:    true,
	}

	db := database.GetDB()
	if err := db.Create(&key).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to create API key"})
	}
	return c.Status(201).JSON(key)
}

// RevokeKey deactivates a key. The row stays for audit.
func RevokeKey(c *fiber.Ctx) error {
	db := database.GetDB()

	var key models.APIKey
	if err := db.First(&key, c.Params("id")).Error; err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "API key not found"})
	}

	key.Active = false
	if err := db.Save(&key).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to revoke API key"})
	}
	return c.JSON(key)
}

// ActivateKey re-enables a previously revoked key.
func ActivateKey(c *fiber.Ctx) error {
	db := database.GetDB()

	var key models.APIKey
	if err := db.First(&key, c.Params("id")).Error; err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "API key not found"})
	}

	key.Active = true
	if err := db.Save(&key).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to activate API key"})
	}
	return c.JSON(key)
}
