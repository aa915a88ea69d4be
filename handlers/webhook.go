// handlers/webhook.go - Stripe payment webhook
//
// A completed checkout issues an API key for the customer email; a failed
// payment or cancelled subscription deactivates it.
package handlers

import (
	"log"
	"os"

	"scriptura/database"
	"scriptura/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v82/webhook"
)

// StripeWebhook verifies the event signature and maintains API keys.
func StripeWebhook(c *fiber.Ctx) error {
	secret := os.Getenv("STRIPE_WEBHOOK_SECRET")

	event, err := webhook.ConstructEvent(c.Body(), c.Get("Stripe-Signature"), secret)
	if err != nil {
		return fiber.NewError(400, "Invalid webhook signature")
	}

	db := database.GetDB()

	switch event.Type {
	case "checkout.session.completed":
		email := objectEmail(event.Data.Object)
		if email == "" {
			break
		}
		key := models.APIKey{
			UserEmail: email,
			APIKey:    uuid.New().String(),
			Active:    true,
		}
		if err := db.Create(&key).Error; err != nil {
			log.Printf("Failed to store API key for %s: %v", email, err)
			return fiber.NewError(500, "Failed to store API key")
		}
		// TODO: deliver the key to the customer by email
		log.Printf("Issued API key for %s", email)

	case "invoice.payment_failed", "customer.subscription.deleted":
		email := objectEmail(event.Data.Object)
		if email == "" {
			break
		}
		var key models.APIKey
		if err := db.Where("user_email = ?", email).First(&key).Error; err == nil {
			key.Active = false
			db.Save(&key)
			log.Printf("Deactivated API key for %s", email)
		}
	}

	return c.JSON(fiber.Map{"status": "success"})
}

func objectEmail(object map[string]interface{}) string {
	if email, ok := object["customer_email"].(string); ok {
		return email
	}
	return ""
}
