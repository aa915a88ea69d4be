// database/migrate.go - Schema migrations and admin seeding
package database

import (
	"log"
	"os"

	"scriptura/models"

	"golang.org/x/crypto/bcrypt"
)

// RunMigrations applies the schema and seeds the admin account from the
// environment when one is configured and missing.
func RunMigrations() {
	if err := db.AutoMigrate(&models.APIKey{}, &models.AdminUser{}); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("✅ Database migrations completed")

	seedAdminUser()
}

// seedAdminUser creates the initial admin from ADMIN_USERNAME /
// ADMIN_PASSWORD. Existing accounts are never overwritten; rotate passwords
// through the database.
func seedAdminUser() {
	username := os.Getenv("ADMIN_USERNAME")
	password := os.Getenv("ADMIN_PASSWORD")
	if username == "" || password == "" {
		return
	}

	var count int64
	db.Model(&models.AdminUser{}).Where("username = ?", username).Count(&count)
	if count > 0 {
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("Failed to hash admin password: %v", err)
		return
	}

	admin := models.AdminUser{Username: username, Password: string(hash)}
	if err := db.Create(&admin).Error; err != nil {
		log.Printf("Failed to seed admin user: %v", err)
		return
	}
	log.Printf("Seeded admin user '%s'", username)
}
