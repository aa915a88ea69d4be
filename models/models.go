// models/models.go - Core Models
package models

import "time"

// APIKey grants access to the protected endpoints. Keys are issued by the
// payment webhook or by an admin and revoked by deactivation, never deleted.
type APIKey struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserEmail string    `json:"user_email" gorm:"uniqueIndex;size:255"`
	APIKey    string    `json:"api_key" gorm:"uniqueIndex;size:64;not null"`
	Active    bool      `json:"active" gorm:"default:true"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AdminUser can manage API keys through the admin endpoints. Password holds a
// bcrypt hash.
type AdminUser struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Username  string    `json:"username" gorm:"uniqueIndex;size:50;not null"`
	Password  string    `json:"-" gorm:"size:255;not null"`
	LastLogin time.Time `json:"last_login"`
	CreatedAt time.Time `json:"created_at"`
}

func (APIKey) TableName() string {
	return "api_keys"
}

func (AdminUser) TableName() string {
	return "admin_users"
}
