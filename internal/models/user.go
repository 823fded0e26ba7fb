package models

import (
	"strings"
	"time"

	"github.com/khanhng/coinfolio/internal/apperrors"
)

// User is an account that owns portfolio transactions.
type User struct {
	ID           string    `json:"id" gorm:"primaryKey;column:id;type:varchar(255)"`
	Name         string    `json:"name" gorm:"column:name;type:varchar(255);not null"`
	Email        string    `json:"email" gorm:"column:email;type:varchar(255);not null;uniqueIndex"`
	PasswordHash string    `json:"-" gorm:"column:password_hash;type:varchar(255);not null"`
	CreatedAt    time.Time `json:"created_at" gorm:"column:created_at;type:timestamptz;autoCreateTime"`
}

// TableName returns the table name for the User model
func (User) TableName() string {
	return "users"
}

// Validate validates the user data
func (u *User) Validate() error {
	if strings.TrimSpace(u.Name) == "" {
		return apperrors.NewValidation("name", "is required")
	}
	if strings.TrimSpace(u.Email) == "" {
		return apperrors.NewValidation("email", "is required")
	}
	if !strings.Contains(u.Email, "@") {
		return apperrors.NewValidation("email", "is not a valid address")
	}
	return nil
}
