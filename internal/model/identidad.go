package model

import (
	"time"
)

// Identidad is the identity provider's user record. It exists from sign-up on;
// the matching Usuario row only appears once the profile is completed.
type Identidad struct {
	ID                string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Email             string `gorm:"uniqueIndex;not null"`
	PasswordHash      string `gorm:"not null"`
	FirstName         string
	LastName          string
	EmailConfirmado   bool    `gorm:"column:email_confirmed;not null;default:false"`
	TokenConfirmacion *string `gorm:"column:confirmation_token;index"`
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

func (Identidad) TableName() string { return "identity" }
