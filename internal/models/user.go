package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is an account record. EmailVerified is nil until the user proves
// control of the address via an OTP; an unverified user cannot log in.
type User struct {
	ID            uuid.UUID  `gorm:"type:char(36);primaryKey" json:"id"`
	Email         string     `gorm:"uniqueIndex;size:255;not null" json:"email"`
	PasswordHash  string     `gorm:"size:255;not null" json:"-"`
	Name          string     `gorm:"size:255;not null" json:"name"`
	Image         string     `gorm:"size:2048" json:"image,omitempty"`
	EmailVerified *time.Time `json:"emailVerified,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// IsVerified reports whether the user has completed email verification.
func (u *User) IsVerified() bool {
	return u.EmailVerified != nil
}
