package models

import "time"

// OTPChallenge is the single outstanding verification code for an email.
// Email is the primary key: issuing a new code replaces the old row, so a
// prior code becomes invalid even before it expires.
type OTPChallenge struct {
	Email     string    `gorm:"primaryKey;size:255"`
	Code      string    `gorm:"size:6;not null"`
	ExpiresAt time.Time `gorm:"index"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Expired reports whether the challenge is past its expiry at the given time.
func (c *OTPChallenge) Expired(now time.Time) bool {
	return now.After(c.ExpiresAt)
}
