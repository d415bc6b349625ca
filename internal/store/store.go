// Package store holds the persistence interfaces for users and OTP
// challenges, with a GORM-backed implementation for production and an
// in-memory one for tests.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/theukno/ecomproject/internal/models"
)

var (
	// ErrNotFound is returned when a lookup matches no record.
	ErrNotFound = errors.New("store: record not found")
	// ErrDuplicate is returned when a create violates a uniqueness constraint.
	ErrDuplicate = errors.New("store: duplicate record")
)

// UserStore persists account records. Email is unique and compared exactly
// as stored.
type UserStore interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	MarkEmailVerified(ctx context.Context, email string, at time.Time) error
}

// OTPStore persists at most one live challenge per email. Upsert replaces
// any prior challenge for the same email in a single atomic write.
type OTPStore interface {
	Find(ctx context.Context, email string) (*models.OTPChallenge, error)
	Upsert(ctx context.Context, challenge *models.OTPChallenge) error
	Delete(ctx context.Context, email string) error
}
