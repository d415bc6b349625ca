package store

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/theukno/ecomproject/internal/models"
)

// MemoryUserStore keeps users in a map guarded by a mutex. Intended for tests.
type MemoryUserStore struct {
	mu    sync.RWMutex
	users map[string]models.User // keyed by email
}

func NewMemoryUserStore() *MemoryUserStore {
	return &MemoryUserStore{users: make(map[string]models.User)}
}

func (s *MemoryUserStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, ok := s.users[email]
	if !ok {
		return nil, ErrNotFound
	}
	return &user, nil
}

func (s *MemoryUserStore) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, user := range s.users {
		if user.ID == id {
			u := user
			return &u, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryUserStore) Create(ctx context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[user.Email]; ok {
		return ErrDuplicate
	}
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	s.users[user.Email] = *user
	return nil
}

func (s *MemoryUserStore) MarkEmailVerified(ctx context.Context, email string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[email]
	if !ok {
		return ErrNotFound
	}
	verifiedAt := at
	user.EmailVerified = &verifiedAt
	user.UpdatedAt = time.Now()
	s.users[email] = user
	return nil
}

// Delete removes a user. Not part of UserStore; tests use it to simulate an
// account that disappears while its session token is still valid.
func (s *MemoryUserStore) Delete(email string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.users, email)
}

// MemoryOTPStore keeps OTP challenges in a map guarded by a mutex.
type MemoryOTPStore struct {
	mu         sync.RWMutex
	challenges map[string]models.OTPChallenge
}

func NewMemoryOTPStore() *MemoryOTPStore {
	return &MemoryOTPStore{challenges: make(map[string]models.OTPChallenge)}
}

func (s *MemoryOTPStore) Find(ctx context.Context, email string) (*models.OTPChallenge, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	challenge, ok := s.challenges[email]
	if !ok {
		return nil, ErrNotFound
	}
	return &challenge, nil
}

func (s *MemoryOTPStore) Upsert(ctx context.Context, challenge *models.OTPChallenge) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	if existing, ok := s.challenges[challenge.Email]; ok {
		challenge.CreatedAt = existing.CreatedAt
	} else {
		challenge.CreatedAt = now
	}
	challenge.UpdatedAt = now
	s.challenges[challenge.Email] = *challenge
	return nil
}

func (s *MemoryOTPStore) Delete(ctx context.Context, email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.challenges, email)
	return nil
}
