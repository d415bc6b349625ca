// Package auth implements the account workflow: signup, OTP issuance and
// verification, login, and session lookup. All state lives in the stores;
// the service itself holds only configuration.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/theukno/ecomproject/internal/email"
	"github.com/theukno/ecomproject/internal/models"
	"github.com/theukno/ecomproject/internal/store"
	"github.com/theukno/ecomproject/internal/utils"
)

type Service struct {
	users      store.UserStore
	challenges store.OTPStore
	sender     email.Sender
	jwtSecret  string
	sessionTTL time.Duration
	otpTTL     time.Duration
}

func NewService(users store.UserStore, challenges store.OTPStore, sender email.Sender, jwtSecret string, sessionTTL, otpTTL time.Duration) *Service {
	return &Service{
		users:      users,
		challenges: challenges,
		sender:     sender,
		jwtSecret:  jwtSecret,
		sessionTTL: sessionTTL,
		otpTTL:     otpTTL,
	}
}

// Signup creates an unverified account and issues its first OTP challenge.
// OTP delivery failure is logged and does not undo the account creation.
func (s *Service) Signup(ctx context.Context, name, emailAddr, password string) error {
	if _, err := s.users.FindByEmail(ctx, emailAddr); err == nil {
		return ErrEmailTaken
	} else if !errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("looking up user: %w", err)
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}

	user := &models.User{
		Email:        emailAddr,
		PasswordHash: hash,
		Name:         name,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return ErrEmailTaken
		}
		return fmt.Errorf("creating user: %w", err)
	}

	return s.issueChallenge(ctx, emailAddr)
}

// RequestOTP replaces any outstanding challenge for the email with a fresh
// one. The prior code stops working immediately.
func (s *Service) RequestOTP(ctx context.Context, emailAddr string) error {
	if _, err := s.users.FindByEmail(ctx, emailAddr); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("looking up user: %w", err)
	}
	return s.issueChallenge(ctx, emailAddr)
}

func (s *Service) issueChallenge(ctx context.Context, emailAddr string) error {
	code, err := utils.GenerateOTP()
	if err != nil {
		return fmt.Errorf("generating otp: %w", err)
	}

	challenge := &models.OTPChallenge{
		Email:     emailAddr,
		Code:      code,
		ExpiresAt: time.Now().Add(s.otpTTL),
	}
	if err := s.challenges.Upsert(ctx, challenge); err != nil {
		return fmt.Errorf("storing otp challenge: %w", err)
	}

	subject := "Your verification code"
	body := fmt.Sprintf("Your verification code is %s. It expires in %d minutes.", code, int(s.otpTTL.Minutes()))
	if err := s.sender.Send(emailAddr, subject, body); err != nil {
		log.Printf("otp email to %s failed: %v", emailAddr, err)
	}
	return nil
}

// VerifyOTP checks the submitted code against the outstanding challenge.
// Expired challenges are deleted on detection; a used code is deleted so it
// cannot be replayed.
func (s *Service) VerifyOTP(ctx context.Context, emailAddr, code string) error {
	challenge, err := s.challenges.Find(ctx, emailAddr)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrOTPNotFound
		}
		return fmt.Errorf("looking up otp challenge: %w", err)
	}

	if challenge.Expired(time.Now()) {
		if err := s.challenges.Delete(ctx, emailAddr); err != nil {
			log.Printf("deleting expired otp for %s failed: %v", emailAddr, err)
		}
		return ErrOTPExpired
	}

	if !utils.CheckOTP(challenge.Code, code) {
		return ErrOTPMismatch
	}

	if err := s.users.MarkEmailVerified(ctx, emailAddr, time.Now()); err != nil {
		return fmt.Errorf("marking email verified: %w", err)
	}
	if err := s.challenges.Delete(ctx, emailAddr); err != nil {
		return fmt.Errorf("deleting otp challenge: %w", err)
	}
	return nil
}

// Login verifies credentials and mints a session token. An unknown email and
// a wrong password produce the same error; the verified-email check runs
// after the lookup and before the password check.
func (s *Service) Login(ctx context.Context, emailAddr, password string) (*models.User, string, error) {
	user, err := s.users.FindByEmail(ctx, emailAddr)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("looking up user: %w", err)
	}

	if !user.IsVerified() {
		return nil, "", ErrEmailNotVerified
	}

	if !utils.CheckPassword(user.PasswordHash, password) {
		return nil, "", ErrInvalidCredentials
	}

	token, err := utils.GenerateSessionToken(user.ID.String(), user.Email, s.jwtSecret, s.sessionTTL)
	if err != nil {
		return nil, "", fmt.Errorf("signing session token: %w", err)
	}
	return user, token, nil
}

// CurrentUser resolves a session token to its account. Missing and invalid
// tokens, and tokens for accounts that no longer exist, all return
// ErrUnauthenticated.
func (s *Service) CurrentUser(ctx context.Context, token string) (*models.User, error) {
	if token == "" {
		return nil, ErrUnauthenticated
	}

	claims, err := utils.ParseSessionToken(token, s.jwtSecret)
	if err != nil {
		return nil, ErrUnauthenticated
	}

	id, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, ErrUnauthenticated
	}

	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrUnauthenticated
		}
		return nil, fmt.Errorf("looking up user: %w", err)
	}
	return user, nil
}
