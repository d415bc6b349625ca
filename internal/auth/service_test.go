package auth

import (
	"context"
	"errors"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theukno/ecomproject/internal/store"
	"github.com/theukno/ecomproject/internal/utils"
)

type sentMail struct {
	To      string
	Subject string
	Body    string
}

type recordingSender struct {
	mu   sync.Mutex
	sent []sentMail
}

func (s *recordingSender) Send(to, subject, body string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, sentMail{To: to, Subject: subject, Body: body})
	return nil
}

func (s *recordingSender) last(t *testing.T) sentMail {
	t.Helper()
	s.mu.Lock()
	defer s.mu.Unlock()
	require.NotEmpty(t, s.sent, "no email was sent")
	return s.sent[len(s.sent)-1]
}

type failingSender struct{}

func (failingSender) Send(to, subject, body string) error {
	return errors.New("smtp unreachable")
}

var otpPattern = regexp.MustCompile(`\b(\d{6})\b`)

func codeFrom(t *testing.T, mail sentMail) string {
	t.Helper()
	match := otpPattern.FindStringSubmatch(mail.Body)
	require.NotNil(t, match, "no code in email body: %q", mail.Body)
	return match[1]
}

type fixture struct {
	svc    *Service
	users  *store.MemoryUserStore
	otps   *store.MemoryOTPStore
	sender *recordingSender
}

const testSecret = "test-secret"

func newFixture(t *testing.T) *fixture {
	t.Helper()
	users := store.NewMemoryUserStore()
	otps := store.NewMemoryOTPStore()
	sender := &recordingSender{}
	svc := NewService(users, otps, sender, testSecret, 7*24*time.Hour, 10*time.Minute)
	return &fixture{svc: svc, users: users, otps: otps, sender: sender}
}

func (f *fixture) signup(t *testing.T, name, email, password string) {
	t.Helper()
	require.NoError(t, f.svc.Signup(context.Background(), name, email, password))
}

func (f *fixture) verify(t *testing.T, email string) {
	t.Helper()
	code := codeFrom(t, f.sender.last(t))
	require.NoError(t, f.svc.VerifyOTP(context.Background(), email, code))
}

func TestSignupIssuesChallenge(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.signup(t, "Ada", "ada@example.com", "password123")

	user, err := f.users.FindByEmail(ctx, "ada@example.com")
	require.NoError(t, err)
	assert.False(t, user.IsVerified())
	assert.NotEqual(t, "password123", user.PasswordHash)

	challenge, err := f.otps.Find(ctx, "ada@example.com")
	require.NoError(t, err)
	assert.Regexp(t, `^\d{6}$`, challenge.Code)
	assert.WithinDuration(t, time.Now().Add(10*time.Minute), challenge.ExpiresAt, 5*time.Second)

	mail := f.sender.last(t)
	assert.Equal(t, "ada@example.com", mail.To)
	assert.Equal(t, challenge.Code, codeFrom(t, mail))
}

func TestSignupDuplicateEmail(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.signup(t, "Ada", "ada@example.com", "password123")
	before, err := f.users.FindByEmail(ctx, "ada@example.com")
	require.NoError(t, err)

	err = f.svc.Signup(ctx, "Imposter", "ada@example.com", "otherpassword")
	assert.ErrorIs(t, err, ErrEmailTaken)

	after, err := f.users.FindByEmail(ctx, "ada@example.com")
	require.NoError(t, err)
	assert.Equal(t, before.PasswordHash, after.PasswordHash)
	assert.Equal(t, "Ada", after.Name)
}

func TestSignupSucceedsWhenDeliveryFails(t *testing.T) {
	users := store.NewMemoryUserStore()
	otps := store.NewMemoryOTPStore()
	svc := NewService(users, otps, failingSender{}, testSecret, 7*24*time.Hour, 10*time.Minute)
	ctx := context.Background()

	require.NoError(t, svc.Signup(ctx, "Ada", "ada@example.com", "password123"))

	_, err := users.FindByEmail(ctx, "ada@example.com")
	assert.NoError(t, err)
	_, err = otps.Find(ctx, "ada@example.com")
	assert.NoError(t, err)
}

func TestRequestOTPUnknownEmail(t *testing.T) {
	f := newFixture(t)
	err := f.svc.RequestOTP(context.Background(), "nobody@example.com")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestRequestOTPInvalidatesPriorCode(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.signup(t, "Ada", "ada@example.com", "password123")
	firstCode := codeFrom(t, f.sender.last(t))

	require.NoError(t, f.svc.RequestOTP(ctx, "ada@example.com"))
	secondCode := codeFrom(t, f.sender.last(t))

	if firstCode == secondCode {
		t.Skip("regenerated code collided with the first; cannot observe replacement")
	}

	err := f.svc.VerifyOTP(ctx, "ada@example.com", firstCode)
	assert.ErrorIs(t, err, ErrOTPMismatch)
	assert.NoError(t, f.svc.VerifyOTP(ctx, "ada@example.com", secondCode))
}

func TestVerifyOTPNoChallenge(t *testing.T) {
	f := newFixture(t)
	err := f.svc.VerifyOTP(context.Background(), "nobody@example.com", "123456")
	assert.ErrorIs(t, err, ErrOTPNotFound)
}

func TestVerifyOTPExpired(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.signup(t, "Ada", "ada@example.com", "password123")
	code := codeFrom(t, f.sender.last(t))

	challenge, err := f.otps.Find(ctx, "ada@example.com")
	require.NoError(t, err)
	challenge.ExpiresAt = time.Now().Add(-time.Second)
	require.NoError(t, f.otps.Upsert(ctx, challenge))

	err = f.svc.VerifyOTP(ctx, "ada@example.com", code)
	assert.ErrorIs(t, err, ErrOTPExpired)

	// The stale challenge is gone, so retrying the same code now reports
	// no challenge at all.
	err = f.svc.VerifyOTP(ctx, "ada@example.com", code)
	assert.ErrorIs(t, err, ErrOTPNotFound)
}

func TestVerifyOTPMismatch(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.signup(t, "Ada", "ada@example.com", "password123")
	code := codeFrom(t, f.sender.last(t))

	wrong := "000000"
	if wrong == code {
		wrong = "000001"
	}
	err := f.svc.VerifyOTP(ctx, "ada@example.com", wrong)
	assert.ErrorIs(t, err, ErrOTPMismatch)

	// Mismatch leaves the challenge intact.
	_, err = f.otps.Find(ctx, "ada@example.com")
	assert.NoError(t, err)
}

func TestVerifyOTPSuccessIsOneTime(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.signup(t, "Ada", "ada@example.com", "password123")
	code := codeFrom(t, f.sender.last(t))

	require.NoError(t, f.svc.VerifyOTP(ctx, "ada@example.com", code))

	user, err := f.users.FindByEmail(ctx, "ada@example.com")
	require.NoError(t, err)
	assert.True(t, user.IsVerified())

	err = f.svc.VerifyOTP(ctx, "ada@example.com", code)
	assert.ErrorIs(t, err, ErrOTPNotFound)
}

func TestLoginUnverifiedEmail(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.signup(t, "Ada", "ada@example.com", "password123")

	_, token, err := f.svc.Login(ctx, "ada@example.com", "password123")
	assert.ErrorIs(t, err, ErrEmailNotVerified)
	assert.Empty(t, token)
}

func TestLoginDoesNotLeakAccountExistence(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.signup(t, "Ada", "ada@example.com", "password123")
	f.verify(t, "ada@example.com")

	_, _, wrongPassword := f.svc.Login(ctx, "ada@example.com", "not-the-password")
	_, _, unknownEmail := f.svc.Login(ctx, "nobody@example.com", "password123")

	assert.ErrorIs(t, wrongPassword, ErrInvalidCredentials)
	assert.ErrorIs(t, unknownEmail, ErrInvalidCredentials)
	assert.Equal(t, wrongPassword, unknownEmail)
}

func TestLoginTokenRoundTrip(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.signup(t, "Ada", "ada@example.com", "password123")
	f.verify(t, "ada@example.com")

	user, token, err := f.svc.Login(ctx, "ada@example.com", "password123")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := utils.ParseSessionToken(token, testSecret)
	require.NoError(t, err)
	assert.Equal(t, user.ID.String(), claims.Subject)
	assert.Equal(t, "ada@example.com", claims.Email)

	got, err := f.svc.CurrentUser(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
	assert.Equal(t, user.Email, got.Email)
}

func TestCurrentUserRejections(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.signup(t, "Ada", "ada@example.com", "password123")
	f.verify(t, "ada@example.com")
	user, _, err := f.svc.Login(ctx, "ada@example.com", "password123")
	require.NoError(t, err)

	expired, err := utils.GenerateSessionToken(user.ID.String(), user.Email, testSecret, -time.Minute)
	require.NoError(t, err)

	wrongKey, err := utils.GenerateSessionToken(user.ID.String(), user.Email, "other-secret", time.Hour)
	require.NoError(t, err)

	for name, token := range map[string]string{
		"missing":      "",
		"garbage":      "not.a.token",
		"expired":      expired,
		"wrong secret": wrongKey,
	} {
		_, err := f.svc.CurrentUser(ctx, token)
		assert.ErrorIs(t, err, ErrUnauthenticated, name)
	}
}

func TestCurrentUserDeletedAccount(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.signup(t, "Ada", "ada@example.com", "password123")
	f.verify(t, "ada@example.com")
	_, token, err := f.svc.Login(ctx, "ada@example.com", "password123")
	require.NoError(t, err)

	f.users.Delete("ada@example.com")

	_, err = f.svc.CurrentUser(ctx, token)
	assert.ErrorIs(t, err, ErrUnauthenticated)
}
