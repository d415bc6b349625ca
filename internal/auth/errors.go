package auth

import "errors"

var (
	// ErrEmailTaken is returned by Signup when the email already has an account.
	ErrEmailTaken = errors.New("auth: email already registered")

	// ErrUserNotFound is returned by RequestOTP when no account has the email.
	ErrUserNotFound = errors.New("auth: user not found")

	// ErrOTPNotFound means no challenge is on file for the email.
	ErrOTPNotFound = errors.New("auth: no otp challenge found")
	// ErrOTPExpired means the challenge exists but its window has passed.
	ErrOTPExpired = errors.New("auth: otp expired")
	// ErrOTPMismatch means the challenge is live but the code does not match.
	ErrOTPMismatch = errors.New("auth: otp mismatch")

	// ErrInvalidCredentials covers both unknown email and wrong password, so
	// login responses cannot be used to probe which accounts exist.
	ErrInvalidCredentials = errors.New("auth: invalid credentials")
	// ErrEmailNotVerified means the account exists but has not completed
	// OTP verification. Checked before the password.
	ErrEmailNotVerified = errors.New("auth: email not verified")

	// ErrUnauthenticated covers a missing, malformed, expired, or orphaned
	// session token. Callers get no finer detail.
	ErrUnauthenticated = errors.New("auth: unauthenticated")
)
