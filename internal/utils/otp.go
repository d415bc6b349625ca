package utils

import (
	"crypto/rand"
	"crypto/subtle"
	"fmt"
)

// GenerateOTP returns a random 6-digit code, zero-padded.
func GenerateOTP() (string, error) {
	buf := make([]byte, 3)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	code := int(buf[0])<<16 | int(buf[1])<<8 | int(buf[2])
	code = code % 1000000
	return fmt.Sprintf("%06d", code), nil
}

// CheckOTP compares a submitted code against the stored one in constant time.
func CheckOTP(stored string, candidate string) bool {
	return subtle.ConstantTimeCompare([]byte(stored), []byte(candidate)) == 1
}
