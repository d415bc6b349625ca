// Package email delivers account messages. The service only depends on the
// Sender interface; delivery failures are logged by the caller, never
// retried.
package email

import "log"

type Sender interface {
	Send(to string, subject string, body string) error
}

// LogSender writes the message to the process log instead of sending it.
// Used when SMTP is not configured, so local development still surfaces
// OTP codes.
type LogSender struct{}

func (LogSender) Send(to string, subject string, body string) error {
	log.Printf("email (log only) to=%s subject=%q\n%s", to, subject, body)
	return nil
}
