package models

import (
	"time"
)

// OTPRecord is a pending email verification. It holds the hashed code and,
// for sign-ups, the registration data needed to create the account.
type OTPRecord struct {
	Email        string    `json:"email"`
	CodeHash     string    `json:"codeHash"`
	Name         string    `json:"name,omitempty"`
	PasswordHash string    `json:"passwordHash,omitempty"`
	ExpiresAt    time.Time `json:"expiresAt"`
	Attempts     int       `json:"attempts,omitempty"`
}

// Expired reports whether the record's window has closed at now
func (r *OTPRecord) Expired(now time.Time) bool {
	return !now.Before(r.ExpiresAt)
}
