package entities

import (
	"crypto/subtle"
	"time"
)

// PendingRegistration is the single-slot server-side record of a registration
// that is waiting for its email to be verified. It lives in the pending store
// keyed by email until the user verifies, the TTL evicts it, or the user
// re-registers and overwrites it. The password is bcrypt-hashed before it
// ever reaches this struct; the plaintext is never stored.
type PendingRegistration struct {
	Email        string    `json:"email"`
	Username     string    `json:"username"`
	FullName     string    `json:"full_name"`
	PasswordHash string    `json:"password_hash"`
	OTP          string    `json:"otp"`
	IssuedAt     time.Time `json:"issued_at"`
}

func NewPendingRegistration(email, username, fullName, passwordHash, otp string, issuedAt time.Time) *PendingRegistration {
	return &PendingRegistration{
		Email:        email,
		Username:     username,
		FullName:     fullName,
		PasswordHash: passwordHash,
		OTP:          otp,
		IssuedAt:     issuedAt,
	}
}

// Verify checks the submitted code against the stored one and enforces the
// validity window. A mismatch is reported as ErrCodeMismatch regardless of
// timing; a matching but stale code is reported as ErrOTPExpired. Neither
// outcome mutates the pending registration, so a failed attempt can be
// retried until the code expires.
func (p *PendingRegistration) Verify(code string, now time.Time, window time.Duration) error {
	if subtle.ConstantTimeCompare([]byte(p.OTP), []byte(code)) != 1 {
		return ErrCodeMismatch
	}
	if now.Sub(p.IssuedAt) > window {
		return ErrOTPExpired
	}
	return nil
}

// Rotate replaces the code and its issue time in place, leaving the profile
// fields untouched. Used by resend.
func (p *PendingRegistration) Rotate(otp string, now time.Time) {
	p.OTP = otp
	p.IssuedAt = now
}

// ToUser builds the account entity that is persisted once verification
// succeeds. The account is created already verified; the password field
// carries the hash computed at registration time.
func (p *PendingRegistration) ToUser() *User {
	user := NewUser(p.Username, p.Email, p.FullName, p.PasswordHash)
	user.IsVerified = true
	return user
}
