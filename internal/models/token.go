package models

import "time"

// TokenKind distinguishes single-use token flows. Each kind carries its own
// expiry window.
type TokenKind string

const (
	TokenKindEmailVerification TokenKind = "email_verification"
	TokenKindPasswordReset     TokenKind = "password_reset"
)

// SingleUseToken grants exactly one state change within its window. The row
// is removed on redemption, successful or expired.
type SingleUseToken struct {
	Token     string
	UserID    string
	Kind      TokenKind
	ExpiresAt time.Time
	CreatedAt time.Time
}
