package security

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const (
	SessionCookieName = "session"

	DefaultSessionTTLDays = 7
)

var ErrInvalidSession = errors.New("invalid session")

// SessionPayload is the self-contained identity embedded in a session token.
// Nothing is persisted server-side; validity is signature plus expiry.
type SessionPayload struct {
	UserID string `json:"uid"`
	Email  string `json:"email"`
	Name   string `json:"name"`
	Role   string `json:"role"`
}

type sessionClaims struct {
	SessionPayload
	jwt.RegisteredClaims
}

// CreateSession signs a session token expiring ttlDays days from now.
func CreateSession(secret string, payload SessionPayload, ttlDays int) (string, error) {
	if ttlDays <= 0 {
		ttlDays = DefaultSessionTTLDays
	}

	now := time.Now()
	claims := sessionClaims{
		SessionPayload: payload,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(ttlDays) * 24 * time.Hour)),
			Subject:   payload.UserID,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("sign session: %w", err)
	}
	return signed, nil
}

// VerifySession validates signature and expiry. Every failure mode
// (malformed token, wrong signature, wrong algorithm, expired) collapses
// into ErrInvalidSession.
func VerifySession(secret, tokenStr string) (SessionPayload, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &sessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return SessionPayload{}, ErrInvalidSession
	}

	claims, ok := token.Claims.(*sessionClaims)
	if !ok || !token.Valid {
		return SessionPayload{}, ErrInvalidSession
	}
	return claims.SessionPayload, nil
}

// SetSessionCookie attaches the token as an HTTP-only, same-site-lax cookie.
// Secure is set outside local development.
func SetSessionCookie(c *gin.Context, token string, ttlDays int, environment string) {
	if ttlDays <= 0 {
		ttlDays = DefaultSessionTTLDays
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookieName, token, ttlDays*24*60*60, "/", "", environment == "production", true)
}

// DeleteSessionCookie removes the cookie. The token itself stays valid until
// expiry; there is no server-side revocation list.
func DeleteSessionCookie(c *gin.Context, environment string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookieName, "", -1, "/", "", environment == "production", true)
}
