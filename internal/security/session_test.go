package security

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

const testSecret = "unit-test-signing-secret"

func TestSession_RoundTrip(t *testing.T) {
	t.Parallel()

	payload := SessionPayload{
		UserID: "usr_2f3k",
		Email:  "coach@example.com",
		Name:   "Sam Coach",
		Role:   "Head coach",
	}

	token, err := CreateSession(testSecret, payload, 1)
	require.NoError(t, err)

	got, err := VerifySession(testSecret, token)
	require.NoError(t, err)
	require.Equal(t, payload, got)
}

func TestVerifySession_WrongSecret(t *testing.T) {
	t.Parallel()

	token, err := CreateSession(testSecret, SessionPayload{UserID: "u1"}, 1)
	require.NoError(t, err)

	_, err = VerifySession("some-other-secret", token)
	require.ErrorIs(t, err, ErrInvalidSession)
}

func TestVerifySession_Malformed(t *testing.T) {
	t.Parallel()

	for _, token := range []string{"", "not.a.jwt", "garbage"} {
		_, err := VerifySession(testSecret, token)
		require.ErrorIs(t, err, ErrInvalidSession)
	}
}

func TestVerifySession_Expired(t *testing.T) {
	t.Parallel()

	// Build a token whose expiry is already in the past; CreateSession only
	// deals in whole days so the claims are assembled by hand.
	claims := sessionClaims{
		SessionPayload: SessionPayload{UserID: "u1", Email: "a@x.com"},
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
			Subject:   "u1",
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = VerifySession(testSecret, token)
	require.ErrorIs(t, err, ErrInvalidSession)
}

func TestVerifySession_RejectsNonHMAC(t *testing.T) {
	t.Parallel()

	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, sessionClaims{
		SessionPayload: SessionPayload{UserID: "u1"},
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = VerifySession(testSecret, token)
	require.ErrorIs(t, err, ErrInvalidSession)
}
