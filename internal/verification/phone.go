// Package verification issues and redeems short-lived phone verification
// codes backed by Redis, whose key TTL is the expiry window.
package verification

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/redis/go-redis/v9"
)

var ErrCodeInvalid = errors.New("code invalid or expired")

type PhoneVerifier struct {
	client *redis.Client
	ttl    time.Duration
}

func NewPhoneVerifier(client *redis.Client, ttl time.Duration) *PhoneVerifier {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &PhoneVerifier{client: client, ttl: ttl}
}

func codeKey(userID, code string) string {
	return fmt.Sprintf("phone:code:%s:%s", userID, code)
}

// IssueCode draws a uniform random 6-digit code and stores it under the
// user with the configured TTL. A user may hold several live codes;
// redemption matches on the exact code.
func (v *PhoneVerifier) IssueCode(ctx context.Context, userID string) (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", fmt.Errorf("draw code: %w", err)
	}
	code := fmt.Sprintf("%06d", n.Int64()+100000)

	if err := v.client.Set(ctx, codeKey(userID, code), time.Now().Unix(), v.ttl).Err(); err != nil {
		return "", fmt.Errorf("store code: %w", err)
	}
	return code, nil
}

// RedeemCode consumes a matching live code. GETDEL makes lookup and delete
// one operation, so a code redeems at most once. Expired keys are gone from
// Redis already and come back as invalid.
func (v *PhoneVerifier) RedeemCode(ctx context.Context, userID, code string) error {
	err := v.client.GetDel(ctx, codeKey(userID, code)).Err()
	if errors.Is(err, redis.Nil) {
		return ErrCodeInvalid
	}
	if err != nil {
		return fmt.Errorf("redeem code: %w", err)
	}
	return nil
}
