package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"pitchside/api/internal/config"
	"pitchside/api/internal/models"
	"pitchside/api/internal/repository"
	"pitchside/api/internal/security"
)

type fakeUserStore struct {
	byID map[string]models.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{byID: map[string]models.User{}}
}

func (s *fakeUserStore) Create(_ context.Context, user models.User) error {
	s.byID[user.ID] = user
	return nil
}

func (s *fakeUserStore) FindByEmail(_ context.Context, email string) (models.User, error) {
	for _, user := range s.byID {
		if user.Email == email {
			return user, nil
		}
	}
	return models.User{}, repository.ErrUserNotFound
}

func (s *fakeUserStore) GetByID(_ context.Context, id string) (models.User, error) {
	user, ok := s.byID[id]
	if !ok {
		return models.User{}, repository.ErrUserNotFound
	}
	return user, nil
}

func (s *fakeUserStore) UpdatePasswordHash(_ context.Context, id, passwordHash string) error {
	user, ok := s.byID[id]
	if !ok {
		return repository.ErrUserNotFound
	}
	user.PasswordHash = passwordHash
	s.byID[id] = user
	return nil
}

func (s *fakeUserStore) MarkEmailVerified(_ context.Context, id string) error {
	user, ok := s.byID[id]
	if !ok {
		return repository.ErrUserNotFound
	}
	user.EmailVerified = true
	s.byID[id] = user
	return nil
}

func (s *fakeUserStore) MarkPhoneVerified(_ context.Context, id string) error {
	user, ok := s.byID[id]
	if !ok {
		return repository.ErrUserNotFound
	}
	user.PhoneVerified = true
	s.byID[id] = user
	return nil
}

func (s *fakeUserStore) SetPhone(_ context.Context, id, phone string) error {
	user, ok := s.byID[id]
	if !ok {
		return repository.ErrUserNotFound
	}
	user.Phone = phone
	s.byID[id] = user
	return nil
}

// fakeTokenStore mirrors the Postgres repository's redeem contract: the row
// is consumed by the redeeming call, expired rows are consumed and reported
// expired.
type fakeTokenStore struct {
	tokens map[string]models.SingleUseToken
}

func newFakeTokenStore() *fakeTokenStore {
	return &fakeTokenStore{tokens: map[string]models.SingleUseToken{}}
}

func (s *fakeTokenStore) Create(_ context.Context, token models.SingleUseToken) error {
	s.tokens[token.Token] = token
	return nil
}

func (s *fakeTokenStore) Redeem(_ context.Context, token string, kind models.TokenKind) (string, error) {
	record, ok := s.tokens[token]
	if !ok || record.Kind != kind {
		return "", repository.ErrTokenNotFound
	}
	delete(s.tokens, token)
	if record.ExpiresAt.Before(time.Now()) {
		return "", repository.ErrTokenExpired
	}
	return record.UserID, nil
}

func (s *fakeTokenStore) DeleteByUser(_ context.Context, userID string, kind models.TokenKind) error {
	for key, record := range s.tokens {
		if record.UserID == userID && record.Kind == kind {
			delete(s.tokens, key)
		}
	}
	return nil
}

type fakePhoneStore struct {
	codes map[string]string // userID -> code
}

func newFakePhoneStore() *fakePhoneStore {
	return &fakePhoneStore{codes: map[string]string{}}
}

func (s *fakePhoneStore) IssueCode(_ context.Context, userID string) (string, error) {
	s.codes[userID] = "123456"
	return "123456", nil
}

func (s *fakePhoneStore) RedeemCode(_ context.Context, userID, code string) error {
	if s.codes[userID] != code {
		return errors.New("code invalid or expired")
	}
	delete(s.codes, userID)
	return nil
}

type recordingMailer struct {
	verificationTokens []string
	resetTokens        []string
}

func (m *recordingMailer) SendVerificationEmail(_ context.Context, to, name, token string) error {
	m.verificationTokens = append(m.verificationTokens, token)
	return nil
}

func (m *recordingMailer) SendPasswordResetEmail(_ context.Context, to, name, token string) error {
	m.resetTokens = append(m.resetTokens, token)
	return nil
}

const testSecret = "unit-test-signing-secret"

func newTestAuthService() (*AuthService, *fakeUserStore, *fakeTokenStore, *fakePhoneStore, *recordingMailer) {
	users := newFakeUserStore()
	tokens := newFakeTokenStore()
	phones := newFakePhoneStore()
	mail := &recordingMailer{}

	svc := NewAuthService(users, tokens, phones, mail, config.SecurityConfig{
		JWTSecret:         testSecret,
		SessionTTLDays:    7,
		LoginTTLDays:      1,
		RememberMeTTLDays: 30,
		EmailTokenTTL:     24 * time.Hour,
		ResetTokenTTL:     time.Hour,
	}, zerolog.Nop())

	return svc, users, tokens, phones, mail
}

func TestRegisterAndLogin(t *testing.T) {
	t.Parallel()

	svc, _, _, _, mail := newTestAuthService()
	ctx := context.Background()

	result, err := svc.Register(ctx, RegisterInput{
		Name:     "Alex",
		Club:     "FC Example",
		Email:    "a@x.com",
		Password: "hunter2hunter2",
	})
	require.NoError(t, err)
	require.NotEmpty(t, result.User.ID)
	require.Equal(t, "a@x.com", result.User.Email)
	require.Len(t, mail.verificationTokens, 1)

	payload, err := security.VerifySession(testSecret, result.SessionToken)
	require.NoError(t, err)
	require.Equal(t, result.User.ID, payload.UserID)

	login, err := svc.Login(ctx, LoginInput{Email: "a@x.com", Password: "hunter2hunter2"})
	require.NoError(t, err)
	require.Equal(t, 1, login.TTLDays)

	_, err = svc.Login(ctx, LoginInput{Email: "a@x.com", Password: "wrong"})
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_UnknownEmailSameOutcome(t *testing.T) {
	t.Parallel()

	svc, _, _, _, _ := newTestAuthService()

	_, err := svc.Login(context.Background(), LoginInput{Email: "nobody@x.com", Password: "anything"})
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_RememberMe(t *testing.T) {
	t.Parallel()

	svc, _, _, _, _ := newTestAuthService()
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterInput{Email: "a@x.com", Password: "hunter2hunter2"})
	require.NoError(t, err)

	login, err := svc.Login(ctx, LoginInput{Email: "a@x.com", Password: "hunter2hunter2", RememberMe: true})
	require.NoError(t, err)
	require.Equal(t, 30, login.TTLDays)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	t.Parallel()

	svc, _, _, _, _ := newTestAuthService()
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterInput{Email: "a@x.com", Password: "hunter2hunter2"})
	require.NoError(t, err)

	_, err = svc.Register(ctx, RegisterInput{Email: "A@X.com", Password: "other-password"})
	require.ErrorIs(t, err, ErrEmailTaken)
}

func TestVerifyEmail_SingleUse(t *testing.T) {
	t.Parallel()

	svc, users, _, _, mail := newTestAuthService()
	ctx := context.Background()

	result, err := svc.Register(ctx, RegisterInput{Email: "a@x.com", Password: "hunter2hunter2"})
	require.NoError(t, err)
	require.Len(t, mail.verificationTokens, 1)
	token := mail.verificationTokens[0]

	require.NoError(t, svc.VerifyEmail(ctx, token))

	user, err := users.GetByID(ctx, result.User.ID)
	require.NoError(t, err)
	require.True(t, user.EmailVerified)

	// The record was consumed; the same link cannot be redeemed again.
	err = svc.VerifyEmail(ctx, token)
	require.ErrorIs(t, err, repository.ErrTokenNotFound)
}

func TestVerifyEmail_Expired(t *testing.T) {
	t.Parallel()

	svc, _, tokens, _, _ := newTestAuthService()
	ctx := context.Background()

	result, err := svc.Register(ctx, RegisterInput{Email: "a@x.com", Password: "hunter2hunter2"})
	require.NoError(t, err)

	require.NoError(t, tokens.Create(ctx, models.SingleUseToken{
		Token:     "expired-token",
		UserID:    result.User.ID,
		Kind:      models.TokenKindEmailVerification,
		ExpiresAt: time.Now().Add(-time.Minute),
	}))

	err = svc.VerifyEmail(ctx, "expired-token")
	require.ErrorIs(t, err, repository.ErrTokenExpired)

	// Expired redemption consumed the record too.
	err = svc.VerifyEmail(ctx, "expired-token")
	require.ErrorIs(t, err, repository.ErrTokenNotFound)
}

func TestForgotAndResetPassword(t *testing.T) {
	t.Parallel()

	svc, _, _, _, mail := newTestAuthService()
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterInput{Email: "a@x.com", Password: "old-password-1"})
	require.NoError(t, err)

	// Unknown address: silent success, no mail.
	require.NoError(t, svc.ForgotPassword(ctx, "stranger@x.com"))
	require.Empty(t, mail.resetTokens)

	require.NoError(t, svc.ForgotPassword(ctx, "a@x.com"))
	require.Len(t, mail.resetTokens, 1)

	require.NoError(t, svc.ResetPassword(ctx, mail.resetTokens[0], "new-password-1"))

	_, err = svc.Login(ctx, LoginInput{Email: "a@x.com", Password: "old-password-1"})
	require.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, LoginInput{Email: "a@x.com", Password: "new-password-1"})
	require.NoError(t, err)

	// Token was single-use.
	err = svc.ResetPassword(ctx, mail.resetTokens[0], "another-password")
	require.ErrorIs(t, err, repository.ErrTokenNotFound)
}

func TestForgotPassword_SupersedesOldToken(t *testing.T) {
	t.Parallel()

	svc, _, _, _, mail := newTestAuthService()
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterInput{Email: "a@x.com", Password: "old-password-1"})
	require.NoError(t, err)

	require.NoError(t, svc.ForgotPassword(ctx, "a@x.com"))
	require.NoError(t, svc.ForgotPassword(ctx, "a@x.com"))
	require.Len(t, mail.resetTokens, 2)

	err = svc.ResetPassword(ctx, mail.resetTokens[0], "new-password-1")
	require.ErrorIs(t, err, repository.ErrTokenNotFound)

	require.NoError(t, svc.ResetPassword(ctx, mail.resetTokens[1], "new-password-1"))
}

func TestChangePassword(t *testing.T) {
	t.Parallel()

	svc, _, _, _, _ := newTestAuthService()
	ctx := context.Background()

	result, err := svc.Register(ctx, RegisterInput{Email: "a@x.com", Password: "current-pass-1"})
	require.NoError(t, err)

	err = svc.ChangePassword(ctx, result.User.ID, "wrong-current", "next-pass-1")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	require.NoError(t, svc.ChangePassword(ctx, result.User.ID, "current-pass-1", "next-pass-1"))

	_, err = svc.Login(ctx, LoginInput{Email: "a@x.com", Password: "next-pass-1"})
	require.NoError(t, err)
}

func TestPhoneVerification(t *testing.T) {
	t.Parallel()

	svc, users, _, _, _ := newTestAuthService()
	ctx := context.Background()

	result, err := svc.Register(ctx, RegisterInput{Email: "a@x.com", Password: "hunter2hunter2"})
	require.NoError(t, err)

	code, err := svc.SendPhoneCode(ctx, result.User.ID, "+4512345678")
	require.NoError(t, err)
	require.Len(t, code, 6)

	require.Error(t, svc.VerifyPhoneCode(ctx, result.User.ID, "000000"))
	require.NoError(t, svc.VerifyPhoneCode(ctx, result.User.ID, code))

	user, err := users.GetByID(ctx, result.User.ID)
	require.NoError(t, err)
	require.True(t, user.PhoneVerified)
	require.Equal(t, "+4512345678", user.Phone)

	// Codes are single-use.
	require.Error(t, svc.VerifyPhoneCode(ctx, result.User.ID, code))
}
