package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"pitchside/api/internal/config"
	"pitchside/api/internal/ids"
	"pitchside/api/internal/mailer"
	"pitchside/api/internal/models"
	"pitchside/api/internal/repository"
	"pitchside/api/internal/security"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailTaken         = errors.New("email already registered")
)

// UserStore is the user-record collaborator; the Postgres repository
// satisfies it in production.
type UserStore interface {
	Create(ctx context.Context, user models.User) error
	FindByEmail(ctx context.Context, email string) (models.User, error)
	GetByID(ctx context.Context, id string) (models.User, error)
	UpdatePasswordHash(ctx context.Context, id, passwordHash string) error
	MarkEmailVerified(ctx context.Context, id string) error
	MarkPhoneVerified(ctx context.Context, id string) error
	SetPhone(ctx context.Context, id, phone string) error
}

// TokenStore holds single-use tokens. Redeem must be atomic: the record is
// consumed by the call that reads it.
type TokenStore interface {
	Create(ctx context.Context, token models.SingleUseToken) error
	Redeem(ctx context.Context, token string, kind models.TokenKind) (string, error)
	DeleteByUser(ctx context.Context, userID string, kind models.TokenKind) error
}

// PhoneCodeStore issues and consumes short-lived numeric codes.
type PhoneCodeStore interface {
	IssueCode(ctx context.Context, userID string) (string, error)
	RedeemCode(ctx context.Context, userID, code string) error
}

type AuthService struct {
	users  UserStore
	tokens TokenStore
	phones PhoneCodeStore
	mail   mailer.Mailer
	cfg    config.SecurityConfig
	log    zerolog.Logger
}

func NewAuthService(
	users UserStore,
	tokens TokenStore,
	phones PhoneCodeStore,
	mail mailer.Mailer,
	cfg config.SecurityConfig,
	log zerolog.Logger,
) *AuthService {
	return &AuthService{
		users:  users,
		tokens: tokens,
		phones: phones,
		mail:   mail,
		cfg:    cfg,
		log:    log,
	}
}

type RegisterInput struct {
	Name     string
	Club     string
	Email    string
	Password string
}

type AuthResult struct {
	User         models.User
	SessionToken string
	TTLDays      int
}

func (s *AuthService) Register(ctx context.Context, input RegisterInput) (AuthResult, error) {
	input.Email = strings.TrimSpace(strings.ToLower(input.Email))
	if input.Email == "" || input.Password == "" {
		return AuthResult{}, ErrInvalidCredentials
	}

	if _, err := s.users.FindByEmail(ctx, input.Email); err == nil {
		return AuthResult{}, ErrEmailTaken
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return AuthResult{}, err
	}

	passwordHash, err := security.HashPassword(input.Password)
	if err != nil {
		return AuthResult{}, err
	}

	user := models.User{
		ID:           ids.New(),
		Email:        input.Email,
		PasswordHash: passwordHash,
		Name:         input.Name,
		Club:         input.Club,
		Role:         "Head coach",
	}

	if err := s.users.Create(ctx, user); err != nil {
		return AuthResult{}, err
	}

	if err := s.issueEmailVerification(ctx, user); err != nil {
		// Registration still succeeds; the user can request a resend.
		s.log.Warn().Err(err).Str("user_id", user.ID).Msg("email verification issuance failed")
	}

	ttlDays := s.cfg.SessionTTLDays
	if ttlDays <= 0 {
		ttlDays = security.DefaultSessionTTLDays
	}

	token, err := s.createSession(user, ttlDays)
	if err != nil {
		return AuthResult{}, err
	}

	return AuthResult{User: user, SessionToken: token, TTLDays: ttlDays}, nil
}

type LoginInput struct {
	Email      string
	Password   string
	RememberMe bool
}

func (s *AuthService) Login(ctx context.Context, input LoginInput) (AuthResult, error) {
	input.Email = strings.TrimSpace(strings.ToLower(input.Email))

	user, err := s.users.FindByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			// Same outcome as a wrong password; account existence stays hidden.
			return AuthResult{}, ErrInvalidCredentials
		}
		return AuthResult{}, err
	}

	if !security.VerifyPassword(input.Password, user.PasswordHash) {
		return AuthResult{}, ErrInvalidCredentials
	}

	ttlDays := s.cfg.LoginTTLDays
	if input.RememberMe {
		ttlDays = s.cfg.RememberMeTTLDays
	}

	token, err := s.createSession(user, ttlDays)
	if err != nil {
		return AuthResult{}, err
	}

	return AuthResult{User: user, SessionToken: token, TTLDays: ttlDays}, nil
}

func (s *AuthService) createSession(user models.User, ttlDays int) (string, error) {
	return security.CreateSession(s.cfg.JWTSecret, security.SessionPayload{
		UserID: user.ID,
		Email:  user.Email,
		Name:   user.Name,
		Role:   user.Role,
	}, ttlDays)
}

func (s *AuthService) issueEmailVerification(ctx context.Context, user models.User) error {
	token, err := security.GenerateSingleUseToken()
	if err != nil {
		return err
	}

	if err := s.tokens.Create(ctx, models.SingleUseToken{
		Token:     token,
		UserID:    user.ID,
		Kind:      models.TokenKindEmailVerification,
		ExpiresAt: time.Now().Add(s.cfg.EmailTokenTTL),
	}); err != nil {
		return err
	}

	return s.mail.SendVerificationEmail(ctx, user.Email, user.Name, token)
}

// VerifyEmail redeems an email verification token and marks the owner
// verified. Redeem consumes the record, so a second call with the same
// token fails.
func (s *AuthService) VerifyEmail(ctx context.Context, token string) error {
	userID, err := s.tokens.Redeem(ctx, token, models.TokenKindEmailVerification)
	if err != nil {
		return err
	}
	return s.users.MarkEmailVerified(ctx, userID)
}

// ForgotPassword issues a reset token when the account exists. It returns
// nil for unknown emails as well; the response must not reveal whether an
// address is registered.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	email = strings.TrimSpace(strings.ToLower(email))

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil
		}
		return err
	}

	// A new link supersedes any outstanding one.
	if err := s.tokens.DeleteByUser(ctx, user.ID, models.TokenKindPasswordReset); err != nil {
		s.log.Warn().Err(err).Str("user_id", user.ID).Msg("stale reset token cleanup failed")
	}

	token, err := security.GenerateSingleUseToken()
	if err != nil {
		return err
	}

	if err := s.tokens.Create(ctx, models.SingleUseToken{
		Token:     token,
		UserID:    user.ID,
		Kind:      models.TokenKindPasswordReset,
		ExpiresAt: time.Now().Add(s.cfg.ResetTokenTTL),
	}); err != nil {
		return err
	}

	if err := s.mail.SendPasswordResetEmail(ctx, user.Email, user.Name, token); err != nil {
		s.log.Error().Err(err).Str("user_id", user.ID).Msg("password reset email failed")
	}
	return nil
}

func (s *AuthService) ResetPassword(ctx context.Context, token, newPassword string) error {
	userID, err := s.tokens.Redeem(ctx, token, models.TokenKindPasswordReset)
	if err != nil {
		return err
	}

	passwordHash, err := security.HashPassword(newPassword)
	if err != nil {
		return err
	}
	return s.users.UpdatePasswordHash(ctx, userID, passwordHash)
}

func (s *AuthService) ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	if !security.VerifyPassword(currentPassword, user.PasswordHash) {
		return ErrInvalidCredentials
	}

	passwordHash, err := security.HashPassword(newPassword)
	if err != nil {
		return err
	}
	return s.users.UpdatePasswordHash(ctx, userID, passwordHash)
}

// SendPhoneCode stores the user's phone number and issues a 6-digit code.
// TODO: deliver the code via an SMS provider instead of returning it.
func (s *AuthService) SendPhoneCode(ctx context.Context, userID, phone string) (string, error) {
	if err := s.users.SetPhone(ctx, userID, phone); err != nil {
		return "", err
	}
	return s.phones.IssueCode(ctx, userID)
}

func (s *AuthService) VerifyPhoneCode(ctx context.Context, userID, code string) error {
	if err := s.phones.RedeemCode(ctx, userID, code); err != nil {
		return err
	}
	return s.users.MarkPhoneVerified(ctx, userID)
}
