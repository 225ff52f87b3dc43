package auth

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/taskhive/backend/domain"
	"github.com/taskhive/backend/pkg/token"
	"github.com/taskhive/backend/repository"
	"github.com/taskhive/backend/usecase"
)

// ThrottlePolicy bounds failed login attempts per username.
type ThrottlePolicy struct {
	MaxAttempts int
	Window      time.Duration
}

// UseCase implements registration, credential verification, and token
// issuance. Passwords only ever exist in memory as bcrypt hashes once
// Register returns.
type UseCase struct {
	users    repository.UserRepository
	throttle repository.LoginThrottle
	tokens   *token.Service
	audit    usecase.AuditTrail
	policy   ThrottlePolicy
	logger   *zap.Logger
}

func New(
	users repository.UserRepository,
	throttle repository.LoginThrottle,
	tokens *token.Service,
	audit usecase.AuditTrail,
	policy ThrottlePolicy,
	logger *zap.Logger,
) *UseCase {
	if policy.MaxAttempts <= 0 {
		policy.MaxAttempts = 10
	}
	if policy.Window <= 0 {
		policy.Window = 15 * time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		users:    users,
		throttle: throttle,
		tokens:   tokens,
		audit:    audit,
		policy:   policy,
		logger:   logger,
	}
}

// Register creates a new account. A duplicate username surfaces as a
// conflict from the user repository's unique constraint.
func (uc *UseCase) Register(ctx context.Context, username, password string) (*domain.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, domain.NewError(domain.ErrCodeInvalid, "username and password are required")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, domain.WrapError(domain.ErrCodeInternal, "failed to hash password", err)
	}

	user := &domain.User{
		Username:     username,
		PasswordHash: string(hash),
	}
	if err := uc.users.Create(ctx, user); err != nil {
		return nil, err
	}

	uc.record(ctx, username, usecase.ActionRegister, user.ID, "")
	return user, nil
}

// Login verifies credentials and issues a signed access token. Unknown
// usernames and wrong passwords produce the same error so callers cannot
// enumerate accounts.
func (uc *UseCase) Login(ctx context.Context, username, password string) (string, error) {
	if username == "" || password == "" {
		return "", domain.ErrBadCredentials
	}

	if blocked := uc.countAttempt(ctx, username); blocked {
		uc.record(ctx, username, usecase.ActionLoginDenied, "", "attempt limit reached")
		return "", domain.ErrTooManyAttempts
	}

	user, err := uc.users.GetByUsername(ctx, username)
	if err != nil {
		if domain.IsDomainError(err, domain.ErrCodeNotFound) {
			return "", domain.ErrBadCredentials
		}
		return "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		uc.record(ctx, username, usecase.ActionLoginDenied, user.ID, "bad password")
		return "", domain.ErrBadCredentials
	}

	uc.resetAttempts(ctx, username)

	signed, _, err := uc.tokens.Issue(user)
	if err != nil {
		return "", err
	}

	uc.record(ctx, username, usecase.ActionLogin, user.ID, "")
	return signed, nil
}

// CurrentUser resolves the account behind an authenticated request.
func (uc *UseCase) CurrentUser(ctx context.Context, userID string) (*domain.User, error) {
	return uc.users.GetByID(ctx, userID)
}

// countAttempt registers one login attempt and reports whether the caller
// exceeded the window's budget. Throttle backend failures fail open.
func (uc *UseCase) countAttempt(ctx context.Context, username string) bool {
	if uc.throttle == nil {
		return false
	}
	count, err := uc.throttle.Hit(ctx, username, uc.policy.Window)
	if err != nil {
		uc.logger.Warn("login throttle unavailable", zap.Error(err))
		return false
	}
	return count > uc.policy.MaxAttempts
}

func (uc *UseCase) resetAttempts(ctx context.Context, username string) {
	if uc.throttle == nil {
		return
	}
	if err := uc.throttle.Reset(ctx, username); err != nil {
		uc.logger.Warn("failed to reset login throttle", zap.Error(err))
	}
}

func (uc *UseCase) record(ctx context.Context, actor, action, entityID, detail string) {
	if uc.audit == nil {
		return
	}
	uc.audit.Record(ctx, actor, action, entityID, detail)
}
