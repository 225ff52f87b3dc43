package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/taskhive/backend/domain"
	"github.com/taskhive/backend/pkg/token"
)

type fakeUserRepo struct {
	byUsername map[string]*domain.User
	nextID     int
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byUsername: make(map[string]*domain.User)}
}

func (r *fakeUserRepo) Create(ctx context.Context, user *domain.User) error {
	if _, ok := r.byUsername[user.Username]; ok {
		return domain.ErrUsernameTaken
	}
	r.nextID++
	if user.ID == "" {
		user.ID = time.Now().Format("20060102150405") + "-" + user.Username
	}
	user.CreatedAt = time.Now()
	clone := *user
	r.byUsername[user.Username] = &clone
	return nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	for _, user := range r.byUsername {
		if user.ID == id {
			clone := *user
			return &clone, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *fakeUserRepo) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	user, ok := r.byUsername[username]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	clone := *user
	return &clone, nil
}

type fakeThrottle struct {
	counts map[string]int
	err    error
}

func newFakeThrottle() *fakeThrottle {
	return &fakeThrottle{counts: make(map[string]int)}
}

func (t *fakeThrottle) Hit(ctx context.Context, username string, window time.Duration) (int, error) {
	if t.err != nil {
		return 0, t.err
	}
	t.counts[username]++
	return t.counts[username], nil
}

func (t *fakeThrottle) Reset(ctx context.Context, username string) error {
	delete(t.counts, username)
	return nil
}

func newTestUseCase(t *testing.T) (*UseCase, *fakeUserRepo, *fakeThrottle, *token.Service) {
	t.Helper()
	users := newFakeUserRepo()
	throttle := newFakeThrottle()
	tokens := token.New("test-secret", "taskhive-test", 30*time.Minute)
	uc := New(users, throttle, tokens, nil, ThrottlePolicy{MaxAttempts: 3, Window: time.Minute}, nil)
	return uc, users, throttle, tokens
}

func TestRegister(t *testing.T) {
	uc, _, _, _ := newTestUseCase(t)

	user, err := uc.Register(context.Background(), "alice", "pw123")
	require.NoError(t, err)
	assert.NotEmpty(t, user.ID)
	assert.Equal(t, "alice", user.Username)

	// The stored hash must verify against the original password and must not
	// contain it.
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("pw123")))
	assert.NotContains(t, user.PasswordHash, "pw123")
}

func TestRegisterDuplicateUsername(t *testing.T) {
	uc, _, _, _ := newTestUseCase(t)

	_, err := uc.Register(context.Background(), "alice", "pw123")
	require.NoError(t, err)

	_, err = uc.Register(context.Background(), "alice", "other")
	require.Error(t, err)
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeConflict))
}

func TestRegisterRejectsBlankInput(t *testing.T) {
	uc, _, _, _ := newTestUseCase(t)

	for _, tc := range []struct{ username, password string }{
		{"", "pw"},
		{"   ", "pw"},
		{"alice", ""},
	} {
		_, err := uc.Register(context.Background(), tc.username, tc.password)
		assert.True(t, domain.IsDomainError(err, domain.ErrCodeInvalid))
	}
}

func TestLoginIssuesValidToken(t *testing.T) {
	uc, _, _, tokens := newTestUseCase(t)

	registered, err := uc.Register(context.Background(), "alice", "pw123")
	require.NoError(t, err)

	signed, err := uc.Login(context.Background(), "alice", "pw123")
	require.NoError(t, err)

	claims, err := tokens.Validate(signed)
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.Subject)
	assert.Equal(t, registered.ID, claims.UserID)
}

func TestLoginWrongPassword(t *testing.T) {
	uc, _, _, _ := newTestUseCase(t)

	_, err := uc.Register(context.Background(), "alice", "pw123")
	require.NoError(t, err)

	_, err = uc.Login(context.Background(), "alice", "wrong")
	require.Error(t, err)
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeUnauthorized))
}

func TestLoginUnknownUserIndistinguishable(t *testing.T) {
	uc, _, _, _ := newTestUseCase(t)

	_, err := uc.Register(context.Background(), "alice", "pw123")
	require.NoError(t, err)

	_, wrongPassword := uc.Login(context.Background(), "alice", "wrong")
	_, unknownUser := uc.Login(context.Background(), "nobody", "wrong")
	assert.Equal(t, wrongPassword.Error(), unknownUser.Error())
}

func TestLoginThrottleBlocksAfterLimit(t *testing.T) {
	uc, _, _, _ := newTestUseCase(t)

	_, err := uc.Register(context.Background(), "alice", "pw123")
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		_, err := uc.Login(context.Background(), "alice", "wrong")
		assert.Equal(t, domain.ErrBadCredentials.Error(), err.Error())
	}

	_, err = uc.Login(context.Background(), "alice", "pw123")
	require.Error(t, err)
	assert.Equal(t, domain.ErrTooManyAttempts.Error(), err.Error())
}

func TestLoginThrottleResetOnSuccess(t *testing.T) {
	uc, _, throttle, _ := newTestUseCase(t)

	_, err := uc.Register(context.Background(), "alice", "pw123")
	require.NoError(t, err)

	_, _ = uc.Login(context.Background(), "alice", "wrong")
	_, err = uc.Login(context.Background(), "alice", "pw123")
	require.NoError(t, err)

	assert.Zero(t, throttle.counts["alice"])
}

func TestLoginFailsOpenWhenThrottleDown(t *testing.T) {
	uc, _, throttle, _ := newTestUseCase(t)
	throttle.err = assert.AnError

	_, err := uc.Register(context.Background(), "alice", "pw123")
	require.NoError(t, err)

	_, err = uc.Login(context.Background(), "alice", "pw123")
	require.NoError(t, err)
}

func TestCurrentUser(t *testing.T) {
	uc, _, _, _ := newTestUseCase(t)

	registered, err := uc.Register(context.Background(), "alice", "pw123")
	require.NoError(t, err)

	user, err := uc.CurrentUser(context.Background(), registered.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)

	_, err = uc.CurrentUser(context.Background(), "missing")
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeNotFound))
}
