package token

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskhive/backend/domain"
)

func testUser() *domain.User {
	return &domain.User{
		ID:       "2b1f6f90-7b64-4e6e-9f3a-0b2d6c3a1c55",
		Username: "alice",
	}
}

func TestIssueAndValidate(t *testing.T) {
	svc := New("test-secret", "taskhive-test", 30*time.Minute)

	signed, expiresAt, err := svc.Issue(testUser())
	require.NoError(t, err)
	require.NotEmpty(t, signed)
	assert.WithinDuration(t, time.Now().Add(30*time.Minute), expiresAt, 5*time.Second)

	claims, err := svc.Validate(signed)
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.Subject)
	assert.Equal(t, testUser().ID, claims.UserID)
	assert.Equal(t, "taskhive-test", claims.Issuer)
}

func TestValidateExpiredToken(t *testing.T) {
	svc := New("test-secret", "taskhive-test", 30*time.Minute)

	issuedAt := time.Now()
	svc.now = func() time.Time { return issuedAt }

	signed, _, err := svc.Issue(testUser())
	require.NoError(t, err)

	// Still valid one minute before expiry.
	svc.now = func() time.Time { return issuedAt.Add(29 * time.Minute) }
	_, err = svc.Validate(signed)
	require.NoError(t, err)

	// Rejected once the TTL has elapsed.
	svc.now = func() time.Time { return issuedAt.Add(31 * time.Minute) }
	_, err = svc.Validate(signed)
	require.Error(t, err)
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeUnauthorized))
}

func TestValidateWrongSecret(t *testing.T) {
	issuer := New("secret-a", "taskhive-test", time.Hour)
	verifier := New("secret-b", "taskhive-test", time.Hour)

	signed, _, err := issuer.Issue(testUser())
	require.NoError(t, err)

	_, err = verifier.Validate(signed)
	require.Error(t, err)
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeUnauthorized))
}

func TestValidateMalformedToken(t *testing.T) {
	svc := New("test-secret", "taskhive-test", time.Hour)

	for _, raw := range []string{"", "garbage", "a.b.c"} {
		_, err := svc.Validate(raw)
		assert.True(t, domain.IsDomainError(err, domain.ErrCodeUnauthorized), "token %q", raw)
	}
}

func TestIssueNilUser(t *testing.T) {
	svc := New("test-secret", "taskhive-test", time.Hour)
	_, _, err := svc.Issue(nil)
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeInvalid))
}

func TestDefaultTTL(t *testing.T) {
	svc := New("test-secret", "taskhive-test", 0)
	assert.Equal(t, 30*time.Minute, svc.TTL())
}
