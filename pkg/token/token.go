package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/taskhive/backend/domain"
)

// Claims is the payload embedded in every access token. Subject carries the
// username; UserID lets the authorizer resolve identity without a DB read.
type Claims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}

// Service issues and validates HS256-signed bearer tokens. The secret and
// lifetime are injected at construction; there is no ambient signing state.
type Service struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

// New builds a token service. TTL defaults to 30 minutes when unset.
func New(secret, issuer string, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &Service{
		secret: []byte(secret),
		issuer: issuer,
		ttl:    ttl,
		now:    time.Now,
	}
}

// TTL returns the configured token lifetime.
func (s *Service) TTL() time.Duration {
	return s.ttl
}

// Issue signs a token for the given user. Expiry is always issued-at plus
// the configured TTL.
func (s *Service) Issue(user *domain.User) (string, time.Time, error) {
	if user == nil {
		return "", time.Time{}, domain.ErrInvalidPayload
	}

	issuedAt := s.now()
	expiresAt := issuedAt.Add(s.ttl)

	claims := Claims{
		UserID: user.ID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.Username,
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, domain.WrapError(domain.ErrCodeInternal, "failed to sign token", err)
	}
	return signed, expiresAt, nil
}

// Validate parses the raw token and returns its claims. Any defect — bad
// signature, wrong signing method, malformed payload, or elapsed expiry —
// yields an unauthorized error.
func (s *Service) Validate(raw string) (*Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		return nil, domain.WrapError(domain.ErrCodeUnauthorized, "invalid token", err)
	}
	if !parsed.Valid || claims.Subject == "" {
		return nil, domain.ErrUnauthorized
	}
	return claims, nil
}
