package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	// ErrSecretNotConfigured is returned when no signing secret was provisioned.
	ErrSecretNotConfigured = errors.New("token signing secret is not configured")
	// ErrInvalidToken is returned for malformed, forged or expired tokens.
	ErrInvalidToken = errors.New("invalid or expired token")
)

// Claims represents JWT claims. The subject carries the account ID.
type Claims struct {
	jwt.RegisteredClaims
}

// Identity is what a verified token tells about its bearer.
type Identity struct {
	AccountID uint
	TokenID   string
	ExpiresAt *time.Time
}

// JWTService handles JWT token generation and validation.
type JWTService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewJWTService creates a new JWT service with the given secret.
// A zero ttl issues tokens without expiry. An empty secret is accepted here so the
// process can start; Issue and Verify then fail with ErrSecretNotConfigured.
func NewJWTService(secret string, ttl time.Duration) *JWTService {
	return &JWTService{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

// Configured reports whether a signing secret is available.
func (s *JWTService) Configured() bool {
	return len(s.secret) > 0
}

// Issue generates a signed token for the account.
func (s *JWTService) Issue(accountID uint) (string, error) {
	if !s.Configured() {
		return "", ErrSecretNotConfigured
	}

	now := s.now()
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:       uuid.New().String(),
			Subject:  strconv.FormatUint(uint64(accountID), 10),
			IssuedAt: jwt.NewNumericDate(now),
		},
	}
	if s.ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(s.ttl))
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify validates a token and returns the identity it encodes.
func (s *JWTService) Verify(tokenString string) (*Identity, error) {
	if !s.Configured() {
		return nil, ErrSecretNotConfigured
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}

	accountID, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil || accountID == 0 {
		return nil, fmt.Errorf("%w: bad subject %q", ErrInvalidToken, claims.Subject)
	}

	identity := &Identity{
		AccountID: uint(accountID),
		TokenID:   claims.ID,
	}
	if claims.ExpiresAt != nil {
		exp := claims.ExpiresAt.Time
		identity.ExpiresAt = &exp
	}
	return identity, nil
}
