package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"osfr/internal/auth"
	"osfr/internal/model"
	"osfr/internal/repository"
)

var (
	// ErrInvalidCredentials is returned when username or password is incorrect.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrTokenRevoked is returned when a token was invalidated by logout.
	ErrTokenRevoked = errors.New("token has been revoked")
	// ErrAccountNotFound is returned when a valid token names a missing account.
	ErrAccountNotFound = errors.New("account no longer exists")
)

// AuthService handles authentication operations.
type AuthService interface {
	Login(ctx context.Context, username, password string) (token string, account *model.Account, err error)
	Logout(ctx context.Context, identity *auth.Identity) error
	VerifyToken(ctx context.Context, token string) (*auth.Identity, error)
	ResolveAccount(ctx context.Context, id uint) (*model.Account, error)
}

type authService struct {
	accountRepo repository.AccountRepository
	jwtService  *auth.JWTService
	hasher      *auth.PasswordHasher
	tokenStore  auth.TokenStoreInterface
	now         func() time.Time
}

// NewAuthService creates a new authentication service.
func NewAuthService(
	accountRepo repository.AccountRepository,
	jwtService *auth.JWTService,
	hasher *auth.PasswordHasher,
	tokenStore auth.TokenStoreInterface,
) AuthService {
	return &authService{
		accountRepo: accountRepo,
		jwtService:  jwtService,
		hasher:      hasher,
		tokenStore:  tokenStore,
		now:         time.Now,
	}
}

// Login checks the credentials and issues a token for the account.
func (s *authService) Login(ctx context.Context, username, password string) (string, *model.Account, error) {
	account, err := s.accountRepo.FindByUsernameCaseInsensitive(ctx, username)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil, fmt.Errorf("find account: %w", err)
		}
		// Unknown user: spend the same work as a real comparison.
		s.hasher.Equalize(password)
		return "", nil, ErrInvalidCredentials
	}

	match, err := s.hasher.Verify(password, account.Password)
	if err != nil && !errors.Is(err, auth.ErrUnknownHashFormat) {
		return "", nil, fmt.Errorf("verify password: %w", err)
	}
	if !match {
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.jwtService.Issue(account.ID)
	if err != nil {
		return "", nil, fmt.Errorf("issue token: %w", err)
	}
	return token, account, nil
}

// Logout revokes the token until it would have expired.
func (s *authService) Logout(ctx context.Context, identity *auth.Identity) error {
	if identity == nil || identity.TokenID == "" {
		return nil
	}
	var ttl time.Duration
	if identity.ExpiresAt != nil {
		ttl = identity.ExpiresAt.Sub(s.now())
		if ttl <= 0 {
			return nil
		}
	}
	if err := s.tokenStore.Revoke(ctx, identity.TokenID, ttl); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}

// VerifyToken validates the signature and expiry and checks the revocation list.
func (s *authService) VerifyToken(ctx context.Context, token string) (*auth.Identity, error) {
	identity, err := s.jwtService.Verify(token)
	if err != nil {
		return nil, err
	}
	revoked, err := s.tokenStore.IsRevoked(ctx, identity.TokenID)
	if err != nil {
		return nil, fmt.Errorf("check revocation: %w", err)
	}
	if revoked {
		return nil, ErrTokenRevoked
	}
	return identity, nil
}

// ResolveAccount loads the account a verified token refers to.
func (s *authService) ResolveAccount(ctx context.Context, id uint) (*model.Account, error) {
	account, err := s.accountRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("find account: %w", err)
	}
	return account, nil
}
