package middleware

import (
	"errors"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"osfr/internal/auth"
	apperrors "osfr/internal/errors"
	"osfr/internal/model"
	"osfr/internal/service"
)

const (
	identityKey = "identity"
	accountKey  = "admin"

	msgMissingToken = "missing or malformed token"
)

// AdminIdentity returns the middleware chain guarding admin routes: bearer token
// extraction and verification, then resolution of the account it names.
func AdminIdentity(authService service.AuthService, l *zap.Logger) []echo.MiddlewareFunc {
	verify := echojwt.WithConfig(echojwt.Config{
		ContextKey:  identityKey,
		TokenLookup: "header:" + echo.HeaderAuthorization + ":Bearer ",
		ParseTokenFunc: func(c echo.Context, token string) (interface{}, error) {
			return authService.VerifyToken(c.Request().Context(), token)
		},
		ErrorHandler: func(c echo.Context, err error) error {
			switch {
			case errors.Is(err, auth.ErrSecretNotConfigured):
				return apperrors.Configuration("server is not configured", err)
			case errors.Is(err, service.ErrTokenRevoked):
				return apperrors.Unauthenticated(service.ErrTokenRevoked.Error())
			case errors.Is(err, auth.ErrInvalidToken):
				return apperrors.Unauthenticated(auth.ErrInvalidToken.Error())
			case isTokenCheckFailure(err):
				l.Error("token verification failed", zap.Error(err))
				return err
			default:
				return apperrors.Unauthenticated(msgMissingToken)
			}
		},
	})

	resolve := func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			identity := IdentityFrom(c)
			if identity == nil {
				return apperrors.Unauthenticated(msgMissingToken)
			}

			account, err := authService.ResolveAccount(c.Request().Context(), identity.AccountID)
			if err != nil {
				if errors.Is(err, service.ErrAccountNotFound) {
					return apperrors.Unauthenticated(err.Error())
				}
				return err
			}

			c.Set(accountKey, account)
			return next(c)
		}
	}

	return []echo.MiddlewareFunc{verify, resolve}
}

// isTokenCheckFailure reports errors raised after a token was extracted that are
// neither a verdict on the token nor an extraction problem, e.g. a redis outage.
func isTokenCheckFailure(err error) bool {
	var extraction *echojwt.TokenExtractionError
	if errors.As(err, &extraction) {
		return false
	}
	var parsing *echojwt.TokenParsingError
	return errors.As(err, &parsing)
}

// IdentityFrom returns the verified token identity attached to the request.
func IdentityFrom(c echo.Context) *auth.Identity {
	identity, _ := c.Get(identityKey).(*auth.Identity)
	return identity
}

// AccountFrom returns the administrator attached to the request.
func AccountFrom(c echo.Context) *model.Account {
	account, _ := c.Get(accountKey).(*model.Account)
	return account
}
