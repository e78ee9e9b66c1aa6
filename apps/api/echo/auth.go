package echoapi

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iclaudiaadeline/Inzozi-Rwanda/core/auth"
)

const contextIdentityKey = "identity"

type TokenVerifier interface {
	Verify(token string) (auth.Identity, error)
}

// authMiddleware verifies the bearer token and stores the Identity it carries on the context.
func authMiddleware(tokens TokenVerifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			token, err := bearerToken(ctx.Request().Header.Get(echo.HeaderAuthorization))
			if err != nil {
				return err
			}
			id, err := tokens.Verify(token)
			if err != nil {
				return err
			}
			ctx.Set(contextIdentityKey, &id)
			return next(ctx)
		}
	}
}

func bearerToken(header string) (string, error) {
	if header == "" {
		return "", auth.ErrMissingToken
	}
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", auth.ErrInvalidToken
	}
	if token = strings.TrimSpace(token); token == "" {
		return "", auth.ErrMissingToken
	}
	return token, nil
}

// requireRoles lets the request through only if the context identity has one of the roles.
func requireRoles(roles ...string) echo.MiddlewareFunc {
	gate := auth.Authorize(roles...)
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			if err := gate.Check(contextIdentity(ctx)); err != nil {
				return err
			}
			return next(ctx)
		}
	}
}

func contextIdentity(ctx echo.Context) *auth.Identity {
	id, _ := ctx.Get(contextIdentityKey).(*auth.Identity)
	return id
}

func mustIdentity(ctx echo.Context) (auth.Identity, error) {
	id := contextIdentity(ctx)
	if id == nil {
		return auth.Identity{}, auth.ErrUnauthenticated
	}
	return *id, nil
}
