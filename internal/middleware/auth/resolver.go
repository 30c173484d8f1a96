package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/blog_platform/internal/authz"
	"github.com/Skotchmaster/blog_platform/internal/credentials"
	"github.com/Skotchmaster/blog_platform/internal/logging"
	"github.com/Skotchmaster/blog_platform/internal/models"
	"github.com/Skotchmaster/blog_platform/internal/tokens"
)

var (
	ErrNoToken       = errors.New("no bearer token")
	ErrInvalidToken  = errors.New("invalid token")
	ErrStaleIdentity = errors.New("token subject no longer exists")
)

const identityKey = "identity"

type TokenVerifier interface {
	Verify(raw string) (*tokens.Subject, error)
}

type AccountFinder interface {
	Lookup(ctx context.Context, id string) (*models.Account, error)
}

// Resolver turns an Authorization header into an authz.Identity. It only
// reads from its collaborators.
type Resolver struct {
	Tokens   TokenVerifier
	Accounts AccountFinder
}

func NewResolver(t TokenVerifier, a AccountFinder) *Resolver {
	return &Resolver{Tokens: t, Accounts: a}
}

// bearerToken accepts exactly "Bearer <token>", scheme case-insensitive.
func bearerToken(header string) (string, bool) {
	fields := strings.Fields(header)
	if len(fields) != 2 || !strings.EqualFold(fields[0], "Bearer") {
		return "", false
	}
	return fields[1], true
}

// Resolve returns ErrNoToken, ErrInvalidToken (wrapping the token error)
// or ErrStaleIdentity. Any other error comes from storage.
func (r *Resolver) Resolve(ctx context.Context, header string) (*authz.Identity, error) {
	raw, ok := bearerToken(header)
	if !ok {
		return nil, ErrNoToken
	}

	sub, err := r.Tokens.Verify(raw)
	if err != nil {
		return nil, errors.Join(ErrInvalidToken, err)
	}

	acc, err := r.Accounts.Lookup(ctx, sub.AccountID)
	if err != nil {
		if errors.Is(err, credentials.ErrNotFound) {
			return nil, ErrStaleIdentity
		}
		return nil, err
	}

	return &authz.Identity{
		AccountID: acc.ID,
		Role:      sub.Role,
		Account:   acc.Public(),
	}, nil
}

func (r *Resolver) RequireLogin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		l := logging.FromContext(ctx).With("mw", "require_login")

		id, err := r.Resolve(ctx, c.Request().Header.Get(echo.HeaderAuthorization))
		if err != nil {
			switch {
			case errors.Is(err, ErrNoToken):
				l.Warn("auth_rejected", "status", 401, "reason", "no_token")
				return echo.NewHTTPError(http.StatusUnauthorized, "authentication required").WithInternal(ErrNoToken)
			case errors.Is(err, ErrInvalidToken):
				l.Warn("auth_rejected", "status", 401, "reason", tokenReason(err), "error", err)
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token").WithInternal(err)
			case errors.Is(err, ErrStaleIdentity):
				l.Warn("auth_rejected", "status", 401, "reason", "stale_identity")
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token").WithInternal(ErrStaleIdentity)
			default:
				l.Error("auth_error", "status", 500, "reason", "account lookup failed", "error", err)
				return echo.NewHTTPError(http.StatusInternalServerError, "internal server error").WithInternal(err)
			}
		}

		setIdentity(c, id)
		return next(c)
	}
}

// RequireAdmin must run after RequireLogin.
func (r *Resolver) RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		id := IdentityFrom(c)
		if id == nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "authentication required").WithInternal(ErrNoToken)
		}
		if !id.IsAdmin() {
			logging.FromContext(c.Request().Context()).Warn("auth_rejected", "status", 403, "reason", "admin access required", "account_id", id.AccountID)
			return echo.NewHTTPError(http.StatusForbidden, "admin access required").WithInternal(authz.ErrForbidden)
		}
		return next(c)
	}
}

func IdentityFrom(c echo.Context) *authz.Identity {
	id, _ := c.Get(identityKey).(*authz.Identity)
	return id
}

func setIdentity(c echo.Context, id *authz.Identity) {
	c.Set(identityKey, id)
	c.Set("user_id", id.AccountID)
	c.Set("role", id.Role)
}

func tokenReason(err error) string {
	switch {
	case errors.Is(err, tokens.ErrExpired):
		return "expired"
	case errors.Is(err, tokens.ErrInvalidSignature):
		return "bad_signature"
	default:
		return "malformed"
	}
}
