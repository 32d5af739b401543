package authmw

import (
	"context"
	"errors"
	"net/http"
	"slices"
	"time"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/blog/pkg/logging"
	"github.com/Skotchmaster/blog/pkg/tokens"
)

const ctxClaims = "auth_claims"

// Identity headers set by the gateway on proxied requests.
const (
	HeaderUserEmail = "X-User-Email"
	HeaderUserRole  = "X-User-Role"
)

var errRevoked = errors.New("token revoked or unknown")

// TokenChecker is the read side of the token ledger.
type TokenChecker interface {
	IsValid(ctx context.Context, token string) (bool, error)
}

type Config struct {
	Codec *tokens.Codec
	// Ledger is optional; without it revocation is not observed.
	Ledger TokenChecker
	Now    func() time.Time
}

// RequireBearer accepts only a signed, unexpired access token that the ledger still considers valid.
// Every failure is the same 401.
func RequireBearer(cfg Config) echo.MiddlewareFunc {
	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	return echojwt.WithConfig(echojwt.Config{
		TokenLookup: "header:" + echo.HeaderAuthorization + ":Bearer ",
		ContextKey:  ctxClaims,
		ParseTokenFunc: func(c echo.Context, auth string) (any, error) {
			claims, err := cfg.Codec.Validate(auth, tokens.KindAccess, now())
			if err != nil {
				return nil, err
			}
			if cfg.Ledger == nil {
				return claims, nil
			}
			ok, err := cfg.Ledger.IsValid(c.Request().Context(), auth)
			if err != nil {
				logging.FromContext(c.Request().Context()).Error("ledger_check_failed", "email", claims.Subject, "error", err)
				return nil, err
			}
			if !ok {
				return nil, errRevoked
			}
			return claims, nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			logging.FromContext(c.Request().Context()).Warn("auth_rejected", "status", http.StatusUnauthorized, "reason", err.Error())
			return echo.NewHTTPError(http.StatusUnauthorized, "unauthenticated")
		},
	})
}

func IdentityFrom(c echo.Context) (*tokens.Claims, bool) {
	claims, ok := c.Get(ctxClaims).(*tokens.Claims)
	return claims, ok && claims != nil
}

func RequireRole(required ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, ok := IdentityFrom(c)
			if !ok || claims.Role == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "unauthenticated")
			}
			if !slices.Contains(required, claims.Role) {
				return echo.NewHTTPError(http.StatusForbidden, "you don't have enough rights to see this page")
			}
			return next(c)
		}
	}
}
