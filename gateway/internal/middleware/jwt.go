package middleware

import (
	"github.com/labstack/echo/v4"

	authmw "github.com/Skotchmaster/blog/pkg/middleware/auth"
)

// StripIdentity drops identity headers sent by clients; only ForwardIdentity may set them.
func StripIdentity() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			h := c.Request().Header
			h.Del(authmw.HeaderUserEmail)
			h.Del(authmw.HeaderUserRole)
			return next(c)
		}
	}
}

// ForwardIdentity copies the verified bearer identity onto the upstream request.
func ForwardIdentity() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if claims, ok := authmw.IdentityFrom(c); ok {
				c.Request().Header.Set(authmw.HeaderUserEmail, claims.Subject)
				if claims.Role != "" {
					c.Request().Header.Set(authmw.HeaderUserRole, claims.Role)
				}
			}
			return next(c)
		}
	}
}
