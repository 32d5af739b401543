package httpserver

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/blog/gateway/internal/config"
	"github.com/Skotchmaster/blog/gateway/internal/middleware"
	authmw "github.com/Skotchmaster/blog/pkg/middleware/auth"
)

type Deps struct {
	Routes []config.Route
	// Bearer guards every protected route.
	Bearer echo.MiddlewareFunc

	AuthRateLimit float64
	AuthRateBurst int

	Logger    *slog.Logger
	Transport http.RoundTripper
	Ready     func() error
}

func Register(e *echo.Echo, d *Deps) error {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error {
		if d.Ready != nil {
			if err := d.Ready(); err != nil {
				return c.NoContent(http.StatusServiceUnavailable)
			}
		}
		return c.NoContent(http.StatusOK)
	})

	for _, m := range middleware.Common(d.Logger) {
		e.Use(m)
	}

	transport := d.Transport
	if transport == nil {
		transport = newTransport()
	}

	for _, r := range d.Routes {
		proxy, err := newProxy(r.Name, r.Upstream, r.Strip, transport)
		if err != nil {
			return err
		}

		var mws []echo.MiddlewareFunc
		if r.RateLimited && d.AuthRateLimit > 0 {
			mws = append(mws, middleware.RateLimit(d.AuthRateLimit, d.AuthRateBurst))
		}
		if r.Protected {
			mws = append(mws, d.Bearer)
			if len(r.Roles) > 0 {
				mws = append(mws, authmw.RequireRole(r.Roles...))
			}
			mws = append(mws, middleware.ForwardIdentity())
		}

		e.Any(r.Prefix, proxy, mws...)
		e.Any(r.Prefix+"/*", proxy, mws...)
	}

	return nil
}
