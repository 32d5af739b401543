package middleware

import (
	"log/slog"
	"time"

	"github.com/labstack/echo/v4"
	ecM "github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"

	"github.com/Skotchmaster/blog/pkg/ids"
	loggingmw "github.com/Skotchmaster/blog/pkg/middleware/logging"
)

func Common(logger *slog.Logger) []echo.MiddlewareFunc {
	return []echo.MiddlewareFunc{
		ecM.Recover(),
		ecM.RequestIDWithConfig(ecM.RequestIDConfig{
			Generator: ids.NewRequestID,
			// upstreams read the id from the proxied request
			RequestIDHandler: func(c echo.Context, id string) {
				c.Request().Header.Set(echo.HeaderXRequestID, id)
			},
		}),
		StripIdentity(),
		loggingmw.RequestLogger(logger),
		ecM.Secure(),
	}
}

// RateLimit allows perSecond requests per client IP with the given burst.
func RateLimit(perSecond float64, burst int) echo.MiddlewareFunc {
	return ecM.RateLimiterWithConfig(ecM.RateLimiterConfig{
		Store: ecM.NewRateLimiterMemoryStoreWithConfig(ecM.RateLimiterMemoryStoreConfig{
			Rate:      rate.Limit(perSecond),
			Burst:     burst,
			ExpiresIn: 3 * time.Minute,
		}),
	})
}
