package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	authmw "github.com/Skotchmaster/blog/pkg/middleware/auth"
	"github.com/Skotchmaster/blog/services/user/internal/models"
)

type Deps struct {
	AuthHandler *AuthHTTP
	UserHandler *UserHTTP
	Bearer      echo.MiddlewareFunc
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	auth := e.Group("/api/v1/auth")
	auth.POST("/register", d.AuthHandler.Register)
	auth.POST("/authenticate", d.AuthHandler.Authenticate)
	auth.POST("/refresh-token", d.AuthHandler.RefreshToken)
	auth.GET("/token-status", d.AuthHandler.TokenStatus, d.Bearer)

	users := e.Group("/api/v1/users")
	users.Use(d.Bearer)
	users.GET("", d.UserHandler.List, authmw.RequireRole(string(models.RoleAdmin)))
	users.GET("/profile", d.UserHandler.Profile)
}
