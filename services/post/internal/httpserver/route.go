package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

type Deps struct {
	PostHandler *PostHTTP
}

// Register mounts the post routes. Authentication happens at the gateway.
func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	posts := e.Group("/api/posts")
	posts.GET("", d.PostHandler.List)
	posts.GET("/search", d.PostHandler.Search)
	posts.GET("/:id", d.PostHandler.Get)
	posts.POST("", d.PostHandler.Create)
	posts.DELETE("/:id", d.PostHandler.Delete)
}
