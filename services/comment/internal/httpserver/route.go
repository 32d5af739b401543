package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

type Deps struct {
	CommentHandler *CommentHTTP
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	comments := e.Group("/api/comments")
	comments.GET("/post/:postId", d.CommentHandler.ListByPost)
	comments.POST("", d.CommentHandler.Create)
	comments.DELETE("/:id", d.CommentHandler.Delete)
}
