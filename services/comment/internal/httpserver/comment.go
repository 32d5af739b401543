package httpserver

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/blog/pkg/logging"
	authmw "github.com/Skotchmaster/blog/pkg/middleware/auth"
	"github.com/Skotchmaster/blog/services/comment/internal/service"
	"github.com/Skotchmaster/blog/services/comment/internal/transport"
)

type CommentHTTP struct {
	Svc *service.CommentService
}

func (h *CommentHTTP) ListByPost(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "comment.list")

	postID, err := strconv.ParseUint(c.Param("postId"), 10, 64)
	if err != nil {
		l.Warn("list_comments_failed", "status", 400, "reason", "post id is not a number", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "post id is not a number")
	}

	items, err := h.Svc.ListByPost(ctx, postID)
	if err != nil {
		l.Error("list_comments_failed", "status", 500, "reason", "cannot load comments", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot load comments")
	}
	return c.JSON(http.StatusOK, items)
}

func (h *CommentHTTP) Create(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "comment.create")

	var req transport.CreateCommentRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("create_comment_failed", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	comment, err := h.Svc.Create(ctx, req, c.Request().Header.Get(authmw.HeaderUserEmail))
	if err != nil {
		if errors.Is(err, service.ErrValidation) {
			l.Warn("create_comment_failed", "status", 400, "reason", "postId, content and author are required")
			return echo.NewHTTPError(http.StatusBadRequest, "postId, content and author are required")
		}
		l.Error("create_comment_failed", "status", 500, "reason", "cannot save comment", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot save comment")
	}

	l.Info("create_comment_success", "comment_id", comment.ID)
	return c.String(http.StatusOK, "Comment created successfully")
}

func (h *CommentHTTP) Delete(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "comment.delete")

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		l.Warn("delete_comment_failed", "status", 400, "reason", "id is not a number", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "id is not a number")
	}

	if err := h.Svc.Delete(ctx, id); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			l.Warn("delete_comment_failed", "status", 404, "reason", "comment not found")
			return echo.NewHTTPError(http.StatusNotFound, "comment not found")
		}
		l.Error("delete_comment_failed", "status", 500, "reason", "cannot delete comment", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot delete comment")
	}

	l.Info("delete_comment_success", "comment_id", id)
	return c.String(http.StatusOK, "Comment deleted successfully")
}
