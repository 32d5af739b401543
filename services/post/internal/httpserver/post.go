package httpserver

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/Skotchmaster/blog/pkg/logging"
	authmw "github.com/Skotchmaster/blog/pkg/middleware/auth"
	"github.com/Skotchmaster/blog/services/post/internal/models"
	"github.com/Skotchmaster/blog/services/post/internal/service"
	"github.com/Skotchmaster/blog/services/post/internal/transport"
	"github.com/Skotchmaster/blog/services/post/internal/util"
)

type PostHTTP struct {
	Svc *service.PostService
}

func pageBody(items []models.Post, page, offset, limit int, total int64) map[string]any {
	return map[string]any{
		"data": items,
		"meta": map[string]any{
			"page":        page,
			"size":        limit,
			"total":       total,
			"total_pages": (total + int64(limit) - 1) / int64(limit),
			"has_prev":    page > 1,
			"has_next":    int64(offset+limit) < total,
		},
	}
}

func (h *PostHTTP) List(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "post.list")

	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	size := util.ParseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, size)

	total, items, err := h.Svc.List(ctx, offset, limit)
	if err != nil {
		l.Error("list_posts_failed", "status", 500, "reason", "cannot load posts", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot load posts")
	}

	return c.JSON(http.StatusOK, pageBody(items, page, offset, limit, total))
}

func (h *PostHTTP) Get(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "post.get")

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		l.Warn("get_post_failed", "status", 400, "reason", "id is not a number", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "id is not a number")
	}

	post, err := h.Svc.Get(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "post not found")
		}
		l.Error("get_post_failed", "status", 500, "reason", "cannot load post", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot load post")
	}
	return c.JSON(http.StatusOK, post)
}

func (h *PostHTTP) Create(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "post.create")

	var req transport.CreatePostRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("create_post_failed", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	post, err := h.Svc.Create(ctx, req, c.Request().Header.Get(authmw.HeaderUserEmail))
	if err != nil {
		if errors.Is(err, service.ErrValidation) {
			l.Warn("create_post_failed", "status", 400, "reason", "title, content and author are required")
			return echo.NewHTTPError(http.StatusBadRequest, "title, content and author are required")
		}
		l.Error("create_post_failed", "status", 500, "reason", "cannot save post", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot save post")
	}

	l.Info("create_post_success", "post_id", post.ID)
	return c.String(http.StatusOK, "Post created successfully")
}

func (h *PostHTTP) Delete(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "post.delete")

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		l.Warn("delete_post_failed", "status", 400, "reason", "id is not a number", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "id is not a number")
	}

	if err := h.Svc.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			l.Warn("delete_post_failed", "status", 404, "reason", "post not found", "error", err)
			return echo.NewHTTPError(http.StatusNotFound, "post not found")
		}
		l.Error("delete_post_failed", "status", 500, "reason", "cannot delete post", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot delete post")
	}

	l.Info("delete_post_success", "post_id", id)
	return c.String(http.StatusOK, "Post deleted successfully")
}

func (h *PostHTTP) Search(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "post.search")

	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	size := util.ParseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, size)

	total, items, err := h.Svc.SearchPosts(ctx, c.QueryParam("q"), offset, limit)
	switch {
	case err == nil:
		return c.JSON(http.StatusOK, pageBody(items, page, offset, limit, total))
	case errors.Is(err, service.ErrSearchDisabled):
		return echo.NewHTTPError(http.StatusServiceUnavailable, "search is not available")
	case errors.Is(err, service.ErrValidation):
		return echo.NewHTTPError(http.StatusBadRequest, "query parameter q is required")
	default:
		l.Error("search_posts_failed", "status", 500, "reason", "search failed", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "search failed")
	}
}
