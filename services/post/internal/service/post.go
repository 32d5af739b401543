package service

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/Skotchmaster/blog/pkg/events"
	"github.com/Skotchmaster/blog/pkg/logging"
	"github.com/Skotchmaster/blog/pkg/slug"
	"github.com/Skotchmaster/blog/services/post/internal/models"
	"github.com/Skotchmaster/blog/services/post/internal/transport"
)

var (
	ErrValidation     = errors.New("validation error")
	ErrSearchDisabled = errors.New("search is not configured")
)

type PostStore interface {
	GetPost(ctx context.Context, id uint64) (*models.Post, error)
	ListPosts(ctx context.Context, offset, limit int) (int64, []models.Post, error)
	CreatePost(ctx context.Context, post *models.Post) error
	DeletePost(ctx context.Context, id uint64) error
}

// Searcher is the full-text index. It is optional.
type Searcher interface {
	IndexPost(ctx context.Context, post *models.Post) error
	DeletePost(ctx context.Context, id uint64) error
	Search(ctx context.Context, query string, from, size int) (int64, []models.Post, error)
}

type PostService struct {
	Repo   PostStore
	Search Searcher
	Events events.Publisher
}

func (s *PostService) List(ctx context.Context, offset, limit int) (int64, []models.Post, error) {
	return s.Repo.ListPosts(ctx, offset, limit)
}

func (s *PostService) Get(ctx context.Context, id uint64) (*models.Post, error) {
	return s.Repo.GetPost(ctx, id)
}

// Create stores a post. author is used when the request names none.
func (s *PostService) Create(ctx context.Context, req transport.CreatePostRequest, author string) (*models.Post, error) {
	title := strings.TrimSpace(req.Title)
	content := strings.TrimSpace(req.Content)
	if title == "" || content == "" {
		return nil, ErrValidation
	}
	if a := strings.TrimSpace(req.Author); a != "" {
		author = a
	}
	if author == "" {
		return nil, ErrValidation
	}

	post := &models.Post{
		Title:   title,
		Slug:    slug.Make(title),
		Content: content,
		Author:  author,
	}
	if err := s.Repo.CreatePost(ctx, post); err != nil {
		return nil, err
	}

	l := logging.FromContext(ctx).With("svc", "post.create")
	if s.Search != nil {
		if err := s.Search.IndexPost(ctx, post); err != nil {
			l.Warn("index_post_failed", "post_id", post.ID, "error", err)
		}
	}

	events.Emit(ctx, s.Events, l, events.TopicPosts, strconv.FormatUint(post.ID, 10), events.Event{
		"type":   "post_created",
		"id":     post.ID,
		"slug":   post.Slug,
		"author": post.Author,
	})
	return post, nil
}

func (s *PostService) Delete(ctx context.Context, id uint64) error {
	if err := s.Repo.DeletePost(ctx, id); err != nil {
		return err
	}

	l := logging.FromContext(ctx).With("svc", "post.delete")
	if s.Search != nil {
		if err := s.Search.DeletePost(ctx, id); err != nil {
			l.Warn("unindex_post_failed", "post_id", id, "error", err)
		}
	}

	events.Emit(ctx, s.Events, l, events.TopicPosts, strconv.FormatUint(id, 10), events.Event{
		"type": "post_deleted",
		"id":   id,
	})
	return nil
}

func (s *PostService) SearchPosts(ctx context.Context, query string, offset, limit int) (int64, []models.Post, error) {
	if s.Search == nil {
		return 0, nil, ErrSearchDisabled
	}
	if strings.TrimSpace(query) == "" {
		return 0, nil, ErrValidation
	}
	return s.Search.Search(ctx, query, offset, limit)
}
