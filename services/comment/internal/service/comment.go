package service

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/Skotchmaster/blog/pkg/events"
	"github.com/Skotchmaster/blog/pkg/logging"
	"github.com/Skotchmaster/blog/services/comment/internal/models"
	"github.com/Skotchmaster/blog/services/comment/internal/repo"
	"github.com/Skotchmaster/blog/services/comment/internal/transport"
)

var (
	ErrValidation = errors.New("validation")
	ErrNotFound   = repo.ErrCommentNotFound
)

type CommentStore interface {
	ListByPost(ctx context.Context, postID uint64) ([]models.Comment, error)
	CreateComment(ctx context.Context, c *models.Comment) error
	DeleteComment(ctx context.Context, id uint64) error
}

type CommentService struct {
	Repo   CommentStore
	Events events.Publisher
}

func (s *CommentService) ListByPost(ctx context.Context, postID uint64) ([]models.Comment, error) {
	return s.Repo.ListByPost(ctx, postID)
}

// Create stores a comment. author is used when the request names none.
func (s *CommentService) Create(ctx context.Context, req transport.CreateCommentRequest, author string) (*models.Comment, error) {
	content := strings.TrimSpace(req.Content)
	if req.PostID == 0 || content == "" {
		return nil, ErrValidation
	}
	if a := strings.TrimSpace(req.Author); a != "" {
		author = a
	}
	if author == "" {
		return nil, ErrValidation
	}

	c := &models.Comment{PostID: req.PostID, Author: author, Content: content}
	if err := s.Repo.CreateComment(ctx, c); err != nil {
		return nil, err
	}

	l := logging.FromContext(ctx).With("svc", "comment.create")
	events.Emit(ctx, s.Events, l, events.TopicComments, strconv.FormatUint(c.PostID, 10), events.Event{
		"type":    "comment_created",
		"id":      c.ID,
		"post_id": c.PostID,
		"author":  c.Author,
	})
	return c, nil
}

func (s *CommentService) Delete(ctx context.Context, id uint64) error {
	if err := s.Repo.DeleteComment(ctx, id); err != nil {
		return err
	}

	l := logging.FromContext(ctx).With("svc", "comment.delete")
	events.Emit(ctx, s.Events, l, events.TopicComments, strconv.FormatUint(id, 10), events.Event{
		"type": "comment_deleted",
		"id":   id,
	})
	return nil
}
