package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Skotchmaster/blog/services/comment/internal/models"
)

var ErrCommentNotFound = errors.New("comment not found")

func (r *SQLRepo) ListByPost(ctx context.Context, postID uint64) ([]models.Comment, error) {
	items := []models.Comment{}
	q := r.DB.Rebind(`SELECT id, post_id, author, content, created_at
		FROM comments WHERE post_id = ? ORDER BY created_at ASC, id ASC`)
	if err := r.DB.SelectContext(ctx, &items, q, postID); err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	return items, nil
}

func (r *SQLRepo) GetComment(ctx context.Context, id uint64) (*models.Comment, error) {
	var c models.Comment
	q := r.DB.Rebind(`SELECT id, post_id, author, content, created_at FROM comments WHERE id = ?`)
	if err := r.DB.GetContext(ctx, &c, q, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCommentNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *SQLRepo) CreateComment(ctx context.Context, c *models.Comment) error {
	if c.ID == 0 {
		c.ID = r.IDs.Next()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}

	q := `INSERT INTO comments (id, post_id, author, content, created_at)
		VALUES (:id, :post_id, :author, :content, :created_at)`
	if _, err := r.DB.NamedExecContext(ctx, q, c); err != nil {
		return fmt.Errorf("create comment: %w", err)
	}
	return nil
}

func (r *SQLRepo) DeleteComment(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx, r.DB.Rebind(`DELETE FROM comments WHERE id = ?`), id)
	if err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrCommentNotFound
	}
	return nil
}
