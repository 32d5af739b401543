package repo

import (
	"context"
	"fmt"

	"github.com/Skotchmaster/blog/services/post/internal/models"
	"gorm.io/gorm"
)

func (r *GormRepo) GetPost(ctx context.Context, id uint64) (*models.Post, error) {
	var post models.Post
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&post).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

// ListPosts returns the newest posts first.
func (r *GormRepo) ListPosts(ctx context.Context, offset, limit int) (int64, []models.Post, error) {
	var total int64
	if err := r.DB.WithContext(ctx).Model(&models.Post{}).Count(&total).Error; err != nil {
		return 0, nil, err
	}

	items := make([]models.Post, 0, limit)
	if err := r.DB.WithContext(ctx).
		Model(&models.Post{}).
		Order("created_at DESC").
		Order("id DESC").
		Offset(offset).
		Limit(limit).
		Find(&items).Error; err != nil {
		return 0, nil, err
	}

	return total, items, nil
}

func (r *GormRepo) CreatePost(ctx context.Context, post *models.Post) error {
	if post.ID == 0 {
		post.ID = r.IDs.Next()
	}
	if err := r.DB.WithContext(ctx).Create(post).Error; err != nil {
		return fmt.Errorf("create post: %w", err)
	}
	return nil
}

func (r *GormRepo) DeletePost(ctx context.Context, id uint64) error {
	res := r.DB.WithContext(ctx).Delete(&models.Post{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
