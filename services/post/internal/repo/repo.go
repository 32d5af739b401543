package repo

import (
	"context"

	"github.com/Skotchmaster/blog/pkg/ids"
	"github.com/Skotchmaster/blog/services/post/internal/models"
	"gorm.io/gorm"
)

type GormRepo struct {
	DB  *gorm.DB
	IDs *ids.Node
}

func (r *GormRepo) Migrate(ctx context.Context) error {
	return r.DB.WithContext(ctx).AutoMigrate(&models.Post{})
}
