package repository

import (
	"context"

	"blog-api/internal/domain/entity"
)

// CategoryRepository defines category persistence. Delete must null the
// category reference on posts rather than removing them.
type CategoryRepository interface {
	Create(ctx context.Context, c *entity.Category) error
	GetByID(ctx context.Context, id string) (*entity.Category, error)
	List(ctx context.Context) ([]*entity.Category, error)
	Update(ctx context.Context, c *entity.Category) error
	Delete(ctx context.Context, id string) error
	SlugExists(ctx context.Context, slug string) (bool, error)
	// PublishedPostCounts returns the number of published posts per
	// category id for the given ids.
	PublishedPostCounts(ctx context.Context, ids []string) (map[string]int64, error)
}
