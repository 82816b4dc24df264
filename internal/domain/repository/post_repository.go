package repository

import (
	"context"

	"blog-api/internal/domain/entity"
)

// PostFilter narrows public post listings. Search matches title,
// content, and author username. Ordering accepts "-created_at"
// (default) or "views_count".
type PostFilter struct {
	Status     string
	CategoryID string
	AuthorID   string
	Search     string
	Ordering   string
	Limit      int
	Offset     int
}

// PostRepository defines post persistence. IncrementViews must be
// atomic at the storage layer so concurrent viewers never lose counts.
type PostRepository interface {
	Create(ctx context.Context, p *entity.Post) error
	GetByID(ctx context.Context, id string) (*entity.Post, error)
	GetBySlug(ctx context.Context, slug string) (*entity.Post, error)
	List(ctx context.Context, f PostFilter) ([]*entity.Post, int64, error)
	Update(ctx context.Context, p *entity.Post) error
	Delete(ctx context.Context, id string) error
	SlugExists(ctx context.Context, slug string) (bool, error)
	// IncrementViews bumps the view counter by one and returns the new value.
	IncrementViews(ctx context.Context, id string) (int64, error)
}
