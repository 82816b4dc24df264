package repository

import (
	"context"

	"blog-api/internal/domain/entity"
)

// UserRepository defines the interface for user and profile persistence.
// Create must insert the user and its empty profile atomically.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User, p *entity.Profile) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	GetByUsername(ctx context.Context, username string) (*entity.User, error)
	Update(ctx context.Context, u *entity.User) error
	GetProfile(ctx context.Context, userID string) (*entity.Profile, error)
	UpdateProfile(ctx context.Context, p *entity.Profile) error
}
