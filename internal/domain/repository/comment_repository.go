package repository

import (
	"context"

	"blog-api/internal/domain/entity"
)

// CommentRepository defines comment persistence. Delete must remove the
// comment's entire reply subtree along with it.
type CommentRepository interface {
	Create(ctx context.Context, c *entity.Comment) error
	GetByID(ctx context.Context, id string) (*entity.Comment, error)
	// ListApprovedByPost returns every approved comment on the post,
	// newest first. Tree assembly happens in the service layer.
	ListApprovedByPost(ctx context.Context, postID string) ([]*entity.Comment, error)
	Update(ctx context.Context, c *entity.Comment) error
	Delete(ctx context.Context, id string) error
	// CountsByPost returns the number of approved comments per post id.
	CountsByPost(ctx context.Context, postIDs []string) (map[string]int64, error)
}
