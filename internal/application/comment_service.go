package application

import (
	"context"

	"github.com/sirupsen/logrus"

	"blog-api/internal/domain/entity"
	repo "blog-api/internal/domain/repository"
)

type CommentService struct {
	Comments repo.CommentRepository
	Posts    repo.PostRepository
	Users    repo.UserRepository
	Logger   *logrus.Logger
}

// CommentNode is one node of the rendered comment tree. Replies are
// nested recursively; only approved comments appear, and an unapproved
// comment hides its entire subtree.
type CommentNode struct {
	Comment *entity.Comment
	Author  *entity.User
	Replies []*CommentNode
}

type CreateCommentInput struct {
	PostID   string
	Content  string
	ParentID *string
}

// CreateComment validates the post and the content length. For replies
// the parent must belong to the same post.
func (s *CommentService) CreateComment(ctx context.Context, authorID string, in CreateCommentInput) (*entity.Comment, error) {
	if len([]rune(in.Content)) < 3 {
		return nil, ErrContentTooShort
	}
	if _, err := s.Posts.GetByID(ctx, in.PostID); err != nil {
		return nil, mapNotFound(err)
	}
	if in.ParentID != nil {
		parent, err := s.Comments.GetByID(ctx, *in.ParentID)
		if err != nil {
			return nil, ErrParentNotFound
		}
		if parent.PostID != in.PostID {
			return nil, ErrParentWrongPost
		}
	}
	c := &entity.Comment{
		PostID:     in.PostID,
		AuthorID:   authorID,
		Content:    in.Content,
		ParentID:   in.ParentID,
		IsApproved: true,
	}
	if err := s.Comments.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// TreeForPost returns the post's approved top-level comments, newest
// first, with approved replies nested to arbitrary depth. The tree is
// assembled from a flat child index keyed by parent id, so replies of
// an unapproved comment are simply never reached.
func (s *CommentService) TreeForPost(ctx context.Context, postID string) ([]*CommentNode, error) {
	if _, err := s.Posts.GetByID(ctx, postID); err != nil {
		return nil, mapNotFound(err)
	}
	comments, err := s.Comments.ListApprovedByPost(ctx, postID)
	if err != nil {
		return nil, err
	}

	authors := map[string]*entity.User{}
	for _, c := range comments {
		if _, ok := authors[c.AuthorID]; !ok {
			u, err := s.Users.GetByID(ctx, c.AuthorID)
			if err != nil {
				return nil, err
			}
			authors[c.AuthorID] = u
		}
	}

	children := map[string][]*entity.Comment{}
	for _, c := range comments {
		if c.ParentID != nil {
			children[*c.ParentID] = append(children[*c.ParentID], c)
		}
	}

	var build func(c *entity.Comment) *CommentNode
	build = func(c *entity.Comment) *CommentNode {
		node := &CommentNode{Comment: c, Author: authors[c.AuthorID], Replies: []*CommentNode{}}
		for _, child := range children[c.ID] {
			node.Replies = append(node.Replies, build(child))
		}
		return node
	}

	roots := []*CommentNode{}
	for _, c := range comments {
		if c.TopLevel() {
			roots = append(roots, build(c))
		}
	}
	return roots, nil
}

// UpdateComment is ownership-gated; non-owners get ErrNotFound.
func (s *CommentService) UpdateComment(ctx context.Context, actorID, id, content string) (*entity.Comment, error) {
	if len([]rune(content)) < 3 {
		return nil, ErrContentTooShort
	}
	c, err := s.Comments.GetByID(ctx, id)
	if err != nil {
		return nil, mapNotFound(err)
	}
	if !canMutate(actorID, c.AuthorID) {
		return nil, ErrNotFound
	}
	c.Content = content
	if err := s.Comments.Update(ctx, c); err != nil {
		return nil, mapNotFound(err)
	}
	return c, nil
}

// DeleteComment removes the comment and, through the storage cascade,
// every transitive reply under it.
func (s *CommentService) DeleteComment(ctx context.Context, actorID, id string) error {
	c, err := s.Comments.GetByID(ctx, id)
	if err != nil {
		return mapNotFound(err)
	}
	if !canMutate(actorID, c.AuthorID) {
		return ErrNotFound
	}
	return mapNotFound(s.Comments.Delete(ctx, c.ID))
}
