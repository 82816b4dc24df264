package entity

import "time"

// Comment belongs to exactly one post and cascades with it. A nil
// ParentID marks a top-level comment; otherwise it is a reply to
// another comment on the same post. Deleting a comment deletes its
// entire reply subtree. Comments are approved by default; moderation
// may clear the flag, which hides the comment and everything under it.
type Comment struct {
	ID         string
	PostID     string
	AuthorID   string
	Content    string
	ParentID   *string
	IsApproved bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// TopLevel reports whether the comment is attached directly to its post.
func (c *Comment) TopLevel() bool { return c.ParentID == nil }
