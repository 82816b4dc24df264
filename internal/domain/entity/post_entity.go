package entity

import "time"

// Post lifecycle status values.
const (
	StatusDraft     = "draft"
	StatusPublished = "published"
)

// Post is a blog entry owned by exactly one author. The slug is
// generated once at creation from the title and never regenerated,
// even when the title changes later. CategoryID is a weak reference:
// deleting the category nulls it instead of deleting the post.
type Post struct {
	ID          string
	Title       string
	Slug        string
	AuthorID    string
	CategoryID  *string
	Content     string
	Excerpt     string
	ImageURL    string
	Status      string
	ViewsCount  int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
	PublishedAt *time.Time
}

// Published reports whether the post is publicly visible.
func (p *Post) Published() bool { return p.Status == StatusPublished }
