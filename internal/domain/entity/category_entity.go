package entity

import "time"

// Category groups posts. The slug is derived from the name when not
// supplied explicitly; both are unique.
type Category struct {
	ID          string
	Name        string
	Slug        string
	Description string
	CreatedAt   time.Time
}
