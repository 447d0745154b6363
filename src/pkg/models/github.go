package models

// Comment represents a GitHub issue comment.
type Comment struct {
	ID   int64
	Body string
}
