package domain

import "time"

// AuthorType distinguishes contributor comments from admin comments.
type AuthorType string

const (
	AuthorUser  AuthorType = "user"
	AuthorAdmin AuthorType = "admin"
)

// Comment is one entry in a submission's append-only discussion thread.
type Comment struct {
	ID           string
	SubmissionID string
	AuthorEmail  string
	AuthorType   AuthorType
	Text         string
	CreatedAt    time.Time
}
