package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"server/internal/domain"
	"server/internal/infra"
	"server/internal/sqlinline"
)

// CommentRepositoryPG implements domain.CommentRepository.
type CommentRepositoryPG struct {
	sql infra.SQLExecutor
}

// NewCommentRepository creates a comment repository backed by PostgreSQL.
func NewCommentRepository(exec infra.SQLExecutor) *CommentRepositoryPG {
	return &CommentRepositoryPG{sql: exec}
}

// Append inserts a comment at the end of the submission's thread. The insert
// is guarded on the submission existing, so a dangling id fails with
// ErrNotFound rather than a foreign key error.
func (r *CommentRepositoryPG) Append(ctx context.Context, comment *domain.Comment) error {
	row := r.sql.QueryRow(ctx, sqlinline.QInsertComment,
		comment.ID,
		comment.SubmissionID,
		comment.AuthorEmail,
		string(comment.AuthorType),
		comment.Text,
	)
	if err := row.Scan(&comment.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("submission %s: %w", comment.SubmissionID, domain.ErrNotFound)
		}
		return fmt.Errorf("append comment: %w", classify(err))
	}
	return nil
}

// ListBySubmission returns the thread in creation order.
func (r *CommentRepositoryPG) ListBySubmission(ctx context.Context, submissionID string) ([]domain.Comment, error) {
	rows, err := r.sql.Query(ctx, sqlinline.QListComments, submissionID)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", classify(err))
	}
	defer rows.Close()
	var comments []domain.Comment
	for rows.Next() {
		var c domain.Comment
		var rawType string
		if err := rows.Scan(&c.ID, &c.SubmissionID, &c.AuthorEmail, &rawType, &c.Text, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("list comments: %w", classify(err))
		}
		c.AuthorType = domain.AuthorType(rawType)
		comments = append(comments, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list comments: %w", classify(err))
	}
	return comments, nil
}
