package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"server/internal/domain"
	"server/internal/infra"
	"server/internal/sqlinline"
)

// SubmissionRepositoryPG implements domain.SubmissionRepository.
type SubmissionRepositoryPG struct {
	sql infra.SQLExecutor
}

// NewSubmissionRepository creates a submission repository backed by PostgreSQL.
func NewSubmissionRepository(exec infra.SQLExecutor) *SubmissionRepositoryPG {
	return &SubmissionRepositoryPG{sql: exec}
}

// Create inserts a new submission in pending state.
func (r *SubmissionRepositoryPG) Create(ctx context.Context, sub *domain.Submission) error {
	_, err := r.sql.Exec(ctx, sqlinline.QInsertSubmission,
		sub.ID,
		sub.FileName,
		string(sub.FileType),
		sub.FileSize,
		sub.UserEmail,
	)
	if err != nil {
		return fmt.Errorf("create submission: %w", classify(err))
	}
	return nil
}

// GetByID fetches a submission by its identifier, normalizing any legacy
// status spelling found in the row.
func (r *SubmissionRepositoryPG) GetByID(ctx context.Context, id string) (*domain.Submission, error) {
	row := r.sql.QueryRow(ctx, sqlinline.QGetSubmission, id)
	sub, err := scanSubmission(row.Scan)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get submission: %w", classify(err))
	}
	return sub, nil
}

// ListByStatus returns submissions whose stored status normalizes to the given
// canonical state, oldest first.
func (r *SubmissionRepositoryPG) ListByStatus(ctx context.Context, status domain.Status) ([]domain.Submission, error) {
	var rows pgx.Rows
	var err error
	if status == domain.StatusQueued {
		// Queued is derived: pending rows someone has claimed.
		rows, err = r.sql.Query(ctx, sqlinline.QListQueuedSubmissions)
	} else {
		rows, err = r.sql.Query(ctx, sqlinline.QListSubmissionsByStatus, storedSpellings(status))
	}
	if err != nil {
		return nil, fmt.Errorf("list submissions: %w", classify(err))
	}
	defer rows.Close()
	var items []domain.Submission
	for rows.Next() {
		sub, err := scanSubmission(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("list submissions: %w", classify(err))
		}
		items = append(items, *sub)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list submissions: %w", classify(err))
	}
	return items, nil
}

// Validate transitions the submission to validated and drops every queue entry
// referencing it as one atomic statement.
func (r *SubmissionRepositoryPG) Validate(ctx context.Context, id, adminEmail string) (domain.TransitionOutcome, error) {
	row := r.sql.QueryRow(ctx, sqlinline.QValidateSubmission, id, adminEmail)
	var applied string
	err := row.Scan(&applied)
	if err == nil {
		return domain.TransitionApplied, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return 0, fmt.Errorf("validate submission: %w", classify(err))
	}
	// Guard refused the write: tell not-found, repeat validate, and
	// conflicting terminal state apart by re-reading the row.
	status, _, _, derr := r.decision(ctx, id)
	if derr != nil {
		return 0, derr
	}
	if status == domain.StatusValidated {
		return domain.TransitionAlreadyDone, nil
	}
	if status == domain.StatusRejected {
		return 0, fmt.Errorf("submission %s already rejected: %w", id, domain.ErrInvalidTransition)
	}
	// Non-terminal but not transitioned: a concurrent writer got between the
	// statement and the probe. The caller lost the race.
	return 0, fmt.Errorf("submission %s: %w", id, domain.ErrConflict)
}

// Reject transitions the submission to rejected with the provided reason and
// feedback, clearing queue entries atomically. A repeat reject carrying the
// same reason and feedback is an idempotent no-op; differing content is
// refused, terminal metadata is immutable.
func (r *SubmissionRepositoryPG) Reject(ctx context.Context, id, adminEmail string, reason *domain.RejectionReason, feedback string) (domain.TransitionOutcome, error) {
	var reasonArg any
	if reason != nil {
		reasonArg = string(*reason)
	}
	row := r.sql.QueryRow(ctx, sqlinline.QRejectSubmission, id, adminEmail, reasonArg, feedback)
	var applied string
	err := row.Scan(&applied)
	if err == nil {
		return domain.TransitionApplied, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return 0, fmt.Errorf("reject submission: %w", classify(err))
	}
	status, storedReason, storedFeedback, derr := r.decision(ctx, id)
	if derr != nil {
		return 0, derr
	}
	switch status {
	case domain.StatusValidated:
		return 0, fmt.Errorf("submission %s already validated: %w", id, domain.ErrInvalidTransition)
	case domain.StatusRejected:
		if sameReason(storedReason, reason) && storedFeedback == feedback {
			return domain.TransitionAlreadyDone, nil
		}
		return 0, fmt.Errorf("submission %s already rejected with different detail: %w", id, domain.ErrInvalidTransition)
	default:
		return 0, fmt.Errorf("submission %s: %w", id, domain.ErrConflict)
	}
}

// decision reads the current terminal disposition of a submission.
func (r *SubmissionRepositoryPG) decision(ctx context.Context, id string) (domain.Status, *domain.RejectionReason, string, error) {
	row := r.sql.QueryRow(ctx, sqlinline.QSubmissionDecision, id)
	var rawStatus string
	var reason, feedback sql.NullString
	if err := row.Scan(&rawStatus, &reason, &feedback); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil, "", fmt.Errorf("submission %s: %w", id, domain.ErrNotFound)
		}
		return "", nil, "", fmt.Errorf("read submission decision: %w", classify(err))
	}
	status, err := domain.ParseStatus(rawStatus)
	if err != nil {
		return "", nil, "", fmt.Errorf("read submission decision: %w", err)
	}
	var parsedReason *domain.RejectionReason
	if reason.Valid && reason.String != "" {
		pr, err := domain.ParseRejectionReason(reason.String)
		if err != nil {
			return "", nil, "", fmt.Errorf("read submission decision: %w", err)
		}
		parsedReason = &pr
	}
	return status, parsedReason, feedback.String, nil
}

func sameReason(a, b *domain.RejectionReason) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// scanSubmission reads the column set shared by QGetSubmission and
// QListSubmissionsByStatus.
func scanSubmission(scan func(dest ...any) error) (*domain.Submission, error) {
	var sub domain.Submission
	var rawStatus, rawFileType string
	var reason, feedback, decidedBy sql.NullString
	var decidedAt sql.NullTime
	if err := scan(
		&sub.ID,
		&rawStatus,
		&sub.FileName,
		&rawFileType,
		&sub.FileSize,
		&sub.UserEmail,
		&reason,
		&feedback,
		&decidedBy,
		&decidedAt,
		&sub.QueueCount,
		&sub.CreatedAt,
		&sub.UpdatedAt,
	); err != nil {
		return nil, err
	}
	status, err := domain.ParseStatus(rawStatus)
	if err != nil {
		return nil, err
	}
	sub.Status = status
	fileType, err := domain.ParseFileType(rawFileType)
	if err != nil {
		return nil, err
	}
	sub.FileType = fileType
	if reason.Valid && reason.String != "" {
		pr, err := domain.ParseRejectionReason(reason.String)
		if err != nil {
			return nil, err
		}
		sub.RejectionReason = &pr
	}
	sub.RejectionFeedback = feedback.String
	sub.DecidedBy = decidedBy.String
	if decidedAt.Valid {
		t := decidedAt.Time.UTC()
		sub.DecidedAt = &t
	}
	return &sub, nil
}

// storedSpellings expands a canonical status to every spelling legacy rows may
// carry, so listings stay complete while old data is still in place.
func storedSpellings(status domain.Status) []string {
	switch status {
	case domain.StatusPending:
		return []string{"pending", "processing", "submitted"}
	case domain.StatusQueued:
		return []string{"queued"}
	case domain.StatusValidated:
		return []string{"validated", "successful"}
	case domain.StatusRejected:
		return []string{"rejected", "failed"}
	default:
		return []string{string(status)}
	}
}
