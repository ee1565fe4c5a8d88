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

// QueueRepositoryPG implements domain.QueueRepository.
type QueueRepositoryPG struct {
	sql infra.SQLExecutor
}

// NewQueueRepository creates a validation queue repository backed by PostgreSQL.
func NewQueueRepository(exec infra.SQLExecutor) *QueueRepositoryPG {
	return &QueueRepositoryPG{sql: exec}
}

// Enqueue adds a queue entry for the admin. Re-queueing an entry the admin
// already holds is a no-op. Enqueueing a terminal submission fails with
// ErrInvalidTransition, an unknown id with ErrNotFound, and, under the
// exclusive policy, a submission another admin holds with ErrConflict.
func (r *QueueRepositoryPG) Enqueue(ctx context.Context, adminEmail, submissionID string, policy domain.ClaimPolicy) error {
	query := sqlinline.QEnqueueAdvisory
	if policy == domain.ClaimExclusive {
		query = sqlinline.QEnqueueExclusive
	}
	row := r.sql.QueryRow(ctx, query, submissionID, adminEmail)
	var inserted string
	err := row.Scan(&inserted)
	if err == nil {
		return nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("enqueue: %w", classify(err))
	}
	return r.classifyRefusedEnqueue(ctx, adminEmail, submissionID, policy)
}

// classifyRefusedEnqueue works out why the guarded insert produced no row.
func (r *QueueRepositoryPG) classifyRefusedEnqueue(ctx context.Context, adminEmail, submissionID string, policy domain.ClaimPolicy) error {
	var held bool
	if err := r.sql.QueryRow(ctx, sqlinline.QQueueEntryExists, submissionID, adminEmail).Scan(&held); err != nil {
		return fmt.Errorf("enqueue: %w", classify(err))
	}
	if held {
		// Already in this admin's queue.
		return nil
	}
	row := r.sql.QueryRow(ctx, sqlinline.QSubmissionDecision, submissionID)
	var rawStatus string
	var reason, feedback any
	if err := row.Scan(&rawStatus, &reason, &feedback); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("submission %s: %w", submissionID, domain.ErrNotFound)
		}
		return fmt.Errorf("enqueue: %w", classify(err))
	}
	status, err := domain.ParseStatus(rawStatus)
	if err != nil {
		return fmt.Errorf("enqueue: %w", err)
	}
	if status.IsTerminal() {
		return fmt.Errorf("submission %s is %s: %w", submissionID, status, domain.ErrInvalidTransition)
	}
	if policy == domain.ClaimExclusive {
		var other bool
		if err := r.sql.QueryRow(ctx, sqlinline.QQueueHeldByOther, submissionID, adminEmail).Scan(&other); err != nil {
			return fmt.Errorf("enqueue: %w", classify(err))
		}
		if other {
			return fmt.Errorf("submission %s claimed by another admin: %w", submissionID, domain.ErrConflict)
		}
	}
	return fmt.Errorf("submission %s: %w", submissionID, domain.ErrConflict)
}

// Dequeue removes the admin's entry for a submission. Removing an absent
// entry is a no-op.
func (r *QueueRepositoryPG) Dequeue(ctx context.Context, adminEmail, submissionID string) error {
	if _, err := r.sql.Exec(ctx, sqlinline.QDequeue, submissionID, adminEmail); err != nil {
		return fmt.Errorf("dequeue: %w", classify(err))
	}
	return nil
}

// ListForAdmin returns the admin's queue entries in insertion order.
func (r *QueueRepositoryPG) ListForAdmin(ctx context.Context, adminEmail string) ([]domain.QueueEntry, error) {
	rows, err := r.sql.Query(ctx, sqlinline.QListQueueForAdmin, adminEmail)
	if err != nil {
		return nil, fmt.Errorf("list queue: %w", classify(err))
	}
	defer rows.Close()
	var entries []domain.QueueEntry
	for rows.Next() {
		var entry domain.QueueEntry
		if err := rows.Scan(&entry.SubmissionID, &entry.AdminEmail, &entry.CreatedAt); err != nil {
			return nil, fmt.Errorf("list queue: %w", classify(err))
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list queue: %w", classify(err))
	}
	return entries, nil
}

// DequeueAllForSubmission drops the submission from every admin's queue.
// Terminal transitions already clean up in-statement; this covers direct
// administrative removal.
func (r *QueueRepositoryPG) DequeueAllForSubmission(ctx context.Context, submissionID string) error {
	if _, err := r.sql.Exec(ctx, sqlinline.QDequeueAllForSubmission, submissionID); err != nil {
		return fmt.Errorf("dequeue all: %w", classify(err))
	}
	return nil
}
