package domain

import "context"

// TransitionOutcome reports how a guarded terminal transition resolved.
type TransitionOutcome int

const (
	// TransitionApplied means this call changed the stored status.
	TransitionApplied TransitionOutcome = iota
	// TransitionAlreadyDone means the submission already carried the requested
	// terminal state; the call is an idempotent no-op.
	TransitionAlreadyDone
)

// SubmissionRepository defines persistence for submissions. Validate and
// Reject are single compare-and-set statements against the store: the status
// write and queue cleanup land atomically or not at all.
type SubmissionRepository interface {
	Create(ctx context.Context, sub *Submission) error
	GetByID(ctx context.Context, id string) (*Submission, error)
	ListByStatus(ctx context.Context, status Status) ([]Submission, error)
	Validate(ctx context.Context, id, adminEmail string) (TransitionOutcome, error)
	Reject(ctx context.Context, id, adminEmail string, reason *RejectionReason, feedback string) (TransitionOutcome, error)
}

// QueueRepository defines persistence for validation queue entries.
type QueueRepository interface {
	Enqueue(ctx context.Context, adminEmail, submissionID string, policy ClaimPolicy) error
	Dequeue(ctx context.Context, adminEmail, submissionID string) error
	ListForAdmin(ctx context.Context, adminEmail string) ([]QueueEntry, error)
	DequeueAllForSubmission(ctx context.Context, submissionID string) error
}

// CommentRepository defines persistence for the append-only discussion thread.
type CommentRepository interface {
	Append(ctx context.Context, comment *Comment) error
	ListBySubmission(ctx context.Context, submissionID string) ([]Comment, error)
}
