package review

import (
	"context"

	"github.com/rs/zerolog"

	"server/internal/domain"
)

// QueueService tracks, per admin, which submissions that admin intends to
// review next. Batch enqueue/dequeue runs through the Coordinator so one bad
// id never sinks the rest of the selection.
type QueueService struct {
	queue  domain.QueueRepository
	policy domain.ClaimPolicy
	logger zerolog.Logger
}

// NewQueueService creates a validation queue service with the given claim
// policy.
func NewQueueService(queue domain.QueueRepository, policy domain.ClaimPolicy, logger zerolog.Logger) *QueueService {
	return &QueueService{queue: queue, policy: policy, logger: logger}
}

// Enqueue claims a submission for the admin's queue. Unlike the batch path,
// a terminal or unknown submission surfaces as a hard error here.
func (s *QueueService) Enqueue(ctx context.Context, adminEmail, submissionID string) error {
	if err := requireIdentity(submissionID, adminEmail); err != nil {
		return err
	}
	if err := s.queue.Enqueue(ctx, adminEmail, submissionID, s.policy); err != nil {
		return err
	}
	s.logger.Debug().
		Str("submission_id", submissionID).
		Str("admin", adminEmail).
		Msg("submission queued")
	return nil
}

// Dequeue removes a submission from the admin's queue without deciding an
// outcome.
func (s *QueueService) Dequeue(ctx context.Context, adminEmail, submissionID string) error {
	if err := requireIdentity(submissionID, adminEmail); err != nil {
		return err
	}
	return s.queue.Dequeue(ctx, adminEmail, submissionID)
}

// ListForAdmin returns the admin's queued submission references, oldest
// first, so reviewers see a stable FIFO.
func (s *QueueService) ListForAdmin(ctx context.Context, adminEmail string) ([]domain.QueueEntry, error) {
	return s.queue.ListForAdmin(ctx, adminEmail)
}

// DequeueAllForSubmission drops the submission from every admin's queue.
func (s *QueueService) DequeueAllForSubmission(ctx context.Context, submissionID string) error {
	return s.queue.DequeueAllForSubmission(ctx, submissionID)
}
