package review

import (
	"context"
	"fmt"
	"sync"
	"time"

	"server/internal/domain"
)

// memStore is an in-memory stand-in for the Postgres repositories. It keeps
// the same contract: terminal transitions are atomic (status write plus queue
// cleanup under one lock) and guarded against repeat or conflicting writes.
type memStore struct {
	mu    sync.Mutex
	subs  map[string]*domain.Submission
	queue []domain.QueueEntry
	seq   int

	// errByID injects a failure for any operation touching the given id.
	errByID map[string]error
	// delayByID delays operations touching the given id until the context
	// expires or the delay elapses.
	delayByID map[string]time.Duration
	// applyLies makes Validate/Reject report success without writing, to
	// exercise post-transition verification.
	applyLies bool
}

func newMemStore() *memStore {
	return &memStore{
		subs:      make(map[string]*domain.Submission),
		errByID:   make(map[string]error),
		delayByID: make(map[string]time.Duration),
	}
}

func (s *memStore) add(id string, status domain.Status) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs[id] = &domain.Submission{
		ID:        id,
		Status:    status,
		FileName:  id + ".csv",
		FileType:  domain.FileTypeDocument,
		UserEmail: "contributor@example.com",
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}
}

func (s *memStore) gate(ctx context.Context, id string) error {
	if d, ok := s.delayByID[id]; ok {
		select {
		case <-time.After(d):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	if err, ok := s.errByID[id]; ok {
		return err
	}
	return nil
}

func (s *memStore) Create(ctx context.Context, sub *domain.Submission) error {
	if err := s.gate(ctx, sub.ID); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *sub
	s.subs[sub.ID] = &cp
	return nil
}

func (s *memStore) GetByID(ctx context.Context, id string) (*domain.Submission, error) {
	if err := s.gate(ctx, id); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	sub, ok := s.subs[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *sub
	cp.QueueCount = 0
	for _, entry := range s.queue {
		if entry.SubmissionID == id {
			cp.QueueCount++
		}
	}
	return &cp, nil
}

func (s *memStore) ListByStatus(ctx context.Context, status domain.Status) ([]domain.Submission, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var items []domain.Submission
	for _, sub := range s.subs {
		if sub.Status == status {
			items = append(items, *sub)
		}
	}
	return items, nil
}

func (s *memStore) Validate(ctx context.Context, id, adminEmail string) (domain.TransitionOutcome, error) {
	if err := s.gate(ctx, id); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	sub, ok := s.subs[id]
	if !ok {
		return 0, fmt.Errorf("submission %s: %w", id, domain.ErrNotFound)
	}
	switch sub.Status {
	case domain.StatusValidated:
		return domain.TransitionAlreadyDone, nil
	case domain.StatusRejected:
		return 0, fmt.Errorf("submission %s already rejected: %w", id, domain.ErrInvalidTransition)
	}
	if s.applyLies {
		return domain.TransitionApplied, nil
	}
	now := time.Now().UTC()
	sub.Status = domain.StatusValidated
	sub.DecidedBy = adminEmail
	sub.DecidedAt = &now
	s.removeAllEntries(id)
	return domain.TransitionApplied, nil
}

func (s *memStore) Reject(ctx context.Context, id, adminEmail string, reason *domain.RejectionReason, feedback string) (domain.TransitionOutcome, error) {
	if err := s.gate(ctx, id); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	sub, ok := s.subs[id]
	if !ok {
		return 0, fmt.Errorf("submission %s: %w", id, domain.ErrNotFound)
	}
	switch sub.Status {
	case domain.StatusValidated:
		return 0, fmt.Errorf("submission %s already validated: %w", id, domain.ErrInvalidTransition)
	case domain.StatusRejected:
		sameReason := (sub.RejectionReason == nil) == (reason == nil)
		if sub.RejectionReason != nil && reason != nil {
			sameReason = *sub.RejectionReason == *reason
		}
		if sameReason && sub.RejectionFeedback == feedback {
			return domain.TransitionAlreadyDone, nil
		}
		return 0, fmt.Errorf("submission %s already rejected with different detail: %w", id, domain.ErrInvalidTransition)
	}
	if s.applyLies {
		return domain.TransitionApplied, nil
	}
	now := time.Now().UTC()
	sub.Status = domain.StatusRejected
	sub.RejectionReason = reason
	sub.RejectionFeedback = feedback
	sub.DecidedBy = adminEmail
	sub.DecidedAt = &now
	s.removeAllEntries(id)
	return domain.TransitionApplied, nil
}

func (s *memStore) Enqueue(ctx context.Context, adminEmail, submissionID string, policy domain.ClaimPolicy) error {
	if err := s.gate(ctx, submissionID); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	sub, ok := s.subs[submissionID]
	if !ok {
		return fmt.Errorf("submission %s: %w", submissionID, domain.ErrNotFound)
	}
	if sub.Status.IsTerminal() {
		return fmt.Errorf("submission %s is %s: %w", submissionID, sub.Status, domain.ErrInvalidTransition)
	}
	for _, entry := range s.queue {
		if entry.SubmissionID == submissionID && entry.AdminEmail == adminEmail {
			return nil
		}
	}
	if policy == domain.ClaimExclusive {
		for _, entry := range s.queue {
			if entry.SubmissionID == submissionID && entry.AdminEmail != adminEmail {
				return fmt.Errorf("submission %s claimed by another admin: %w", submissionID, domain.ErrConflict)
			}
		}
	}
	s.seq++
	s.queue = append(s.queue, domain.QueueEntry{
		SubmissionID: submissionID,
		AdminEmail:   adminEmail,
		CreatedAt:    time.Unix(int64(s.seq), 0).UTC(),
	})
	return nil
}

func (s *memStore) Dequeue(ctx context.Context, adminEmail, submissionID string) error {
	if err := s.gate(ctx, submissionID); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.queue[:0]
	for _, entry := range s.queue {
		if entry.SubmissionID == submissionID && entry.AdminEmail == adminEmail {
			continue
		}
		kept = append(kept, entry)
	}
	s.queue = kept
	return nil
}

func (s *memStore) ListForAdmin(ctx context.Context, adminEmail string) ([]domain.QueueEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var entries []domain.QueueEntry
	for _, entry := range s.queue {
		if entry.AdminEmail == adminEmail {
			entries = append(entries, entry)
		}
	}
	return entries, nil
}

func (s *memStore) DequeueAllForSubmission(ctx context.Context, submissionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.removeAllEntries(submissionID)
	return nil
}

// removeAllEntries requires s.mu to be held.
func (s *memStore) removeAllEntries(submissionID string) {
	kept := s.queue[:0]
	for _, entry := range s.queue {
		if entry.SubmissionID == submissionID {
			continue
		}
		kept = append(kept, entry)
	}
	s.queue = kept
}

var (
	_ domain.SubmissionRepository = (*memStore)(nil)
	_ domain.QueueRepository      = (*memStore)(nil)
)
