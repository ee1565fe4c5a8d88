package httpapi

import (
	"context"
	"fmt"
	"sync"
	"time"

	"server/internal/domain"
)

// memStore is a minimal in-memory store for routing tests. Transition
// classification lives in the review package tests; here it only has to honor
// the repository contracts well enough to route real requests end to end.
type memStore struct {
	mu       sync.Mutex
	subs     map[string]*domain.Submission
	queue    []domain.QueueEntry
	comments []domain.Comment
}

func newMemStore() *memStore {
	return &memStore{subs: make(map[string]*domain.Submission)}
}

func (s *memStore) Create(_ context.Context, sub *domain.Submission) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *sub
	cp.CreatedAt = time.Now().UTC()
	cp.UpdatedAt = cp.CreatedAt
	s.subs[sub.ID] = &cp
	return nil
}

func (s *memStore) GetByID(_ context.Context, id string) (*domain.Submission, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sub, ok := s.subs[id]
	if !ok {
		return nil, fmt.Errorf("submission %s: %w", id, domain.ErrNotFound)
	}
	cp := *sub
	for _, entry := range s.queue {
		if entry.SubmissionID == id {
			cp.QueueCount++
		}
	}
	return &cp, nil
}

func (s *memStore) ListByStatus(_ context.Context, status domain.Status) ([]domain.Submission, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var items []domain.Submission
	for _, sub := range s.subs {
		if status == domain.StatusQueued {
			if sub.Status == domain.StatusPending && s.claimed(sub.ID) {
				items = append(items, s.withQueueCount(sub))
			}
			continue
		}
		if sub.Status == status {
			items = append(items, s.withQueueCount(sub))
		}
	}
	return items, nil
}

func (s *memStore) withQueueCount(sub *domain.Submission) domain.Submission {
	cp := *sub
	for _, entry := range s.queue {
		if entry.SubmissionID == sub.ID {
			cp.QueueCount++
		}
	}
	return cp
}

func (s *memStore) claimed(submissionID string) bool {
	for _, entry := range s.queue {
		if entry.SubmissionID == submissionID {
			return true
		}
	}
	return false
}

func (s *memStore) Validate(_ context.Context, id, adminEmail string) (domain.TransitionOutcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sub, ok := s.subs[id]
	if !ok {
		return 0, fmt.Errorf("submission %s: %w", id, domain.ErrNotFound)
	}
	if sub.Status == domain.StatusValidated {
		return domain.TransitionAlreadyDone, nil
	}
	if sub.Status == domain.StatusRejected {
		return 0, fmt.Errorf("submission %s already rejected: %w", id, domain.ErrInvalidTransition)
	}
	now := time.Now().UTC()
	sub.Status = domain.StatusValidated
	sub.DecidedBy = adminEmail
	sub.DecidedAt = &now
	s.drop(id)
	return domain.TransitionApplied, nil
}

func (s *memStore) Reject(_ context.Context, id, adminEmail string, reason *domain.RejectionReason, feedback string) (domain.TransitionOutcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sub, ok := s.subs[id]
	if !ok {
		return 0, fmt.Errorf("submission %s: %w", id, domain.ErrNotFound)
	}
	if sub.Status.IsTerminal() {
		return 0, fmt.Errorf("submission %s is %s: %w", id, sub.Status, domain.ErrInvalidTransition)
	}
	now := time.Now().UTC()
	sub.Status = domain.StatusRejected
	sub.RejectionReason = reason
	sub.RejectionFeedback = feedback
	sub.DecidedBy = adminEmail
	sub.DecidedAt = &now
	s.drop(id)
	return domain.TransitionApplied, nil
}

func (s *memStore) Enqueue(_ context.Context, adminEmail, submissionID string, _ domain.ClaimPolicy) error {
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
	s.queue = append(s.queue, domain.QueueEntry{
		SubmissionID: submissionID,
		AdminEmail:   adminEmail,
		CreatedAt:    time.Now().UTC(),
	})
	return nil
}

func (s *memStore) Dequeue(_ context.Context, adminEmail, submissionID string) error {
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

func (s *memStore) ListForAdmin(_ context.Context, adminEmail string) ([]domain.QueueEntry, error) {
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

func (s *memStore) DequeueAllForSubmission(_ context.Context, submissionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.drop(submissionID)
	return nil
}

func (s *memStore) drop(submissionID string) {
	kept := s.queue[:0]
	for _, entry := range s.queue {
		if entry.SubmissionID == submissionID {
			continue
		}
		kept = append(kept, entry)
	}
	s.queue = kept
}

func (s *memStore) Append(_ context.Context, comment *domain.Comment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.subs[comment.SubmissionID]; !ok {
		return fmt.Errorf("submission %s: %w", comment.SubmissionID, domain.ErrNotFound)
	}
	comment.CreatedAt = time.Now().UTC()
	s.comments = append(s.comments, *comment)
	return nil
}

func (s *memStore) ListBySubmission(_ context.Context, submissionID string) ([]domain.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var items []domain.Comment
	for _, c := range s.comments {
		if c.SubmissionID == submissionID {
			items = append(items, c)
		}
	}
	return items, nil
}

var (
	_ domain.SubmissionRepository = (*memStore)(nil)
	_ domain.QueueRepository      = (*memStore)(nil)
	_ domain.CommentRepository    = (*memStore)(nil)
)
