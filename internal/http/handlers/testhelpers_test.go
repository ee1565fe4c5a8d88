package handlers

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"server/internal/domain"
	"server/internal/review"
)

// stubStore backs handler tests with in-memory submissions, queue entries and
// comments following the repository contracts.
type stubStore struct {
	mu       sync.Mutex
	subs     map[string]*domain.Submission
	queue    []domain.QueueEntry
	comments []domain.Comment
	seq      int
}

func newStubStore() *stubStore {
	return &stubStore{subs: make(map[string]*domain.Submission)}
}

func (s *stubStore) add(id string, status domain.Status) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs[id] = &domain.Submission{
		ID:        id,
		Status:    status,
		FileName:  id + ".wav",
		FileType:  domain.FileTypeAudio,
		UserEmail: "contributor@example.com",
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}
}

func (s *stubStore) Create(_ context.Context, sub *domain.Submission) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *sub
	s.subs[sub.ID] = &cp
	return nil
}

func (s *stubStore) GetByID(_ context.Context, id string) (*domain.Submission, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sub, ok := s.subs[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *sub
	for _, entry := range s.queue {
		if entry.SubmissionID == id {
			cp.QueueCount++
		}
	}
	return &cp, nil
}

func (s *stubStore) ListByStatus(_ context.Context, status domain.Status) ([]domain.Submission, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var items []domain.Submission
	for _, sub := range s.subs {
		if status == domain.StatusQueued {
			if sub.Status == domain.StatusPending && s.hasEntries(sub.ID) {
				items = append(items, *sub)
			}
			continue
		}
		if sub.Status == status {
			items = append(items, *sub)
		}
	}
	return items, nil
}

func (s *stubStore) hasEntries(submissionID string) bool {
	for _, entry := range s.queue {
		if entry.SubmissionID == submissionID {
			return true
		}
	}
	return false
}

func (s *stubStore) Validate(_ context.Context, id, adminEmail string) (domain.TransitionOutcome, error) {
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
	now := time.Now().UTC()
	sub.Status = domain.StatusValidated
	sub.DecidedBy = adminEmail
	sub.DecidedAt = &now
	s.dropEntries(id)
	return domain.TransitionApplied, nil
}

func (s *stubStore) Reject(_ context.Context, id, adminEmail string, reason *domain.RejectionReason, feedback string) (domain.TransitionOutcome, error) {
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
	s.dropEntries(id)
	return domain.TransitionApplied, nil
}

func (s *stubStore) Enqueue(_ context.Context, adminEmail, submissionID string, policy domain.ClaimPolicy) error {
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
				return fmt.Errorf("submission %s claimed: %w", submissionID, domain.ErrConflict)
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

func (s *stubStore) Dequeue(_ context.Context, adminEmail, submissionID string) error {
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

func (s *stubStore) ListForAdmin(_ context.Context, adminEmail string) ([]domain.QueueEntry, error) {
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

func (s *stubStore) DequeueAllForSubmission(_ context.Context, submissionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dropEntries(submissionID)
	return nil
}

func (s *stubStore) dropEntries(submissionID string) {
	kept := s.queue[:0]
	for _, entry := range s.queue {
		if entry.SubmissionID == submissionID {
			continue
		}
		kept = append(kept, entry)
	}
	s.queue = kept
}

func (s *stubStore) Append(_ context.Context, comment *domain.Comment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.subs[comment.SubmissionID]; !ok {
		return fmt.Errorf("submission %s: %w", comment.SubmissionID, domain.ErrNotFound)
	}
	comment.CreatedAt = time.Now().UTC()
	s.comments = append(s.comments, *comment)
	return nil
}

func (s *stubStore) ListBySubmission(_ context.Context, submissionID string) ([]domain.Comment, error) {
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
	_ domain.SubmissionRepository = (*stubStore)(nil)
	_ domain.QueueRepository      = (*stubStore)(nil)
	_ domain.CommentRepository    = (*stubStore)(nil)
)

func newTestApp(store *stubStore) *App {
	logger := zerolog.Nop()
	engine := review.NewEngine(store, logger)
	queue := review.NewQueueService(store, domain.ClaimAdvisory, logger)
	bulk := review.NewCoordinator(engine, queue, store, 4, 0, 0, logger)
	return NewApp(engine, queue, bulk, store, store, logger)
}

// withURLParam installs a chi route context so handlers can read path params
// outside a router.
func withURLParam(r *http.Request, key, val string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, val)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}
