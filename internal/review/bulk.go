package review

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"server/internal/domain"
)

// Outcome labels one item's result inside a bulk operation.
type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	OutcomeFailure Outcome = "failure"
)

// ItemResult is the per-submission outcome of a bulk operation.
type ItemResult struct {
	SubmissionID string
	Outcome      Outcome
	ErrorDetail  string
	err          error
}

// Err exposes the underlying item error for error-kind inspection.
func (r ItemResult) Err() error { return r.err }

// BulkResult aggregates a bulk operation. Items are keyed by submission id
// and reported in input order; completion order carries no meaning.
type BulkResult struct {
	SuccessCount int
	FailureCount int
	SucceededIDs []string
	Items        []ItemResult
}

// Coordinator fans one operation out over many submissions concurrently.
// Items succeed and fail independently; there is no cross-item transaction.
//
// Unlike the single-item engine, the bulk paths count "no state change
// occurred" (an already-terminal submission) as a per-item failure, so a
// dashboard batch reports exactly how many rows actually moved.
type Coordinator struct {
	engine      *Engine
	queue       *QueueService
	submissions domain.SubmissionRepository
	concurrency int
	itemTimeout time.Duration
	maxItems    int
	logger      zerolog.Logger
}

// NewCoordinator creates a bulk operation coordinator. concurrency bounds the
// fan-out, itemTimeout bounds each item so one slow row cannot stall the
// batch, and maxItems caps the selection size.
func NewCoordinator(engine *Engine, queue *QueueService, submissions domain.SubmissionRepository, concurrency int, itemTimeout time.Duration, maxItems int, logger zerolog.Logger) *Coordinator {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Coordinator{
		engine:      engine,
		queue:       queue,
		submissions: submissions,
		concurrency: concurrency,
		itemTimeout: itemTimeout,
		maxItems:    maxItems,
		logger:      logger,
	}
}

// ValidateAll applies Validate to each id independently. Succeeded items are
// re-read from the store before reporting, so a transition that did not stick
// is demoted to a failure instead of silently counted.
func (c *Coordinator) ValidateAll(ctx context.Context, adminEmail string, ids []string) (*BulkResult, error) {
	return c.run(ctx, adminEmail, ids, func(ctx context.Context, id string) error {
		_, outcome, err := c.engine.Validate(ctx, id, adminEmail)
		if err != nil {
			return err
		}
		if outcome == domain.TransitionAlreadyDone {
			return fmt.Errorf("already validated: %w", domain.ErrInvalidTransition)
		}
		return c.verify(ctx, id, domain.StatusValidated)
	})
}

// RejectAll applies Reject with one shared reason/feedback to each id
// independently. The reject precondition is structural: with neither reason
// nor feedback the whole batch is refused before any item runs.
func (c *Coordinator) RejectAll(ctx context.Context, adminEmail string, ids []string, reason *domain.RejectionReason, feedback string) (*BulkResult, error) {
	if reason == nil && feedback == "" {
		return nil, fmt.Errorf("reject requires a reason or feedback: %w", domain.ErrPreconditionFailed)
	}
	return c.run(ctx, adminEmail, ids, func(ctx context.Context, id string) error {
		_, outcome, err := c.engine.Reject(ctx, id, adminEmail, reason, feedback)
		if err != nil {
			return err
		}
		if outcome == domain.TransitionAlreadyDone {
			return fmt.Errorf("already rejected: %w", domain.ErrInvalidTransition)
		}
		return c.verify(ctx, id, domain.StatusRejected)
	})
}

// EnqueueAll adds each id to the admin's queue independently.
func (c *Coordinator) EnqueueAll(ctx context.Context, adminEmail string, ids []string) (*BulkResult, error) {
	return c.run(ctx, adminEmail, ids, func(ctx context.Context, id string) error {
		return c.queue.Enqueue(ctx, adminEmail, id)
	})
}

// DequeueAll removes each id from the admin's queue independently.
func (c *Coordinator) DequeueAll(ctx context.Context, adminEmail string, ids []string) (*BulkResult, error) {
	return c.run(ctx, adminEmail, ids, func(ctx context.Context, id string) error {
		return c.queue.Dequeue(ctx, adminEmail, id)
	})
}

// verify re-reads the canonical status after a transition reported success.
func (c *Coordinator) verify(ctx context.Context, id string, want domain.Status) error {
	sub, err := c.submissions.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("verify transition: %w", err)
	}
	if sub.Status != want {
		return fmt.Errorf("verify transition: stored status is %s, want %s: %w", sub.Status, want, domain.ErrConflict)
	}
	return nil
}

func (c *Coordinator) run(ctx context.Context, adminEmail string, ids []string, fn func(ctx context.Context, id string) error) (*BulkResult, error) {
	if len(ids) == 0 {
		return nil, fmt.Errorf("no submissions selected: %w", domain.ErrEmptySelection)
	}
	if c.maxItems > 0 && len(ids) > c.maxItems {
		return nil, fmt.Errorf("selection of %d exceeds limit of %d: %w", len(ids), c.maxItems, domain.ErrPreconditionFailed)
	}

	results := make([]ItemResult, len(ids))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.concurrency)
	for i, id := range ids {
		i, id := i, id
		g.Go(func() error {
			itemCtx := gctx
			if c.itemTimeout > 0 {
				var cancel context.CancelFunc
				itemCtx, cancel = context.WithTimeout(gctx, c.itemTimeout)
				defer cancel()
			}
			err := fn(itemCtx, id)
			if errors.Is(err, context.DeadlineExceeded) {
				err = fmt.Errorf("%w: item exceeded %s", domain.ErrTimeout, c.itemTimeout)
			}
			item := ItemResult{SubmissionID: id, Outcome: OutcomeSuccess}
			if err != nil {
				item.Outcome = OutcomeFailure
				item.ErrorDetail = err.Error()
				item.err = err
			}
			mu.Lock()
			results[i] = item
			mu.Unlock()
			return nil
		})
	}
	// Item errors are captured per slot, never returned from the group.
	_ = g.Wait()

	res := &BulkResult{Items: results}
	storeDown := true
	for _, item := range results {
		if item.Outcome == OutcomeSuccess {
			res.SuccessCount++
			res.SucceededIDs = append(res.SucceededIDs, item.SubmissionID)
			storeDown = false
			continue
		}
		res.FailureCount++
		if !errors.Is(item.err, domain.ErrStoreUnavailable) {
			storeDown = false
		}
	}
	if storeDown {
		// Every item failed the same way: the store itself is gone, which is
		// a batch-level fault rather than a partial result.
		return nil, fmt.Errorf("bulk operation: %w", domain.ErrStoreUnavailable)
	}
	c.logger.Info().
		Str("admin", adminEmail).
		Int("selected", len(ids)).
		Int("succeeded", res.SuccessCount).
		Int("failed", res.FailureCount).
		Msg("bulk operation finished")
	return res, nil
}
