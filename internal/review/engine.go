// Package review implements the submission validation workflow: the status
// transition engine, the per-admin validation queue, and the bulk operation
// coordinator.
package review

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"server/internal/domain"
)

// Engine is the single authority that moves a submission's status. All
// terminal transitions go through it; nothing else writes submission state.
type Engine struct {
	submissions domain.SubmissionRepository
	logger      zerolog.Logger
}

// NewEngine creates a status transition engine.
func NewEngine(submissions domain.SubmissionRepository, logger zerolog.Logger) *Engine {
	return &Engine{submissions: submissions, logger: logger}
}

// Validate moves a pending submission to validated and clears it from every
// admin's queue. Re-validating an already validated submission is an
// idempotent no-op so duplicate client retries stay harmless; the outcome
// tells the two cases apart for callers that care.
func (e *Engine) Validate(ctx context.Context, id, adminEmail string) (*domain.Submission, domain.TransitionOutcome, error) {
	if err := requireIdentity(id, adminEmail); err != nil {
		return nil, 0, err
	}
	outcome, err := e.submissions.Validate(ctx, id, adminEmail)
	if err != nil {
		return nil, 0, err
	}
	sub, err := e.submissions.GetByID(ctx, id)
	if err != nil {
		return nil, 0, fmt.Errorf("reload after validate: %w", err)
	}
	e.logger.Info().
		Str("submission_id", id).
		Str("admin", adminEmail).
		Bool("repeat", outcome == domain.TransitionAlreadyDone).
		Msg("submission validated")
	return sub, outcome, nil
}

// Reject moves a pending submission to rejected. At least one of reason and
// feedback must be present; rejecting with neither fails the precondition and
// changes nothing.
func (e *Engine) Reject(ctx context.Context, id, adminEmail string, reason *domain.RejectionReason, feedback string) (*domain.Submission, domain.TransitionOutcome, error) {
	if err := requireIdentity(id, adminEmail); err != nil {
		return nil, 0, err
	}
	feedback = strings.TrimSpace(feedback)
	if reason == nil && feedback == "" {
		return nil, 0, fmt.Errorf("reject requires a reason or feedback: %w", domain.ErrPreconditionFailed)
	}
	outcome, err := e.submissions.Reject(ctx, id, adminEmail, reason, feedback)
	if err != nil {
		return nil, 0, err
	}
	sub, err := e.submissions.GetByID(ctx, id)
	if err != nil {
		return nil, 0, fmt.Errorf("reload after reject: %w", err)
	}
	event := e.logger.Info().
		Str("submission_id", id).
		Str("admin", adminEmail).
		Bool("repeat", outcome == domain.TransitionAlreadyDone)
	if reason != nil {
		event = event.Str("reason", string(*reason))
	}
	event.Msg("submission rejected")
	return sub, outcome, nil
}

func requireIdentity(id, adminEmail string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("submission id required: %w", domain.ErrPreconditionFailed)
	}
	if strings.TrimSpace(adminEmail) == "" {
		return fmt.Errorf("admin identity required: %w", domain.ErrPreconditionFailed)
	}
	return nil
}
