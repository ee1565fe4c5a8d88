package domain

import "time"

// QueueEntry records that an admin has claimed a submission for review.
// Entries are keyed by (SubmissionID, AdminEmail) and ordered FIFO by
// CreatedAt within one admin's queue.
type QueueEntry struct {
	SubmissionID string
	AdminEmail   string
	CreatedAt    time.Time
}

// ClaimPolicy controls whether several admins may queue the same submission.
type ClaimPolicy string

const (
	// ClaimAdvisory allows multiple admins to queue the same submission;
	// duplicate review effort is accepted.
	ClaimAdvisory ClaimPolicy = "advisory"
	// ClaimExclusive gives the first admin the claim; later enqueues by other
	// admins fail with ErrConflict.
	ClaimExclusive ClaimPolicy = "exclusive"
)

// ParseClaimPolicy validates a raw claim policy string, defaulting to advisory.
func ParseClaimPolicy(raw string) ClaimPolicy {
	if ClaimPolicy(raw) == ClaimExclusive {
		return ClaimExclusive
	}
	return ClaimAdvisory
}
