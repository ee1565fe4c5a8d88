package domain

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Status enumerates the canonical submission lifecycle states.
type Status string

const (
	StatusPending   Status = "pending"
	StatusQueued    Status = "queued"
	StatusValidated Status = "validated"
	StatusRejected  Status = "rejected"
)

// statusAliases maps the legacy spellings found in stored rows and older
// clients onto the canonical states. Writes always use the canonical form;
// normalization happens once, at the store boundary.
var statusAliases = map[string]Status{
	"pending":    StatusPending,
	"processing": StatusPending,
	"submitted":  StatusPending,
	"queued":     StatusQueued,
	"validated":  StatusValidated,
	"successful": StatusValidated,
	"rejected":   StatusRejected,
	"failed":     StatusRejected,
}

// ParseStatus normalizes a raw status string to its canonical state.
func ParseStatus(raw string) (Status, error) {
	s, ok := statusAliases[strings.ToLower(strings.TrimSpace(raw))]
	if !ok {
		return "", fmt.Errorf("unknown submission status %q", raw)
	}
	return s, nil
}

// IsTerminal reports whether no further transition is permitted from s.
func (s Status) IsTerminal() bool {
	return s == StatusValidated || s == StatusRejected
}

// FileType enumerates supported submission file categories.
type FileType string

const (
	FileTypeImage    FileType = "image"
	FileTypeAudio    FileType = "audio"
	FileTypeVideo    FileType = "video"
	FileTypeDocument FileType = "document"
)

// ParseFileType validates a raw file type string.
func ParseFileType(raw string) (FileType, error) {
	switch ft := FileType(strings.ToLower(strings.TrimSpace(raw))); ft {
	case FileTypeImage, FileTypeAudio, FileTypeVideo, FileTypeDocument:
		return ft, nil
	default:
		return "", fmt.Errorf("unknown file type %q", raw)
	}
}

// RejectionReason enumerates the structured reasons an admin can attach to a
// rejection. Free-text feedback rides alongside in RejectionFeedback.
type RejectionReason string

const (
	ReasonDataQuality          RejectionReason = "data_quality"
	ReasonFormatIncorrect      RejectionReason = "format_incorrect"
	ReasonContentInappropriate RejectionReason = "content_inappropriate"
	ReasonDuplicate            RejectionReason = "duplicate"
	ReasonMetadataMissing      RejectionReason = "metadata_missing"
	ReasonOther                RejectionReason = "other"
)

// ParseRejectionReason validates a raw rejection reason string.
func ParseRejectionReason(raw string) (RejectionReason, error) {
	switch r := RejectionReason(strings.ToLower(strings.TrimSpace(raw))); r {
	case ReasonDataQuality, ReasonFormatIncorrect, ReasonContentInappropriate,
		ReasonDuplicate, ReasonMetadataMissing, ReasonOther:
		return r, nil
	default:
		return "", fmt.Errorf("unknown rejection reason %q", raw)
	}
}

var reasonTitler = cases.Title(language.English)

// Label returns the human-readable form of the reason for dashboards and
// notification templates ("data_quality" -> "Data Quality").
func (r RejectionReason) Label() string {
	return reasonTitler.String(strings.ReplaceAll(string(r), "_", " "))
}

// Submission is one uploaded data file's record and its review lifecycle.
// Binary content lives with the upload collaborator; this core only tracks
// the descriptive metadata and the review state.
type Submission struct {
	ID                string
	Status            Status
	FileName          string
	FileType          FileType
	FileSize          int64
	UserEmail         string
	RejectionReason   *RejectionReason
	RejectionFeedback string
	DecidedBy         string
	DecidedAt         *time.Time
	QueueCount        int
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// PresentedStatus is the status shown to dashboards: a pending submission
// sitting in at least one admin's queue reads as queued. Stored status stays
// pending until a terminal decision, so queue membership remains a
// queue-entry concept rather than a second source of truth.
func (s *Submission) PresentedStatus() Status {
	if s.Status == StatusPending && s.QueueCount > 0 {
		return StatusQueued
	}
	return s.Status
}
