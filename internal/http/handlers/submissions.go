package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"server/internal/domain"
	"server/internal/middleware"
)

type submissionCreateRequest struct {
	FileName  string `json:"fileName"`
	FileType  string `json:"fileType"`
	FileSize  int64  `json:"fileSize"`
	UserEmail string `json:"userEmail"`
}

type decisionRequest struct {
	AdminEmail        string  `json:"adminEmail"`
	RejectionReason   *string `json:"rejectionReason"`
	RejectionFeedback string  `json:"rejectionFeedback"`
}

// SubmissionsCreate registers an uploaded file's metadata as a pending
// submission. The binary itself never passes through this service.
func (a *App) SubmissionsCreate(w http.ResponseWriter, r *http.Request) {
	var req submissionCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if strings.TrimSpace(req.FileName) == "" || strings.TrimSpace(req.UserEmail) == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "fileName and userEmail are required")
		return
	}
	fileType, err := domain.ParseFileType(req.FileType)
	if err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}
	sub := &domain.Submission{
		ID:        uuid.NewString(),
		Status:    domain.StatusPending,
		FileName:  req.FileName,
		FileType:  fileType,
		FileSize:  req.FileSize,
		UserEmail: req.UserEmail,
	}
	if err := a.Submissions.Create(r.Context(), sub); err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusCreated, map[string]any{"id": sub.ID, "status": string(sub.Status)})
}

// SubmissionsGet returns the current record including rejection metadata.
func (a *App) SubmissionsGet(w http.ResponseWriter, r *http.Request) {
	sub, err := a.Submissions.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusOK, submissionJSON(sub))
}

// SubmissionsList serves the filtered listings; the status path segment
// accepts legacy spellings and normalizes them.
func (a *App) SubmissionsList(w http.ResponseWriter, r *http.Request) {
	status, err := domain.ParseStatus(chi.URLParam(r, "status"))
	if err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}
	subs, err := a.Submissions.ListByStatus(r.Context(), status)
	if err != nil {
		a.domainError(w, err)
		return
	}
	items := make([]map[string]any, 0, len(subs))
	for i := range subs {
		items = append(items, submissionJSON(&subs[i]))
	}
	a.json(w, http.StatusOK, map[string]any{"items": items})
}

// SubmissionsValidate moves a submission to validated. Repeats are reported
// as success so a double-clicked approve button stays harmless.
func (a *App) SubmissionsValidate(w http.ResponseWriter, r *http.Request) {
	var req decisionRequest
	_ = json.NewDecoder(r.Body).Decode(&req)
	admin := a.currentAdmin(r, req.AdminEmail)

	sub, outcome, err := a.Engine.Validate(r.Context(), chi.URLParam(r, "id"), admin)
	if err != nil {
		a.domainError(w, err)
		return
	}
	a.auditDecision(r, sub.ID, admin, "validate")
	a.json(w, http.StatusOK, map[string]any{
		"submission": submissionJSON(sub),
		"repeat":     outcome == domain.TransitionAlreadyDone,
	})
}

// SubmissionsReject moves a submission to rejected. A reason or feedback is
// required; neither means the request fails before touching the row.
func (a *App) SubmissionsReject(w http.ResponseWriter, r *http.Request) {
	var req decisionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	admin := a.currentAdmin(r, req.AdminEmail)

	var reason *domain.RejectionReason
	if req.RejectionReason != nil && strings.TrimSpace(*req.RejectionReason) != "" {
		parsed, err := domain.ParseRejectionReason(*req.RejectionReason)
		if err != nil {
			a.error(w, http.StatusBadRequest, "bad_request", err.Error())
			return
		}
		reason = &parsed
	}

	sub, outcome, err := a.Engine.Reject(r.Context(), chi.URLParam(r, "id"), admin, reason, req.RejectionFeedback)
	if err != nil {
		a.domainError(w, err)
		return
	}
	a.auditDecision(r, sub.ID, admin, "reject")
	a.json(w, http.StatusOK, map[string]any{
		"submission": submissionJSON(sub),
		"repeat":     outcome == domain.TransitionAlreadyDone,
	})
}

// auditDecision records where the admin acted from alongside the decision.
func (a *App) auditDecision(r *http.Request, submissionID, admin, action string) {
	event := a.Logger.Info().
		Str("submission_id", submissionID).
		Str("admin", admin).
		Str("action", action)
	if country := middleware.CountryFromContext(r.Context()); country != "" {
		event = event.Str("origin_country", country)
	}
	event.Msg("admin decision")
}

func submissionJSON(sub *domain.Submission) map[string]any {
	out := map[string]any{
		"id":         sub.ID,
		"status":     string(sub.PresentedStatus()),
		"file_name":  sub.FileName,
		"file_type":  string(sub.FileType),
		"file_size":  sub.FileSize,
		"user_email": sub.UserEmail,
		"created_at": sub.CreatedAt,
		"updated_at": sub.UpdatedAt,
	}
	if sub.RejectionReason != nil {
		out["rejection_reason"] = string(*sub.RejectionReason)
		out["rejection_reason_label"] = sub.RejectionReason.Label()
	}
	if sub.RejectionFeedback != "" {
		out["rejection_feedback"] = sub.RejectionFeedback
	}
	if sub.DecidedBy != "" {
		out["decided_by"] = sub.DecidedBy
	}
	if sub.DecidedAt != nil {
		out["decided_at"] = sub.DecidedAt
	}
	return out
}
