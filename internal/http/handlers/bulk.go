package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"server/internal/domain"
	"server/internal/middleware"
	"server/internal/review"
)

type bulkDecisionRequest struct {
	SubmissionIDs     []string `json:"submissionIds"`
	AdminEmail        string   `json:"adminEmail"`
	RejectionReason   *string  `json:"rejectionReason"`
	RejectionFeedback string   `json:"rejectionFeedback"`
}

// BulkValidate validates many submissions at once. Items succeed and fail
// independently; the response reports both counts and per-item detail.
func (a *App) BulkValidate(w http.ResponseWriter, r *http.Request) {
	var req bulkDecisionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	admin := a.currentAdmin(r, req.AdminEmail)
	if admin == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing admin identity")
		return
	}
	res, err := a.Bulk.ValidateAll(r.Context(), admin, req.SubmissionIDs)
	if err != nil {
		a.domainError(w, err)
		return
	}
	a.auditBulk(r, admin, "bulk_validate", res)
	a.json(w, http.StatusOK, bulkJSON(res))
}

// BulkReject rejects many submissions with one shared reason/feedback.
func (a *App) BulkReject(w http.ResponseWriter, r *http.Request) {
	var req bulkDecisionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	admin := a.currentAdmin(r, req.AdminEmail)
	if admin == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing admin identity")
		return
	}

	var reason *domain.RejectionReason
	if req.RejectionReason != nil && strings.TrimSpace(*req.RejectionReason) != "" {
		parsed, err := domain.ParseRejectionReason(*req.RejectionReason)
		if err != nil {
			a.error(w, http.StatusBadRequest, "bad_request", err.Error())
			return
		}
		reason = &parsed
	}

	res, err := a.Bulk.RejectAll(r.Context(), admin, req.SubmissionIDs, reason, strings.TrimSpace(req.RejectionFeedback))
	if err != nil {
		a.domainError(w, err)
		return
	}
	a.auditBulk(r, admin, "bulk_reject", res)
	a.json(w, http.StatusOK, bulkJSON(res))
}

// auditBulk records a bulk decision with its counts. Bulk actions have no
// single submission id, so the audit line carries the outcome tallies instead.
func (a *App) auditBulk(r *http.Request, admin, action string, res *review.BulkResult) {
	event := a.Logger.Info().
		Str("admin", admin).
		Str("action", action).
		Int("success_count", res.SuccessCount).
		Int("failure_count", res.FailureCount)
	if country := middleware.CountryFromContext(r.Context()); country != "" {
		event = event.Str("origin_country", country)
	}
	event.Msg("admin decision")
}
