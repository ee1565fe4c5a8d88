package handlers

import (
	"encoding/json"
	"net/http"

	"server/internal/review"
)

type queueRequest struct {
	SubmissionID  string   `json:"submissionId"`
	SubmissionIDs []string `json:"submissionIds"`
	AdminEmail    string   `json:"adminEmail"`
}

// QueueAdd enqueues one or many submissions for the acting admin. The single
// form surfaces hard errors; the batch form always answers with per-item
// outcomes.
func (a *App) QueueAdd(w http.ResponseWriter, r *http.Request) {
	var req queueRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	admin := a.currentAdmin(r, req.AdminEmail)
	if admin == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing admin identity")
		return
	}

	if len(req.SubmissionIDs) > 0 {
		res, err := a.Bulk.EnqueueAll(r.Context(), admin, req.SubmissionIDs)
		if err != nil {
			a.domainError(w, err)
			return
		}
		a.json(w, http.StatusOK, bulkJSON(res))
		return
	}

	if err := a.Queue.Enqueue(r.Context(), admin, req.SubmissionID); err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusCreated, map[string]any{
		"submission_id": req.SubmissionID,
		"admin_email":   admin,
	})
}

// QueueRemove dequeues one or many submissions without deciding an outcome.
func (a *App) QueueRemove(w http.ResponseWriter, r *http.Request) {
	var req queueRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	admin := a.currentAdmin(r, req.AdminEmail)
	if admin == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing admin identity")
		return
	}

	if len(req.SubmissionIDs) > 0 {
		res, err := a.Bulk.DequeueAll(r.Context(), admin, req.SubmissionIDs)
		if err != nil {
			a.domainError(w, err)
			return
		}
		a.json(w, http.StatusOK, bulkJSON(res))
		return
	}

	if err := a.Queue.Dequeue(r.Context(), admin, req.SubmissionID); err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusOK, map[string]any{
		"submission_id": req.SubmissionID,
		"admin_email":   admin,
	})
}

// QueueList returns the admin's queued submission references, oldest first.
func (a *App) QueueList(w http.ResponseWriter, r *http.Request) {
	admin := a.currentAdmin(r, r.URL.Query().Get("adminEmail"))
	if admin == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing admin identity")
		return
	}
	entries, err := a.Queue.ListForAdmin(r.Context(), admin)
	if err != nil {
		a.domainError(w, err)
		return
	}
	items := make([]map[string]any, 0, len(entries))
	for _, entry := range entries {
		items = append(items, map[string]any{
			"submission_id": entry.SubmissionID,
			"queued_at":     entry.CreatedAt,
		})
	}
	a.json(w, http.StatusOK, map[string]any{"admin_email": admin, "items": items})
}

func bulkJSON(res *review.BulkResult) map[string]any {
	items := make([]map[string]any, 0, len(res.Items))
	for _, item := range res.Items {
		entry := map[string]any{
			"submission_id": item.SubmissionID,
			"outcome":       string(item.Outcome),
		}
		if item.ErrorDetail != "" {
			entry["error"] = item.ErrorDetail
		}
		items = append(items, entry)
	}
	succeeded := res.SucceededIDs
	if succeeded == nil {
		succeeded = []string{}
	}
	return map[string]any{
		"success_count": res.SuccessCount,
		"failure_count": res.FailureCount,
		"succeeded_ids": succeeded,
		"items":         items,
	}
}
