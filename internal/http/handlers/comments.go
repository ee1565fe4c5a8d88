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

type commentRequest struct {
	AuthorEmail string `json:"authorEmail"`
	AuthorType  string `json:"authorType"`
	Text        string `json:"text"`
}

// CommentsCreate appends a comment to a submission's discussion thread.
func (a *App) CommentsCreate(w http.ResponseWriter, r *http.Request) {
	var req commentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		a.error(w, http.StatusUnprocessableEntity, "precondition_failed", "comment text must not be empty")
		return
	}

	authorType := domain.AuthorType(req.AuthorType)
	authorEmail := req.AuthorEmail
	if admin := middleware.AdminEmailFromContext(r.Context()); admin != "" {
		authorType = domain.AuthorAdmin
		authorEmail = admin
	}
	if authorType != domain.AuthorUser && authorType != domain.AuthorAdmin {
		a.error(w, http.StatusBadRequest, "bad_request", "authorType must be user or admin")
		return
	}
	if strings.TrimSpace(authorEmail) == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "authorEmail is required")
		return
	}

	comment := &domain.Comment{
		ID:           uuid.NewString(),
		SubmissionID: chi.URLParam(r, "id"),
		AuthorEmail:  authorEmail,
		AuthorType:   authorType,
		Text:         req.Text,
	}
	if err := a.Comments.Append(r.Context(), comment); err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusCreated, commentJSON(comment))
}

// CommentsList returns the thread in creation order. The read never mutates
// and can be safely retried.
func (a *App) CommentsList(w http.ResponseWriter, r *http.Request) {
	comments, err := a.Comments.ListBySubmission(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		a.domainError(w, err)
		return
	}
	items := make([]map[string]any, 0, len(comments))
	for i := range comments {
		items = append(items, commentJSON(&comments[i]))
	}
	a.json(w, http.StatusOK, map[string]any{"items": items})
}

func commentJSON(c *domain.Comment) map[string]any {
	return map[string]any{
		"id":            c.ID,
		"submission_id": c.SubmissionID,
		"author_email":  c.AuthorEmail,
		"author_type":   string(c.AuthorType),
		"text":          c.Text,
		"created_at":    c.CreatedAt,
	}
}
