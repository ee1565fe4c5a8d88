package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"server/internal/domain"
	"server/internal/middleware"
	"server/internal/review"
)

// App bundles the review services behind the HTTP surface.
type App struct {
	Engine      *review.Engine
	Queue       *review.QueueService
	Bulk        *review.Coordinator
	Submissions domain.SubmissionRepository
	Comments    domain.CommentRepository
	Logger      zerolog.Logger
}

func NewApp(engine *review.Engine, queue *review.QueueService, bulk *review.Coordinator, submissions domain.SubmissionRepository, comments domain.CommentRepository, logger zerolog.Logger) *App {
	return &App{
		Engine:      engine,
		Queue:       queue,
		Bulk:        bulk,
		Submissions: submissions,
		Comments:    comments,
		Logger:      logger,
	}
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, code int, kind, message string) {
	a.json(w, code, map[string]string{"error": kind, "message": message})
}

// domainError maps the error taxonomy onto HTTP statuses with a
// machine-readable kind, so the dashboard can branch without parsing text.
func (a *App) domainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		a.error(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, domain.ErrEmptySelection):
		a.error(w, http.StatusUnprocessableEntity, "empty_selection", err.Error())
	case errors.Is(err, domain.ErrPreconditionFailed):
		a.error(w, http.StatusUnprocessableEntity, "precondition_failed", err.Error())
	case errors.Is(err, domain.ErrInvalidTransition):
		a.error(w, http.StatusConflict, "invalid_transition", err.Error())
	case errors.Is(err, domain.ErrConflict):
		a.error(w, http.StatusConflict, "conflict", err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		a.error(w, http.StatusUnauthorized, "unauthorized", err.Error())
	case errors.Is(err, domain.ErrTimeout):
		a.error(w, http.StatusGatewayTimeout, "timeout", err.Error())
	case errors.Is(err, domain.ErrStoreUnavailable):
		a.error(w, http.StatusServiceUnavailable, "store_unavailable", err.Error())
	default:
		a.Logger.Error().Err(err).Msg("unhandled error")
		a.error(w, http.StatusInternalServerError, "internal", "internal error")
	}
}

// currentAdmin resolves the acting admin's email: the verified token subject
// when present, otherwise an explicit payload value for trusted internal
// callers that bypass the middleware.
func (a *App) currentAdmin(r *http.Request, fallback string) string {
	if email := middleware.AdminEmailFromContext(r.Context()); email != "" {
		return email
	}
	return fallback
}
