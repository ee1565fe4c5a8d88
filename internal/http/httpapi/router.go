package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"server/internal/http/handlers"
	"server/internal/middleware"
)

// Options carries the router's cross-cutting settings.
type Options struct {
	Logger          zerolog.Logger
	AdminJWTSecret  string
	AllowedOrigins  []string
	RateLimitPerMin int
	CountryLookup   middleware.CountryLookup
}

// NewRouter builds the HTTP surface. Contributor-facing routes (create, read,
// comment) need no admin token; everything that claims or decides a
// submission sits behind admin auth.
func NewRouter(app *handlers.App, opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.RequestID,
		chimw.RealIP,
		chimw.Recoverer,
		middleware.Logger(opts.Logger),
		middleware.CORS(opts.AllowedOrigins),
		middleware.Origin(opts.CountryLookup),
	)

	// Behind AdminAuth the limiter keys on the verified admin identity rather
	// than the client address.
	limited := func(r chi.Router) {
		if opts.RateLimitPerMin > 0 {
			r.Use(middleware.RateLimit(opts.RateLimitPerMin, time.Minute))
		}
	}

	r.Get("/v1/healthz", app.Health)

	r.Route("/submissions", func(r chi.Router) {
		r.Post("/", app.SubmissionsCreate)
		r.Get("/{status:pending|queued|validated|successful|rejected|failed|processing|submitted}", app.SubmissionsList)
		r.Get("/{id}", app.SubmissionsGet)
		r.Get("/{id}/comments", app.CommentsList)
		r.Post("/{id}/comments", app.CommentsCreate)

		r.Group(func(r chi.Router) {
			r.Use(middleware.AdminAuth(opts.AdminJWTSecret))
			limited(r)
			r.Post("/{id}/validate", app.SubmissionsValidate)
			r.Post("/{id}/reject", app.SubmissionsReject)
			r.Post("/bulk/validate", app.BulkValidate)
			r.Post("/bulk/reject", app.BulkReject)
		})
	})

	r.Route("/validation-queue", func(r chi.Router) {
		r.Use(middleware.AdminAuth(opts.AdminJWTSecret))
		limited(r)
		r.Get("/", app.QueueList)
		r.Post("/", app.QueueAdd)
		r.Delete("/", app.QueueRemove)
	})

	return r
}
