package handlers

import (
	"net/http"
)

// Health answers liveness probes with the service's identity, so a dashboard
// pinging several backends can tell which one responded.
func (a *App) Health(w http.ResponseWriter, r *http.Request) {
	a.json(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"service": "submission-review",
	})
}
