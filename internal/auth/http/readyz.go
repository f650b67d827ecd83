package http

import (
	"net/http"
	"time"

	"github.com/univc/univc-auth/internal/auth/store"
	"github.com/univc/univc-auth/pkg/httpx"
)

// ReadyzHandler is the readiness probe. It reports degraded with a 503 when
// the token store is unreachable, since every auth operation needs it.
func ReadyzHandler(startTime time.Time, version string, st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		checks := &HealthChecks{Database: "ok"}
		status := "ok"
		code := http.StatusOK

		if err := st.Ping(r.Context()); err != nil {
			checks.Database = "error: " + err.Error()
			status = "degraded"
			code = http.StatusServiceUnavailable
		}

		httpx.WriteJSON(w, code, HealthResponse{
			Status:  status,
			Uptime:  time.Since(startTime).String(),
			Version: version,
			Checks:  checks,
		})
	}
}
