// Package httptransport wires the bot's HTTP sidecar: the keep-alive
// banner, health probes, Prometheus metrics, and the token-guarded admin
// dashboard API. All application state changes happen over Discord; this
// surface is read-only.
package httptransport

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"consulate/internal/admin"
	"consulate/internal/platform/health"
	"consulate/internal/platform/middleware"
)

// RouterDeps carries everything the sidecar router mounts.
type RouterDeps struct {
	Logger *slog.Logger
	Health *health.Handler
	Admin  *admin.Handler

	// AdminToken guards /admin routes. Empty disables the dashboard API
	// entirely rather than exposing it unauthenticated.
	AdminToken string
}

// NewRouter wires all endpoints with the shared middleware stack.
func NewRouter(deps RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(deps.Logger))
	r.Use(middleware.Timeout(30 * time.Second))

	deps.Health.Register(r)

	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	if deps.AdminToken == "" {
		deps.Logger.Warn("admin api disabled: no admin token configured")
		return r
	}

	r.Group(func(r chi.Router) {
		r.Use(admin.RequireAdminToken(deps.AdminToken, deps.Logger))
		deps.Admin.Register(r)
	})

	return r
}
