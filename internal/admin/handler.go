package admin

import (
	"crypto/subtle"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"consulate/pkg/httputil"
)

// Handler handles admin monitoring and stats endpoints.
type Handler struct {
	service *Service
	logger  *slog.Logger
}

// New creates a new admin handler.
func New(service *Service, logger *slog.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Register registers admin routes with the router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/admin/stats", h.HandleGetStats)
	r.Get("/admin/applications/pending", h.HandleGetPendingApplications)
	r.Get("/admin/audit/recent", h.HandleGetRecentAuditEvents)
	r.Put("/admin/roles", h.HandleUpdateRoles)
}

// RequireAdminToken guards admin routes behind a shared token carried in
// the X-Admin-Token header. Comparison is constant-time.
func RequireAdminToken(expectedToken string, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := r.Header.Get("X-Admin-Token")
			if subtle.ConstantTimeCompare([]byte(token), []byte(expectedToken)) != 1 {
				logger.WarnContext(r.Context(), "admin token mismatch",
					"path", r.URL.Path,
				)
				httputil.WriteJSON(w, http.StatusUnauthorized, map[string]string{
					"error":             "unauthorized",
					"error_description": "admin token required",
				})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// HandleGetStats returns overall pipeline statistics.
func (h *Handler) HandleGetStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	stats := h.service.GetStats(ctx)

	h.logger.InfoContext(ctx, "admin stats retrieved",
		"pending", stats.PendingQueue,
	)

	httputil.WriteJSON(w, http.StatusOK, stats)
}

// HandleGetPendingApplications returns the pending queue, oldest first.
func (h *Handler) HandleGetPendingApplications(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	apps := h.service.GetPendingApplications(ctx)

	h.logger.InfoContext(ctx, "admin pending list retrieved",
		"count", len(apps),
	)

	httputil.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"applications": apps,
		"total":        len(apps),
	})
}

// UpdateRolesRequest carries replacement role id sets.
type UpdateRolesRequest struct {
	AdminRoleIDs              []string `json:"admin_role_ids"`
	CitizenshipManagerRoleIDs []string `json:"citizenship_manager_role_ids"`
}

// HandleUpdateRoles replaces the privileged role sets without a restart.
func (h *Handler) HandleUpdateRoles(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req UpdateRolesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, map[string]string{
			"error": "invalid request body",
		})
		return
	}

	h.service.UpdateRoles(req.AdminRoleIDs, req.CitizenshipManagerRoleIDs)

	h.logger.InfoContext(ctx, "role sets updated",
		"admin_roles", len(req.AdminRoleIDs),
		"citizenship_manager_roles", len(req.CitizenshipManagerRoleIDs),
	)

	httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

// HandleGetRecentAuditEvents returns recent audit events.
func (h *Handler) HandleGetRecentAuditEvents(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	// Parse limit from query parameter, default to 50
	limit := 50
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if parsedLimit, err := strconv.Atoi(limitStr); err == nil && parsedLimit > 0 {
			limit = parsedLimit
		}
	}

	events, err := h.service.GetRecentAuditEvents(ctx, limit)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to get recent audit events",
			"error", err,
		)
		httputil.WriteJSON(w, http.StatusInternalServerError, map[string]string{
			"error": "failed to get audit events",
		})
		return
	}

	h.logger.InfoContext(ctx, "admin audit events retrieved",
		"count", len(events),
	)

	httputil.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"events": events,
		"total":  len(events),
	})
}
