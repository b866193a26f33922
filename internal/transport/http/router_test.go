package httptransport

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"consulate/internal/access"
	"consulate/internal/admin"
	"consulate/internal/audit"
	"consulate/internal/citizenship/store"
	"consulate/internal/citizenship/tracker"
	"consulate/internal/platform/health"
)

func newTestRouter(adminToken string) http.Handler {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	roles := access.NewMutableProvider(access.NewRoleSets(nil, nil))
	adminSvc := admin.NewService(store.NewInMemory(), tracker.New(), audit.NewInMemoryStore(), roles)
	return NewRouter(RouterDeps{
		Logger:     logger,
		Health:     health.New("test"),
		Admin:      admin.New(adminSvc, logger),
		AdminToken: adminToken,
	})
}

func TestRouterServesKeepAliveBanner(t *testing.T) {
	r := newTestRouter("tok")

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "alive")
}

func TestRouterServesHealthAndMetrics(t *testing.T) {
	r := newTestRouter("tok")

	for _, path := range []string{"/health", "/health/live", "/health/ready", "/metrics"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, rec.Code, path)
	}
}

func TestRouterGuardsAdminRoutes(t *testing.T) {
	r := newTestRouter("tok")

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin/stats", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/admin/stats", nil)
	req.Header.Set("X-Admin-Token", "tok")
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouterOmitsAdminWithoutToken(t *testing.T) {
	r := newTestRouter("")

	req := httptest.NewRequest(http.MethodGet, "/admin/stats", nil)
	req.Header.Set("X-Admin-Token", "anything")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
