package admin

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"consulate/internal/access"
	"consulate/internal/audit"
	"consulate/internal/citizenship"
	"consulate/internal/citizenship/store"
	"consulate/internal/citizenship/tracker"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func pendingApp(applicantID, displayName, roblox string, submittedAt time.Time) *citizenship.Application {
	return &citizenship.Application{
		ID:             uuid.New(),
		ApplicantID:    applicantID,
		DisplayName:    displayName,
		RobloxUsername: roblox,
		Motivation:     "I want to live here",
		Status:         citizenship.StatusPending,
		SubmittedAt:    submittedAt,
	}
}

func newTestHandler(t *testing.T) (*Handler, *store.InMemory, *tracker.Tracker, *audit.InMemoryStore, *access.MutableProvider) {
	t.Helper()
	apps := store.NewInMemory()
	hist := tracker.New()
	trail := audit.NewInMemoryStore()
	roles := access.NewMutableProvider(access.NewRoleSets(nil, nil))
	svc := NewService(apps, hist, trail, roles)
	return New(svc, discardLogger()), apps, hist, trail, roles
}

func TestHandleGetStats(t *testing.T) {
	h, apps, hist, _, _ := newTestHandler(t)
	ctx := context.Background()

	submitted := pendingApp("u-1", "Ada", "ada_rbx", time.Now().Add(-2*time.Hour))
	apps.Put(ctx, submitted)
	hist.RecordSubmitted(*submitted)

	resolved := *pendingApp("u-2", "Brin", "brin_rbx", time.Now().Add(-4*time.Hour))
	hist.RecordSubmitted(resolved)
	resolved.Status = citizenship.StatusApproved
	resolved.ResolvedAt = time.Now()
	hist.RecordResolved(resolved)

	rec := httptest.NewRecorder()
	h.HandleGetStats(rec, httptest.NewRequest(http.MethodGet, "/admin/stats", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var got Stats
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, 2, got.Total)
	assert.Equal(t, 1, got.Approved)
	assert.Equal(t, 1, got.PendingQueue)
	assert.InDelta(t, 50.0, got.ApprovalRate, 0.01)
	assert.False(t, got.Timestamp.IsZero())
}

func TestHandleGetPendingApplicationsOrdersOldestFirst(t *testing.T) {
	h, apps, _, _, _ := newTestHandler(t)
	ctx := context.Background()

	apps.Put(ctx, pendingApp("u-new", "New", "new_rbx", time.Now().Add(-time.Hour)))
	apps.Put(ctx, pendingApp("u-old", "Old", "old_rbx", time.Now().Add(-48*time.Hour)))

	rec := httptest.NewRecorder()
	h.HandleGetPendingApplications(rec, httptest.NewRequest(http.MethodGet, "/admin/applications/pending", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var got struct {
		Applications []*PendingApplication `json:"applications"`
		Total        int                   `json:"total"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Equal(t, 2, got.Total)
	assert.Equal(t, "u-old", got.Applications[0].ApplicantID)
	assert.Equal(t, "u-new", got.Applications[1].ApplicantID)
	assert.Greater(t, got.Applications[0].WaitingHours, got.Applications[1].WaitingHours)
	// Full form answers stay in Discord; only the Roblox handle is exposed.
	assert.Equal(t, "old_rbx", got.Applications[0].RobloxUsername)
}

func TestHandleGetRecentAuditEventsHonorsLimit(t *testing.T) {
	h, _, _, trail, _ := newTestHandler(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		require.NoError(t, trail.Append(ctx, audit.Event{
			ID:          uuid.New(),
			Timestamp:   time.Now(),
			Action:      string(audit.EventApplicationSubmitted),
			ApplicantID: "u-1",
		}))
	}

	rec := httptest.NewRecorder()
	h.HandleGetRecentAuditEvents(rec, httptest.NewRequest(http.MethodGet, "/admin/audit/recent?limit=3", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var got struct {
		Events []audit.Event `json:"events"`
		Total  int           `json:"total"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Len(t, got.Events, 3)
	assert.Equal(t, 3, got.Total)
}

func TestHandleUpdateRolesSwapsRoleSets(t *testing.T) {
	h, _, _, _, roles := newTestHandler(t)

	r := chi.NewRouter()
	h.Register(r)

	gate := access.NewGate(roles)
	require.False(t, gate.HasAdmin([]string{"a1"}))

	body := strings.NewReader(`{"admin_role_ids":["a1"],"citizenship_manager_role_ids":["m1"]}`)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/admin/roles", body))
	require.Equal(t, http.StatusOK, rec.Code)

	// The gate reads the provider on every check, so the swap is live
	// without a restart.
	assert.True(t, gate.HasAdmin([]string{"a1"}))
	assert.True(t, gate.HasCitizenshipPermission([]string{"m1"}))
	assert.False(t, gate.HasAdmin([]string{"m1"}))

	t.Run("malformed body rejected", func(t *testing.T) {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/admin/roles", strings.NewReader("{not json")))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestRequireAdminToken(t *testing.T) {
	h, _, _, _, _ := newTestHandler(t)

	r := chi.NewRouter()
	r.Group(func(r chi.Router) {
		r.Use(RequireAdminToken("sekrit", discardLogger()))
		h.Register(r)
	})

	t.Run("missing token rejected", func(t *testing.T) {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin/stats", nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("wrong token rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/admin/stats", nil)
		req.Header.Set("X-Admin-Token", "guess")
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("valid token passes", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/admin/stats", nil)
		req.Header.Set("X-Admin-Token", "sekrit")
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}
