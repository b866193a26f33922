// Package admin exposes a read-only dashboard API over the application
// pipeline: aggregate statistics, the pending queue, and the audit trail.
package admin

import (
	"context"
	"time"

	"consulate/internal/access"
	"consulate/internal/audit"
	"consulate/internal/citizenship"
	"consulate/internal/citizenship/tracker"
)

// ApplicationLister defines the interface for reading the pending queue.
type ApplicationLister interface {
	Pending(ctx context.Context) []*citizenship.Application
	Len(ctx context.Context) int
}

// StatsProvider defines the interface for aggregate application history.
type StatsProvider interface {
	Statistics() tracker.Statistics
	DailyCounts() []tracker.DailyCount
	ActiveUsers() int
}

// AuditReader defines the interface for reading recorded audit events.
type AuditReader interface {
	Recent(ctx context.Context, limit int) ([]audit.Event, error)
}

// RoleConfigurator swaps the privileged role sets at runtime. The gate
// re-reads its provider on every check, so an update takes effect on the
// next interaction without a restart.
type RoleConfigurator interface {
	Update(sets access.RoleSets)
}

// Service provides admin-level operations for monitoring the pipeline.
type Service struct {
	applications ApplicationLister
	stats        StatsProvider
	audit        AuditReader
	roles        RoleConfigurator
}

// NewService creates a new admin service.
func NewService(applications ApplicationLister, stats StatsProvider, auditReader AuditReader, roles RoleConfigurator) *Service {
	return &Service{
		applications: applications,
		stats:        stats,
		audit:        auditReader,
		roles:        roles,
	}
}

// Stats contains overall pipeline statistics.
type Stats struct {
	tracker.Statistics

	PendingQueue int                  `json:"pending_queue"`
	ActiveUsers  int                  `json:"active_users"`
	DailyCounts  []tracker.DailyCount `json:"daily_counts"`
	Timestamp    time.Time            `json:"timestamp"`
}

// PendingApplication is the dashboard view of a queued application.
type PendingApplication struct {
	ID             string    `json:"id"`
	ApplicantID    string    `json:"applicant_id"`
	DisplayName    string    `json:"display_name"`
	RobloxUsername string    `json:"roblox_username"`
	SubmittedAt    time.Time `json:"submitted_at"`
	WaitingHours   float64   `json:"waiting_hours"`
}

// GetStats returns overall pipeline statistics.
func (s *Service) GetStats(ctx context.Context) *Stats {
	return &Stats{
		Statistics:   s.stats.Statistics(),
		PendingQueue: s.applications.Len(ctx),
		ActiveUsers:  s.stats.ActiveUsers(),
		DailyCounts:  s.stats.DailyCounts(),
		Timestamp:    time.Now(),
	}
}

// GetPendingApplications returns the queue ordered oldest first. Form
// answers beyond the Roblox username are deliberately not exposed here;
// review happens in Discord.
func (s *Service) GetPendingApplications(ctx context.Context) []*PendingApplication {
	apps := s.applications.Pending(ctx)
	now := time.Now()

	out := make([]*PendingApplication, 0, len(apps))
	for _, app := range apps {
		out = append(out, &PendingApplication{
			ID:             app.ID.String(),
			ApplicantID:    app.ApplicantID,
			DisplayName:    app.DisplayName,
			RobloxUsername: app.RobloxUsername,
			SubmittedAt:    app.SubmittedAt,
			WaitingHours:   now.Sub(app.SubmittedAt).Hours(),
		})
	}
	return out
}

// GetRecentAuditEvents returns recent audit events across all applicants.
func (s *Service) GetRecentAuditEvents(ctx context.Context, limit int) ([]audit.Event, error) {
	return s.audit.Recent(ctx, limit)
}

// UpdateRoles replaces both privileged role sets. Empty sets are legal
// and fail every privileged check closed.
func (s *Service) UpdateRoles(adminIDs, managerIDs []string) {
	s.roles.Update(access.NewRoleSets(adminIDs, managerIDs))
}
