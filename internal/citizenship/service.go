package citizenship

import (
	"context"
	"log/slog"
	"time"

	"consulate/internal/audit"
	"consulate/internal/platform/metrics"
	dErrors "consulate/pkg/domain-errors"
	keyedsync "consulate/pkg/platform/sync"
)

// EventKind names a lifecycle transition for notification purposes.
type EventKind string

const (
	KindSubmitted EventKind = "submitted"
	KindApproved  EventKind = "approved"
	KindRejected  EventKind = "rejected"
)

// Store is the pending-application mapping. Implementations do not enforce
// duplicate prevention; the service owns that invariant.
type Store interface {
	Put(ctx context.Context, app *Application)
	Get(ctx context.Context, applicantID string) (*Application, bool)
	Remove(ctx context.Context, applicantID string) bool
	Len(ctx context.Context) int
}

// PermissionGate evaluates role-set predicates for privileged transitions.
type PermissionGate interface {
	HasAdmin(roleIDs []string) bool
	HasCitizenshipPermission(roleIDs []string) bool
}

// Notifier delivers status messages to the applicant and the public
// channels. Delivery is best-effort: implementations log failures and
// never report them back.
type Notifier interface {
	Notify(ctx context.Context, kind EventKind, app *Application, actor Actor)
}

// AuditPublisher records structured audit entries for lifecycle actions.
type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// HistoryRecorder receives copies of applications for analytics. The store
// forgets resolved applications; the recorder is the only component that
// remembers them.
type HistoryRecorder interface {
	RecordSubmitted(app Application)
	RecordResolved(app Application)
	RecordStatusCheck(applicantID, displayName string)
}

// Service orchestrates the three legal transitions: submit, approve,
// reject. Each operation runs in a per-applicant critical section so a
// concurrent approve and reject for the same applicant resolve to exactly
// one winner; the loser observes not_found.
type Service struct {
	store    Store
	gate     PermissionGate
	notifier Notifier
	auditor  AuditPublisher

	history HistoryRecorder
	metrics *metrics.Metrics
	logger  *slog.Logger
	now     func() time.Time

	keyed *keyedsync.KeyedMutex
}

// Option configures the Service.
type Option func(*Service)

// WithHistory sets the analytics recorder.
func WithHistory(h HistoryRecorder) Option {
	return func(s *Service) { s.history = h }
}

// WithMetrics sets the metrics collector.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// WithClock overrides the time source for deterministic tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// New creates the lifecycle service with required dependencies.
// Panics if a required dependency is nil - fail fast at startup. The gate
// is required so no transition can bypass access control; the auditor is
// required so every transition leaves a trail.
func New(store Store, gate PermissionGate, notifier Notifier, auditor AuditPublisher, opts ...Option) *Service {
	if store == nil {
		panic("citizenship.New: store is required")
	}
	if gate == nil {
		panic("citizenship.New: permission gate is required")
	}
	if notifier == nil {
		panic("citizenship.New: notifier is required")
	}
	if auditor == nil {
		panic("citizenship.New: auditor is required for the audit trail")
	}

	s := &Service{
		store:    store,
		gate:     gate,
		notifier: notifier,
		auditor:  auditor,
		now:      time.Now,
		keyed:    keyedsync.NewKeyedMutex(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Submit creates a pending application for the applicant.
//
// Errors: CodeBadRequest for invalid form fields, CodeDuplicatePending if
// the applicant already has a pending application. No state changes on
// error.
func (s *Service) Submit(ctx context.Context, applicantID, displayName string, form Form) (*Application, error) {
	if err := form.normalized().Validate(); err != nil {
		return nil, err
	}

	var (
		app    *Application
		subErr error
	)
	s.keyed.Do(applicantID, func() {
		if _, exists := s.store.Get(ctx, applicantID); exists {
			subErr = dErrors.New(dErrors.CodeDuplicatePending, "a pending application already exists for this applicant")
			return
		}
		app = newApplication(applicantID, displayName, form, s.now())
		s.store.Put(ctx, app)
	})
	if subErr != nil {
		return nil, subErr
	}

	s.logInfo(ctx, "application submitted",
		"applicant_id", app.ApplicantID,
		"application_id", app.ID.String(),
		"roblox_username", app.RobloxUsername,
	)
	s.emitAudit(ctx, audit.EventApplicationSubmitted, app, Actor{}, "")
	if s.metrics != nil {
		s.metrics.ApplicationsSubmitted.Inc()
		s.metrics.PendingApplications.Inc()
	}
	if s.history != nil {
		s.history.RecordSubmitted(*app)
	}
	s.notifier.Notify(ctx, KindSubmitted, app, Actor{})

	return app, nil
}

// Approve resolves the applicant's pending application as approved.
//
// Errors: CodeNotAuthorized when the actor lacks citizenship permission,
// CodeNotFound when no pending application exists. The store is untouched
// on error.
func (s *Service) Approve(ctx context.Context, actor Actor, applicantID string) (*Application, error) {
	if !s.gate.HasCitizenshipPermission(actor.RoleIDs) {
		return nil, dErrors.New(dErrors.CodeNotAuthorized, "admin or citizenship manager role required")
	}
	return s.resolve(ctx, actor, applicantID, StatusApproved, "")
}

// Reject resolves the applicant's pending application as rejected. An
// empty reason is replaced with DefaultRejectionReason.
//
// Errors: same as Approve.
func (s *Service) Reject(ctx context.Context, actor Actor, applicantID, reason string) (*Application, error) {
	if !s.gate.HasCitizenshipPermission(actor.RoleIDs) {
		return nil, dErrors.New(dErrors.CodeNotAuthorized, "admin or citizenship manager role required")
	}
	if reason == "" {
		reason = DefaultRejectionReason
	}
	return s.resolve(ctx, actor, applicantID, StatusRejected, reason)
}

// resolve performs the terminal transition. The lookup and removal run in
// one critical section per applicant, so exactly one concurrent resolver
// wins. The stored record is never written to: Status and the dashboard
// hand out the live pointer without a lock, so the resolved record is a
// copy and the pending one stays immutable after insertion.
func (s *Service) resolve(ctx context.Context, actor Actor, applicantID string, status Status, reason string) (*Application, error) {
	var app *Application
	s.keyed.Do(applicantID, func() {
		pending, ok := s.store.Get(ctx, applicantID)
		if !ok {
			return
		}
		resolved := *pending
		resolved.Status = status
		resolved.ReviewedBy = actor.ID
		resolved.RejectionReason = reason
		resolved.ResolvedAt = s.now()
		s.store.Remove(ctx, applicantID)
		app = &resolved
	})
	if app == nil {
		return nil, dErrors.New(dErrors.CodeNotFound, "no pending application for this applicant")
	}

	kind := KindApproved
	event := audit.EventApplicationApproved
	if status == StatusRejected {
		kind = KindRejected
		event = audit.EventApplicationRejected
	}

	s.logInfo(ctx, "application resolved",
		"applicant_id", app.ApplicantID,
		"application_id", app.ID.String(),
		"status", string(app.Status),
		"reviewed_by", actor.ID,
	)
	s.emitAudit(ctx, event, app, actor, reason)
	if s.metrics != nil {
		s.metrics.PendingApplications.Dec()
		if status == StatusApproved {
			s.metrics.ApplicationsApproved.Inc()
		} else {
			s.metrics.ApplicationsRejected.Inc()
		}
	}
	if s.history != nil {
		s.history.RecordResolved(*app)
	}
	s.notifier.Notify(ctx, kind, app, actor)

	return app, nil
}

// Status looks up the applicant's pending application. Read-only.
func (s *Service) Status(ctx context.Context, applicantID, displayName string) (*Application, bool) {
	if s.history != nil {
		s.history.RecordStatusCheck(applicantID, displayName)
	}
	return s.store.Get(ctx, applicantID)
}

// PendingCount returns the number of applications awaiting review.
func (s *Service) PendingCount(ctx context.Context) int {
	return s.store.Len(ctx)
}

// emitAudit records the lifecycle action. Audit is best-effort here: a
// failed append is logged and never rolls back the transition.
func (s *Service) emitAudit(ctx context.Context, event audit.AuditEvent, app *Application, actor Actor, reason string) {
	err := s.auditor.Emit(ctx, audit.Event{
		Timestamp:   s.now(),
		Action:      string(event),
		ApplicantID: app.ApplicantID,
		ActorID:     actor.ID,
		Reason:      reason,
		Detail:      "roblox_username=" + app.RobloxUsername,
	})
	if err != nil && s.logger != nil {
		s.logger.WarnContext(ctx, "failed to emit audit event",
			"error", err,
			"action", string(event),
			"applicant_id", app.ApplicantID,
		)
	}
}

func (s *Service) logInfo(ctx context.Context, msg string, args ...any) {
	if s.logger != nil {
		s.logger.InfoContext(ctx, msg, args...)
	}
}
