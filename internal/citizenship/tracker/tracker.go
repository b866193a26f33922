// Package tracker keeps the analytics side of the application workflow:
// resolved-application history, per-user activity, and per-day submission
// counts. Statistics are recomputed from the in-memory history on demand;
// nothing here survives a restart.
package tracker

import (
	"sort"
	"sync"
	"time"

	"consulate/internal/citizenship"
)

const dayKeyFormat = "2006-01-02"

// UserActivity aggregates one user's interactions with the bot.
type UserActivity struct {
	UserID           string
	DisplayName      string
	ApplicationCount int
	LastApplication  time.Time
	StatusChecks     int
	LastStatusCheck  time.Time
	SupportContacts  int
	CitizenGranted   bool
	CitizenSince     time.Time
}

// Statistics is a snapshot derived from the recorded history.
type Statistics struct {
	Total    int `json:"total_applications"`
	Pending  int `json:"pending_applications"`
	Approved int `json:"approved_applications"`
	Rejected int `json:"rejected_applications"`

	ApprovalRate  float64 `json:"approval_rate"`
	RejectionRate float64 `json:"rejection_rate"`

	// AverageProcessingHours is the mean submit-to-resolution time over
	// resolved applications.
	AverageProcessingHours float64 `json:"average_processing_hours"`

	Daily   int `json:"daily_applications"`
	Weekly  int `json:"weekly_applications"`
	Monthly int `json:"monthly_applications"`
}

// DailyCount pairs a calendar day with its submission count.
type DailyCount struct {
	Day   string `json:"day"`
	Count int    `json:"count"`
}

// Tracker records application history. Safe for concurrent use.
type Tracker struct {
	mu         sync.RWMutex
	history    []citizenship.Application
	activities map[string]*UserActivity
	daily      map[string]int
	now        func() time.Time
}

// New creates an empty tracker.
func New() *Tracker {
	return &Tracker{
		activities: make(map[string]*UserActivity),
		daily:      make(map[string]int),
		now:        time.Now,
	}
}

// WithClock overrides the time source for deterministic tests.
func (t *Tracker) WithClock(now func() time.Time) *Tracker {
	t.now = now
	return t
}

// RecordSubmitted adds a submitted application to the history.
func (t *Tracker) RecordSubmitted(app citizenship.Application) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.history = append(t.history, app)
	t.daily[app.SubmittedAt.Format(dayKeyFormat)]++

	activity := t.activity(app.ApplicantID, app.DisplayName)
	activity.ApplicationCount++
	activity.LastApplication = app.SubmittedAt
}

// RecordResolved updates the history entry for a resolved application.
// The store forgets resolved records; this copy is the only queryable one.
func (t *Tracker) RecordResolved(app citizenship.Application) {
	t.mu.Lock()
	defer t.mu.Unlock()

	for i := len(t.history) - 1; i >= 0; i-- {
		if t.history[i].ID == app.ID {
			t.history[i] = app
			break
		}
	}

	if app.Status == citizenship.StatusApproved {
		activity := t.activity(app.ApplicantID, app.DisplayName)
		activity.CitizenGranted = true
		activity.CitizenSince = app.ResolvedAt
	}
}

// RecordStatusCheck notes that a user checked their application status.
func (t *Tracker) RecordStatusCheck(applicantID, displayName string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	activity := t.activity(applicantID, displayName)
	activity.StatusChecks++
	activity.LastStatusCheck = t.now()
}

// RecordSupportContact notes that a user reached for the support portal.
func (t *Tracker) RecordSupportContact(userID, displayName string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.activity(userID, displayName).SupportContacts++
}

// activity returns the mutable record for a user, creating it on first
// sight. Caller holds the lock.
func (t *Tracker) activity(userID, displayName string) *UserActivity {
	a, ok := t.activities[userID]
	if !ok {
		a = &UserActivity{UserID: userID, DisplayName: displayName}
		t.activities[userID] = a
	}
	if displayName != "" {
		a.DisplayName = displayName
	}
	return a
}

// Statistics recomputes the aggregate view from history.
func (t *Tracker) Statistics() Statistics {
	t.mu.RLock()
	defer t.mu.RUnlock()

	now := t.now()
	stats := Statistics{}
	var processing time.Duration

	for _, app := range t.history {
		stats.Total++
		switch app.Status {
		case citizenship.StatusApproved:
			stats.Approved++
			processing += app.ProcessingTime()
		case citizenship.StatusRejected:
			stats.Rejected++
			processing += app.ProcessingTime()
		default:
			stats.Pending++
		}

		age := now.Sub(app.SubmittedAt)
		if age <= 24*time.Hour {
			stats.Daily++
		}
		if age <= 7*24*time.Hour {
			stats.Weekly++
		}
		if age <= 30*24*time.Hour {
			stats.Monthly++
		}
	}

	resolved := stats.Approved + stats.Rejected
	if resolved > 0 {
		stats.ApprovalRate = float64(stats.Approved) / float64(resolved) * 100
		stats.RejectionRate = float64(stats.Rejected) / float64(resolved) * 100
		stats.AverageProcessingHours = processing.Hours() / float64(resolved)
	}
	return stats
}

// DailyCounts returns per-day submission counts, oldest day first.
func (t *Tracker) DailyCounts() []DailyCount {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make([]DailyCount, 0, len(t.daily))
	for day, count := range t.daily {
		out = append(out, DailyCount{Day: day, Count: count})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Day < out[j].Day })
	return out
}

// Activity returns a copy of the user's activity record.
func (t *Tracker) Activity(userID string) (UserActivity, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	a, ok := t.activities[userID]
	if !ok {
		return UserActivity{}, false
	}
	return *a, true
}

// ActiveUsers returns the number of users the tracker has seen.
func (t *Tracker) ActiveUsers() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.activities)
}
