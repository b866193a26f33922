package citizenship

import (
	"strings"
	"time"

	"github.com/google/uuid"

	dErrors "consulate/pkg/domain-errors"
)

// Status is the lifecycle state of an application. Transitions are one-way:
// Pending moves to exactly one of Approved or Rejected, both terminal.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// DefaultRejectionReason is recorded when staff decline an application
// without giving a reason.
const DefaultRejectionReason = "No reason provided"

// Form field limits, mirrored by the Discord modal.
const (
	MaxRobloxUsernameLen = 50
	MaxMotivationLen     = 1000
	MaxCriminalRecordLen = 500
	MaxAdditionalInfoLen = 500
)

// Form carries the free-text fields an applicant fills in. AdditionalInfo
// is the only optional field.
type Form struct {
	RobloxUsername string
	Motivation     string
	CriminalRecord string
	AdditionalInfo string
}

// normalized returns a copy of the form with all fields trimmed.
func (f Form) normalized() Form {
	return Form{
		RobloxUsername: strings.TrimSpace(f.RobloxUsername),
		Motivation:     strings.TrimSpace(f.Motivation),
		CriminalRecord: strings.TrimSpace(f.CriminalRecord),
		AdditionalInfo: strings.TrimSpace(f.AdditionalInfo),
	}
}

// Validate checks required fields and length limits. Called after
// normalization at the submit boundary.
//
// Errors: returns CodeBadRequest describing the first offending field.
func (f Form) Validate() error {
	switch {
	case f.RobloxUsername == "":
		return dErrors.New(dErrors.CodeBadRequest, "roblox username is required")
	case len(f.RobloxUsername) > MaxRobloxUsernameLen:
		return dErrors.New(dErrors.CodeBadRequest, "roblox username too long")
	case f.Motivation == "":
		return dErrors.New(dErrors.CodeBadRequest, "motivation is required")
	case len(f.Motivation) > MaxMotivationLen:
		return dErrors.New(dErrors.CodeBadRequest, "motivation too long")
	case f.CriminalRecord == "":
		return dErrors.New(dErrors.CodeBadRequest, "criminal record disclosure is required")
	case len(f.CriminalRecord) > MaxCriminalRecordLen:
		return dErrors.New(dErrors.CodeBadRequest, "criminal record disclosure too long")
	case len(f.AdditionalInfo) > MaxAdditionalInfoLen:
		return dErrors.New(dErrors.CodeBadRequest, "additional information too long")
	}
	return nil
}

// Application is one citizenship request. While pending it lives in the
// store keyed by applicant id; resolution evicts it, so a resolved value
// has no further lifecycle beyond tracker history.
type Application struct {
	ID          uuid.UUID
	ApplicantID string
	DisplayName string

	RobloxUsername string
	Motivation     string
	CriminalRecord string
	AdditionalInfo string

	Status Status

	// ReviewedBy is the staff actor id; set only on resolution.
	ReviewedBy string
	// RejectionReason is set only when Status is StatusRejected.
	RejectionReason string

	SubmittedAt time.Time
	// ResolvedAt is zero until the application is approved or rejected.
	ResolvedAt time.Time
}

// newApplication constructs a pending record with trimmed fields.
func newApplication(applicantID, displayName string, form Form, now time.Time) *Application {
	f := form.normalized()
	return &Application{
		ID:             uuid.New(),
		ApplicantID:    applicantID,
		DisplayName:    strings.TrimSpace(displayName),
		RobloxUsername: f.RobloxUsername,
		Motivation:     f.Motivation,
		CriminalRecord: f.CriminalRecord,
		AdditionalInfo: f.AdditionalInfo,
		Status:         StatusPending,
		SubmittedAt:    now,
	}
}

// Resolved reports whether the application reached a terminal state.
func (a *Application) Resolved() bool {
	return a.Status == StatusApproved || a.Status == StatusRejected
}

// ProcessingTime is the duration between submission and resolution, zero
// while pending.
func (a *Application) ProcessingTime() time.Duration {
	if a.ResolvedAt.IsZero() {
		return 0
	}
	return a.ResolvedAt.Sub(a.SubmittedAt)
}

// Actor identifies the staff member invoking a privileged action together
// with their role set at call time. The role set may be empty; every
// privileged check then fails closed.
type Actor struct {
	ID          string
	DisplayName string
	RoleIDs     []string
}
