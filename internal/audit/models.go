package audit

import (
	"time"

	"github.com/google/uuid"
)

// Event is emitted from domain logic to capture key actions. Keep it
// transport-agnostic so stores and sinks can fan out.
type Event struct {
	ID          uuid.UUID
	Timestamp   time.Time
	Action      string
	ApplicantID string
	ActorID     string
	Reason      string
	Detail      string
}

type AuditEvent string

const (
	EventApplicationSubmitted AuditEvent = "application_submitted"
	EventApplicationApproved  AuditEvent = "application_approved"
	EventApplicationRejected  AuditEvent = "application_rejected"
	EventPlaceBanExecuted     AuditEvent = "place_ban_executed"
)
