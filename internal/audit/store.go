package audit

import "context"

// Store is the append-only sink for audit events. The process keeps its
// trail in memory; durability across restarts is out of scope, so the
// interface stays small enough that a persistent store can be swapped in.
type Store interface {
	Append(ctx context.Context, event Event) error
	// Recent returns up to limit events, newest first.
	Recent(ctx context.Context, limit int) ([]Event, error)
	// ListByApplicant returns the events for one applicant, oldest first.
	ListByApplicant(ctx context.Context, applicantID string) ([]Event, error)
}
