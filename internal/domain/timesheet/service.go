package timesheet

import (
	"context"
	"time"
)

// TimeEntryService owns the time entry lifecycle: validation, the status
// state machine, batch transitions, and read-side aggregation.
type TimeEntryService interface {
	Create(ctx context.Context, companyID, actorID string, allowStatusOverride bool, req CreateEntryRequest) (TimeEntry, error)
	Get(ctx context.Context, companyID, id string) (TimeEntry, error)
	List(ctx context.Context, companyID string, filter EntryFilter) ([]TimeEntry, error)
	ListByUser(ctx context.Context, companyID, userID string, filter EntryFilter) ([]TimeEntry, error)
	ListByProject(ctx context.Context, companyID, projectID string, filter EntryFilter) ([]TimeEntry, error)
	ListByTask(ctx context.Context, companyID, taskID string, filter EntryFilter) ([]TimeEntry, error)
	Update(ctx context.Context, companyID, actorID, id string, req UpdateEntryRequest) (TimeEntry, error)
	Delete(ctx context.Context, companyID, id string) (DeleteResult, error)
	Submit(ctx context.Context, companyID, userID string, entryIDs []string) (BatchResult, error)
	Approve(ctx context.Context, companyID, userID string, entryIDs []string, approverID string) (BatchResult, error)
	Reject(ctx context.Context, companyID, userID string, entryIDs []string, reviewerID, reason string) (BatchResult, error)
	Timesheet(ctx context.Context, companyID, userID string, startDate, endDate *time.Time) (TimesheetView, error)
	Stats(ctx context.Context, companyID string, filter StatsFilter) (Stats, error)
}

// Event names published after successful mutations.
const (
	EventEntryCreated   = "timeentry.created"
	EventEntryUpdated   = "timeentry.updated"
	EventEntryDeleted   = "timeentry.deleted"
	EventEntrySubmitted = "timeentry.submitted"
	EventEntryApproved  = "timeentry.approved"
	EventEntryRejected  = "timeentry.rejected"
)

// EventSink receives lifecycle events after a mutation commits. Delivery is
// best-effort; a sink must never block and its outcome never affects the
// operation's reported result.
type EventSink interface {
	Publish(companyID string, event string, data interface{})
}

// NopSink discards events.
type NopSink struct{}

func (NopSink) Publish(string, string, interface{}) {}
