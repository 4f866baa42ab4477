package timesheet

import "context"

// TimeEntryRepository - interface for time_entries table. Every method is
// scoped by companyID; a repository implementation must make cross-tenant
// reads impossible by construction.
type TimeEntryRepository interface {
	Create(ctx context.Context, entry TimeEntry) (TimeEntry, error)
	// GetByID returns ErrTimeEntryNotFound for absent or soft-deleted rows.
	GetByID(ctx context.Context, companyID, id string) (TimeEntry, error)
	List(ctx context.Context, companyID string, filter EntryFilter) ([]TimeEntry, error)
	Update(ctx context.Context, companyID, id string, patch EntryPatch) error
	SoftDelete(ctx context.Context, companyID, id string) error
	// UpdateStatusBatch transitions the user's non-deleted entries currently
	// in one of the `from` statuses to change.To, optionally narrowed to
	// entryIDs, and returns the number of rows changed. Ids matching no
	// eligible entry are silently excluded.
	UpdateStatusBatch(ctx context.Context, companyID, userID string, from []Status, change StatusChange, entryIDs []string) (int64, error)
	Aggregate(ctx context.Context, companyID string, filter StatsFilter) (Stats, error)
}

// SequenceRepository allocates the tenant-scoped sequential entry code.
type SequenceRepository interface {
	// NextEntryCode atomically increments the tenant counter and returns
	// the formatted code ("TME-0001", ...). A store failure propagates; it
	// is never conflated with "no entries yet".
	NextEntryCode(ctx context.Context, companyID string) (string, error)
}
