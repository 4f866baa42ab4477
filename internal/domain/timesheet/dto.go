package timesheet

import (
	"time"

	"github.com/tempohq/tempo-backend-go/internal/pkg/validator"
)

type CreateEntryRequest struct {
	UserID      string   `json:"user_id,omitempty"` // set when creating on behalf of another user
	ProjectID   *string  `json:"project_id,omitempty"`
	TaskID      *string  `json:"task_id,omitempty"`
	MilestoneID *string  `json:"milestone_id,omitempty"`
	Date        string   `json:"date"`
	StartTime   *string  `json:"start_time,omitempty"`
	EndTime     *string  `json:"end_time,omitempty"`
	Duration    *float64 `json:"duration,omitempty"`
	Billable    *bool    `json:"billable,omitempty"`
	BillRate    *float64 `json:"bill_rate,omitempty"`
	Description string   `json:"description"`
	Status      *Status  `json:"status,omitempty"` // honored only for manager/owner callers
}

func (r *CreateEntryRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Date) {
		errs = append(errs, validator.ValidationError{
			Field:   "date",
			Message: "date is required",
		})
	} else if _, ok := validator.ParseDateTime(r.Date); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "date",
			Message: "Invalid date format",
		})
	}

	errs = append(errs, validateReference("project_id", r.ProjectID)...)
	errs = append(errs, validateReference("task_id", r.TaskID)...)
	errs = append(errs, validateReference("milestone_id", r.MilestoneID)...)
	errs = append(errs, validateTimestamp("start_time", r.StartTime)...)
	errs = append(errs, validateTimestamp("end_time", r.EndTime)...)

	if r.Duration != nil && *r.Duration < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "duration",
			Message: "duration must not be negative",
		})
	}
	if r.BillRate != nil && *r.BillRate < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "bill_rate",
			Message: "bill_rate must not be negative",
		})
	}
	if r.Status != nil && !r.Status.IsValid() {
		errs = append(errs, validator.ValidationError{
			Field:   "status",
			Message: "Invalid status value",
		})
	}
	if r.UserID != "" && !validator.IsValidID(r.UserID) {
		errs = append(errs, validator.ValidationError{
			Field:   "user_id",
			Message: "Invalid user_id format",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type UpdateEntryRequest struct {
	ProjectID   *string  `json:"project_id,omitempty"`
	TaskID      *string  `json:"task_id,omitempty"`
	MilestoneID *string  `json:"milestone_id,omitempty"`
	Date        *string  `json:"date,omitempty"`
	StartTime   *string  `json:"start_time,omitempty"`
	EndTime     *string  `json:"end_time,omitempty"`
	Duration    *float64 `json:"duration,omitempty"`
	Billable    *bool    `json:"billable,omitempty"`
	BillRate    *float64 `json:"bill_rate,omitempty"`
	Description *string  `json:"description,omitempty"`
}

// Validate hard-fails on malformed references and unparseable dates. The
// previous behavior of silently skipping bad patch fields was dropped in
// favor of the same policy create uses.
func (r *UpdateEntryRequest) Validate() error {
	var errs validator.ValidationErrors

	errs = append(errs, validateReference("project_id", r.ProjectID)...)
	errs = append(errs, validateReference("task_id", r.TaskID)...)
	errs = append(errs, validateReference("milestone_id", r.MilestoneID)...)
	errs = append(errs, validateTimestamp("date", r.Date)...)
	errs = append(errs, validateTimestamp("start_time", r.StartTime)...)
	errs = append(errs, validateTimestamp("end_time", r.EndTime)...)

	if r.Duration != nil && *r.Duration < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "duration",
			Message: "duration must not be negative",
		})
	}
	if r.BillRate != nil && *r.BillRate < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "bill_rate",
			Message: "bill_rate must not be negative",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func validateReference(field string, id *string) validator.ValidationErrors {
	if id == nil || *id == "" {
		return nil
	}
	if !validator.IsValidID(*id) {
		return validator.NewFieldError(field, "Invalid "+field+" format")
	}
	return nil
}

func validateTimestamp(field string, value *string) validator.ValidationErrors {
	if value == nil || *value == "" {
		return nil
	}
	if _, ok := validator.ParseDateTime(*value); !ok {
		return validator.NewFieldError(field, "Invalid "+field+" format")
	}
	return nil
}

// SubmitEntriesRequest names the draft entries to submit. An empty list
// submits every draft the user has.
type SubmitEntriesRequest struct {
	EntryIDs []string `json:"entry_ids,omitempty"`
}

// ApproveEntriesRequest names the submitted entries of one user to approve.
// An empty list approves all of that user's submitted entries.
type ApproveEntriesRequest struct {
	UserID   string   `json:"user_id"`
	EntryIDs []string `json:"entry_ids,omitempty"`
}

func (r *ApproveEntriesRequest) Validate() error {
	if validator.IsEmpty(r.UserID) {
		return validator.NewFieldError("user_id", "user_id is required")
	}
	if !validator.IsValidID(r.UserID) {
		return validator.NewFieldError("user_id", "Invalid user_id format")
	}
	return nil
}

// RejectEntriesRequest names the submitted entries of one user to reject.
// The reason may be empty.
type RejectEntriesRequest struct {
	UserID   string   `json:"user_id"`
	EntryIDs []string `json:"entry_ids,omitempty"`
	Reason   string   `json:"reason,omitempty"`
}

func (r *RejectEntriesRequest) Validate() error {
	if validator.IsEmpty(r.UserID) {
		return validator.NewFieldError("user_id", "user_id is required")
	}
	if !validator.IsValidID(r.UserID) {
		return validator.NewFieldError("user_id", "Invalid user_id format")
	}
	return nil
}

// StatusAll is the sentinel filter value meaning "no status filter".
const StatusAll = "all"

// EntryFilter narrows listings. All fields are optional and combine with
// AND. Soft-deleted entries are always excluded.
type EntryFilter struct {
	UserID    string
	ProjectID string
	TaskID    string
	Status    string // Status value or StatusAll / empty
	Billable  *bool
	StartDate *time.Time
	EndDate   *time.Time
	Search    string // case-insensitive substring match on description
	SortBy    string // date (default), duration, created_at, start_time, status, bill_rate
	SortOrder string // asc | desc (default desc)
}

// StatsFilter narrows the aggregate computation.
type StatsFilter struct {
	UserID    string
	ProjectID string
	StartDate *time.Time
	EndDate   *time.Time
}

// EntryPatch carries only the fields to change; nil fields are untouched.
type EntryPatch struct {
	ProjectID   *string
	TaskID      *string
	MilestoneID *string
	Date        *time.Time
	StartTime   *time.Time
	EndTime     *time.Time
	Duration    *float64
	Billable    *bool
	BillRate    *float64
	Description *string
	UpdatedBy   string
}

// StatusChange stamps a bulk lifecycle transition.
type StatusChange struct {
	To              Status
	ApprovedBy      *string
	ApprovedAt      *time.Time
	RejectionReason *string
}

// BatchResult reports how many entries a bulk operation actually
// transitioned. Zero is a valid, non-error result.
type BatchResult struct {
	Count int64 `json:"count"`
}

// DeleteResult identifies a soft-deleted entry.
type DeleteResult struct {
	ID        string `json:"id"`
	EntryCode string `json:"entry_code"`
}

// TimesheetTotals are the aggregate totals of a user timesheet.
type TimesheetTotals struct {
	TotalHours        float64 `json:"total_hours"`
	BillableHours     float64 `json:"billable_hours"`
	EntryCount        int     `json:"entry_count"`
	TotalBilledAmount float64 `json:"total_billed_amount"`
}

// TimesheetView is a user's entries over a range, grouped by ISO date.
type TimesheetView struct {
	Entries       []TimeEntry            `json:"entries"`
	GroupedByDate map[string][]TimeEntry `json:"grouped_by_date"`
	Totals        TimesheetTotals        `json:"totals"`
}

// UserHours ranks one user in the stats aggregate.
type UserHours struct {
	UserID     string  `json:"user_id"`
	TotalHours float64 `json:"total_hours"`
	EntryCount int64   `json:"entry_count"`
}

// Stats is the tenant-wide (or filtered) aggregate over non-deleted entries.
type Stats struct {
	TotalHours        float64     `json:"total_hours"`
	BillableHours     float64     `json:"billable_hours"`
	TotalEntries      int64       `json:"total_entries"`
	DraftEntries      int64       `json:"draft_entries"`
	SubmittedEntries  int64       `json:"submitted_entries"`
	ApprovedEntries   int64       `json:"approved_entries"`
	RejectedEntries   int64       `json:"rejected_entries"`
	TotalBilledAmount float64     `json:"total_billed_amount"`
	TopUsers          []UserHours `json:"top_users"`
}
