package timesheet

import "time"

// Status is the lifecycle state of a time entry.
//
// Entries are created as draft, move to submitted via Submit, and from
// submitted to approved or rejected by a reviewer. Rejected entries become
// editable again and may be resubmitted. Approved is terminal.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusSubmitted Status = "submitted"
	StatusApproved  Status = "approved"
	StatusRejected  Status = "rejected"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusDraft, StatusSubmitted, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// IsEditable reports whether work fields may still be mutated and the entry
// soft-deleted. Once submitted or approved, the entry is frozen except
// through the lifecycle operations.
func (s Status) IsEditable() bool {
	return s == StatusDraft || s == StatusRejected
}

// EntryCodePrefix prefixes the tenant-scoped human-readable entry code,
// e.g. counter 7 -> "TME-0007".
const EntryCodePrefix = "TME-"

// TimeEntry entity
type TimeEntry struct {
	ID        string
	EntryCode string
	CompanyID string
	UserID    string

	ProjectID   *string
	TaskID      *string
	MilestoneID *string

	Date      time.Time
	StartTime *time.Time
	EndTime   *time.Time
	Duration  float64 // hours

	Billable    bool
	BillRate    float64
	Description string

	Status          Status
	ApprovedBy      *string
	ApprovedAt      *time.Time
	RejectionReason *string

	IsDeleted bool
	DeletedAt *time.Time

	CreatedBy string
	UpdatedBy string
	CreatedAt time.Time
	UpdatedAt time.Time

	// Read-time snapshots of referenced rows (best-effort, for responses)
	Project *ProjectSnapshot
	Task    *TaskSnapshot
}

// ProjectSnapshot is the denormalized project view attached on Get.
type ProjectSnapshot struct {
	ID   string `json:"id"`
	Code string `json:"code"`
	Name string `json:"name"`
}

// TaskSnapshot is the denormalized task view attached on Get.
type TaskSnapshot struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Status string `json:"status"`
}

// BilledAmount returns duration x bill rate for billable entries, 0 otherwise.
func (e *TimeEntry) BilledAmount() float64 {
	if !e.Billable {
		return 0
	}
	return e.Duration * e.BillRate
}
