package timesheet

import "errors"

var (
	ErrTimeEntryNotFound = errors.New("Time entry not found")
)

// Messages for status-gating validation failures. They surface as
// field-level validation errors on the "status" field.
const (
	MsgCannotEdit   = "Cannot edit time entry that has been submitted"
	MsgCannotDelete = "Cannot delete time entry that has been submitted"
)
