package postgresql

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tempohq/tempo-backend-go/internal/domain/timesheet"
)

func TestBuildEntryWhereAlwaysScopes(t *testing.T) {
	where, args := buildEntryWhere("company-1", timesheet.EntryFilter{})

	assert.Equal(t, "te.company_id = $1 AND te.is_deleted = FALSE", where)
	assert.Equal(t, []interface{}{"company-1"}, args)
}

func TestBuildEntryWhereCombinesFilters(t *testing.T) {
	billable := true
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC)

	where, args := buildEntryWhere("company-1", timesheet.EntryFilter{
		UserID:    "user-1",
		ProjectID: "project-1",
		TaskID:    "task-1",
		Status:    string(timesheet.StatusSubmitted),
		Billable:  &billable,
		StartDate: &start,
		EndDate:   &end,
		Search:    "refactor",
	})

	assert.Equal(t,
		"te.company_id = $1 AND te.is_deleted = FALSE AND te.user_id = $2 AND te.project_id = $3 "+
			"AND te.task_id = $4 AND te.status = $5 AND te.billable = $6 AND te.date >= $7 "+
			"AND te.date <= $8 AND te.description ILIKE $9",
		where,
	)
	require.Len(t, args, 9)
	assert.Equal(t, "%refactor%", args[8])
}

func TestBuildEntryWhereStatusAll(t *testing.T) {
	where, args := buildEntryWhere("company-1", timesheet.EntryFilter{Status: timesheet.StatusAll})

	assert.NotContains(t, where, "te.status")
	assert.Len(t, args, 1)
}

func TestBuildEntryOrder(t *testing.T) {
	cases := []struct {
		name   string
		filter timesheet.EntryFilter
		want   string
	}{
		{"default", timesheet.EntryFilter{}, "te.date DESC"},
		{"explicit asc", timesheet.EntryFilter{SortBy: "duration", SortOrder: "asc"}, "te.duration ASC"},
		{"case insensitive order", timesheet.EntryFilter{SortBy: "created_at", SortOrder: "ASC"}, "te.created_at ASC"},
		{"unknown column falls back", timesheet.EntryFilter{SortBy: "description; DROP TABLE time_entries"}, "te.date DESC"},
		{"unknown order falls back", timesheet.EntryFilter{SortBy: "status", SortOrder: "sideways"}, "te.status DESC"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, buildEntryOrder(tc.filter))
		})
	}
}
