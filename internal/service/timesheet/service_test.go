package timesheet

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tempohq/tempo-backend-go/internal/domain/project"
	"github.com/tempohq/tempo-backend-go/internal/domain/task"
	"github.com/tempohq/tempo-backend-go/internal/domain/timesheet"
	"github.com/tempohq/tempo-backend-go/internal/pkg/validator"
)

// fakeEntryRepo is an in-memory TimeEntryRepository with the same tenant
// scoping and soft-delete semantics as the PostgreSQL implementation.
type fakeEntryRepo struct {
	entries    map[string]timesheet.TimeEntry
	batchCalls int
	afterWrite func() // runs after a successful Update, before the read-back
}

func newFakeEntryRepo() *fakeEntryRepo {
	return &fakeEntryRepo{entries: make(map[string]timesheet.TimeEntry)}
}

func (r *fakeEntryRepo) Create(_ context.Context, entry timesheet.TimeEntry) (timesheet.TimeEntry, error) {
	entry.ID = uuid.NewString()
	entry.CreatedAt = time.Now()
	entry.UpdatedAt = entry.CreatedAt
	r.entries[entry.ID] = entry
	return entry, nil
}

func (r *fakeEntryRepo) GetByID(_ context.Context, companyID, id string) (timesheet.TimeEntry, error) {
	entry, ok := r.entries[id]
	if !ok || entry.CompanyID != companyID || entry.IsDeleted {
		return timesheet.TimeEntry{}, timesheet.ErrTimeEntryNotFound
	}
	return entry, nil
}

func (r *fakeEntryRepo) List(_ context.Context, companyID string, filter timesheet.EntryFilter) ([]timesheet.TimeEntry, error) {
	var out []timesheet.TimeEntry
	for _, entry := range r.entries {
		if entry.CompanyID != companyID || entry.IsDeleted {
			continue
		}
		if filter.UserID != "" && entry.UserID != filter.UserID {
			continue
		}
		if filter.ProjectID != "" && (entry.ProjectID == nil || *entry.ProjectID != filter.ProjectID) {
			continue
		}
		if filter.TaskID != "" && (entry.TaskID == nil || *entry.TaskID != filter.TaskID) {
			continue
		}
		if filter.Status != "" && filter.Status != timesheet.StatusAll && string(entry.Status) != filter.Status {
			continue
		}
		if filter.StartDate != nil && entry.Date.Before(*filter.StartDate) {
			continue
		}
		if filter.EndDate != nil && entry.Date.After(*filter.EndDate) {
			continue
		}
		out = append(out, entry)
	}
	return out, nil
}

func (r *fakeEntryRepo) Update(_ context.Context, companyID, id string, patch timesheet.EntryPatch) error {
	entry, ok := r.entries[id]
	if !ok || entry.CompanyID != companyID || entry.IsDeleted {
		return timesheet.ErrTimeEntryNotFound
	}
	if patch.ProjectID != nil {
		entry.ProjectID = patch.ProjectID
	}
	if patch.TaskID != nil {
		entry.TaskID = patch.TaskID
	}
	if patch.MilestoneID != nil {
		entry.MilestoneID = patch.MilestoneID
	}
	if patch.Date != nil {
		entry.Date = *patch.Date
	}
	if patch.StartTime != nil {
		entry.StartTime = patch.StartTime
	}
	if patch.EndTime != nil {
		entry.EndTime = patch.EndTime
	}
	if patch.Duration != nil {
		entry.Duration = *patch.Duration
	}
	if patch.Billable != nil {
		entry.Billable = *patch.Billable
	}
	if patch.BillRate != nil {
		entry.BillRate = *patch.BillRate
	}
	if patch.Description != nil {
		entry.Description = *patch.Description
	}
	entry.UpdatedBy = patch.UpdatedBy
	entry.UpdatedAt = time.Now()
	r.entries[id] = entry
	if r.afterWrite != nil {
		r.afterWrite()
	}
	return nil
}

func (r *fakeEntryRepo) SoftDelete(_ context.Context, companyID, id string) error {
	entry, ok := r.entries[id]
	if !ok || entry.CompanyID != companyID || entry.IsDeleted {
		return timesheet.ErrTimeEntryNotFound
	}
	now := time.Now()
	entry.IsDeleted = true
	entry.DeletedAt = &now
	r.entries[id] = entry
	return nil
}

func (r *fakeEntryRepo) UpdateStatusBatch(_ context.Context, companyID, userID string, from []timesheet.Status, change timesheet.StatusChange, entryIDs []string) (int64, error) {
	r.batchCalls++

	named := make(map[string]bool, len(entryIDs))
	for _, id := range entryIDs {
		named[id] = true
	}
	eligible := make(map[timesheet.Status]bool, len(from))
	for _, status := range from {
		eligible[status] = true
	}

	var count int64
	for id, entry := range r.entries {
		if entry.CompanyID != companyID || entry.UserID != userID || entry.IsDeleted || !eligible[entry.Status] {
			continue
		}
		if len(entryIDs) > 0 && !named[id] {
			continue
		}
		entry.Status = change.To
		if change.ApprovedBy != nil {
			entry.ApprovedBy = change.ApprovedBy
		}
		if change.ApprovedAt != nil {
			entry.ApprovedAt = change.ApprovedAt
		}
		if change.RejectionReason != nil {
			entry.RejectionReason = change.RejectionReason
		}
		entry.UpdatedAt = time.Now()
		r.entries[id] = entry
		count++
	}
	return count, nil
}

func (r *fakeEntryRepo) Aggregate(_ context.Context, companyID string, filter timesheet.StatsFilter) (timesheet.Stats, error) {
	stats := timesheet.Stats{TopUsers: []timesheet.UserHours{}}
	perUser := make(map[string]timesheet.UserHours)
	for _, entry := range r.entries {
		if entry.CompanyID != companyID || entry.IsDeleted {
			continue
		}
		if filter.UserID != "" && entry.UserID != filter.UserID {
			continue
		}
		if filter.ProjectID != "" && (entry.ProjectID == nil || *entry.ProjectID != filter.ProjectID) {
			continue
		}
		stats.TotalEntries++
		stats.TotalHours += entry.Duration
		if entry.Billable {
			stats.BillableHours += entry.Duration
			stats.TotalBilledAmount += entry.Duration * entry.BillRate
		}
		switch entry.Status {
		case timesheet.StatusDraft:
			stats.DraftEntries++
		case timesheet.StatusSubmitted:
			stats.SubmittedEntries++
		case timesheet.StatusApproved:
			stats.ApprovedEntries++
		case timesheet.StatusRejected:
			stats.RejectedEntries++
		}

		perUser[entry.UserID] = timesheet.UserHours{
			UserID:     entry.UserID,
			TotalHours: perUser[entry.UserID].TotalHours + entry.Duration,
			EntryCount: perUser[entry.UserID].EntryCount + 1,
		}
	}

	for _, hours := range perUser {
		stats.TopUsers = append(stats.TopUsers, hours)
	}
	sort.Slice(stats.TopUsers, func(i, j int) bool {
		return stats.TopUsers[i].TotalHours > stats.TopUsers[j].TotalHours
	})
	if len(stats.TopUsers) > 10 {
		stats.TopUsers = stats.TopUsers[:10]
	}
	return stats, nil
}

type fakeSequenceRepo struct {
	counters map[string]int
}

func (r *fakeSequenceRepo) NextEntryCode(_ context.Context, companyID string) (string, error) {
	if r.counters == nil {
		r.counters = make(map[string]int)
	}
	r.counters[companyID]++
	return fmt.Sprintf("%s%04d", timesheet.EntryCodePrefix, r.counters[companyID]), nil
}

type fakeProjectRepo struct {
	projects map[string]project.Project
}

func (r *fakeProjectRepo) Create(_ context.Context, p project.Project) (project.Project, error) {
	p.ID = uuid.NewString()
	if r.projects == nil {
		r.projects = make(map[string]project.Project)
	}
	r.projects[p.ID] = p
	return p, nil
}

func (r *fakeProjectRepo) GetByID(_ context.Context, companyID, id string) (project.Project, error) {
	p, ok := r.projects[id]
	if !ok || p.CompanyID != companyID {
		return project.Project{}, project.ErrProjectNotFound
	}
	return p, nil
}

func (r *fakeProjectRepo) GetByCompanyID(_ context.Context, companyID string) ([]project.Project, error) {
	var out []project.Project
	for _, p := range r.projects {
		if p.CompanyID == companyID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *fakeProjectRepo) NextProjectCode(_ context.Context, _ string) (string, error) {
	return "PRJ-0001", nil
}

type fakeTaskRepo struct {
	tasks map[string]task.Task
}

func (r *fakeTaskRepo) Create(_ context.Context, t task.Task) (task.Task, error) {
	t.ID = uuid.NewString()
	if r.tasks == nil {
		r.tasks = make(map[string]task.Task)
	}
	r.tasks[t.ID] = t
	return t, nil
}

func (r *fakeTaskRepo) GetByID(_ context.Context, companyID, id string) (task.Task, error) {
	t, ok := r.tasks[id]
	if !ok || t.CompanyID != companyID {
		return task.Task{}, task.ErrTaskNotFound
	}
	return t, nil
}

func (r *fakeTaskRepo) GetByProjectID(_ context.Context, companyID, projectID string) ([]task.Task, error) {
	var out []task.Task
	for _, t := range r.tasks {
		if t.CompanyID == companyID && t.ProjectID == projectID {
			out = append(out, t)
		}
	}
	return out, nil
}

// recordingSink captures published events in order.
type recordingSink struct {
	events []string
}

func (s *recordingSink) Publish(_ string, event string, _ interface{}) {
	s.events = append(s.events, event)
}

type testEnv struct {
	service   timesheet.TimeEntryService
	entries   *fakeEntryRepo
	sink      *recordingSink
	companyID string
	userID    string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	entries := newFakeEntryRepo()
	sink := &recordingSink{}
	svc := NewTimeEntryService(nil, entries, &fakeSequenceRepo{}, &fakeProjectRepo{}, &fakeTaskRepo{}, sink)
	return &testEnv{
		service:   svc,
		entries:   entries,
		sink:      sink,
		companyID: uuid.NewString(),
		userID:    uuid.NewString(),
	}
}

func (e *testEnv) mustCreate(t *testing.T, req timesheet.CreateEntryRequest) timesheet.TimeEntry {
	t.Helper()
	entry, err := e.service.Create(context.Background(), e.companyID, e.userID, false, req)
	require.NoError(t, err)
	return entry
}

func TestCreateEntryDefaults(t *testing.T) {
	env := newTestEnv(t)

	entry := env.mustCreate(t, timesheet.CreateEntryRequest{
		Date:        "2026-03-02",
		Description: "refactoring the importer",
	})

	assert.Equal(t, timesheet.StatusDraft, entry.Status)
	assert.True(t, entry.Billable)
	assert.Equal(t, float64(0), entry.Duration)
	assert.Equal(t, "TME-0001", entry.EntryCode)
	assert.Equal(t, env.userID, entry.UserID)
	assert.Equal(t, []string{timesheet.EventEntryCreated}, env.sink.events)

	second := env.mustCreate(t, timesheet.CreateEntryRequest{Date: "2026-03-03"})
	assert.Equal(t, "TME-0002", second.EntryCode)
}

func TestCreateEntryValidation(t *testing.T) {
	env := newTestEnv(t)

	cases := []struct {
		name  string
		req   timesheet.CreateEntryRequest
		field string
	}{
		{"missing date", timesheet.CreateEntryRequest{}, "date"},
		{"bad date", timesheet.CreateEntryRequest{Date: "not-a-date"}, "date"},
		{"bad project ref", timesheet.CreateEntryRequest{Date: "2026-03-02", ProjectID: strPtr("nope")}, "project_id"},
		{"bad start time", timesheet.CreateEntryRequest{Date: "2026-03-02", StartTime: strPtr("yesterday")}, "start_time"},
		{"negative duration", timesheet.CreateEntryRequest{Date: "2026-03-02", Duration: floatPtr(-1)}, "duration"},
		{"bad user id", timesheet.CreateEntryRequest{Date: "2026-03-02", UserID: "abc"}, "user_id"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := env.service.Create(context.Background(), env.companyID, env.userID, false, tc.req)
			var errs validator.ValidationErrors
			require.ErrorAs(t, err, &errs)
			assert.Contains(t, errs.ToMap(), tc.field)
		})
	}
}

func TestCreateStatusOverride(t *testing.T) {
	env := newTestEnv(t)
	approved := timesheet.StatusApproved

	// Without the override the requested status is ignored.
	entry, err := env.service.Create(context.Background(), env.companyID, env.userID, false, timesheet.CreateEntryRequest{
		Date:   "2026-03-02",
		Status: &approved,
	})
	require.NoError(t, err)
	assert.Equal(t, timesheet.StatusDraft, entry.Status)

	entry, err = env.service.Create(context.Background(), env.companyID, env.userID, true, timesheet.CreateEntryRequest{
		Date:   "2026-03-02",
		Status: &approved,
	})
	require.NoError(t, err)
	assert.Equal(t, timesheet.StatusApproved, entry.Status)
}

func TestGetRejectsMalformedID(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.service.Get(context.Background(), env.companyID, "not-a-uuid")
	var errs validator.ValidationErrors
	require.ErrorAs(t, err, &errs)
	assert.Contains(t, errs.ToMap(), "id")
}

func TestGetTenantIsolation(t *testing.T) {
	env := newTestEnv(t)
	entry := env.mustCreate(t, timesheet.CreateEntryRequest{Date: "2026-03-02"})

	_, err := env.service.Get(context.Background(), uuid.NewString(), entry.ID)
	assert.ErrorIs(t, err, timesheet.ErrTimeEntryNotFound)
}

func TestUpdateGating(t *testing.T) {
	env := newTestEnv(t)
	entry := env.mustCreate(t, timesheet.CreateEntryRequest{Date: "2026-03-02"})

	_, err := env.service.Submit(context.Background(), env.companyID, env.userID, nil)
	require.NoError(t, err)

	_, err = env.service.Update(context.Background(), env.companyID, env.userID, entry.ID, timesheet.UpdateEntryRequest{
		Description: strPtr("changed"),
	})
	var errs validator.ValidationErrors
	require.ErrorAs(t, err, &errs)
	assert.Equal(t, timesheet.MsgCannotEdit, errs.ToMap()["status"])

	// The entry itself is untouched.
	got, err := env.service.Get(context.Background(), env.companyID, entry.ID)
	require.NoError(t, err)
	assert.Equal(t, entry.Description, got.Description)
}

func TestUpdateRejectedEntry(t *testing.T) {
	env := newTestEnv(t)
	entry := env.mustCreate(t, timesheet.CreateEntryRequest{Date: "2026-03-02", Duration: floatPtr(2)})

	_, err := env.service.Submit(context.Background(), env.companyID, env.userID, nil)
	require.NoError(t, err)
	_, err = env.service.Reject(context.Background(), env.companyID, env.userID, nil, uuid.NewString(), "wrong project")
	require.NoError(t, err)

	updated, err := env.service.Update(context.Background(), env.companyID, env.userID, entry.ID, timesheet.UpdateEntryRequest{
		Duration: floatPtr(3),
	})
	require.NoError(t, err)
	assert.Equal(t, float64(3), updated.Duration)
	assert.Equal(t, timesheet.StatusRejected, updated.Status)
}

func TestUpdateHardFailsOnBadPatch(t *testing.T) {
	env := newTestEnv(t)
	entry := env.mustCreate(t, timesheet.CreateEntryRequest{Date: "2026-03-02"})

	_, err := env.service.Update(context.Background(), env.companyID, env.userID, entry.ID, timesheet.UpdateEntryRequest{
		Date: strPtr("not-a-date"),
	})
	var errs validator.ValidationErrors
	require.ErrorAs(t, err, &errs)
	assert.Contains(t, errs.ToMap(), "date")
}

func TestUpdateMalformedID(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.service.Update(context.Background(), env.companyID, env.userID, "garbage", timesheet.UpdateEntryRequest{})
	assert.ErrorIs(t, err, timesheet.ErrTimeEntryNotFound)
}

func TestUpdateReadBackFailureIsStorageError(t *testing.T) {
	env := newTestEnv(t)
	entry := env.mustCreate(t, timesheet.CreateEntryRequest{Date: "2026-03-02"})

	env.entries.afterWrite = func() {
		delete(env.entries.entries, entry.ID)
	}

	// The write committed; a vanished row on read-back must surface as a
	// storage failure, not as the not-found sentinel.
	_, err := env.service.Update(context.Background(), env.companyID, env.userID, entry.ID, timesheet.UpdateEntryRequest{
		Description: strPtr("tweak"),
	})
	require.Error(t, err)
	assert.False(t, errors.Is(err, timesheet.ErrTimeEntryNotFound))
	assert.Contains(t, err.Error(), "read back")
}

func TestDeleteGatingAndInvisibility(t *testing.T) {
	env := newTestEnv(t)
	entry := env.mustCreate(t, timesheet.CreateEntryRequest{Date: "2026-03-02"})

	result, err := env.service.Delete(context.Background(), env.companyID, entry.ID)
	require.NoError(t, err)
	assert.Equal(t, entry.ID, result.ID)
	assert.Equal(t, entry.EntryCode, result.EntryCode)

	// Soft-deleted entries disappear from every read path.
	_, err = env.service.Get(context.Background(), env.companyID, entry.ID)
	assert.ErrorIs(t, err, timesheet.ErrTimeEntryNotFound)

	entries, err := env.service.List(context.Background(), env.companyID, timesheet.EntryFilter{})
	require.NoError(t, err)
	assert.Empty(t, entries)

	stats, err := env.service.Stats(context.Background(), env.companyID, timesheet.StatsFilter{})
	require.NoError(t, err)
	assert.Zero(t, stats.TotalEntries)
}

func TestDeleteSubmittedEntryRefused(t *testing.T) {
	env := newTestEnv(t)
	entry := env.mustCreate(t, timesheet.CreateEntryRequest{Date: "2026-03-02"})

	_, err := env.service.Submit(context.Background(), env.companyID, env.userID, nil)
	require.NoError(t, err)

	_, err = env.service.Delete(context.Background(), env.companyID, entry.ID)
	var errs validator.ValidationErrors
	require.ErrorAs(t, err, &errs)
	assert.Equal(t, timesheet.MsgCannotDelete, errs.ToMap()["status"])
}

func TestApprovedEntryIsFrozen(t *testing.T) {
	env := newTestEnv(t)
	entry := env.mustCreate(t, timesheet.CreateEntryRequest{Date: "2026-03-02"})

	_, err := env.service.Submit(context.Background(), env.companyID, env.userID, nil)
	require.NoError(t, err)
	_, err = env.service.Approve(context.Background(), env.companyID, env.userID, nil, uuid.NewString())
	require.NoError(t, err)

	var errs validator.ValidationErrors

	_, err = env.service.Update(context.Background(), env.companyID, env.userID, entry.ID, timesheet.UpdateEntryRequest{
		Description: strPtr("tweak"),
	})
	require.ErrorAs(t, err, &errs)
	assert.Equal(t, timesheet.MsgCannotEdit, errs.ToMap()["status"])

	_, err = env.service.Delete(context.Background(), env.companyID, entry.ID)
	require.ErrorAs(t, err, &errs)
	assert.Equal(t, timesheet.MsgCannotDelete, errs.ToMap()["status"])

	// Submit cannot pull it out of approved either.
	result, err := env.service.Submit(context.Background(), env.companyID, env.userID, []string{entry.ID})
	require.NoError(t, err)
	assert.Zero(t, result.Count)
}

func TestLifecycle(t *testing.T) {
	env := newTestEnv(t)
	first := env.mustCreate(t, timesheet.CreateEntryRequest{Date: "2026-03-02"})
	second := env.mustCreate(t, timesheet.CreateEntryRequest{Date: "2026-03-03"})
	approverID := uuid.NewString()

	// Empty id list submits every draft.
	result, err := env.service.Submit(context.Background(), env.companyID, env.userID, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(2), result.Count)

	// Approving one by id leaves the other submitted.
	result, err = env.service.Approve(context.Background(), env.companyID, env.userID, []string{first.ID}, approverID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), result.Count)

	got, err := env.service.Get(context.Background(), env.companyID, first.ID)
	require.NoError(t, err)
	assert.Equal(t, timesheet.StatusApproved, got.Status)
	require.NotNil(t, got.ApprovedBy)
	assert.Equal(t, approverID, *got.ApprovedBy)
	assert.NotNil(t, got.ApprovedAt)

	// Approved entries are not eligible for rejection.
	result, err = env.service.Reject(context.Background(), env.companyID, env.userID, []string{first.ID}, approverID, "late")
	require.NoError(t, err)
	assert.Zero(t, result.Count)

	result, err = env.service.Reject(context.Background(), env.companyID, env.userID, []string{second.ID}, approverID, "wrong task")
	require.NoError(t, err)
	assert.Equal(t, int64(1), result.Count)

	got, err = env.service.Get(context.Background(), env.companyID, second.ID)
	require.NoError(t, err)
	assert.Equal(t, timesheet.StatusRejected, got.Status)
	require.NotNil(t, got.RejectionReason)
	assert.Equal(t, "wrong task", *got.RejectionReason)

	// A rejected entry can be resubmitted.
	result, err = env.service.Submit(context.Background(), env.companyID, env.userID, []string{second.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(1), result.Count)

	assert.Equal(t, []string{
		timesheet.EventEntryCreated,
		timesheet.EventEntryCreated,
		timesheet.EventEntrySubmitted,
		timesheet.EventEntryApproved,
		timesheet.EventEntryRejected,
		timesheet.EventEntryRejected,
		timesheet.EventEntrySubmitted,
	}, env.sink.events)
}

func TestResubmitRejectedEntry(t *testing.T) {
	env := newTestEnv(t)
	entry := env.mustCreate(t, timesheet.CreateEntryRequest{Date: "2026-03-02"})

	_, err := env.service.Submit(context.Background(), env.companyID, env.userID, nil)
	require.NoError(t, err)
	_, err = env.service.Reject(context.Background(), env.companyID, env.userID, []string{entry.ID}, uuid.NewString(), "missing details")
	require.NoError(t, err)

	result, err := env.service.Submit(context.Background(), env.companyID, env.userID, []string{entry.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(1), result.Count)

	got, err := env.service.Get(context.Background(), env.companyID, entry.ID)
	require.NoError(t, err)
	assert.Equal(t, timesheet.StatusSubmitted, got.Status)
}

func TestSubmitDoesNotTouchNonDrafts(t *testing.T) {
	env := newTestEnv(t)
	env.mustCreate(t, timesheet.CreateEntryRequest{Date: "2026-03-02"})

	result, err := env.service.Submit(context.Background(), env.companyID, env.userID, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(1), result.Count)

	// Nothing is left in draft, so a second submit is a no-op.
	result, err = env.service.Submit(context.Background(), env.companyID, env.userID, nil)
	require.NoError(t, err)
	assert.Zero(t, result.Count)
}

func TestBatchWithOnlyMalformedIDsSkipsStore(t *testing.T) {
	env := newTestEnv(t)
	env.mustCreate(t, timesheet.CreateEntryRequest{Date: "2026-03-02"})
	callsBefore := env.entries.batchCalls

	// If every named id is malformed, nothing can match. Falling through to
	// the store would submit all drafts instead.
	result, err := env.service.Submit(context.Background(), env.companyID, env.userID, []string{"bogus", "also-bogus"})
	require.NoError(t, err)
	assert.Zero(t, result.Count)
	assert.Equal(t, callsBefore, env.entries.batchCalls)

	got, err := env.service.List(context.Background(), env.companyID, timesheet.EntryFilter{Status: string(timesheet.StatusDraft)})
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestBatchDropsMalformedIDs(t *testing.T) {
	env := newTestEnv(t)
	entry := env.mustCreate(t, timesheet.CreateEntryRequest{Date: "2026-03-02"})

	result, err := env.service.Submit(context.Background(), env.companyID, env.userID, []string{entry.ID, "bogus"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), result.Count)
}

func TestTimesheetGrouping(t *testing.T) {
	env := newTestEnv(t)
	env.mustCreate(t, timesheet.CreateEntryRequest{Date: "2026-03-02", Duration: floatPtr(2), BillRate: floatPtr(50)})
	env.mustCreate(t, timesheet.CreateEntryRequest{Date: "2026-03-02", Duration: floatPtr(1.5), Billable: boolPtr(false)})
	env.mustCreate(t, timesheet.CreateEntryRequest{Date: "2026-03-03", Duration: floatPtr(4), BillRate: floatPtr(100)})

	view, err := env.service.Timesheet(context.Background(), env.companyID, env.userID, nil, nil)
	require.NoError(t, err)

	assert.Len(t, view.Entries, 3)
	assert.Len(t, view.GroupedByDate, 2)
	assert.Len(t, view.GroupedByDate["2026-03-02"], 2)
	assert.Len(t, view.GroupedByDate["2026-03-03"], 1)

	assert.InDelta(t, 7.5, view.Totals.TotalHours, 1e-9)
	assert.InDelta(t, 6, view.Totals.BillableHours, 1e-9)
	assert.Equal(t, 3, view.Totals.EntryCount)
	assert.InDelta(t, 500, view.Totals.TotalBilledAmount, 1e-9) // 2*50 + 4*100
}

func TestTimesheetDateRange(t *testing.T) {
	env := newTestEnv(t)
	env.mustCreate(t, timesheet.CreateEntryRequest{Date: "2026-03-02", Duration: floatPtr(1)})
	env.mustCreate(t, timesheet.CreateEntryRequest{Date: "2026-03-10", Duration: floatPtr(2)})

	start, _ := validator.ParseDateTime("2026-03-05")
	view, err := env.service.Timesheet(context.Background(), env.companyID, env.userID, &start, nil)
	require.NoError(t, err)
	assert.Len(t, view.Entries, 1)
	assert.InDelta(t, 2, view.Totals.TotalHours, 1e-9)
}

func TestStatsCountsByStatus(t *testing.T) {
	env := newTestEnv(t)
	env.mustCreate(t, timesheet.CreateEntryRequest{Date: "2026-03-02", Duration: floatPtr(2), BillRate: floatPtr(10)})
	env.mustCreate(t, timesheet.CreateEntryRequest{Date: "2026-03-03", Duration: floatPtr(3), Billable: boolPtr(false)})

	_, err := env.service.Submit(context.Background(), env.companyID, env.userID, nil)
	require.NoError(t, err)
	_, err = env.service.Approve(context.Background(), env.companyID, env.userID, nil, uuid.NewString())
	require.NoError(t, err)

	env.mustCreate(t, timesheet.CreateEntryRequest{Date: "2026-03-04", Duration: floatPtr(1)})

	stats, err := env.service.Stats(context.Background(), env.companyID, timesheet.StatsFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.TotalEntries)
	assert.Equal(t, int64(1), stats.DraftEntries)
	assert.Equal(t, int64(2), stats.ApprovedEntries)
	assert.InDelta(t, 6, stats.TotalHours, 1e-9)
	assert.InDelta(t, 3, stats.BillableHours, 1e-9)
	assert.InDelta(t, 20, stats.TotalBilledAmount, 1e-9)
}

func TestStatsSingleBillableEntry(t *testing.T) {
	env := newTestEnv(t)
	env.mustCreate(t, timesheet.CreateEntryRequest{
		Date:     "2026-03-02",
		Duration: floatPtr(8),
		Billable: boolPtr(true),
		BillRate: floatPtr(50),
	})

	stats, err := env.service.Stats(context.Background(), env.companyID, timesheet.StatsFilter{})
	require.NoError(t, err)
	assert.InDelta(t, 8, stats.TotalHours, 1e-9)
	assert.InDelta(t, 8, stats.BillableHours, 1e-9)
	assert.InDelta(t, 400, stats.TotalBilledAmount, 1e-9)
	assert.Equal(t, int64(1), stats.TotalEntries)
	assert.Equal(t, int64(1), stats.DraftEntries)
}

func TestStatsRanksTopUsersByHours(t *testing.T) {
	env := newTestEnv(t)
	otherUser := uuid.NewString()
	env.mustCreate(t, timesheet.CreateEntryRequest{Date: "2026-03-02", Duration: floatPtr(5)})

	_, err := env.service.Create(context.Background(), env.companyID, env.userID, true, timesheet.CreateEntryRequest{
		Date:     "2026-03-02",
		Duration: floatPtr(10),
		UserID:   otherUser,
	})
	require.NoError(t, err)

	stats, err := env.service.Stats(context.Background(), env.companyID, timesheet.StatsFilter{})
	require.NoError(t, err)
	require.Len(t, stats.TopUsers, 2)
	assert.Equal(t, otherUser, stats.TopUsers[0].UserID)
	assert.InDelta(t, 10, stats.TopUsers[0].TotalHours, 1e-9)
	assert.Equal(t, int64(1), stats.TopUsers[0].EntryCount)
	assert.Equal(t, env.userID, stats.TopUsers[1].UserID)
	assert.Equal(t, int64(1), stats.TopUsers[1].EntryCount)
}

func TestStatsDropsMalformedFilters(t *testing.T) {
	env := newTestEnv(t)
	env.mustCreate(t, timesheet.CreateEntryRequest{Date: "2026-03-02", Duration: floatPtr(2)})

	// A malformed filter value is ignored, not an error and not a filter
	// that silently matches nothing.
	stats, err := env.service.Stats(context.Background(), env.companyID, timesheet.StatsFilter{
		UserID:    "not-a-uuid",
		ProjectID: "also-not",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.TotalEntries)
}

func TestListSanitizesReferenceFilters(t *testing.T) {
	env := newTestEnv(t)
	env.mustCreate(t, timesheet.CreateEntryRequest{Date: "2026-03-02"})

	entries, err := env.service.List(context.Background(), env.companyID, timesheet.EntryFilter{
		ProjectID: "garbage",
	})
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestListByProjectRejectsMalformedID(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.service.ListByProject(context.Background(), env.companyID, "garbage", timesheet.EntryFilter{})
	var errs validator.ValidationErrors
	require.ErrorAs(t, err, &errs)
	assert.Contains(t, errs.ToMap(), "project_id")
}

func TestListByUserRejectsMalformedID(t *testing.T) {
	env := newTestEnv(t)
	env.mustCreate(t, timesheet.CreateEntryRequest{Date: "2026-03-02"})

	// The scope key is mandatory; a bad value must not widen the listing to
	// every user's entries.
	_, err := env.service.ListByUser(context.Background(), env.companyID, "not-a-uuid", timesheet.EntryFilter{})
	var errs validator.ValidationErrors
	require.ErrorAs(t, err, &errs)
	assert.Contains(t, errs.ToMap(), "user_id")
}

func TestEventSinkFailureNeverPropagates(t *testing.T) {
	entries := newFakeEntryRepo()
	svc := NewTimeEntryService(nil, entries, &fakeSequenceRepo{}, &fakeProjectRepo{}, &fakeTaskRepo{}, nil)

	// A nil sink falls back to the nop sink instead of panicking.
	_, err := svc.Create(context.Background(), uuid.NewString(), uuid.NewString(), false, timesheet.CreateEntryRequest{
		Date: "2026-03-02",
	})
	require.NoError(t, err)
}

func TestCreateOnBehalfOfAnotherUser(t *testing.T) {
	env := newTestEnv(t)
	otherUser := uuid.NewString()

	entry, err := env.service.Create(context.Background(), env.companyID, env.userID, true, timesheet.CreateEntryRequest{
		Date:   "2026-03-02",
		UserID: otherUser,
	})
	require.NoError(t, err)
	assert.Equal(t, otherUser, entry.UserID)
	assert.Equal(t, env.userID, entry.CreatedBy)
}

var errStoreDown = errors.New("store down")

type failingSequenceRepo struct{}

func (failingSequenceRepo) NextEntryCode(context.Context, string) (string, error) {
	return "", errStoreDown
}

func TestCreateFailsWhenSequenceUnavailable(t *testing.T) {
	env := newTestEnv(t)
	svc := NewTimeEntryService(nil, env.entries, failingSequenceRepo{}, &fakeProjectRepo{}, &fakeTaskRepo{}, env.sink)

	_, err := svc.Create(context.Background(), env.companyID, env.userID, false, timesheet.CreateEntryRequest{
		Date: "2026-03-02",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, errStoreDown)
	assert.Empty(t, env.sink.events)
}

type failingInsertRepo struct {
	*fakeEntryRepo
}

func (failingInsertRepo) Create(context.Context, timesheet.TimeEntry) (timesheet.TimeEntry, error) {
	return timesheet.TimeEntry{}, errStoreDown
}

func TestCreateFailsWhenInsertFails(t *testing.T) {
	env := newTestEnv(t)
	svc := NewTimeEntryService(nil, failingInsertRepo{env.entries}, &fakeSequenceRepo{}, &fakeProjectRepo{}, &fakeTaskRepo{}, env.sink)

	_, err := svc.Create(context.Background(), env.companyID, env.userID, false, timesheet.CreateEntryRequest{
		Date: "2026-03-02",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, errStoreDown)
	assert.Empty(t, env.sink.events)
}

func strPtr(s string) *string { return &s }

func floatPtr(f float64) *float64 { return &f }

func boolPtr(b bool) *bool { return &b }
