package timesheet

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/tempohq/tempo-backend-go/internal/domain/project"
	"github.com/tempohq/tempo-backend-go/internal/domain/task"
	"github.com/tempohq/tempo-backend-go/internal/domain/timesheet"
	"github.com/tempohq/tempo-backend-go/internal/pkg/database"
	"github.com/tempohq/tempo-backend-go/internal/pkg/validator"
	"github.com/tempohq/tempo-backend-go/internal/repository/postgresql"
)

type TimeEntryServiceImpl struct {
	db        *database.DB
	entries   timesheet.TimeEntryRepository
	sequences timesheet.SequenceRepository
	projects  project.ProjectRepository
	tasks     task.TaskRepository
	events    timesheet.EventSink
}

func NewTimeEntryService(
	db *database.DB,
	entryRepository timesheet.TimeEntryRepository,
	sequenceRepository timesheet.SequenceRepository,
	projectRepository project.ProjectRepository,
	taskRepository task.TaskRepository,
	events timesheet.EventSink,
) timesheet.TimeEntryService {
	if events == nil {
		events = timesheet.NopSink{}
	}
	return &TimeEntryServiceImpl{
		db:        db,
		entries:   entryRepository,
		sequences: sequenceRepository,
		projects:  projectRepository,
		tasks:     taskRepository,
		events:    events,
	}
}

func (s *TimeEntryServiceImpl) Create(ctx context.Context, companyID, actorID string, allowStatusOverride bool, req timesheet.CreateEntryRequest) (timesheet.TimeEntry, error) {
	if err := req.Validate(); err != nil {
		return timesheet.TimeEntry{}, err
	}

	date, _ := validator.ParseDateTime(req.Date)

	userID := actorID
	if req.UserID != "" {
		// creating on behalf of another user (manager/HR path)
		userID = req.UserID
	}

	status := timesheet.StatusDraft
	if req.Status != nil && allowStatusOverride {
		status = *req.Status
	}

	entry := timesheet.TimeEntry{
		CompanyID:   companyID,
		UserID:      userID,
		ProjectID:   normalizeRef(req.ProjectID),
		TaskID:      normalizeRef(req.TaskID),
		MilestoneID: normalizeRef(req.MilestoneID),
		Date:        date,
		StartTime:   parseOptionalTime(req.StartTime),
		EndTime:     parseOptionalTime(req.EndTime),
		Duration:    0,
		Billable:    true,
		BillRate:    0,
		Description: req.Description,
		Status:      status,
		CreatedBy:   actorID,
		UpdatedBy:   actorID,
	}
	if req.Duration != nil {
		entry.Duration = *req.Duration
	}
	if req.Billable != nil {
		entry.Billable = *req.Billable
	}
	if req.BillRate != nil {
		entry.BillRate = *req.BillRate
	}

	// Code allocation and the insert commit together; a failed insert must
	// not burn an entry code.
	var created timesheet.TimeEntry
	err := s.inTx(ctx, func(txCtx context.Context) error {
		entryCode, err := s.sequences.NextEntryCode(txCtx, companyID)
		if err != nil {
			return fmt.Errorf("failed to allocate entry code: %w", err)
		}
		entry.EntryCode = entryCode

		created, err = s.entries.Create(txCtx, entry)
		if err != nil {
			return fmt.Errorf("failed to create time entry: %w", err)
		}
		return nil
	})
	if err != nil {
		return timesheet.TimeEntry{}, err
	}

	s.events.Publish(companyID, timesheet.EventEntryCreated, map[string]interface{}{
		"id":         created.ID,
		"entry_code": created.EntryCode,
		"user_id":    created.UserID,
		"status":     created.Status,
	})

	return created, nil
}

func (s *TimeEntryServiceImpl) Get(ctx context.Context, companyID, id string) (timesheet.TimeEntry, error) {
	if !validator.IsValidID(id) {
		return timesheet.TimeEntry{}, validator.NewFieldError("id", "Invalid id format")
	}

	entry, err := s.entries.GetByID(ctx, companyID, id)
	if err != nil {
		return timesheet.TimeEntry{}, err
	}

	// Best-effort enrichment: a missing or unreadable reference omits the
	// snapshot, it never fails the read.
	if entry.ProjectID != nil {
		if p, err := s.projects.GetByID(ctx, companyID, *entry.ProjectID); err == nil {
			entry.Project = &timesheet.ProjectSnapshot{ID: p.ID, Code: p.Code, Name: p.Name}
		} else if !errors.Is(err, project.ErrProjectNotFound) {
			slog.Warn("time entry project enrichment failed", "entry_id", entry.ID, "error", err)
		}
	}
	if entry.TaskID != nil {
		if t, err := s.tasks.GetByID(ctx, companyID, *entry.TaskID); err == nil {
			entry.Task = &timesheet.TaskSnapshot{ID: t.ID, Title: t.Title, Status: string(t.Status)}
		} else if !errors.Is(err, task.ErrTaskNotFound) {
			slog.Warn("time entry task enrichment failed", "entry_id", entry.ID, "error", err)
		}
	}

	return entry, nil
}

func (s *TimeEntryServiceImpl) List(ctx context.Context, companyID string, filter timesheet.EntryFilter) ([]timesheet.TimeEntry, error) {
	sanitizeFilter(&filter)
	return s.entries.List(ctx, companyID, filter)
}

func (s *TimeEntryServiceImpl) ListByUser(ctx context.Context, companyID, userID string, filter timesheet.EntryFilter) ([]timesheet.TimeEntry, error) {
	if !validator.IsValidID(userID) {
		return nil, validator.NewFieldError("user_id", "Invalid user_id format")
	}
	filter.UserID = userID
	sanitizeFilter(&filter)
	return s.entries.List(ctx, companyID, filter)
}

func (s *TimeEntryServiceImpl) ListByProject(ctx context.Context, companyID, projectID string, filter timesheet.EntryFilter) ([]timesheet.TimeEntry, error) {
	if !validator.IsValidID(projectID) {
		return nil, validator.NewFieldError("project_id", "Invalid project_id format")
	}
	filter.ProjectID = projectID
	sanitizeFilter(&filter)
	return s.entries.List(ctx, companyID, filter)
}

func (s *TimeEntryServiceImpl) ListByTask(ctx context.Context, companyID, taskID string, filter timesheet.EntryFilter) ([]timesheet.TimeEntry, error) {
	if !validator.IsValidID(taskID) {
		return nil, validator.NewFieldError("task_id", "Invalid task_id format")
	}
	filter.TaskID = taskID
	sanitizeFilter(&filter)
	return s.entries.List(ctx, companyID, filter)
}

func (s *TimeEntryServiceImpl) Update(ctx context.Context, companyID, actorID, id string, req timesheet.UpdateEntryRequest) (timesheet.TimeEntry, error) {
	if !validator.IsValidID(id) {
		return timesheet.TimeEntry{}, timesheet.ErrTimeEntryNotFound
	}
	if err := req.Validate(); err != nil {
		return timesheet.TimeEntry{}, err
	}

	current, err := s.entries.GetByID(ctx, companyID, id)
	if err != nil {
		return timesheet.TimeEntry{}, err
	}

	// Status gating happens before any patch field is applied.
	if !current.Status.IsEditable() {
		return timesheet.TimeEntry{}, validator.NewFieldError("status", timesheet.MsgCannotEdit)
	}

	patch := timesheet.EntryPatch{
		ProjectID:   req.ProjectID,
		TaskID:      req.TaskID,
		MilestoneID: req.MilestoneID,
		StartTime:   parseOptionalTime(req.StartTime),
		EndTime:     parseOptionalTime(req.EndTime),
		Duration:    req.Duration,
		Billable:    req.Billable,
		BillRate:    req.BillRate,
		Description: req.Description,
		UpdatedBy:   actorID,
	}
	if req.Date != nil {
		if date, ok := validator.ParseDateTime(*req.Date); ok {
			patch.Date = &date
		}
	}

	if err := s.entries.Update(ctx, companyID, id, patch); err != nil {
		return timesheet.TimeEntry{}, err
	}

	updated, err := s.entries.GetByID(ctx, companyID, id)
	if err != nil {
		// The write committed; the read-back failure is a storage error, so
		// the not-found sentinel must not leak through as a 404.
		return timesheet.TimeEntry{}, fmt.Errorf("time entry %s was updated but could not be read back: %v", id, err)
	}

	s.events.Publish(companyID, timesheet.EventEntryUpdated, map[string]interface{}{
		"id":         updated.ID,
		"entry_code": updated.EntryCode,
		"user_id":    updated.UserID,
	})

	return updated, nil
}

func (s *TimeEntryServiceImpl) Delete(ctx context.Context, companyID, id string) (timesheet.DeleteResult, error) {
	if !validator.IsValidID(id) {
		return timesheet.DeleteResult{}, timesheet.ErrTimeEntryNotFound
	}

	current, err := s.entries.GetByID(ctx, companyID, id)
	if err != nil {
		return timesheet.DeleteResult{}, err
	}

	if !current.Status.IsEditable() {
		return timesheet.DeleteResult{}, validator.NewFieldError("status", timesheet.MsgCannotDelete)
	}

	if err := s.entries.SoftDelete(ctx, companyID, id); err != nil {
		return timesheet.DeleteResult{}, err
	}

	s.events.Publish(companyID, timesheet.EventEntryDeleted, map[string]interface{}{
		"id":         current.ID,
		"entry_code": current.EntryCode,
		"user_id":    current.UserID,
	})

	return timesheet.DeleteResult{ID: current.ID, EntryCode: current.EntryCode}, nil
}

func (s *TimeEntryServiceImpl) Submit(ctx context.Context, companyID, userID string, entryIDs []string) (timesheet.BatchResult, error) {
	// Rejected entries are resubmittable alongside drafts.
	return s.transition(ctx, companyID, userID, entryIDs,
		[]timesheet.Status{timesheet.StatusDraft, timesheet.StatusRejected},
		timesheet.StatusChange{To: timesheet.StatusSubmitted},
		timesheet.EventEntrySubmitted,
	)
}

func (s *TimeEntryServiceImpl) Approve(ctx context.Context, companyID, userID string, entryIDs []string, approverID string) (timesheet.BatchResult, error) {
	now := time.Now()
	return s.transition(ctx, companyID, userID, entryIDs,
		[]timesheet.Status{timesheet.StatusSubmitted},
		timesheet.StatusChange{To: timesheet.StatusApproved, ApprovedBy: &approverID, ApprovedAt: &now},
		timesheet.EventEntryApproved,
	)
}

func (s *TimeEntryServiceImpl) Reject(ctx context.Context, companyID, userID string, entryIDs []string, reviewerID, reason string) (timesheet.BatchResult, error) {
	now := time.Now()
	return s.transition(ctx, companyID, userID, entryIDs,
		[]timesheet.Status{timesheet.StatusSubmitted},
		timesheet.StatusChange{To: timesheet.StatusRejected, ApprovedBy: &reviewerID, ApprovedAt: &now, RejectionReason: &reason},
		timesheet.EventEntryRejected,
	)
}

// inTx runs fn inside a database transaction. In-memory repositories carry
// no pool, so a nil db runs fn directly.
func (s *TimeEntryServiceImpl) inTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if s.db == nil {
		return fn(ctx)
	}
	return postgresql.WithTransaction(ctx, s.db, fn)
}

// transition runs one bulk lifecycle step. Ids with an invalid shape are
// dropped up front; if the caller named ids and none survive, nothing can
// match and no store round-trip is needed.
func (s *TimeEntryServiceImpl) transition(ctx context.Context, companyID, userID string, entryIDs []string, from []timesheet.Status, change timesheet.StatusChange, event string) (timesheet.BatchResult, error) {
	validIDs := make([]string, 0, len(entryIDs))
	for _, id := range entryIDs {
		if validator.IsValidID(id) {
			validIDs = append(validIDs, id)
		}
	}
	if len(entryIDs) > 0 && len(validIDs) == 0 {
		return timesheet.BatchResult{Count: 0}, nil
	}

	count, err := s.entries.UpdateStatusBatch(ctx, companyID, userID, from, change, validIDs)
	if err != nil {
		return timesheet.BatchResult{}, err
	}

	s.events.Publish(companyID, event, map[string]interface{}{
		"user_id":   userID,
		"count":     count,
		"entry_ids": validIDs,
	})

	return timesheet.BatchResult{Count: count}, nil
}

func (s *TimeEntryServiceImpl) Timesheet(ctx context.Context, companyID, userID string, startDate, endDate *time.Time) (timesheet.TimesheetView, error) {
	entries, err := s.entries.List(ctx, companyID, timesheet.EntryFilter{
		UserID:    userID,
		StartDate: startDate,
		EndDate:   endDate,
	})
	if err != nil {
		return timesheet.TimesheetView{}, err
	}

	view := timesheet.TimesheetView{
		Entries:       entries,
		GroupedByDate: make(map[string][]timesheet.TimeEntry),
	}
	for _, entry := range entries {
		key := entry.Date.Format("2006-01-02")
		view.GroupedByDate[key] = append(view.GroupedByDate[key], entry)

		view.Totals.TotalHours += entry.Duration
		if entry.Billable {
			view.Totals.BillableHours += entry.Duration
		}
		view.Totals.TotalBilledAmount += entry.BilledAmount()
	}
	view.Totals.EntryCount = len(entries)

	return view, nil
}

func (s *TimeEntryServiceImpl) Stats(ctx context.Context, companyID string, filter timesheet.StatsFilter) (timesheet.Stats, error) {
	// Malformed filter references are ignored, not errors.
	if filter.ProjectID != "" && !validator.IsValidID(filter.ProjectID) {
		filter.ProjectID = ""
	}
	if filter.UserID != "" && !validator.IsValidID(filter.UserID) {
		filter.UserID = ""
	}
	return s.entries.Aggregate(ctx, companyID, filter)
}

// sanitizeFilter drops malformed reference filters instead of failing the
// listing.
func sanitizeFilter(filter *timesheet.EntryFilter) {
	if filter.UserID != "" && !validator.IsValidID(filter.UserID) {
		filter.UserID = ""
	}
	if filter.ProjectID != "" && !validator.IsValidID(filter.ProjectID) {
		filter.ProjectID = ""
	}
	if filter.TaskID != "" && !validator.IsValidID(filter.TaskID) {
		filter.TaskID = ""
	}
}

func normalizeRef(id *string) *string {
	if id == nil || *id == "" {
		return nil
	}
	return id
}

func parseOptionalTime(value *string) *time.Time {
	if value == nil || *value == "" {
		return nil
	}
	if t, ok := validator.ParseDateTime(*value); ok {
		return &t
	}
	return nil
}
