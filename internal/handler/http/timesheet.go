package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/tempohq/tempo-backend-go/internal/domain/timesheet"
	"github.com/tempohq/tempo-backend-go/internal/handler/http/response"
	"github.com/tempohq/tempo-backend-go/internal/pkg/validator"
)

type TimesheetHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)

	List(w http.ResponseWriter, r *http.Request)
	ListMy(w http.ResponseWriter, r *http.Request)
	ListByUser(w http.ResponseWriter, r *http.Request)
	ListByProject(w http.ResponseWriter, r *http.Request)
	ListByTask(w http.ResponseWriter, r *http.Request)

	Submit(w http.ResponseWriter, r *http.Request)
	Approve(w http.ResponseWriter, r *http.Request)
	Reject(w http.ResponseWriter, r *http.Request)

	MyTimesheet(w http.ResponseWriter, r *http.Request)
	UserTimesheet(w http.ResponseWriter, r *http.Request)
	Stats(w http.ResponseWriter, r *http.Request)
}

type TimesheetHandlerImpl struct {
	timesheetService timesheet.TimeEntryService
}

func NewTimesheetHandler(timesheetService timesheet.TimeEntryService) TimesheetHandler {
	return &TimesheetHandlerImpl{
		timesheetService: timesheetService,
	}
}

// Create implements TimesheetHandler.
func (h *TimesheetHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var req timesheet.CreateEntryRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Create time entry decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	userID, companyID, role, err := requestClaims(r)
	if err != nil {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	// Only approvers may seed a non-draft status or log for someone else.
	allowOverride := role.CanApprove()
	if !allowOverride {
		req.UserID = ""
		req.Status = nil
	}

	entry, err := h.timesheetService.Create(r.Context(), companyID, userID, allowOverride, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Time entry created successfully", entry)
}

// Get implements TimesheetHandler.
func (h *TimesheetHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	_, companyID, _, err := requestClaims(r)
	if err != nil {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	entry, err := h.timesheetService.Get(r.Context(), companyID, chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, entry)
}

// Update implements TimesheetHandler.
func (h *TimesheetHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	var req timesheet.UpdateEntryRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Update time entry decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	userID, companyID, _, err := requestClaims(r)
	if err != nil {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	entry, err := h.timesheetService.Update(r.Context(), companyID, userID, chi.URLParam(r, "id"), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Time entry updated successfully", entry)
}

// Delete implements TimesheetHandler.
func (h *TimesheetHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	_, companyID, _, err := requestClaims(r)
	if err != nil {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	result, err := h.timesheetService.Delete(r.Context(), companyID, chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Time entry deleted successfully", result)
}

// List implements TimesheetHandler.
func (h *TimesheetHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	_, companyID, _, err := requestClaims(r)
	if err != nil {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	entries, err := h.timesheetService.List(r.Context(), companyID, parseEntryFilter(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, entries)
}

// ListMy implements TimesheetHandler.
func (h *TimesheetHandlerImpl) ListMy(w http.ResponseWriter, r *http.Request) {
	userID, companyID, _, err := requestClaims(r)
	if err != nil {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	entries, err := h.timesheetService.ListByUser(r.Context(), companyID, userID, parseEntryFilter(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, entries)
}

// ListByUser implements TimesheetHandler.
func (h *TimesheetHandlerImpl) ListByUser(w http.ResponseWriter, r *http.Request) {
	_, companyID, _, err := requestClaims(r)
	if err != nil {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	targetUserID := chi.URLParam(r, "userID")
	if !validator.IsValidID(targetUserID) {
		response.HandleError(w, validator.NewFieldError("user_id", "Invalid user_id format"))
		return
	}

	entries, err := h.timesheetService.ListByUser(r.Context(), companyID, targetUserID, parseEntryFilter(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, entries)
}

// ListByProject implements TimesheetHandler.
func (h *TimesheetHandlerImpl) ListByProject(w http.ResponseWriter, r *http.Request) {
	_, companyID, _, err := requestClaims(r)
	if err != nil {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	entries, err := h.timesheetService.ListByProject(r.Context(), companyID, chi.URLParam(r, "projectID"), parseEntryFilter(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, entries)
}

// ListByTask implements TimesheetHandler.
func (h *TimesheetHandlerImpl) ListByTask(w http.ResponseWriter, r *http.Request) {
	_, companyID, _, err := requestClaims(r)
	if err != nil {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	entries, err := h.timesheetService.ListByTask(r.Context(), companyID, chi.URLParam(r, "taskID"), parseEntryFilter(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, entries)
}

// Submit implements TimesheetHandler. The caller submits their own drafts.
func (h *TimesheetHandlerImpl) Submit(w http.ResponseWriter, r *http.Request) {
	var req timesheet.SubmitEntriesRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Submit time entries decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	userID, companyID, _, err := requestClaims(r)
	if err != nil {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	result, err := h.timesheetService.Submit(r.Context(), companyID, userID, req.EntryIDs)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Time entries submitted successfully", result)
}

// Approve implements TimesheetHandler.
func (h *TimesheetHandlerImpl) Approve(w http.ResponseWriter, r *http.Request) {
	var req timesheet.ApproveEntriesRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Approve time entries decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	approverID, companyID, _, err := requestClaims(r)
	if err != nil {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	result, err := h.timesheetService.Approve(r.Context(), companyID, req.UserID, req.EntryIDs, approverID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Time entries approved successfully", result)
}

// Reject implements TimesheetHandler.
func (h *TimesheetHandlerImpl) Reject(w http.ResponseWriter, r *http.Request) {
	var req timesheet.RejectEntriesRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Reject time entries decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	reviewerID, companyID, _, err := requestClaims(r)
	if err != nil {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	result, err := h.timesheetService.Reject(r.Context(), companyID, req.UserID, req.EntryIDs, reviewerID, req.Reason)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Time entries rejected successfully", result)
}

// MyTimesheet implements TimesheetHandler.
func (h *TimesheetHandlerImpl) MyTimesheet(w http.ResponseWriter, r *http.Request) {
	userID, companyID, _, err := requestClaims(r)
	if err != nil {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	startDate, endDate := parseDateRange(r)
	view, err := h.timesheetService.Timesheet(r.Context(), companyID, userID, startDate, endDate)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, view)
}

// UserTimesheet implements TimesheetHandler.
func (h *TimesheetHandlerImpl) UserTimesheet(w http.ResponseWriter, r *http.Request) {
	_, companyID, _, err := requestClaims(r)
	if err != nil {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	targetUserID := chi.URLParam(r, "userID")
	if !validator.IsValidID(targetUserID) {
		response.HandleError(w, validator.NewFieldError("user_id", "Invalid user_id format"))
		return
	}

	startDate, endDate := parseDateRange(r)
	view, err := h.timesheetService.Timesheet(r.Context(), companyID, targetUserID, startDate, endDate)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, view)
}

// Stats implements TimesheetHandler.
func (h *TimesheetHandlerImpl) Stats(w http.ResponseWriter, r *http.Request) {
	_, companyID, _, err := requestClaims(r)
	if err != nil {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	startDate, endDate := parseDateRange(r)
	filter := timesheet.StatsFilter{
		UserID:    r.URL.Query().Get("user_id"),
		ProjectID: r.URL.Query().Get("project_id"),
		StartDate: startDate,
		EndDate:   endDate,
	}

	stats, err := h.timesheetService.Stats(r.Context(), companyID, filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, stats)
}

// parseEntryFilter reads the listing filters from query parameters.
// Unparseable values are dropped rather than rejected.
func parseEntryFilter(r *http.Request) timesheet.EntryFilter {
	q := r.URL.Query()

	filter := timesheet.EntryFilter{
		UserID:    q.Get("user_id"),
		ProjectID: q.Get("project_id"),
		TaskID:    q.Get("task_id"),
		Status:    q.Get("status"),
		Search:    q.Get("search"),
		SortBy:    q.Get("sort_by"),
		SortOrder: q.Get("sort_order"),
	}

	if billable, ok := validator.ParseBool(q.Get("billable")); ok {
		filter.Billable = &billable
	}
	filter.StartDate, filter.EndDate = parseDateRange(r)

	return filter
}

func parseDateRange(r *http.Request) (startDate, endDate *time.Time) {
	q := r.URL.Query()
	if s := q.Get("start_date"); s != "" {
		if t, ok := validator.ParseDateTime(s); ok {
			startDate = &t
		}
	}
	if s := q.Get("end_date"); s != "" {
		if t, ok := validator.ParseDateTime(s); ok {
			endDate = &t
		}
	}
	return startDate, endDate
}
