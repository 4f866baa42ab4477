package postgresql

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/tempohq/tempo-backend-go/internal/domain/timesheet"
	"github.com/tempohq/tempo-backend-go/internal/pkg/database"
)

type timeEntryRepositoryImpl struct {
	db *database.DB
}

func NewTimeEntryRepository(db *database.DB) timesheet.TimeEntryRepository {
	return &timeEntryRepositoryImpl{db: db}
}

const timeEntryColumns = `
	te.id, te.entry_code, te.company_id, te.user_id,
	te.project_id, te.task_id, te.milestone_id,
	te.date, te.start_time, te.end_time, te.duration,
	te.billable, te.bill_rate, te.description,
	te.status, te.approved_by, te.approved_at, te.rejection_reason,
	te.is_deleted, te.deleted_at,
	te.created_by, te.updated_by, te.created_at, te.updated_at`

func scanTimeEntry(row pgx.Row) (timesheet.TimeEntry, error) {
	var e timesheet.TimeEntry
	err := row.Scan(
		&e.ID, &e.EntryCode, &e.CompanyID, &e.UserID,
		&e.ProjectID, &e.TaskID, &e.MilestoneID,
		&e.Date, &e.StartTime, &e.EndTime, &e.Duration,
		&e.Billable, &e.BillRate, &e.Description,
		&e.Status, &e.ApprovedBy, &e.ApprovedAt, &e.RejectionReason,
		&e.IsDeleted, &e.DeletedAt,
		&e.CreatedBy, &e.UpdatedBy, &e.CreatedAt, &e.UpdatedAt,
	)
	return e, err
}

func (r *timeEntryRepositoryImpl) Create(ctx context.Context, entry timesheet.TimeEntry) (timesheet.TimeEntry, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO time_entries (
			id, entry_code, company_id, user_id,
			project_id, task_id, milestone_id,
			date, start_time, end_time, duration,
			billable, bill_rate, description,
			status, is_deleted,
			created_by, updated_by, created_at, updated_at
		) VALUES (
			uuidv7(), $1, $2, $3,
			$4, $5, $6,
			$7, $8, $9, $10,
			$11, $12, $13,
			$14, FALSE,
			$15, $16, NOW(), NOW()
		) RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		entry.EntryCode, entry.CompanyID, entry.UserID,
		entry.ProjectID, entry.TaskID, entry.MilestoneID,
		entry.Date, entry.StartTime, entry.EndTime, entry.Duration,
		entry.Billable, entry.BillRate, entry.Description,
		entry.Status,
		entry.CreatedBy, entry.UpdatedBy,
	).Scan(&entry.ID, &entry.CreatedAt, &entry.UpdatedAt)
	if err != nil {
		return timesheet.TimeEntry{}, fmt.Errorf("failed to insert time entry: %w", err)
	}

	return entry, nil
}

func (r *timeEntryRepositoryImpl) GetByID(ctx context.Context, companyID, id string) (timesheet.TimeEntry, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + timeEntryColumns + `
		FROM time_entries te
		WHERE te.company_id = $1 AND te.id = $2 AND te.is_deleted = FALSE
	`

	entry, err := scanTimeEntry(q.QueryRow(ctx, query, companyID, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return timesheet.TimeEntry{}, timesheet.ErrTimeEntryNotFound
		}
		return timesheet.TimeEntry{}, fmt.Errorf("failed to get time entry: %w", err)
	}

	return entry, nil
}

// entrySortColumns whitelists the sortable fields.
var entrySortColumns = map[string]string{
	"date":       "te.date",
	"duration":   "te.duration",
	"created_at": "te.created_at",
	"start_time": "te.start_time",
	"status":     "te.status",
	"bill_rate":  "te.bill_rate",
}

// buildEntryWhere compiles an EntryFilter into a WHERE clause and its
// arguments. The company scope and the soft-delete exclusion are always
// present; malformed project/task filter values never reach this function
// (the service drops them).
func buildEntryWhere(companyID string, filter timesheet.EntryFilter) (string, []interface{}) {
	whereClauses := []string{"te.company_id = $1", "te.is_deleted = FALSE"}
	args := []interface{}{companyID}
	argIdx := 2

	if filter.UserID != "" {
		whereClauses = append(whereClauses, fmt.Sprintf("te.user_id = $%d", argIdx))
		args = append(args, filter.UserID)
		argIdx++
	}
	if filter.ProjectID != "" {
		whereClauses = append(whereClauses, fmt.Sprintf("te.project_id = $%d", argIdx))
		args = append(args, filter.ProjectID)
		argIdx++
	}
	if filter.TaskID != "" {
		whereClauses = append(whereClauses, fmt.Sprintf("te.task_id = $%d", argIdx))
		args = append(args, filter.TaskID)
		argIdx++
	}
	if filter.Status != "" && filter.Status != timesheet.StatusAll {
		whereClauses = append(whereClauses, fmt.Sprintf("te.status = $%d", argIdx))
		args = append(args, filter.Status)
		argIdx++
	}
	if filter.Billable != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("te.billable = $%d", argIdx))
		args = append(args, *filter.Billable)
		argIdx++
	}
	if filter.StartDate != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("te.date >= $%d", argIdx))
		args = append(args, *filter.StartDate)
		argIdx++
	}
	if filter.EndDate != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("te.date <= $%d", argIdx))
		args = append(args, *filter.EndDate)
		argIdx++
	}
	if filter.Search != "" {
		whereClauses = append(whereClauses, fmt.Sprintf("te.description ILIKE $%d", argIdx))
		args = append(args, "%"+filter.Search+"%")
		argIdx++
	}

	return strings.Join(whereClauses, " AND "), args
}

// buildEntryOrder compiles the sort part of an EntryFilter. Unknown sort
// fields fall back to the default date DESC.
func buildEntryOrder(filter timesheet.EntryFilter) string {
	column, ok := entrySortColumns[filter.SortBy]
	if !ok {
		column = "te.date"
	}
	if strings.EqualFold(filter.SortOrder, "asc") {
		return column + " ASC"
	}
	return column + " DESC"
}

func (r *timeEntryRepositoryImpl) List(ctx context.Context, companyID string, filter timesheet.EntryFilter) ([]timesheet.TimeEntry, error) {
	q := GetQuerier(ctx, r.db)

	whereClause, args := buildEntryWhere(companyID, filter)
	query := `
		SELECT ` + timeEntryColumns + `
		FROM time_entries te
		WHERE ` + whereClause + `
		ORDER BY ` + buildEntryOrder(filter)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query time entries: %w", err)
	}
	defer rows.Close()

	var entries []timesheet.TimeEntry
	for rows.Next() {
		entry, err := scanTimeEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan time entry: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return entries, nil
}

func (r *timeEntryRepositoryImpl) Update(ctx context.Context, companyID, id string, patch timesheet.EntryPatch) error {
	q := GetQuerier(ctx, r.db)

	updates := make([]string, 0)
	args := make([]interface{}, 0)
	argIdx := 1

	if patch.ProjectID != nil {
		updates = append(updates, fmt.Sprintf("project_id = $%d", argIdx))
		args = append(args, *patch.ProjectID)
		argIdx++
	}
	if patch.TaskID != nil {
		updates = append(updates, fmt.Sprintf("task_id = $%d", argIdx))
		args = append(args, *patch.TaskID)
		argIdx++
	}
	if patch.MilestoneID != nil {
		updates = append(updates, fmt.Sprintf("milestone_id = $%d", argIdx))
		args = append(args, *patch.MilestoneID)
		argIdx++
	}
	if patch.Date != nil {
		updates = append(updates, fmt.Sprintf("date = $%d", argIdx))
		args = append(args, *patch.Date)
		argIdx++
	}
	if patch.StartTime != nil {
		updates = append(updates, fmt.Sprintf("start_time = $%d", argIdx))
		args = append(args, *patch.StartTime)
		argIdx++
	}
	if patch.EndTime != nil {
		updates = append(updates, fmt.Sprintf("end_time = $%d", argIdx))
		args = append(args, *patch.EndTime)
		argIdx++
	}
	if patch.Duration != nil {
		updates = append(updates, fmt.Sprintf("duration = $%d", argIdx))
		args = append(args, *patch.Duration)
		argIdx++
	}
	if patch.Billable != nil {
		updates = append(updates, fmt.Sprintf("billable = $%d", argIdx))
		args = append(args, *patch.Billable)
		argIdx++
	}
	if patch.BillRate != nil {
		updates = append(updates, fmt.Sprintf("bill_rate = $%d", argIdx))
		args = append(args, *patch.BillRate)
		argIdx++
	}
	if patch.Description != nil {
		updates = append(updates, fmt.Sprintf("description = $%d", argIdx))
		args = append(args, *patch.Description)
		argIdx++
	}

	updates = append(updates, fmt.Sprintf("updated_by = $%d", argIdx))
	args = append(args, patch.UpdatedBy)
	argIdx++

	updates = append(updates, "updated_at = NOW()")

	query := "UPDATE time_entries SET " + strings.Join(updates, ", ") +
		fmt.Sprintf(" WHERE company_id = $%d AND id = $%d AND is_deleted = FALSE RETURNING id", argIdx, argIdx+1)
	args = append(args, companyID, id)

	var updatedID string
	if err := q.QueryRow(ctx, query, args...).Scan(&updatedID); err != nil {
		if err == pgx.ErrNoRows {
			return timesheet.ErrTimeEntryNotFound
		}
		return fmt.Errorf("failed to update time entry with id %s: %w", id, err)
	}
	return nil
}

func (r *timeEntryRepositoryImpl) SoftDelete(ctx context.Context, companyID, id string) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE time_entries
		SET is_deleted = TRUE, deleted_at = NOW(), updated_at = NOW()
		WHERE company_id = $1 AND id = $2 AND is_deleted = FALSE
		RETURNING id
	`

	var deletedID string
	if err := q.QueryRow(ctx, query, companyID, id).Scan(&deletedID); err != nil {
		if err == pgx.ErrNoRows {
			return timesheet.ErrTimeEntryNotFound
		}
		return fmt.Errorf("failed to soft delete time entry with id %s: %w", id, err)
	}
	return nil
}

func (r *timeEntryRepositoryImpl) UpdateStatusBatch(ctx context.Context, companyID, userID string, from []timesheet.Status, change timesheet.StatusChange, entryIDs []string) (int64, error) {
	q := GetQuerier(ctx, r.db)

	updates := []string{"status = $1", "updated_at = NOW()"}
	args := []interface{}{change.To}
	argIdx := 2

	if change.ApprovedBy != nil {
		updates = append(updates, fmt.Sprintf("approved_by = $%d", argIdx))
		args = append(args, *change.ApprovedBy)
		argIdx++
	}
	if change.ApprovedAt != nil {
		updates = append(updates, fmt.Sprintf("approved_at = $%d", argIdx))
		args = append(args, *change.ApprovedAt)
		argIdx++
	}
	if change.RejectionReason != nil {
		updates = append(updates, fmt.Sprintf("rejection_reason = $%d", argIdx))
		args = append(args, *change.RejectionReason)
		argIdx++
	}

	fromValues := make([]string, len(from))
	for i, status := range from {
		fromValues[i] = string(status)
	}

	query := "UPDATE time_entries SET " + strings.Join(updates, ", ") + fmt.Sprintf(`
		WHERE company_id = $%d AND user_id = $%d AND status = ANY($%d) AND is_deleted = FALSE`,
		argIdx, argIdx+1, argIdx+2)
	args = append(args, companyID, userID, fromValues)
	argIdx += 3

	if len(entryIDs) > 0 {
		query += fmt.Sprintf(" AND id = ANY($%d)", argIdx)
		args = append(args, entryIDs)
	}

	commandTag, err := q.Exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to batch update time entry status: %w", err)
	}

	return commandTag.RowsAffected(), nil
}

func (r *timeEntryRepositoryImpl) Aggregate(ctx context.Context, companyID string, filter timesheet.StatsFilter) (timesheet.Stats, error) {
	q := GetQuerier(ctx, r.db)

	whereClauses := []string{"company_id = $1", "is_deleted = FALSE"}
	args := []interface{}{companyID}
	argIdx := 2

	if filter.UserID != "" {
		whereClauses = append(whereClauses, fmt.Sprintf("user_id = $%d", argIdx))
		args = append(args, filter.UserID)
		argIdx++
	}
	if filter.ProjectID != "" {
		whereClauses = append(whereClauses, fmt.Sprintf("project_id = $%d", argIdx))
		args = append(args, filter.ProjectID)
		argIdx++
	}
	if filter.StartDate != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("date >= $%d", argIdx))
		args = append(args, *filter.StartDate)
		argIdx++
	}
	if filter.EndDate != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("date <= $%d", argIdx))
		args = append(args, *filter.EndDate)
		argIdx++
	}

	whereClause := strings.Join(whereClauses, " AND ")

	totalsQuery := `
		SELECT
			COALESCE(SUM(duration), 0) as total_hours,
			COALESCE(SUM(CASE WHEN billable THEN duration ELSE 0 END), 0) as billable_hours,
			COUNT(*) as total_entries,
			COALESCE(SUM(CASE WHEN status = 'draft' THEN 1 ELSE 0 END), 0) as draft_entries,
			COALESCE(SUM(CASE WHEN status = 'submitted' THEN 1 ELSE 0 END), 0) as submitted_entries,
			COALESCE(SUM(CASE WHEN status = 'approved' THEN 1 ELSE 0 END), 0) as approved_entries,
			COALESCE(SUM(CASE WHEN status = 'rejected' THEN 1 ELSE 0 END), 0) as rejected_entries,
			COALESCE(SUM(CASE WHEN billable THEN duration * bill_rate ELSE 0 END), 0) as total_billed_amount
		FROM time_entries
		WHERE ` + whereClause

	var stats timesheet.Stats
	err := q.QueryRow(ctx, totalsQuery, args...).Scan(
		&stats.TotalHours, &stats.BillableHours, &stats.TotalEntries,
		&stats.DraftEntries, &stats.SubmittedEntries, &stats.ApprovedEntries, &stats.RejectedEntries,
		&stats.TotalBilledAmount,
	)
	if err != nil {
		return timesheet.Stats{}, fmt.Errorf("failed to aggregate time entries: %w", err)
	}

	// Tie order among equal totals is unspecified.
	topUsersQuery := `
		SELECT user_id, COALESCE(SUM(duration), 0) as total_hours, COUNT(*) as entry_count
		FROM time_entries
		WHERE ` + whereClause + `
		GROUP BY user_id
		ORDER BY total_hours DESC
		LIMIT 10`

	rows, err := q.Query(ctx, topUsersQuery, args...)
	if err != nil {
		return timesheet.Stats{}, fmt.Errorf("failed to query top users: %w", err)
	}
	defer rows.Close()

	stats.TopUsers = []timesheet.UserHours{}
	for rows.Next() {
		var uh timesheet.UserHours
		if err := rows.Scan(&uh.UserID, &uh.TotalHours, &uh.EntryCount); err != nil {
			return timesheet.Stats{}, fmt.Errorf("failed to scan top user row: %w", err)
		}
		stats.TopUsers = append(stats.TopUsers, uh)
	}
	if err := rows.Err(); err != nil {
		return timesheet.Stats{}, fmt.Errorf("rows iteration error: %w", err)
	}

	return stats, nil
}
