package postgresql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/tempohq/tempo-backend-go/internal/domain/task"
	"github.com/tempohq/tempo-backend-go/internal/pkg/database"
)

type taskRepositoryImpl struct {
	db *database.DB
}

func NewTaskRepository(db *database.DB) task.TaskRepository {
	return &taskRepositoryImpl{db: db}
}

const taskColumns = `
	t.id, t.company_id, t.project_id, t.title, t.description,
	t.status, t.priority, t.assignee_id, t.due_date,
	t.created_by, t.created_at, t.updated_at`

func scanTask(row pgx.Row) (task.Task, error) {
	var t task.Task
	err := row.Scan(
		&t.ID, &t.CompanyID, &t.ProjectID, &t.Title, &t.Description,
		&t.Status, &t.Priority, &t.AssigneeID, &t.DueDate,
		&t.CreatedBy, &t.CreatedAt, &t.UpdatedAt,
	)
	return t, err
}

func (r *taskRepositoryImpl) Create(ctx context.Context, t task.Task) (task.Task, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO tasks (
			id, company_id, project_id, title, description,
			status, priority, assignee_id, due_date,
			created_by, created_at, updated_at
		) VALUES (
			uuidv7(), $1, $2, $3, $4,
			$5, $6, $7, $8,
			$9, NOW(), NOW()
		) RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		t.CompanyID, t.ProjectID, t.Title, t.Description,
		t.Status, t.Priority, t.AssigneeID, t.DueDate,
		t.CreatedBy,
	).Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return task.Task{}, fmt.Errorf("failed to insert task: %w", err)
	}

	return t, nil
}

func (r *taskRepositoryImpl) GetByID(ctx context.Context, companyID, id string) (task.Task, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + taskColumns + `
		FROM tasks t
		WHERE t.company_id = $1 AND t.id = $2
	`

	t, err := scanTask(q.QueryRow(ctx, query, companyID, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return task.Task{}, task.ErrTaskNotFound
		}
		return task.Task{}, fmt.Errorf("failed to get task: %w", err)
	}

	return t, nil
}

func (r *taskRepositoryImpl) GetByProjectID(ctx context.Context, companyID, projectID string) ([]task.Task, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + taskColumns + `
		FROM tasks t
		WHERE t.company_id = $1 AND t.project_id = $2
		ORDER BY t.created_at DESC
	`

	rows, err := q.Query(ctx, query, companyID, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to query tasks: %w", err)
	}
	defer rows.Close()

	var tasks []task.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return tasks, nil
}
