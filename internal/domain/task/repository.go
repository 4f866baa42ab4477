package task

import "context"

// TaskRepository - interface for tasks table
type TaskRepository interface {
	Create(ctx context.Context, t Task) (Task, error)
	// GetByID returns ErrTaskNotFound when the task does not exist in this
	// company.
	GetByID(ctx context.Context, companyID, id string) (Task, error)
	GetByProjectID(ctx context.Context, companyID, projectID string) ([]Task, error)
}
