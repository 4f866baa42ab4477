package project

import "context"

// ProjectRepository - interface for projects table
type ProjectRepository interface {
	Create(ctx context.Context, p Project) (Project, error)
	// GetByID returns ErrProjectNotFound when the project does not exist in
	// this company.
	GetByID(ctx context.Context, companyID, id string) (Project, error)
	GetByCompanyID(ctx context.Context, companyID string) ([]Project, error)
	NextProjectCode(ctx context.Context, companyID string) (string, error)
}
