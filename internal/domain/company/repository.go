package company

import "context"

// CompanyRepository - interface for companies table
type CompanyRepository interface {
	Create(ctx context.Context, c Company) (Company, error)
	GetByID(ctx context.Context, id string) (Company, error)
	GetBySlug(ctx context.Context, slug string) (Company, error)
}
