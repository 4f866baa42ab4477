package company

import "time"

// Company is the tenant. Every query in the system is scoped by a company id;
// no operation may address another tenant's rows.
type Company struct {
	ID        string
	Name      string
	Slug      string
	CreatedAt time.Time
	UpdatedAt time.Time
}
