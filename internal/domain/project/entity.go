package project

import "time"

type ProjectStatus string

const (
	ProjectStatusActive    ProjectStatus = "active"
	ProjectStatusOnHold    ProjectStatus = "on_hold"
	ProjectStatusCompleted ProjectStatus = "completed"
	ProjectStatusArchived  ProjectStatus = "archived"
)

// Project entity
type Project struct {
	ID          string
	CompanyID   string
	Code        string // tenant-scoped display code, e.g. PRJ-0001
	Name        string
	ClientName  *string
	Description *string
	Status      ProjectStatus
	Billable    bool
	HourlyRate  float64
	StartDate   *time.Time
	EndDate     *time.Time
	CreatedBy   string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
