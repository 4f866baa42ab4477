package postgresql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/tempohq/tempo-backend-go/internal/domain/project"
	"github.com/tempohq/tempo-backend-go/internal/pkg/database"
)

type projectRepositoryImpl struct {
	db *database.DB
}

func NewProjectRepository(db *database.DB) project.ProjectRepository {
	return &projectRepositoryImpl{db: db}
}

const projectColumns = `
	p.id, p.company_id, p.code, p.name, p.client_name, p.description,
	p.status, p.billable, p.hourly_rate, p.start_date, p.end_date,
	p.created_by, p.created_at, p.updated_at`

func scanProject(row pgx.Row) (project.Project, error) {
	var p project.Project
	err := row.Scan(
		&p.ID, &p.CompanyID, &p.Code, &p.Name, &p.ClientName, &p.Description,
		&p.Status, &p.Billable, &p.HourlyRate, &p.StartDate, &p.EndDate,
		&p.CreatedBy, &p.CreatedAt, &p.UpdatedAt,
	)
	return p, err
}

func (r *projectRepositoryImpl) Create(ctx context.Context, p project.Project) (project.Project, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO projects (
			id, company_id, code, name, client_name, description,
			status, billable, hourly_rate, start_date, end_date,
			created_by, created_at, updated_at
		) VALUES (
			uuidv7(), $1, $2, $3, $4, $5,
			$6, $7, $8, $9, $10,
			$11, NOW(), NOW()
		) RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		p.CompanyID, p.Code, p.Name, p.ClientName, p.Description,
		p.Status, p.Billable, p.HourlyRate, p.StartDate, p.EndDate,
		p.CreatedBy,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return project.Project{}, fmt.Errorf("failed to insert project: %w", err)
	}

	return p, nil
}

func (r *projectRepositoryImpl) GetByID(ctx context.Context, companyID, id string) (project.Project, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + projectColumns + `
		FROM projects p
		WHERE p.company_id = $1 AND p.id = $2
	`

	p, err := scanProject(q.QueryRow(ctx, query, companyID, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return project.Project{}, project.ErrProjectNotFound
		}
		return project.Project{}, fmt.Errorf("failed to get project: %w", err)
	}

	return p, nil
}

func (r *projectRepositoryImpl) GetByCompanyID(ctx context.Context, companyID string) ([]project.Project, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + projectColumns + `
		FROM projects p
		WHERE p.company_id = $1
		ORDER BY p.created_at DESC
	`

	rows, err := q.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to query projects: %w", err)
	}
	defer rows.Close()

	var projects []project.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return projects, nil
}

func (r *projectRepositoryImpl) NextProjectCode(ctx context.Context, companyID string) (string, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO project_sequences (company_id, last_value)
		VALUES ($1, 1)
		ON CONFLICT (company_id)
		DO UPDATE SET last_value = project_sequences.last_value + 1
		RETURNING last_value
	`

	var lastValue int64
	if err := q.QueryRow(ctx, query, companyID).Scan(&lastValue); err != nil {
		return "", fmt.Errorf("failed to allocate project code for company %s: %w", companyID, err)
	}

	return fmt.Sprintf("PRJ-%04d", lastValue), nil
}
