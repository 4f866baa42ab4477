package project

import (
	"context"
	"fmt"

	"github.com/tempohq/tempo-backend-go/internal/domain/project"
	"github.com/tempohq/tempo-backend-go/internal/domain/task"
	"github.com/tempohq/tempo-backend-go/internal/pkg/database"
	"github.com/tempohq/tempo-backend-go/internal/pkg/validator"
)

// ProjectService covers projects and their tasks.
type ProjectService interface {
	CreateProject(ctx context.Context, companyID, actorID string, req project.CreateProjectRequest) (project.Project, error)
	GetProject(ctx context.Context, companyID, id string) (project.Project, error)
	ListProjects(ctx context.Context, companyID string) ([]project.Project, error)
	CreateTask(ctx context.Context, companyID, actorID, projectID string, req task.CreateTaskRequest) (task.Task, error)
	GetTask(ctx context.Context, companyID, id string) (task.Task, error)
	ListTasks(ctx context.Context, companyID, projectID string) ([]task.Task, error)
}

type ProjectServiceImpl struct {
	db       *database.DB
	projects project.ProjectRepository
	tasks    task.TaskRepository
}

func NewProjectService(db *database.DB, projectRepository project.ProjectRepository, taskRepository task.TaskRepository) ProjectService {
	return &ProjectServiceImpl{
		db:       db,
		projects: projectRepository,
		tasks:    taskRepository,
	}
}

func (s *ProjectServiceImpl) CreateProject(ctx context.Context, companyID, actorID string, req project.CreateProjectRequest) (project.Project, error) {
	if err := req.Validate(); err != nil {
		return project.Project{}, err
	}

	code, err := s.projects.NextProjectCode(ctx, companyID)
	if err != nil {
		return project.Project{}, fmt.Errorf("failed to allocate project code: %w", err)
	}

	p := project.Project{
		CompanyID:   companyID,
		Code:        code,
		Name:        req.Name,
		ClientName:  req.ClientName,
		Description: req.Description,
		Status:      project.ProjectStatusActive,
		Billable:    true,
		HourlyRate:  0,
		CreatedBy:   actorID,
	}
	if req.Billable != nil {
		p.Billable = *req.Billable
	}
	if req.HourlyRate != nil {
		p.HourlyRate = *req.HourlyRate
	}
	if req.StartDate != nil && *req.StartDate != "" {
		if t, ok := validator.ParseDateTime(*req.StartDate); ok {
			p.StartDate = &t
		}
	}
	if req.EndDate != nil && *req.EndDate != "" {
		if t, ok := validator.ParseDateTime(*req.EndDate); ok {
			p.EndDate = &t
		}
	}

	created, err := s.projects.Create(ctx, p)
	if err != nil {
		return project.Project{}, fmt.Errorf("failed to create project: %w", err)
	}

	return created, nil
}

func (s *ProjectServiceImpl) GetProject(ctx context.Context, companyID, id string) (project.Project, error) {
	if !validator.IsValidID(id) {
		return project.Project{}, project.ErrProjectNotFound
	}
	return s.projects.GetByID(ctx, companyID, id)
}

func (s *ProjectServiceImpl) ListProjects(ctx context.Context, companyID string) ([]project.Project, error) {
	return s.projects.GetByCompanyID(ctx, companyID)
}

func (s *ProjectServiceImpl) CreateTask(ctx context.Context, companyID, actorID, projectID string, req task.CreateTaskRequest) (task.Task, error) {
	if !validator.IsValidID(projectID) {
		return task.Task{}, validator.NewFieldError("project_id", "Invalid project_id format")
	}
	if err := req.Validate(); err != nil {
		return task.Task{}, err
	}

	// The parent project must exist in this company.
	if _, err := s.projects.GetByID(ctx, companyID, projectID); err != nil {
		return task.Task{}, err
	}

	t := task.Task{
		CompanyID:   companyID,
		ProjectID:   projectID,
		Title:       req.Title,
		Description: req.Description,
		Status:      task.TaskStatusOpen,
		Priority:    task.TaskPriorityMedium,
		AssigneeID:  req.AssigneeID,
		CreatedBy:   actorID,
	}
	if req.Priority != nil {
		t.Priority = task.TaskPriority(*req.Priority)
	}
	if req.DueDate != nil && *req.DueDate != "" {
		if d, ok := validator.ParseDateTime(*req.DueDate); ok {
			t.DueDate = &d
		}
	}

	created, err := s.tasks.Create(ctx, t)
	if err != nil {
		return task.Task{}, fmt.Errorf("failed to create task: %w", err)
	}

	return created, nil
}

func (s *ProjectServiceImpl) GetTask(ctx context.Context, companyID, id string) (task.Task, error) {
	if !validator.IsValidID(id) {
		return task.Task{}, task.ErrTaskNotFound
	}
	return s.tasks.GetByID(ctx, companyID, id)
}

func (s *ProjectServiceImpl) ListTasks(ctx context.Context, companyID, projectID string) ([]task.Task, error) {
	if !validator.IsValidID(projectID) {
		return nil, validator.NewFieldError("project_id", "Invalid project_id format")
	}
	return s.tasks.GetByProjectID(ctx, companyID, projectID)
}
