package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/tempohq/tempo-backend-go/internal/domain/project"
	"github.com/tempohq/tempo-backend-go/internal/domain/task"
	"github.com/tempohq/tempo-backend-go/internal/handler/http/response"
	projectService "github.com/tempohq/tempo-backend-go/internal/service/project"
)

type ProjectHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	CreateTask(w http.ResponseWriter, r *http.Request)
	GetTask(w http.ResponseWriter, r *http.Request)
	ListTasks(w http.ResponseWriter, r *http.Request)
}

type ProjectHandlerImpl struct {
	projectService projectService.ProjectService
}

func NewProjectHandler(service projectService.ProjectService) ProjectHandler {
	return &ProjectHandlerImpl{
		projectService: service,
	}
}

// Create implements ProjectHandler.
func (h *ProjectHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var req project.CreateProjectRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Create project decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	userID, companyID, _, err := requestClaims(r)
	if err != nil {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	created, err := h.projectService.CreateProject(r.Context(), companyID, userID, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Project created successfully", created)
}

// Get implements ProjectHandler.
func (h *ProjectHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	_, companyID, _, err := requestClaims(r)
	if err != nil {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	p, err := h.projectService.GetProject(r.Context(), companyID, chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, p)
}

// List implements ProjectHandler.
func (h *ProjectHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	_, companyID, _, err := requestClaims(r)
	if err != nil {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	projects, err := h.projectService.ListProjects(r.Context(), companyID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, projects)
}

// CreateTask implements ProjectHandler.
func (h *ProjectHandlerImpl) CreateTask(w http.ResponseWriter, r *http.Request) {
	var req task.CreateTaskRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Create task decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	userID, companyID, _, err := requestClaims(r)
	if err != nil {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	created, err := h.projectService.CreateTask(r.Context(), companyID, userID, chi.URLParam(r, "id"), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Task created successfully", created)
}

// GetTask implements ProjectHandler.
func (h *ProjectHandlerImpl) GetTask(w http.ResponseWriter, r *http.Request) {
	_, companyID, _, err := requestClaims(r)
	if err != nil {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	t, err := h.projectService.GetTask(r.Context(), companyID, chi.URLParam(r, "taskID"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, t)
}

// ListTasks implements ProjectHandler.
func (h *ProjectHandlerImpl) ListTasks(w http.ResponseWriter, r *http.Request) {
	_, companyID, _, err := requestClaims(r)
	if err != nil {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	tasks, err := h.projectService.ListTasks(r.Context(), companyID, chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, tasks)
}
