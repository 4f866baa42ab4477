package task

import "github.com/tempohq/tempo-backend-go/internal/pkg/validator"

type CreateTaskRequest struct {
	Title       string  `json:"title"`
	Description *string `json:"description,omitempty"`
	Priority    *string `json:"priority,omitempty"`
	AssigneeID  *string `json:"assignee_id,omitempty"`
	DueDate     *string `json:"due_date,omitempty"`
}

func (r *CreateTaskRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Title) {
		errs = append(errs, validator.ValidationError{
			Field:   "title",
			Message: "title is required",
		})
	}
	if len(r.Title) > 255 {
		errs = append(errs, validator.ValidationError{
			Field:   "title",
			Message: "title must not exceed 255 characters",
		})
	}
	if r.Priority != nil && !validator.IsInSlice(*r.Priority, []string{
		string(TaskPriorityLow), string(TaskPriorityMedium), string(TaskPriorityHigh),
	}) {
		errs = append(errs, validator.ValidationError{
			Field:   "priority",
			Message: "priority must be one of: low, medium, high",
		})
	}
	if r.AssigneeID != nil && *r.AssigneeID != "" && !validator.IsValidID(*r.AssigneeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "assignee_id",
			Message: "Invalid assignee_id format",
		})
	}
	if r.DueDate != nil && *r.DueDate != "" {
		if _, ok := validator.ParseDateTime(*r.DueDate); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "due_date",
				Message: "Invalid due_date format",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}
