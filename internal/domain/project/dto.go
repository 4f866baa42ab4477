package project

import "github.com/tempohq/tempo-backend-go/internal/pkg/validator"

type CreateProjectRequest struct {
	Name        string   `json:"name"`
	ClientName  *string  `json:"client_name,omitempty"`
	Description *string  `json:"description,omitempty"`
	Billable    *bool    `json:"billable,omitempty"`
	HourlyRate  *float64 `json:"hourly_rate,omitempty"`
	StartDate   *string  `json:"start_date,omitempty"`
	EndDate     *string  `json:"end_date,omitempty"`
}

func (r *CreateProjectRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name is required",
		})
	}
	if len(r.Name) > 255 {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name must not exceed 255 characters",
		})
	}
	if r.HourlyRate != nil && *r.HourlyRate < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "hourly_rate",
			Message: "hourly_rate must not be negative",
		})
	}
	for field, value := range map[string]*string{"start_date": r.StartDate, "end_date": r.EndDate} {
		if value != nil && *value != "" {
			if _, ok := validator.ParseDateTime(*value); !ok {
				errs = append(errs, validator.ValidationError{
					Field:   field,
					Message: "Invalid " + field + " format",
				})
			}
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}
