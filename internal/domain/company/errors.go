package company

import "errors"

var (
	ErrCompanyNotFound = errors.New("Company not found")
	ErrSlugExists      = errors.New("Company slug already taken")
)
