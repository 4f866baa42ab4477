package user

import "errors"

var (
	ErrUserNotFound          = errors.New("User not found")
	ErrEmailExists           = errors.New("Email already registered in this company")
	ErrManagerAccessRequired = errors.New("Manager access required")
	ErrOwnerAccessRequired   = errors.New("Owner access required")
)
