package user

import "time"

type Role string

const (
	RoleOwner    Role = "owner"    // Company owner - full access
	RoleManager  Role = "manager"  // Can approve and reject timesheets
	RoleEmployee Role = "employee" // Regular employee
)

type User struct {
	ID           string
	CompanyID    string
	Email        string
	FullName     string
	PasswordHash *string
	Role         Role
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// CanApprove checks if the role may approve or reject submitted time
// entries, seed a non-draft status, or log time for another user.
func (r Role) CanApprove() bool {
	return r == RoleManager || r == RoleOwner
}

// IsOwner checks if user is company owner
func (u *User) IsOwner() bool {
	return u.Role == RoleOwner
}

// IsManager checks if user is manager or owner
func (u *User) IsManager() bool {
	return u.Role == RoleManager || u.Role == RoleOwner
}

// CanApprove checks if user can approve or reject submitted time entries
func (u *User) CanApprove() bool {
	return u.Role.CanApprove()
}
