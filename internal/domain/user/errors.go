package user

import "errors"

var (
	ErrUserNotFound            = errors.New("user not found")
	ErrUserEmailExists         = errors.New("email already registered")
	ErrAdminAccessRequired     = errors.New("admin access required")
	ErrStaffAccessRequired     = errors.New("staff access required")
	ErrInsufficientPermissions = errors.New("insufficient permissions")
	ErrDepartmentRequired      = errors.New("staff user has no department")
)
