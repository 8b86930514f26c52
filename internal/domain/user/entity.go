package user

import "time"

type Role string

const (
	RoleAdmin Role = "admin" // Uploads shifts, reviews bookings and requests
	RoleStaff Role = "staff" // Books shifts and raises backdoor requests
)

func (r Role) IsValid() bool {
	return r == RoleAdmin || r == RoleStaff
}

type User struct {
	ID           string
	DepartmentID *string
	Email        string
	FullName     string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time

	// DTO / Join
	DepartmentName *string
}

// IsAdmin checks if user reviews bookings
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// IsStaff checks if user books shifts
func (u *User) IsStaff() bool {
	return u.Role == RoleStaff
}
