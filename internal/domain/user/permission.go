package user

type Permission string

const (
	// Shift slots
	PermissionShiftView   Permission = "shift.view"
	PermissionShiftManage Permission = "shift.manage"
	PermissionShiftBook   Permission = "shift.book"

	// Bookings
	PermissionBookingReview Permission = "booking.review"

	// Backdoor requests
	PermissionRequestCreate Permission = "shift_request.create"
	PermissionRequestReview Permission = "shift_request.review"

	// Departments
	PermissionDepartmentManage Permission = "department.manage"

	// Dashboards
	PermissionDashboardView Permission = "dashboard.view"
)

// RolePermissions maps roles to their permissions
var RolePermissions = map[Role][]Permission{
	RoleAdmin: {
		PermissionShiftView,
		PermissionShiftManage,
		PermissionBookingReview,
		PermissionRequestReview,
		PermissionDepartmentManage,
		PermissionDashboardView,
	},
	RoleStaff: {
		PermissionShiftView,
		PermissionShiftBook,
		PermissionRequestCreate,
	},
}

// HasPermission checks if a role has a specific permission
func HasPermission(role Role, permission Permission) bool {
	permissions, exists := RolePermissions[role]
	if !exists {
		return false
	}

	for _, p := range permissions {
		if p == permission {
			return true
		}
	}

	return false
}
