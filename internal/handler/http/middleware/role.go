package middleware

import (
	"fmt"
	"net/http"

	"github.com/Samamatip/dh-workflow/internal/domain/auth"
	"github.com/Samamatip/dh-workflow/internal/domain/user"
	"github.com/Samamatip/dh-workflow/internal/handler/http/response"
)

// RequireAdmin requires admin role
func RequireAdmin(next http.Handler) http.Handler {
	return requireRole(user.RoleAdmin, user.ErrAdminAccessRequired)(next)
}

// RequireStaff requires staff role
func RequireStaff(next http.Handler) http.Handler {
	return requireRole(user.RoleStaff, user.ErrStaffAccessRequired)(next)
}

func requireRole(role user.Role, denied error) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, err := auth.PrincipalFrom(r.Context())
			if err != nil {
				response.HandleError(w, err)
				return
			}

			if principal.Role != role {
				response.HandleError(w, denied)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequirePermission checks if user has specific permission
func RequirePermission(permission user.Permission) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, err := auth.PrincipalFrom(r.Context())
			if err != nil {
				response.Forbidden(w, fmt.Sprintf("Insufficient permissions: required '%s'", permission))
				return
			}

			if !user.HasPermission(principal.Role, permission) {
				response.Forbidden(w, fmt.Sprintf("Insufficient permissions: required '%s', but user role is '%s'", permission, principal.Role))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
