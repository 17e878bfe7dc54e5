package middleware

import (
	"net/http"

	"github.com/go-chi/jwtauth/v5"

	"github.com/staffops-hq/staffops-backend-go/internal/domain/employee"
	"github.com/staffops-hq/staffops-backend-go/internal/handler/http/response"
)

// AdminOnly requires the ADMIN role.
func AdminOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, claims, err := jwtauth.FromContext(r.Context())
		if err != nil {
			response.Forbidden(w, "Admin access required")
			return
		}

		role, ok := claims["role"].(string)
		if !ok || employee.Role(role) != employee.RoleAdmin {
			response.Forbidden(w, "Admin access required")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// TeamLeadOrAdmin requires the TEAMLEADER or ADMIN role.
func TeamLeadOrAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, claims, err := jwtauth.FromContext(r.Context())
		if err != nil {
			response.Forbidden(w, "Team leader or admin access required")
			return
		}

		roleStr, ok := claims["role"].(string)
		if !ok {
			response.Forbidden(w, "Team leader or admin access required")
			return
		}

		role := employee.Role(roleStr)
		if role != employee.RoleTeamLeader && role != employee.RoleAdmin {
			response.Forbidden(w, "Team leader or admin access required")
			return
		}

		next.ServeHTTP(w, r)
	})
}
