package middleware

import (
	"net/http"

	"github.com/shiftdesk/attendance-backend-go/internal/domain/user"
	"github.com/shiftdesk/attendance-backend-go/internal/handler/http/response"
)

func AdminOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, err := CurrentUser(r)
		if err != nil {
			response.HandleError(w, err)
			return
		}

		if identity.Role != user.RoleAdmin {
			response.HandleError(w, user.ErrAdminPrivilegeRequired)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// ManagerOnly admits managers and admins.
func ManagerOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, err := CurrentUser(r)
		if err != nil {
			response.HandleError(w, err)
			return
		}

		if identity.Role != user.RoleAdmin && identity.Role != user.RoleManager {
			response.Forbidden(w, "Manager privilege required")
			return
		}

		next.ServeHTTP(w, r)
	})
}
