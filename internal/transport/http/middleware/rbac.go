package middleware

import (
	"net/http"

	"reviewhub/internal/domain/auth"
	"reviewhub/internal/transport/http/api"
)

type PermissionChecker interface {
	HasPermission(roleName, permission string) bool
}

// StaticPermissions resolves permissions from the built-in role table.
type StaticPermissions struct{}

func (StaticPermissions) HasPermission(roleName, permission string) bool {
	return auth.HasPermission(roleName, permission)
}

func RequirePermission(permission string, checker PermissionChecker) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := GetUser(r.Context())
			if !ok {
				api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", GetRequestID(r.Context()))
				return
			}
			if !checker.HasPermission(user.RoleName, permission) {
				api.Fail(w, http.StatusForbidden, "forbidden", "insufficient permissions", GetRequestID(r.Context()))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
