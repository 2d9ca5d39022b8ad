package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"review360/internal/transport/http/api"
)

type PermissionStore interface {
	HasPermission(ctx context.Context, role, permission string) (bool, error)
}

// RequirePermission admits callers whose role grants permission. Denials name
// the missing permission so operators can fix the role table.
func RequirePermission(permission string, store PermissionStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			user, ok := GetUser(ctx)
			if !ok {
				api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", GetRequestID(ctx))
				return
			}

			allowed, err := store.HasPermission(ctx, user.RoleName, permission)
			switch {
			case err != nil:
				slog.Error("permission check failed", "role", user.RoleName, "permission", permission, "err", err)
				api.Fail(w, http.StatusInternalServerError, "permission_error", "permission check failed", GetRequestID(ctx))
			case !allowed:
				slog.Debug("permission denied", "userId", user.UserID, "role", user.RoleName, "permission", permission)
				api.FailWithDetails(w, http.StatusForbidden, "forbidden", "insufficient permissions",
					map[string]any{"permission": permission}, GetRequestID(ctx))
			default:
				next.ServeHTTP(w, r)
			}
		})
	}
}
