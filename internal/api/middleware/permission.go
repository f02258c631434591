package middleware

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/admin-console/internal/api/metrics"
)

// PermissionChecker answers whether a role grants a permission key.
// ports.RoleService satisfies it.
type PermissionChecker interface {
	HasPermission(ctx context.Context, roleID, permission string) (bool, error)
}

// RequirePermission lets the request through only when the caller's current
// role, injected by Auth, grants permission. Auth and the role are both read
// on every request, so reassignment, deactivation and grant changes apply
// without re-login.
func RequirePermission(checker PermissionChecker, permission string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			roleID, _ := c.Get("role_id").(string)
			if roleID == "" {
				metrics.PermissionDeniedTotal.WithLabelValues(permission).Inc()
				return c.JSON(http.StatusForbidden, map[string]string{"error": "forbidden"})
			}

			ok, err := checker.HasPermission(c.Request().Context(), roleID, permission)
			if err != nil {
				return err
			}
			if !ok {
				metrics.PermissionDeniedTotal.WithLabelValues(permission).Inc()
				return c.JSON(http.StatusForbidden, map[string]string{"error": "forbidden"})
			}
			return next(c)
		}
	}
}
