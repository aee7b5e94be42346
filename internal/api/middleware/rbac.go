package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/franqnet/console-sync/internal/core/domain"
)

// RBAC enforces role-based access control.
func RBAC(allowedRoles ...string) echo.MiddlewareFunc {
	allowed := make(map[string]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, _ := c.Get("role").(string)
			if _, ok := allowed[role]; !ok {
				return c.JSON(http.StatusForbidden, map[string]string{"error": "forbidden"})
			}
			return next(c)
		}
	}
}

// Permission enforces a capability tag set by the Auth middleware. The check
// itself lives on domain.InternalUser, so the middleware and any service-side
// check agree on the semantics (admins implicitly hold every permission).
func Permission(tag string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, _ := c.Get("role").(string)
			perms, _ := c.Get("permissions").([]string)
			holder := domain.InternalUser{Role: domain.StaffRole(role), Permissions: perms}
			if !holder.HasPermission(tag) {
				return c.JSON(http.StatusForbidden, map[string]string{"error": "forbidden"})
			}
			return next(c)
		}
	}
}
