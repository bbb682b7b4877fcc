package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/AssetAkire/Capstone-FacilityFix/internal/core/domain"
)

// RBAC enforces role-based access control over the user_role claim. The
// service layer re-checks authorization; this gate just rejects obvious
// trespass before a handler runs.
func RBAC(allowedRoles ...string) echo.MiddlewareFunc {
	allowed := make(map[string]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, _ := c.Get("user_role").(string)
			if _, ok := allowed[role]; !ok {
				return domain.E(domain.KindPermissionDenied, "insufficient privileges")
			}
			return next(c)
		}
	}
}
