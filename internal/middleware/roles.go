package middleware

import (
	"net/http"

	"billingpanel/internal/common"

	"github.com/labstack/echo/v4"
)

// RoleSuperAdmin may see the panel switcher and administer every
// organization.
const RoleSuperAdmin = "super_admin"

// RequireRole rejects requests whose identity does not hold role.
func RequireRole(role string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()
			if _, ok := common.GetUserIDFromContext(ctx); !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
			}
			if !common.HasRole(ctx, role) {
				return echo.NewHTTPError(http.StatusForbidden, "Insufficient permissions")
			}
			return next(c)
		}
	}
}
