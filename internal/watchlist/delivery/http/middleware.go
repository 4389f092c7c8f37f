package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

const tenantContextKey = "tenant"

// IdentityMiddleware resolves the tenant from the externally supplied
// identity header. Authentication itself happens upstream; a request
// without the header is rejected rather than mapped to an anonymous tenant.
func IdentityMiddleware(headerName string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			identity := c.Request().Header.Get(headerName)
			if identity == "" {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing authenticated identity"})
			}
			c.Set(tenantContextKey, identity)
			return next(c)
		}
	}
}

func tenantFrom(c echo.Context) string {
	tenant, _ := c.Get(tenantContextKey).(string)
	return tenant
}
