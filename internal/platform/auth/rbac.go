package auth

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// RequireRole allows the request through when the authenticated user
// holds any of the given roles. The admin role always passes.
func RequireRole(roles ...string) echo.MiddlewareFunc {
	allowed := make(map[string]bool, len(roles)+1)
	allowed["admin"] = true
	for _, r := range roles {
		allowed[r] = true
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			for _, r := range RolesFromContext(c.Request().Context()) {
				if allowed[r] {
					return next(c)
				}
			}
			return echo.NewHTTPError(http.StatusForbidden, "insufficient role")
		}
	}
}

// RequireScope allows the request through when the token carries a
// scope covering resource.operation. Scopes are "resource.operation"
// strings; "*" matches any resource or operation.
func RequireScope(resource, operation string) echo.MiddlewareFunc {
	required := resource + "." + operation

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			for _, s := range ScopesFromContext(c.Request().Context()) {
				if matchScope(s, required) {
					return next(c)
				}
			}
			return echo.NewHTTPError(http.StatusForbidden, "insufficient scope")
		}
	}
}

func matchScope(granted, required string) bool {
	gp := strings.SplitN(granted, ".", 2)
	rp := strings.SplitN(required, ".", 2)
	if len(gp) != 2 || len(rp) != 2 || rp[0] == "" || rp[1] == "" {
		return false
	}
	if gp[0] != "*" && gp[0] != rp[0] {
		return false
	}
	if gp[1] != "*" && gp[1] != rp[1] {
		return false
	}
	return true
}
