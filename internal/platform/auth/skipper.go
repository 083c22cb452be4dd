package auth

import (
	"strings"

	"github.com/labstack/echo/v4"
)

// publicPaths are served without authentication.
var publicPaths = map[string]bool{
	"/health":    true,
	"/health/db": true,
}

// AuthSkipper reports whether the request targets a public endpoint.
func AuthSkipper(c echo.Context) bool {
	return IsPublicPath(c.Request().URL.Path)
}

// IsPublicPath reports whether path is exempt from authentication.
func IsPublicPath(path string) bool {
	path = strings.TrimSuffix(path, "/")
	if path == "" {
		path = "/"
	}
	return publicPaths[path]
}
