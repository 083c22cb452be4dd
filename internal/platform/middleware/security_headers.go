package middleware

import (
	"github.com/labstack/echo/v4"
)

// securityHeaders are set on every response. The API serves patient
// health data, so responses are never cacheable and browsers are told
// to load nothing from them.
var securityHeaders = [...][2]string{
	// Prevent MIME type sniffing.
	{"X-Content-Type-Options", "nosniff"},
	// Prevent clickjacking.
	{"X-Frame-Options", "DENY"},
	// Rely on Content-Security-Policy instead of the legacy browser
	// XSS filter.
	{"X-XSS-Protection", "0"},
	// Strict CSP for a JSON API: deny all resource loading and frame
	// embedding.
	{"Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'"},
	// HTTP Strict Transport Security, 1 year including subdomains.
	{"Strict-Transport-Security", "max-age=31536000; includeSubDomains"},
	// Do not leak request URLs to downstream services.
	{"Referrer-Policy", "no-referrer"},
	// Disable browser features an API does not need.
	{"Permissions-Policy", "camera=(), microphone=(), geolocation=()"},
	// Responses may contain health data.
	{"Cache-Control", "no-store"},
}

// SecurityHeaders sets hardening headers on every response.
func SecurityHeaders() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			h := c.Response().Header()
			for _, kv := range securityHeaders {
				h.Set(kv[0], kv[1])
			}
			return next(c)
		}
	}
}
