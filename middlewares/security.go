package middlewares

import (
	"strings"

	"github.com/gin-gonic/gin"
)

// SecurityHeaders -> hardening headers for the JSON API and CSV exports.
// Websocket upgrades are left alone; guest and bill data is never cached.
func SecurityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		if strings.EqualFold(c.GetHeader("Upgrade"), "websocket") {
			c.Next()
			return
		}

		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("Referrer-Policy", "no-referrer")
		// responses are JSON or CSV, nothing here should render as a page
		c.Header("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'")

		path := c.Request.URL.Path
		if strings.HasPrefix(path, "/api") || strings.HasPrefix(path, "/dashboard") || path == "/login" {
			c.Header("Cache-Control", "no-store")
		}
		if c.Request.TLS != nil || c.GetHeader("X-Forwarded-Proto") == "https" {
			c.Header("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		}

		c.Next()
	}
}
