// Copyright The Zoom Learning Platform Contributors.
// SPDX-License-Identifier: MIT

package middleware

import (
	"net/http"
)

// SecurityHeadersMiddleware sets the response security headers on every
// request, webhook traffic included.
func SecurityHeadersMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			headers := w.Header()
			headers.Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
			headers.Set("X-Content-Type-Options", "nosniff")
			headers.Set("Referrer-Policy", "strict-origin-when-cross-origin")
			headers.Set("X-Frame-Options", "SAMEORIGIN")
			headers.Set("Permissions-Policy", "geolocation=(), microphone=(), camera=()")
			headers.Set("Content-Security-Policy",
				"default-src 'self' https:; "+
					"script-src 'self' 'unsafe-inline' 'unsafe-eval' https:; "+
					"style-src 'self' 'unsafe-inline' https:; "+
					"img-src 'self' data: https:; "+
					"font-src 'self' data: https:; "+
					"connect-src 'self' https:; "+
					"frame-ancestors 'self' https://*.zoom.us;")

			next.ServeHTTP(w, r)
		})
	}
}
