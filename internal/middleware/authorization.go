// Copyright The Zoom Learning Platform Contributors.
// SPDX-License-Identifier: MIT

package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/zoomlearning/attendance-service/pkg/constants"
)

// AuthorizationMiddleware captures the bearer token from the authorization
// header into the request context so that outbound indexer messages can
// propagate the caller's identity.
//
// Requests under /api/zoom/webhook are exempt: Zoom authenticates those with
// the HMAC signature headers, not a bearer token.
func AuthorizationMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if strings.HasPrefix(r.URL.Path, "/api/zoom/webhook") {
				next.ServeHTTP(w, r)
				return
			}

			authorization := r.Header.Get(constants.AuthorizationHeader)
			if authorization != "" {
				ctx := context.WithValue(r.Context(), constants.AuthorizationContextID, authorization)
				r = r.WithContext(ctx)
			}

			next.ServeHTTP(w, r)
		})
	}
}
