// Copyright The Zoom Learning Platform Contributors.
// SPDX-License-Identifier: MIT

// Package constants holds shared HTTP header names and context keys.
package constants

// Constants for the HTTP request headers.
const (
	// AuthorizationHeader is the header name for the authorization
	AuthorizationHeader string = "authorization"

	// RequestIDHeader is the header name for the request ID
	RequestIDHeader string = "X-REQUEST-ID"

	// ZoomSignatureHeader carries the Zoom webhook HMAC signature.
	ZoomSignatureHeader string = "x-zm-signature"

	// ZoomTimestampHeader carries the Zoom webhook request timestamp.
	ZoomTimestampHeader string = "x-zm-request-timestamp"
)

// contextRequestID is the type for the request ID context key
type contextRequestID string

// RequestIDContextID is the context ID for the request ID
const RequestIDContextID contextRequestID = "X-REQUEST-ID"

// contextAuthorization is the type for the authorization context key
type contextAuthorization string

// AuthorizationContextID is the context ID for the authorization
const AuthorizationContextID contextAuthorization = "authorization"
