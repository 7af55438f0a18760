// Copyright The Zoom Learning Platform Contributors.
// SPDX-License-Identifier: MIT

// Package handlers exposes the service's HTTP surface: the Zoom webhook
// endpoint, the attendance read API, and the health probes.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/zoomlearning/attendance-service/internal/domain"
	"github.com/zoomlearning/attendance-service/internal/logging"
)

// errorResponse is the JSON body written for all error statuses.
type errorResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// httpStatusFromError maps domain error types onto HTTP status codes.
func httpStatusFromError(err error) int {
	switch domain.GetErrorType(err) {
	case domain.ErrorTypeValidation:
		return http.StatusBadRequest
	case domain.ErrorTypeUnauthorized:
		return http.StatusUnauthorized
	case domain.ErrorTypeNotFound:
		return http.StatusNotFound
	case domain.ErrorTypeConflict:
		return http.StatusConflict
	case domain.ErrorTypeUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(ctx context.Context, w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.ErrorContext(ctx, "error encoding response body", logging.ErrKey, err)
	}
}

func writeError(ctx context.Context, w http.ResponseWriter, err error) {
	status := httpStatusFromError(err)

	message := "internal server error"
	var domainErr *domain.DomainError
	if errors.As(err, &domainErr) {
		message = domainErr.Message
	}

	writeJSON(ctx, w, status, errorResponse{Status: "error", Message: message})
}
