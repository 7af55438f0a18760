// Copyright The Zoom Learning Platform Contributors.
// SPDX-License-Identifier: MIT

package domain

import (
	"context"

	"github.com/zoomlearning/attendance-service/internal/domain/models"
)

// AttendanceRepository is the storage contract for attendance records.
// Records are keyed logically by (meetingID, userID); the backing store must
// support insert-if-absent-then-update (upsert) semantics via the
// revision-checked Get/Create/Update pair.
type AttendanceRepository interface {
	Get(ctx context.Context, meetingID, userID string) (*models.AttendanceRecord, error)
	GetWithRevision(ctx context.Context, meetingID, userID string) (*models.AttendanceRecord, uint64, error)
	Exists(ctx context.Context, meetingID, userID string) (bool, error)
	Create(ctx context.Context, record *models.AttendanceRecord) error
	Update(ctx context.Context, record *models.AttendanceRecord, revision uint64) error
	ListByMeeting(ctx context.Context, meetingID string) ([]*models.AttendanceRecord, error)
}

// WebhookValidator verifies that inbound webhook requests originate from Zoom.
type WebhookValidator interface {
	// ValidateSignature checks the v0 HMAC signature over the raw request
	// body. It must fail closed: a missing secret, timestamp or signature is
	// a validation failure, never a pass.
	ValidateSignature(body []byte, signature, timestamp string) error
	// GetSecretToken returns the configured shared secret, empty when the
	// validator is unconfigured.
	GetSecretToken() string
}
