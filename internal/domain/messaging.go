// Copyright The Zoom Learning Platform Contributors.
// SPDX-License-Identifier: MIT

package domain

import (
	"context"

	"github.com/zoomlearning/attendance-service/internal/domain/models"
)

// AttendanceIndexSender handles indexing operations for attendance records.
type AttendanceIndexSender interface {
	SendIndexAttendanceRecord(ctx context.Context, action models.MessageAction, data models.AttendanceRecord) error
}

// AttendanceEventSender handles attendance change notifications for the rest
// of the learning platform.
type AttendanceEventSender interface {
	SendAttendanceUpdated(ctx context.Context, data models.AttendanceUpdatedMessage) error
}

// MessageBuilder is the composite outbound messaging contract used by the
// attendance service.
type MessageBuilder interface {
	AttendanceIndexSender
	AttendanceEventSender
}
