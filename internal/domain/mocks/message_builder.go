// Copyright The Zoom Learning Platform Contributors.
// SPDX-License-Identifier: MIT

package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/zoomlearning/attendance-service/internal/domain/models"
)

// MockMessageBuilder implements domain.MessageBuilder for testing
type MockMessageBuilder struct {
	mock.Mock
}

func (m *MockMessageBuilder) SendIndexAttendanceRecord(ctx context.Context, action models.MessageAction, data models.AttendanceRecord) error {
	args := m.Called(ctx, action, data)
	return args.Error(0)
}

func (m *MockMessageBuilder) SendAttendanceUpdated(ctx context.Context, data models.AttendanceUpdatedMessage) error {
	args := m.Called(ctx, data)
	return args.Error(0)
}
