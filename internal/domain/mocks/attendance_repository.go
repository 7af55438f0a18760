// Copyright The Zoom Learning Platform Contributors.
// SPDX-License-Identifier: MIT

package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/zoomlearning/attendance-service/internal/domain/models"
)

// MockAttendanceRepository implements domain.AttendanceRepository for testing
type MockAttendanceRepository struct {
	mock.Mock
}

func (m *MockAttendanceRepository) Get(ctx context.Context, meetingID, userID string) (*models.AttendanceRecord, error) {
	args := m.Called(ctx, meetingID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AttendanceRecord), args.Error(1)
}

func (m *MockAttendanceRepository) GetWithRevision(ctx context.Context, meetingID, userID string) (*models.AttendanceRecord, uint64, error) {
	args := m.Called(ctx, meetingID, userID)
	if args.Get(0) == nil {
		return nil, args.Get(1).(uint64), args.Error(2)
	}
	return args.Get(0).(*models.AttendanceRecord), args.Get(1).(uint64), args.Error(2)
}

func (m *MockAttendanceRepository) Exists(ctx context.Context, meetingID, userID string) (bool, error) {
	args := m.Called(ctx, meetingID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockAttendanceRepository) Create(ctx context.Context, record *models.AttendanceRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockAttendanceRepository) Update(ctx context.Context, record *models.AttendanceRecord, revision uint64) error {
	args := m.Called(ctx, record, revision)
	return args.Error(0)
}

func (m *MockAttendanceRepository) ListByMeeting(ctx context.Context, meetingID string) ([]*models.AttendanceRecord, error) {
	args := m.Called(ctx, meetingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.AttendanceRecord), args.Error(1)
}
