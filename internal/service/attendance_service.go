// Copyright The Zoom Learning Platform Contributors.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/zoomlearning/attendance-service/internal/domain"
	"github.com/zoomlearning/attendance-service/internal/domain/models"
	"github.com/zoomlearning/attendance-service/internal/logging"
	"github.com/zoomlearning/attendance-service/pkg/concurrent"
	"github.com/zoomlearning/attendance-service/pkg/redaction"
	"github.com/zoomlearning/attendance-service/pkg/utils"
)

// AttendanceService owns the attendance records for Zoom meetings.
//
// Join and leave events are upserts against the single record keyed by
// (meeting ID, user ID): the first event for a pair creates the record, every
// later event for the same pair mutates it. Processing the same event twice
// converges on the same stored state.
type AttendanceService struct {
	AttendanceRepository domain.AttendanceRepository
	MessageBuilder       domain.MessageBuilder
}

// NewAttendanceService creates a new AttendanceService.
func NewAttendanceService(
	attendanceRepository domain.AttendanceRepository,
	messageBuilder domain.MessageBuilder,
) *AttendanceService {
	return &AttendanceService{
		AttendanceRepository: attendanceRepository,
		MessageBuilder:       messageBuilder,
	}
}

// ServiceReady checks if the service is ready for use.
func (s *AttendanceService) ServiceReady() bool {
	return s.AttendanceRepository != nil &&
		s.MessageBuilder != nil
}

// RecordJoin upserts the attendance record for a participant joining a
// meeting. A repeat join for the same (meeting, user) pair overwrites the
// join-related fields of the existing record rather than creating a second
// record.
func (s *AttendanceService) RecordJoin(ctx context.Context, meetingID string, participant *models.ZoomParticipant, raw json.RawMessage) (*models.AttendanceRecord, error) {
	if !s.ServiceReady() {
		slog.ErrorContext(ctx, "service not initialized", logging.PriorityCritical())
		return nil, domain.NewUnavailableError("service not initialized")
	}

	userID, err := s.validateParticipantEvent(ctx, meetingID, participant)
	if err != nil {
		return nil, err
	}

	ctx = logging.AppendCtx(ctx, slog.String("meeting_id", meetingID))
	ctx = logging.AppendCtx(ctx, slog.String("user_id", userID))

	record, revision, err := s.AttendanceRepository.GetWithRevision(ctx, meetingID, userID)
	if err != nil && domain.GetErrorType(err) != domain.ErrorTypeNotFound {
		slog.ErrorContext(ctx, "error getting attendance record from store", logging.ErrKey, err)
		return nil, err
	}

	var action models.MessageAction
	if record == nil {
		action = models.ActionCreated
		record = &models.AttendanceRecord{
			UID:       uuid.New().String(),
			MeetingID: meetingID,
			UserID:    userID,
		}
	} else {
		action = models.ActionUpdated
	}

	record.Name = utils.CoalesceString(participant.DisplayName(), record.Name)
	record.Email = utils.CoalesceString(participant.Email, record.Email)
	// Short-form events omit join_time; the receipt time stands in for it.
	joinTime := participant.JoinTime
	if joinTime.IsZero() {
		joinTime = time.Now().UTC()
	}
	record.JoinTime = utils.TimePtr(joinTime)
	record.Status = models.AttendanceStatusJoined
	if len(raw) > 0 {
		record.Raw = raw
	}

	if action == models.ActionCreated {
		err = s.AttendanceRepository.Create(ctx, record)
	} else {
		err = s.AttendanceRepository.Update(ctx, record, revision)
	}
	if err != nil {
		slog.ErrorContext(ctx, "error upserting attendance record", logging.ErrKey, err)
		return nil, err
	}

	slog.DebugContext(ctx, "recorded participant join",
		"attendance_record_uid", record.UID,
		"action", action,
		"email", redaction.RedactEmail(record.Email),
	)

	s.sendAttendanceMessages(ctx, action, record)

	return record, nil
}

// RecordLeave upserts the attendance record for a participant leaving a
// meeting. A leave with no prior join still creates a record, with only the
// leave side populated.
func (s *AttendanceService) RecordLeave(ctx context.Context, meetingID string, participant *models.ZoomParticipant, raw json.RawMessage) (*models.AttendanceRecord, error) {
	if !s.ServiceReady() {
		slog.ErrorContext(ctx, "service not initialized", logging.PriorityCritical())
		return nil, domain.NewUnavailableError("service not initialized")
	}

	userID, err := s.validateParticipantEvent(ctx, meetingID, participant)
	if err != nil {
		return nil, err
	}

	ctx = logging.AppendCtx(ctx, slog.String("meeting_id", meetingID))
	ctx = logging.AppendCtx(ctx, slog.String("user_id", userID))

	record, revision, err := s.AttendanceRepository.GetWithRevision(ctx, meetingID, userID)
	if err != nil && domain.GetErrorType(err) != domain.ErrorTypeNotFound {
		slog.ErrorContext(ctx, "error getting attendance record from store", logging.ErrKey, err)
		return nil, err
	}

	var action models.MessageAction
	if record == nil {
		action = models.ActionCreated
		record = &models.AttendanceRecord{
			UID:       uuid.New().String(),
			MeetingID: meetingID,
			UserID:    userID,
		}
	} else {
		action = models.ActionUpdated
	}

	record.Name = utils.CoalesceString(participant.DisplayName(), record.Name)
	record.Email = utils.CoalesceString(participant.Email, record.Email)
	// Short-form events omit leave_time; the receipt time stands in for it.
	leftTime := participant.LeaveTime
	if leftTime.IsZero() {
		leftTime = time.Now().UTC()
	}
	record.LeftTime = utils.TimePtr(leftTime)
	record.Status = models.AttendanceStatusLeft
	if len(raw) > 0 {
		record.Raw = raw
	}

	if action == models.ActionCreated {
		err = s.AttendanceRepository.Create(ctx, record)
	} else {
		err = s.AttendanceRepository.Update(ctx, record, revision)
	}
	if err != nil {
		slog.ErrorContext(ctx, "error upserting attendance record", logging.ErrKey, err)
		return nil, err
	}

	slog.DebugContext(ctx, "recorded participant leave",
		"attendance_record_uid", record.UID,
		"action", action,
		"email", redaction.RedactEmail(record.Email),
	)

	s.sendAttendanceMessages(ctx, action, record)

	return record, nil
}

// GetMeetingAttendance fetches all attendance records for a meeting.
func (s *AttendanceService) GetMeetingAttendance(ctx context.Context, meetingID string) ([]*models.AttendanceRecord, error) {
	if !s.ServiceReady() {
		slog.ErrorContext(ctx, "service not initialized", logging.PriorityCritical())
		return nil, domain.NewUnavailableError("service not initialized")
	}

	if meetingID == "" {
		slog.WarnContext(ctx, "meeting ID is required")
		return nil, domain.NewValidationError("meeting ID is required")
	}

	ctx = logging.AppendCtx(ctx, slog.String("meeting_id", meetingID))

	records, err := s.AttendanceRepository.ListByMeeting(ctx, meetingID)
	if err != nil {
		slog.ErrorContext(ctx, "error listing attendance records", logging.ErrKey, err)
		return nil, err
	}

	slog.DebugContext(ctx, "returning attendance records", "count", len(records))

	return records, nil
}

func (s *AttendanceService) validateParticipantEvent(ctx context.Context, meetingID string, participant *models.ZoomParticipant) (string, error) {
	if meetingID == "" {
		slog.WarnContext(ctx, "meeting ID is required")
		return "", domain.NewValidationError("meeting ID is required")
	}
	if participant == nil {
		slog.WarnContext(ctx, "participant data is required")
		return "", domain.NewValidationError("participant data is required")
	}

	userID := participant.Identity()
	if userID == "" {
		slog.WarnContext(ctx, "participant user ID is required")
		return "", domain.NewValidationError("participant user ID is required")
	}

	return userID, nil
}

// sendAttendanceMessages publishes the indexer and attendance-updated
// messages for a stored record. Messaging failures are logged but never fail
// the write that already happened.
func (s *AttendanceService) sendAttendanceMessages(ctx context.Context, action models.MessageAction, record *models.AttendanceRecord) {
	pool := concurrent.NewWorkerPool(2) // 2 messages to send
	messages := []func() error{
		func() error {
			return s.MessageBuilder.SendIndexAttendanceRecord(ctx, action, *record)
		},
		func() error {
			return s.MessageBuilder.SendAttendanceUpdated(ctx, models.AttendanceUpdatedMessage{
				MeetingID: record.MeetingID,
				UserID:    record.UserID,
				Status:    record.Status,
				RecordUID: record.UID,
			})
		},
	}

	for _, err := range pool.RunAll(ctx, messages...) {
		slog.ErrorContext(ctx, "failed to send NATS message", logging.ErrKey, err)
	}
}
