// Copyright The Zoom Learning Platform Contributors.
// SPDX-License-Identifier: MIT

package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/zoomlearning/attendance-service/internal/domain"
	"github.com/zoomlearning/attendance-service/internal/domain/models"
	"github.com/zoomlearning/attendance-service/internal/logging"
)

// NATS Key-Value store bucket name for attendance records.
const (
	// KVStoreNameAttendanceRecords is the name of the KV store for attendance records.
	KVStoreNameAttendanceRecords = "attendance-records"
)

// NatsAttendanceRepository is the NATS KV store repository for attendance records.
// Each record lives under a key derived from (meetingID, userID), so the store
// itself enforces that a pair maps to at most one record.
type NatsAttendanceRepository struct {
	AttendanceRecords INatsKeyValue
	keyBuilder        *KeyBuilder
}

// NewNatsAttendanceRepository creates a new NATS KV store repository for attendance records.
func NewNatsAttendanceRepository(attendanceRecords INatsKeyValue) *NatsAttendanceRepository {
	return &NatsAttendanceRepository{
		AttendanceRecords: attendanceRecords,
		keyBuilder:        NewKeyBuilder(""),
	}
}

func (s *NatsAttendanceRepository) get(ctx context.Context, key string) (jetstream.KeyValueEntry, error) {
	return s.AttendanceRecords.Get(ctx, key)
}

func (s *NatsAttendanceRepository) unmarshal(ctx context.Context, entry jetstream.KeyValueEntry) (*models.AttendanceRecord, error) {
	var record models.AttendanceRecord
	err := json.Unmarshal(entry.Value(), &record)
	if err != nil {
		slog.ErrorContext(ctx, "error unmarshaling attendance record", logging.ErrKey, err)
		return nil, err
	}

	return &record, nil
}

func (s *NatsAttendanceRepository) Get(ctx context.Context, meetingID, userID string) (*models.AttendanceRecord, error) {
	record, _, err := s.GetWithRevision(ctx, meetingID, userID)
	if err != nil {
		return nil, err
	}
	return record, nil
}

func (s *NatsAttendanceRepository) GetWithRevision(ctx context.Context, meetingID, userID string) (*models.AttendanceRecord, uint64, error) {
	key := s.keyBuilder.AttendanceKeyEncoded(meetingID, userID)
	entry, err := s.get(ctx, key)
	if err != nil {
		if errors.Is(err, jetstream.ErrKeyNotFound) {
			return nil, 0, domain.NewNotFoundError(fmt.Sprintf("attendance record for meeting '%s' and user '%s' not found", meetingID, userID), err)
		}
		slog.ErrorContext(ctx, "error getting attendance record from NATS KV", logging.ErrKey, err)
		return nil, 0, domain.NewInternalError("failed to retrieve attendance record from store", err)
	}

	record, err := s.unmarshal(ctx, entry)
	if err != nil {
		return nil, 0, domain.NewInternalError("failed to unmarshal attendance record data", err)
	}

	return record, entry.Revision(), nil
}

func (s *NatsAttendanceRepository) Exists(ctx context.Context, meetingID, userID string) (bool, error) {
	key := s.keyBuilder.AttendanceKeyEncoded(meetingID, userID)
	_, err := s.get(ctx, key)
	if err != nil {
		if errors.Is(err, jetstream.ErrKeyNotFound) {
			return false, nil
		}
		return false, domain.NewInternalError("failed to check if attendance record exists", err)
	}
	return true, nil
}

func (s *NatsAttendanceRepository) Create(ctx context.Context, record *models.AttendanceRecord) error {
	if s.AttendanceRecords == nil {
		return domain.NewUnavailableError("attendance repository is not available", nil)
	}

	if record.MeetingID == "" || record.UserID == "" {
		return domain.NewValidationError("attendance record requires both a meeting ID and a user ID", nil)
	}

	// Generate a new UID if not provided
	if record.UID == "" {
		record.UID = uuid.New().String()
	}

	// Set timestamps
	now := time.Now()
	record.CreatedAt = &now
	record.UpdatedAt = &now

	// Marshal the record
	recordBytes, err := json.Marshal(record)
	if err != nil {
		slog.ErrorContext(ctx, "error marshaling attendance record", logging.ErrKey, err)
		return domain.NewInternalError("failed to marshal attendance record data", err)
	}

	// Store in NATS KV
	key := s.keyBuilder.AttendanceKeyEncoded(record.MeetingID, record.UserID)
	_, err = s.AttendanceRecords.Put(ctx, key, recordBytes)
	if err != nil {
		slog.ErrorContext(ctx, "error storing attendance record in NATS KV", logging.ErrKey, err)
		return domain.NewInternalError("failed to store attendance record in store", err)
	}

	return nil
}

func (s *NatsAttendanceRepository) Update(ctx context.Context, record *models.AttendanceRecord, revision uint64) error {
	if s.AttendanceRecords == nil {
		return domain.NewUnavailableError("attendance repository is not available", nil)
	}

	// Update timestamp
	now := time.Now()
	record.UpdatedAt = &now

	// Marshal the record
	recordBytes, err := json.Marshal(record)
	if err != nil {
		slog.ErrorContext(ctx, "error marshaling attendance record", logging.ErrKey, err)
		return domain.NewInternalError("failed to marshal attendance record data", err)
	}

	// Update in NATS KV with revision check
	key := s.keyBuilder.AttendanceKeyEncoded(record.MeetingID, record.UserID)
	_, err = s.AttendanceRecords.Update(ctx, key, recordBytes, revision)
	if err != nil {
		if strings.Contains(err.Error(), "wrong last sequence") {
			return domain.NewConflictError("attendance record has been modified by another process", err)
		}
		if errors.Is(err, jetstream.ErrKeyNotFound) {
			return domain.NewNotFoundError("attendance record not found", err)
		}
		slog.ErrorContext(ctx, "error updating attendance record in NATS KV", logging.ErrKey, err)
		return domain.NewInternalError("failed to update attendance record in store", err)
	}

	return nil
}

func (s *NatsAttendanceRepository) ListByMeeting(ctx context.Context, meetingID string) ([]*models.AttendanceRecord, error) {
	if s.AttendanceRecords == nil {
		return nil, domain.NewUnavailableError("attendance repository is not available", nil)
	}

	keysLister, err := s.AttendanceRecords.ListKeys(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "error listing attendance record keys from NATS KV store", logging.ErrKey, err)
		return nil, domain.NewInternalError("failed to list attendance record keys from store", err)
	}

	var records []*models.AttendanceRecord
	for key := range keysLister.Keys() {
		entry, err := s.get(ctx, key)
		if err != nil {
			if !errors.Is(err, jetstream.ErrKeyNotFound) {
				slog.ErrorContext(ctx, "error getting attendance record from NATS KV store", logging.ErrKey, err, "key", key)
			}
			continue
		}

		record, err := s.unmarshal(ctx, entry)
		if err != nil {
			slog.ErrorContext(ctx, "error unmarshaling attendance record", logging.ErrKey, err, "key", key)
			continue
		}

		if record.MeetingID == meetingID {
			records = append(records, record)
		}
	}

	return records, nil
}

// Ensure NatsAttendanceRepository implements domain.AttendanceRepository
var _ domain.AttendanceRepository = (*NatsAttendanceRepository)(nil)
