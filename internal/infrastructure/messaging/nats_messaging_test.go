// Copyright The Zoom Learning Platform Contributors.
// SPDX-License-Identifier: MIT

package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zoomlearning/attendance-service/internal/domain/models"
	"github.com/zoomlearning/attendance-service/pkg/constants"
)

// fakeNatsConn captures published messages for inspection.
type fakeNatsConn struct {
	published map[string][][]byte
	pubError  error
}

func newFakeNatsConn() *fakeNatsConn {
	return &fakeNatsConn{published: make(map[string][][]byte)}
}

func (f *fakeNatsConn) IsConnected() bool { return true }

func (f *fakeNatsConn) Publish(subj string, data []byte) error {
	if f.pubError != nil {
		return f.pubError
	}
	f.published[subj] = append(f.published[subj], data)
	return nil
}

func TestSendIndexAttendanceRecord(t *testing.T) {
	conn := newFakeNatsConn()
	builder := NewMessageBuilder(conn)

	record := models.AttendanceRecord{
		UID:       "rec-1",
		MeetingID: "98765",
		UserID:    "user-abc",
		Name:      "Test Student",
		Status:    models.AttendanceStatusJoined,
	}

	err := builder.SendIndexAttendanceRecord(context.Background(), models.ActionCreated, record)
	require.NoError(t, err)

	messages := conn.published[models.IndexAttendanceRecordSubject]
	require.Len(t, messages, 1)

	var message models.AttendanceIndexerMessage
	require.NoError(t, json.Unmarshal(messages[0], &message))

	assert.Equal(t, models.ActionCreated, message.Action)
	assert.Contains(t, message.Tags, "rec-1")
	assert.Contains(t, message.Tags, "meeting_id:98765")
	assert.Contains(t, message.Tags, "user_id:user-abc")

	// Without user auth context the service identity is used.
	assert.Equal(t, "Bearer attendance-service", message.Headers[constants.AuthorizationHeader])

	data, ok := message.Data.(map[string]any)
	require.True(t, ok, "expected data to be a JSON object")
	assert.Equal(t, "rec-1", data["uid"])
	assert.Equal(t, "98765", data["meeting_id"])
}

func TestSendIndexAttendanceRecord_AuthContext(t *testing.T) {
	conn := newFakeNatsConn()
	builder := NewMessageBuilder(conn)

	ctx := context.WithValue(context.Background(), constants.AuthorizationContextID, "Bearer user-token")

	err := builder.SendIndexAttendanceRecord(ctx, models.ActionUpdated, models.AttendanceRecord{UID: "rec-1"})
	require.NoError(t, err)

	messages := conn.published[models.IndexAttendanceRecordSubject]
	require.Len(t, messages, 1)

	var message models.AttendanceIndexerMessage
	require.NoError(t, json.Unmarshal(messages[0], &message))
	assert.Equal(t, "Bearer user-token", message.Headers[constants.AuthorizationHeader])
}

func TestSendAttendanceUpdated(t *testing.T) {
	conn := newFakeNatsConn()
	builder := NewMessageBuilder(conn)

	err := builder.SendAttendanceUpdated(context.Background(), models.AttendanceUpdatedMessage{
		MeetingID: "98765",
		UserID:    "user-abc",
		Status:    models.AttendanceStatusLeft,
		RecordUID: "rec-1",
	})
	require.NoError(t, err)

	messages := conn.published[models.AttendanceUpdatedSubject]
	require.Len(t, messages, 1)

	var message models.AttendanceUpdatedMessage
	require.NoError(t, json.Unmarshal(messages[0], &message))
	assert.Equal(t, "98765", message.MeetingID)
	assert.Equal(t, models.AttendanceStatusLeft, message.Status)
}

func TestSendAttendanceUpdated_PublishError(t *testing.T) {
	conn := newFakeNatsConn()
	conn.pubError = errors.New("connection closed")
	builder := NewMessageBuilder(conn)

	err := builder.SendAttendanceUpdated(context.Background(), models.AttendanceUpdatedMessage{})
	assert.Error(t, err)
}
