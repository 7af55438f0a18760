// Copyright The Zoom Learning Platform Contributors.
// SPDX-License-Identifier: MIT

package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/zoomlearning/attendance-service/internal/domain/mocks"
	"github.com/zoomlearning/attendance-service/internal/domain/models"
	"github.com/zoomlearning/attendance-service/internal/service"
)

func newTestAttendanceHandler(t *testing.T) (*AttendanceHandler, *memoryAttendanceRepository) {
	t.Helper()

	repo := newMemoryAttendanceRepository()
	builder := &mocks.MockMessageBuilder{}
	builder.On("SendIndexAttendanceRecord", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	builder.On("SendAttendanceUpdated", mock.Anything, mock.Anything).Return(nil)

	return NewAttendanceHandler(service.NewAttendanceService(repo, builder)), repo
}

// attendanceRequest builds a GET request routed through a mux so that the
// meetingID path value is populated.
func attendanceRequest(handler *AttendanceHandler, target string) *httptest.ResponseRecorder {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/zoom/meetings/{meetingID}/attendance", handler.HandleMeetingAttendance)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestHandleMeetingAttendance(t *testing.T) {
	handler, repo := newTestAttendanceHandler(t)

	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, &models.AttendanceRecord{
		UID: "rec-1", MeetingID: "98765", UserID: "user-a", Status: models.AttendanceStatusJoined,
	}))
	require.NoError(t, repo.Create(ctx, &models.AttendanceRecord{
		UID: "rec-2", MeetingID: "98765", UserID: "user-b", Status: models.AttendanceStatusLeft,
	}))
	require.NoError(t, repo.Create(ctx, &models.AttendanceRecord{
		UID: "rec-3", MeetingID: "11111", UserID: "user-a", Status: models.AttendanceStatusJoined,
	}))

	rec := attendanceRequest(handler, "/api/zoom/meetings/98765/attendance")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp meetingAttendanceResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "98765", resp.MeetingID)
	assert.Equal(t, 2, resp.Count)
	assert.Len(t, resp.Records, 2)
}

func TestHandleMeetingAttendance_Empty(t *testing.T) {
	handler, _ := newTestAttendanceHandler(t)

	rec := attendanceRequest(handler, "/api/zoom/meetings/00000/attendance")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp meetingAttendanceResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 0, resp.Count)
	assert.NotNil(t, resp.Records)
}

func TestHealthHandlers(t *testing.T) {
	webhookHandler, _ := newTestWebhookHandler(t)
	attendanceHandler, _ := newTestAttendanceHandler(t)
	health := NewHealthHandler(webhookHandler, attendanceHandler)

	rec := httptest.NewRecorder()
	health.HandleLivez(rec, httptest.NewRequest(http.MethodGet, "/livez", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	health.HandleReadyz(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	// A handler with missing dependencies makes the service not ready.
	notReady := NewHealthHandler(NewAttendanceHandler(service.NewAttendanceService(nil, nil)))
	rec = httptest.NewRecorder()
	notReady.HandleReadyz(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestHandleRoot(t *testing.T) {
	health := NewHealthHandler()

	rec := httptest.NewRecorder()
	health.HandleRoot(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "attendance-service", resp["service"])

	rec = httptest.NewRecorder()
	health.HandleRoot(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
