// Copyright The Zoom Learning Platform Contributors.
// SPDX-License-Identifier: MIT

package handlers

import (
	"net/http"

	"github.com/zoomlearning/attendance-service/internal/domain"
	"github.com/zoomlearning/attendance-service/internal/domain/models"
	"github.com/zoomlearning/attendance-service/internal/service"
)

// AttendanceHandler handles the attendance read API.
type AttendanceHandler struct {
	attendanceService *service.AttendanceService
}

// NewAttendanceHandler creates a new AttendanceHandler.
func NewAttendanceHandler(attendanceService *service.AttendanceService) *AttendanceHandler {
	return &AttendanceHandler{
		attendanceService: attendanceService,
	}
}

// HandlerReady checks if the handler's services are ready for use.
func (h *AttendanceHandler) HandlerReady() bool {
	return h.attendanceService != nil && h.attendanceService.ServiceReady()
}

// meetingAttendanceResponse is the body for the meeting attendance listing.
type meetingAttendanceResponse struct {
	MeetingID string                     `json:"meeting_id"`
	Count     int                        `json:"count"`
	Records   []*models.AttendanceRecord `json:"records"`
}

// HandleMeetingAttendance handles GET /api/zoom/meetings/{meetingID}/attendance.
func (h *AttendanceHandler) HandleMeetingAttendance(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	meetingID := r.PathValue("meetingID")
	if meetingID == "" {
		writeError(ctx, w, domain.NewValidationError("meeting ID is required"))
		return
	}

	records, err := h.attendanceService.GetMeetingAttendance(ctx, meetingID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	if records == nil {
		records = []*models.AttendanceRecord{}
	}

	writeJSON(ctx, w, http.StatusOK, meetingAttendanceResponse{
		MeetingID: meetingID,
		Count:     len(records),
		Records:   records,
	})
}
