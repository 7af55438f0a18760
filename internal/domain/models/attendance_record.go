// Copyright The Zoom Learning Platform Contributors.
// SPDX-License-Identifier: MIT

package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// AttendanceStatus is the lifecycle state of an attendance record.
type AttendanceStatus string

// Attendance status constants.
const (
	// AttendanceStatusJoined means the participant is (or was last seen) in the meeting.
	AttendanceStatusJoined AttendanceStatus = "joined"
	// AttendanceStatusLeft means the participant has left the meeting.
	AttendanceStatusLeft AttendanceStatus = "left"
)

// AttendanceRecord represents a participant's attendance in a Zoom meeting.
// Exactly one record exists per (MeetingID, UserID) pair: join and leave
// events for the same pair mutate the same record, and the record is never
// deleted by webhook processing.
type AttendanceRecord struct {
	UID       string           `json:"uid"`
	MeetingID string           `json:"meeting_id"`
	UserID    string           `json:"user_id"`
	Name      string           `json:"name,omitempty"`
	Email     string           `json:"email,omitempty"`
	JoinTime  *time.Time       `json:"join_time,omitempty"`
	LeftTime  *time.Time       `json:"left_time,omitempty"`
	Status    AttendanceStatus `json:"status"`
	// Raw is an opaque copy of the source participant payload, kept for audit.
	Raw       json.RawMessage `json:"raw,omitempty"`
	CreatedAt *time.Time      `json:"created_at,omitempty"`
	UpdatedAt *time.Time      `json:"updated_at,omitempty"`
}

// Tags generates a consistent set of tags for the attendance record so that
// indexed records can be searched by any of their identifying fields.
func (r *AttendanceRecord) Tags() []string {
	if r == nil {
		return nil
	}

	tags := []string{}

	if r.UID != "" {
		// without prefix
		tags = append(tags, r.UID)
		// with prefix
		tags = append(tags, fmt.Sprintf("attendance_record_uid:%s", r.UID))
	}

	if r.MeetingID != "" {
		tags = append(tags, fmt.Sprintf("meeting_id:%s", r.MeetingID))
	}

	if r.UserID != "" {
		tags = append(tags, fmt.Sprintf("user_id:%s", r.UserID))
	}

	if r.Name != "" {
		tags = append(tags, fmt.Sprintf("name:%s", r.Name))
	}

	if r.Email != "" {
		tags = append(tags, fmt.Sprintf("email:%s", r.Email))
	}

	return tags
}
