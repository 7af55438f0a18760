// Copyright The Zoom Learning Platform Contributors.
// SPDX-License-Identifier: MIT

package models

// NATS subjects that the attendance service sends messages about.
const (
	// IndexAttendanceRecordSubject is the subject for attendance record indexing.
	// The subject is of the form: learning.index.attendance_record
	IndexAttendanceRecordSubject = "learning.index.attendance_record"

	// AttendanceUpdatedSubject is the subject for attendance change
	// notifications consumed by the rest of the learning platform.
	// The subject is of the form: learning.attendance.updated
	AttendanceUpdatedSubject = "learning.attendance.updated"
)

// MessageAction is a type for the action of an attendance message.
type MessageAction string

// MessageAction constants for the action of an attendance message.
const (
	// ActionCreated is the action for a resource creation message.
	ActionCreated MessageAction = "created"
	// ActionUpdated is the action for a resource update message.
	ActionUpdated MessageAction = "updated"
)

// AttendanceIndexerMessage is a NATS message schema for sending messages
// related to attendance record writes to the platform indexer.
type AttendanceIndexerMessage struct {
	Action  MessageAction     `json:"action"`
	Headers map[string]string `json:"headers"`
	Data    any               `json:"data"`
	// Tags is a list of tags to be set on the indexed resource for search.
	Tags []string `json:"tags"`
}

// AttendanceUpdatedMessage is the schema for the message sent when a
// participant's attendance changes. Consumers (e.g. the course dashboard)
// only need the logical key and the new status.
type AttendanceUpdatedMessage struct {
	MeetingID string           `json:"meeting_id"`
	UserID    string           `json:"user_id"`
	Status    AttendanceStatus `json:"status"`
	RecordUID string           `json:"record_uid"`
}
