// Copyright The Zoom Learning Platform Contributors.
// SPDX-License-Identifier: MIT

package models

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/zoomlearning/attendance-service/pkg/utils"
)

// Zoom webhook event type tags handled by the service. Zoom has emitted both
// the long and short participant event names over time, so both are accepted.
const (
	EventEndpointURLValidation      = "endpoint.url_validation"
	EventMeetingParticipantJoined   = "meeting.participant_joined"
	EventParticipantJoinedShortForm = "participant.joined"
	EventMeetingParticipantLeft     = "meeting.participant_left"
	EventParticipantLeftShortForm   = "participant.left"
)

// ZoomWebhookEventMessage is the envelope Zoom posts to the webhook endpoint.
type ZoomWebhookEventMessage struct {
	Event   string         `json:"event"`
	EventTS int64          `json:"event_ts"`
	Payload map[string]any `json:"payload"`
}

// FlexibleID is a string identifier that Zoom sometimes serializes as a JSON
// number (older meeting IDs) and sometimes as a string. It always normalizes
// to a string.
type FlexibleID string

// UnmarshalJSON accepts either a JSON string or a JSON number.
func (f *FlexibleID) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = FlexibleID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("id is neither string nor number: %w", err)
	}
	*f = FlexibleID(n.String())
	return nil
}

// String returns the normalized string form of the identifier.
func (f FlexibleID) String() string {
	return string(f)
}

// ZoomParticipant represents participant data in joined/left webhook payloads.
// Zoom's field names have drifted across event versions, so each logical
// field has an ordered fallback chain, resolved by the accessor methods:
//   - identity: user_id, then id
//   - display name: user_name, then name
type ZoomParticipant struct {
	UserID    FlexibleID `json:"user_id"`
	ID        FlexibleID `json:"id"`
	UserName  string     `json:"user_name"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	JoinTime  time.Time  `json:"join_time"`
	LeaveTime time.Time  `json:"leave_time"`
	Duration  int        `json:"duration"`
}

// Identity returns the participant's user identifier, preferring user_id and
// falling back to id.
func (p *ZoomParticipant) Identity() string {
	return utils.CoalesceString(p.UserID.String(), p.ID.String())
}

// DisplayName returns the participant's display name, preferring user_name
// and falling back to name.
func (p *ZoomParticipant) DisplayName() string {
	return utils.CoalesceString(p.UserName, p.Name)
}

// ZoomParticipantEventObject is the "object" of a participant joined/left
// payload. Participant is kept as raw bytes so the exact source payload can
// be stored for audit alongside the typed view.
type ZoomParticipantEventObject struct {
	UUID        string          `json:"uuid"`
	ID          FlexibleID      `json:"id"`
	HostID      string          `json:"host_id"`
	Topic       string          `json:"topic"`
	StartTime   time.Time       `json:"start_time"`
	Timezone    string          `json:"timezone"`
	Participant json.RawMessage `json:"participant"`
}

// ZoomParticipantEventPayload represents the payload for participant
// joined/left webhook events.
type ZoomParticipantEventPayload struct {
	Object ZoomParticipantEventObject `json:"object"`
}

// ParseParticipant decodes the raw participant bytes into the typed view.
func (o *ZoomParticipantEventObject) ParseParticipant() (*ZoomParticipant, error) {
	if len(o.Participant) == 0 {
		return &ZoomParticipant{}, nil
	}

	var participant ZoomParticipant
	if err := json.Unmarshal(o.Participant, &participant); err != nil {
		return nil, fmt.Errorf("failed to unmarshal participant: %w", err)
	}
	return &participant, nil
}

// ZoomURLValidationPayload represents the payload for endpoint.url_validation
// webhook events.
type ZoomURLValidationPayload struct {
	PlainToken string `json:"plainToken"`
}

// ToParticipantEventPayload converts the webhook event to a typed participant
// joined/left payload. It applies to both the long and short event names.
func (z *ZoomWebhookEventMessage) ToParticipantEventPayload() (*ZoomParticipantEventPayload, error) {
	switch z.Event {
	case EventMeetingParticipantJoined, EventParticipantJoinedShortForm,
		EventMeetingParticipantLeft, EventParticipantLeftShortForm:
	default:
		return nil, fmt.Errorf("invalid event type: expected a participant event, got %s", z.Event)
	}

	data, err := json.Marshal(z.Payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}

	var payload ZoomParticipantEventPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("failed to unmarshal to participant event payload: %w", err)
	}

	return &payload, nil
}

// ToURLValidationPayload converts the webhook event to a typed URL validation
// payload.
func (z *ZoomWebhookEventMessage) ToURLValidationPayload() (*ZoomURLValidationPayload, error) {
	if z.Event != EventEndpointURLValidation {
		return nil, fmt.Errorf("invalid event type: expected %s, got %s", EventEndpointURLValidation, z.Event)
	}

	data, err := json.Marshal(z.Payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}

	var payload ZoomURLValidationPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("failed to unmarshal to url validation payload: %w", err)
	}

	return &payload, nil
}
