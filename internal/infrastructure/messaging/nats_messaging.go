// Copyright The Zoom Learning Platform Contributors.
// SPDX-License-Identifier: MIT

package messaging

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/go-viper/mapstructure/v2"

	"github.com/zoomlearning/attendance-service/internal/domain"
	"github.com/zoomlearning/attendance-service/internal/domain/models"
	"github.com/zoomlearning/attendance-service/internal/logging"
	"github.com/zoomlearning/attendance-service/pkg/constants"
)

// INatsConn is a NATS connection interface needed for the [MessageBuilder].
type INatsConn interface {
	IsConnected() bool
	Publish(subj string, data []byte) error
}

// MessageBuilder is the builder for the message and sends it to the NATS server.
type MessageBuilder struct {
	NatsConn INatsConn
}

// NewMessageBuilder creates a new MessageBuilder.
func NewMessageBuilder(natsConn INatsConn) *MessageBuilder {
	return &MessageBuilder{
		NatsConn: natsConn,
	}
}

// sendMessage sends the message to the NATS server.
func (m *MessageBuilder) sendMessage(ctx context.Context, subject string, data []byte) error {
	err := m.NatsConn.Publish(subject, data)
	if err != nil {
		slog.ErrorContext(ctx, "error sending message to NATS", logging.ErrKey, err, "subject", subject)
		return err
	}
	slog.DebugContext(ctx, "sent message to NATS", "subject", subject)
	return nil
}

// sendIndexerMessage sends the message to the NATS server for the indexer.
func (m *MessageBuilder) sendIndexerMessage(ctx context.Context, subject string, action models.MessageAction, data []byte, tags []string) error {
	headers := make(map[string]string)
	if authorization, ok := ctx.Value(constants.AuthorizationContextID).(string); ok {
		headers[constants.AuthorizationHeader] = authorization
	} else {
		// Fallback for webhook-originated writes that carry no user auth
		// context. The indexer requires an authorization header, so we send a
		// service identity instead.
		headers[constants.AuthorizationHeader] = "Bearer attendance-service"
	}

	// Decode the JSON data into a map[string]any since that is what the indexer expects.
	var jsonData any
	if err := json.Unmarshal(data, &jsonData); err != nil {
		slog.ErrorContext(ctx, "error unmarshalling data into JSON", logging.ErrKey, err, "subject", subject)
		return err
	}

	var payload any
	config := mapstructure.DecoderConfig{
		TagName: "json",
		Result:  &payload,
	}
	decoder, err := mapstructure.NewDecoder(&config)
	if err != nil {
		slog.ErrorContext(ctx, "error creating decoder", logging.ErrKey, err, "subject", subject)
		return err
	}
	err = decoder.Decode(jsonData)
	if err != nil {
		slog.ErrorContext(ctx, "error decoding data", logging.ErrKey, err, "subject", subject)
		return err
	}

	message := models.AttendanceIndexerMessage{
		Action:  action,
		Headers: headers,
		Data:    payload,
		Tags:    tags,
	}

	messageBytes, err := json.Marshal(message)
	if err != nil {
		slog.ErrorContext(ctx, "error marshalling message into JSON", logging.ErrKey, err, "subject", subject)
		return err
	}

	slog.DebugContext(ctx, "constructed indexer message",
		"subject", subject,
		"action", action,
		"tags_count", len(tags),
	)

	return m.sendMessage(ctx, subject, messageBytes)
}

// SendIndexAttendanceRecord sends the message to the NATS server for the attendance record indexing.
func (m *MessageBuilder) SendIndexAttendanceRecord(ctx context.Context, action models.MessageAction, data models.AttendanceRecord) error {
	dataBytes, err := json.Marshal(data)
	if err != nil {
		slog.ErrorContext(ctx, "error marshalling data into JSON", logging.ErrKey, err)
		return err
	}

	return m.sendIndexerMessage(ctx, models.IndexAttendanceRecordSubject, action, dataBytes, data.Tags())
}

// SendAttendanceUpdated sends a message about a participant's attendance changing.
func (m *MessageBuilder) SendAttendanceUpdated(ctx context.Context, data models.AttendanceUpdatedMessage) error {
	dataBytes, err := json.Marshal(data)
	if err != nil {
		slog.ErrorContext(ctx, "error marshalling data into JSON", logging.ErrKey, err)
		return err
	}

	return m.sendMessage(ctx, models.AttendanceUpdatedSubject, dataBytes)
}

// Ensure MessageBuilder implements domain.MessageBuilder
var _ domain.MessageBuilder = (*MessageBuilder)(nil)
