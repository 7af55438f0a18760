// Copyright The Zoom Learning Platform Contributors.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"log/slog"

	"github.com/zoomlearning/attendance-service/internal/domain"
	"github.com/zoomlearning/attendance-service/internal/domain/models"
	"github.com/zoomlearning/attendance-service/pkg/utils"
)

// ZoomWebhookService handles Zoom webhook event processing
type ZoomWebhookService struct {
	attendanceService *AttendanceService
	webhookValidator  domain.WebhookValidator
}

// WebhookRequest represents the webhook processing request
type WebhookRequest struct {
	Event     string
	EventTS   int64
	Payload   map[string]any
	Signature string
	Timestamp string
	RawBody   []byte
}

// WebhookResponse represents the webhook processing response
type WebhookResponse struct {
	Status         *string `json:"status,omitempty"`
	Event          *string `json:"event,omitempty"`
	Message        *string `json:"message,omitempty"`
	PlainToken     *string `json:"plainToken,omitempty"`
	EncryptedToken *string `json:"encryptedToken,omitempty"`
}

// Webhook response status values.
const (
	WebhookStatusSuccess = "success"
	WebhookStatusIgnored = "ignored"
)

// NewZoomWebhookService creates a new ZoomWebhookService
func NewZoomWebhookService(
	attendanceService *AttendanceService,
	webhookValidator domain.WebhookValidator,
) *ZoomWebhookService {
	return &ZoomWebhookService{
		attendanceService: attendanceService,
		webhookValidator:  webhookValidator,
	}
}

// ServiceReady checks if the service is ready to process requests
func (s *ZoomWebhookService) ServiceReady() bool {
	return s.attendanceService != nil &&
		s.attendanceService.ServiceReady() &&
		s.webhookValidator != nil
}

// ProcessWebhookEvent processes a Zoom webhook event.
//
// The endpoint.url_validation handshake is answered before any signature
// check, since Zoom sends it while the subscription is still being set up.
// Every other event must carry a valid signature.
func (s *ZoomWebhookService) ProcessWebhookEvent(ctx context.Context, req WebhookRequest) (*WebhookResponse, error) {
	if !s.ServiceReady() {
		return nil, domain.NewUnavailableError("service not initialized")
	}

	// Handle special endpoint validation event
	if req.Event == models.EventEndpointURLValidation {
		return s.handleEndpointValidation(ctx, req)
	}

	// Validate webhook signature
	if err := s.webhookValidator.ValidateSignature(req.RawBody, req.Signature, req.Timestamp); err != nil {
		return nil, domain.NewUnauthorizedError("invalid webhook signature", err)
	}

	return s.dispatchEvent(ctx, req)
}

// handleEndpointValidation handles the special endpoint.url_validation event
func (s *ZoomWebhookService) handleEndpointValidation(ctx context.Context, req WebhookRequest) (*WebhookResponse, error) {
	message := models.ZoomWebhookEventMessage{
		Event:   req.Event,
		EventTS: req.EventTS,
		Payload: req.Payload,
	}
	payload, err := message.ToURLValidationPayload()
	if err != nil {
		slog.ErrorContext(ctx, "invalid url validation payload", "error", err)
		return nil, domain.NewValidationError("invalid validation payload format", err)
	}

	if payload.PlainToken == "" {
		slog.ErrorContext(ctx, "missing plainToken in validation payload")
		return nil, domain.NewValidationError("missing plainToken in validation payload")
	}

	secretToken := s.webhookValidator.GetSecretToken()
	if secretToken == "" {
		slog.ErrorContext(ctx, "zoom webhook validator not properly configured")
		return nil, domain.NewInternalError("webhook validation not configured")
	}

	// Zoom expects the base64 encoding of the raw HMAC SHA-256 digest of the
	// plain token.
	h := hmac.New(sha256.New, []byte(secretToken))
	h.Write([]byte(payload.PlainToken))
	encryptedToken := base64.StdEncoding.EncodeToString(h.Sum(nil))

	slog.InfoContext(ctx, "zoom webhook endpoint validation completed successfully")

	return &WebhookResponse{
		PlainToken:     utils.StringPtr(payload.PlainToken),
		EncryptedToken: utils.StringPtr(encryptedToken),
	}, nil
}

// dispatchEvent routes a verified webhook event to the attendance service.
// Unknown event types are acknowledged and ignored so that Zoom does not
// retry or disable the subscription.
func (s *ZoomWebhookService) dispatchEvent(ctx context.Context, req WebhookRequest) (*WebhookResponse, error) {
	switch req.Event {
	case models.EventMeetingParticipantJoined, models.EventParticipantJoinedShortForm:
		if err := s.processParticipantEvent(ctx, req, true); err != nil {
			return nil, err
		}
		return &WebhookResponse{
			Status: utils.StringPtr(WebhookStatusSuccess),
			Event:  utils.StringPtr(string(models.AttendanceStatusJoined)),
		}, nil
	case models.EventMeetingParticipantLeft, models.EventParticipantLeftShortForm:
		if err := s.processParticipantEvent(ctx, req, false); err != nil {
			return nil, err
		}
		return &WebhookResponse{
			Status: utils.StringPtr(WebhookStatusSuccess),
			Event:  utils.StringPtr(string(models.AttendanceStatusLeft)),
		}, nil
	default:
		slog.InfoContext(ctx, "ignoring unsupported zoom webhook event", "event_type", req.Event)
		return &WebhookResponse{
			Status: utils.StringPtr(WebhookStatusIgnored),
			Event:  utils.StringPtr(req.Event),
		}, nil
	}
}

func (s *ZoomWebhookService) processParticipantEvent(ctx context.Context, req WebhookRequest, joined bool) error {
	message := models.ZoomWebhookEventMessage{
		Event:   req.Event,
		EventTS: req.EventTS,
		Payload: req.Payload,
	}
	payload, err := message.ToParticipantEventPayload()
	if err != nil {
		slog.ErrorContext(ctx, "invalid participant event payload", "error", err, "event_type", req.Event)
		return domain.NewValidationError("invalid webhook payload format", err)
	}

	meetingID := payload.Object.ID.String()
	participant, err := payload.Object.ParseParticipant()
	if err != nil {
		slog.ErrorContext(ctx, "invalid participant data", "error", err, "event_type", req.Event)
		return domain.NewValidationError("invalid participant data", err)
	}

	if joined {
		_, err = s.attendanceService.RecordJoin(ctx, meetingID, participant, payload.Object.Participant)
	} else {
		_, err = s.attendanceService.RecordLeave(ctx, meetingID, participant, payload.Object.Participant)
	}
	return err
}
