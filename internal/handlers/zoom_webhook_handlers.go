// Copyright The Zoom Learning Platform Contributors.
// SPDX-License-Identifier: MIT

package handlers

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"github.com/zoomlearning/attendance-service/internal/domain"
	"github.com/zoomlearning/attendance-service/internal/domain/models"
	"github.com/zoomlearning/attendance-service/internal/logging"
	"github.com/zoomlearning/attendance-service/internal/service"
	"github.com/zoomlearning/attendance-service/pkg/constants"
	"github.com/zoomlearning/attendance-service/pkg/utils"
)

// maxWebhookBodySize caps the webhook request body at 1 MiB. Zoom payloads
// are far smaller than this.
const maxWebhookBodySize = 1 << 20

// ZoomWebhookHandler handles Zoom webhook HTTP requests.
type ZoomWebhookHandler struct {
	webhookService *service.ZoomWebhookService
}

// NewZoomWebhookHandler creates a new ZoomWebhookHandler.
func NewZoomWebhookHandler(webhookService *service.ZoomWebhookService) *ZoomWebhookHandler {
	return &ZoomWebhookHandler{
		webhookService: webhookService,
	}
}

// HandlerReady checks if the handler's services are ready for use.
func (h *ZoomWebhookHandler) HandlerReady() bool {
	return h.webhookService != nil && h.webhookService.ServiceReady()
}

// HandleZoomWebhook handles POST /api/zoom/webhook.
//
// The raw body bytes are read exactly once and passed through for signature
// verification untouched; re-serializing the parsed JSON would break the
// HMAC check on any formatting difference.
func (h *ZoomWebhookHandler) HandleZoomWebhook(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	rawBody, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBodySize))
	if err != nil {
		slog.ErrorContext(ctx, "error reading webhook request body", logging.ErrKey, err)
		writeError(ctx, w, domain.NewValidationError("unable to read request body", err))
		return
	}

	var event models.ZoomWebhookEventMessage
	if err := json.Unmarshal(rawBody, &event); err != nil {
		slog.WarnContext(ctx, "malformed webhook JSON body", logging.ErrKey, err)
		writeError(ctx, w, domain.NewValidationError("malformed JSON body", err))
		return
	}

	ctx = logging.AppendCtx(ctx, slog.String("event_type", event.Event))

	req := service.WebhookRequest{
		Event:     event.Event,
		EventTS:   event.EventTS,
		Payload:   event.Payload,
		Signature: r.Header.Get(constants.ZoomSignatureHeader),
		Timestamp: r.Header.Get(constants.ZoomTimestampHeader),
		RawBody:   rawBody,
	}

	// Zoom has already delivered the event; finish the attendance write even
	// if the client connection goes away mid-request.
	resp, err := h.webhookService.ProcessWebhookEvent(context.WithoutCancel(ctx), req)
	if err != nil {
		slog.WarnContext(ctx, "webhook event processing failed", logging.ErrKey, err)
		writeError(ctx, w, err)
		return
	}

	slog.DebugContext(ctx, "webhook event processed", "status", utils.StringValue(resp.Status))

	writeJSON(ctx, w, http.StatusOK, resp)
}

// HandleWebhookTest handles GET /api/zoom/webhook/test, a connectivity probe
// for webhook subscription setup.
func (h *ZoomWebhookHandler) HandleWebhookTest(w http.ResponseWriter, r *http.Request) {
	writeJSON(r.Context(), w, http.StatusOK, map[string]string{
		"status":  "ok",
		"message": "Webhook active",
	})
}
