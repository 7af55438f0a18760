// Copyright The Zoom Learning Platform Contributors.
// SPDX-License-Identifier: MIT

// Package webhook validates inbound Zoom webhook requests.
package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"time"
)

// signatureTolerance is how old a webhook timestamp may be before the
// request is rejected as a replay.
const signatureTolerance = 5 * time.Minute

// ZoomWebhookValidator handles validation of Zoom webhook signatures
type ZoomWebhookValidator struct {
	secretToken string
}

// NewZoomWebhookValidator creates a new Zoom webhook validator
func NewZoomWebhookValidator(secretToken string) *ZoomWebhookValidator {
	return &ZoomWebhookValidator{
		secretToken: secretToken,
	}
}

// GetSecretToken returns the configured shared secret.
func (v *ZoomWebhookValidator) GetSecretToken() string {
	return v.secretToken
}

// ValidateSignature validates the Zoom webhook signature over the raw
// request body. The body must be the exact bytes received on the wire:
// re-serializing parsed JSON changes key order and whitespace and breaks
// the digest.
func (v *ZoomWebhookValidator) ValidateSignature(body []byte, signature, timestamp string) error {
	if v.secretToken == "" {
		return fmt.Errorf("webhook secret token not configured")
	}

	if signature == "" {
		return fmt.Errorf("missing webhook signature")
	}

	if timestamp == "" {
		return fmt.Errorf("missing webhook timestamp")
	}

	// Parse timestamp for replay protection
	ts, err := strconv.ParseInt(timestamp, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid timestamp format: %w", err)
	}

	now := time.Now().Unix()
	if now-ts > int64(signatureTolerance.Seconds()) {
		return fmt.Errorf("request timestamp too old")
	}

	// Create the message to sign: v0:timestamp:body
	message := fmt.Sprintf("v0:%s:%s", timestamp, body)

	h := hmac.New(sha256.New, []byte(v.secretToken))
	h.Write([]byte(message))
	expectedSignature := "v0=" + hex.EncodeToString(h.Sum(nil))

	// Compare signatures using constant-time comparison
	if !hmac.Equal([]byte(signature), []byte(expectedSignature)) {
		return fmt.Errorf("invalid webhook signature")
	}

	return nil
}
