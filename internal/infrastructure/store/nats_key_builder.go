// Copyright The Zoom Learning Platform Contributors.
// SPDX-License-Identifier: MIT

package store

import (
	"encoding/base64"
	"fmt"
	"log/slog"
	"strings"

	"github.com/nats-io/nats.go"

	"github.com/zoomlearning/attendance-service/internal/logging"
)

// Common key prefixes
const (
	// KeyPrefixAttendance is the entity prefix for attendance records.
	KeyPrefixAttendance = "attendance"
)

// KeyBuilder provides utilities for building consistent NATS KV keys
type KeyBuilder struct {
	prefix string
}

// NewKeyBuilder creates a new key builder with an optional prefix
func NewKeyBuilder(prefix string) *KeyBuilder {
	return &KeyBuilder{
		prefix: prefix,
	}
}

// AttendanceKey builds a key for an attendance record
// (e.g., "attendance/98765/abc-user-id"). The key carries the full
// (meeting, user) identity, so at most one record can exist per pair.
func (kb *KeyBuilder) AttendanceKey(meetingID, userID string) string {
	key := fmt.Sprintf("%s/%s/%s", KeyPrefixAttendance, meetingID, userID)
	return kb.applyPrefix(key)
}

// AttendanceKeyEncoded builds the encoded KV form of AttendanceKey.
func (kb *KeyBuilder) AttendanceKeyEncoded(meetingID, userID string) string {
	key := kb.AttendanceKey(meetingID, userID)
	encodedKey, err := kb.EncodeKey(key)
	if err != nil {
		slog.Error("error encoding key", logging.ErrKey, err, "key", key)
		return key
	}
	return encodedKey
}

// CompoundKey builds a compound key from multiple parts
func (kb *KeyBuilder) CompoundKey(parts ...string) string {
	key := strings.Join(parts, "/")
	return kb.applyPrefix(key)
}

// applyPrefix adds the builder's prefix if one is set
func (kb *KeyBuilder) applyPrefix(key string) string {
	if kb.prefix == "" {
		return key
	}
	return fmt.Sprintf("%s/%s", kb.prefix, key)
}

// EncodeKey encodes a key for NATS KV store.
// From https://github.com/ripienaar/encodedkv
//
// NATS limitations: https://docs.nats.io/nats-concepts/jetstream/key-value-store#notes
func (kb *KeyBuilder) EncodeKey(key string) (string, error) {
	res := []string{}
	for _, part := range strings.Split(strings.TrimPrefix(key, "/"), "/") {
		if part == ">" || part == "*" {
			res = append(res, part)
			continue
		}

		dst := make([]byte, base64.StdEncoding.EncodedLen(len(part)))
		base64.StdEncoding.Encode(dst, []byte(part))
		res = append(res, string(dst))
	}

	if len(res) == 0 {
		return "", nats.ErrInvalidKey
	}

	return strings.Join(res, "."), nil
}

// DecodeKey decodes a key for NATS KV store.
// From https://github.com/ripienaar/encodedkv
//
// NATS limitations: https://docs.nats.io/nats-concepts/jetstream/key-value-store#notes
func (kb *KeyBuilder) DecodeKey(key string) (string, error) {
	res := []string{}
	for _, part := range strings.Split(key, ".") {
		k, err := base64.StdEncoding.DecodeString(part)
		if err != nil {
			return "", err
		}

		res = append(res, string(k))
	}

	if len(res) == 0 {
		return "", nats.ErrInvalidKey
	}

	return fmt.Sprintf("/%s", strings.Join(res, "/")), nil
}
