// Copyright The Zoom Learning Platform Contributors.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/zoomlearning/attendance-service/internal/domain"
	"github.com/zoomlearning/attendance-service/internal/domain/mocks"
	"github.com/zoomlearning/attendance-service/internal/domain/models"
)

func newWebhookServiceForTest(validator *mocks.MockWebhookValidator) (*ZoomWebhookService, *fakeAttendanceRepository) {
	repo := newFakeAttendanceRepository()
	attendance := NewAttendanceService(repo, newMessageBuilderMock())
	return NewZoomWebhookService(attendance, validator), repo
}

func joinedPayload(meetingID any, participant map[string]any) map[string]any {
	return map[string]any{
		"object": map[string]any{
			"id":          meetingID,
			"participant": participant,
		},
	}
}

func TestProcessWebhookEvent_URLValidation(t *testing.T) {
	tests := []struct {
		name       string
		secret     string
		plainToken string
		want       string
	}{
		{
			name:       "known token and secret",
			secret:     "s3cr3t",
			plainToken: "abc123",
			want:       "Boi2w+Ie6BRKhhklYGXkIhrulXuXOQj7HdyZ4QIanbk=",
		},
		{
			name:       "same token with a different secret",
			secret:     "other-secret",
			plainToken: "abc123",
			want:       "DrMHBVsYPF4tL1l62soLaVILbryQCN6UqSGt9HpfYTE=",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			validator := &mocks.MockWebhookValidator{}
			validator.On("GetSecretToken").Return(tt.secret)
			svc, _ := newWebhookServiceForTest(validator)

			resp, err := svc.ProcessWebhookEvent(context.Background(), WebhookRequest{
				Event:   models.EventEndpointURLValidation,
				Payload: map[string]any{"plainToken": tt.plainToken},
			})
			require.NoError(t, err)
			require.NotNil(t, resp)

			require.NotNil(t, resp.PlainToken)
			assert.Equal(t, tt.plainToken, *resp.PlainToken)
			require.NotNil(t, resp.EncryptedToken)
			assert.Equal(t, tt.want, *resp.EncryptedToken)

			// The challenge path never runs signature validation.
			validator.AssertNotCalled(t, "ValidateSignature", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestProcessWebhookEvent_URLValidation_NoSecret(t *testing.T) {
	validator := &mocks.MockWebhookValidator{}
	validator.On("GetSecretToken").Return("")
	svc, _ := newWebhookServiceForTest(validator)

	_, err := svc.ProcessWebhookEvent(context.Background(), WebhookRequest{
		Event:   models.EventEndpointURLValidation,
		Payload: map[string]any{"plainToken": "abc123"},
	})
	require.Error(t, err)
	assert.Equal(t, domain.ErrorTypeInternal, domain.GetErrorType(err))
}

func TestProcessWebhookEvent_URLValidation_MissingToken(t *testing.T) {
	validator := &mocks.MockWebhookValidator{}
	validator.On("GetSecretToken").Return("s3cr3t")
	svc, _ := newWebhookServiceForTest(validator)

	_, err := svc.ProcessWebhookEvent(context.Background(), WebhookRequest{
		Event:   models.EventEndpointURLValidation,
		Payload: map[string]any{},
	})
	require.Error(t, err)
	assert.Equal(t, domain.ErrorTypeValidation, domain.GetErrorType(err))
}

func TestProcessWebhookEvent_InvalidSignature(t *testing.T) {
	validator := &mocks.MockWebhookValidator{}
	validator.On("ValidateSignature", mock.Anything, mock.Anything, mock.Anything).
		Return(domain.NewValidationError("signature mismatch"))
	svc, repo := newWebhookServiceForTest(validator)

	_, err := svc.ProcessWebhookEvent(context.Background(), WebhookRequest{
		Event:     models.EventMeetingParticipantJoined,
		Payload:   joinedPayload("98765", map[string]any{"user_id": "user-abc"}),
		Signature: "v0=bogus",
		Timestamp: "1700000000",
		RawBody:   []byte(`{}`),
	})
	require.Error(t, err)
	assert.Equal(t, domain.ErrorTypeUnauthorized, domain.GetErrorType(err))
	assert.Equal(t, 0, repo.count())
}

func TestProcessWebhookEvent_ParticipantJoined(t *testing.T) {
	validator := &mocks.MockWebhookValidator{}
	validator.On("ValidateSignature", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	svc, repo := newWebhookServiceForTest(validator)

	resp, err := svc.ProcessWebhookEvent(context.Background(), WebhookRequest{
		Event: models.EventMeetingParticipantJoined,
		Payload: joinedPayload(98765, map[string]any{
			"user_id":   "user-abc",
			"user_name": "Test Student",
			"email":     "student@example.com",
		}),
		Signature: "v0=valid",
		Timestamp: "1700000000",
		RawBody:   []byte(`{}`),
	})
	require.NoError(t, err)
	require.NotNil(t, resp)

	require.NotNil(t, resp.Status)
	assert.Equal(t, WebhookStatusSuccess, *resp.Status)
	require.NotNil(t, resp.Event)
	assert.Equal(t, "joined", *resp.Event)

	// The numeric meeting ID was normalized to a string key.
	record, err := repo.Get(context.Background(), "98765", "user-abc")
	require.NoError(t, err)
	assert.Equal(t, models.AttendanceStatusJoined, record.Status)
	assert.Equal(t, "Test Student", record.Name)
}

func TestProcessWebhookEvent_ParticipantLeft_ShortForm(t *testing.T) {
	validator := &mocks.MockWebhookValidator{}
	validator.On("ValidateSignature", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	svc, repo := newWebhookServiceForTest(validator)

	resp, err := svc.ProcessWebhookEvent(context.Background(), WebhookRequest{
		Event:     models.EventParticipantLeftShortForm,
		Payload:   joinedPayload("98765", map[string]any{"user_id": "user-abc"}),
		Signature: "v0=valid",
		Timestamp: "1700000000",
		RawBody:   []byte(`{}`),
	})
	require.NoError(t, err)

	require.NotNil(t, resp.Status)
	assert.Equal(t, WebhookStatusSuccess, *resp.Status)
	require.NotNil(t, resp.Event)
	assert.Equal(t, "left", *resp.Event)

	record, err := repo.Get(context.Background(), "98765", "user-abc")
	require.NoError(t, err)
	assert.Equal(t, models.AttendanceStatusLeft, record.Status)
}

func TestProcessWebhookEvent_UnknownEventIgnored(t *testing.T) {
	validator := &mocks.MockWebhookValidator{}
	validator.On("ValidateSignature", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	svc, repo := newWebhookServiceForTest(validator)

	resp, err := svc.ProcessWebhookEvent(context.Background(), WebhookRequest{
		Event:     "recording.completed",
		Payload:   map[string]any{"object": map[string]any{}},
		Signature: "v0=valid",
		Timestamp: "1700000000",
		RawBody:   []byte(`{}`),
	})
	require.NoError(t, err)

	require.NotNil(t, resp.Status)
	assert.Equal(t, WebhookStatusIgnored, *resp.Status)
	require.NotNil(t, resp.Event)
	assert.Equal(t, "recording.completed", *resp.Event)
	assert.Equal(t, 0, repo.count())

	// Unknown events are still signature checked before being acknowledged.
	validator.AssertCalled(t, "ValidateSignature", mock.Anything, mock.Anything, mock.Anything)
}

func TestProcessWebhookEvent_MissingUserID(t *testing.T) {
	validator := &mocks.MockWebhookValidator{}
	validator.On("ValidateSignature", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	svc, repo := newWebhookServiceForTest(validator)

	_, err := svc.ProcessWebhookEvent(context.Background(), WebhookRequest{
		Event:     models.EventMeetingParticipantJoined,
		Payload:   joinedPayload("98765", map[string]any{"user_name": "No Identity"}),
		Signature: "v0=valid",
		Timestamp: "1700000000",
		RawBody:   []byte(`{}`),
	})
	require.Error(t, err)
	assert.Equal(t, domain.ErrorTypeValidation, domain.GetErrorType(err))
	assert.Equal(t, 0, repo.count())
}

func TestProcessWebhookEvent_UnknownEventWithoutPayload(t *testing.T) {
	validator := &mocks.MockWebhookValidator{}
	validator.On("ValidateSignature", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	svc, repo := newWebhookServiceForTest(validator)

	// Events the service does not handle are acknowledged as ignored even
	// when the envelope carries no payload, or no event tag at all.
	for _, event := range []string{"some.future.event", ""} {
		resp, err := svc.ProcessWebhookEvent(context.Background(), WebhookRequest{
			Event:     event,
			Signature: "v0=valid",
			Timestamp: "1700000000",
			RawBody:   []byte(`{}`),
		})
		require.NoError(t, err)

		require.NotNil(t, resp.Status)
		assert.Equal(t, WebhookStatusIgnored, *resp.Status)
		require.NotNil(t, resp.Event)
		assert.Equal(t, event, *resp.Event)
	}
	assert.Equal(t, 0, repo.count())
}

func TestProcessWebhookEvent_ParticipantEventWithoutPayload(t *testing.T) {
	validator := &mocks.MockWebhookValidator{}
	validator.On("ValidateSignature", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	svc, repo := newWebhookServiceForTest(validator)

	// A participant event needs its payload; without one there is no meeting
	// to attribute the attendance to.
	_, err := svc.ProcessWebhookEvent(context.Background(), WebhookRequest{
		Event:     models.EventMeetingParticipantJoined,
		Signature: "v0=valid",
		Timestamp: "1700000000",
		RawBody:   []byte(`{}`),
	})
	require.Error(t, err)
	assert.Equal(t, domain.ErrorTypeValidation, domain.GetErrorType(err))
	assert.Equal(t, 0, repo.count())
}
