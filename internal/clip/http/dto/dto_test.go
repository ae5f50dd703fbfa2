package dto

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	clipDomain "github.com/allisson/clip/internal/clip/domain"
)

func TestCreateEnvelopeRequest_Validate(t *testing.T) {
	tests := []struct {
		name      string
		request   CreateEnvelopeRequest
		shouldErr bool
		errMsg    string
	}{
		{
			name:    "valid",
			request: CreateEnvelopeRequest{Ciphertext: "AAA=", IV: "BBB="},
		},
		{
			name:    "missing fields are left to the use case",
			request: CreateEnvelopeRequest{},
		},
		{
			name:      "invalid ciphertext encoding",
			request:   CreateEnvelopeRequest{Ciphertext: "***", IV: "BBB="},
			shouldErr: true,
			errMsg:    "ciphertext: must be valid base64-encoded data",
		},
		{
			name:      "invalid iv encoding",
			request:   CreateEnvelopeRequest{Ciphertext: "AAA=", IV: "B"},
			shouldErr: true,
			errMsg:    "iv: must be valid base64-encoded data",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.request.Validate()
			if tt.shouldErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestCreateEnvelopeRequest_JSON(t *testing.T) {
	var withTTL CreateEnvelopeRequest
	require.NoError(t, json.Unmarshal([]byte(`{"ciphertext":"AAA=","iv":"BBB=","ttl":60}`), &withTTL))
	require.NotNil(t, withTTL.TTL)
	assert.Equal(t, 60, *withTTL.TTL)
	assert.Equal(t, clipDomain.Envelope{Ciphertext: "AAA=", IV: "BBB="}, withTTL.ToEnvelope())

	var withoutTTL CreateEnvelopeRequest
	require.NoError(t, json.Unmarshal([]byte(`{"ciphertext":"AAA=","iv":"BBB="}`), &withoutTTL))
	assert.Nil(t, withoutTTL.TTL)
}

func TestMapResponses(t *testing.T) {
	id := clipDomain.SecretID("0123456789abcdef0123456789abcdef")

	created := MapCreateResultToResponse(&clipDomain.CreateResult{ID: id, TTL: 60})
	assert.Equal(t, CreateEnvelopeResponse{ID: id.String(), TTL: 60, Message: MessageStored}, created)

	envelope := MapEnvelopeToResponse(&clipDomain.Envelope{Ciphertext: "AAA=", IV: "BBB="})
	assert.Equal(t, EnvelopeResponse{Ciphertext: "AAA=", IV: "BBB="}, envelope)

	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	health := MapHealthToResponse(&clipDomain.Health{
		Status:    "ok",
		Backend:   clipDomain.DurabilityFallback,
		Driver:    "memory",
		Timestamp: now,
	})
	body, err := json.Marshal(health)
	require.NoError(t, err)
	assert.JSONEq(
		t,
		`{"status":"ok","backend":"fallback","driver":"memory","timestamp":"2026-01-01T00:00:00Z"}`,
		string(body),
	)
}
