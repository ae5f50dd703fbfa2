package dto

import (
	"time"

	clipDomain "github.com/allisson/clip/internal/clip/domain"
)

// Fixed confirmation messages.
const (
	MessageStored  = "Secret stored successfully"
	MessageDeleted = "Secret deleted successfully"
)

// CreateEnvelopeResponse is returned by POST /api/create.
type CreateEnvelopeResponse struct {
	ID      string `json:"id"`
	TTL     int    `json:"ttl"`
	Message string `json:"message"`
}

// MapCreateResultToResponse converts a create result to its API response.
func MapCreateResultToResponse(result *clipDomain.CreateResult) CreateEnvelopeResponse {
	return CreateEnvelopeResponse{
		ID:      result.ID.String(),
		TTL:     result.TTL,
		Message: MessageStored,
	}
}

// EnvelopeResponse is returned by GET /api/secret/:id.
type EnvelopeResponse struct {
	Ciphertext string `json:"ciphertext"`
	IV         string `json:"iv"`
}

// MapEnvelopeToResponse converts an envelope to its API response.
func MapEnvelopeToResponse(envelope *clipDomain.Envelope) EnvelopeResponse {
	return EnvelopeResponse{Ciphertext: envelope.Ciphertext, IV: envelope.IV}
}

// MessageResponse carries a confirmation message.
type MessageResponse struct {
	Message string `json:"message"`
}

// HealthResponse is returned by GET /api/health. Backend is "durable" or
// "fallback" so operators can tell best-effort mode apart.
type HealthResponse struct {
	Status    string    `json:"status"`
	Backend   string    `json:"backend"`
	Driver    string    `json:"driver"`
	Timestamp time.Time `json:"timestamp"`
}

// MapHealthToResponse converts a health report to its API response.
func MapHealthToResponse(health *clipDomain.Health) HealthResponse {
	return HealthResponse{
		Status:    health.Status,
		Backend:   string(health.Backend),
		Driver:    health.Driver,
		Timestamp: health.Timestamp,
	}
}
