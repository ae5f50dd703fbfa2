// Package dto provides data transfer objects for the envelope HTTP API.
package dto

import (
	validation "github.com/jellydator/validation"

	clipDomain "github.com/allisson/clip/internal/clip/domain"
	customValidation "github.com/allisson/clip/internal/validation"
)

// CreateEnvelopeRequest is the body of POST /api/create. Both fields are
// base64 produced by the browser; the server never decodes them beyond
// checking the alphabet.
type CreateEnvelopeRequest struct {
	Ciphertext string `json:"ciphertext"`
	IV         string `json:"iv"`
	TTL        *int   `json:"ttl,omitempty"`
}

// Validate checks the encoding of the present fields. Missing fields are
// reported by the use case so that both surface the same message.
func (r *CreateEnvelopeRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Ciphertext, customValidation.Base64),
		validation.Field(&r.IV, customValidation.Base64),
	)
}

// ToEnvelope maps the request to the domain envelope.
func (r *CreateEnvelopeRequest) ToEnvelope() clipDomain.Envelope {
	return clipDomain.Envelope{Ciphertext: r.Ciphertext, IV: r.IV}
}
