// Package share composes the encryption endpoint and the envelope API client
// into the sender and receiver flows behind the send, receive and burn commands.
package share

import (
	"context"

	clipDomain "github.com/allisson/clip/internal/clip/domain"
	cryptoDomain "github.com/allisson/clip/internal/crypto/domain"
	cryptoService "github.com/allisson/clip/internal/crypto/service"
	apperrors "github.com/allisson/clip/internal/errors"
)

// EnvelopeClient is the subset of the envelope API used to share secrets.
type EnvelopeClient interface {
	Create(ctx context.Context, envelope clipDomain.Envelope, ttl *int) (*clipDomain.CreateResult, error)
	Fetch(ctx context.Context, id clipDomain.SecretID) (*clipDomain.Envelope, error)
	Delete(ctx context.Context, id clipDomain.SecretID) error
}

// Result is returned by Send.
type Result struct {
	Link string
	ID   clipDomain.SecretID
	TTL  int
}

// ClientFactory returns the client for the server at baseURL.
type ClientFactory func(baseURL string) EnvelopeClient

// Service runs the share flows. Send targets the configured server; Receive
// and Burn target the server named in the link.
type Service struct {
	encryptor cryptoService.EncryptionEndpoint
	clientFor ClientFactory
	baseURL   string
}

// NewService creates a Service. baseURL is the server Send stores envelopes on
// and the address rendered into links.
func NewService(
	encryptor cryptoService.EncryptionEndpoint,
	clientFor ClientFactory,
	baseURL string,
) *Service {
	return &Service{encryptor: encryptor, clientFor: clientFor, baseURL: baseURL}
}

// Send encrypts plaintext under a fresh key, stores the envelope and returns the
// share link. The key only appears in the link fragment.
func (s *Service) Send(ctx context.Context, plaintext string, ttl *int) (*Result, error) {
	if !s.encryptor.IsSupported() {
		return nil, cryptoDomain.ErrUnsupportedEnvironment
	}

	key, err := s.encryptor.GenerateKey()
	if err != nil {
		return nil, err
	}
	defer key.Destroy()

	payload, err := s.encryptor.Encrypt(plaintext, key)
	if err != nil {
		return nil, err
	}

	created, err := s.clientFor(s.baseURL).Create(ctx, clipDomain.Envelope{
		Ciphertext: payload.Ciphertext,
		IV:         payload.IV,
	}, ttl)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to store secret")
	}

	exported, err := s.encryptor.ExportKey(key)
	if err != nil {
		return nil, err
	}

	link := clipDomain.Link{BaseURL: s.baseURL, ID: created.ID, Key: exported}
	return &Result{Link: link.String(), ID: created.ID, TTL: created.TTL}, nil
}

// Receive fetches the envelope named by rawLink and decrypts it with the key in
// the link fragment.
func (s *Service) Receive(ctx context.Context, rawLink string) (string, error) {
	if !s.encryptor.IsSupported() {
		return "", cryptoDomain.ErrUnsupportedEnvironment
	}

	link, err := clipDomain.ParseLink(rawLink)
	if err != nil {
		return "", err
	}

	key, err := s.encryptor.ImportKey(link.Key)
	if err != nil {
		return "", err
	}
	defer key.Destroy()

	envelope, err := s.clientFor(link.BaseURL).Fetch(ctx, link.ID)
	if err != nil {
		return "", err
	}

	return s.encryptor.Decrypt(envelope.Ciphertext, envelope.IV, key)
}

// Burn deletes the envelope named by rawLink. The key part is not needed.
func (s *Service) Burn(ctx context.Context, rawLink string) error {
	link, err := clipDomain.ParseLink(rawLink)
	if err != nil {
		return err
	}
	return s.clientFor(link.BaseURL).Delete(ctx, link.ID)
}
