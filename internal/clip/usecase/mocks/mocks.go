// Package mocks provides mock implementations of the clip use case interfaces for testing.
package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	clipDomain "github.com/allisson/clip/internal/clip/domain"
)

// MockEnvelopeStore is a mock implementation of EnvelopeStore for testing.
type MockEnvelopeStore struct {
	mock.Mock
}

// Put mocks the Put method of EnvelopeStore.
func (m *MockEnvelopeStore) Put(ctx context.Context, stored *clipDomain.StoredEnvelope) error {
	args := m.Called(ctx, stored)
	return args.Error(0)
}

// Get mocks the Get method of EnvelopeStore.
func (m *MockEnvelopeStore) Get(
	ctx context.Context,
	id clipDomain.SecretID,
) (*clipDomain.StoredEnvelope, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*clipDomain.StoredEnvelope), args.Error(1)
}

// Delete mocks the Delete method of EnvelopeStore.
func (m *MockEnvelopeStore) Delete(ctx context.Context, id clipDomain.SecretID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// Ping mocks the Ping method of EnvelopeStore.
func (m *MockEnvelopeStore) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// Durability mocks the Durability method of EnvelopeStore.
func (m *MockEnvelopeStore) Durability() clipDomain.Durability {
	args := m.Called()
	return args.Get(0).(clipDomain.Durability)
}

// Driver mocks the Driver method of EnvelopeStore.
func (m *MockEnvelopeStore) Driver() string {
	args := m.Called()
	return args.String(0)
}

// Close mocks the Close method of EnvelopeStore.
func (m *MockEnvelopeStore) Close() error {
	args := m.Called()
	return args.Error(0)
}

// MockPurgingEnvelopeStore is a MockEnvelopeStore that also implements ExpiredPurger.
type MockPurgingEnvelopeStore struct {
	MockEnvelopeStore
}

// PurgeExpired mocks the PurgeExpired method of ExpiredPurger.
func (m *MockPurgingEnvelopeStore) PurgeExpired(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}

// MockEnvelopeUseCase is a mock implementation of EnvelopeUseCase for testing.
type MockEnvelopeUseCase struct {
	mock.Mock
}

// Create mocks the Create method of EnvelopeUseCase.
func (m *MockEnvelopeUseCase) Create(
	ctx context.Context,
	envelope clipDomain.Envelope,
	ttl *int,
) (*clipDomain.CreateResult, error) {
	args := m.Called(ctx, envelope, ttl)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*clipDomain.CreateResult), args.Error(1)
}

// Fetch mocks the Fetch method of EnvelopeUseCase.
func (m *MockEnvelopeUseCase) Fetch(ctx context.Context, id string) (*clipDomain.Envelope, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*clipDomain.Envelope), args.Error(1)
}

// Delete mocks the Delete method of EnvelopeUseCase.
func (m *MockEnvelopeUseCase) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// Health mocks the Health method of EnvelopeUseCase.
func (m *MockEnvelopeUseCase) Health(ctx context.Context) *clipDomain.Health {
	args := m.Called(ctx)
	return args.Get(0).(*clipDomain.Health)
}

// Ready mocks the Ready method of EnvelopeUseCase.
func (m *MockEnvelopeUseCase) Ready(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// PurgeExpired mocks the PurgeExpired method of EnvelopeUseCase.
func (m *MockEnvelopeUseCase) PurgeExpired(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}
