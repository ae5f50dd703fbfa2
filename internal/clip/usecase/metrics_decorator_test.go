package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	clipDomain "github.com/allisson/clip/internal/clip/domain"
	clipUsecaseMocks "github.com/allisson/clip/internal/clip/usecase/mocks"
	"github.com/allisson/clip/internal/metrics"
)

// mockBusinessMetrics is a mock implementation of metrics.BusinessMetrics for testing.
type mockBusinessMetrics struct {
	mock.Mock
}

func (m *mockBusinessMetrics) RecordOperation(ctx context.Context, domain, operation, status string) {
	m.Called(ctx, domain, operation, status)
}

func (m *mockBusinessMetrics) RecordDuration(
	ctx context.Context,
	domain, operation string,
	duration time.Duration,
	status string,
) {
	m.Called(ctx, domain, operation, duration, status)
}

var _ metrics.BusinessMetrics = (*mockBusinessMetrics)(nil)

func expectMetrics(m *mockBusinessMetrics, ctx context.Context, operation, status string) {
	m.On("RecordOperation", ctx, "clip", operation, status).Return().Once()
	m.On("RecordDuration", ctx, "clip", operation, mock.AnythingOfType("time.Duration"), status).
		Return().
		Once()
}

func TestMetricsDecorator_Create(t *testing.T) {
	ctx := context.Background()
	envelope := clipDomain.Envelope{Ciphertext: "AAA=", IV: "BBB="}

	t.Run("Success_RecordsSuccessMetrics", func(t *testing.T) {
		next := &clipUsecaseMocks.MockEnvelopeUseCase{}
		m := &mockBusinessMetrics{}
		decorator := NewEnvelopeUseCaseWithMetrics(next, m)

		expected := &clipDomain.CreateResult{ID: testID, TTL: 60}
		next.On("Create", ctx, envelope, (*int)(nil)).Return(expected, nil).Once()
		expectMetrics(m, ctx, "secret_create", "success")

		result, err := decorator.Create(ctx, envelope, nil)

		require.NoError(t, err)
		assert.Equal(t, expected, result)
		next.AssertExpectations(t)
		m.AssertExpectations(t)
	})

	t.Run("Error_RecordsErrorMetrics", func(t *testing.T) {
		next := &clipUsecaseMocks.MockEnvelopeUseCase{}
		m := &mockBusinessMetrics{}
		decorator := NewEnvelopeUseCaseWithMetrics(next, m)

		next.On("Create", ctx, envelope, (*int)(nil)).Return(nil, clipDomain.ErrStoreUnavailable).Once()
		expectMetrics(m, ctx, "secret_create", "error")

		result, err := decorator.Create(ctx, envelope, nil)

		assert.Nil(t, result)
		assert.ErrorIs(t, err, clipDomain.ErrStoreUnavailable)
		m.AssertExpectations(t)
	})
}

func TestMetricsDecorator_FetchDeletePurge(t *testing.T) {
	ctx := context.Background()

	next := &clipUsecaseMocks.MockEnvelopeUseCase{}
	m := &mockBusinessMetrics{}
	decorator := NewEnvelopeUseCaseWithMetrics(next, m)

	next.On("Fetch", ctx, testID.String()).Return(nil, clipDomain.ErrSecretNotFound).Once()
	next.On("Delete", ctx, testID.String()).Return(nil).Once()
	next.On("PurgeExpired", ctx).Return(int64(0), errors.New("boom")).Once()
	expectMetrics(m, ctx, "secret_fetch", "error")
	expectMetrics(m, ctx, "secret_delete", "success")
	expectMetrics(m, ctx, "secret_purge", "error")

	_, err := decorator.Fetch(ctx, testID.String())
	assert.ErrorIs(t, err, clipDomain.ErrSecretNotFound)
	assert.NoError(t, decorator.Delete(ctx, testID.String()))
	_, err = decorator.PurgeExpired(ctx)
	assert.Error(t, err)

	next.AssertExpectations(t)
	m.AssertExpectations(t)
}

func TestMetricsDecorator_HealthNotRecorded(t *testing.T) {
	ctx := context.Background()

	next := &clipUsecaseMocks.MockEnvelopeUseCase{}
	m := &mockBusinessMetrics{}
	decorator := NewEnvelopeUseCaseWithMetrics(next, m)

	health := &clipDomain.Health{Status: "ok", Backend: clipDomain.DurabilityFallback}
	next.On("Health", ctx).Return(health).Once()
	next.On("Ready", ctx).Return(nil).Once()

	assert.Equal(t, health, decorator.Health(ctx))
	assert.NoError(t, decorator.Ready(ctx))
	m.AssertNotCalled(t, "RecordOperation", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
