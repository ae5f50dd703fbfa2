package usecase

import (
	"context"
	"time"

	clipDomain "github.com/allisson/clip/internal/clip/domain"
	"github.com/allisson/clip/internal/metrics"
)

const metricsDomain = "clip"

// envelopeUseCaseWithMetrics decorates EnvelopeUseCase with metrics instrumentation.
type envelopeUseCaseWithMetrics struct {
	next    EnvelopeUseCase
	metrics metrics.BusinessMetrics
}

// NewEnvelopeUseCaseWithMetrics wraps an EnvelopeUseCase with metrics recording.
func NewEnvelopeUseCaseWithMetrics(useCase EnvelopeUseCase, m metrics.BusinessMetrics) EnvelopeUseCase {
	return &envelopeUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// Create records metrics for envelope creation.
func (e *envelopeUseCaseWithMetrics) Create(
	ctx context.Context,
	envelope clipDomain.Envelope,
	ttl *int,
) (*clipDomain.CreateResult, error) {
	start := time.Now()
	result, err := e.next.Create(ctx, envelope, ttl)
	e.record(ctx, "secret_create", start, err)
	return result, err
}

// Fetch records metrics for envelope retrieval. A miss counts as an error.
func (e *envelopeUseCaseWithMetrics) Fetch(ctx context.Context, id string) (*clipDomain.Envelope, error) {
	start := time.Now()
	envelope, err := e.next.Fetch(ctx, id)
	e.record(ctx, "secret_fetch", start, err)
	return envelope, err
}

// Delete records metrics for envelope deletion.
func (e *envelopeUseCaseWithMetrics) Delete(ctx context.Context, id string) error {
	start := time.Now()
	err := e.next.Delete(ctx, id)
	e.record(ctx, "secret_delete", start, err)
	return err
}

// Health delegates without recording.
func (e *envelopeUseCaseWithMetrics) Health(ctx context.Context) *clipDomain.Health {
	return e.next.Health(ctx)
}

// Ready delegates without recording.
func (e *envelopeUseCaseWithMetrics) Ready(ctx context.Context) error {
	return e.next.Ready(ctx)
}

// PurgeExpired records metrics for expired envelope removal.
func (e *envelopeUseCaseWithMetrics) PurgeExpired(ctx context.Context) (int64, error) {
	start := time.Now()
	count, err := e.next.PurgeExpired(ctx)
	e.record(ctx, "secret_purge", start, err)
	return count, err
}

func (e *envelopeUseCaseWithMetrics) record(ctx context.Context, operation string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}

	e.metrics.RecordOperation(ctx, metricsDomain, operation, status)
	e.metrics.RecordDuration(ctx, metricsDomain, operation, time.Since(start), status)
}
