// Package repository implements envelope storage. Redis, PostgreSQL and MySQL
// stores are durable and enforce expiry in the engine; the memory store is the
// process-local fallback used when no durable backend is reachable.
package repository

import (
	"container/heap"
	"context"
	"sync"
	"time"

	clipDomain "github.com/allisson/clip/internal/clip/domain"
)

// MemoryConfig configures a MemoryEnvelopeStore.
type MemoryConfig struct {
	// SweepInterval is how often expired entries are reclaimed. Zero disables
	// the background sweeper; reads still never return expired entries.
	SweepInterval time.Duration
	// Clock returns the current time. Defaults to time.Now.
	Clock func() time.Time
}

// MemoryEnvelopeStore keeps envelopes in a map guarded by a RWMutex. A single
// sweeper goroutine reclaims expired entries in expiry order.
type MemoryEnvelopeStore struct {
	mu      sync.RWMutex
	entries map[clipDomain.SecretID]*clipDomain.StoredEnvelope
	queue   expiryQueue
	now     func() time.Time

	stop      chan struct{}
	done      chan struct{}
	closeOnce sync.Once
}

// Put stores a copy of the envelope.
func (m *MemoryEnvelopeStore) Put(ctx context.Context, stored *clipDomain.StoredEnvelope) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	entry := *stored

	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries[entry.ID] = &entry
	heap.Push(&m.queue, expiryItem{id: entry.ID, expiresAt: entry.ExpiresAt})
	return nil
}

// Get returns a copy of the envelope if present and not yet expired.
func (m *MemoryEnvelopeStore) Get(
	ctx context.Context,
	id clipDomain.SecretID,
) (*clipDomain.StoredEnvelope, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	entry, ok := m.entries[id]
	m.mu.RUnlock()

	if !ok || entry.Expired(m.now()) {
		return nil, clipDomain.ErrSecretNotFound
	}

	stored := *entry
	return &stored, nil
}

// Delete removes the envelope. The stale heap item is dropped by the next sweep.
func (m *MemoryEnvelopeStore) Delete(ctx context.Context, id clipDomain.SecretID) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	delete(m.entries, id)
	m.mu.Unlock()
	return nil
}

// Sweep removes every expired entry and returns how many were removed.
func (m *MemoryEnvelopeStore) Sweep() int {
	now := m.now()

	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for m.queue.Len() > 0 {
		next := m.queue[0]
		if now.Before(next.expiresAt) {
			break
		}
		heap.Pop(&m.queue)

		entry, ok := m.entries[next.id]
		if ok && entry.Expired(now) {
			delete(m.entries, next.id)
			removed++
		}
	}
	return removed
}

// Len returns the number of entries held, expired or not.
func (m *MemoryEnvelopeStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

// Ping always succeeds.
func (m *MemoryEnvelopeStore) Ping(ctx context.Context) error {
	return ctx.Err()
}

// Durability reports the fallback kind.
func (m *MemoryEnvelopeStore) Durability() clipDomain.Durability {
	return clipDomain.DurabilityFallback
}

// Driver returns "memory".
func (m *MemoryEnvelopeStore) Driver() string {
	return "memory"
}

// Close stops the sweeper and waits for it to exit. It is safe to call twice.
func (m *MemoryEnvelopeStore) Close() error {
	m.closeOnce.Do(func() {
		if m.stop == nil {
			return
		}
		close(m.stop)
		<-m.done
	})
	return nil
}

func (m *MemoryEnvelopeStore) sweepLoop(interval time.Duration) {
	defer close(m.done)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-m.stop:
			return
		case <-ticker.C:
			m.Sweep()
		}
	}
}

// NewMemoryEnvelopeStore creates a MemoryEnvelopeStore and starts its sweeper.
// Callers must Close it to stop the goroutine.
func NewMemoryEnvelopeStore(cfg MemoryConfig) *MemoryEnvelopeStore {
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}

	m := &MemoryEnvelopeStore{
		entries: make(map[clipDomain.SecretID]*clipDomain.StoredEnvelope),
		now:     cfg.Clock,
	}

	if cfg.SweepInterval > 0 {
		m.stop = make(chan struct{})
		m.done = make(chan struct{})
		go m.sweepLoop(cfg.SweepInterval)
	}

	return m
}

type expiryItem struct {
	id        clipDomain.SecretID
	expiresAt time.Time
}

// expiryQueue is a min-heap ordered by expiresAt.
type expiryQueue []expiryItem

func (q expiryQueue) Len() int           { return len(q) }
func (q expiryQueue) Less(i, j int) bool { return q[i].expiresAt.Before(q[j].expiresAt) }
func (q expiryQueue) Swap(i, j int)      { q[i], q[j] = q[j], q[i] }

func (q *expiryQueue) Push(x any) {
	*q = append(*q, x.(expiryItem))
}

func (q *expiryQueue) Pop() any {
	old := *q
	n := len(old)
	item := old[n-1]
	*q = old[:n-1]
	return item
}
