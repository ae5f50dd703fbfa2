package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	clipDomain "github.com/allisson/clip/internal/clip/domain"
	apperrors "github.com/allisson/clip/internal/errors"
)

// redisEnvelope is the JSON value stored under each key.
type redisEnvelope struct {
	Ciphertext string    `json:"ciphertext"`
	IV         string    `json:"iv"`
	CreatedAt  time.Time `json:"created_at"`
	ExpiresAt  time.Time `json:"expires_at"`
}

// RedisEnvelopeStore stores envelopes as JSON strings with a native key TTL.
type RedisEnvelopeStore struct {
	client redis.UniversalClient
	prefix string
}

// Put writes the envelope with SET EX. Sub-second lifetimes round up to one second.
func (r *RedisEnvelopeStore) Put(ctx context.Context, stored *clipDomain.StoredEnvelope) error {
	value, err := json.Marshal(redisEnvelope{
		Ciphertext: stored.Ciphertext,
		IV:         stored.IV,
		CreatedAt:  stored.CreatedAt,
		ExpiresAt:  stored.ExpiresAt,
	})
	if err != nil {
		return apperrors.Wrap(err, "failed to encode envelope")
	}

	ttl := stored.ExpiresAt.Sub(stored.CreatedAt)
	if ttl < time.Second {
		ttl = time.Second
	}

	if err := r.client.Set(ctx, r.key(stored.ID), value, ttl).Err(); err != nil {
		return apperrors.Wrap(err, "failed to store envelope")
	}
	return nil
}

// Get reads the envelope. Missing keys, including ones redis expired, map to ErrSecretNotFound.
func (r *RedisEnvelopeStore) Get(
	ctx context.Context,
	id clipDomain.SecretID,
) (*clipDomain.StoredEnvelope, error) {
	value, err := r.client.Get(ctx, r.key(id)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, clipDomain.ErrSecretNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get envelope")
	}

	var decoded redisEnvelope
	if err := json.Unmarshal(value, &decoded); err != nil {
		return nil, apperrors.Wrap(err, "failed to decode envelope")
	}

	return &clipDomain.StoredEnvelope{
		ID:        id,
		Envelope:  clipDomain.Envelope{Ciphertext: decoded.Ciphertext, IV: decoded.IV},
		CreatedAt: decoded.CreatedAt,
		ExpiresAt: decoded.ExpiresAt,
	}, nil
}

// Delete issues DEL. Missing keys are not an error.
func (r *RedisEnvelopeStore) Delete(ctx context.Context, id clipDomain.SecretID) error {
	if err := r.client.Del(ctx, r.key(id)).Err(); err != nil {
		return apperrors.Wrap(err, "failed to delete envelope")
	}
	return nil
}

// Ping issues PING.
func (r *RedisEnvelopeStore) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Durability reports the durable kind.
func (r *RedisEnvelopeStore) Durability() clipDomain.Durability {
	return clipDomain.DurabilityDurable
}

// Driver returns "redis".
func (r *RedisEnvelopeStore) Driver() string {
	return "redis"
}

// Close closes the client.
func (r *RedisEnvelopeStore) Close() error {
	return r.client.Close()
}

func (r *RedisEnvelopeStore) key(id clipDomain.SecretID) string {
	return r.prefix + id.String()
}

// NewRedisEnvelopeStore creates a RedisEnvelopeStore namespacing keys under prefix.
func NewRedisEnvelopeStore(client redis.UniversalClient, prefix string) *RedisEnvelopeStore {
	return &RedisEnvelopeStore{client: client, prefix: prefix}
}
