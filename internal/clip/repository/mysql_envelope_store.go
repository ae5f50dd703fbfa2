package repository

import (
	"context"
	"database/sql"
	"time"

	clipDomain "github.com/allisson/clip/internal/clip/domain"
	apperrors "github.com/allisson/clip/internal/errors"
)

// MySQLEnvelopeStore stores envelopes in the secret_envelopes table.
// The DSN must set parseTime=true so DATETIME columns scan into time.Time.
type MySQLEnvelopeStore struct {
	db  *sql.DB
	now func() time.Time
}

// Put inserts the envelope row.
func (m *MySQLEnvelopeStore) Put(ctx context.Context, stored *clipDomain.StoredEnvelope) error {
	query := `INSERT INTO secret_envelopes (id, ciphertext, iv, created_at, expires_at)
			  VALUES (?, ?, ?, ?, ?)`

	_, err := m.db.ExecContext(
		ctx,
		query,
		stored.ID.String(),
		stored.Ciphertext,
		stored.IV,
		stored.CreatedAt.UTC(),
		stored.ExpiresAt.UTC(),
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create envelope")
	}
	return nil
}

// Get selects the row only while it is unexpired.
func (m *MySQLEnvelopeStore) Get(
	ctx context.Context,
	id clipDomain.SecretID,
) (*clipDomain.StoredEnvelope, error) {
	query := `SELECT id, ciphertext, iv, created_at, expires_at
			  FROM secret_envelopes
			  WHERE id = ? AND expires_at > ?`

	var stored clipDomain.StoredEnvelope
	err := m.db.QueryRowContext(ctx, query, id.String(), m.now().UTC()).Scan(
		&stored.ID,
		&stored.Ciphertext,
		&stored.IV,
		&stored.CreatedAt,
		&stored.ExpiresAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, clipDomain.ErrSecretNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get envelope")
	}

	return &stored, nil
}

// Delete removes the row if present.
func (m *MySQLEnvelopeStore) Delete(ctx context.Context, id clipDomain.SecretID) error {
	query := `DELETE FROM secret_envelopes WHERE id = ?`

	if _, err := m.db.ExecContext(ctx, query, id.String()); err != nil {
		return apperrors.Wrap(err, "failed to delete envelope")
	}
	return nil
}

// PurgeExpired deletes rows whose expires_at is at or before now.
func (m *MySQLEnvelopeStore) PurgeExpired(ctx context.Context, now time.Time) (int64, error) {
	query := `DELETE FROM secret_envelopes WHERE expires_at <= ?`

	result, err := m.db.ExecContext(ctx, query, now.UTC())
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to purge expired envelopes")
	}

	count, err := result.RowsAffected()
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to get affected rows")
	}
	return count, nil
}

// Ping checks the connection.
func (m *MySQLEnvelopeStore) Ping(ctx context.Context) error {
	return m.db.PingContext(ctx)
}

// Durability reports the durable kind.
func (m *MySQLEnvelopeStore) Durability() clipDomain.Durability {
	return clipDomain.DurabilityDurable
}

// Driver returns "mysql".
func (m *MySQLEnvelopeStore) Driver() string {
	return "mysql"
}

// Close closes the connection pool.
func (m *MySQLEnvelopeStore) Close() error {
	return m.db.Close()
}

// NewMySQLEnvelopeStore creates a MySQLEnvelopeStore. A nil clock means time.Now.
func NewMySQLEnvelopeStore(db *sql.DB, clock func() time.Time) *MySQLEnvelopeStore {
	if clock == nil {
		clock = time.Now
	}
	return &MySQLEnvelopeStore{db: db, now: clock}
}
