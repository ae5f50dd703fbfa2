package repository

import (
	"context"
	"database/sql"
	"time"

	clipDomain "github.com/allisson/clip/internal/clip/domain"
	apperrors "github.com/allisson/clip/internal/errors"
)

// PostgreSQLEnvelopeStore stores envelopes in the secret_envelopes table.
// Rows past expires_at are invisible to reads and removed by PurgeExpired.
type PostgreSQLEnvelopeStore struct {
	db  *sql.DB
	now func() time.Time
}

// Put inserts the envelope row.
func (p *PostgreSQLEnvelopeStore) Put(ctx context.Context, stored *clipDomain.StoredEnvelope) error {
	query := `INSERT INTO secret_envelopes (id, ciphertext, iv, created_at, expires_at)
			  VALUES ($1, $2, $3, $4, $5)`

	_, err := p.db.ExecContext(
		ctx,
		query,
		stored.ID.String(),
		stored.Ciphertext,
		stored.IV,
		stored.CreatedAt,
		stored.ExpiresAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create envelope")
	}
	return nil
}

// Get selects the row only while it is unexpired.
func (p *PostgreSQLEnvelopeStore) Get(
	ctx context.Context,
	id clipDomain.SecretID,
) (*clipDomain.StoredEnvelope, error) {
	query := `SELECT id, ciphertext, iv, created_at, expires_at
			  FROM secret_envelopes
			  WHERE id = $1 AND expires_at > $2`

	var stored clipDomain.StoredEnvelope
	err := p.db.QueryRowContext(ctx, query, id.String(), p.now().UTC()).Scan(
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
func (p *PostgreSQLEnvelopeStore) Delete(ctx context.Context, id clipDomain.SecretID) error {
	query := `DELETE FROM secret_envelopes WHERE id = $1`

	if _, err := p.db.ExecContext(ctx, query, id.String()); err != nil {
		return apperrors.Wrap(err, "failed to delete envelope")
	}
	return nil
}

// PurgeExpired deletes rows whose expires_at is at or before now.
func (p *PostgreSQLEnvelopeStore) PurgeExpired(ctx context.Context, now time.Time) (int64, error) {
	query := `DELETE FROM secret_envelopes WHERE expires_at <= $1`

	result, err := p.db.ExecContext(ctx, query, now.UTC())
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
func (p *PostgreSQLEnvelopeStore) Ping(ctx context.Context) error {
	return p.db.PingContext(ctx)
}

// Durability reports the durable kind.
func (p *PostgreSQLEnvelopeStore) Durability() clipDomain.Durability {
	return clipDomain.DurabilityDurable
}

// Driver returns "postgres".
func (p *PostgreSQLEnvelopeStore) Driver() string {
	return "postgres"
}

// Close closes the connection pool.
func (p *PostgreSQLEnvelopeStore) Close() error {
	return p.db.Close()
}

// NewPostgreSQLEnvelopeStore creates a PostgreSQLEnvelopeStore. A nil clock means time.Now.
func NewPostgreSQLEnvelopeStore(db *sql.DB, clock func() time.Time) *PostgreSQLEnvelopeStore {
	if clock == nil {
		clock = time.Now
	}
	return &PostgreSQLEnvelopeStore{db: db, now: clock}
}
