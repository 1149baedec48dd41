package store

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"contacts/internal/session"
	"contacts/pkg/platform/sentinel"
)

// Schema creates the table PostgresStore reads and writes.
const Schema = `
CREATE TABLE IF NOT EXISTS session_entries (
	session_id text        NOT NULL,
	namespace  text        NOT NULL,
	name       text        NOT NULL,
	data       bytea       NOT NULL,
	version    bigint      NOT NULL,
	expires_at timestamptz,
	PRIMARY KEY (session_id, namespace, name)
);
CREATE INDEX IF NOT EXISTS session_entries_expires_at_idx ON session_entries (expires_at);
`

const live = `(expires_at IS NULL OR expires_at > $4)`

// PostgresStore keeps session entries in PostgreSQL. Expired rows are
// invisible to reads and are purged opportunistically on create.
type PostgresStore struct {
	pool    *pgxpool.Pool
	now     func() time.Time
	creates atomic.Int64
}

// NewPostgres constructs a PostgreSQL-backed session store.
func NewPostgres(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool, now: time.Now}
}

// EnsureSchema creates the session table if it does not exist.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("create session schema: %w", err)
	}
	return nil
}

func (s *PostgresStore) Get(ctx context.Context, key session.Key) (session.Record, error) {
	var rec session.Record
	err := s.pool.QueryRow(ctx,
		`SELECT data, version FROM session_entries
		 WHERE session_id = $1 AND namespace = $2 AND name = $3 AND `+live,
		key.SessionID, key.Namespace, key.Name, s.now(),
	).Scan(&rec.Data, &rec.Version)
	if errors.Is(err, pgx.ErrNoRows) {
		return session.Record{}, fmt.Errorf("get %s: %w", key, sentinel.ErrNotFound)
	}
	if err != nil {
		return session.Record{}, fmt.Errorf("get %s: %w: %w", key, sentinel.ErrUnavailable, err)
	}
	return rec, nil
}

// Create inserts the entry, taking over a row only if it has expired.
func (s *PostgresStore) Create(ctx context.Context, key session.Key, data []byte, ttl time.Duration) (session.Record, error) {
	now := s.now()
	tag, err := s.pool.Exec(ctx,
		`INSERT INTO session_entries (session_id, namespace, name, data, version, expires_at)
		 VALUES ($1, $2, $3, $5, 1, $6)
		 ON CONFLICT (session_id, namespace, name) DO UPDATE
		 SET data = EXCLUDED.data, version = 1, expires_at = EXCLUDED.expires_at
		 WHERE session_entries.expires_at IS NOT NULL AND session_entries.expires_at <= $4`,
		key.SessionID, key.Namespace, key.Name, now, data, expiresAt(now, ttl),
	)
	if err != nil {
		return session.Record{}, fmt.Errorf("create %s: %w: %w", key, sentinel.ErrUnavailable, err)
	}
	if tag.RowsAffected() == 0 {
		return session.Record{}, fmt.Errorf("create %s: %w", key, sentinel.ErrConflict)
	}

	if s.creates.Add(1)%sweepEvery == 0 {
		// best effort; a failed purge only delays reclaiming space
		_, _ = s.PurgeExpired(ctx)
	}
	return session.Record{Data: data, Version: 1}, nil
}

func (s *PostgresStore) Replace(ctx context.Context, key session.Key, data []byte, ttl time.Duration) (session.Record, error) {
	now := s.now()
	var version int64
	err := s.pool.QueryRow(ctx,
		`INSERT INTO session_entries (session_id, namespace, name, data, version, expires_at)
		 VALUES ($1, $2, $3, $5, 1, $6)
		 ON CONFLICT (session_id, namespace, name) DO UPDATE
		 SET data = EXCLUDED.data,
		     expires_at = EXCLUDED.expires_at,
		     version = CASE
		         WHEN session_entries.expires_at IS NOT NULL AND session_entries.expires_at <= $4 THEN 1
		         ELSE session_entries.version + 1
		     END
		 RETURNING version`,
		key.SessionID, key.Namespace, key.Name, now, data, expiresAt(now, ttl),
	).Scan(&version)
	if err != nil {
		return session.Record{}, fmt.Errorf("replace %s: %w: %w", key, sentinel.ErrUnavailable, err)
	}
	return session.Record{Data: data, Version: version}, nil
}

func (s *PostgresStore) Update(ctx context.Context, key session.Key, expected int64, data []byte, ttl time.Duration) (session.Record, error) {
	now := s.now()
	var version int64
	err := s.pool.QueryRow(ctx,
		`UPDATE session_entries
		 SET data = $6, version = version + 1, expires_at = $7
		 WHERE session_id = $1 AND namespace = $2 AND name = $3 AND `+live+` AND version = $5
		 RETURNING version`,
		key.SessionID, key.Namespace, key.Name, now, expected, data, expiresAt(now, ttl),
	).Scan(&version)
	if errors.Is(err, pgx.ErrNoRows) {
		if _, getErr := s.Get(ctx, key); getErr != nil {
			return session.Record{}, fmt.Errorf("update %s: %w", key, getErr)
		}
		return session.Record{}, fmt.Errorf("update %s: version %d is stale: %w", key, expected, sentinel.ErrConflict)
	}
	if err != nil {
		return session.Record{}, fmt.Errorf("update %s: %w: %w", key, sentinel.ErrUnavailable, err)
	}
	return session.Record{Data: data, Version: version}, nil
}

func (s *PostgresStore) Take(ctx context.Context, key session.Key) (session.Record, error) {
	var rec session.Record
	err := s.pool.QueryRow(ctx,
		`DELETE FROM session_entries
		 WHERE session_id = $1 AND namespace = $2 AND name = $3 AND `+live+`
		 RETURNING data, version`,
		key.SessionID, key.Namespace, key.Name, s.now(),
	).Scan(&rec.Data, &rec.Version)
	if errors.Is(err, pgx.ErrNoRows) {
		return session.Record{}, fmt.Errorf("take %s: %w", key, sentinel.ErrNotFound)
	}
	if err != nil {
		return session.Record{}, fmt.Errorf("take %s: %w: %w", key, sentinel.ErrUnavailable, err)
	}
	return rec, nil
}

func (s *PostgresStore) Delete(ctx context.Context, key session.Key) error {
	_, err := s.pool.Exec(ctx,
		`DELETE FROM session_entries WHERE session_id = $1 AND namespace = $2 AND name = $3`,
		key.SessionID, key.Namespace, key.Name,
	)
	if err != nil {
		return fmt.Errorf("delete %s: %w: %w", key, sentinel.ErrUnavailable, err)
	}
	return nil
}

// PurgeExpired removes rows whose expiry has passed.
func (s *PostgresStore) PurgeExpired(ctx context.Context) (int64, error) {
	tag, err := s.pool.Exec(ctx,
		`DELETE FROM session_entries WHERE expires_at IS NOT NULL AND expires_at <= $1`, s.now())
	if err != nil {
		return 0, fmt.Errorf("purge expired session entries: %w", err)
	}
	return tag.RowsAffected(), nil
}

func expiresAt(now time.Time, ttl time.Duration) *time.Time {
	if ttl <= 0 {
		return nil
	}
	t := now.Add(ttl)
	return &t
}
