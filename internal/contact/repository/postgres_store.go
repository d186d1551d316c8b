package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/nexora-labs/website-backend/internal/contact/domain"
)

// Schema creates the JSONB document table the Postgres store writes to.
const Schema = `
CREATE TABLE IF NOT EXISTS documents (
    id          UUID PRIMARY KEY,
    collection  TEXT NOT NULL,
    body        JSONB NOT NULL,
    created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS documents_collection_created_idx ON documents (collection, created_at);
`

// PostgresStore keeps documents in a single JSONB table keyed by collection.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

var (
	_ domain.SubmissionStore   = (*PostgresStore)(nil)
	_ domain.SubmissionCounter = (*PostgresStore)(nil)
)

// EnsureSchema applies Schema. Safe to run on every start.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, Schema); err != nil {
		return fmt.Errorf("ensure schema: %w", wrapPQ(err))
	}
	return nil
}

func (s *PostgresStore) InsertOne(ctx context.Context, collection string, doc *domain.ContactSubmission) (string, error) {
	body, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("failed to marshal document: %w", err)
	}

	const q = `
INSERT INTO documents (id, collection, body)
VALUES ($1, $2, $3)
RETURNING id;
`
	var id string
	if err := s.db.QueryRowContext(ctx, q, uuid.New().String(), collection, body).Scan(&id); err != nil {
		return "", fmt.Errorf("insert into %s: %w", collection, wrapPQ(err))
	}
	return id, nil
}

func (s *PostgresStore) CountSince(ctx context.Context, collection string, since time.Time) (int, error) {
	const q = `
SELECT count(*) FROM documents
WHERE collection = $1 AND (body->>'submittedAt')::timestamptz >= $2;
`
	var n int
	if err := s.db.QueryRowContext(ctx, q, collection, since).Scan(&n); err != nil {
		return 0, fmt.Errorf("count %s since: %w", collection, wrapPQ(err))
	}
	return n, nil
}

func (s *PostgresStore) CountUnread(ctx context.Context, collection string) (int, error) {
	const q = `
SELECT count(*) FROM documents
WHERE collection = $1 AND (body->>'read')::boolean = false;
`
	var n int
	if err := s.db.QueryRowContext(ctx, q, collection).Scan(&n); err != nil {
		return 0, fmt.Errorf("count unread %s: %w", collection, wrapPQ(err))
	}
	return n, nil
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// wrapPQ adds the SQLSTATE code to postgres errors so logs show it.
func wrapPQ(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return fmt.Errorf("pq %s (%s): %w", pqErr.Code, pqErr.Code.Name(), err)
	}
	return err
}
