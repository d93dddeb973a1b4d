package deadletter

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/owlprotocol/denote-workspace-sub000/custodian"
)

// undefined_table
const pqUndefinedTable = "42P01"

const schema = `
CREATE TABLE IF NOT EXISTS custodian_dead_letters (
	id          UUID PRIMARY KEY,
	contract_id TEXT NOT NULL UNIQUE,
	template_id TEXT NOT NULL,
	kind        TEXT NOT NULL,
	reason      TEXT NOT NULL,
	attempts    INTEGER NOT NULL,
	last_error  TEXT,
	payload     JSONB,
	created_at  TIMESTAMPTZ NOT NULL
)`

const insertDeadLetter = `
INSERT INTO custodian_dead_letters (
	id, contract_id, template_id, kind, reason, attempts, last_error, payload, created_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
ON CONFLICT (contract_id) DO UPDATE SET
	reason = EXCLUDED.reason,
	attempts = EXCLUDED.attempts,
	last_error = EXCLUDED.last_error,
	created_at = EXCLUDED.created_at`

const selectDeadLetters = `
SELECT contract_id, template_id, kind, reason, attempts, last_error, payload, created_at
FROM custodian_dead_letters
ORDER BY created_at DESC
LIMIT $1`

var _ custodian.DeadLetterSink = (*PostgresSink)(nil)

// PostgresSink stores dead letters in the custodian_dead_letters table.
type PostgresSink struct {
	db *sql.DB
}

// NewPostgresSink wraps an open database handle.
func NewPostgresSink(db *sql.DB) *PostgresSink {
	return &PostgresSink{db: db}
}

// OpenPostgresSink connects to dsn and creates the table when missing.
func OpenPostgresSink(ctx context.Context, dsn string) (*PostgresSink, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(5 * time.Minute)

	s := NewPostgresSink(db)
	if err := s.EnsureSchema(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// Ping checks the database connection.
func (s *PostgresSink) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// EnsureSchema creates the dead letter table.
func (s *PostgresSink) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to create dead letter table: %w", err)
	}
	return nil
}

// Write upserts dl keyed by contract id.
func (s *PostgresSink) Write(ctx context.Context, dl custodian.DeadLetter) error {
	if dl.At.IsZero() {
		dl.At = time.Now().UTC()
	}
	var payload any
	if len(dl.Payload) > 0 {
		payload = []byte(dl.Payload)
	}

	_, err := s.db.ExecContext(ctx, insertDeadLetter,
		uuid.New().String(),
		dl.ContractID.String(),
		dl.TemplateID.String(),
		dl.Kind,
		dl.Reason,
		dl.Attempts,
		nullString(dl.LastError),
		payload,
		dl.At,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == pqUndefinedTable {
			return fmt.Errorf("dead letter table missing, run EnsureSchema: %w", err)
		}
		return fmt.Errorf("failed to insert dead letter: %w", err)
	}
	return nil
}

// Recent returns up to limit dead letters, newest first.
func (s *PostgresSink) Recent(ctx context.Context, limit int) ([]custodian.DeadLetter, error) {
	rows, err := s.db.QueryContext(ctx, selectDeadLetters, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query dead letters: %w", err)
	}
	defer rows.Close()

	var out []custodian.DeadLetter
	for rows.Next() {
		var (
			dl        custodian.DeadLetter
			lastError sql.NullString
			payload   []byte
		)
		if err := rows.Scan(&dl.ContractID, &dl.TemplateID, &dl.Kind, &dl.Reason, &dl.Attempts, &lastError, &payload, &dl.At); err != nil {
			return nil, fmt.Errorf("failed to scan dead letter: %w", err)
		}
		dl.LastError = lastError.String
		dl.Payload = payload
		out = append(out, dl)
	}
	return out, rows.Err()
}

// Close closes the database handle.
func (s *PostgresSink) Close() error {
	return s.db.Close()
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
