package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"imgpdf/internal/tokens"
)

const (
	createTokensTable = `CREATE TABLE IF NOT EXISTS api_tokens (
		token TEXT PRIMARY KEY,
		rate_limit INTEGER NOT NULL DEFAULT 60,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		comment TEXT
	);`
	createTokensIndex = `CREATE INDEX IF NOT EXISTS idx_api_tokens_created_at ON api_tokens (created_at);`
	selectTokens      = `SELECT token, rate_limit, COALESCE(comment, '') FROM api_tokens;`
)

// TokenRepository reads API tokens from Postgres.
type TokenRepository struct {
	DB  *DB
	DSN string
}

// NewTokenRepository returns a repository reading tokens through db at dsn.
func NewTokenRepository(db *DB, dsn string) *TokenRepository {
	return &TokenRepository{DB: db, DSN: dsn}
}

// LoadTokens ensures the schema exists and returns every token keyed by value.
func (r *TokenRepository) LoadTokens(ctx context.Context) (map[string]tokens.Entry, error) {
	db, err := r.DB.Get(r.DSN)
	if err != nil {
		return nil, err
	}
	if err := ensureSchema(ctx, db); err != nil {
		return nil, fmt.Errorf("ensure token schema: %w", err)
	}

	rows, err := db.QueryContext(ctx, selectTokens)
	if err != nil {
		return nil, fmt.Errorf("query tokens: %w", err)
	}
	defer rows.Close()

	out := make(map[string]tokens.Entry)
	for rows.Next() {
		var (
			token   string
			limit   int
			comment string
		)
		if err := rows.Scan(&token, &limit, &comment); err != nil {
			return nil, fmt.Errorf("scan token: %w", err)
		}
		out[token] = tokens.Entry{RateLimit: limit, Comment: comment}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func ensureSchema(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, createTokensTable); err != nil {
		return err
	}
	_, err := db.ExecContext(ctx, createTokensIndex)
	return err
}
