package store

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"warden/pkg/channels"
	"warden/pkg/doctree"
)

// Postgres keeps the whole document in one jsonb row. The single-statement
// upsert makes every Write atomic; the id=1 check constraint keeps it one row.
type Postgres struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

// EnsureSchema creates the document table. Safe to call repeatedly.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, `
CREATE TABLE IF NOT EXISTS gateway_config (
  id int PRIMARY KEY CHECK (id = 1),
  doc jsonb NOT NULL DEFAULT '{}'::jsonb,
  updated_at timestamptz NOT NULL DEFAULT NOW()
);
`)
	return err
}

func (p *Postgres) Read(ctx context.Context) (map[string]any, error) {
	var raw []byte
	err := p.pool.QueryRow(ctx, `SELECT doc FROM gateway_config WHERE id = 1`).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return map[string]any{}, nil
	}
	if err != nil {
		return nil, &channels.Error{Code: channels.EConfigRead, Msg: "select gateway_config", Err: err}
	}
	doc := map[string]any{}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, &channels.Error{Code: channels.EConfigRead, Msg: "decode gateway_config", Err: err}
	}
	return doc, nil
}

func (p *Postgres) Write(ctx context.Context, doc map[string]any) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return &channels.Error{Code: channels.EConfigWrite, Msg: "encode gateway_config", Err: err}
	}
	_, err = p.pool.Exec(ctx, `
INSERT INTO gateway_config (id, doc, updated_at) VALUES (1, $1, NOW())
ON CONFLICT (id) DO UPDATE SET doc = EXCLUDED.doc, updated_at = NOW()
`, raw)
	if err != nil {
		return &channels.Error{Code: channels.EConfigWrite, Msg: "upsert gateway_config", Err: err}
	}
	return nil
}

// Patch merges inside one transaction with the row locked, so the
// read-merge-write cannot interleave with another patch.
func (p *Postgres) Patch(ctx context.Context, patch map[string]any) error {
	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return &channels.Error{Code: channels.EConfigWrite, Msg: "begin patch", Err: err}
	}
	defer tx.Rollback(ctx)

	doc := map[string]any{}
	var raw []byte
	err = tx.QueryRow(ctx, `SELECT doc FROM gateway_config WHERE id = 1 FOR UPDATE`).Scan(&raw)
	switch {
	case errors.Is(err, pgx.ErrNoRows):
	case err != nil:
		return &channels.Error{Code: channels.EConfigRead, Msg: "select gateway_config", Err: err}
	default:
		if err := json.Unmarshal(raw, &doc); err != nil {
			return &channels.Error{Code: channels.EConfigRead, Msg: "decode gateway_config", Err: err}
		}
	}

	out, err := json.Marshal(doctree.Merge(doc, patch))
	if err != nil {
		return &channels.Error{Code: channels.EConfigWrite, Msg: "encode gateway_config", Err: err}
	}
	if _, err := tx.Exec(ctx, `
INSERT INTO gateway_config (id, doc, updated_at) VALUES (1, $1, NOW())
ON CONFLICT (id) DO UPDATE SET doc = EXCLUDED.doc, updated_at = NOW()
`, out); err != nil {
		return &channels.Error{Code: channels.EConfigWrite, Msg: "upsert gateway_config", Err: err}
	}
	if err := tx.Commit(ctx); err != nil {
		return &channels.Error{Code: channels.EConfigWrite, Msg: "commit patch", Err: err}
	}
	return nil
}
