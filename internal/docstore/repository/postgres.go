package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/fekuna/omnipos-seller-cms/internal/docstore"
	"github.com/jmoiron/sqlx"
)

const schema = `
CREATE TABLE IF NOT EXISTS documents (
    root       TEXT PRIMARY KEY,
    body       JSONB NOT NULL,
    updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

type documentRow struct {
	Root      string    `db:"root"`
	Body      string    `db:"body"`
	UpdatedAt time.Time `db:"updated_at"`
}

// PGRepository stores one row per top-level document root.
type PGRepository struct {
	DB *sqlx.DB
}

var _ docstore.Persister = (*PGRepository)(nil)

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) EnsureSchema(ctx context.Context) error {
	_, err := r.DB.ExecContext(ctx, schema)
	return err
}

func (r *PGRepository) LoadRoot(ctx context.Context, root string) (any, error) {
	var row documentRow
	err := r.DB.GetContext(ctx, &row, `SELECT root, body::text AS body, updated_at FROM documents WHERE root = $1 LIMIT 1`, root)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	var value any
	if err := json.Unmarshal([]byte(row.Body), &value); err != nil {
		return nil, err
	}
	return value, nil
}

// UpdateRoot applies apply to the stored root inside one transaction. The row
// is locked first, so concurrent writers from other instances serialize on it
// and each sees the other's changes instead of its own stale copy.
func (r *PGRepository) UpdateRoot(ctx context.Context, root string, apply func(current any) any) (any, error) {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	// A placeholder row gives FOR UPDATE something to lock when the root is new.
	_, err = tx.ExecContext(ctx, `
        INSERT INTO documents (root, body, updated_at)
        VALUES ($1, 'null'::jsonb, now())
        ON CONFLICT (root) DO NOTHING
    `, root)
	if err != nil {
		return nil, fmt.Errorf("reserve root %s: %w", root, err)
	}

	var row documentRow
	err = tx.GetContext(ctx, &row, `SELECT root, body::text AS body, updated_at FROM documents WHERE root = $1 FOR UPDATE`, root)
	if err != nil {
		return nil, fmt.Errorf("lock root %s: %w", root, err)
	}
	var current any
	if err := json.Unmarshal([]byte(row.Body), &current); err != nil {
		return nil, fmt.Errorf("decode root %s: %w", root, err)
	}

	next := apply(current)
	if next == nil {
		if _, err := tx.ExecContext(ctx, "DELETE FROM documents WHERE root = $1", root); err != nil {
			return nil, fmt.Errorf("delete root %s: %w", root, err)
		}
		return nil, tx.Commit()
	}

	body, err := json.Marshal(next)
	if err != nil {
		return nil, err
	}
	row = documentRow{Root: root, Body: string(body), UpdatedAt: time.Now()}
	_, err = tx.NamedExecContext(ctx, `
        UPDATE documents
        SET body = CAST(:body AS jsonb),
            updated_at = :updated_at
        WHERE root = :root
    `, row)
	if err != nil {
		return nil, fmt.Errorf("update root %s: %w", root, err)
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return next, nil
}
