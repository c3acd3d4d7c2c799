package storage

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"time"
)

type KVRepo struct {
	db *sql.DB
}

func NewKVRepo(db *sql.DB) *KVRepo {
	return &KVRepo{db: db}
}

var (
	_ KV          = (*KVRepo)(nil)
	_ EntryReader = (*KVRepo)(nil)
)

func (r *KVRepo) Get(ctx context.Context, key string) (string, bool, error) {
	row := r.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key)
	var v string
	if err := row.Scan(&v); err != nil {
		if err == sql.ErrNoRows {
			return "", false, nil
		}
		return "", false, fmt.Errorf("kv get %q: %w", key, err)
	}
	return v, true, nil
}

// Entry returns the row stored under key, or nil when there is none.
func (r *KVRepo) Entry(ctx context.Context, key string) (*Entry, error) {
	row := r.db.QueryRowContext(ctx, `SELECT key, value, updated_at FROM kv WHERE key = ?`, key)
	var e Entry
	if err := row.Scan(&e.Key, &e.Value, &e.UpdatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("kv entry %q: %w", key, err)
	}
	return &e, nil
}

func (r *KVRepo) Set(ctx context.Context, key string, value string) error {
	return upsert(ctx, r.db, key, value)
}

func (r *KVRepo) Keys(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT key FROM kv ORDER BY key ASC`)
	if err != nil {
		return nil, fmt.Errorf("kv keys: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, fmt.Errorf("kv keys scan: %w", err)
		}
		out = append(out, k)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("kv keys rows: %w", err)
	}
	return out, nil
}

func (r *KVRepo) Apply(ctx context.Context, b Batch) error {
	keys := make([]string, 0, len(b.Set))
	for k := range b.Set {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	return WithTx(ctx, r.db, func(tx *sql.Tx) error {
		for _, k := range keys {
			if err := upsert(ctx, tx, k, b.Set[k]); err != nil {
				return err
			}
		}
		for _, k := range b.Delete {
			if _, err := tx.ExecContext(ctx, `DELETE FROM kv WHERE key = ?`, k); err != nil {
				return fmt.Errorf("kv delete %q: %w", k, err)
			}
		}
		return nil
	})
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func upsert(ctx context.Context, db execer, key string, value string) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, key, value, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("kv set %q: %w", key, err)
	}
	return nil
}
