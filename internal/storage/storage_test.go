package storage

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepo(t *testing.T) (*KVRepo, *sql.DB) {
	t.Helper()
	ctx := context.Background()

	path := filepath.Join(t.TempDir(), "nested", "test.db")
	db, err := Open(ctx, path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewKVRepo(db), db
}

type doc struct {
	Name  string   `json:"name"`
	Items []string `json:"items"`
}

func TestKVRepoSetGetRemove(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	_, ok, err := repo.Get(ctx, "todos")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, repo.Set(ctx, "todos", `[1]`))
	require.NoError(t, repo.Set(ctx, "todos", `[1,2]`))

	v, ok, err := repo.Get(ctx, "todos")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `[1,2]`, v)

	e, err := repo.Entry(ctx, "todos")
	require.NoError(t, err)
	require.NotNil(t, e)
	assert.False(t, e.UpdatedAt.IsZero())

	require.NoError(t, repo.Set(ctx, "settings", `{}`))
	keys, err := repo.Keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"settings", "todos"}, keys)

	require.NoError(t, repo.Apply(ctx, Batch{Delete: []string{"todos"}}))
	_, ok, err = repo.Get(ctx, "todos")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMigrateIsIdempotent(t *testing.T) {
	_, db := newTestRepo(t)
	require.NoError(t, Migrate(context.Background(), db))
}

func TestApplyWritesAndRemoves(t *testing.T) {
	for name, kv := range map[string]KV{
		"sqlite": func() KV { r, _ := newTestRepo(t); return r }(),
		"memory": NewMemoryKV(),
	} {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			require.NoError(t, kv.Set(ctx, "stale", "0"))
			require.NoError(t, kv.Set(ctx, "a", "old"))

			require.NoError(t, kv.Apply(ctx, Batch{
				Set:    map[string]string{"a": "1", "b": "2"},
				Delete: []string{"stale", "never-stored"},
			}))
			keys, err := kv.Keys(ctx)
			require.NoError(t, err)
			assert.Equal(t, []string{"a", "b"}, keys)

			v, _, err := kv.Get(ctx, "a")
			require.NoError(t, err)
			assert.Equal(t, "1", v)
		})
	}
}

func TestWithTxRollsBackOnError(t *testing.T) {
	repo, db := newTestRepo(t)
	ctx := context.Background()

	boom := errors.New("boom")
	err := WithTx(ctx, db, func(tx *sql.Tx) error {
		if err := upsert(ctx, tx, "a", "1"); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	_, ok, err := repo.Get(ctx, "a")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestWithTxRollsBackOnPanic(t *testing.T) {
	repo, db := newTestRepo(t)
	ctx := context.Background()

	assert.PanicsWithValue(t, "boom", func() {
		_ = WithTx(ctx, db, func(tx *sql.Tx) error {
			if err := upsert(ctx, tx, "a", "1"); err != nil {
				return err
			}
			panic("boom")
		})
	})

	_, ok, err := repo.Get(ctx, "a")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, WithTx(ctx, db, func(tx *sql.Tx) error {
		return upsert(ctx, tx, "a", "2")
	}))
	v, ok, err := repo.Get(ctx, "a")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "2", v)
}

func TestLoadSaveRoundTrip(t *testing.T) {
	for name, kv := range map[string]KV{
		"sqlite": func() KV { r, _ := newTestRepo(t); return r }(),
		"memory": NewMemoryKV(),
	} {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			in := doc{Name: "momentum", Items: []string{"b", "a"}}
			require.NoError(t, Save(ctx, kv, "doc", in))
			out := Load(ctx, nil, kv, "doc", doc{})
			assert.Equal(t, in, out)
		})
	}
}

func TestLoadFallsBackToDefault(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV()
	def := doc{Name: "default"}

	assert.Equal(t, def, Load(ctx, nil, kv, "missing", def))

	var logs bytes.Buffer
	log := slog.New(slog.NewTextHandler(&logs, nil))
	require.NoError(t, kv.Set(ctx, "broken", "{not json"))
	assert.Equal(t, def, Load(ctx, log, kv, "broken", def))
	assert.Contains(t, logs.String(), "key=broken")

	require.NoError(t, kv.Set(ctx, "empty", ""))
	assert.Equal(t, def, Load(ctx, nil, kv, "empty", def))
}

func TestResolveDBPath(t *testing.T) {
	t.Setenv(EnvDBPath, "/tmp/from-env.db")

	p, err := ResolveDBPath("  /tmp/flag.db ", "/tmp/config.db")
	require.NoError(t, err)
	assert.Equal(t, "/tmp/flag.db", p)

	p, err = ResolveDBPath("", "/tmp/config.db")
	require.NoError(t, err)
	assert.Equal(t, "/tmp/from-env.db", p)

	t.Setenv(EnvDBPath, "")
	p, err = ResolveDBPath("", "/tmp/config.db")
	require.NoError(t, err)
	assert.Equal(t, "/tmp/config.db", p)

	p, err = ResolveDBPath("", "")
	require.NoError(t, err)
	assert.Equal(t, "resolve.db", filepath.Base(p))
}
