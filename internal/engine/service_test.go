package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resolve/internal/storage"
)

func TestGreeting(t *testing.T) {
	tests := map[int]string{
		0:  "Good Morning",
		11: "Good Morning",
		12: "Good Afternoon",
		17: "Good Afternoon",
		18: "Good Evening",
		23: "Good Evening",
	}
	for hour, want := range tests {
		got := Greeting(time.Date(2026, 1, 1, hour, 59, 0, 0, time.Local))
		assert.Equal(t, want, got, "hour %d", hour)
	}
}

func TestInstallPrompt(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	assert.True(t, f.svc.InstallPromptVisible(ctx))

	f.svc.AcceptInstallPrompt()
	assert.False(t, f.svc.InstallPromptVisible(ctx))
	assert.True(t, f.reopen(t).InstallPromptVisible(ctx), "accepting is not recorded")

	require.NoError(t, f.svc.DismissInstallPrompt(ctx))
	assert.False(t, f.reopen(t).InstallPromptVisible(ctx))

	raw, ok, err := f.kv.Get(ctx, KeyInstallDismissed)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "true", raw)
}

func TestThemePreference(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	assert.False(t, f.svc.DarkTheme(ctx))
	require.NoError(t, f.svc.SetDarkTheme(ctx, true))
	assert.True(t, f.reopen(t).DarkTheme(ctx))

	dark := NewService(ctx, storage.NewMemoryKV(), Options{DarkTheme: true})
	assert.True(t, dark.DarkTheme(ctx), "configured default applies until a preference is stored")
	require.NoError(t, dark.SetDarkTheme(ctx, false))
	assert.False(t, dark.DarkTheme(ctx))
}

func TestSetName(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.svc.SetName(context.Background(), "  Ada "))
	assert.Equal(t, "Ada", f.reopen(t).Settings().Name)
}

func TestExportImportRoundTrip(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Momentum().Add(ctx, AddTodoInput{Title: "Pay rent", Priority: PriorityHigh})
	require.NoError(t, err)
	r := f.unlock(t)
	_, err = r.Add(ctx, AddResolutionInput{Title: "Run a marathon", Target: 42, Unit: "km"})
	require.NoError(t, err)
	_, err = f.svc.TouchStreak(ctx)
	require.NoError(t, err)

	snap, err := f.svc.Export(ctx)
	require.NoError(t, err)
	assert.Equal(t, SnapshotVersion, snap.Version)
	assert.Contains(t, snap.Data, KeyTodos)
	assert.Contains(t, snap.Data, KeyResolutions)
	assert.NotContains(t, snap.Data, KeyInstallDismissed)

	blob, err := json.Marshal(snap)
	require.NoError(t, err)

	other := newFixture(t)
	var decoded Snapshot
	require.NoError(t, json.Unmarshal(blob, &decoded))
	require.NoError(t, other.svc.Import(ctx, &decoded))

	assert.Equal(t, f.svc.Momentum().All(), other.svc.Momentum().All())
	assert.Equal(t, f.svc.Streak(), other.svc.Streak())
	assert.True(t, other.svc.HasPIN())

	_, err = other.svc.Resolutions()
	require.ErrorIs(t, err, ErrVaultLocked, "import relocks the vault")

	for _, k := range knownKeys {
		want, wok, err := f.kv.Get(ctx, k)
		require.NoError(t, err)
		got, gok, err := other.kv.Get(ctx, k)
		require.NoError(t, err)
		assert.Equal(t, wok, gok, k)
		assert.Equal(t, want, got, k)
	}
}

func TestImportRejectsBadSnapshots(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	tests := []struct {
		name  string
		snap  *Snapshot
		field string
	}{
		{name: "nil", snap: nil, field: "snapshot"},
		{name: "version", snap: &Snapshot{Version: 7}, field: "version"},
		{name: "unknown key", snap: &Snapshot{Version: 1, Data: map[string]json.RawMessage{"cookies": json.RawMessage(`1`)}}, field: "key"},
		{name: "bad json", snap: &Snapshot{Version: 1, Data: map[string]json.RawMessage{KeyTodos: json.RawMessage(`[{`)}}, field: KeyTodos},
		{name: "todos not a list", snap: &Snapshot{Version: 1, Data: map[string]json.RawMessage{KeyTodos: json.RawMessage(`{"oops":1}`)}}, field: KeyTodos},
		{name: "resolution target text", snap: &Snapshot{Version: 1, Data: map[string]json.RawMessage{KeyResolutions: json.RawMessage(`[{"id":"r1","target":"lots"}]`)}}, field: KeyResolutions},
		{name: "settings as list", snap: &Snapshot{Version: 1, Data: map[string]json.RawMessage{KeySettings: json.RawMessage(`[]`)}}, field: KeySettings},
		{name: "streak as text", snap: &Snapshot{Version: 1, Data: map[string]json.RawMessage{KeyStreak: json.RawMessage(`"5"`)}}, field: KeyStreak},
		{name: "theme not bool", snap: &Snapshot{Version: 1, Data: map[string]json.RawMessage{KeyTheme: json.RawMessage(`"dark"`)}}, field: KeyTheme},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := f.svc.Import(ctx, tt.snap)
			var verr ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)
		})
	}
	keys, err := f.kv.Keys(ctx)
	require.NoError(t, err)
	assert.Empty(t, keys)
}

func TestImportWrongShapeKeepsStoredData(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Momentum().Add(ctx, AddTodoInput{Title: "Buy milk"})
	require.NoError(t, err)

	err = f.svc.Import(ctx, &Snapshot{Version: 1, Data: map[string]json.RawMessage{KeyTodos: json.RawMessage(`{"oops":1}`)}})
	var verr ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, KeyTodos, verr.Field)

	require.Len(t, f.svc.Momentum().All(), 1)
	assert.Equal(t, "Buy milk", f.reopen(t).Momentum().All()[0].Text)
}

func TestImportBrowserData(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	snap := &Snapshot{Version: 1, Data: map[string]json.RawMessage{
		"dikie-settings-v3": json.RawMessage(`{"name":"Dikie","pin":"2026","vaultUnlocked":true}`),
		"dikie-todos-v3": json.RawMessage(`[{"id":"b1","text":"Stretch","completed":false,"priority":"High",` +
			`"dueDate":"2026-10-18T08:00:00.000Z","createdAt":"2026-10-18T07:59:00.000Z"}]`),
		"dikie-resolutions-v3": json.RawMessage(`[{"id":"g1","title":"Read 12 books","category":"Career","target":12,"current":3,"unit":"books"}]`),
		"momentum_streak_data": json.RawMessage(`{"currentStreak":4,"lastVisit":"Sun Oct 18 2026","allVisits":["Sun Oct 18 2026"]}`),
		"momentumTheme":        json.RawMessage(`true`),
	}}
	require.NoError(t, f.svc.Import(ctx, snap))

	todos := f.svc.Momentum().All()
	require.Len(t, todos, 1)
	assert.Equal(t, "Stretch", todos[0].Text)
	assert.Equal(t, PriorityHigh, todos[0].Priority)
	assert.Equal(t, "Dikie", f.svc.Settings().Name)
	assert.Equal(t, 4, f.svc.Streak().CurrentStreak)
	assert.True(t, f.svc.DarkTheme(ctx))

	flow := f.svc.OpenVault()
	require.Equal(t, ModeUnlock, flow.Mode())
	flow.Type("2026")
	res, err := flow.Submit(ctx)
	require.NoError(t, err)
	assert.True(t, res.Unlocked)
	assert.True(t, isBcryptHash(*f.svc.Settings().PIN), "browser PIN is re-hashed")

	r, err := f.svc.Resolutions()
	require.NoError(t, err)
	require.Len(t, r.All(), 1)
	assert.Equal(t, ResolutionCareer, r.All()[0].Category)
}

func TestImportReplacesStoredData(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Momentum().Add(ctx, AddTodoInput{Title: "Old task"})
	require.NoError(t, err)
	require.NoError(t, f.svc.DismissInstallPrompt(ctx))
	require.NoError(t, f.svc.SetName(ctx, "Ada"))

	require.NoError(t, f.svc.Import(ctx, &Snapshot{Version: 1, Data: map[string]json.RawMessage{
		KeySettings: json.RawMessage(`{"name":"Grace","pin":null}`),
	}}))

	assert.Empty(t, f.svc.Momentum().All())
	assert.Equal(t, "Grace", f.svc.Settings().Name)
	assert.True(t, f.svc.InstallPromptVisible(ctx))

	keys, err := f.kv.Keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{KeySettings}, keys)
}

func TestLastSaved(t *testing.T) {
	ctx := context.Background()

	mem := newFixture(t)
	_, ok := mem.svc.LastSaved(ctx)
	assert.False(t, ok, "memory store keeps no write times")

	db, err := storage.Open(ctx, filepath.Join(t.TempDir(), "resolve.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	f := newFixtureWith(t, storage.NewKVRepo(db), RecoverySecrets{})

	_, ok = f.svc.LastSaved(ctx)
	assert.False(t, ok)

	before := time.Now().UTC().Add(-time.Second)
	_, err = f.svc.Momentum().Add(ctx, AddTodoInput{Title: "Water plants"})
	require.NoError(t, err)
	at, ok := f.svc.LastSaved(ctx)
	require.True(t, ok)
	assert.True(t, at.After(before))
}

func TestLoadWarningsUseInjectedLogger(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemoryKV()
	require.NoError(t, kv.Set(ctx, KeyTodos, `{"oops":1}`))

	var logs bytes.Buffer
	svc := NewService(ctx, kv, Options{Logger: slog.New(slog.NewTextHandler(&logs, nil))})
	assert.Empty(t, svc.Momentum().All())
	assert.Contains(t, logs.String(), "key="+KeyTodos)
}

func TestImportWriteFailure(t *testing.T) {
	f := newFixtureWith(t, failingKV{storage.NewMemoryKV()}, RecoverySecrets{})
	err := f.svc.Import(context.Background(), &Snapshot{Version: 1, Data: map[string]json.RawMessage{KeyTodos: json.RawMessage(`[]`)}})
	require.ErrorIs(t, err, errDiskFull)
}

func TestParsers(t *testing.T) {
	p, err := ParsePriority("h")
	require.NoError(t, err)
	assert.Equal(t, PriorityHigh, p)
	p, err = ParsePriority("")
	require.NoError(t, err)
	assert.Equal(t, PriorityMedium, p)
	_, err = ParsePriority("urgent")
	assert.Error(t, err)

	c, err := ParseTodoCategory("shopping")
	require.NoError(t, err)
	assert.Equal(t, TodoShopping, c)
	_, err = ParseTodoCategory("Chores")
	assert.Error(t, err)

	rc, err := ParseResolutionCategory("")
	require.NoError(t, err)
	assert.Equal(t, ResolutionPersonal, rc)
	rc, err = ParseResolutionCategory("FINANCE")
	require.NoError(t, err)
	assert.Equal(t, ResolutionFinance, rc)

	st, err := ParseStatusFilter("Active")
	require.NoError(t, err)
	assert.Equal(t, StatusActive, st)
	_, err = ParseStatusFilter("done")
	assert.Error(t, err)

	so, err := ParseSortOption("priority-high")
	require.NoError(t, err)
	assert.Equal(t, SortPriorityHigh, so)
	so, err = ParseSortOption("")
	require.NoError(t, err)
	assert.Equal(t, SortNewest, so)
}
