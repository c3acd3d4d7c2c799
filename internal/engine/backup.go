package engine

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"time"

	"resolve/internal/storage"
)

const SnapshotVersion = 1

// Snapshot is a portable copy of every stored document.
type Snapshot struct {
	Version    int                        `json:"version"`
	ExportedAt time.Time                  `json:"exportedAt"`
	Data       map[string]json.RawMessage `json:"data"`
}

// Export copies every stored document under a known key.
func (s *Service) Export(ctx context.Context) (*Snapshot, error) {
	snap := &Snapshot{
		Version:    SnapshotVersion,
		ExportedAt: s.now().UTC(),
		Data:       map[string]json.RawMessage{},
	}
	keys, err := s.kv.Keys(ctx)
	if err != nil {
		return nil, fmt.Errorf("export: %w", err)
	}
	for _, k := range keys {
		if !slices.Contains(knownKeys, k) {
			continue
		}
		raw, ok, err := s.kv.Get(ctx, k)
		if err != nil {
			return nil, fmt.Errorf("export %s: %w", k, err)
		}
		if !ok || !json.Valid([]byte(raw)) {
			continue
		}
		snap.Data[k] = json.RawMessage(raw)
	}
	return snap, nil
}

// Import replaces the stored documents with those of snap in a single
// batch: known keys absent from snap are removed. The in-memory state is
// reloaded and the vault session locked, since the PIN may have changed.
func (s *Service) Import(ctx context.Context, snap *Snapshot) error {
	if snap == nil {
		return ValidationError{Field: "snapshot", Reason: "empty"}
	}
	if snap.Version != SnapshotVersion {
		return ValidationError{Field: "version", Reason: fmt.Sprintf("unsupported snapshot version %d", snap.Version)}
	}
	batch := storage.Batch{Set: make(map[string]string, len(snap.Data))}
	for k, raw := range snap.Data {
		if !slices.Contains(knownKeys, k) {
			return ValidationError{Field: "key", Reason: fmt.Sprintf("unknown key %q", k)}
		}
		if err := checkDocument(k, raw); err != nil {
			return ValidationError{Field: k, Reason: err.Error()}
		}
		batch.Set[k] = string(raw)
	}
	for _, k := range knownKeys {
		if _, ok := snap.Data[k]; !ok {
			batch.Delete = append(batch.Delete, k)
		}
	}
	if err := s.kv.Apply(ctx, batch); err != nil {
		return fmt.Errorf("import: %w", err)
	}
	s.session.Lock()
	s.installHidden = false
	s.reload(ctx)
	return nil
}

// checkDocument decodes raw into the type stored under key.
func checkDocument(key string, raw json.RawMessage) error {
	var target any
	switch key {
	case KeySettings:
		target = new(Settings)
	case KeyTodos:
		target = new([]Todo)
	case KeyResolutions:
		target = new([]Resolution)
	case KeyStreak:
		target = new(Streak)
	case KeyInstallDismissed, KeyTheme:
		target = new(bool)
	default:
		return fmt.Errorf("unknown key %q", key)
	}
	if err := json.Unmarshal(raw, target); err != nil {
		var syntaxErr *json.SyntaxError
		if errors.As(err, &syntaxErr) {
			return errors.New("not valid JSON")
		}
		return err
	}
	return nil
}

// LastSaved is the most recent write time over the known keys. It is false
// when the store does not track write times or nothing is stored yet.
func (s *Service) LastSaved(ctx context.Context) (time.Time, bool) {
	er, ok := s.kv.(storage.EntryReader)
	if !ok {
		return time.Time{}, false
	}
	var latest time.Time
	for _, k := range knownKeys {
		e, err := er.Entry(ctx, k)
		if err != nil {
			s.log.WarnContext(ctx, "read entry failed", "key", k, "error", err)
			continue
		}
		if e != nil && e.UpdatedAt.After(latest) {
			latest = e.UpdatedAt
		}
	}
	return latest, !latest.IsZero()
}
