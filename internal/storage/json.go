package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
)

// Load reads the JSON document stored under key into a T. A missing key,
// a read error or an unparsable document all yield def; Load never fails.
// Fallbacks are reported on log, or on the default logger when log is nil.
func Load[T any](ctx context.Context, log *slog.Logger, kv KV, key string, def T) T {
	if log == nil {
		log = slog.Default()
	}
	raw, ok, err := kv.Get(ctx, key)
	if err != nil {
		log.WarnContext(ctx, "storage read failed, using default", "key", key, "error", err)
		return def
	}
	if !ok || raw == "" {
		return def
	}
	var v T
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		log.WarnContext(ctx, "stored document is corrupt, using default", "key", key, "error", err)
		return def
	}
	return v
}

// Save serializes value and overwrites whatever was stored under key.
func Save(ctx context.Context, kv KV, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal %q: %w", key, err)
	}
	if err := kv.Set(ctx, key, string(data)); err != nil {
		return err
	}
	return nil
}
