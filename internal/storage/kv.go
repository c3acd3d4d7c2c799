package storage

import "context"

// KV is the key-value surface the engine persists through. Values are
// opaque strings (JSON documents in practice).
type KV interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key string, value string) error
	Keys(ctx context.Context) ([]string, error)
	// Apply writes and removes everything in b, or nothing.
	Apply(ctx context.Context, b Batch) error
}

// Batch groups writes and removals applied together by KV.Apply.
type Batch struct {
	Set    map[string]string
	Delete []string
}

// EntryReader is implemented by stores that track write times.
type EntryReader interface {
	Entry(ctx context.Context, key string) (*Entry, error)
}
