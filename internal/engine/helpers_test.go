package engine

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"resolve/internal/storage"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

type fixture struct {
	svc   *Service
	kv    storage.KV
	clock *fakeClock
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	return newFixtureWith(t, storage.NewMemoryKV(), RecoverySecrets{BirthYear: "1999", IndexNumber: "42"})
}

func newFixtureWith(t *testing.T, kv storage.KV, rec RecoverySecrets) *fixture {
	t.Helper()
	clock := &fakeClock{t: time.Date(2026, time.October, 19, 9, 30, 0, 0, time.Local)}
	n := 0
	svc := NewService(context.Background(), kv, Options{
		Now: clock.Now,
		NewID: func() string {
			n++
			return fmt.Sprintf("id-%03d", n)
		},
		Recovery: rec,
		PINCost:  bcrypt.MinCost,
	})
	return &fixture{svc: svc, kv: kv, clock: clock}
}

// reopen builds a second service over the same store, like a page reload.
func (f *fixture) reopen(t *testing.T) *Service {
	t.Helper()
	return NewService(context.Background(), f.kv, Options{Now: f.clock.Now, PINCost: bcrypt.MinCost})
}

// unlock drives the PIN flow through create + confirm.
func (f *fixture) unlock(t *testing.T) *Resolutions {
	t.Helper()
	ctx := context.Background()
	flow := f.svc.OpenVault()
	flow.Type("1234")
	if _, err := flow.Submit(ctx); err != nil {
		t.Fatalf("create: %v", err)
	}
	flow.Type("1234")
	if _, err := flow.Submit(ctx); err != nil {
		t.Fatalf("confirm: %v", err)
	}
	r, err := f.svc.Resolutions()
	if err != nil {
		t.Fatalf("Resolutions: %v", err)
	}
	return r
}

var errDiskFull = errors.New("disk full")

// failingKV accepts reads and rejects every write.
type failingKV struct {
	*storage.MemoryKV
}

func (failingKV) Set(context.Context, string, string) error { return errDiskFull }

func (failingKV) Apply(context.Context, storage.Batch) error { return errDiskFull }
