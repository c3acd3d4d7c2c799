package engine

import (
	"context"
	"crypto/subtle"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"resolve/internal/storage"
)

// Settings is the persisted settings document. PIN holds a bcrypt hash;
// documents from the browser app may still carry a plaintext PIN, which is
// accepted once and re-hashed on the next successful unlock.
type Settings struct {
	Name string  `json:"name,omitempty"`
	PIN  *string `json:"pin"`
}

func (s *Service) Settings() Settings { return s.settings }

func (s *Service) SetName(ctx context.Context, name string) error {
	s.settings.Name = strings.TrimSpace(name)
	return s.persist(ctx, KeySettings, s.settings)
}

// HasPIN reports whether a vault PIN has been created.
func (s *Service) HasPIN() bool {
	return s.settings.PIN != nil && *s.settings.PIN != ""
}

func (s *Service) setPIN(ctx context.Context, pin string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(pin), s.pinCost)
	if err != nil {
		return err
	}
	h := string(hash)
	s.settings.PIN = &h
	return s.persist(ctx, KeySettings, s.settings)
}

func (s *Service) clearPIN(ctx context.Context) error {
	s.settings.PIN = nil
	return s.persist(ctx, KeySettings, s.settings)
}

// verifyPIN compares pin with the stored credential. legacy is true when the
// stored value was plaintext.
func (s *Service) verifyPIN(pin string) (ok bool, legacy bool) {
	if !s.HasPIN() {
		return false, false
	}
	stored := *s.settings.PIN
	if !isBcryptHash(stored) {
		return subtle.ConstantTimeCompare([]byte(stored), []byte(pin)) == 1, true
	}
	return bcrypt.CompareHashAndPassword([]byte(stored), []byte(pin)) == nil, false
}

func isBcryptHash(s string) bool {
	return strings.HasPrefix(s, "$2a$") || strings.HasPrefix(s, "$2b$") || strings.HasPrefix(s, "$2y$")
}

// DarkTheme is the persisted Momentum theme preference.
func (s *Service) DarkTheme(ctx context.Context) bool {
	return storage.Load(ctx, s.log, s.kv, KeyTheme, s.darkDef)
}

func (s *Service) SetDarkTheme(ctx context.Context, dark bool) error {
	return s.persist(ctx, KeyTheme, dark)
}
