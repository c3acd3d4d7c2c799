package engine

import (
	"context"

	"resolve/internal/storage"
)

// InstallPromptVisible reports whether the "install" hint should show.
// It stays hidden for good once dismissed, and for the session once accepted.
func (s *Service) InstallPromptVisible(ctx context.Context) bool {
	if s.installHidden {
		return false
	}
	return !loadBool(ctx, s, KeyInstallDismissed)
}

// AcceptInstallPrompt hides the hint for this session only.
func (s *Service) AcceptInstallPrompt() {
	s.installHidden = true
}

// DismissInstallPrompt hides the hint and records the dismissal.
func (s *Service) DismissInstallPrompt(ctx context.Context) error {
	s.installHidden = true
	return s.persist(ctx, KeyInstallDismissed, true)
}

func loadBool(ctx context.Context, s *Service, key string) bool {
	return storage.Load(ctx, s.log, s.kv, key, false)
}
