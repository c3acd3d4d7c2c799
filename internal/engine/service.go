package engine

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"resolve/internal/storage"
)

// Fixed storage keys, one JSON document each. They match the browser app's
// localStorage keys so its exported data can be imported as is.
const (
	KeySettings         = "dikie-settings-v3"
	KeyTodos            = "dikie-todos-v3"
	KeyResolutions      = "dikie-resolutions-v3"
	KeyStreak           = "momentum_streak_data"
	KeyInstallDismissed = "install_dismissed"
	KeyTheme            = "momentumTheme"
)

var knownKeys = []string{KeySettings, KeyTodos, KeyResolutions, KeyStreak, KeyInstallDismissed, KeyTheme}

type Options struct {
	// Now defaults to time.Now. Streak days use its location.
	Now func() time.Time
	// NewID defaults to random UUIDs.
	NewID    func() string
	Logger   *slog.Logger
	Recovery RecoverySecrets
	// PINCost is the bcrypt cost for stored PINs; zero means bcrypt.DefaultCost.
	PINCost int
	// DarkTheme is used until a theme preference has been stored.
	DarkTheme bool
}

type Service struct {
	kv       storage.KV
	log      *slog.Logger
	now      func() time.Time
	newID    func() string
	recovery RecoverySecrets
	pinCost  int
	darkDef  bool

	session       Session
	settings      Settings
	streak        Streak
	installHidden bool

	momentum    *Momentum
	resolutions *Resolutions
}

// NewService loads every document from kv. Loading never fails: corrupt or
// missing documents fall back to their defaults.
func NewService(ctx context.Context, kv storage.KV, opts Options) *Service {
	s := &Service{
		kv:       kv,
		log:      opts.Logger,
		now:      opts.Now,
		newID:    opts.NewID,
		recovery: opts.Recovery,
		pinCost:  opts.PINCost,
		darkDef:  opts.DarkTheme,
	}
	if s.log == nil {
		s.log = slog.Default()
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.newID == nil {
		s.newID = uuid.NewString
	}
	if s.pinCost == 0 {
		s.pinCost = bcrypt.DefaultCost
	}
	s.momentum = &Momentum{svc: s}
	s.resolutions = &Resolutions{svc: s}
	s.reload(ctx)
	return s
}

func (s *Service) reload(ctx context.Context) {
	s.settings = storage.Load(ctx, s.log, s.kv, KeySettings, Settings{})
	s.streak = storage.Load(ctx, s.log, s.kv, KeyStreak, Streak{})
	s.momentum.todos = normalizeTodos(storage.Load(ctx, s.log, s.kv, KeyTodos, []Todo{}))
	s.resolutions.items = normalizeResolutions(storage.Load(ctx, s.log, s.kv, KeyResolutions, []Resolution{}))
}

// Momentum returns the daily to-do manager.
func (s *Service) Momentum() *Momentum { return s.momentum }

// Resolutions returns the Vault goal manager once the session is unlocked.
func (s *Service) Resolutions() (*Resolutions, error) {
	if !s.session.Unlocked() {
		return nil, ErrVaultLocked
	}
	return s.resolutions, nil
}

func (s *Service) Session() *Session { return &s.session }

// persist writes value under key. On failure the in-memory state is left
// as is and a PersistError is returned.
func (s *Service) persist(ctx context.Context, key string, value any) error {
	if err := storage.Save(ctx, s.kv, key, value); err != nil {
		s.log.WarnContext(ctx, "write failed, keeping in-memory state", "key", key, "error", err)
		return PersistError{Key: key, Err: err}
	}
	return nil
}

func normalizeTitle(title string) (string, bool) {
	t := strings.TrimSpace(title)
	return t, t != ""
}

// Session holds state that is never persisted.
type Session struct {
	unlocked bool
}

func (s *Session) Unlocked() bool { return s.unlocked }
func (s *Session) Lock()          { s.unlocked = false }
func (s *Session) unlock()        { s.unlocked = true }
