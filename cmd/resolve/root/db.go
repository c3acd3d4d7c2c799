package root

import (
	"context"
	"database/sql"
	"log/slog"
	"path/filepath"

	"resolve/internal/engine"
	"resolve/internal/storage"
)

func (a *app) resolveDBPath() (string, error) {
	return storage.ResolveDBPath(a.dbPath, a.cfg.DBPath)
}

func (a *app) openDB(ctx context.Context) (*sql.DB, func(), error) {
	path, err := a.resolveDBPath()
	if err != nil {
		return nil, nil, err
	}
	db, err := storage.Open(ctx, path)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		_ = db.Close()
	}
	return db, cleanup, nil
}

// openService opens the store, loads every document and records today's
// visit for the streak.
func (a *app) openService(ctx context.Context) (*engine.Service, func(), error) {
	db, cleanup, err := a.openDB(ctx)
	if err != nil {
		return nil, nil, err
	}
	svc := engine.NewService(ctx, storage.NewKVRepo(db), engine.Options{
		Logger: slog.Default(),
		Recovery: engine.RecoverySecrets{
			BirthYear:   a.cfg.Vault.Recovery.BirthYear,
			IndexNumber: a.cfg.Vault.Recovery.IndexNumber,
		},
		DarkTheme: a.cfg.Momentum.DarkTheme,
	})
	if _, err := svc.TouchStreak(ctx); err != nil {
		slog.WarnContext(ctx, "could not record visit", "error", err)
	}
	return svc, cleanup, nil
}

// logFilePath is where the board writes logs.
func (a *app) logFilePath() (string, error) {
	if a.cfg.Log.File != "" {
		return a.cfg.Log.File, nil
	}
	db, err := a.resolveDBPath()
	if err != nil {
		return "", err
	}
	return filepath.Join(filepath.Dir(db), "resolve.log"), nil
}
