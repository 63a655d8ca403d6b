package store

import (
	"context"
	"fmt"
	"log/slog"

	"go-survey-stats/internal/model"
)

// Backend names accepted by Open.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendBadger = "badger"
	BackendMemory = "memory"
)

// ResultStore persists each job's result at most once and returns it on
// demand. Read returns model.ErrNotFound for ids never written; a second
// Write for the same id returns model.ErrAlreadyWritten.
//
// Write-once holds for one process lifetime. Job ids restart at 1, so
// Reset drops whatever a previous run left behind.
type ResultStore interface {
	Write(ctx context.Context, jobID int64, result *model.Result) error
	Read(ctx context.Context, jobID int64) (*model.Result, error)
	Reset(ctx context.Context) error
	Close() error
}

// Config selects and configures a result backend.
type Config struct {
	Backend    string `mapstructure:"backend"`
	Dir        string `mapstructure:"dir"`
	SQLitePath string `mapstructure:"sqlite_path"`
	BadgerPath string `mapstructure:"badger_path"`
}

// Open creates the backend named by cfg.Backend and clears results left by
// an earlier process.
func Open(ctx context.Context, cfg Config, logger *slog.Logger) (ResultStore, error) {
	s, err := open(cfg, logger)
	if err != nil {
		return nil, err
	}
	if err := s.Reset(ctx); err != nil {
		s.Close()
		return nil, fmt.Errorf("reset %s results: %w", cfg.Backend, err)
	}
	return s, nil
}

func open(cfg Config, logger *slog.Logger) (ResultStore, error) {
	switch cfg.Backend {
	case BackendFile, "":
		return NewFileStore(cfg.Dir)
	case BackendSQLite:
		return OpenSQLite(cfg.SQLitePath)
	case BackendBadger:
		bc := DefaultBadgerConfig()
		bc.Path = cfg.BadgerPath
		bc.Logger = logger
		return OpenBadger(bc)
	case BackendMemory:
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown results backend %q", cfg.Backend)
	}
}
