package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/dgraph-io/badger/v4"

	"go-survey-stats/internal/model"
)

// BadgerConfig configures the embedded key-value backend.
type BadgerConfig struct {
	// Path is the database directory. Required unless InMemory is set.
	Path string

	// InMemory keeps everything in RAM; used by tests.
	InMemory bool

	// SyncWrites fsyncs every commit.
	SyncWrites bool

	// Logger receives badger's internal logs. Nil silences them.
	Logger *slog.Logger
}

// DefaultBadgerConfig returns a persistent configuration.
func DefaultBadgerConfig() BadgerConfig {
	return BadgerConfig{SyncWrites: true}
}

// InMemoryBadgerConfig returns a configuration for tests.
func InMemoryBadgerConfig() BadgerConfig {
	return BadgerConfig{InMemory: true}
}

// badgerLogger adapts slog.Logger to badger.Logger.
type badgerLogger struct {
	logger *slog.Logger
}

func (l *badgerLogger) Errorf(format string, args ...interface{}) {
	l.logger.Error(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Warningf(format string, args ...interface{}) {
	l.logger.Warn(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Infof(format string, args ...interface{}) {
	l.logger.Info(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Debugf(format string, args ...interface{}) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}

// BadgerStore keeps results in badger under keys "result/<id>".
type BadgerStore struct {
	db *badger.DB
}

// OpenBadger opens (or creates) the database described by cfg.
func OpenBadger(cfg BadgerConfig) (*BadgerStore, error) {
	if !cfg.InMemory && cfg.Path == "" {
		return nil, errors.New("path is required for persistent database")
	}

	var opts badger.Options
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if err := os.MkdirAll(cfg.Path, 0750); err != nil {
			return nil, fmt.Errorf("create database directory %s: %w", cfg.Path, err)
		}
		opts = badger.DefaultOptions(cfg.Path)
	}
	opts = opts.WithSyncWrites(cfg.SyncWrites).WithNumVersionsToKeep(1)

	if cfg.Logger != nil {
		opts = opts.WithLogger(&badgerLogger{logger: cfg.Logger})
	} else {
		opts = opts.WithLogger(nil)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger database: %w", err)
	}
	return &BadgerStore{db: db}, nil
}

func resultKey(jobID int64) []byte {
	return []byte("result/" + strconv.FormatInt(jobID, 10))
}

func (s *BadgerStore) Write(_ context.Context, jobID int64, result *model.Result) error {
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("encode result %d: %w", jobID, err)
	}

	return s.db.Update(func(txn *badger.Txn) error {
		key := resultKey(jobID)
		_, err := txn.Get(key)
		switch {
		case err == nil:
			return fmt.Errorf("job %d: %w", jobID, model.ErrAlreadyWritten)
		case !errors.Is(err, badger.ErrKeyNotFound):
			return err
		}
		return txn.Set(key, data)
	})
}

func (s *BadgerStore) Read(_ context.Context, jobID int64) (*model.Result, error) {
	var data []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(resultKey(jobID))
		if err != nil {
			return err
		}
		data, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, fmt.Errorf("job %d: %w", jobID, model.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}

	result := model.NewResult()
	if err := json.Unmarshal(data, result); err != nil {
		return nil, fmt.Errorf("decode result %d: %w", jobID, err)
	}
	return result, nil
}

// Reset drops every key in the database.
func (s *BadgerStore) Reset(_ context.Context) error {
	return s.db.DropAll()
}

func (s *BadgerStore) Close() error {
	return s.db.Close()
}
