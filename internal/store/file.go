package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go-survey-stats/internal/model"
	"go-survey-stats/pkg/utils"
)

// FileStore keeps one JSON document per job in a directory, named <id>.json.
type FileStore struct {
	paths *utils.OutputManager
}

// NewFileStore creates dir if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		dir = "results"
	}
	om := utils.NewOutputManager(dir)
	if err := om.EnsureOutputDirExists(); err != nil {
		return nil, err
	}
	return &FileStore{paths: om}, nil
}

// Write stores result through a temp file that is hard-linked into place,
// so readers never see a partial document and an existing file is never
// replaced.
func (s *FileStore) Write(_ context.Context, jobID int64, result *model.Result) error {
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("encode result %d: %w", jobID, err)
	}

	tmp, err := os.CreateTemp(s.paths.BaseOutputDir, s.paths.TempPattern(jobID))
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write result %d: %w", jobID, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync result %d: %w", jobID, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close result %d: %w", jobID, err)
	}

	if err := os.Link(tmp.Name(), s.paths.ResultPath(jobID)); err != nil {
		if errors.Is(err, os.ErrExist) {
			return fmt.Errorf("job %d: %w", jobID, model.ErrAlreadyWritten)
		}
		return fmt.Errorf("publish result %d: %w", jobID, err)
	}
	return nil
}

func (s *FileStore) Read(_ context.Context, jobID int64) (*model.Result, error) {
	data, err := os.ReadFile(s.paths.ResultPath(jobID))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("job %d: %w", jobID, model.ErrNotFound)
		}
		return nil, err
	}

	result := model.NewResult()
	if err := json.Unmarshal(data, result); err != nil {
		return nil, fmt.Errorf("decode result %d: %w", jobID, err)
	}
	return result, nil
}

// Reset removes every result document and leftover temp file.
func (s *FileStore) Reset(_ context.Context) error {
	for _, pattern := range []string{"*.json", ".*.tmp"} {
		matches, err := filepath.Glob(filepath.Join(s.paths.BaseOutputDir, pattern))
		if err != nil {
			return err
		}
		for _, m := range matches {
			if err := os.Remove(m); err != nil && !errors.Is(err, os.ErrNotExist) {
				return fmt.Errorf("remove %s: %w", m, err)
			}
		}
	}
	return nil
}

func (s *FileStore) Close() error { return nil }
