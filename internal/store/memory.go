package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"go-survey-stats/internal/model"
)

// MemoryStore keeps serialized results in a map. Results do not survive
// the process.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[int64][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[int64][]byte)}
}

func (s *MemoryStore) Write(_ context.Context, jobID int64, result *model.Result) error {
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("encode result %d: %w", jobID, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.data[jobID]; ok {
		return fmt.Errorf("job %d: %w", jobID, model.ErrAlreadyWritten)
	}
	s.data[jobID] = data
	return nil
}

func (s *MemoryStore) Read(_ context.Context, jobID int64) (*model.Result, error) {
	s.mu.RLock()
	data, ok := s.data[jobID]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("job %d: %w", jobID, model.ErrNotFound)
	}

	result := model.NewResult()
	if err := json.Unmarshal(data, result); err != nil {
		return nil, fmt.Errorf("decode result %d: %w", jobID, err)
	}
	return result, nil
}

func (s *MemoryStore) Reset(_ context.Context) error {
	s.mu.Lock()
	s.data = make(map[int64][]byte)
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Close() error { return nil }
