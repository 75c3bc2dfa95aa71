package storage

import (
	"autoclicker/domain/interfaces"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

const settingsFile = "settings.json"

type jsonStore struct {
	path string
	mu   sync.Mutex
}

// NewJSONStore - creates a key-value store kept in a single JSON file under dir
func NewJSONStore(dir string) (interfaces.KVStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create state directory: %w", err)
	}
	return &jsonStore{path: filepath.Join(dir, settingsFile)}, nil
}

// Set - writes value under key, rewriting the file
func (s *jsonStore) Set(ctx context.Context, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := s.load()
	if err != nil {
		return err
	}
	state[key] = raw

	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return err
	}

	// write to a temp file first so a crash never leaves half a file behind
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write settings: %w", err)
	}
	return os.Rename(tmp, s.path)
}

// Get - decodes the value under key into dst
func (s *jsonStore) Get(ctx context.Context, key string, dst any) (bool, error) {
	s.mu.Lock()
	state, err := s.load()
	s.mu.Unlock()
	if err != nil {
		return false, err
	}

	raw, ok := state[key]
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return false, fmt.Errorf("failed to decode %s: %w", key, err)
	}
	return true, nil
}

func (s *jsonStore) Close() error {
	return nil
}

func (s *jsonStore) load() (map[string]json.RawMessage, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return make(map[string]json.RawMessage), nil
		}
		return nil, fmt.Errorf("failed to read settings: %w", err)
	}

	state := make(map[string]json.RawMessage)
	if len(data) == 0 {
		return state, nil
	}
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("failed to parse settings: %w", err)
	}
	return state, nil
}
