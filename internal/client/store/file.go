package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

type fileStore struct {
	path string
}

// NewFile builds a JSON-file-backed state store.
func NewFile(cfg Config) (Store, error) {
	path := StorageKey + ".json"
	if cfg.File != nil && cfg.File.Path != "" {
		path = cfg.File.Path
	}
	return &fileStore{path: path}, nil
}

func (s *fileStore) Load(_ context.Context) (State, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return DefaultState(), nil
	}
	if err != nil {
		return State{}, fmt.Errorf("failed to read state file: %w", err)
	}

	var state State
	if err := json.Unmarshal(data, &state); err != nil {
		return State{}, fmt.Errorf("failed to parse state file: %w", err)
	}
	if state.TokenData == nil {
		state.TokenData = map[string]OwnerState{}
	}
	return state, nil
}

// Save writes through a temp file and rename so a crash mid-write never
// leaves a truncated blob behind.
func (s *fileStore) Save(_ context.Context, state State) error {
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal state: %w", err)
	}

	if dir := filepath.Dir(s.path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create state directory: %w", err)
		}
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write state file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("failed to replace state file: %w", err)
	}
	return nil
}

func (s *fileStore) Close(context.Context) error {
	return nil
}
