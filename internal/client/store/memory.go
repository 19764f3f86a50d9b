package store

import (
	"context"
	"encoding/json"
	"sync"
)

type memoryStore struct {
	mu    sync.RWMutex
	state State
	set   bool
}

// NewMemory builds an in-memory state store. Nothing survives the process;
// intended for tests and throwaway sessions.
func NewMemory() Store {
	return &memoryStore{}
}

func (s *memoryStore) Load(_ context.Context) (State, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.set {
		return DefaultState(), nil
	}
	return cloneState(s.state)
}

func (s *memoryStore) Save(_ context.Context, state State) error {
	clone, err := cloneState(state)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.state = clone
	s.set = true
	s.mu.Unlock()
	return nil
}

func (s *memoryStore) Close(context.Context) error {
	return nil
}

// cloneState round-trips through JSON so callers never share slices or maps
// with the stored copy.
func cloneState(state State) (State, error) {
	data, err := json.Marshal(state)
	if err != nil {
		return State{}, err
	}
	var clone State
	if err := json.Unmarshal(data, &clone); err != nil {
		return State{}, err
	}
	if clone.TokenData == nil {
		clone.TokenData = map[string]OwnerState{}
	}
	return clone, nil
}
