package mining

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// State records how far a mining run has advanced through the outer
// pull request listing, so a rerun can resume instead of starting
// over. The pairs mined so far travel with the position: a resume
// that starts past a page must not lose the pairs that page yielded.
// The core mining contract does not require any of this; the store is
// an optional collaborator the miner consults when configured.
type State struct {
	Cursor    string `json:"cursor"`
	Processed int    `json:"processed"`
	Pairs     []Pair `json:"pairs,omitempty"`
}

// CheckpointStore persists mining state as a flat JSON file. A nil
// store or an empty path disables checkpointing.
type CheckpointStore struct {
	path string
}

// NewCheckpointStore creates a store backed by the given file path.
func NewCheckpointStore(path string) *CheckpointStore {
	return &CheckpointStore{path: path}
}

// Load returns the previously saved state, or nil when no checkpoint
// exists yet.
func (s *CheckpointStore) Load() (*State, error) {
	if s == nil || s.path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read checkpoint: %w", err)
	}
	var st State
	if err := json.Unmarshal(data, &st); err != nil {
		return nil, fmt.Errorf("decode checkpoint %s: %w", s.path, err)
	}
	return &st, nil
}

// Save writes the state, replacing any previous checkpoint.
func (s *CheckpointStore) Save(st State) error {
	if s == nil || s.path == "" {
		return nil
	}
	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return fmt.Errorf("encode checkpoint: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("write checkpoint: %w", err)
	}
	return nil
}

// Clear removes the checkpoint file if present.
func (s *CheckpointStore) Clear() error {
	if s == nil || s.path == "" {
		return nil
	}
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove checkpoint: %w", err)
	}
	return nil
}
