// Package output reads and writes the flat JSON pair lists that chain
// the pipeline stages together.
package output

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fixminer/fixminer-go/internal/mining"
)

// WritePairs serializes pairs as an indented JSON list, creating the
// parent directory when needed. An empty slice writes "[]" so a
// downstream stage always finds a readable artifact.
func WritePairs(path string, pairs []mining.Pair) error {
	if pairs == nil {
		pairs = []mining.Pair{}
	}

	data, err := json.MarshalIndent(pairs, "", "  ")
	if err != nil {
		return fmt.Errorf("encode pairs: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// ReadPairs loads a pair list written by an earlier stage.
func ReadPairs(path string) ([]mining.Pair, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	var pairs []mining.Pair
	if err := json.Unmarshal(data, &pairs); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return pairs, nil
}
