package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// JSONFile implements Storage backed by a single JSON array on disk.
type JSONFile struct {
	path string
}

// NewJSONFile creates a JSONFile store at path, creating the parent
// directory if needed.
func NewJSONFile(path string) (*JSONFile, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("create data directory: %w", err)
		}
	}
	return &JSONFile{path: path}, nil
}

// Load reads the persisted id list. A missing file is not an error and
// yields an empty set.
func (s *JSONFile) Load(_ context.Context) ([]string, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read cache: %w", err)
	}
	var ids []string
	if err := json.Unmarshal(data, &ids); err != nil {
		return nil, fmt.Errorf("decode cache: %w", err)
	}
	return ids, nil
}

// Save overwrites the persisted id list. The write goes to a temporary
// file first so a crash mid-write cannot corrupt the previous state.
func (s *JSONFile) Save(_ context.Context, ids []string) error {
	if ids == nil {
		ids = []string{}
	}
	data, err := json.Marshal(ids)
	if err != nil {
		return fmt.Errorf("encode cache: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write cache: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace cache: %w", err)
	}
	return nil
}

// Close is a no-op; the file is only held open during Load and Save.
func (s *JSONFile) Close() error { return nil }
