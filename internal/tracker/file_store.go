package tracker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/eshwarrathod01/resume-auto-apply-agent/internal/types"
)

// FileStore is a Store backed by a JSON file in the exported history format.
// Every write rewrites the whole file through a temporary file and rename.
type FileStore struct {
	mu   sync.Mutex
	path string
}

// NewFileStore returns a store for path. The file is created on first write;
// a missing file loads as an empty history.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the backing file path.
func (s *FileStore) Path() string {
	return s.path
}

// Load reads the history file. A missing file is an empty history.
func (s *FileStore) Load(_ context.Context) ([]types.ApplicationRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.read()
}

// Append rewrites the file with record added at the end.
func (s *FileStore) Append(_ context.Context, record types.ApplicationRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.read()
	if err != nil {
		return err
	}
	return s.write(append(records, record))
}

// SetStatus rewrites the file with the status at index changed.
func (s *FileStore) SetStatus(_ context.Context, index int, status types.Status) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.read()
	if err != nil {
		return err
	}
	if index < 0 || index >= len(records) {
		return ErrIndexOutOfRange
	}
	records[index].Status = status
	return s.write(records)
}

// Replace overwrites the file with records.
func (s *FileStore) Replace(_ context.Context, records []types.ApplicationRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.write(records)
}

// Clear writes an empty history.
func (s *FileStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.write(nil)
}

func (s *FileStore) read() ([]types.ApplicationRecord, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return []types.ApplicationRecord{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", s.path, err)
	}

	records, err := types.ImportApplications(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.path, err)
	}
	return records, nil
}

func (s *FileStore) write(records []types.ApplicationRecord) error {
	if records == nil {
		records = []types.ApplicationRecord{}
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal applications: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".applications-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write applications: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write applications: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", s.path, err)
	}
	return nil
}
