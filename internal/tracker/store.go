package tracker

import (
	"context"
	"sync"

	"github.com/eshwarrathod01/resume-auto-apply-agent/internal/types"
)

// Store persists one session's application history in insertion order.
// Indexes are storage positions, zero-based, oldest first.
type Store interface {
	Load(ctx context.Context) ([]types.ApplicationRecord, error)
	Append(ctx context.Context, record types.ApplicationRecord) error
	SetStatus(ctx context.Context, index int, status types.Status) error
	Replace(ctx context.Context, records []types.ApplicationRecord) error
	Clear(ctx context.Context) error
}

// MemoryStore is a Store kept in process memory.
type MemoryStore struct {
	mu      sync.Mutex
	records []types.ApplicationRecord
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Load returns a copy of the stored records.
func (s *MemoryStore) Load(_ context.Context) ([]types.ApplicationRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]types.ApplicationRecord(nil), s.records...), nil
}

// Append adds record at the end.
func (s *MemoryStore) Append(_ context.Context, record types.ApplicationRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, record)
	return nil
}

// SetStatus updates the record at index.
func (s *MemoryStore) SetStatus(_ context.Context, index int, status types.Status) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if index < 0 || index >= len(s.records) {
		return ErrIndexOutOfRange
	}
	s.records[index].Status = status
	return nil
}

// Replace swaps in a copy of records.
func (s *MemoryStore) Replace(_ context.Context, records []types.ApplicationRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append([]types.ApplicationRecord(nil), records...)
	return nil
}

// Clear drops every record.
func (s *MemoryStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = nil
	return nil
}
