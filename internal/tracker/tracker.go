// Package tracker keeps the append-only history of submitted applications.
package tracker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/eshwarrathod01/resume-auto-apply-agent/internal/types"
)

var (
	// ErrIndexOutOfRange is returned when an index does not name a record.
	ErrIndexOutOfRange = errors.New("application index out of range")
	// ErrInvalidStatus is returned for statuses outside the known set.
	ErrInvalidStatus = errors.New("invalid application status")
)

// Event types published on every mutation.
const (
	EventApplicationAdded     = "application_added"
	EventStatusUpdated        = "status_updated"
	EventApplicationsCleared  = "applications_cleared"
	EventApplicationsImported = "applications_imported"
)

// Event describes a change to the history.
type Event struct {
	Type    string                   `json:"type"`
	Index   int                      `json:"index"`
	Record  *types.ApplicationRecord `json:"record,omitempty"`
	Summary Summary                  `json:"summary"`
}

// Notifier receives events after a mutation has been persisted. Publish is
// called with the tracker locked and must not block or call back into it.
type Notifier interface {
	Publish(event Event)
}

// Summary counts records per status and per platform.
type Summary struct {
	Total      int                  `json:"total"`
	ByStatus   map[types.Status]int `json:"byStatus"`
	ByPlatform map[string]int       `json:"byPlatform"`
}

// Filter narrows a listing. Zero values match everything.
type Filter struct {
	Status   types.Status
	Platform string
}

// Entry is a record as shown to a user, newest first.
type Entry struct {
	DisplayIndex int                     `json:"displayIndex"`
	Index        int                     `json:"index"`
	Record       types.ApplicationRecord `json:"record"`
}

// Tracker is the application history of one session. Records are kept in
// insertion order, never merged and never removed individually. All methods
// are safe for concurrent use; mutations are serialized.
type Tracker struct {
	mu       sync.Mutex
	records  []types.ApplicationRecord
	store    Store
	notifier Notifier
}

// New returns an empty tracker backed by store. A nil store keeps the
// history in memory only.
func New(store Store) *Tracker {
	if store == nil {
		store = NewMemoryStore()
	}
	return &Tracker{store: store}
}

// Open returns a tracker primed with the records already in store.
func Open(ctx context.Context, store Store) (*Tracker, error) {
	t := New(store)
	records, err := t.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load applications: %w", err)
	}
	t.records = records
	return t, nil
}

// SetNotifier registers the receiver of change events. Pass nil to stop.
func (t *Tracker) SetNotifier(n Notifier) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.notifier = n
}

// Add appends a record and returns its storage index. New records always
// start as Applied, whatever status they carry; later statuses go through
// UpdateStatus, or Replace for imported histories.
func (t *Tracker) Add(ctx context.Context, record types.ApplicationRecord) (int, error) {
	record.Status = types.StatusApplied

	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.store.Append(ctx, record); err != nil {
		return 0, fmt.Errorf("failed to store application: %w", err)
	}
	t.records = append(t.records, record)
	index := len(t.records) - 1
	t.publishLocked(EventApplicationAdded, index, &record)
	return index, nil
}

// UpdateStatus changes the status of the record at storage index.
func (t *Tracker) UpdateStatus(ctx context.Context, index int, status types.Status) error {
	if !status.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if index < 0 || index >= len(t.records) {
		return fmt.Errorf("%w: %d (have %d)", ErrIndexOutOfRange, index, len(t.records))
	}
	if err := t.store.SetStatus(ctx, index, status); err != nil {
		return fmt.Errorf("failed to store status: %w", err)
	}
	t.records[index].Status = status
	record := t.records[index]
	t.publishLocked(EventStatusUpdated, index, &record)
	return nil
}

// Clear removes every record.
func (t *Tracker) Clear(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.store.Clear(ctx); err != nil {
		return fmt.Errorf("failed to clear applications: %w", err)
	}
	t.records = nil
	t.publishLocked(EventApplicationsCleared, -1, nil)
	return nil
}

// Len returns the number of records.
func (t *Tracker) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.records)
}

// List returns a copy of the records in insertion order.
func (t *Tracker) List() []types.ApplicationRecord {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]types.ApplicationRecord{}, t.records...)
}

// Summary counts the records. Every known status is present, possibly zero.
func (t *Tracker) Summary() Summary {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.summaryLocked()
}

func (t *Tracker) summaryLocked() Summary {
	s := Summary{
		Total:      len(t.records),
		ByStatus:   make(map[types.Status]int, len(types.Statuses())),
		ByPlatform: make(map[string]int),
	}
	for _, status := range types.Statuses() {
		s.ByStatus[status] = 0
	}
	for _, r := range t.records {
		s.ByStatus[r.Status]++
		s.ByPlatform[r.Platform]++
	}
	return s
}

// Filter lists matching records newest first, each with its display position
// and storage index.
func (t *Tracker) Filter(f Filter) []Entry {
	t.mu.Lock()
	defer t.mu.Unlock()

	entries := []Entry{}
	for i := len(t.records) - 1; i >= 0; i-- {
		r := t.records[i]
		if f.Status != "" && r.Status != f.Status {
			continue
		}
		if f.Platform != "" && !strings.EqualFold(r.Platform, f.Platform) {
			continue
		}
		entries = append(entries, Entry{DisplayIndex: len(entries), Index: i, Record: r})
	}
	return entries
}

// DisplayToStorageIndex converts a position in the newest-first listing to
// the storage index expected by UpdateStatus.
func (t *Tracker) DisplayToStorageIndex(displayIndex int) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	n := len(t.records)
	if displayIndex < 0 || displayIndex >= n {
		return 0, fmt.Errorf("%w: %d (have %d)", ErrIndexOutOfRange, displayIndex, n)
	}
	return n - 1 - displayIndex, nil
}

// Export encodes the history as an indented JSON array in insertion order.
func (t *Tracker) Export() ([]byte, error) {
	records := t.List()
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal applications: %w", err)
	}
	return data, nil
}

// Import replaces the history with an exported document. On failure the
// history is unchanged and the error wraps types.ErrImportFailed.
func (t *Tracker) Import(ctx context.Context, data []byte) error {
	records, err := types.ImportApplications(data)
	if err != nil {
		return err
	}
	return t.Replace(ctx, records)
}

// Replace swaps the whole history for records, keeping their order.
func (t *Tracker) Replace(ctx context.Context, records []types.ApplicationRecord) error {
	for i, r := range records {
		if !r.Status.Valid() {
			return fmt.Errorf("%w: record %d has status %q", ErrInvalidStatus, i, r.Status)
		}
	}
	records = append([]types.ApplicationRecord(nil), records...)

	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.store.Replace(ctx, records); err != nil {
		return fmt.Errorf("failed to store applications: %w", err)
	}
	t.records = records
	t.publishLocked(EventApplicationsImported, -1, nil)
	return nil
}

func (t *Tracker) publishLocked(eventType string, index int, record *types.ApplicationRecord) {
	if t.notifier == nil {
		return
	}
	t.notifier.Publish(Event{
		Type:    eventType,
		Index:   index,
		Record:  record,
		Summary: t.summaryLocked(),
	})
}
