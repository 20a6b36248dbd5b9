// Package history persists invocation outcomes so automation runs can be
// audited after the session is gone. Stores are append-only from the
// dispatcher's point of view.
package history

import (
	"context"
	"sort"
	"sync"
	"time"
)

// Record is the persisted outcome of one tool invocation.
type Record struct {
	InvocationID   string         `json:"invocation_id"`
	SessionID      string         `json:"session_id"`
	Tool           string         `json:"tool"`
	Operation      string         `json:"operation,omitempty"`
	Status         string         `json:"status"`
	Planned        bool           `json:"planned,omitempty"`
	Output         map[string]any `json:"output,omitempty"`
	FailureKind    string         `json:"failure_kind,omitempty"`
	FailureMessage string         `json:"failure_message,omitempty"`
	StartedAt      time.Time      `json:"started_at"`
	Elapsed        time.Duration  `json:"elapsed,omitempty"`
}

// Store abstracts persistence for CLI (SQLite) and test (memory) modes.
type Store interface {
	Append(ctx context.Context, rec Record) error
	BySession(ctx context.Context, sessionID string) ([]Record, error)
	Close() error
}

// MemoryStore keeps records in memory. It is safe for concurrent use.
type MemoryStore struct {
	mu      sync.RWMutex
	records []Record
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Append stores a copy of the record.
func (s *MemoryStore) Append(_ context.Context, rec Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, rec)
	return nil
}

// BySession returns the session's records ordered by start time.
func (s *MemoryStore) BySession(_ context.Context, sessionID string) ([]Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Record
	for _, rec := range s.records {
		if rec.SessionID == sessionID {
			out = append(out, rec)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].StartedAt.Before(out[j].StartedAt)
	})
	return out, nil
}

// Len returns the total number of stored records.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// Close is a no-op for the memory store.
func (s *MemoryStore) Close() error {
	return nil
}
