package history

import (
	"context"
	"errors"
	"sort"
	"sync"

	model "github.com/zhouzirui/moodlens/internal/model/history"
)

// ErrEntryNotFound is returned by Get for an unknown id.
var ErrEntryNotFound = errors.New("history entry not found")

// Store persists analysis history entries.
type Store interface {
	// Append assigns the entry an ID and stores it.
	Append(ctx context.Context, entry model.Entry) (model.Entry, error)
	// List returns up to limit entries, newest first.
	List(ctx context.Context, limit int) ([]model.Entry, error)
	Get(ctx context.Context, id int64) (model.Entry, error)
	Close() error
}

// MemoryStore keeps entries in process memory; used in tests and when no database is configured.
type MemoryStore struct {
	mu      sync.RWMutex
	nextID  int64
	entries []model.Entry
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make([]model.Entry, 0, 64)}
}

func (s *MemoryStore) Append(_ context.Context, entry model.Entry) (model.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	entry.ID = s.nextID
	entry.Scores = copyScores(entry.Scores)
	s.entries = append(s.entries, entry)
	return entry, nil
}

func (s *MemoryStore) List(_ context.Context, limit int) ([]model.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Entry, len(s.entries))
	copy(out, s.entries)
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *MemoryStore) Get(_ context.Context, id int64) (model.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, e := range s.entries {
		if e.ID == id {
			return e, nil
		}
	}
	return model.Entry{}, ErrEntryNotFound
}

func (s *MemoryStore) Close() error {
	return nil
}

func copyScores(in map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
