package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"clearwater/contexts/moderation-safety/activity-service/domain/entities"
)

// Store is the in-memory activity feed for tests and DSN-less dev.
type Store struct {
	mu       sync.RWMutex
	entries  map[string]entities.ActivityEntry
	sequence uint64
}

func NewStore() *Store {
	return &Store{
		entries: map[string]entities.ActivityEntry{},
	}
}

func (s *Store) Append(_ context.Context, entry entities.ActivityEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.entries[entry.ID]; exists {
		// Replayed event: keep the first write.
		return nil
	}
	s.entries[entry.ID] = entry
	return nil
}

func (s *Store) List(_ context.Context, limit int) ([]entities.ActivityEntry, error) {
	s.mu.RLock()
	items := make([]entities.ActivityEntry, 0, len(s.entries))
	for _, entry := range s.entries {
		items = append(items, entry)
	}
	s.mu.RUnlock()

	sort.Slice(items, func(i, j int) bool {
		if !items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].CreatedAt.After(items[j].CreatedAt)
		}
		return items[i].ID > items[j].ID
	})
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items, nil
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return fmt.Sprintf("activity-%d", atomic.AddUint64(&s.sequence, 1)), nil
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}
