package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"clearwater/contexts/moderation-safety/moderation-log-service/domain/entities"
	domainerrors "clearwater/contexts/moderation-safety/moderation-log-service/domain/errors"
)

// Store is the in-memory log repository for tests and DSN-less dev.
// One mutex covers insert+count, which gives the escalation sequence its
// atomicity; ids are monotonic and survive deletions unreused.
type Store struct {
	mu      sync.RWMutex
	entries map[int64]entities.LogEntry
	lastID  int64
}

func NewStore() *Store {
	return &Store{
		entries: map[int64]entities.LogEntry{},
	}
}

func (s *Store) Insert(_ context.Context, entry entities.LogEntry, now time.Time) (entities.LogEntry, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastID++
	entry.ID = s.lastID
	entry.CreatedAt = now.UTC()
	s.entries[entry.ID] = entry

	count := 0
	for _, existing := range s.entries {
		if existing.Automated() {
			continue
		}
		if strings.EqualFold(existing.TargetName, entry.TargetName) {
			count++
		}
	}
	return entry, count, nil
}

func (s *Store) List(_ context.Context, limit int) ([]entities.LogEntry, error) {
	s.mu.RLock()
	items := make([]entities.LogEntry, 0, len(s.entries))
	for _, entry := range s.entries {
		items = append(items, entry)
	}
	s.mu.RUnlock()

	sort.Slice(items, func(i, j int) bool {
		if items[i].Pinned != items[j].Pinned {
			return items[i].Pinned
		}
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

func (s *Store) Complete(_ context.Context, id int64, completedBy string, completedByID string, now time.Time) (entities.LogEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[id]
	if !ok {
		return entities.LogEntry{}, domainerrors.ErrEntryNotFound
	}
	if entry.ActionKind != entities.ActionActiveBanBolo {
		return entities.LogEntry{}, domainerrors.ErrInvalidTransition
	}

	completedAt := now.UTC()
	entry.ActionKind = entities.ActionBan
	entry.Completed = true
	entry.Pinned = false
	entry.CompletedBy = completedBy
	entry.CompletedByID = completedByID
	entry.CompletedAt = &completedAt
	s.entries[id] = entry
	return entry, nil
}

func (s *Store) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.entries[id]; !ok {
		return domainerrors.ErrEntryNotFound
	}
	delete(s.entries, id)
	return nil
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}
