package history

import (
	"context"
	"sync"

	"github.com/Beastbaba/Gateguide/pkg/assist"
)

// MemoryHistory is an in-memory assist.History, used by the local entrypoint
// and tests. Newest entries sit at the front.
type MemoryHistory struct {
	mu         sync.RWMutex
	entries    []assist.Notification
	maxEntries int
}

// NewMemoryHistory creates a capped in-memory history.
func NewMemoryHistory(maxEntries int) *MemoryHistory {
	if maxEntries <= 0 {
		maxEntries = 100
	}
	return &MemoryHistory{maxEntries: maxEntries}
}

func (s *MemoryHistory) Append(_ context.Context, n assist.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = append([]assist.Notification{n}, s.entries...)
	if len(s.entries) > s.maxEntries {
		s.entries = s.entries[:s.maxEntries]
	}
	return nil
}

func (s *MemoryHistory) Recent(_ context.Context, limit int) ([]assist.Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 || limit > len(s.entries) {
		limit = len(s.entries)
	}
	out := make([]assist.Notification, limit)
	copy(out, s.entries[:limit])
	return out, nil
}
