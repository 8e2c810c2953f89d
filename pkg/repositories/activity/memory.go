package activity

import (
	"context"
	"sort"
	"sync"
)

// MemoryArchive implements Archive in memory
type MemoryArchive struct {
	mu      sync.RWMutex
	records map[string]*Record
}

func NewMemoryArchive() *MemoryArchive {
	return &MemoryArchive{records: make(map[string]*Record)}
}

// Archive implements Archive
func (a *MemoryArchive) Archive(ctx context.Context, rec *Record) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	recCopy := *rec
	recCopy.Participants = append([]Participant(nil), rec.Participants...)
	a.records[rec.BetID] = &recCopy
	return nil
}

// Recent implements Archive
func (a *MemoryArchive) Recent(ctx context.Context, limit int) ([]*Record, error) {
	return a.recent(limit, func(*Record) bool { return true }), nil
}

// RecentBy implements Archive
func (a *MemoryArchive) RecentBy(ctx context.Context, creatorIDs []string, limit int) ([]*Record, error) {
	creators := make(map[string]bool, len(creatorIDs))
	for _, id := range creatorIDs {
		creators[id] = true
	}
	return a.recent(limit, func(rec *Record) bool { return creators[rec.CreatorID] }), nil
}

func (a *MemoryArchive) recent(limit int, keep func(*Record) bool) []*Record {
	a.mu.RLock()
	defer a.mu.RUnlock()

	all := make([]*Record, 0, len(a.records))
	for _, rec := range a.records {
		if !keep(rec) {
			continue
		}
		recCopy := *rec
		recCopy.Participants = append([]Participant(nil), rec.Participants...)
		all = append(all, &recCopy)
	}
	sort.Slice(all, func(i, j int) bool {
		return all[i].ClosedAt.After(all[j].ClosedAt)
	})

	if len(all) > limit {
		all = all[:limit]
	}
	return all
}
