package crud

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/tillpoint/tillpoint/internal/platform/httpx"
)

// MemoryOptions describe how a MemoryRepository reads and stamps records.
type MemoryOptions[T any] struct {
	// Stamp returns rec with the id and timestamps set.
	Stamp  func(rec T, id int64, created, now time.Time) T
	Status func(T) string
	Match  func(rec T, search string) bool
	// Unique returns a key that must not repeat across records; empty skips.
	Unique func(T) string
}

// MemoryRepository is a process-local Repository used by tests and demos.
type MemoryRepository[T Entity] struct {
	mu      sync.RWMutex
	opts    MemoryOptions[T]
	nextID  int64
	records map[int64]T
	created map[int64]time.Time
	now     func() time.Time
}

// NewMemoryRepository builds an empty repository.
func NewMemoryRepository[T Entity](opts MemoryOptions[T]) *MemoryRepository[T] {
	return &MemoryRepository[T]{
		opts:    opts,
		records: make(map[int64]T),
		created: make(map[int64]time.Time),
		now:     func() time.Time { return time.Now().UTC() },
	}
}

func (m *MemoryRepository[T]) List(_ context.Context, filters httpx.ListFilters) ([]T, int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := make([]int64, 0, len(m.records))
	for id, rec := range m.records {
		if filters.Status != "" && m.opts.Status != nil && m.opts.Status(rec) != filters.Status {
			continue
		}
		if filters.Search != "" && m.opts.Match != nil && !m.opts.Match(rec, filters.Search) {
			continue
		}
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		if filters.SortDir == httpx.SortDesc {
			return ids[i] > ids[j]
		}
		return ids[i] < ids[j]
	})
	total := len(ids)
	if filters.Limit > 0 {
		start := min(filters.Offset(), total)
		end := min(start+filters.Limit, total)
		ids = ids[start:end]
	}
	items := make([]T, 0, len(ids))
	for _, id := range ids {
		items = append(items, m.records[id])
	}
	return items, total, nil
}

func (m *MemoryRepository[T]) Get(_ context.Context, id int64) (T, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rec, ok := m.records[id]
	if !ok {
		var zero T
		return zero, httpx.ErrNotFound
	}
	return rec, nil
}

func (m *MemoryRepository[T]) Create(_ context.Context, rec T) (T, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.checkUnique(0, rec); err != nil {
		var zero T
		return zero, err
	}
	m.nextID++
	now := m.now()
	rec = m.opts.Stamp(rec, m.nextID, now, now)
	m.records[m.nextID] = rec
	m.created[m.nextID] = now
	return rec, nil
}

func (m *MemoryRepository[T]) Update(_ context.Context, id int64, rec T) (T, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var zero T
	if _, ok := m.records[id]; !ok {
		return zero, httpx.ErrNotFound
	}
	if err := m.checkUnique(id, rec); err != nil {
		return zero, err
	}
	rec = m.opts.Stamp(rec, id, m.created[id], m.now())
	m.records[id] = rec
	return rec, nil
}

func (m *MemoryRepository[T]) Delete(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.records[id]; !ok {
		return httpx.ErrNotFound
	}
	delete(m.records, id)
	delete(m.created, id)
	return nil
}

func (m *MemoryRepository[T]) CountByStatus(context.Context) (map[string]int, int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	counts := make(map[string]int)
	for _, rec := range m.records {
		status := ""
		if m.opts.Status != nil {
			status = m.opts.Status(rec)
		}
		counts[status]++
	}
	return counts, len(m.records), nil
}

func (m *MemoryRepository[T]) checkUnique(self int64, rec T) error {
	if m.opts.Unique == nil {
		return nil
	}
	key := m.opts.Unique(rec)
	if key == "" {
		return nil
	}
	for id, other := range m.records {
		if id != self && m.opts.Unique(other) == key {
			return fmt.Errorf("%w: %s already exists", httpx.ErrConflict, key)
		}
	}
	return nil
}
