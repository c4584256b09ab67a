package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"calcform/internal/calculation"
)

// MemoryStore keeps records in process. It backs tests and throwaway runs.
type MemoryStore struct {
	mu      sync.RWMutex
	records []calculation.Calculation
	nextID  uint
	now     func() time.Time
}

type MemoryOption func(*MemoryStore)

// WithClock overrides the timestamp source used on insert.
func WithClock(now func() time.Time) MemoryOption {
	return func(s *MemoryStore) {
		s.now = now
	}
}

func NewMemoryStore(opts ...MemoryOption) *MemoryStore {
	s := &MemoryStore{
		nextID: 1,
		now:    func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *MemoryStore) Insert(ctx context.Context, c *calculation.Calculation) (uint, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if err := checkStorable(c); err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	c.ID = s.nextID
	c.CreatedAt = s.now()
	s.nextID++

	s.records = append(s.records, *c)
	return c.ID, nil
}

func (s *MemoryStore) Get(ctx context.Context, id uint) (*calculation.Calculation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := range s.records {
		if s.records[i].ID == id {
			c := s.records[i]
			return &c, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) ListRecent(ctx context.Context, limit int) ([]calculation.Calculation, error) {
	return s.List(ctx, Filter{Limit: limit})
}

func (s *MemoryStore) List(ctx context.Context, f Filter) ([]calculation.Calculation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	matched := make([]calculation.Calculation, 0, len(s.records))
	for _, c := range s.records {
		if f.matches(c) {
			matched = append(matched, c)
		}
	}
	s.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].ID > matched[j].ID
	})

	if n := f.limit(); len(matched) > n {
		matched = matched[:n]
	}
	return matched, nil
}

func (s *MemoryStore) Close() error {
	return nil
}
