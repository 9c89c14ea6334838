package faqstore

import (
	"context"
	"sort"
	"sync"

	"github.com/ymori/visafaq/internal/domain/faq"
)

// MemoryStore is an in-memory faq.Store for tests and dev runs.
type MemoryStore struct {
	mu          sync.RWMutex
	counts      map[string]int64
	display     map[string]string
	order       []string
	unsatisfied []faq.UnsatisfiedRecord
}

// NewMemoryStore constructs an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		counts:  make(map[string]int64),
		display: make(map[string]string),
	}
}

func (s *MemoryStore) IncrementQuery(_ context.Context, canonical, display string) error {
	if canonical == "" {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, seen := s.counts[canonical]; !seen {
		s.order = append(s.order, canonical)
	}
	s.counts[canonical]++
	if display != "" {
		if _, seen := s.display[canonical]; !seen {
			s.display[canonical] = display
		}
	}
	return nil
}

func (s *MemoryStore) TopQueries(_ context.Context, limit int) ([]faq.TrendingQuery, error) {
	if limit <= 0 {
		limit = 10
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]faq.TrendingQuery, 0, len(s.counts))
	for _, canonical := range s.order {
		display := s.display[canonical]
		if display == "" {
			display = canonical
		}
		out = append(out, faq.TrendingQuery{Query: display, Count: s.counts[canonical]})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *MemoryStore) RecordUnsatisfied(_ context.Context, rec faq.UnsatisfiedRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.unsatisfied = append(s.unsatisfied, rec)
	return nil
}

func (s *MemoryStore) ListUnsatisfied(_ context.Context, limit int) ([]faq.UnsatisfiedRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	start := 0
	if len(s.unsatisfied) > limit {
		start = len(s.unsatisfied) - limit
	}
	return append([]faq.UnsatisfiedRecord(nil), s.unsatisfied[start:]...), nil
}

var _ faq.Store = (*MemoryStore)(nil)
