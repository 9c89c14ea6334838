package faqrepo

import (
	"context"
	"sync"

	"github.com/ymori/visafaq/internal/domain/faq"
)

// MemoryRepository keeps the knowledge base in memory, for tests and dev runs
// without a data directory.
type MemoryRepository struct {
	mu      sync.RWMutex
	entries []faq.Entry
	pending []faq.PendingEntry
}

// NewMemoryRepository constructs an empty in-memory repository. The same
// value serves as both the entry and the pending repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{}
}

func (r *MemoryRepository) Load(context.Context) ([]faq.Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]faq.Entry(nil), r.entries...), nil
}

func (r *MemoryRepository) Save(_ context.Context, entries []faq.Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append([]faq.Entry(nil), entries...)
	return nil
}

// Pending returns a PendingRepository view over the same store.
func (r *MemoryRepository) Pending() faq.PendingRepository {
	return (*memoryPending)(r)
}

type memoryPending MemoryRepository

func (r *memoryPending) Load(context.Context) ([]faq.PendingEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]faq.PendingEntry(nil), r.pending...), nil
}

func (r *memoryPending) Save(_ context.Context, pending []faq.PendingEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pending = append([]faq.PendingEntry(nil), pending...)
	return nil
}

var (
	_ faq.EntryRepository   = (*MemoryRepository)(nil)
	_ faq.PendingRepository = (*memoryPending)(nil)
)
