package faq

import "context"

// EntryRepository persists the active knowledge base. The service works on an
// in-memory snapshot and writes the whole set back after mutations, matching
// the file-backed persistence model.
type EntryRepository interface {
	Load(ctx context.Context) ([]Entry, error)
	Save(ctx context.Context, entries []Entry) error
}

// PendingRepository persists the approval queue.
type PendingRepository interface {
	Load(ctx context.Context) ([]PendingEntry, error)
	Save(ctx context.Context, entries []PendingEntry) error
}
