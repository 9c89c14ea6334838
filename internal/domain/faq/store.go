package faq

import "context"

// Store keeps query-frequency statistics and the unsatisfied-answer audit
// log. Both are best-effort: the service logs store failures and keeps going.
type Store interface {
	IncrementQuery(ctx context.Context, canonical, display string) error
	TopQueries(ctx context.Context, limit int) ([]TrendingQuery, error)
	RecordUnsatisfied(ctx context.Context, rec UnsatisfiedRecord) error
	ListUnsatisfied(ctx context.Context, limit int) ([]UnsatisfiedRecord, error)
}
