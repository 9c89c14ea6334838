package faq

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/ymori/visafaq/pkg/errors"
)

// Service exposes the FAQ knowledge base: matching, the approval queue and
// the feedback log.
type Service interface {
	// Reload hydrates the in-memory sets from the repositories.
	Reload(ctx context.Context) error

	// Search ranks active entries against the user question. A non-positive
	// threshold falls back to the configured search threshold.
	Search(question string, threshold float64) []MatchResult
	// BestAnswer applies the confirmation policy to the top search result.
	BestAnswer(ctx context.Context, question string) Answer
	// SimilarEntries surfaces likely duplicates of a question for review.
	SimilarEntries(question string) []MatchResult

	Entries() []Entry
	AddEntry(ctx context.Context, entry Entry) error
	EditEntry(ctx context.Context, index int, upd EntryUpdate) error
	DeleteEntry(ctx context.Context, index int) error

	Pending() []PendingEntry
	PendingByID(id string) (PendingEntry, bool)
	AddPending(ctx context.Context, entry Entry, originQuestion string) (PendingEntry, error)
	ApprovePending(ctx context.Context, id string) error
	RejectPending(ctx context.Context, id string) error
	EditPending(ctx context.Context, id string, upd EntryUpdate) error

	// KnownQuestions snapshots every active and pending question text. Bulk
	// generation seeds its duplicate checker from this.
	KnownQuestions() []string

	RecordUnsatisfied(ctx context.Context, rec UnsatisfiedRecord) error
	Unsatisfied(ctx context.Context, limit int) ([]UnsatisfiedRecord, error)
	Trending(ctx context.Context) ([]TrendingQuery, error)
}

type service struct {
	cfg         Config
	repo        EntryRepository
	pendingRepo PendingRepository
	store       Store
	logger      *slog.Logger

	mu      sync.RWMutex
	entries []Entry
	pending []PendingEntry
}

// NewService wires up the FAQ domain. Call Reload before serving to hydrate
// the in-memory sets from the repositories.
func NewService(cfg Config, repo EntryRepository, pendingRepo PendingRepository, store Store, logger *slog.Logger) Service {
	return &service{
		cfg:         cfg.withDefaults(),
		repo:        repo,
		pendingRepo: pendingRepo,
		store:       store,
		logger:      logger.With("component", "faq.service"),
	}
}

func (s *service) Reload(ctx context.Context) error {
	entries, err := s.repo.Load(ctx)
	if err != nil {
		return apperrors.Wrap(apperrors.CodeRepository, "load entries", err)
	}
	pending, err := s.pendingRepo.Load(ctx)
	if err != nil {
		return apperrors.Wrap(apperrors.CodeRepository, "load pending queue", err)
	}
	s.mu.Lock()
	s.entries = entries
	s.pending = pending
	s.mu.Unlock()
	s.logger.Info("knowledge base loaded", "entries", len(entries), "pending", len(pending))
	return nil
}

func (s *service) Search(question string, threshold float64) []MatchResult {
	if threshold <= 0 {
		threshold = s.cfg.SearchThreshold
	}
	return rankEntries(s.snapshotEntries(), question, threshold)
}

func (s *service) BestAnswer(ctx context.Context, question string) Answer {
	results := s.Search(question, s.cfg.SearchThreshold)
	if len(results) == 0 {
		return Answer{Text: s.cfg.NoMatchMessage}
	}

	if err := s.store.IncrementQuery(ctx, normalizeQuestion(question), strings.TrimSpace(question)); err != nil {
		s.logger.Warn("query stats increment failed", "error", err)
	}

	best := results[0]
	if best.Combined < s.cfg.ConfirmThreshold {
		return Answer{NeedsConfirmation: true, Match: &best}
	}
	return Answer{Text: best.Entry.Answer, Match: &best}
}

func (s *service) SimilarEntries(question string) []MatchResult {
	return reviewSimilar(s.snapshotEntries(), question, DefaultReviewThreshold, DefaultReviewLimit)
}

func (s *service) Entries() []Entry {
	return s.snapshotEntries()
}

// snapshotEntries copies the active set so callers can rank without holding
// the lock. EditEntry and DeleteEntry mutate the backing array in place, so
// handing out the live slice header would race with concurrent searches.
func (s *service) snapshotEntries() []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Entry(nil), s.entries...)
}

func (s *service) AddEntry(ctx context.Context, entry Entry) error {
	validated, err := NewEntry(entry.Question, entry.Answer, entry.Keywords, entry.Category)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.entries = append(s.entries, validated)
	snapshot := append([]Entry(nil), s.entries...)
	s.mu.Unlock()
	return s.saveEntries(ctx, snapshot)
}

func (s *service) EditEntry(ctx context.Context, index int, upd EntryUpdate) error {
	s.mu.Lock()
	if index < 0 || index >= len(s.entries) {
		s.mu.Unlock()
		return apperrors.Wrap(apperrors.CodeNotFound, "no entry at index", nil)
	}
	applyUpdate(&s.entries[index], upd)
	snapshot := append([]Entry(nil), s.entries...)
	s.mu.Unlock()
	return s.saveEntries(ctx, snapshot)
}

func (s *service) DeleteEntry(ctx context.Context, index int) error {
	s.mu.Lock()
	if index < 0 || index >= len(s.entries) {
		s.mu.Unlock()
		return apperrors.Wrap(apperrors.CodeNotFound, "no entry at index", nil)
	}
	s.entries = append(s.entries[:index], s.entries[index+1:]...)
	snapshot := append([]Entry(nil), s.entries...)
	s.mu.Unlock()
	return s.saveEntries(ctx, snapshot)
}

func (s *service) Pending() []PendingEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]PendingEntry(nil), s.pending...)
}

func (s *service) PendingByID(id string) (PendingEntry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.pending {
		if p.ID == id {
			return p, true
		}
	}
	return PendingEntry{}, false
}

func (s *service) AddPending(ctx context.Context, entry Entry, originQuestion string) (PendingEntry, error) {
	validated, err := NewEntry(entry.Question, entry.Answer, entry.Keywords, entry.Category)
	if err != nil {
		return PendingEntry{}, err
	}
	item := PendingEntry{
		Entry:          validated,
		ID:             uuid.NewString()[:8],
		CreatedAt:      time.Now(),
		OriginQuestion: strings.TrimSpace(originQuestion),
	}
	s.mu.Lock()
	s.pending = append(s.pending, item)
	snapshot := append([]PendingEntry(nil), s.pending...)
	s.mu.Unlock()
	if err := s.savePending(ctx, snapshot); err != nil {
		return PendingEntry{}, err
	}
	s.logger.Info("pending entry queued", "id", item.ID, "question", item.Question)
	return item, nil
}

func (s *service) ApprovePending(ctx context.Context, id string) error {
	s.mu.Lock()
	idx := s.pendingIndexLocked(id)
	if idx < 0 {
		s.mu.Unlock()
		return apperrors.Wrap(apperrors.CodeNotFound, "no pending entry with id "+id, nil)
	}
	approved := s.pending[idx]
	s.entries = append(s.entries, approved.Entry)
	s.pending = append(s.pending[:idx], s.pending[idx+1:]...)
	entrySnapshot := append([]Entry(nil), s.entries...)
	pendingSnapshot := append([]PendingEntry(nil), s.pending...)
	s.mu.Unlock()

	if err := s.saveEntries(ctx, entrySnapshot); err != nil {
		return err
	}
	if err := s.savePending(ctx, pendingSnapshot); err != nil {
		return err
	}
	s.logger.Info("pending entry approved", "id", id, "question", approved.Question)
	return nil
}

func (s *service) RejectPending(ctx context.Context, id string) error {
	s.mu.Lock()
	idx := s.pendingIndexLocked(id)
	if idx < 0 {
		s.mu.Unlock()
		return apperrors.Wrap(apperrors.CodeNotFound, "no pending entry with id "+id, nil)
	}
	rejected := s.pending[idx]
	s.pending = append(s.pending[:idx], s.pending[idx+1:]...)
	snapshot := append([]PendingEntry(nil), s.pending...)
	s.mu.Unlock()

	if err := s.savePending(ctx, snapshot); err != nil {
		return err
	}
	s.logger.Info("pending entry rejected", "id", id, "question", rejected.Question)
	return nil
}

func (s *service) EditPending(ctx context.Context, id string, upd EntryUpdate) error {
	s.mu.Lock()
	idx := s.pendingIndexLocked(id)
	if idx < 0 {
		s.mu.Unlock()
		return apperrors.Wrap(apperrors.CodeNotFound, "no pending entry with id "+id, nil)
	}
	applyUpdate(&s.pending[idx].Entry, upd)
	snapshot := append([]PendingEntry(nil), s.pending...)
	s.mu.Unlock()
	return s.savePending(ctx, snapshot)
}

func (s *service) KnownQuestions() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.entries)+len(s.pending))
	for _, e := range s.entries {
		out = append(out, e.Question)
	}
	for _, p := range s.pending {
		out = append(out, p.Question)
	}
	return out
}

func (s *service) RecordUnsatisfied(ctx context.Context, rec UnsatisfiedRecord) error {
	if strings.TrimSpace(rec.UserQuestion) == "" {
		return apperrors.Wrap(apperrors.CodeInvalidInput, "user question cannot be empty", nil)
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}
	if err := s.store.RecordUnsatisfied(ctx, rec); err != nil {
		return apperrors.Wrap(apperrors.CodeStore, "record unsatisfied answer", err)
	}
	return nil
}

func (s *service) Unsatisfied(ctx context.Context, limit int) ([]UnsatisfiedRecord, error) {
	recs, err := s.store.ListUnsatisfied(ctx, limit)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeStore, "load unsatisfied records", err)
	}
	return recs, nil
}

func (s *service) Trending(ctx context.Context) ([]TrendingQuery, error) {
	recs, err := s.store.TopQueries(ctx, 10)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeStore, "load trending queries", err)
	}
	return recs, nil
}

func (s *service) pendingIndexLocked(id string) int {
	for i, p := range s.pending {
		if p.ID == id {
			return i
		}
	}
	return -1
}

func (s *service) saveEntries(ctx context.Context, snapshot []Entry) error {
	if err := s.repo.Save(ctx, snapshot); err != nil {
		return apperrors.Wrap(apperrors.CodeRepository, "save entries", err)
	}
	return nil
}

func (s *service) savePending(ctx context.Context, snapshot []PendingEntry) error {
	if err := s.pendingRepo.Save(ctx, snapshot); err != nil {
		return apperrors.Wrap(apperrors.CodeRepository, "save pending queue", err)
	}
	return nil
}

// applyUpdate follows the original edit semantics: question, answer and
// category only change to non-blank values; keywords may be cleared.
func applyUpdate(entry *Entry, upd EntryUpdate) {
	if upd.Question != nil && strings.TrimSpace(*upd.Question) != "" {
		entry.Question = strings.TrimSpace(*upd.Question)
	}
	if upd.Answer != nil && strings.TrimSpace(*upd.Answer) != "" {
		entry.Answer = strings.TrimSpace(*upd.Answer)
	}
	if upd.Keywords != nil {
		entry.Keywords = strings.TrimSpace(*upd.Keywords)
	}
	if upd.Category != nil && strings.TrimSpace(*upd.Category) != "" {
		entry.Category = strings.TrimSpace(*upd.Category)
	}
}

var _ Service = (*service)(nil)
