package generation

import (
	"context"
	"log/slog"
	"strings"

	"github.com/ymori/visafaq/internal/domain/faq"
	apperrors "github.com/ymori/visafaq/pkg/errors"
	"github.com/ymori/visafaq/pkg/metrics"
)

// GeneratedCategory marks entries produced by a generation run so reviewers
// can tell them from hand-written ones.
const GeneratedCategory = "AI生成"

// CandidateSource produces one FAQ candidate per call.
type CandidateSource interface {
	Next(ctx context.Context, input Input) (Candidate, metrics.TokenUsage, error)
}

// ReferenceLoader assembles the reference-document blob embedded in prompts.
// Implementations live in internal/infra/refdocs.
type ReferenceLoader interface {
	Load(ctx context.Context) (string, error)
}

// Service runs bulk candidate generation and feedback-driven improvement.
// Everything it produces lands in the pending queue, never in the active set.
type Service interface {
	Generate(ctx context.Context, req GenerateRequest) (GenerateReport, error)
	// Improve turns an unsatisfied-answer record into a reworked pending
	// entry tied back to the original question.
	Improve(ctx context.Context, rec faq.UnsatisfiedRecord) (faq.PendingEntry, error)
}

type service struct {
	cfg    Config
	faqSvc faq.Service
	source CandidateSource
	refs   ReferenceLoader
	logger *slog.Logger
}

// NewService wires the generation domain. refs may be nil when no reference
// documents are configured.
func NewService(cfg Config, faqSvc faq.Service, source CandidateSource, refs ReferenceLoader, logger *slog.Logger) Service {
	return &service{
		cfg:    cfg.withDefaults(),
		faqSvc: faqSvc,
		source: source,
		refs:   refs,
		logger: logger.With("component", "generation.service"),
	}
}

func (s *service) Generate(ctx context.Context, req GenerateRequest) (GenerateReport, error) {
	count := req.Count
	if count <= 0 {
		count = s.cfg.DefaultCount
	}

	reference := s.loadReference(ctx)
	existing := s.faqSvc.Entries()
	checker := faq.NewDuplicateChecker(s.faqSvc.KnownQuestions(), s.logger)

	var report GenerateReport
	maxAttempts := count * s.cfg.AttemptFactor

	for report.Attempts < maxAttempts && len(report.Accepted) < count {
		if req.Stop != nil && req.Stop() {
			report.Interrupted = true
			break
		}
		if ctx.Err() != nil {
			report.Interrupted = true
			break
		}
		report.Attempts++

		prompt := buildPrompt(existing, req.Category, reference, s.cfg.PromptEntryLimit, s.cfg.ReferenceTokenBudget)
		candidate, usage, err := s.source.Next(ctx, Input{
			Prompt:   prompt,
			Category: req.Category,
			Attempt:  report.Attempts,
		})
		report.Usage.Add(usage)
		if err != nil {
			if ctx.Err() != nil {
				report.Interrupted = true
				break
			}
			s.logger.Warn("candidate generation failed", "attempt", report.Attempts, "error", err)
			continue
		}
		if err := candidate.validate(); err != nil {
			s.logger.Warn("candidate discarded", "attempt", report.Attempts, "error", err)
			continue
		}

		if match, dup := checker.Check(candidate.Question); dup {
			report.Rejected = append(report.Rejected, Rejection{Candidate: candidate, Match: match})
			continue
		}

		item, err := s.faqSvc.AddPending(ctx, faq.Entry{
			Question: candidate.Question,
			Answer:   candidate.Answer,
			Keywords: candidate.Keywords,
			Category: candidateCategory(candidate, req.Category),
		}, "")
		if err != nil {
			return report, apperrors.Wrap(apperrors.CodeGeneration, "queue accepted candidate", err)
		}
		checker.Accept(item.Question)
		report.Accepted = append(report.Accepted, item)
	}

	s.logger.Info("generation run finished",
		"accepted", len(report.Accepted),
		"rejected", len(report.Rejected),
		"attempts", report.Attempts,
		"interrupted", report.Interrupted,
		"tokens", report.Usage.TotalTokens,
	)
	return report, nil
}

// Improve skips the duplicate checker on purpose: the point is to rework a
// question that is already known, and the reviewer decides whether the rework
// replaces the old entry.
func (s *service) Improve(ctx context.Context, rec faq.UnsatisfiedRecord) (faq.PendingEntry, error) {
	if strings.TrimSpace(rec.UserQuestion) == "" {
		return faq.PendingEntry{}, apperrors.Wrap(apperrors.CodeInvalidInput, "user question cannot be empty", nil)
	}

	candidate, _, err := s.source.Next(ctx, Input{
		Prompt:  buildImprovementPrompt(rec),
		Attempt: 1,
	})
	if err != nil {
		return faq.PendingEntry{}, apperrors.Wrap(apperrors.CodeGeneration, "improvement generation failed", err)
	}
	if err := candidate.validate(); err != nil {
		return faq.PendingEntry{}, err
	}

	item, err := s.faqSvc.AddPending(ctx, faq.Entry{
		Question: candidate.Question,
		Answer:   candidate.Answer,
		Keywords: candidate.Keywords,
		Category: candidateCategory(candidate, ""),
	}, rec.UserQuestion)
	if err != nil {
		return faq.PendingEntry{}, err
	}
	s.logger.Info("improvement queued", "id", item.ID, "origin", rec.UserQuestion)
	return item, nil
}

func (s *service) loadReference(ctx context.Context) string {
	if s.refs == nil {
		return ""
	}
	reference, err := s.refs.Load(ctx)
	if err != nil {
		s.logger.Warn("reference documents unavailable", "error", err)
		return ""
	}
	return reference
}

func candidateCategory(c Candidate, requested string) string {
	if cat := strings.TrimSpace(c.Category); cat != "" {
		return cat
	}
	if requested != "" {
		return requested
	}
	return GeneratedCategory
}

var _ Service = (*service)(nil)
