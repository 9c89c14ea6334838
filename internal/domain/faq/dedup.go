package faq

import "log/slog"

// Rejection reasons recorded in the generation audit trail.
const (
	ReasonSimilarity = "similarity"
	ReasonKeywordSet = "keyword_set"
)

// DuplicateMatch describes the corpus entry a candidate collided with.
type DuplicateMatch struct {
	Question   string  `json:"question"`
	Similarity float64 `json:"similarity"`
	Reason     string  `json:"reason"`
}

// DuplicateChecker rejects near-duplicate candidate questions during a bulk
// generation run. The corpus starts as a snapshot of every known question
// (active plus pending) and grows as candidates are accepted, so duplicates
// within the same batch are caught too. A checker belongs to a single run and
// needs no locking.
type DuplicateChecker struct {
	corpus []string
	logger *slog.Logger
}

// NewDuplicateChecker seeds a checker with the comparison corpus.
func NewDuplicateChecker(seed []string, logger *slog.Logger) *DuplicateChecker {
	if logger == nil {
		logger = slog.Default()
	}
	return &DuplicateChecker{
		corpus: append([]string(nil), seed...),
		logger: logger.With("component", "faq.dedup"),
	}
}

// Check reports whether the candidate duplicates any corpus entry. At or
// above 0.85 similarity the candidate is rejected outright. Between 0.60 and
// 0.85 the important-keyword sets of both questions are compared: only exact
// set equality counts as a duplicate, so similarly phrased questions about
// different visa types survive. The first hit short-circuits.
func (c *DuplicateChecker) Check(candidate string) (DuplicateMatch, bool) {
	candidateTerms := extractImportantKeywords(candidate)

	for _, existing := range c.corpus {
		sim := ratio(candidate, existing)
		if sim >= duplicateDefiniteThreshold {
			match := DuplicateMatch{Question: existing, Similarity: sim, Reason: ReasonSimilarity}
			c.logRejection(candidate, match)
			return match, true
		}
		if sim >= duplicateAmbiguousThreshold {
			if keywordSetsEqual(candidateTerms, extractImportantKeywords(existing)) {
				match := DuplicateMatch{Question: existing, Similarity: sim, Reason: ReasonKeywordSet}
				c.logRejection(candidate, match)
				return match, true
			}
		}
	}
	return DuplicateMatch{}, false
}

// Accept adds a question to the corpus. Callers must accept every kept
// candidate before checking the next one.
func (c *DuplicateChecker) Accept(question string) {
	c.corpus = append(c.corpus, question)
}

// Size returns the current corpus size.
func (c *DuplicateChecker) Size() int {
	return len(c.corpus)
}

func (c *DuplicateChecker) logRejection(candidate string, match DuplicateMatch) {
	c.logger.Info("duplicate candidate rejected",
		"candidate", candidate,
		"matched", match.Question,
		"similarity", match.Similarity,
		"reason", match.Reason,
	)
}
