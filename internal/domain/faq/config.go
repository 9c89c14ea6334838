package faq

// Search and confirmation thresholds. The two values are independent knobs:
// the keyword score is unclamped, so a strong tag match can lift an entry
// with low lexical similarity past the confirmation threshold.
const (
	// DefaultSearchThreshold is the minimum combined score for a match to
	// appear in search results.
	DefaultSearchThreshold = 0.3
	// ConfirmThreshold separates direct answers from "did you mean"
	// confirmations. A score of exactly 0.7 answers directly.
	ConfirmThreshold = 0.7

	// Duplicate detection bands used during bulk generation.
	duplicateDefiniteThreshold  = 0.85
	duplicateAmbiguousThreshold = 0.60

	// Similar-entry review weighting for the admin duplicate screen.
	reviewSimilarityWeight = 0.7
	reviewKeywordWeight    = 0.3
	// DefaultReviewThreshold filters the admin similar-entry listing.
	DefaultReviewThreshold = 0.6
	// DefaultReviewLimit caps how many similar entries are surfaced.
	DefaultReviewLimit = 5
)

// NoMatchMessage is returned verbatim when no entry clears the search
// threshold. A miss is a defined outcome, not a failure.
const NoMatchMessage = "申し訳ございませんが、該当する質問が見つかりませんでした。より具体的に質問していただくか、お電話でお問い合わせください。"

// Config holds runtime knobs for the FAQ service.
type Config struct {
	SearchThreshold  float64
	ConfirmThreshold float64
	NoMatchMessage   string
}

// withDefaults fills unset knobs with the tuned production values.
func (c Config) withDefaults() Config {
	if c.SearchThreshold == 0 {
		c.SearchThreshold = DefaultSearchThreshold
	}
	if c.ConfirmThreshold == 0 {
		c.ConfirmThreshold = ConfirmThreshold
	}
	if c.NoMatchMessage == "" {
		c.NoMatchMessage = NoMatchMessage
	}
	return c
}
