package faq

import (
	"strings"
	"time"

	apperrors "github.com/ymori/visafaq/pkg/errors"
)

// DefaultCategory is assigned when an entry arrives without one.
const DefaultCategory = "一般"

// Entry is a curated question/answer pair in the active knowledge base.
// Identity is positional: the index within the active set.
type Entry struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
	Keywords string `json:"keywords"` // semicolon-delimited tags
	Category string `json:"category"`
}

// NewEntry validates and normalizes the fields of a knowledge-base entry.
func NewEntry(question, answer, keywords, category string) (Entry, error) {
	question = strings.TrimSpace(question)
	answer = strings.TrimSpace(answer)
	if question == "" {
		return Entry{}, apperrors.Wrap(apperrors.CodeInvalidInput, "entry question cannot be empty", nil)
	}
	if answer == "" {
		return Entry{}, apperrors.Wrap(apperrors.CodeInvalidInput, "entry answer cannot be empty", nil)
	}
	category = strings.TrimSpace(category)
	if category == "" {
		category = DefaultCategory
	}
	return Entry{
		Question: question,
		Answer:   answer,
		Keywords: strings.TrimSpace(keywords),
		Category: category,
	}, nil
}

// PendingEntry is a generated or user-submitted entry awaiting review. It
// never overlaps with the active set: approval copies it into the active set
// and removes it from the queue.
type PendingEntry struct {
	Entry
	ID                string    `json:"id"`
	CreatedAt         time.Time `json:"createdAt"`
	OriginQuestion    string    `json:"originQuestion,omitempty"`
	NeedsConfirmation bool      `json:"needsConfirmation,omitempty"`
	ReviewerComment   string    `json:"reviewerComment,omitempty"`
}

// MatchResult is produced per scoring call and never persisted.
type MatchResult struct {
	Entry        Entry   `json:"entry"`
	Index        int     `json:"index"`
	Similarity   float64 `json:"similarity"`
	KeywordScore float64 `json:"keywordScore"`
	Combined     float64 `json:"combined"`
}

// Answer is the outcome of the confirmation policy: either a direct answer
// text, or a candidate match the caller should present as "did you mean X?".
type Answer struct {
	NeedsConfirmation bool         `json:"needsConfirmation"`
	Text              string       `json:"text,omitempty"`
	Match             *MatchResult `json:"match,omitempty"`
}

// EntryUpdate carries optional field changes for edit operations. Nil fields
// are left untouched.
type EntryUpdate struct {
	Question *string `json:"question"`
	Answer   *string `json:"answer"`
	Keywords *string `json:"keywords"`
	Category *string `json:"category"`
}

// TrendingQuery represents a frequently asked question.
type TrendingQuery struct {
	Query string `json:"query"`
	Count int64  `json:"count"`
}

// UnsatisfiedRecord captures feedback about an answer the user rejected.
type UnsatisfiedRecord struct {
	UserQuestion    string    `json:"userQuestion"`
	MatchedQuestion string    `json:"matchedQuestion"`
	MatchedAnswer   string    `json:"matchedAnswer"`
	CreatedAt       time.Time `json:"createdAt"`
}
