package generation

import (
	"strings"

	"github.com/ymori/visafaq/internal/domain/faq"
	apperrors "github.com/ymori/visafaq/pkg/errors"
	"github.com/ymori/visafaq/pkg/metrics"
)

// Candidate is a proposed FAQ entry produced by a CandidateSource.
type Candidate struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
	Keywords string `json:"keywords"`
	Category string `json:"category"`
}

func (c Candidate) validate() error {
	if strings.TrimSpace(c.Question) == "" {
		return apperrors.Wrap(apperrors.CodeGeneration, "candidate question is empty", nil)
	}
	if strings.TrimSpace(c.Answer) == "" {
		return apperrors.Wrap(apperrors.CodeGeneration, "candidate answer is empty", nil)
	}
	return nil
}

// Input carries everything a CandidateSource needs for one attempt. Prompt is
// pre-built by the domain; sources that cannot consume free text (the
// rule-based fallback) key off Category and Attempt instead.
type Input struct {
	Prompt   string
	Category string
	Attempt  int
}

// GenerateRequest parameterizes a bulk generation run.
type GenerateRequest struct {
	// Count is the target number of accepted candidates. Non-positive values
	// fall back to the configured default.
	Count    int
	Category string
	// Stop is polled at the top of every candidate cycle. When it reports
	// true the run ends early with a partial report and no error.
	Stop func() bool
}

// Rejection is one audit record for a candidate the duplicate checker refused.
type Rejection struct {
	Candidate Candidate          `json:"candidate"`
	Match     faq.DuplicateMatch `json:"match"`
}

// GenerateReport summarizes a bulk generation run.
type GenerateReport struct {
	Accepted    []faq.PendingEntry `json:"accepted"`
	Rejected    []Rejection        `json:"rejected"`
	Attempts    int                `json:"attempts"`
	Interrupted bool               `json:"interrupted,omitempty"`
	Usage       metrics.TokenUsage `json:"usage"`
}
