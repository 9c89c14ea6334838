package generation

// Config tunes a generation run. Zero values are replaced with the defaults
// below.
type Config struct {
	// DefaultCount is the per-run target when the request does not set one.
	DefaultCount int
	// AttemptFactor bounds the run: at most Count*AttemptFactor candidate
	// cycles, so a corpus saturated with duplicates cannot loop forever.
	AttemptFactor int
	// PromptEntryLimit caps how many existing entries the prompt lists as
	// context for the model.
	PromptEntryLimit int
	// ReferenceTokenBudget caps the reference-document blob embedded in the
	// prompt, counted in model tokens.
	ReferenceTokenBudget int
}

const (
	defaultCount           = 5
	defaultAttemptFactor   = 3
	defaultPromptEntries   = 10
	defaultReferenceBudget = 2000
)

func (c Config) withDefaults() Config {
	if c.DefaultCount <= 0 {
		c.DefaultCount = defaultCount
	}
	if c.AttemptFactor <= 0 {
		c.AttemptFactor = defaultAttemptFactor
	}
	if c.PromptEntryLimit <= 0 {
		c.PromptEntryLimit = defaultPromptEntries
	}
	if c.ReferenceTokenBudget <= 0 {
		c.ReferenceTokenBudget = defaultReferenceBudget
	}
	return c
}
