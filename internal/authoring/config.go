package authoring

// Config controls a Suggester.
type Config struct {
	// Count is how many new distractors to ask for.
	Count int

	MaxTokens   int
	Temperature float64

	// MaxCatalog caps the number of candidate books listed in the prompt.
	// Zero lists the whole corpus.
	MaxCatalog int
}

// DefaultConfig returns the settings used by `litguess corpus suggest`.
func DefaultConfig() Config {
	return Config{
		Count:       5,
		MaxTokens:   512,
		Temperature: 0.4,
		MaxCatalog:  200,
	}
}
