package sentiment

import (
	"sync"

	"github.com/jonreiter/govader"
)

// VADER scores text with the VADER lexicon-and-rules model, the same scorer
// family the report consumers were calibrated against. Empty text scores 0,
// which the pipeline classifies as Neutral by convention.
type VADER struct {
	mu       sync.Mutex
	analyzer *govader.SentimentIntensityAnalyzer
}

// NewVADER constructs a VADER scorer. The lexicon is loaded once here rather
// than through a package-level singleton so tests and callers can hold
// independent instances.
func NewVADER() *VADER {
	return &VADER{analyzer: govader.NewSentimentIntensityAnalyzer()}
}

// Score returns the VADER compound score for text in [-1, 1].
func (v *VADER) Score(text string) (float64, error) {
	if text == "" {
		return 0, nil
	}
	// The underlying analyzer mutates internal buffers while scoring.
	v.mu.Lock()
	scores := v.analyzer.PolarityScores(text)
	v.mu.Unlock()
	return scores.Compound, nil
}
