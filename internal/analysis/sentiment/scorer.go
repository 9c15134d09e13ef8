// Package sentiment provides compound polarity scorers for article text.
// Scores range from -1.0 (very negative) to +1.0 (very positive); the
// pipeline layer owns the label thresholds.
package sentiment

import (
	"fmt"
	"math"
	"strings"
)

// Scorer is the capability this package implements; it mirrors the consumer
// interface in the pipeline package.
type Scorer interface {
	Score(text string) (float64, error)
}

// New returns the scorer implementation selected by name: "vader" (default)
// or "lexicon".
func New(name string) (Scorer, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "vader":
		return NewVADER(), nil
	case "lexicon":
		return NewLexicon(), nil
	default:
		return nil, fmt.Errorf("unknown sentiment scorer %q", name)
	}
}

// ------------------------------------------------------------------
// Keyword-based sentiment scorer (offline, deterministic).
// VADER (vader.go) is the default; this package-local lexicon is a
// dependency-free fallback tuned for company news headlines.
// ------------------------------------------------------------------

// positive / negative keyword dictionaries (lowercase).
var positiveWords = map[string]float64{
	"great": 0.6, "strong": 0.4, "growth": 0.4, "surge": 0.7,
	"rally": 0.6, "record": 0.5, "profit": 0.4, "beat": 0.5,
	"beats": 0.5, "upgrade": 0.6, "expansion": 0.4, "wins": 0.5,
	"positive": 0.4, "success": 0.5, "breakthrough": 0.6,
	"partnership": 0.3, "dividend": 0.3, "recovery": 0.5,
	"milestone": 0.4, "innovative": 0.4, "soars": 0.7,
}

var negativeWords = map[string]float64{
	"lawsuit": 0.7, "fraud": 0.8, "scandal": 0.7, "crash": 0.8,
	"plunge": 0.7, "layoffs": 0.6, "recall": 0.6, "downgrade": 0.6,
	"loss": 0.4, "losses": 0.4, "decline": 0.5, "weak": 0.4,
	"investigation": 0.5, "fine": 0.4, "penalty": 0.5, "negative": 0.4,
	"bankruptcy": 0.9, "default": 0.7, "warning": 0.5, "slump": 0.6,
	"cuts": 0.4, "probe": 0.5, "misses": 0.5,
}

// Lexicon is a keyword-weighted sentiment scorer. The zero value is not
// usable; construct with NewLexicon.
type Lexicon struct {
	positive map[string]float64
	negative map[string]float64
}

// NewLexicon returns a scorer backed by the built-in company-news keyword
// dictionaries.
func NewLexicon() *Lexicon {
	return &Lexicon{positive: positiveWords, negative: negativeWords}
}

// Score returns a compound polarity score for text in [-1, 1]. Text with no
// keyword signal scores 0. The error return satisfies the scorer contract;
// lexicon scoring itself cannot fail.
func (l *Lexicon) Score(text string) (float64, error) {
	lower := strings.ToLower(text)

	posScore := 0.0
	negScore := 0.0

	for word, weight := range l.positive {
		if containsWord(lower, word) {
			posScore += weight
		}
	}
	for word, weight := range l.negative {
		if containsWord(lower, word) {
			negScore += weight
		}
	}

	total := posScore + negScore
	if total == 0 {
		return 0, nil
	}

	// Net score normalized to -1..+1, damped toward zero when the keyword
	// signal is thin so a single mild word does not read as strongly polarized.
	net := (posScore - negScore) / total
	intensity := math.Min(total, 1.0)
	return net * intensity, nil
}

// containsWord reports whether text contains word as a whole token.
// Plain substring matching would score "profit" inside "nonprofit".
func containsWord(text, word string) bool {
	idx := 0
	for {
		i := strings.Index(text[idx:], word)
		if i < 0 {
			return false
		}
		start := idx + i
		end := start + len(word)
		beforeOK := start == 0 || !isWordChar(text[start-1])
		afterOK := end == len(text) || !isWordChar(text[end])
		if beforeOK && afterOK {
			return true
		}
		idx = start + 1
	}
}

func isWordChar(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9'
}
