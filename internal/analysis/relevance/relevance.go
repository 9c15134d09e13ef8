// Package relevance scores how well an article's text matches a query
// string. Scores are on a 0..100 scale; higher is more relevant.
package relevance

import (
	fuzzy "github.com/paul-mannino/go-fuzzywuzzy"
)

// Fuzzy scores relevance with token-set fuzzy matching, so word order and
// repeated tokens in the article text do not dilute a query hit.
type Fuzzy struct{}

// NewFuzzy returns the default fuzzy relevance scorer.
func NewFuzzy() *Fuzzy {
	return &Fuzzy{}
}

// Similarity returns the token-set ratio between query and text in [0, 100].
// The error return satisfies the scorer contract; fuzzy matching itself
// cannot fail.
func (f *Fuzzy) Similarity(query, text string) (float64, error) {
	if query == "" || text == "" {
		return 0, nil
	}
	return float64(fuzzy.TokenSetRatio(query, text)), nil
}
