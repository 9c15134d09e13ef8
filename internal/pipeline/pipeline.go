// Package pipeline implements the relevance ranking and sentiment
// aggregation engine. It consumes normalized articles, annotates each with a
// sentiment label and a relevance score through pluggable scorer
// capabilities, sorts by relevance, and aggregates a comparative summary.
package pipeline

import (
	"context"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/seenimoa/newsvoice/internal/normalize"
	"github.com/seenimoa/newsvoice/pkg/models"
)

// Sentiment classification thresholds on the compound polarity score.
// The dead zone around zero is deliberate; existing reports depend on the
// exact boundary values.
const (
	PositiveThreshold = 0.05
	NegativeThreshold = -0.05
)

// SentimentScorer maps text to a compound polarity score in [-1, 1].
// Implementations must be deterministic for identical input.
type SentimentScorer interface {
	Score(text string) (float64, error)
}

// RelevanceScorer maps (query, candidate text) to a similarity score
// in [0, 100].
type RelevanceScorer interface {
	Similarity(query, text string) (float64, error)
}

// StageFunc receives progress notifications as the engine moves through its
// stages. Optional; used by the API layer to stream progress over WebSocket.
type StageFunc func(stage string, detail map[string]any)

// Engine wires the two scorer capabilities into the processing pipeline.
// An Engine is safe for concurrent use as long as its scorers are.
type Engine struct {
	sentiment SentimentScorer
	relevance RelevanceScorer
	workers   int
	onStage   StageFunc
}

// Option configures an Engine.
type Option func(*Engine)

// WithWorkers bounds the scorer fan-out. Values below 1 fall back to the
// default of 4.
func WithWorkers(n int) Option {
	return func(e *Engine) {
		if n >= 1 {
			e.workers = n
		}
	}
}

// WithStageFunc registers a progress callback.
func WithStageFunc(fn StageFunc) Option {
	return func(e *Engine) { e.onStage = fn }
}

// NewEngine constructs an engine around the given scorer capabilities.
func NewEngine(sentiment SentimentScorer, relevance RelevanceScorer, opts ...Option) *Engine {
	e := &Engine{
		sentiment: sentiment,
		relevance: relevance,
		workers:   4,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// scored holds one article's annotation, addressable by its original index so
// parallel scoring cannot perturb the documented tie-break order.
type scored struct {
	article models.Article
	ok      bool
}

// Process annotates, ranks, and aggregates the given articles against query.
// Articles whose scorer call fails are excluded rather than failing the
// batch; the worst case is an empty result with a zero-count summary, which
// is not an error. The returned result is freshly allocated per call.
func (e *Engine) Process(ctx context.Context, articles []models.Article, query string) (*models.PipelineResult, error) {
	query = strings.TrimSpace(query)
	emptyQuery := query == ""

	e.notify("scoring", map[string]any{"articles": len(articles)})

	results := make([]scored, len(articles))

	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)
	for i, art := range articles {
		g.Go(func() error {
			annotated, err := e.scoreOne(art, query, emptyQuery)
			if err != nil {
				// Unscoreable: drop this article, keep its siblings.
				return nil
			}
			results[i] = scored{article: annotated, ok: true}
			return nil
		})
	}
	// Workers never return errors; Wait is for completion only.
	_ = g.Wait()

	kept := make([]models.Article, 0, len(results))
	for _, r := range results {
		if r.ok {
			kept = append(kept, r.article)
		}
	}

	e.notify("ranking", map[string]any{"scored": len(kept)})

	// Stable: equal relevance keeps normalizer order, which is an observable
	// contract, not an implementation detail.
	sort.SliceStable(kept, func(i, j int) bool {
		return kept[i].RelevanceScore > kept[j].RelevanceScore
	})

	summary := models.NewSentimentSummary(kept)

	e.notify("aggregated", map[string]any{
		"total":    summary.TotalArticles,
		"dominant": summary.DominantLabel,
	})

	return &models.PipelineResult{Articles: kept, Summary: summary}, nil
}

// ProcessRaw is the caller boundary: it normalizes raw scraped records and
// runs them through the engine in one call.
func (e *Engine) ProcessRaw(ctx context.Context, records []models.ScrapedArticle, query string) (*models.PipelineResult, error) {
	return e.Process(ctx, normalize.Articles(records), query)
}

// scoreOne attaches the sentiment label and relevance score to one article.
func (e *Engine) scoreOne(art models.Article, query string, emptyQuery bool) (models.Article, error) {
	compound, err := e.sentiment.Score(art.SummaryText)
	if err != nil {
		return models.Article{}, err
	}
	art.SentimentLabel = Classify(compound)

	if emptyQuery {
		// No ranking signal; similarity against an empty query is undefined.
		art.RelevanceScore = 0
		return art, nil
	}

	rel, err := e.relevance.Similarity(query, art.Title+" "+art.SummaryText)
	if err != nil {
		return models.Article{}, err
	}
	art.RelevanceScore = clamp(rel, 0, 100)
	return art, nil
}

// Classify maps a compound polarity score onto a sentiment label using the
// fixed thresholds. Exactly 0.05 is Positive and exactly -0.05 is Negative.
func Classify(compound float64) models.SentimentLabel {
	switch {
	case compound >= PositiveThreshold:
		return models.SentimentPositive
	case compound <= NegativeThreshold:
		return models.SentimentNegative
	default:
		return models.SentimentNeutral
	}
}

func (e *Engine) notify(stage string, detail map[string]any) {
	if e.onStage != nil {
		e.onStage(stage, detail)
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
