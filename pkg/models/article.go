package models

// SentimentLabel classifies the overall sentiment of an article.
type SentimentLabel string

const (
	SentimentPositive SentimentLabel = "Positive"
	SentimentNegative SentimentLabel = "Negative"
	SentimentNeutral  SentimentLabel = "Neutral"
)

// Labels returns all sentiment labels in dominance-priority order.
// When counts tie, the earlier label wins.
func Labels() []SentimentLabel {
	return []SentimentLabel{SentimentPositive, SentimentNegative, SentimentNeutral}
}

// ScrapedArticle is a raw record as produced by scraping. Nothing about it is
// guaranteed: any field may be empty, duplicated, or garbage. Only the
// normalizer consumes this type.
type ScrapedArticle struct {
	Title       string `json:"title"`
	Summary     string `json:"summary"`
	URL         string `json:"url"`
	PublishedAt string `json:"published_at,omitempty"` // arbitrary format, as found on the page
}

// Article is the canonical, validated record flowing through the pipeline.
// Title is never empty (a placeholder is substituted), SummaryText is never
// empty (unusable records are dropped before this type exists), and SourceURL
// is either well-formed or empty. SentimentLabel and RelevanceScore are
// attached by the engine; an Article is immutable once scored.
type Article struct {
	Title          string         `json:"title"`
	SummaryText    string         `json:"summary_text"`
	SourceURL      string         `json:"source_url"`
	PublishedAt    string         `json:"published_at,omitempty"`
	SentimentLabel SentimentLabel `json:"sentiment_label"`
	RelevanceScore float64        `json:"relevance_score"` // 0..100
}

// SentimentSummary aggregates sentiment over a finite set of articles.
// Counts always sum to TotalArticles. Recomputed per invocation, never mutated.
type SentimentSummary struct {
	TotalArticles int                    `json:"total_articles"`
	CountsByLabel map[SentimentLabel]int `json:"counts_by_label"`
	DominantLabel SentimentLabel         `json:"dominant_label"`
}

// PipelineResult is the output unit of one pipeline invocation: the sorted,
// annotated article list plus the aggregate summary. Constructed once per
// query and returned to the caller; nothing is persisted.
type PipelineResult struct {
	Articles []Article        `json:"articles"`
	Summary  SentimentSummary `json:"summary"`
}

// NewSentimentSummary computes the aggregate for the given articles.
// The dominant label is the label with the highest count; ties resolve by the
// fixed priority Positive > Negative > Neutral, which also makes the empty
// summary deterministic (all-zero counts dominate as Positive).
func NewSentimentSummary(articles []Article) SentimentSummary {
	counts := map[SentimentLabel]int{
		SentimentPositive: 0,
		SentimentNegative: 0,
		SentimentNeutral:  0,
	}
	for _, a := range articles {
		counts[a.SentimentLabel]++
	}

	dominant := SentimentPositive
	for _, label := range Labels() {
		if counts[label] > counts[dominant] {
			dominant = label
		}
	}

	return SentimentSummary{
		TotalArticles: len(articles),
		CountsByLabel: counts,
		DominantLabel: dominant,
	}
}
