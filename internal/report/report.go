// Package report renders a pipeline result into the natural-language
// comparative report consumed by the translation and speech collaborators.
package report

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/seenimoa/newsvoice/pkg/models"
)

// Config controls report generation.
type Config struct {
	Company     string // company the query was about
	TopArticles int    // max articles listed in the detail section; 0 means all
}

// reportTemplate is the spoken-report body. Kept deliberately plain: the
// output goes through machine translation and TTS, where markup and tables
// do not survive.
const reportTemplate = `Comparative Analysis for {{.Company}}:
Total Articles: {{.Total}}
Positive: {{.Positive}}, Negative: {{.Negative}}, Neutral: {{.Neutral}}
Overall coverage is {{.Tone}}.
{{- if .Articles}}

Top stories by relevance:
{{- range .Articles}}
- {{.Title}} ({{.SentimentLabel}}, relevance {{printf "%.0f" .RelevanceScore}})
{{- end}}
{{- end}}
`

var tmpl = template.Must(template.New("report").Parse(reportTemplate))

// templateData is the flattened model passed to the template.
type templateData struct {
	Company  string
	Total    int
	Positive int
	Negative int
	Neutral  int
	Tone     string
	Articles []models.Article
}

// Comparative renders the comparative sentiment report for a pipeline result.
func Comparative(result *models.PipelineResult, cfg Config) (string, error) {
	company := strings.TrimSpace(cfg.Company)
	if company == "" {
		company = "the company"
	}

	articles := result.Articles
	if cfg.TopArticles > 0 && len(articles) > cfg.TopArticles {
		articles = articles[:cfg.TopArticles]
	}

	data := templateData{
		Company:  company,
		Total:    result.Summary.TotalArticles,
		Positive: result.Summary.CountsByLabel[models.SentimentPositive],
		Negative: result.Summary.CountsByLabel[models.SentimentNegative],
		Neutral:  result.Summary.CountsByLabel[models.SentimentNeutral],
		Tone:     tone(result.Summary),
		Articles: articles,
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render report: %w", err)
	}
	return buf.String(), nil
}

// tone describes the dominant label in report language.
func tone(s models.SentimentSummary) string {
	if s.TotalArticles == 0 {
		return "unavailable, no articles were analyzed"
	}
	switch s.DominantLabel {
	case models.SentimentPositive:
		return "mostly positive"
	case models.SentimentNegative:
		return "mostly negative"
	default:
		return "mostly neutral"
	}
}
