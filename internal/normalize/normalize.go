// Package normalize turns raw scraped records into canonical articles.
// It is a pure transformation: no I/O, no errors, worst case an empty output.
package normalize

import (
	"net/url"
	"strings"

	"github.com/seenimoa/newsvoice/pkg/models"
)

// PlaceholderTitle is substituted when a scraped record has usable summary
// text but no title.
const PlaceholderTitle = "No title available"

// Articles validates and cleans raw scraped records into canonical articles.
// Records whose title and summary are both empty or whitespace-only carry no
// analyzable content and are dropped silently. Input order is preserved;
// ranking happens later.
func Articles(records []models.ScrapedArticle) []models.Article {
	out := make([]models.Article, 0, len(records))
	for _, rec := range records {
		title := CollapseWhitespace(rec.Title)
		summary := CollapseWhitespace(rec.Summary)

		if title == "" && summary == "" {
			continue
		}
		if summary == "" {
			// A bare headline still carries analyzable text.
			summary = title
		}
		if title == "" {
			title = PlaceholderTitle
		}

		out = append(out, models.Article{
			Title:       title,
			SummaryText: summary,
			SourceURL:   cleanURL(rec.URL),
			PublishedAt: strings.TrimSpace(rec.PublishedAt),
		})
	}
	return out
}

// CollapseWhitespace trims the string and collapses internal runs of
// whitespace (including newlines and tabs) into single spaces.
func CollapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// cleanURL returns the trimmed URL when it parses as an absolute http(s) URL,
// otherwise the empty string. Malformed URLs are cleared, not rejected.
func cleanURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil || !u.IsAbs() || u.Host == "" {
		return ""
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return ""
	}
	return raw
}
