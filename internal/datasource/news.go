package datasource

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"
	"golang.org/x/sync/errgroup"

	"github.com/seenimoa/newsvoice/internal/config"
	"github.com/seenimoa/newsvoice/pkg/models"
)

// News fetches raw article records from configured RSS feeds and direct
// article pages. It is the scraping collaborator in front of the pipeline;
// its output carries no invariants.
type News struct {
	feeds       []config.FeedConfig
	articleURLs []string
	cache       *Cache
	limiter     *RateLimiter
	parser      *gofeed.Parser
}

// NewNews creates a news source from the sources section of the config.
func NewNews(cfg config.SourcesConfig) *News {
	ttl := time.Duration(cfg.CacheTTL) * time.Second
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	rate := cfg.RatePerSec
	if rate <= 0 {
		rate = 2
	}
	return &News{
		feeds:       cfg.Feeds,
		articleURLs: cfg.ArticleURLs,
		cache:       NewCache(ttl),
		limiter:     NewRateLimiter(rate, time.Second),
		parser:      gofeed.NewParser(),
	}
}

// Name returns the data source name.
func (n *News) Name() string { return "News" }

// Sources lists the configured feeds; used by the API sources endpoint.
func (n *News) Sources() []config.FeedConfig { return n.feeds }

// Fetch retrieves raw records from all configured sources. Individual feed or
// page failures are logged and skipped; Fetch only errors when nothing is
// configured at all.
func (n *News) Fetch(ctx context.Context) ([]models.ScrapedArticle, error) {
	if len(n.feeds) == 0 && len(n.articleURLs) == 0 {
		return nil, ErrNoSources
	}

	const cacheKey = "news:all"
	if cached, ok := n.cache.Get(cacheKey); ok {
		return cached.([]models.ScrapedArticle), nil
	}

	var mu sync.Mutex
	feedRecords := make([][]models.ScrapedArticle, len(n.feeds))
	pageRecords := make([]models.ScrapedArticle, len(n.articleURLs))
	pageOK := make([]bool, len(n.articleURLs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)

	for i, feed := range n.feeds {
		g.Go(func() error {
			records, err := n.fetchRSS(gctx, feed)
			if err != nil {
				log.Printf("news: feed %s skipped: %v", feed.Name, err)
				return nil // non-fatal
			}
			mu.Lock()
			feedRecords[i] = records
			mu.Unlock()
			return nil
		})
	}

	for i, pageURL := range n.articleURLs {
		g.Go(func() error {
			record, err := n.scrapePage(gctx, pageURL)
			if err != nil {
				log.Printf("news: page %s skipped: %v", pageURL, err)
				return nil
			}
			mu.Lock()
			pageRecords[i] = record
			pageOK[i] = true
			mu.Unlock()
			return nil
		})
	}

	_ = g.Wait()

	// Reassemble in configuration order so repeated runs over the same
	// sources feed the pipeline identically.
	var all []models.ScrapedArticle
	for _, records := range feedRecords {
		all = append(all, records...)
	}
	for i, record := range pageRecords {
		if pageOK[i] {
			all = append(all, record)
		}
	}

	n.cache.Set(cacheKey, all)
	return all, nil
}

// fetchRSS parses an RSS feed and returns raw records.
func (n *News) fetchRSS(ctx context.Context, src config.FeedConfig) ([]models.ScrapedArticle, error) {
	if err := n.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	feed, err := n.parser.ParseURLWithContext(src.URL, ctx)
	if err != nil {
		return nil, fmt.Errorf("parse RSS %s: %w", src.Name, err)
	}

	records := make([]models.ScrapedArticle, 0, len(feed.Items))
	for _, item := range feed.Items {
		rec := models.ScrapedArticle{
			Title:   item.Title,
			URL:     item.Link,
			Summary: stripHTML(item.Description),
		}
		if item.Published != "" {
			rec.PublishedAt = item.Published
		}
		records = append(records, rec)
	}

	return records, nil
}

// scrapePage fetches a single article page and extracts title, summary, and
// publication date. The summary comes from the meta description with the
// first paragraph as fallback.
func (n *News) scrapePage(ctx context.Context, pageURL string) (models.ScrapedArticle, error) {
	if err := n.limiter.Wait(ctx); err != nil {
		return models.ScrapedArticle{}, err
	}

	body, _, err := doGet(ctx, pageURL, map[string]string{"Accept": "text/html"})
	if err != nil {
		return models.ScrapedArticle{}, err
	}
	defer body.Close()

	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return models.ScrapedArticle{}, fmt.Errorf("parse HTML %s: %w", pageURL, err)
	}

	rec := models.ScrapedArticle{
		Title: strings.TrimSpace(doc.Find("title").First().Text()),
		URL:   pageURL,
	}

	if desc, ok := doc.Find(`meta[name="description"]`).Attr("content"); ok && strings.TrimSpace(desc) != "" {
		rec.Summary = strings.TrimSpace(desc)
	} else {
		rec.Summary = strings.TrimSpace(doc.Find("p").First().Text())
	}

	rec.PublishedAt = extractPublishedAt(doc)
	return rec, nil
}

// extractPublishedAt pulls a publication date from common meta tags or a
// <time> element. Returns the raw string as found; no format is assumed.
func extractPublishedAt(doc *goquery.Document) string {
	selectors := []string{
		`meta[property="article:published_time"]`,
		`meta[name="pubdate"]`,
		`meta[property="og:updated_time"]`,
	}
	for _, sel := range selectors {
		if content, ok := doc.Find(sel).Attr("content"); ok {
			if date := strings.TrimSpace(content); date != "" {
				return date
			}
		}
	}

	timeTag := doc.Find("time").First()
	if dt, ok := timeTag.Attr("datetime"); ok && strings.TrimSpace(dt) != "" {
		return strings.TrimSpace(dt)
	}
	return strings.TrimSpace(timeTag.Text())
}

// stripHTML removes HTML tags from a string using goquery. Feed descriptions
// routinely embed markup.
func stripHTML(s string) string {
	if s == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader("<body>" + s + "</body>"))
	if err != nil {
		return s
	}
	return strings.TrimSpace(doc.Text())
}
