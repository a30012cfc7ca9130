// Package corpus builds the knowledge corpus by scraping the university
// site page by page.
package corpus

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/sync/errgroup"

	"github.com/anurag-chatbot/au-fulfillment/internal/data"
	"github.com/anurag-chatbot/au-fulfillment/internal/logger"
	"github.com/anurag-chatbot/au-fulfillment/internal/metrics"
	"github.com/anurag-chatbot/au-fulfillment/internal/rag"
	"github.com/anurag-chatbot/au-fulfillment/internal/scraper"
	"github.com/anurag-chatbot/au-fulfillment/internal/sliceutil"
)

// ErrNoEntries is returned when every page failed or came back empty.
var ErrNoEntries = errors.New("corpus: no pages scraped")

// Fetcher downloads and parses one page.
type Fetcher interface {
	GetDocument(ctx context.Context, url string) (*goquery.Document, error)
}

// Stats tracks build statistics.
// All fields use atomic operations for concurrent access.
type Stats struct {
	Scraped atomic.Int64
	Empty   atomic.Int64
	Failed  atomic.Int64
}

// Options configures a build.
type Options struct {
	Concurrency int              // Parallel page fetches; values below 1 mean 1
	Delay       time.Duration    // Pause before each fetch, per worker
	Metrics     *metrics.Metrics // Optional
}

// Build scrapes pages into knowledge entries in page order. A page that
// fails or has no readable text is logged and skipped; the build only fails
// when ctx ends or nothing was scraped.
func Build(ctx context.Context, fetcher Fetcher, pages []data.Page, log *logger.Logger, opts Options) ([]rag.KnowledgeEntry, *Stats, error) {
	stats := &Stats{}
	start := time.Now()
	pages = sliceutil.Deduplicate(pages, func(p data.Page) string { return p.URL })

	results := make([]*rag.KnowledgeEntry, len(pages))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(opts.Concurrency, 1))

	for i, page := range pages {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := scraper.Sleep(gctx, opts.Delay); err != nil {
				return err
			}
			entry, err := scrapePage(gctx, fetcher, page, log, opts.Metrics)
			switch {
			case err != nil:
				if gctx.Err() != nil {
					return gctx.Err()
				}
				stats.Failed.Add(1)
			case entry == nil:
				stats.Empty.Add(1)
			default:
				stats.Scraped.Add(1)
				results[i] = entry
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, stats, fmt.Errorf("corpus build canceled: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, stats, fmt.Errorf("corpus build canceled: %w", err)
	}

	entries := make([]rag.KnowledgeEntry, 0, len(results))
	for _, e := range results {
		if e != nil {
			entries = append(entries, *e)
		}
	}

	log.WithField("duration", time.Since(start).String()).
		WithField("pages", len(pages)).
		WithField("scraped", stats.Scraped.Load()).
		WithField("empty", stats.Empty.Load()).
		WithField("failed", stats.Failed.Load()).
		Info("Corpus build complete")

	if len(entries) == 0 {
		return nil, stats, ErrNoEntries
	}
	return entries, stats, nil
}

// scrapePage returns nil, nil when the page has no readable text.
func scrapePage(ctx context.Context, fetcher Fetcher, page data.Page, log *logger.Logger, m *metrics.Metrics) (*rag.KnowledgeEntry, error) {
	start := time.Now()
	doc, err := fetcher.GetDocument(ctx, page.URL)
	if err != nil {
		m.RecordScraperRequest(page.Category, "error", time.Since(start).Seconds())
		log.WithError(err).
			WithField("category", page.Category).
			WithField("url", page.URL).
			Warn("Failed to fetch page")
		return nil, err
	}

	content := scraper.ExtractText(doc)
	if content == "" {
		m.RecordScraperRequest(page.Category, "empty", time.Since(start).Seconds())
		log.WithField("url", page.URL).Warn("Page has no readable text")
		return nil, nil
	}

	m.RecordScraperRequest(page.Category, "success", time.Since(start).Seconds())
	log.WithField("category", page.Category).
		WithField("url", page.URL).
		WithField("chars", len(content)).
		Debug("Scraped page")
	return &rag.KnowledgeEntry{Category: page.Category, URL: page.URL, Content: content}, nil
}

// FilterPages keeps pages whose category is in categories, compared
// case-insensitively. An empty list keeps every page.
func FilterPages(pages []data.Page, categories []string) []data.Page {
	if len(categories) == 0 {
		return pages
	}
	var out []data.Page
	for _, p := range pages {
		for _, c := range categories {
			if strings.EqualFold(p.Category, c) {
				out = append(out, p)
				break
			}
		}
	}
	return out
}

// ParseCategories converts a comma-separated string to a category list.
func ParseCategories(s string) []string {
	var result []string
	for c := range strings.SplitSeq(s, ",") {
		c = strings.TrimSpace(c)
		if c != "" {
			result = append(result, c)
		}
	}
	return result
}
