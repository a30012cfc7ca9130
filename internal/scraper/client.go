// Package scraper fetches university web pages and reduces them to plain
// text for the knowledge corpus.
package scraper

import (
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/corpix/uarand"

	"github.com/anurag-chatbot/au-fulfillment/internal/errors"
)

// Client is an HTTP client for polite page scraping with retries.
type Client struct {
	httpClient   *http.Client
	maxRetries   int
	initialDelay time.Duration
	userAgent    func() string
}

// NewClient creates a scraper client. initialDelay is the first retry backoff.
func NewClient(timeout time.Duration, maxRetries int, initialDelay time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		maxRetries:   maxRetries,
		initialDelay: initialDelay,
		userAgent:    uarand.GetRandom,
	}
}

// Get performs a GET request with retries.
// Caller is responsible for closing the response body.
func (c *Client) Get(ctx context.Context, url string) (*http.Response, error) {
	var resp *http.Response

	err := RetryWithBackoff(ctx, c.maxRetries, c.initialDelay, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return Permanent(fmt.Errorf("failed to create request: %w", err))
		}
		req.Header.Set("User-Agent", c.userAgent())
		req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
		req.Header.Set("Accept-Language", "en-IN,en;q=0.9")
		req.Header.Set("Accept-Encoding", "gzip")

		r, err := c.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("request failed: %w", err)
		}

		if r.StatusCode < 200 || r.StatusCode >= 300 {
			_ = r.Body.Close()
			scrapeErr := errors.NewScraperError(url, r.StatusCode, fmt.Errorf("%s", http.StatusText(r.StatusCode)))
			switch r.StatusCode {
			case http.StatusNotFound, http.StatusForbidden, http.StatusUnauthorized:
				return Permanent(scrapeErr)
			default:
				return scrapeErr
			}
		}

		resp = r
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// GetDocument performs a GET request and parses the response as HTML.
func (c *Client) GetDocument(ctx context.Context, url string) (*goquery.Document, error) {
	resp, err := c.Get(ctx, url)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	var reader io.Reader = resp.Body
	if resp.Header.Get("Content-Encoding") == "gzip" {
		gz, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to decompress gzip: %w", err)
		}
		defer func() { _ = gz.Close() }()
		reader = gz
	}

	doc, err := goquery.NewDocumentFromReader(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}
	return doc, nil
}
