// Package errors provides sentinel errors and typed errors shared by the
// fulfillment modules, the knowledge base and the corpus scraper.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors. Check them with errors.Is.
var (
	// ErrNotFound indicates a requested record or object does not exist.
	ErrNotFound = errors.New("resource not found")

	// ErrKnowledgeBaseUnavailable indicates the corpus could not be loaded.
	ErrKnowledgeBaseUnavailable = errors.New("knowledge base unavailable")

	// ErrStoreUnavailable indicates the fulfillment store is not configured or reachable.
	ErrStoreUnavailable = errors.New("store unavailable")
)

// ScraperError describes a failed page fetch during corpus building.
type ScraperError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *ScraperError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("scraper error (url=%s, status=%d): %v", e.URL, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("scraper error (url=%s): %v", e.URL, e.Err)
}

func (e *ScraperError) Unwrap() error { return e.Err }

// NewScraperError creates a new scraper error.
func NewScraperError(url string, statusCode int, err error) *ScraperError {
	return &ScraperError{URL: url, StatusCode: statusCode, Err: err}
}
