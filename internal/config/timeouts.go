package config

import "time"

// HTTP server timeouts
const (
	// RequestProcessing bounds one chat or webhook request end to end,
	// NLU call and store lookups included.
	RequestProcessing = 25 * time.Second

	HTTPRead  = 10 * time.Second
	HTTPWrite = 30 * time.Second
	HTTPIdle  = 120 * time.Second
)

// Scraper timeouts
const (
	// ScraperRequest is the timeout for a single page fetch from the university site.
	ScraperRequest = 30 * time.Second

	// ScraperRetryInitial is the first backoff delay: 2s -> 4s -> 8s ...
	ScraperRetryInitial = 2 * time.Second
)

// Store timeouts
const (
	// DatabaseBusyTimeout is the SQLite busy_timeout pragma value.
	DatabaseBusyTimeout = 5 * time.Second

	// DatabaseConnMaxLifetime is the maximum lifetime of SQLite connections.
	DatabaseConnMaxLifetime = time.Hour

	// MongoOperation is the default per-query timeout for the document store.
	MongoOperation = 5 * time.Second
)

// NLU and corpus
const (
	// NLURequest is the default timeout for one intent detection call.
	NLURequest = 10 * time.Second

	// CorpusDownload bounds fetching the corpus object from R2 at startup.
	CorpusDownload = 60 * time.Second
)

// RateLimiterCleanup is how often idle per-client buckets are dropped.
const RateLimiterCleanup = 5 * time.Minute

// ReadinessCheck bounds the store ping made by /readyz and /health.
const ReadinessCheck = 3 * time.Second

// GracefulShutdown is the default time allowed for in-flight requests on shutdown.
const GracefulShutdown = 30 * time.Second
