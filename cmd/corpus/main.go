// Command corpus scrapes the university site into the knowledge corpus file
// served by the retriever, and optionally uploads it to R2.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/anurag-chatbot/au-fulfillment/internal/config"
	"github.com/anurag-chatbot/au-fulfillment/internal/corpus"
	"github.com/anurag-chatbot/au-fulfillment/internal/data"
	"github.com/anurag-chatbot/au-fulfillment/internal/logger"
	"github.com/anurag-chatbot/au-fulfillment/internal/r2client"
	"github.com/anurag-chatbot/au-fulfillment/internal/scraper"
)

// politeDelay spaces out requests from each worker.
const politeDelay = 500 * time.Millisecond

var (
	outFlag        = flag.String("out", "", "Output file (default: AU_CORPUS_PATH); a .zst suffix enables compression")
	categoriesFlag = flag.String("categories", "", "Comma-separated categories to scrape (default: all)")
	uploadFlag     = flag.Bool("upload", false, "Upload the result to R2 under AU_CORPUS_R2_KEY")
)

func main() {
	flag.Parse()

	cfg, err := config.LoadForMode(config.CorpusMode)
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.LogLevel)
	if err := run(cfg, log); err != nil {
		log.WithError(err).Error("Corpus build failed")
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *logger.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	out := *outFlag
	if out == "" {
		out = cfg.CorpusPath
	}
	if *uploadFlag && cfg.CorpusR2Key == "" {
		return fmt.Errorf("-upload requires %s", config.EnvCorpusR2Key)
	}

	pages := corpus.FilterPages(data.AllPages(), corpus.ParseCategories(*categoriesFlag))
	if len(pages) == 0 {
		return fmt.Errorf("no pages match categories %q", *categoriesFlag)
	}
	log.WithField("pages", len(pages)).
		WithField("concurrency", cfg.ScraperConcurrency).
		Info("Starting corpus build")

	client := scraper.NewClient(cfg.ScraperTimeout, cfg.ScraperMaxRetries, config.ScraperRetryInitial)
	entries, _, err := corpus.Build(ctx, client, pages, log, corpus.Options{
		Concurrency: cfg.ScraperConcurrency,
		Delay:       politeDelay,
	})
	if err != nil {
		return err
	}

	if err := corpus.WriteFile(out, entries); err != nil {
		return err
	}
	log.WithField("path", out).WithField("entries", len(entries)).Info("Corpus written")

	if !*uploadFlag {
		return nil
	}
	r2, err := r2client.New(ctx, r2client.Config{
		AccountID:   cfg.R2AccountID,
		AccessKeyID: cfg.R2AccessKeyID,
		SecretKey:   cfg.R2SecretAccessKey,
		BucketName:  cfg.R2BucketName,
	})
	if err != nil {
		return err
	}
	uploadCtx, cancel := context.WithTimeout(ctx, config.CorpusDownload)
	defer cancel()
	etag, err := corpus.UploadFile(uploadCtx, r2, cfg.CorpusR2Key, out)
	if err != nil {
		return err
	}
	log.WithField("key", cfg.CorpusR2Key).WithField("etag", etag).Info("Corpus uploaded")
	return nil
}
