// Package app provides application initialization and lifecycle management.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/anurag-chatbot/au-fulfillment/internal/bot"
	"github.com/anurag-chatbot/au-fulfillment/internal/buildinfo"
	"github.com/anurag-chatbot/au-fulfillment/internal/config"
	"github.com/anurag-chatbot/au-fulfillment/internal/genai"
	"github.com/anurag-chatbot/au-fulfillment/internal/logger"
	"github.com/anurag-chatbot/au-fulfillment/internal/metrics"
	"github.com/anurag-chatbot/au-fulfillment/internal/modules/course"
	"github.com/anurag-chatbot/au-fulfillment/internal/modules/hostel"
	"github.com/anurag-chatbot/au-fulfillment/internal/modules/partner"
	"github.com/anurag-chatbot/au-fulfillment/internal/modules/placement"
	"github.com/anurag-chatbot/au-fulfillment/internal/modules/scholarship"
	"github.com/anurag-chatbot/au-fulfillment/internal/r2client"
	"github.com/anurag-chatbot/au-fulfillment/internal/rag"
	"github.com/anurag-chatbot/au-fulfillment/internal/ratelimit"
	"github.com/anurag-chatbot/au-fulfillment/internal/sentry"
	"github.com/anurag-chatbot/au-fulfillment/internal/storage"
	"github.com/anurag-chatbot/au-fulfillment/internal/webhook"
)

const serviceName = "au-fulfillment"

// SampleSeed as the seed file loads the built-in sample fixture.
const SampleSeed = "sample"

// Corpus load retry backoff.
const (
	corpusRetryInitial = 5 * time.Second
	corpusRetryMax     = 5 * time.Minute
)

// Application manages the application lifecycle and dependencies.
type Application struct {
	cfg         *config.Config
	logger      *logger.Logger
	store       storage.Store
	metrics     *metrics.Metrics
	registry    *prometheus.Registry
	detector    genai.Detector // nil when no NLU provider is configured
	knowledge   *rag.KnowledgeBase
	processor   *bot.Processor
	handler     *webhook.Handler
	line        *webhook.LineHandler // nil when LINE is not configured
	chatLimiter *ratelimit.Limiter
	lineLimiter *ratelimit.Limiter
	server      *http.Server
	wg          sync.WaitGroup // background jobs
}

// Initialize creates and initializes a new application with all dependencies.
// Only configuration-level problems are fatal; an unreachable store or a
// missing corpus leave the service running in a degraded mode.
func Initialize(ctx context.Context, cfg *config.Config) (*Application, error) {
	log := logger.NewWithOptions(cfg.LogLevel, os.Stdout, logger.Options{
		BetterStackToken:    cfg.BetterStackToken,
		BetterStackEndpoint: cfg.BetterStackEndpoint,
	})
	log = log.WithField("service", serviceName)
	if host, err := os.Hostname(); err == nil && host != "" {
		log = log.WithField("instance_id", host)
	}
	// Package-level slog.*Context calls go through the same handler chain.
	slog.SetDefault(log.Logger)

	log.WithField("version", buildinfo.String()).Info("Initializing application...")

	release := cfg.SentryRelease
	if release == "" {
		release = buildinfo.Version
	}
	if err := sentry.Initialize(sentry.Config{
		DSN:              cfg.SentryDSN,
		Environment:      cfg.SentryEnvironment,
		Release:          release,
		SampleRate:       cfg.SentrySampleRate,
		TracesSampleRate: cfg.SentryTracesSampleRate,
	}); err != nil {
		log.WithError(err).Warn("Sentry initialization failed")
	} else if sentry.IsEnabled() {
		log.WithField("environment", cfg.SentryEnvironment).Info("Sentry error reporting enabled")
	}

	registry := metrics.NewRegistry()
	m := metrics.New(registry)

	store := openStore(ctx, cfg, log)

	source, err := corpusSource(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("corpus source: %w", err)
	}
	knowledge := rag.NewKnowledgeBase(source, log.WithModule("rag"), m)

	if !cfg.HasNLUProvider() {
		log.Warn("No NLU provider API key configured; chat uses keywords and the knowledge base only")
	}
	detector, err := genai.NewDetector(ctx, detectorConfig(cfg), m)
	if err != nil {
		log.WithError(err).Warn("Intent detector initialization failed; NLU disabled")
		detector = nil
	}
	var botDetector bot.Detector
	if detector != nil {
		botDetector = detector
		log.WithField("provider", detector.Provider()).Info("NLU enabled")
	}

	processor := bot.NewProcessor(bot.ProcessorConfig{
		Registry:      NewBotRegistry(store, m, log),
		Detector:      botDetector,
		Retriever:     rag.NewRetriever(knowledge, log.WithModule("rag"), m),
		Logger:        log,
		Metrics:       m,
		MinConfidence: cfg.NLUMinConfidence,
	})

	chatLimiter := ratelimit.New(ratelimit.Config{
		Name:          bot.EntryChat,
		Burst:         cfg.ChatRateBurst,
		RefillRate:    cfg.ChatRateRefill,
		CleanupPeriod: config.RateLimiterCleanup,
		Metrics:       m,
	})

	a := &Application{
		cfg:         cfg,
		logger:      log,
		store:       store,
		metrics:     m,
		registry:    registry,
		detector:    detector,
		knowledge:   knowledge,
		processor:   processor,
		chatLimiter: chatLimiter,
		handler: webhook.NewHandler(webhook.HandlerConfig{
			Processor: processor,
			Limiter:   chatLimiter,
			Metrics:   m,
			Logger:    log,
		}),
	}

	if cfg.LineEnabled() {
		a.lineLimiter = ratelimit.New(ratelimit.Config{
			Name:          webhook.EntryLine,
			Burst:         cfg.ChatRateBurst,
			RefillRate:    cfg.ChatRateRefill,
			CleanupPeriod: config.RateLimiterCleanup,
			Metrics:       m,
		})
		a.line, err = webhook.NewLineHandler(webhook.LineConfig{
			ChannelSecret: cfg.LineChannelSecret,
			ChannelToken:  cfg.LineChannelToken,
			Processor:     processor,
			Limiter:       a.lineLimiter,
			Metrics:       m,
			Logger:        log,
		})
		if err != nil {
			return nil, fmt.Errorf("line: %w", err)
		}
		log.Info("LINE channel enabled")
	}

	if cfg.LogLevel == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	a.server = &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           a.newRouter(),
		ReadHeaderTimeout: config.HTTPRead,
		ReadTimeout:       config.HTTPRead,
		WriteTimeout:      config.HTTPWrite,
		IdleTimeout:       config.HTTPIdle,
	}

	log.Info("Initialization complete")
	return a, nil
}

// NewBotRegistry registers the fact lookup handlers in keyword priority
// order behind the recovery and logging middlewares.
func NewBotRegistry(store storage.Store, m *metrics.Metrics, log *logger.Logger) *bot.Registry {
	registry := bot.NewRegistry(
		bot.RecoveryMiddleware(log, m),
		bot.LoggingMiddleware(log),
	)
	registry.Register(course.NewHandler(store, m, log))
	registry.Register(hostel.NewHandler(store, m, log))
	registry.Register(placement.NewHandler(store, m, log))
	registry.Register(scholarship.NewHandler(store, m, log))
	registry.Register(partner.NewHandler(store, m, log))
	return registry
}

// openStore connects the configured store. Failures are logged and
// replaced by storage.Unavailable so the rest of the service keeps working.
func openStore(ctx context.Context, cfg *config.Config, log *logger.Logger) storage.Store {
	switch cfg.StoreDriver {
	case config.StoreSQLite:
		db, err := storage.New(ctx, cfg.SQLitePath())
		if err != nil {
			log.WithError(err).Error("SQLite store unavailable; fact lookups will apologize")
			return &storage.Unavailable{Cause: err}
		}
		if err := seedStore(ctx, db, cfg.SeedFile); err != nil {
			log.WithError(err).WithField("seed_file", cfg.SeedFile).Warn("Failed to seed SQLite store")
		}
		log.WithField("path", cfg.SQLitePath()).Info("SQLite store connected")
		return db
	default:
		s, err := storage.NewMongoStore(ctx, storage.MongoOptions{
			URI:      cfg.MongoURI,
			Database: cfg.MongoDatabase,
			Timeout:  cfg.MongoTimeout,
		})
		if err != nil {
			log.WithError(err).Error("MongoDB unavailable; fact lookups will apologize")
			return &storage.Unavailable{Cause: err}
		}
		log.WithField("database", cfg.MongoDatabase).Info("MongoDB connected")
		return s
	}
}

func seedStore(ctx context.Context, db *storage.DB, seedFile string) error {
	if seedFile == "" {
		return nil
	}
	var (
		f   *storage.Fixture
		err error
	)
	if seedFile == SampleSeed {
		f, err = storage.SampleFixture()
	} else {
		f, err = storage.LoadFixture(seedFile)
	}
	if err != nil {
		return err
	}
	return db.Seed(ctx, f)
}

// corpusSource picks R2 when a corpus key is configured, the local file otherwise.
func corpusSource(ctx context.Context, cfg *config.Config) (rag.Source, error) {
	if cfg.CorpusR2Key == "" {
		return rag.FileSource{Path: cfg.CorpusPath}, nil
	}
	client, err := r2client.New(ctx, r2client.Config{
		AccountID:   cfg.R2AccountID,
		AccessKeyID: cfg.R2AccessKeyID,
		SecretKey:   cfg.R2SecretAccessKey,
		BucketName:  cfg.R2BucketName,
	})
	if err != nil {
		return nil, err
	}
	return rag.R2Source{Client: client, Key: cfg.CorpusR2Key}, nil
}

func detectorConfig(cfg *config.Config) genai.Config {
	providers := make([]genai.Provider, 0, len(cfg.NLUProviders))
	for _, p := range cfg.NLUProviders {
		providers = append(providers, genai.Provider(p))
	}
	return genai.Config{
		Providers: providers,
		Gemini:    genai.ProviderConfig{APIKey: cfg.GeminiAPIKey, Model: cfg.GeminiModel},
		Groq:      genai.ProviderConfig{APIKey: cfg.GroqAPIKey, Model: cfg.GroqModel},
		Cerebras:  genai.ProviderConfig{APIKey: cfg.CerebrasAPIKey, Model: cfg.CerebrasModel},
		Timeout:   cfg.NLUTimeout,
	}
}

// Run starts background jobs and the HTTP server, then blocks until
// SIGINT/SIGTERM or a server failure and shuts down gracefully.
func (a *Application) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a.wg.Go(func() {
		a.loadCorpus(ctx)
	})
	serverErr := a.startHTTPServer()

	var runErr error
	select {
	case sig := <-a.shutdownSignal():
		a.logger.WithField("signal", sig.String()).Info("Received shutdown signal")
	case runErr = <-serverErr:
		a.logger.WithError(runErr).Error("HTTP server error")
	}

	cancel()
	a.wg.Wait()

	if err := a.shutdown(); err != nil && runErr == nil {
		runErr = err
	}
	return runErr
}

func (a *Application) startHTTPServer() <-chan error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.WithField("port", a.cfg.Port).Info("Starting HTTP server")
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
	return errCh
}

func (a *Application) shutdownSignal() <-chan os.Signal {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	return quit
}

// loadCorpus loads the knowledge corpus, retrying with backoff until it
// succeeds or ctx ends. The retriever answers "unavailable" meanwhile.
func (a *Application) loadCorpus(ctx context.Context) {
	delay := corpusRetryInitial
	for {
		loadCtx, cancel := context.WithTimeout(ctx, config.CorpusDownload)
		c, err := a.knowledge.Load(loadCtx)
		cancel()
		if err == nil && !c.Empty() {
			return
		}
		if err == nil {
			a.logger.Warn("Knowledge corpus is empty")
		}

		a.logger.WithField("retry_in", delay.String()).Info("Knowledge corpus not loaded; will retry")
		select {
		case <-ctx.Done():
			return
		case <-time.After(delay):
		}
		delay = min(delay*2, corpusRetryMax)
	}
}

func (a *Application) shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()

	a.logger.Info("Stopping HTTP server...")
	if err := a.server.Shutdown(ctx); err != nil {
		a.logger.WithError(err).Error("HTTP server shutdown error")
	}

	if a.line != nil {
		a.logger.Info("Waiting for LINE events to complete...")
		if err := a.line.Shutdown(ctx); err != nil {
			a.logger.WithError(err).Warn("LINE handler shutdown timeout")
		}
	}

	a.logger.Info("Closing resources...")
	a.chatLimiter.Stop()
	a.lineLimiter.Stop()

	if a.detector != nil {
		if err := a.detector.Close(); err != nil {
			a.logger.WithError(err).WithField("component", "intent_detector").Error("Component close error")
		}
	}
	if err := a.store.Close(); err != nil {
		a.logger.WithError(err).WithField("component", "store").Error("Component close error")
	}

	sentry.Flush(2 * time.Second)

	if dropped := a.logger.Dropped(); dropped > 0 {
		a.logger.WithField("dropped", dropped).Warn("Remote log shipping dropped records")
	}
	a.logger.Info("Shutdown complete")
	if err := a.logger.Shutdown(ctx); err != nil {
		return fmt.Errorf("logger shutdown: %w", err)
	}
	return nil
}
