// Package config provides application configuration management.
// It loads settings from environment variables (optionally seeded from a
// .env file) and validates them for the server or corpus builder mode.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// DefaultPort is the HTTP port used when AU_PORT is unset.
const DefaultPort = "8080"

// Store drivers.
const (
	StoreMongo  = "mongo"
	StoreSQLite = "sqlite"
)

// NLU provider names accepted in AU_NLU_PROVIDERS.
const (
	ProviderGemini   = "gemini"
	ProviderGroq     = "groq"
	ProviderCerebras = "cerebras"
)

// ValidationMode selects which settings are required.
type ValidationMode int

const (
	// ServerMode validates everything the HTTP server needs.
	ServerMode ValidationMode = iota
	// CorpusMode validates only what the offline corpus builder needs.
	CorpusMode
)

// Config holds all application configuration
type Config struct {
	// Server
	Port            string
	LogLevel        string
	ShutdownTimeout time.Duration
	CORSOrigins     []string

	// Per-client throttling of /chat and LINE messages. Burst 0 disables it.
	ChatRateBurst  float64
	ChatRateRefill float64 // tokens per second

	// Store
	StoreDriver   string // "mongo" or "sqlite"
	MongoURI      string
	MongoDatabase string
	MongoTimeout  time.Duration
	DataDir       string // SQLite directory
	SeedFile      string // Optional JSON fixture loaded into SQLite on startup

	// Knowledge base corpus
	CorpusPath  string // Local JSON or .json.zst file
	CorpusR2Key string // When set (and R2 is configured), the corpus is fetched from R2

	// Scraper
	ScraperTimeout     time.Duration
	ScraperMaxRetries  int
	ScraperConcurrency int

	// NLU
	NLUProviders     []string // Ordered: first is primary, second is fallback
	NLUMinConfidence float64
	NLUTimeout       time.Duration
	GeminiAPIKey     string
	GeminiModel      string
	GroqAPIKey       string
	GroqModel        string
	CerebrasAPIKey   string
	CerebrasModel    string

	// LINE channel (optional chat entry)
	LineChannelToken  string
	LineChannelSecret string

	// R2
	R2AccountID       string
	R2AccessKeyID     string
	R2SecretAccessKey string
	R2BucketName      string

	// Sentry
	SentryDSN              string
	SentryEnvironment      string
	SentryRelease          string
	SentrySampleRate       float64
	SentryTracesSampleRate float64

	// Better Stack
	BetterStackToken    string
	BetterStackEndpoint string

	// Metrics Authentication
	MetricsUsername string // Username for /metrics Basic Auth (default: "prometheus")
	MetricsPassword string // Empty = no auth
}

// Load reads and validates configuration for the HTTP server.
func Load() (*Config, error) {
	return LoadForMode(ServerMode)
}

// LoadForMode reads configuration from environment variables and validates it
// for mode. It attempts to load a .env file first.
func LoadForMode(mode ValidationMode) (*Config, error) {
	// Missing .env is fine.
	_ = godotenv.Load()

	cfg := &Config{
		Port:            getEnv(EnvPort, DefaultPort),
		LogLevel:        getEnv(EnvLogLevel, "info"),
		ShutdownTimeout: getDurationEnv(EnvShutdownTimeout, GracefulShutdown),
		CORSOrigins:     getListEnv(EnvCORSOrigins, []string{"*"}),
		ChatRateBurst:   getFloatEnv(EnvChatRateBurst, 20),
		ChatRateRefill:  getFloatEnv(EnvChatRateRefill, 0.5),

		StoreDriver:   strings.ToLower(getEnv(EnvStoreDriver, StoreMongo)),
		MongoURI:      getEnv(EnvMongoURI, ""),
		MongoDatabase: getEnv(EnvMongoDatabase, "university_db"),
		MongoTimeout:  getDurationEnv(EnvMongoTimeout, MongoOperation),
		DataDir:       getEnv(EnvDataDir, getDefaultDataDir()),
		SeedFile:      getEnv(EnvSeedFile, ""),

		CorpusPath:  getEnv(EnvCorpusPath, "anurag_data.json"),
		CorpusR2Key: getEnv(EnvCorpusR2Key, ""),

		ScraperTimeout:     getDurationEnv(EnvScraperTimeout, ScraperRequest),
		ScraperMaxRetries:  getIntEnv(EnvScraperMaxRetries, 3),
		ScraperConcurrency: getIntEnv(EnvScraperConcurrency, 4),

		NLUProviders:     getListEnv(EnvNLUProviders, []string{ProviderGemini, ProviderGroq}),
		NLUMinConfidence: getFloatEnv(EnvNLUMinConfidence, 0.5),
		NLUTimeout:       getDurationEnv(EnvNLUTimeout, NLURequest),
		GeminiAPIKey:     getEnv(EnvGeminiAPIKey, ""),
		GeminiModel:      getEnv(EnvGeminiModel, ""),
		GroqAPIKey:       getEnv(EnvGroqAPIKey, ""),
		GroqModel:        getEnv(EnvGroqModel, ""),
		CerebrasAPIKey:   getEnv(EnvCerebrasAPIKey, ""),
		CerebrasModel:    getEnv(EnvCerebrasModel, ""),

		LineChannelToken:  getEnv(EnvLineChannelAccessToken, ""),
		LineChannelSecret: getEnv(EnvLineChannelSecret, ""),

		R2AccountID:       getEnv(EnvR2AccountID, ""),
		R2AccessKeyID:     getEnv(EnvR2AccessKeyID, ""),
		R2SecretAccessKey: getEnv(EnvR2SecretAccessKey, ""),
		R2BucketName:      getEnv(EnvR2BucketName, ""),

		SentryDSN:              getEnv(EnvSentryDSN, ""),
		SentryEnvironment:      getEnv(EnvSentryEnvironment, "production"),
		SentryRelease:          getEnv(EnvSentryRelease, ""),
		SentrySampleRate:       getFloatEnv(EnvSentrySampleRate, 1.0),
		SentryTracesSampleRate: getFloatEnv(EnvSentryTracesSampleRate, 0.0),

		BetterStackToken:    getEnv(EnvBetterStackToken, ""),
		BetterStackEndpoint: getEnv(EnvBetterStackEndpoint, ""),

		MetricsUsername: getEnv(EnvMetricsUsername, "prometheus"),
		MetricsPassword: getEnv(EnvMetricsPassword, ""),
	}

	if err := cfg.ValidateForMode(mode); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// Validate checks the configuration for server mode.
func (c *Config) Validate() error {
	return c.ValidateForMode(ServerMode)
}

// ValidateForMode checks configuration values and joins every problem found.
func (c *Config) ValidateForMode(mode ValidationMode) error {
	var errs []error

	if mode == CorpusMode {
		if c.CorpusPath == "" {
			errs = append(errs, errors.New(EnvCorpusPath+" is required"))
		}
		if c.ScraperTimeout <= 0 {
			errs = append(errs, fmt.Errorf("%s must be positive, got %v", EnvScraperTimeout, c.ScraperTimeout))
		}
		if c.ScraperMaxRetries < 0 {
			errs = append(errs, fmt.Errorf("%s cannot be negative, got %d", EnvScraperMaxRetries, c.ScraperMaxRetries))
		}
		if c.ScraperConcurrency <= 0 {
			errs = append(errs, fmt.Errorf("%s must be positive, got %d", EnvScraperConcurrency, c.ScraperConcurrency))
		}
		return errors.Join(errs...)
	}

	if c.Port == "" {
		errs = append(errs, errors.New(EnvPort+" is required"))
	}
	switch c.StoreDriver {
	case StoreMongo:
		if c.MongoURI == "" {
			errs = append(errs, errors.New(EnvMongoURI+" is required when "+EnvStoreDriver+"=mongo"))
		}
		if c.MongoDatabase == "" {
			errs = append(errs, errors.New(EnvMongoDatabase+" is required"))
		}
		if c.MongoTimeout <= 0 {
			errs = append(errs, fmt.Errorf("%s must be positive, got %v", EnvMongoTimeout, c.MongoTimeout))
		}
	case StoreSQLite:
		if c.DataDir == "" {
			errs = append(errs, errors.New(EnvDataDir+" is required when "+EnvStoreDriver+"=sqlite"))
		}
	default:
		errs = append(errs, fmt.Errorf("%s must be %q or %q, got %q", EnvStoreDriver, StoreMongo, StoreSQLite, c.StoreDriver))
	}
	if c.NLUMinConfidence < 0 || c.NLUMinConfidence > 1 {
		errs = append(errs, fmt.Errorf("%s must be within [0,1], got %v", EnvNLUMinConfidence, c.NLUMinConfidence))
	}
	if c.NLUTimeout <= 0 {
		errs = append(errs, fmt.Errorf("%s must be positive, got %v", EnvNLUTimeout, c.NLUTimeout))
	}
	for _, p := range c.NLUProviders {
		switch p {
		case ProviderGemini, ProviderGroq, ProviderCerebras:
		default:
			errs = append(errs, fmt.Errorf("%s: unknown provider %q", EnvNLUProviders, p))
		}
	}
	if (c.LineChannelToken == "") != (c.LineChannelSecret == "") {
		errs = append(errs, errors.New(EnvLineChannelAccessToken+" and "+EnvLineChannelSecret+" must be set together"))
	}
	if c.CorpusR2Key != "" && !c.R2Enabled() {
		errs = append(errs, errors.New(EnvCorpusR2Key+" requires R2 credentials and bucket"))
	}
	if c.SentrySampleRate < 0 || c.SentrySampleRate > 1 {
		errs = append(errs, fmt.Errorf("%s must be within [0,1], got %v", EnvSentrySampleRate, c.SentrySampleRate))
	}
	if c.ChatRateBurst < 0 {
		errs = append(errs, fmt.Errorf("%s cannot be negative, got %v", EnvChatRateBurst, c.ChatRateBurst))
	}
	if c.ChatRateBurst > 0 && c.ChatRateRefill <= 0 {
		errs = append(errs, fmt.Errorf("%s must be positive when throttling is on, got %v", EnvChatRateRefill, c.ChatRateRefill))
	}
	if c.ShutdownTimeout <= 0 {
		errs = append(errs, fmt.Errorf("%s must be positive, got %v", EnvShutdownTimeout, c.ShutdownTimeout))
	}

	return errors.Join(errs...)
}

// getEnv retrieves environment variable with fallback to default value
func getEnv(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

// getIntEnv retrieves integer environment variable with fallback to default value
func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getDurationEnv retrieves duration environment variable with fallback to default value
func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// getFloatEnv retrieves float64 environment variable with fallback to default value
func getFloatEnv(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

// getListEnv splits a comma-separated variable, dropping empty items.
func getListEnv(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for item := range strings.SplitSeq(value, ",") {
		if item = strings.ToLower(strings.TrimSpace(item)); item != "" {
			out = append(out, item)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}

// getDefaultDataDir returns platform-specific default data directory
func getDefaultDataDir() string {
	if runtime.GOOS == "windows" {
		return "./data"
	}
	return "/data"
}

// SQLitePath returns the full path to the SQLite database file
func (c *Config) SQLitePath() string {
	return filepath.Join(c.DataDir, "university.db")
}

// R2Enabled reports whether all R2 settings are present.
func (c *Config) R2Enabled() bool {
	return c.R2AccountID != "" && c.R2AccessKeyID != "" && c.R2SecretAccessKey != "" && c.R2BucketName != ""
}

// LineEnabled reports whether the LINE chat channel is configured.
func (c *Config) LineEnabled() bool {
	return c.LineChannelToken != "" && c.LineChannelSecret != ""
}

// HasNLUProvider reports whether at least one listed provider has an API key.
func (c *Config) HasNLUProvider() bool {
	for _, p := range c.NLUProviders {
		if c.apiKeyFor(p) != "" {
			return true
		}
	}
	return false
}

func (c *Config) apiKeyFor(provider string) string {
	switch provider {
	case ProviderGemini:
		return c.GeminiAPIKey
	case ProviderGroq:
		return c.GroqAPIKey
	case ProviderCerebras:
		return c.CerebrasAPIKey
	}
	return ""
}
