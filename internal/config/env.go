package config

//nolint:gosec,revive // Environment variable keys are not credentials and do not need per-const comments.
const (
	// Server
	EnvPort            = "AU_PORT"
	EnvLogLevel        = "AU_LOG_LEVEL"
	EnvShutdownTimeout = "AU_SHUTDOWN_TIMEOUT"
	EnvCORSOrigins     = "AU_CORS_ORIGINS"
	EnvChatRateBurst   = "AU_CHAT_RATE_BURST"
	EnvChatRateRefill  = "AU_CHAT_RATE_REFILL"

	// Store
	EnvStoreDriver   = "AU_STORE_DRIVER"
	EnvMongoURI      = "AU_MONGO_URI"
	EnvMongoDatabase = "AU_MONGO_DATABASE"
	EnvMongoTimeout  = "AU_MONGO_TIMEOUT"
	EnvDataDir       = "AU_DATA_DIR"
	EnvSeedFile      = "AU_SEED_FILE"

	// Knowledge base corpus
	EnvCorpusPath  = "AU_CORPUS_PATH"
	EnvCorpusR2Key = "AU_CORPUS_R2_KEY"

	// Scraper (corpus builder)
	EnvScraperTimeout     = "AU_SCRAPER_TIMEOUT"
	EnvScraperMaxRetries  = "AU_SCRAPER_MAX_RETRIES"
	EnvScraperConcurrency = "AU_SCRAPER_CONCURRENCY"

	// NLU
	EnvNLUProviders     = "AU_NLU_PROVIDERS"
	EnvNLUMinConfidence = "AU_NLU_MIN_CONFIDENCE"
	EnvNLUTimeout       = "AU_NLU_TIMEOUT"
	EnvGeminiAPIKey     = "AU_GEMINI_API_KEY"
	EnvGeminiModel      = "AU_GEMINI_MODEL"
	EnvGroqAPIKey       = "AU_GROQ_API_KEY"
	EnvGroqModel        = "AU_GROQ_MODEL"
	EnvCerebrasAPIKey   = "AU_CEREBRAS_API_KEY"
	EnvCerebrasModel    = "AU_CEREBRAS_MODEL"

	// LINE channel
	EnvLineChannelAccessToken = "AU_LINE_CHANNEL_ACCESS_TOKEN"
	EnvLineChannelSecret      = "AU_LINE_CHANNEL_SECRET"

	// R2
	EnvR2AccountID       = "AU_R2_ACCOUNT_ID"
	EnvR2AccessKeyID     = "AU_R2_ACCESS_KEY_ID"
	EnvR2SecretAccessKey = "AU_R2_SECRET_ACCESS_KEY"
	EnvR2BucketName      = "AU_R2_BUCKET_NAME"

	// Sentry
	EnvSentryDSN              = "AU_SENTRY_DSN"
	EnvSentryEnvironment      = "AU_SENTRY_ENVIRONMENT"
	EnvSentryRelease          = "AU_SENTRY_RELEASE"
	EnvSentrySampleRate       = "AU_SENTRY_SAMPLE_RATE"
	EnvSentryTracesSampleRate = "AU_SENTRY_TRACES_SAMPLE_RATE"

	// Better Stack
	EnvBetterStackToken    = "AU_BETTERSTACK_TOKEN"
	EnvBetterStackEndpoint = "AU_BETTERSTACK_ENDPOINT"

	// Metrics auth
	EnvMetricsUsername = "AU_METRICS_USERNAME"
	EnvMetricsPassword = "AU_METRICS_PASSWORD"
)
