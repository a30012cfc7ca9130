package config

import (
	"strings"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv(EnvMongoURI, "mongodb://localhost:27017")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Port != "8080" {
		t.Errorf("Expected default port '8080', got '%s'", cfg.Port)
	}
	if cfg.StoreDriver != StoreMongo {
		t.Errorf("Expected default store driver mongo, got %q", cfg.StoreDriver)
	}
	if cfg.MongoDatabase != "university_db" {
		t.Errorf("Expected default database university_db, got %q", cfg.MongoDatabase)
	}
	if cfg.NLUMinConfidence != 0.5 {
		t.Errorf("Expected default NLU threshold 0.5, got %v", cfg.NLUMinConfidence)
	}
	if cfg.CorpusPath != "anurag_data.json" {
		t.Errorf("Expected default corpus path, got %q", cfg.CorpusPath)
	}
	if len(cfg.CORSOrigins) != 1 || cfg.CORSOrigins[0] != "*" {
		t.Errorf("Expected wildcard CORS default, got %v", cfg.CORSOrigins)
	}
	if got := strings.Join(cfg.NLUProviders, ","); got != "gemini,groq" {
		t.Errorf("Expected default providers gemini,groq, got %q", got)
	}
	if cfg.ChatRateBurst != 20 || cfg.ChatRateRefill != 0.5 {
		t.Errorf("Expected chat throttling 20/0.5, got %v/%v", cfg.ChatRateBurst, cfg.ChatRateRefill)
	}
	if cfg.MetricsUsername != "prometheus" {
		t.Errorf("Expected default metrics username, got %q", cfg.MetricsUsername)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv(EnvStoreDriver, "SQLite")
	t.Setenv(EnvDataDir, t.TempDir())
	t.Setenv(EnvPort, "9000")
	t.Setenv(EnvNLUProviders, " Groq , ,cerebras")
	t.Setenv(EnvNLUMinConfidence, "0.7")
	t.Setenv(EnvNLUTimeout, "3s")
	t.Setenv(EnvCORSOrigins, "https://anurag.edu.in,https://chat.anurag.edu.in")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.StoreDriver != StoreSQLite {
		t.Errorf("StoreDriver = %q, want sqlite", cfg.StoreDriver)
	}
	if cfg.Port != "9000" {
		t.Errorf("Port = %q, want 9000", cfg.Port)
	}
	if got := strings.Join(cfg.NLUProviders, ","); got != "groq,cerebras" {
		t.Errorf("NLUProviders = %q, want groq,cerebras", got)
	}
	if cfg.NLUMinConfidence != 0.7 {
		t.Errorf("NLUMinConfidence = %v, want 0.7", cfg.NLUMinConfidence)
	}
	if cfg.NLUTimeout != 3*time.Second {
		t.Errorf("NLUTimeout = %v, want 3s", cfg.NLUTimeout)
	}
	if len(cfg.CORSOrigins) != 2 {
		t.Errorf("CORSOrigins = %v, want 2 entries", cfg.CORSOrigins)
	}
}

func TestLoad_InvalidNumbersFallBack(t *testing.T) {
	t.Setenv(EnvMongoURI, "mongodb://localhost:27017")
	t.Setenv(EnvScraperMaxRetries, "many")
	t.Setenv(EnvShutdownTimeout, "soon")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.ScraperMaxRetries != 3 {
		t.Errorf("ScraperMaxRetries = %d, want default 3", cfg.ScraperMaxRetries)
	}
	if cfg.ShutdownTimeout != GracefulShutdown {
		t.Errorf("ShutdownTimeout = %v, want default", cfg.ShutdownTimeout)
	}
}

func validServerConfig() *Config {
	return &Config{
		Port:             "8080",
		StoreDriver:      StoreMongo,
		MongoURI:         "mongodb://localhost:27017",
		MongoDatabase:    "university_db",
		MongoTimeout:     time.Second,
		NLUProviders:     []string{ProviderGemini},
		NLUMinConfidence: 0.5,
		NLUTimeout:       time.Second,
		SentrySampleRate: 1,
		ShutdownTimeout:  time.Second,
		CorpusPath:       "anurag_data.json",
	}
}

func TestValidateForMode(t *testing.T) {
	tests := []struct {
		name        string
		mode        ValidationMode
		mutate      func(*Config)
		wantErr     bool
		errContains string
	}{
		{
			name:   "server mode - valid config",
			mode:   ServerMode,
			mutate: func(*Config) {},
		},
		{
			name:        "server mode - mongo without uri",
			mode:        ServerMode,
			mutate:      func(c *Config) { c.MongoURI = "" },
			wantErr:     true,
			errContains: EnvMongoURI,
		},
		{
			name:        "server mode - unknown driver",
			mode:        ServerMode,
			mutate:      func(c *Config) { c.StoreDriver = "postgres" },
			wantErr:     true,
			errContains: EnvStoreDriver,
		},
		{
			name:        "server mode - threshold out of range",
			mode:        ServerMode,
			mutate:      func(c *Config) { c.NLUMinConfidence = 1.5 },
			wantErr:     true,
			errContains: EnvNLUMinConfidence,
		},
		{
			name:        "server mode - unknown provider",
			mode:        ServerMode,
			mutate:      func(c *Config) { c.NLUProviders = []string{"mystery"} },
			wantErr:     true,
			errContains: "mystery",
		},
		{
			name:        "server mode - LINE token without secret",
			mode:        ServerMode,
			mutate:      func(c *Config) { c.LineChannelToken = "token" },
			wantErr:     true,
			errContains: EnvLineChannelSecret,
		},
		{
			name:        "server mode - R2 corpus key without credentials",
			mode:        ServerMode,
			mutate:      func(c *Config) { c.CorpusR2Key = "corpus/anurag_data.json.zst" },
			wantErr:     true,
			errContains: EnvCorpusR2Key,
		},
		{
			name:        "server mode - throttling without refill",
			mode:        ServerMode,
			mutate:      func(c *Config) { c.ChatRateBurst = 5 },
			wantErr:     true,
			errContains: EnvChatRateRefill,
		},
		{
			name:        "server mode - negative burst",
			mode:        ServerMode,
			mutate:      func(c *Config) { c.ChatRateBurst = -1 },
			wantErr:     true,
			errContains: EnvChatRateBurst,
		},
		{
			name: "corpus mode - ignores server settings",
			mode: CorpusMode,
			mutate: func(c *Config) {
				c.MongoURI = ""
				c.ScraperTimeout = time.Second
				c.ScraperConcurrency = 2
			},
		},
		{
			name: "corpus mode - zero concurrency",
			mode: CorpusMode,
			mutate: func(c *Config) {
				c.ScraperTimeout = time.Second
				c.ScraperConcurrency = 0
			},
			wantErr:     true,
			errContains: EnvScraperConcurrency,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validServerConfig()
			tt.mutate(cfg)
			err := cfg.ValidateForMode(tt.mode)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateForMode() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr && !strings.Contains(err.Error(), tt.errContains) {
				t.Errorf("error %q does not mention %q", err.Error(), tt.errContains)
			}
		})
	}
}

func TestValidate_JoinsAllProblems(t *testing.T) {
	cfg := validServerConfig()
	cfg.Port = ""
	cfg.MongoURI = ""
	cfg.NLUTimeout = 0

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error")
	}
	for _, want := range []string{EnvPort, EnvMongoURI, EnvNLUTimeout} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q missing %s", err.Error(), want)
		}
	}
}

func TestFeatureHelpers(t *testing.T) {
	cfg := validServerConfig()

	if cfg.R2Enabled() {
		t.Error("R2Enabled() should be false without credentials")
	}
	cfg.R2AccountID, cfg.R2AccessKeyID, cfg.R2SecretAccessKey, cfg.R2BucketName = "acc", "key", "secret", "bucket"
	if !cfg.R2Enabled() {
		t.Error("R2Enabled() should be true with all settings")
	}

	if cfg.LineEnabled() {
		t.Error("LineEnabled() should be false without credentials")
	}

	if cfg.HasNLUProvider() {
		t.Error("HasNLUProvider() should be false without keys")
	}
	cfg.GroqAPIKey = "gsk"
	if cfg.HasNLUProvider() {
		t.Error("HasNLUProvider() should ignore keys for unlisted providers")
	}
	cfg.NLUProviders = append(cfg.NLUProviders, ProviderGroq)
	if !cfg.HasNLUProvider() {
		t.Error("HasNLUProvider() should be true once a listed provider has a key")
	}

	cfg.DataDir = "/data"
	if got := cfg.SQLitePath(); got != "/data/university.db" {
		t.Errorf("SQLitePath() = %q", got)
	}
}
