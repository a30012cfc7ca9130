package app

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anurag-chatbot/au-fulfillment/internal/bot"
	"github.com/anurag-chatbot/au-fulfillment/internal/config"
	"github.com/anurag-chatbot/au-fulfillment/internal/genai"
	"github.com/anurag-chatbot/au-fulfillment/internal/logger"
	"github.com/anurag-chatbot/au-fulfillment/internal/metrics"
	"github.com/anurag-chatbot/au-fulfillment/internal/rag"
	"github.com/anurag-chatbot/au-fulfillment/internal/storage"
	"github.com/anurag-chatbot/au-fulfillment/internal/webhook"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

type fakeDetector struct {
	det *genai.Detection
	err error
}

func (d *fakeDetector) Detect(context.Context, string, string) (*genai.Detection, error) {
	return d.det, d.err
}

func (d *fakeDetector) Provider() string { return "fake" }

func (d *fakeDetector) Close() error { return nil }

var testCorpus = rag.StaticSource{
	{Category: "admissions", URL: "https://anurag.edu.in/admissions", Content: "Admissions for B.Tech open in May every year."},
}

type testApp struct {
	*Application
	router *gin.Engine
}

func newTestApp(t *testing.T, store storage.Store, detector genai.Detector, mutate func(*config.Config)) *testApp {
	t.Helper()

	cfg := &config.Config{
		CORSOrigins:     []string{"*"},
		MetricsUsername: "prometheus",
		NLUTimeout:      time.Second,
		ShutdownTimeout: time.Second,
	}
	if mutate != nil {
		mutate(cfg)
	}

	log := logger.NewWithWriter("error", io.Discard)
	registry := metrics.NewRegistry()
	m := metrics.New(registry)
	knowledge := rag.NewKnowledgeBase(testCorpus, log, m)

	var botDetector bot.Detector
	if detector != nil {
		botDetector = detector
	}
	processor := bot.NewProcessor(bot.ProcessorConfig{
		Registry:      NewBotRegistry(store, m, log),
		Detector:      botDetector,
		Retriever:     rag.NewRetriever(knowledge, log, m),
		Logger:        log,
		Metrics:       m,
		MinConfidence: 0.5,
	})

	a := &Application{
		cfg:       cfg,
		logger:    log,
		store:     store,
		metrics:   m,
		registry:  registry,
		detector:  detector,
		knowledge: knowledge,
		processor: processor,
		handler: webhook.NewHandler(webhook.HandlerConfig{
			Processor: processor,
			Metrics:   m,
			Logger:    log,
		}),
	}
	return &testApp{Application: a, router: a.newRouter()}
}

func sampleStore(t *testing.T) storage.Store {
	t.Helper()
	db, err := storage.NewSampleDB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func (ta *testApp) do(method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	ta.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func TestRoot(t *testing.T) {
	ta := newTestApp(t, sampleStore(t), nil, nil)

	w := ta.do(http.MethodGet, "/", "", nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"Anurag University Chatbot Fulfillment (ES) is running!","status":"OK"}`, w.Body.String())
}

func TestLivez(t *testing.T) {
	ta := newTestApp(t, &storage.Unavailable{Cause: errors.New("down")}, nil, nil)

	w := ta.do(http.MethodGet, "/livez", "", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"alive"}`, w.Body.String())
}

func TestReadyz(t *testing.T) {
	ta := newTestApp(t, sampleStore(t), nil, nil)

	w := ta.do(http.MethodGet, "/readyz", "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "loading", decode(t, w)["corpus"])

	_, err := ta.knowledge.Load(context.Background())
	require.NoError(t, err)

	w = ta.do(http.MethodGet, "/readyz", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, "ready", body["status"])
	assert.Equal(t, "connected", body["store"])
	assert.Equal(t, "loaded", body["corpus"])
}

func TestReadyz_StoreUnavailable(t *testing.T) {
	ta := newTestApp(t, &storage.Unavailable{Cause: errors.New("connection refused")}, nil, nil)
	_, err := ta.knowledge.Load(context.Background())
	require.NoError(t, err)

	w := ta.do(http.MethodGet, "/readyz", "", nil)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	body := decode(t, w)
	assert.Equal(t, "not ready", body["status"])
	assert.Equal(t, "unavailable", body["store"])
}

func TestHealth_NoDetector(t *testing.T) {
	ta := newTestApp(t, sampleStore(t), nil, nil)

	w := ta.do(http.MethodGet, "/health", "", nil)

	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, "no_credentials", body["status"])
	probe := body["nlu_test"].(map[string]any)
	assert.Equal(t, healthProbeQuery, probe["query"])
	assert.Equal(t, "None", probe["response"])
	assert.Equal(t, intentSystemError, probe["intent"])
	assert.Equal(t, "connected", body["store"])
}

func TestHealth_WithDetector(t *testing.T) {
	long := strings.Repeat("a", 150)
	ta := newTestApp(t, sampleStore(t), &fakeDetector{det: &genai.Detection{
		FulfillmentText: long,
		Intent:          genai.IntentCourseDescription,
		Confidence:      0.9,
	}}, nil)

	w := ta.do(http.MethodGet, "/health", "", nil)

	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "fake", body["provider"])
	probe := body["nlu_test"].(map[string]any)
	assert.Equal(t, strings.Repeat("a", 100)+"...", probe["response"])
	assert.Equal(t, genai.IntentCourseDescription, probe["intent"])
}

func TestHealth_DetectorError(t *testing.T) {
	ta := newTestApp(t, sampleStore(t), &fakeDetector{err: errors.New("quota exceeded")}, nil)

	w := ta.do(http.MethodGet, "/health", "", nil)

	require.Equal(t, http.StatusOK, w.Code)
	probe := decode(t, w)["nlu_test"].(map[string]any)
	assert.Equal(t, "None", probe["response"])
	assert.Equal(t, intentSystemError, probe["intent"])
}

func TestChatEndToEnd(t *testing.T) {
	ta := newTestApp(t, sampleStore(t), nil, nil)

	w := ta.do(http.MethodPost, "/chat", `{"text": "hostel fee for boys"}`, nil)

	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.NotEmpty(t, body["response"])
	assert.Equal(t, genai.IntentHostelFee, body["intent"])
}

func TestWebhookEndToEnd(t *testing.T) {
	ta := newTestApp(t, sampleStore(t), nil, nil)

	w := ta.do(http.MethodPost, "/webhook", `{"queryResult": {"queryText": "x", "intent": {"displayName": "Unknown_Intent"}}}`, nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, decode(t, w)["fulfillmentText"])

	w = ta.do(http.MethodPost, "/webhook", `{bad`, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLineCallbackNotRoutedWithoutCredentials(t *testing.T) {
	ta := newTestApp(t, sampleStore(t), nil, nil)

	w := ta.do(http.MethodPost, "/line/callback", `{"events": []}`, nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	ta := newTestApp(t, sampleStore(t), nil, func(c *config.Config) {
		c.MetricsPassword = "s3cret"
	})

	w := ta.do(http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, `Basic realm="metrics"`, w.Header().Get("WWW-Authenticate"))

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	req.SetBasicAuth("prometheus", "s3cret")
	rec := httptest.NewRecorder()
	ta.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}

func TestNewBotRegistry_CoversDetectorIntents(t *testing.T) {
	registry := NewBotRegistry(sampleStore(t), nil, logger.NewWithWriter("error", io.Discard))

	var intents []string
	for _, h := range registry.Handlers() {
		intents = append(intents, h.Intent())
	}
	assert.ElementsMatch(t, genai.IntentNames(), intents)
}

func TestSeedStore(t *testing.T) {
	db, err := storage.NewTestDB()
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, seedStore(context.Background(), db, ""))
	rec, err := db.GetLatestPlacement(context.Background())
	require.NoError(t, err)
	assert.Nil(t, rec, "empty seed file must leave the store untouched")

	require.NoError(t, seedStore(context.Background(), db, SampleSeed))
	rec, err = db.GetLatestPlacement(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, rec)

	assert.Error(t, seedStore(context.Background(), db, "/nonexistent/seed.json"))
}

func TestCorpusSource_File(t *testing.T) {
	src, err := corpusSource(context.Background(), &config.Config{CorpusPath: "anurag_data.json"})
	require.NoError(t, err)
	assert.Equal(t, rag.FileSource{Path: "anurag_data.json"}, src)
}

func TestDetectorConfig(t *testing.T) {
	cfg := &config.Config{
		NLUProviders:  []string{"groq", "gemini"},
		GeminiAPIKey:  "g-key",
		GroqAPIKey:    "q-key",
		GroqModel:     "llama",
		CerebrasModel: "qwen",
		NLUTimeout:    3 * time.Second,
	}

	got := detectorConfig(cfg)

	assert.Equal(t, []genai.Provider{genai.ProviderGroq, genai.ProviderGemini}, got.Providers)
	assert.Equal(t, genai.ProviderConfig{APIKey: "g-key"}, got.Gemini)
	assert.Equal(t, genai.ProviderConfig{APIKey: "q-key", Model: "llama"}, got.Groq)
	assert.Equal(t, "qwen", got.Cerebras.Model)
	assert.Equal(t, 3*time.Second, got.Timeout)
}

func TestTruncateHealthResponse(t *testing.T) {
	assert.Equal(t, "short...", truncateHealthResponse("short"))
	assert.Equal(t, strings.Repeat("é", 100)+"...", truncateHealthResponse(strings.Repeat("é", 120)))
}
