// Package webhook exposes the fulfillment processor over HTTP: the
// Dialogflow-style fulfillment webhook, the direct chat endpoint and the
// LINE Messaging API callback.
package webhook

import (
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/anurag-chatbot/au-fulfillment/internal/bot"
	"github.com/anurag-chatbot/au-fulfillment/internal/config"
	"github.com/anurag-chatbot/au-fulfillment/internal/ctxutil"
	"github.com/anurag-chatbot/au-fulfillment/internal/logger"
	"github.com/anurag-chatbot/au-fulfillment/internal/metrics"
	"github.com/anurag-chatbot/au-fulfillment/internal/params"
	"github.com/anurag-chatbot/au-fulfillment/internal/ratelimit"
)

// Error bodies.
const (
	msgInvalidJSON = "Invalid JSON payload"
	msgEmptyText   = "Text is required"
	msgRateLimited = "Too many requests, please slow down"
)

// Processor answers chat text and classified intents.
type Processor interface {
	Chat(ctx context.Context, text string) bot.ChatResult
	Fulfill(ctx context.Context, req bot.FulfillmentRequest) string
}

// Handler serves the /webhook and /chat endpoints.
type Handler struct {
	processor Processor
	limiter   *ratelimit.Limiter
	metrics   *metrics.Metrics
	logger    *logger.Logger
	timeout   time.Duration
}

// HandlerConfig holds the dependencies of a Handler.
type HandlerConfig struct {
	Processor Processor
	Limiter   *ratelimit.Limiter // optional; throttles /chat per client IP
	Metrics   *metrics.Metrics
	Logger    *logger.Logger

	// Timeout bounds one request. Defaults to config.RequestProcessing.
	Timeout time.Duration
}

// NewHandler creates a Handler.
func NewHandler(cfg HandlerConfig) *Handler {
	log := cfg.Logger
	if log == nil {
		log = logger.NewWithWriter("error", io.Discard)
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = config.RequestProcessing
	}
	return &Handler{
		processor: cfg.Processor,
		limiter:   cfg.Limiter,
		metrics:   cfg.Metrics,
		logger:    log.WithModule("webhook"),
		timeout:   timeout,
	}
}

// FulfillmentRequest is the subset of a Dialogflow ES webhook request the
// service reads.
type FulfillmentRequest struct {
	ResponseID  string      `json:"responseId"`
	Session     string      `json:"session"`
	QueryResult QueryResult `json:"queryResult"`
}

// QueryResult carries the classified intent.
type QueryResult struct {
	QueryText    string         `json:"queryText"`
	Parameters   map[string]any `json:"parameters"`
	LanguageCode string         `json:"languageCode"`
	Intent       struct {
		Name        string `json:"name"`
		DisplayName string `json:"displayName"`
	} `json:"intent"`
}

// FulfillmentResponse is the webhook answer.
type FulfillmentResponse struct {
	FulfillmentText string `json:"fulfillmentText"`
}

// HandleFulfillment answers an intent already classified by the NLU agent.
func (h *Handler) HandleFulfillment(c *gin.Context) {
	var req FulfillmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.WithError(err).WarnContext(c.Request.Context(), "Error decoding webhook payload")
		h.metrics.RecordHTTPError("invalid_json", bot.EntryWebhook)
		c.JSON(http.StatusBadRequest, gin.H{"error": msgInvalidJSON})
		return
	}

	ctx, cancel := h.requestContext(c, bot.EntryWebhook)
	defer cancel()
	if req.Session != "" {
		ctx = ctxutil.WithSessionID(ctx, req.Session)
	}

	qr := req.QueryResult
	h.logger.DebugContext(ctx, "Received intent",
		"intent", qr.Intent.DisplayName,
		"parameters", qr.Parameters,
	)

	text := h.processor.Fulfill(ctx, bot.FulfillmentRequest{
		Intent:       qr.Intent.DisplayName,
		Params:       params.Bag(qr.Parameters),
		QueryText:    qr.QueryText,
		LanguageCode: qr.LanguageCode,
	})
	c.JSON(http.StatusOK, FulfillmentResponse{FulfillmentText: text})
}

// ChatRequest is the body of POST /chat.
type ChatRequest struct {
	Text string `json:"text"`
}

// ChatResponse is the answer to POST /chat.
type ChatResponse struct {
	Response string `json:"response"`
	Intent   string `json:"intent"`
	Language string `json:"language"`
}

// HandleChat answers free text from a chat client.
func (h *Handler) HandleChat(c *gin.Context) {
	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.metrics.RecordHTTPError("invalid_json", bot.EntryChat)
		c.JSON(http.StatusBadRequest, gin.H{"error": msgInvalidJSON})
		return
	}
	text := strings.TrimSpace(req.Text)
	if text == "" {
		h.metrics.RecordHTTPError("empty_text", bot.EntryChat)
		c.JSON(http.StatusBadRequest, gin.H{"error": msgEmptyText})
		return
	}
	if !h.limiter.Allow(c.ClientIP()) {
		h.logger.WarnContext(c.Request.Context(), "Chat client rate limited", "ip", c.ClientIP())
		c.JSON(http.StatusTooManyRequests, gin.H{"error": msgRateLimited})
		return
	}

	ctx, cancel := h.requestContext(c, bot.EntryChat)
	defer cancel()

	res := h.processor.Chat(ctx, text)
	c.JSON(http.StatusOK, ChatResponse{
		Response: res.Response,
		Intent:   res.Intent,
		Language: res.Language,
	})
}

func (h *Handler) requestContext(c *gin.Context, entry string) (context.Context, context.CancelFunc) {
	ctx := ctxutil.WithChannel(c.Request.Context(), entry)
	return context.WithTimeout(ctx, h.timeout)
}
