package webhook

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/line/line-bot-sdk-go/v8/linebot/messaging_api"
	"github.com/line/line-bot-sdk-go/v8/linebot/webhook"

	"github.com/anurag-chatbot/au-fulfillment/internal/config"
	"github.com/anurag-chatbot/au-fulfillment/internal/ctxutil"
	"github.com/anurag-chatbot/au-fulfillment/internal/lineutil"
	"github.com/anurag-chatbot/au-fulfillment/internal/logger"
	"github.com/anurag-chatbot/au-fulfillment/internal/metrics"
	"github.com/anurag-chatbot/au-fulfillment/internal/ratelimit"
)

// EntryLine labels requests arriving through the LINE channel.
const EntryLine = "line"

const maxEventsPerWebhook = 100

const msgLineThrottled = "You are sending messages too quickly. Please wait a moment and try again."

// Replier sends reply messages. *messaging_api.MessagingApiAPI implements it.
type Replier interface {
	ReplyMessage(req *messaging_api.ReplyMessageRequest) (*messaging_api.ReplyMessageResponse, error)
}

// LineHandler serves the LINE Messaging API callback. Events are answered
// asynchronously after the callback has been acknowledged.
type LineHandler struct {
	channelSecret string
	client        Replier
	processor     Processor
	limiter       *ratelimit.Limiter
	metrics       *metrics.Metrics
	logger        *logger.Logger
	timeout       time.Duration
	wg            sync.WaitGroup
}

// LineConfig holds the dependencies of a LineHandler.
type LineConfig struct {
	ChannelSecret string
	ChannelToken  string
	// Client overrides the Messaging API client built from ChannelToken.
	Client    Replier
	Processor Processor
	Limiter   *ratelimit.Limiter // optional; throttles per LINE user
	Metrics   *metrics.Metrics
	Logger    *logger.Logger
	Timeout   time.Duration
}

// NewLineHandler creates a LineHandler.
func NewLineHandler(cfg LineConfig) (*LineHandler, error) {
	if cfg.ChannelSecret == "" {
		return nil, errors.New("LINE channel secret is required")
	}
	client := cfg.Client
	if client == nil {
		api, err := messaging_api.NewMessagingApiAPI(cfg.ChannelToken)
		if err != nil {
			return nil, fmt.Errorf("create messaging API client: %w", err)
		}
		client = api
	}

	log := cfg.Logger
	if log == nil {
		log = logger.NewWithWriter("error", io.Discard)
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = config.RequestProcessing
	}
	return &LineHandler{
		channelSecret: cfg.ChannelSecret,
		client:        client,
		processor:     cfg.Processor,
		limiter:       cfg.Limiter,
		metrics:       cfg.Metrics,
		logger:        log.WithModule("line"),
		timeout:       timeout,
	}, nil
}

// Handle verifies the signature, acknowledges the callback and processes
// the events in the background.
func (h *LineHandler) Handle(c *gin.Context) {
	cb, err := webhook.ParseRequest(h.channelSecret, c.Request)
	if err != nil {
		if errors.Is(err, webhook.ErrInvalidSignature) {
			h.logger.Warn("Invalid LINE webhook signature")
			h.metrics.RecordHTTPError("invalid_signature", EntryLine)
			c.Status(http.StatusBadRequest)
		} else {
			h.logger.WithError(err).Error("Failed to parse LINE webhook request")
			h.metrics.RecordHTTPError("invalid_json", EntryLine)
			c.Status(http.StatusInternalServerError)
		}
		return
	}

	c.Status(http.StatusOK)

	events := cb.Events
	if len(events) > maxEventsPerWebhook {
		h.logger.WithField("event_count", len(events)).Warn("Too many events in LINE webhook batch; truncating")
		events = events[:maxEventsPerWebhook]
	}

	base := ctxutil.PreserveTracing(c.Request.Context())
	h.wg.Go(func() {
		defer func() {
			if r := recover(); r != nil {
				h.logger.WithField("panic", r).Error("Panic in LINE event processing")
			}
		}()
		for _, event := range events {
			h.processEvent(base, event)
		}
	})
}

func (h *LineHandler) processEvent(base context.Context, event webhook.EventInterface) {
	e, ok := event.(webhook.MessageEvent)
	if !ok {
		h.logger.WithField("event_type", fmt.Sprintf("%T", event)).Debug("Unsupported LINE event type")
		return
	}
	msg, ok := e.Message.(webhook.TextMessageContent)
	if !ok {
		h.logger.WithField("message_type", e.Message.GetType()).Debug("Ignoring non-text LINE message")
		return
	}
	text := strings.TrimSpace(msg.Text)
	if text == "" || e.ReplyToken == "" {
		return
	}

	ctx := ctxutil.WithChannel(base, EntryLine)
	if e.WebhookEventId != "" {
		ctx = ctxutil.WithRequestID(ctx, e.WebhookEventId)
	}
	userID := sourceUserID(e.Source)
	if userID != "" {
		ctx = ctxutil.WithUserID(ctx, userID)
		ctx = ctxutil.WithSessionID(ctx, userID)
	}
	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	reply := msgLineThrottled
	if h.limiter.Allow(userID) {
		reply = h.processor.Chat(ctx, text).Response
	} else {
		h.logger.WarnContext(ctx, "LINE user rate limited")
	}

	if _, err := h.client.ReplyMessage(&messaging_api.ReplyMessageRequest{
		ReplyToken: e.ReplyToken,
		Messages: []messaging_api.MessageInterface{
			lineutil.NewTextMessageWithQuickReply(reply, lineutil.TopicQuickReplies()...),
		},
	}); err != nil {
		h.logger.WithError(err).ErrorContext(ctx, "Failed to send LINE reply")
		h.metrics.RecordHTTPError("reply_error", EntryLine)
	}
}

func sourceUserID(src webhook.SourceInterface) string {
	switch s := src.(type) {
	case webhook.UserSource:
		return s.UserId
	case webhook.GroupSource:
		return s.UserId
	case webhook.RoomSource:
		return s.UserId
	default:
		return ""
	}
}

// Shutdown waits for in-flight event processing.
func (h *LineHandler) Shutdown(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		defer close(done)
		h.wg.Wait()
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
