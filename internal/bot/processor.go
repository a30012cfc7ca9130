package bot

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/language"

	"github.com/anurag-chatbot/au-fulfillment/internal/ctxutil"
	"github.com/anurag-chatbot/au-fulfillment/internal/genai"
	"github.com/anurag-chatbot/au-fulfillment/internal/logger"
	"github.com/anurag-chatbot/au-fulfillment/internal/metrics"
	"github.com/anurag-chatbot/au-fulfillment/internal/params"
	"github.com/anurag-chatbot/au-fulfillment/internal/rag"
	"github.com/anurag-chatbot/au-fulfillment/internal/sentry"
)

// Routing labels.
const (
	// LocalHint is the category hint for free-text retrieval and the
	// placeholder for malformed intent names.
	LocalHint = "UserQuery"
	// LocalIntent labels chat answers produced by the knowledge retriever.
	LocalIntent = "Local.KnowledgeBase"
	// DefaultLanguage is the language code of chat answers.
	DefaultLanguage = "en"
	// Greeting prefixes webhook answers for non-English requests.
	Greeting = "Namaste! "
)

// Stages that can resolve a request.
const (
	StageKeyword   = "keyword"
	StageNLU       = "nlu"
	StageKnowledge = "knowledge"
	StageIntent    = "intent"
)

// Entry points.
const (
	EntryChat    = "chat"
	EntryWebhook = "webhook"
)

// repromptPhrases in an NLU reply mean the agent did not understand.
var repromptPhrases = []string{"I didn't get that", "Can you say it again"}

const knowledgeSuffixFormat = "I found some information in our knowledge base:\n\n%s\n\n" +
	"You can also visit the official Anurag University website or contact admissions at " +
	rag.ContactPhone + " for more specific queries."

// Detector classifies free text with an external NLU service.
type Detector interface {
	Detect(ctx context.Context, text, languageCode string) (*genai.Detection, error)
	Provider() string
}

// Retriever answers free text from the knowledge corpus.
type Retriever interface {
	Search(ctx context.Context, query, hint string) rag.Result
}

// Processor orchestrates the fallback chain: keyword match, then external
// NLU, then knowledge retrieval.
type Processor struct {
	registry      *Registry
	detector      Detector
	retriever     Retriever
	logger        *logger.Logger
	metrics       *metrics.Metrics
	minConfidence float64
}

// ProcessorConfig holds configuration for creating a new Processor.
type ProcessorConfig struct {
	Registry  *Registry
	Detector  Detector // optional
	Retriever Retriever
	Logger    *logger.Logger
	Metrics   *metrics.Metrics

	// MinConfidence is the lowest NLU confidence accepted.
	MinConfidence float64
}

// NewProcessor creates a new request processor.
func NewProcessor(cfg ProcessorConfig) *Processor {
	log := cfg.Logger
	if log == nil {
		log = logger.NewWithWriter("error", io.Discard)
	}
	return &Processor{
		registry:      cfg.Registry,
		detector:      cfg.Detector,
		retriever:     cfg.Retriever,
		logger:        log.WithModule("processor"),
		metrics:       cfg.Metrics,
		minConfidence: cfg.MinConfidence,
	}
}

// ChatResult is the answer to a chat request.
type ChatResult struct {
	Response string
	Intent   string
	Language string
	Stage    string
}

// Chat answers free text from a chat client.
func (p *Processor) Chat(ctx context.Context, text string) ChatResult {
	start := time.Now()
	text = strings.TrimSpace(text)
	if ctxutil.GetSessionID(ctx) == "" {
		ctx = ctxutil.WithSessionID(ctx, uuid.NewString())
	}

	res := p.chat(ctx, text)

	entry := ctxutil.GetChannel(ctx)
	if entry == "" {
		entry = EntryChat
	}
	p.metrics.RecordRequest(entry, res.Stage, time.Since(start).Seconds())
	p.logger.InfoContext(ctx, "Chat resolved",
		"stage", res.Stage,
		"intent", res.Intent,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return res
}

func (p *Processor) chat(ctx context.Context, text string) ChatResult {
	if resp, h, ok := p.registry.DispatchText(ctx, text); ok {
		return ChatResult{Response: resp, Intent: h.Intent(), Language: DefaultLanguage, Stage: StageKeyword}
	}

	if resp, intent, ok := p.detect(ctx, text); ok {
		return ChatResult{Response: resp, Intent: intent, Language: DefaultLanguage, Stage: StageNLU}
	}

	resp := p.retriever.Search(ctx, text, LocalHint).Text
	if strings.Contains(resp, rag.NoSpecificAnswer) {
		resp = fmt.Sprintf(knowledgeSuffixFormat, resp)
	}
	return ChatResult{Response: resp, Intent: LocalIntent, Language: DefaultLanguage, Stage: StageKnowledge}
}

// detect runs the NLU stage. ok is false when the detection is missing,
// failed or must be discarded.
func (p *Processor) detect(ctx context.Context, text string) (resp, intent string, ok bool) {
	if p.detector == nil {
		return "", "", false
	}

	det, err := p.detector.Detect(ctx, text, DefaultLanguage)
	if err != nil {
		p.logger.WithError(err).WarnContext(ctx, "Intent detection failed, using local knowledge base",
			"provider", p.detector.Provider())
		sentry.CaptureExceptionWithContext(ctx, err)
		return "", "", false
	}
	if det == nil || p.discard(det) {
		p.logger.DebugContext(ctx, "Intent detection discarded")
		return "", "", false
	}

	if det.FulfillmentText != "" {
		return det.FulfillmentText, det.Intent, true
	}
	if h := p.registry.ForIntent(det.Intent); h != nil {
		return p.registry.Invoke(ctx, h, params.Bag(det.Parameters), text), h.Intent(), true
	}
	return "", "", false
}

func (p *Processor) discard(det *genai.Detection) bool {
	if det.Intent == genai.FallbackIntent || det.Confidence < p.minConfidence {
		return true
	}
	for _, phrase := range repromptPhrases {
		if strings.Contains(det.FulfillmentText, phrase) {
			return true
		}
	}
	return false
}

// FulfillmentRequest is an already classified intent from an NLU agent.
type FulfillmentRequest struct {
	Intent       string
	Params       params.Bag
	QueryText    string
	LanguageCode string
}

// Fulfill answers a classified intent. Known intents go straight to their
// handler; anything else is answered by the retriever with the intent name
// as category hint.
func (p *Processor) Fulfill(ctx context.Context, req FulfillmentRequest) string {
	start := time.Now()
	intent := NormalizeIntent(req.Intent)

	var resp, stage string
	if h := p.registry.ForIntent(intent); h != nil {
		resp, stage = p.registry.Invoke(ctx, h, req.Params, req.QueryText), StageIntent
	} else {
		resp, stage = p.retriever.Search(ctx, req.QueryText, intent).Text, StageKnowledge
	}
	if !IsEnglish(req.LanguageCode) {
		resp = Greeting + resp
	}

	p.metrics.RecordRequest(EntryWebhook, stage, time.Since(start).Seconds())
	p.logger.InfoContext(ctx, "Intent fulfilled",
		"intent", intent,
		"stage", stage,
		"language", req.LanguageCode,
	)
	return resp
}

// NormalizeIntent replaces empty intent names and resource paths
// ("projects/x/agent/intents/uuid") with LocalHint.
func NormalizeIntent(name string) string {
	name = strings.TrimSpace(name)
	if name == "" || strings.Contains(name, "/") {
		return LocalHint
	}
	return name
}

// IsEnglish reports whether a language code is English. An empty code
// counts as English; unparseable codes do not.
func IsEnglish(code string) bool {
	code = strings.TrimSpace(code)
	if code == "" {
		return true
	}
	tag, err := language.Parse(code)
	if err != nil {
		return false
	}
	base, _ := tag.Base()
	english, _ := language.English.Base()
	return base == english
}
