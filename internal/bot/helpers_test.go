package bot

import (
	"context"
	"regexp"

	"github.com/anurag-chatbot/au-fulfillment/internal/genai"
	"github.com/anurag-chatbot/au-fulfillment/internal/params"
	"github.com/anurag-chatbot/au-fulfillment/internal/rag"
)

// stubHandler is a configurable Handler for routing tests.
type stubHandler struct {
	name     string
	intent   string
	pattern  *regexp.Regexp
	response string
	panicMsg string

	calls   int
	gotBag  params.Bag
	gotText string
}

func newStubHandler(name, intent, keyword, response string) *stubHandler {
	return &stubHandler{
		name:     name,
		intent:   intent,
		pattern:  BuildKeywordRegex([]string{keyword}),
		response: response,
	}
}

func (h *stubHandler) Name() string               { return h.name }
func (h *stubHandler) Intent() string             { return h.intent }
func (h *stubHandler) CanHandle(text string) bool { return h.pattern.MatchString(text) }

func (h *stubHandler) Handle(_ context.Context, bag params.Bag, text string) string {
	h.calls++
	h.gotBag = bag
	h.gotText = text
	if h.panicMsg != "" {
		panic(h.panicMsg)
	}
	return h.response
}

type stubDetector struct {
	det   *genai.Detection
	err   error
	calls int
}

func (d *stubDetector) Detect(context.Context, string, string) (*genai.Detection, error) {
	d.calls++
	return d.det, d.err
}

func (d *stubDetector) Provider() string { return "stub" }

type stubRetriever struct {
	result   rag.Result
	gotQuery string
	gotHint  string
}

func (r *stubRetriever) Search(_ context.Context, query, hint string) rag.Result {
	r.gotQuery = query
	r.gotHint = hint
	return r.result
}
