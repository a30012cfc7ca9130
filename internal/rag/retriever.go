package rag

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/anurag-chatbot/au-fulfillment/internal/logger"
	"github.com/anurag-chatbot/au-fulfillment/internal/metrics"
	"github.com/anurag-chatbot/au-fulfillment/internal/stringutil"
)

// Scoring weights.
const (
	categoryBoost  = 10
	keywordBoost   = 3
	phraseBoost    = 5
	answerMinScore = 5 // an answer needs a score strictly above this

	snippetLead   = 150
	snippetLength = 450
	minKeywordLen = 4
)

// ContactPhone is the admissions number quoted when no specific answer exists.
const ContactPhone = "+91-8181057057"

// NoSpecificAnswer appears in every low-relevance reply.
const NoSpecificAnswer = "could not find a specific answer"

// UnavailableMessage is returned when no corpus has been loaded.
const UnavailableMessage = "I apologize, the University knowledge base is currently unavailable. Please check back shortly."

var stopWords = map[string]struct{}{
	"the": {}, "a": {}, "is": {}, "what": {}, "are": {}, "for": {},
	"of": {}, "in": {}, "and": {}, "how": {}, "much": {},
}

// Outcome classifies a retrieval for metrics and routing.
type Outcome string

const (
	OutcomeHit         Outcome = "hit"
	OutcomeMiss        Outcome = "miss"
	OutcomeUnavailable Outcome = "unavailable"
)

// Result is the rendered answer plus the match details behind it.
type Result struct {
	Text     string
	Outcome  Outcome
	Category string
	URL      string
	Score    int
}

// Snapshotter hands out the current corpus snapshot. Both *Corpus and
// *KnowledgeBase satisfy it.
type Snapshotter interface {
	Snapshot() *Corpus
}

// Retriever scores every corpus entry against a query and a category hint
// and answers with a snippet of the best entry.
type Retriever struct {
	corpus  Snapshotter
	logger  *logger.Logger
	metrics *metrics.Metrics
}

// NewRetriever creates a retriever over corpus. log and m may be nil.
func NewRetriever(corpus Snapshotter, log *logger.Logger, m *metrics.Metrics) *Retriever {
	return &Retriever{corpus: corpus, logger: log, metrics: m}
}

// Answer is Search without the match details.
func (r *Retriever) Answer(ctx context.Context, query, hint string) string {
	return r.Search(ctx, query, hint).Text
}

// Search finds the best entry for query. hint is an intent-style name whose
// second-to-last dot segment names the preferred category.
func (r *Retriever) Search(ctx context.Context, query, hint string) Result {
	var corpus *Corpus
	if r.corpus != nil {
		corpus = r.corpus.Snapshot()
	}
	if corpus.Empty() {
		r.metrics.RecordRetrieverOutcome(string(OutcomeUnavailable))
		return Result{Text: UnavailableMessage, Outcome: OutcomeUnavailable}
	}

	category := CategoryFromHint(hint)
	lowered := strings.ToLower(query)
	keywords := Keywords(lowered)

	best, bestScore := -1, -1
	var bestEntry KnowledgeEntry
	corpus.Each(func(i int, e KnowledgeEntry) bool {
		s := score(e, category, lowered, keywords)
		if s > bestScore {
			best, bestScore, bestEntry = i, s, e
		}
		return true
	})

	if best < 0 || bestScore <= answerMinScore {
		r.metrics.RecordRetrieverOutcome(string(OutcomeMiss))
		if r.logger != nil {
			r.logger.DebugContext(ctx, "No specific knowledge match",
				"category", category, "best_score", bestScore)
		}
		return Result{
			Text: fmt.Sprintf("I found some general information related to the '%s' category, but %s for '%s'. "+
				"Could you please try rephrasing? For direct help, you can call %s.", category, NoSpecificAnswer, query, ContactPhone),
			Outcome:  OutcomeMiss,
			Category: category,
			Score:    bestScore,
		}
	}

	r.metrics.RecordRetrieverOutcome(string(OutcomeHit))
	return Result{
		Text: fmt.Sprintf("**Information on %s**: %s\n\n*(Source: %s)*",
			category, Snippet(bestEntry.Content, lowered), bestEntry.URL),
		Outcome:  OutcomeHit,
		Category: category,
		URL:      bestEntry.URL,
		Score:    bestScore,
	}
}

func score(e KnowledgeEntry, category, loweredQuery string, keywords []string) int {
	s := 0
	if strings.ToLower(e.Category) == strings.ToLower(category) {
		s += categoryBoost
	}
	content := strings.ToLower(e.Content)
	for _, kw := range keywords {
		if strings.Contains(content, kw) {
			s += keywordBoost
		}
	}
	if strings.Contains(content, loweredQuery) {
		s += phraseBoost
	}
	return s
}

// CategoryFromHint derives a display category from an intent-style hint:
// "Admissions.FeesQuery" -> "Admissions", "a.hostel_fees.b" -> "Hostel Fees".
// A hint without dots uses its only segment.
func CategoryFromHint(hint string) string {
	segments := strings.Split(hint, ".")
	seg := segments[0]
	if len(segments) >= 2 {
		seg = segments[len(segments)-2]
	}
	seg = strings.ReplaceAll(seg, "_", " ")
	return cases.Title(language.Und).String(seg)
}

// Keywords splits an already lowercased query on whitespace and keeps the
// tokens that are not stop words and are longer than three characters.
func Keywords(lowered string) []string {
	fields := strings.Fields(lowered)
	out := fields[:0]
	for _, w := range fields {
		if _, stop := stopWords[w]; stop || utf8.RuneCountInString(w) < minKeywordLen {
			continue
		}
		out = append(out, w)
	}
	return out
}

// Snippet cuts a window of content around the first occurrence of the
// lowercased query, or from the start when the query does not occur.
func Snippet(content, loweredQuery string) string {
	start := stringutil.RuneIndex(strings.ToLower(content), loweredQuery)
	if start < 0 {
		start = 0
	}
	total := len([]rune(content))
	from := max(0, start-snippetLead)
	to := min(total, from+snippetLength)

	snippet := stringutil.SliceRunes(content, from, to)
	snippet = strings.ReplaceAll(snippet, "\n", " ")
	snippet = strings.ReplaceAll(snippet, "  ", " ")
	if to < total {
		snippet += "..."
	}
	return snippet
}
