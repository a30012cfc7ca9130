// Package scholarship answers merit scholarship requests from the
// scholarship_ranks collection.
package scholarship

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/anurag-chatbot/au-fulfillment/internal/bot"
	domerrors "github.com/anurag-chatbot/au-fulfillment/internal/errors"
	"github.com/anurag-chatbot/au-fulfillment/internal/logger"
	"github.com/anurag-chatbot/au-fulfillment/internal/metrics"
	"github.com/anurag-chatbot/au-fulfillment/internal/params"
	"github.com/anurag-chatbot/au-fulfillment/internal/storage"
)

// Module constants
const (
	ModuleName = "scholarship"
	IntentName = "Merit_Scholarship_Rank_D"
)

const (
	msgClarify        = "Please specify both the entrance exam (e.g., ANURAGCET, EAPCET, or JEE) and your rank band."
	msgAward          = "Based on your **%s** rank (%s), you receive a **%s** concession, valued at **Rs. %s**."
	msgNotQualified   = "The rank band **%s** does not qualify for a merit scholarship under the **%s** policy, or the rank is outside the scholarship range."
	msgPolicyNotFound = "Sorry, I couldn't find the scholarship policy details for the **%s** exam."
	msgError          = "I'm having trouble accessing the scholarship information right now. Please try again later."
)

var (
	validScholarshipKeywords = []string{
		"scholarships?", "merit", "concessions?", "fee waiver",
		"eapcet", "eamcet", "jee", "anuragcet", "ranks?",
	}

	scholarshipRegex = bot.BuildKeywordRegex(validScholarshipKeywords)

	errWrapper = domerrors.NewWrapper(ModuleName, "find_scholarship_policy")
)

// Handler answers Merit_Scholarship_Rank_D.
type Handler struct {
	repo   storage.ScholarshipRepository
	report bot.Reporter
}

// NewHandler creates a scholarship handler.
func NewHandler(repo storage.ScholarshipRepository, m *metrics.Metrics, log *logger.Logger) *Handler {
	if log != nil {
		log = log.WithModule(ModuleName)
	}
	return &Handler{
		repo:   repo,
		report: bot.Reporter{Intent: IntentName, Logger: log, Metrics: m},
	}
}

// Name returns the module name
func (h *Handler) Name() string { return ModuleName }

// Intent returns the intent display name.
func (h *Handler) Intent() string { return IntentName }

// CanHandle checks if the text is about scholarships or entrance ranks.
func (h *Handler) CanHandle(text string) bool {
	return scholarshipRegex.MatchString(text)
}

// Handle looks up the concession for an exam and rank band. A plain EAPCET
// or JEE rank beyond the last band is answered as not qualifying.
func (h *Handler) Handle(ctx context.Context, bag params.Bag, text string) string {
	p := params.ScholarshipFrom(bag, text)
	outOfRange := p.OutOfRange()
	if p.Exam == "" || (p.Band == "" && !outOfRange) {
		return h.report.Answer(bot.OutcomeClarify, msgClarify)
	}

	examKey := strings.ToUpper(p.Exam)
	policy, err := h.repo.FindScholarshipPolicy(ctx, examKey)
	if err != nil {
		return h.report.Fault(ctx, errWrapper.Wrap(err, msgError))
	}
	if policy == nil {
		return h.report.Answer(bot.OutcomeNotFound, fmt.Sprintf(msgPolicyNotFound, p.Exam))
	}

	band := p.Band
	if outOfRange {
		band = strconv.Itoa(p.Rank)
	}
	bracket, display := findBracket(policy, examKey, band)
	if bracket == nil {
		return h.report.Answer(bot.OutcomeNotFound, fmt.Sprintf(msgNotQualified, band, examKey))
	}
	return h.report.Answer(bot.OutcomeAnswered,
		fmt.Sprintf(msgAward, examKey, display, bracket.Concession, bracket.Value))
}

// findBracket returns the first bracket for band and its display label.
// ANURAGCET brackets match on their own band; every other exam matches
// either the EAPCET or the JEE band of a shared bracket.
func findBracket(policy *storage.ScholarshipPolicy, examKey, band string) (*storage.RankBracket, string) {
	for i := range policy.Ranks {
		r := &policy.Ranks[i]
		if examKey == params.ExamANURAGCET {
			if r.Band == band {
				return r, "Rank: " + r.Band
			}
			continue
		}
		if r.EAPCETBand == band || r.JEEBand == band {
			return r, fmt.Sprintf("EAPCET Rank: %s (or JEE Rank: %s)", r.EAPCETBand, r.JEEBand)
		}
	}
	return nil, ""
}
