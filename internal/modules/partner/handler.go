// Package partner answers industry partner (MOU) requests from the
// iiic_partners collection.
package partner

import (
	"context"
	"fmt"
	"strings"

	"github.com/anurag-chatbot/au-fulfillment/internal/bot"
	domerrors "github.com/anurag-chatbot/au-fulfillment/internal/errors"
	"github.com/anurag-chatbot/au-fulfillment/internal/logger"
	"github.com/anurag-chatbot/au-fulfillment/internal/metrics"
	"github.com/anurag-chatbot/au-fulfillment/internal/params"
	"github.com/anurag-chatbot/au-fulfillment/internal/sliceutil"
	"github.com/anurag-chatbot/au-fulfillment/internal/storage"
)

// Module constants
const (
	ModuleName = "partner"
	IntentName = "IIIC_Partners_D"

	// PreviewSize is the number of partner names quoted in an answer.
	PreviewSize = 10
)

const (
	msgPartners = "Anurag University has signed MOUs with %d companies, including: **%s** and many more."
	msgMissing  = "The list of Industry Interaction partners is currently being updated. Please check back later."
	msgError    = "I'm having trouble accessing the industry partner information right now."
)

var (
	validPartnerKeywords = []string{
		"partners?", "partnerships?", "mous?", "collaborations?", "industry", "tie[- ]?ups?", "iiic",
	}

	partnerRegex = bot.BuildKeywordRegex(validPartnerKeywords)

	errWrapper = domerrors.NewWrapper(ModuleName, "get_partner_list")
)

// Handler answers IIIC_Partners_D.
type Handler struct {
	repo   storage.PartnerRepository
	report bot.Reporter
}

// NewHandler creates a partner handler.
func NewHandler(repo storage.PartnerRepository, m *metrics.Metrics, log *logger.Logger) *Handler {
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

// CanHandle checks if the text is about industry partners.
func (h *Handler) CanHandle(text string) bool {
	return partnerRegex.MatchString(text)
}

// Handle quotes the first PreviewSize partners and the total count.
// The intent takes no parameters.
func (h *Handler) Handle(ctx context.Context, _ params.Bag, _ string) string {
	list, err := h.repo.GetPartnerList(ctx, storage.PartnerListMOU)
	if err != nil {
		return h.report.Fault(ctx, errWrapper.Wrap(err, msgError))
	}
	if list == nil || len(list.Partners) == 0 {
		return h.report.Answer(bot.OutcomeNotFound, msgMissing)
	}

	preview := strings.Join(sliceutil.Head(list.Partners, PreviewSize), ", ")
	return h.report.Answer(bot.OutcomeAnswered, fmt.Sprintf(msgPartners, len(list.Partners), preview))
}
