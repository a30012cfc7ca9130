// Package hostel answers hostel fee requests from the hostel_fees collection.
package hostel

import (
	"context"
	"fmt"
	"strings"

	"github.com/anurag-chatbot/au-fulfillment/internal/bot"
	domerrors "github.com/anurag-chatbot/au-fulfillment/internal/errors"
	"github.com/anurag-chatbot/au-fulfillment/internal/logger"
	"github.com/anurag-chatbot/au-fulfillment/internal/metrics"
	"github.com/anurag-chatbot/au-fulfillment/internal/params"
	"github.com/anurag-chatbot/au-fulfillment/internal/storage"
	"github.com/anurag-chatbot/au-fulfillment/internal/stringutil"
)

// Module constants
const (
	ModuleName = "hostel"
	IntentName = "Hostel_Fee_D"
)

const (
	msgClarify      = "Please specify both the student's gender (male/female) and the accommodation type (e.g., 4 sharing with AC)."
	msgNoSchedule   = "I am unable to retrieve the fee structure from the database at this moment."
	msgRoomNotFound = "I found the fees for %s students, but not the specific room type: %s. Please specify 5 sharing, 4 sharing attached, or 4 sharing with AC."
	msgError        = "I'm having trouble accessing the hostel fee information right now."
)

var (
	validHostelKeywords = []string{
		"hostels?", "accommodations?", "rooms?", "sharing", "dorms?", "dormitor(y|ies)", "mess",
	}

	hostelRegex = bot.BuildKeywordRegex(validHostelKeywords)

	errWrapper = domerrors.NewWrapper(ModuleName, "get_hostel_fees")
)

// Handler answers Hostel_Fee_D.
type Handler struct {
	repo   storage.HostelRepository
	report bot.Reporter
}

// NewHandler creates a hostel handler.
func NewHandler(repo storage.HostelRepository, m *metrics.Metrics, log *logger.Logger) *Handler {
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

// CanHandle checks if the text is about hostel accommodation.
func (h *Handler) CanHandle(text string) bool {
	return hostelRegex.MatchString(text)
}

// Handle quotes the fees for one gender and room type. Both are required.
func (h *Handler) Handle(ctx context.Context, bag params.Bag, text string) string {
	p := params.HostelFrom(bag, text)
	if p.Gender == "" || p.Accommodation == "" {
		return h.report.Answer(bot.OutcomeClarify, msgClarify)
	}

	schedule, err := h.repo.GetHostelFees(ctx, strings.ToUpper(p.Gender))
	if err != nil {
		return h.report.Fault(ctx, errWrapper.Wrap(err, msgError))
	}
	if schedule == nil {
		return h.report.Answer(bot.OutcomeNotFound, msgNoSchedule)
	}

	gender := stringutil.Capitalize(p.Gender)
	option := schedule.Option(p.Accommodation)
	if option == nil {
		return h.report.Answer(bot.OutcomeNotFound, fmt.Sprintf(msgRoomNotFound, gender, p.Accommodation))
	}
	return h.report.Answer(bot.OutcomeAnswered, formatFee(gender, option))
}

func formatFee(gender string, fee *storage.FeeOption) string {
	return fmt.Sprintf("The fee for a **%s** student in a **%s** room is:\n"+
		"**Annual Hostel Fee:** Rs. %s\n"+
		"**Annual Facilities Fee:** Rs. %s\n"+
		"%s",
		gender, fee.Type, fee.AnnualFee, fee.FacilitiesFee, fee.Note)
}
