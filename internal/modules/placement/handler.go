// Package placement answers placement statistics requests from the
// placement_records collection.
package placement

import (
	"context"
	"fmt"

	"github.com/anurag-chatbot/au-fulfillment/internal/bot"
	domerrors "github.com/anurag-chatbot/au-fulfillment/internal/errors"
	"github.com/anurag-chatbot/au-fulfillment/internal/logger"
	"github.com/anurag-chatbot/au-fulfillment/internal/metrics"
	"github.com/anurag-chatbot/au-fulfillment/internal/params"
	"github.com/anurag-chatbot/au-fulfillment/internal/storage"
)

// Module constants
const (
	ModuleName = "placement"
	IntentName = "Placement_Record_D"
)

const (
	msgYear         = "The number of placements for the academic year %s was **%s**."
	msgYearNotFound = "The year '%s' was recognized, but no specific data was found in the records. Please ensure the year format matches the database exactly (e.g., 'YYYY-YYYY')."
	msgLatest       = "Anurag University has a strong placement record, with the latest figures showing **%s** placements in the **%s** academic year."
	msgNoLatest     = "I could not retrieve the latest placement summary at this moment."
	msgError        = "I'm having trouble accessing the placement records right now. Please try again later."
)

var (
	validPlacementKeywords = []string{
		"placements?", "placed", "jobs?", "recruiters?", "recruitment", "hiring", "packages?",
	}

	placementRegex = bot.BuildKeywordRegex(validPlacementKeywords)

	yearWrapper   = domerrors.NewWrapper(ModuleName, "get_placement_by_year")
	latestWrapper = domerrors.NewWrapper(ModuleName, "get_latest_placement")
)

// Handler answers Placement_Record_D.
type Handler struct {
	repo   storage.PlacementRepository
	report bot.Reporter
}

// NewHandler creates a placement handler.
func NewHandler(repo storage.PlacementRepository, m *metrics.Metrics, log *logger.Logger) *Handler {
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

// CanHandle checks if the text is about placements.
func (h *Handler) CanHandle(text string) bool {
	return placementRegex.MatchString(text)
}

// Handle reports the placements of the requested year, or of the most
// recent year when none is given.
func (h *Handler) Handle(ctx context.Context, bag params.Bag, text string) string {
	p := params.PlacementFrom(bag, text)
	if p.Year == "" {
		return h.latest(ctx)
	}

	record, err := h.repo.GetPlacementByYear(ctx, p.Year)
	if err != nil {
		return h.report.Fault(ctx, yearWrapper.Wrap(err, msgError))
	}
	if record == nil {
		return h.report.Answer(bot.OutcomeNotFound, fmt.Sprintf(msgYearNotFound, p.Year))
	}
	return h.report.Answer(bot.OutcomeAnswered, fmt.Sprintf(msgYear, p.Year, record.Number))
}

func (h *Handler) latest(ctx context.Context) string {
	record, err := h.repo.GetLatestPlacement(ctx)
	if err != nil {
		return h.report.Fault(ctx, latestWrapper.Wrap(err, msgError))
	}
	if record == nil {
		return h.report.Answer(bot.OutcomeNotFound, msgNoLatest)
	}
	return h.report.Answer(bot.OutcomeAnswered, fmt.Sprintf(msgLatest, record.Number, record.Year))
}
