// Package course answers program description requests from the
// engineering_courses collection.
package course

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
)

// Module constants
const (
	ModuleName = "course"
	IntentName = "Engineering_Course_Description_D"
)

// User-facing messages.
const (
	msgClarify  = "Which program are you interested in? (e.g., AI, Civil, or B Pharmacy)"
	msgNotFound = "I couldn't find a detailed description for the program: %s. Please ensure you use the full program name."
	msgError    = "I'm having trouble accessing the course information right now."
)

var (
	validCourseKeywords = []string{
		"courses?", "programs?", "programmes?", "branch(es)?", "degrees?",
		"b\\.?tech", "curriculum", "speciali[sz]ation",
		"cse", "eee", "ece", "ai", "aiml", "civil", "mechanical", "pharmacy",
		"computer science", "artificial intelligence", "electrical", "electronics",
	}

	courseRegex = bot.BuildKeywordRegex(validCourseKeywords)

	errWrapper = domerrors.NewWrapper(ModuleName, "get_course_by_alias")
)

// Handler answers Engineering_Course_Description_D.
type Handler struct {
	repo   storage.CourseRepository
	report bot.Reporter
}

// NewHandler creates a course handler.
func NewHandler(repo storage.CourseRepository, m *metrics.Metrics, log *logger.Logger) *Handler {
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

// CanHandle checks if the text mentions a program.
func (h *Handler) CanHandle(text string) bool {
	return courseRegex.MatchString(text)
}

// Handle describes the requested program.
func (h *Handler) Handle(ctx context.Context, bag params.Bag, text string) string {
	p := params.CourseFrom(bag, text)
	if p.Alias == "" {
		return h.report.Answer(bot.OutcomeClarify, msgClarify)
	}

	course, err := h.repo.GetCourseByAlias(ctx, p.Alias)
	if err != nil {
		return h.report.Fault(ctx, errWrapper.Wrap(err, msgError))
	}
	if course == nil {
		return h.report.Answer(bot.OutcomeNotFound, fmt.Sprintf(msgNotFound, p.Alias))
	}
	return h.report.Answer(bot.OutcomeAnswered, formatCourse(course))
}

// formatCourse renders a course description. Pharmacy programs append an
// accreditation line.
func formatCourse(c *storage.EngineeringCourse) string {
	var b strings.Builder
	fmt.Fprintf(&b, "**%s**:\n", c.Name)
	fmt.Fprintf(&b, "**Overview:** %s\n", c.Description)
	fmt.Fprintf(&b, "**Key Focus:** %s\n", c.Focus)
	if c.IsPharmacy() {
		fmt.Fprintf(&b, "**Accreditation/Rank:** %s (%s)", c.Accreditation, c.NIRFRank)
	}
	return b.String()
}
