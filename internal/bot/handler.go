// Package bot routes user text and classified intents to the fact lookup
// modules (course, hostel, scholarship, placement, partner) and falls back
// to the knowledge retriever when no module answers.
package bot

import (
	"context"

	"github.com/anurag-chatbot/au-fulfillment/internal/params"
)

// Handler defines the interface that all fact lookup modules implement.
type Handler interface {
	// Name returns the module identifier used in logs.
	Name() string

	// Intent returns the NLU intent display name this handler fulfills,
	// e.g. "Hostel_Fee_D".
	Intent() string

	// CanHandle reports whether raw text carries one of the module's keywords.
	CanHandle(text string) bool

	// Handle answers a request. bag holds NLU parameters and may be nil;
	// any parameter missing from it is inferred from text. Handle never
	// fails: store faults become a fixed apology.
	Handle(ctx context.Context, bag params.Bag, text string) string
}
