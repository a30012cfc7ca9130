package course

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"

	"github.com/anurag-chatbot/au-fulfillment/internal/logger"
	"github.com/anurag-chatbot/au-fulfillment/internal/metrics"
	"github.com/anurag-chatbot/au-fulfillment/internal/params"
	"github.com/anurag-chatbot/au-fulfillment/internal/storage"
)

func setupTestHandler(t *testing.T) (*Handler, *metrics.Metrics) {
	t.Helper()

	db, err := storage.NewSampleDB()
	if err != nil {
		t.Fatalf("Failed to create sample database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	m := metrics.New(prometheus.NewRegistry())
	return NewHandler(db, m, logger.NewWithWriter("error", io.Discard)), m
}

func outcomeCount(t *testing.T, m *metrics.Metrics, outcome string) float64 {
	t.Helper()
	var out dto.Metric
	if err := m.HandlerOutcomesTotal.WithLabelValues(IntentName, outcome).Write(&out); err != nil {
		t.Fatalf("read counter: %v", err)
	}
	return out.GetCounter().GetValue()
}

func TestCanHandle(t *testing.T) {
	t.Parallel()
	h, _ := setupTestHandler(t)

	tests := []struct {
		input string
		want  bool
	}{
		{"Tell me about the CSE program", true},
		{"what courses are offered", true},
		{"B.Tech details", true},
		{"btech", true},
		{"describe civil engineering", true},
		{"Is AI a good branch?", true},
		{"B Pharmacy overview", true},
		{"computer science curriculum", true},
		{"hostel fee for boys", false},
		{"said hello", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := h.CanHandle(tt.input); got != tt.want {
			t.Errorf("CanHandle(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestHandle_Engineering(t *testing.T) {
	t.Parallel()
	h, m := setupTestHandler(t)

	got := h.Handle(context.Background(), params.Bag{"engineeringcourse": "CSE"}, "")
	want := "**B.Tech Computer Science and Engineering**:\n" +
		"**Overview:** A four-year undergraduate program covering programming, data structures, algorithms, operating systems, databases and computer networks.\n" +
		"**Key Focus:** Software development, systems programming and emerging computing technologies\n"
	if got != want {
		t.Errorf("Handle() =\n%q\nwant\n%q", got, want)
	}
	if c := outcomeCount(t, m, "answered"); c != 1 {
		t.Errorf("answered count = %v, want 1", c)
	}
}

func TestHandle_PharmacyAddsAccreditation(t *testing.T) {
	t.Parallel()
	h, _ := setupTestHandler(t)

	got := h.Handle(context.Background(), params.Bag{"EngineeringCourse": "B Pharmacy"}, "")
	want := "**Bachelor of Pharmacy**:\n" +
		"**Overview:** A four-year program in pharmaceutical sciences covering pharmaceutics, pharmacology, pharmaceutical chemistry and pharmacognosy.\n" +
		"**Key Focus:** Drug design, formulation and clinical pharmacy practice\n" +
		"**Accreditation/Rank:** NBA Accredited (NIRF Rank 76)"
	if got != want {
		t.Errorf("Handle() =\n%q\nwant\n%q", got, want)
	}
}

func TestHandle_InfersFromText(t *testing.T) {
	t.Parallel()
	h, _ := setupTestHandler(t)

	got := h.Handle(context.Background(), nil, "tell me about civil engineering")
	want := "**B.Tech Civil Engineering**:\n"
	if len(got) < len(want) || got[:len(want)] != want {
		t.Errorf("Handle() = %q, want prefix %q", got, want)
	}
}

func TestHandle_NotFound(t *testing.T) {
	t.Parallel()
	h, m := setupTestHandler(t)

	got := h.Handle(context.Background(), params.Bag{"engineeringcourse": "Aeronautical"}, "")
	want := "I couldn't find a detailed description for the program: Aeronautical. Please ensure you use the full program name."
	if got != want {
		t.Errorf("Handle() = %q, want %q", got, want)
	}
	if c := outcomeCount(t, m, "not_found"); c != 1 {
		t.Errorf("not_found count = %v, want 1", c)
	}
}

func TestHandle_Clarify(t *testing.T) {
	t.Parallel()
	h, _ := setupTestHandler(t)

	got := h.Handle(context.Background(), params.Bag{"engineeringcourse": "  "}, "which programs do you offer")
	if got != msgClarify {
		t.Errorf("Handle() = %q, want %q", got, msgClarify)
	}
}

func TestHandle_StoreFailure(t *testing.T) {
	t.Parallel()

	m := metrics.New(prometheus.NewRegistry())
	h := NewHandler(&storage.Unavailable{Cause: errors.New("connection refused")}, m, nil)

	got := h.Handle(context.Background(), params.Bag{"engineeringcourse": "CSE"}, "")
	if got != "I'm having trouble accessing the course information right now." {
		t.Errorf("Handle() = %q", got)
	}
	if c := outcomeCount(t, m, "error"); c != 1 {
		t.Errorf("error count = %v, want 1", c)
	}
}

func TestNameAndIntent(t *testing.T) {
	t.Parallel()
	h := NewHandler(nil, nil, nil)
	if h.Name() != "course" || h.Intent() != "Engineering_Course_Description_D" {
		t.Errorf("unexpected identity: %s / %s", h.Name(), h.Intent())
	}
}
