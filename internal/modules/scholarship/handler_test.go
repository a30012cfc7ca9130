package scholarship

import (
	"context"
	"testing"

	"github.com/anurag-chatbot/au-fulfillment/internal/params"
	"github.com/anurag-chatbot/au-fulfillment/internal/storage"
)

func setupTestHandler(t *testing.T) *Handler {
	t.Helper()

	db, err := storage.NewSampleDB()
	if err != nil {
		t.Fatalf("Failed to create sample database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	return NewHandler(db, nil, nil)
}

func TestCanHandle(t *testing.T) {
	t.Parallel()
	h := setupTestHandler(t)

	tests := []struct {
		input string
		want  bool
	}{
		{"scholarship for eapcet rank 4500", true},
		{"merit concession", true},
		{"My JEE rank is 9000", true},
		{"ANURAGCET", true},
		{"ranking of the hostel", false},
		{"placements", false},
	}
	for _, tt := range tests {
		if got := h.CanHandle(tt.input); got != tt.want {
			t.Errorf("CanHandle(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestHandle(t *testing.T) {
	t.Parallel()
	h := setupTestHandler(t)

	tests := []struct {
		name string
		bag  params.Bag
		text string
		want string
	}{
		{
			name: "anuragcet band",
			bag:  params.Bag{"entranceexam": "anuragcet", "rankband": "1-50"},
			want: "Based on your **ANURAGCET** rank (Rank: 1-50), you receive a **100% tuition fee** concession, valued at **Rs. 120000**.",
		},
		{
			name: "eapcet rank from text",
			text: "scholarship for eapcet rank 4500",
			want: "Based on your **EAPCET** rank (EAPCET Rank: 2001-10000 (or JEE Rank: 10001-25000)), " +
				"you receive a **50% tuition fee** concession, valued at **Rs. 60000**.",
		},
		{
			name: "jee band matches the jee column",
			bag:  params.Bag{"EntranceExam": "JEE", "RankBand": "25001-40000"},
			want: "Based on your **JEE** rank (EAPCET Rank: 10001-15000 (or JEE Rank: 25001-40000)), " +
				"you receive a **25% tuition fee** concession, valued at **Rs. 30000**.",
		},
		{
			name: "numeric rank parameter",
			bag:  params.Bag{"entranceexam": "EAPCET", "number": float64(20000)},
			want: "Based on your **EAPCET** rank (EAPCET Rank: 15001-25000 (or JEE Rank: 40001-60000)), " +
				"you receive a **10% tuition fee** concession, valued at **Rs. 12000**.",
		},
		{
			name: "rank beyond every band",
			bag:  params.Bag{"entranceexam": "EAPCET", "number": float64(30000)},
			want: "The rank band **30000** does not qualify for a merit scholarship under the **EAPCET** policy, " +
				"or the rank is outside the scholarship range.",
		},
		{
			name: "unknown anuragcet band",
			bag:  params.Bag{"entranceexam": "ANURAGCET", "rankband": "501-1000"},
			want: "The rank band **501-1000** does not qualify for a merit scholarship under the **ANURAGCET** policy, " +
				"or the rank is outside the scholarship range.",
		},
		{
			name: "unknown exam",
			bag:  params.Bag{"entranceexam": "Gate", "rankband": "1-100"},
			want: "Sorry, I couldn't find the scholarship policy details for the **Gate** exam.",
		},
		{
			name: "anuragcet ranks are not classified",
			bag:  params.Bag{"entranceexam": "ANURAGCET", "number": float64(45)},
			want: msgClarify,
		},
		{
			name: "no exam",
			text: "do you offer scholarships",
			want: msgClarify,
		},
		{
			name: "exam without rank",
			text: "eapcet scholarship",
			want: msgClarify,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := h.Handle(context.Background(), tt.bag, tt.text); got != tt.want {
				t.Errorf("Handle() =\n%q\nwant\n%q", got, tt.want)
			}
		})
	}
}

func TestHandle_StoreFailure(t *testing.T) {
	t.Parallel()

	h := NewHandler(&storage.Unavailable{}, nil, nil)
	got := h.Handle(context.Background(), params.Bag{"entranceexam": "JEE", "rankband": "1-10000"}, "")
	if got != "I'm having trouble accessing the scholarship information right now. Please try again later." {
		t.Errorf("Handle() = %q", got)
	}
}

func TestFindBracket_FirstMatchWins(t *testing.T) {
	t.Parallel()

	policy := &storage.ScholarshipPolicy{
		Exam: "EAPCET / JEE",
		Ranks: []storage.RankBracket{
			{EAPCETBand: "1-2000", JEEBand: "1-10000", Concession: "first"},
			{EAPCETBand: "1-10000", JEEBand: "x", Concession: "second"},
		},
	}
	got, _ := findBracket(policy, "JEE", "1-10000")
	if got == nil || got.Concession != "first" {
		t.Errorf("findBracket() = %+v, want first bracket", got)
	}
	if got, _ := findBracket(policy, "ANURAGCET", "1-2000"); got != nil {
		t.Errorf("ANURAGCET must match on band only, got %+v", got)
	}
}
