package bot

import "testing"

func TestBuildKeywordRegex(t *testing.T) {
	t.Parallel()

	re := BuildKeywordRegex([]string{"hostel", "rooms?", "mess", "4 sharing"})

	tests := []struct {
		text string
		want bool
	}{
		{"Hostel fees", true},
		{"how much are the ROOMS", true},
		{"room", true},
		{"is there a mess", true},
		{"message me", false},
		{"hostels", false},
		{"4 sharing with AC", true},
		{"", false},
	}
	for _, tt := range tests {
		if got := re.MatchString(tt.text); got != tt.want {
			t.Errorf("MatchString(%q) = %v, want %v", tt.text, got, tt.want)
		}
	}
}

func TestBuildKeywordRegex_LongestFirst(t *testing.T) {
	t.Parallel()

	re := BuildKeywordRegex([]string{"computer", "computer science"})
	if got := re.FindString("I like Computer Science a lot"); got != "Computer Science" {
		t.Errorf("FindString() = %q, want %q", got, "Computer Science")
	}
	if got := re.FindString("nothing here"); got != "" {
		t.Errorf("FindString() = %q, want empty", got)
	}
}

func TestBuildKeywordRegex_PanicsOnEmpty(t *testing.T) {
	t.Parallel()

	defer func() {
		if recover() == nil {
			t.Error("expected panic for empty keyword list")
		}
	}()
	BuildKeywordRegex(nil)
}
