package stringutil

import "testing"

func TestCapitalize(t *testing.T) {
	tests := []struct {
		input, want string
	}{
		{"male", "Male"},
		{"MALE", "Male"},
		{"fEMALE", "Female"},
		{"", ""},
		{"4 sharing", "4 sharing"},
	}
	for _, tt := range tests {
		if got := Capitalize(tt.input); got != tt.want {
			t.Errorf("Capitalize(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestSliceRunes(t *testing.T) {
	tests := []struct {
		s          string
		start, end int
		want       string
	}{
		{"hostel", 0, 3, "hos"},
		{"hostel", 2, 100, "stel"},
		{"hostel", -5, 2, "ho"},
		{"hostel", 10, 20, ""},
		{"₹ fees", 0, 1, "₹"},
	}
	for _, tt := range tests {
		if got := SliceRunes(tt.s, tt.start, tt.end); got != tt.want {
			t.Errorf("SliceRunes(%q, %d, %d) = %q, want %q", tt.s, tt.start, tt.end, got, tt.want)
		}
	}
}

func TestRuneIndex(t *testing.T) {
	if got := RuneIndex("₹₹ library hours", "library"); got != 3 {
		t.Errorf("RuneIndex() = %d, want 3", got)
	}
	if got := RuneIndex("abc", "z"); got != -1 {
		t.Errorf("RuneIndex() = %d, want -1", got)
	}
}
