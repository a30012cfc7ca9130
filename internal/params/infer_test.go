package params

import "testing"

func TestInferExam(t *testing.T) {
	t.Parallel()

	tests := []struct {
		text string
		want string
	}{
		{"my eapcet rank", ExamEAPCET},
		{"EAMCET 2024", ExamEAPCET},
		{"JEE mains rank", ExamJEE},
		{"I wrote JEE and EAPCET", ExamEAPCET},
		{"anurag cet result", ExamANURAGCET},
		{"ANURAGCET", ExamANURAGCET},
		{"scholarship please", ""},
	}
	for _, tt := range tests {
		if got := InferExam(tt.text); got != tt.want {
			t.Errorf("InferExam(%q) = %q, want %q", tt.text, got, tt.want)
		}
	}
}

func TestInferRank(t *testing.T) {
	t.Parallel()

	tests := []struct {
		text   string
		want   int
		wantOK bool
	}{
		{"rank 1500", 1500, true},
		{"rank is 25001 and 3", 25001, true},
		{"rank 1234567", 0, false},
		{"no digits here", 0, false},
	}
	for _, tt := range tests {
		got, ok := InferRank(tt.text)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("InferRank(%q) = (%d, %v), want (%d, %v)", tt.text, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestInferCourse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		text string
		want string
	}{
		{"Electrical and Electronics Engineering", "EEE"},
		{"tell me about CSE", "CSE"},
		{"computer science course", "CSE"},
		{"AI program details", "AI"},
		{"artificial intelligence", "AI"},
		{"civil engineering", "Civil"},
		{"Mechanical", "Mechanical"},
		{"ECE branch", "ECE"},
		{"electronics and communication", "ECE"},
		{"B Pharmacy", "B Pharmacy"},
		{"maintain the campus", ""},
		{"hello", ""},
	}
	for _, tt := range tests {
		if got := InferCourse(tt.text); got != tt.want {
			t.Errorf("InferCourse(%q) = %q, want %q", tt.text, got, tt.want)
		}
	}
}

func TestInferGender(t *testing.T) {
	t.Parallel()

	tests := []struct {
		text string
		want string
	}{
		{"female hostel", GenderFemale},
		{"hostel for girls", GenderFemale},
		{"male student", GenderMale},
		{"boys hostel", GenderMale},
		{"hostel fee", ""},
	}
	for _, tt := range tests {
		if got := InferGender(tt.text); got != tt.want {
			t.Errorf("InferGender(%q) = %q, want %q", tt.text, got, tt.want)
		}
	}
}

func TestInferAccommodation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		text string
		want string
	}{
		{"4 sharing with AC", AccommodationAC},
		{"air conditioned room with attached bath", AccommodationAC},
		{"4 sharing attached bathroom", AccommodationAttached},
		{"5 sharing room", AccommodationFive},
		{"five sharing", AccommodationFive},
		{"4 sharing", AccommodationFour},
		{"hostel fee", ""},
	}
	for _, tt := range tests {
		if got := InferAccommodation(tt.text); got != tt.want {
			t.Errorf("InferAccommodation(%q) = %q, want %q", tt.text, got, tt.want)
		}
	}
}

func TestCanonicalYear(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in, want string
	}{
		{"2023-2024", "2023-2024"},
		{"2023-24", "2023-2024"},
		{" 2023 / 2024 ", "2023-2024"},
		{"2019-20", "2019-2020"},
		{"2024", "2024"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := CanonicalYear(tt.in); got != tt.want {
			t.Errorf("CanonicalYear(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
