package params

import "strings"

// Rank bands shared by the EAPCET and JEE scholarship brackets.
const (
	Band1To2000      = "1-2000"
	Band2001To10000  = "2001-10000"
	Band10001To15000 = "10001-15000"
	Band15001To25000 = "15001-25000"
)

// ClassifyRank maps a numeric rank to its scholarship band. It only
// classifies EAPCET and JEE (case-insensitive). Ranks above 25000 have no
// band; callers treat that as "does not qualify", not as an error.
func ClassifyRank(exam string, rank int) (string, bool) {
	if !Classifiable(exam) {
		return "", false
	}

	switch {
	case rank <= 2000:
		return Band1To2000, true
	case rank <= 10000:
		return Band2001To10000, true
	case rank <= 15000:
		return Band10001To15000, true
	case rank <= 25000:
		return Band15001To25000, true
	default:
		return "", false
	}
}

// Classifiable reports whether ranks of exam map onto bands automatically.
func Classifiable(exam string) bool {
	switch strings.ToUpper(strings.TrimSpace(exam)) {
	case ExamEAPCET, ExamJEE:
		return true
	}
	return false
}
