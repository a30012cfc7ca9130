package params

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Canonical values produced by inference. They match the keys stored in the
// fact collections.
const (
	ExamEAPCET    = "EAPCET"
	ExamJEE       = "JEE"
	ExamANURAGCET = "ANURAGCET"

	GenderMale   = "male"
	GenderFemale = "female"

	AccommodationAC       = "4 sharing with AC"
	AccommodationAttached = "4 sharing attached"
	AccommodationFive     = "5 sharing"
	AccommodationFour     = "4 sharing"
)

type rule struct {
	pattern *regexp.Regexp
	value   string
}

func firstMatch(rules []rule, text string) string {
	for _, r := range rules {
		if r.pattern.MatchString(text) {
			return r.value
		}
	}
	return ""
}

// Order matters: earlier rules win when several cues co-occur.
var (
	courseRules = []rule{
		{regexp.MustCompile(`(?i)\b(eee|electrical)\b`), "EEE"},
		{regexp.MustCompile(`(?i)\b(cse|computer)\b`), "CSE"},
		{regexp.MustCompile(`(?i)\b(ai|aiml|artificial intelligence)\b`), "AI"},
		{regexp.MustCompile(`(?i)\bcivil\b`), "Civil"},
		{regexp.MustCompile(`(?i)\bmechanical\b`), "Mechanical"},
		{regexp.MustCompile(`(?i)\b(ece|electronics)\b`), "ECE"},
		{regexp.MustCompile(`(?i)\b(b\.?\s?pharm(acy)?|pharmacy)\b`), "B Pharmacy"},
	}

	genderRules = []rule{
		{regexp.MustCompile(`(?i)\b(female|girls?|women|woman|ladies|lady)\b`), GenderFemale},
		{regexp.MustCompile(`(?i)\b(male|boys?|men|man|gents)\b`), GenderMale},
	}

	accommodationRules = []rule{
		{regexp.MustCompile(`(?i)\b(ac|a\.c\.?|air[- ]?condition(ed|ing)?)\b`), AccommodationAC},
		{regexp.MustCompile(`(?i)\battach(ed)?\b`), AccommodationAttached},
		{regexp.MustCompile(`(?i)\b(5|five)[- ]?(sharing|share|bed)\b`), AccommodationFive},
		{regexp.MustCompile(`(?i)\b(4|four)[- ]?(sharing|share|bed)\b`), AccommodationFour},
	}

	rankPattern  = regexp.MustCompile(`\b(\d{1,6})\b`)
	yearPattern  = regexp.MustCompile(`\b((?:19|20)\d{2})\s*[-–/]\s*((?:19|20)?\d{2})\b`)
	yearCanonRaw = regexp.MustCompile(`^((?:19|20)\d{2})\s*[-–/]\s*((?:19|20)?\d{2})$`)
)

// InferExam returns the canonical exam mentioned in text, checking
// EAPCET/EAMCET, then JEE, then ANURAG(CET). Empty when none is mentioned.
func InferExam(text string) string {
	upper := strings.ToUpper(text)
	switch {
	case strings.Contains(upper, "EAPCET"), strings.Contains(upper, "EAMCET"):
		return ExamEAPCET
	case strings.Contains(upper, "JEE"):
		return ExamJEE
	case strings.Contains(upper, "ANURAG"):
		return ExamANURAGCET
	}
	return ""
}

// InferRank returns the first run of 1 to 6 digits in text.
func InferRank(text string) (int, bool) {
	m := rankPattern.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	return n, err == nil
}

// InferCourse returns the canonical course alias mentioned in text, or "".
func InferCourse(text string) string {
	return firstMatch(courseRules, text)
}

// InferGender returns "female" or "male" from text cues, or "".
func InferGender(text string) string {
	return firstMatch(genderRules, text)
}

// InferAccommodation returns the accommodation alias with priority
// AC > attached > 5 sharing > 4 sharing, or "".
func InferAccommodation(text string) string {
	return firstMatch(accommodationRules, text)
}

// InferYear returns the first academic-year range in text in canonical
// "YYYY-YYYY" form, or "".
func InferYear(text string) string {
	m := yearPattern.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	return joinYears(m[1], m[2])
}

// CanonicalYear rewrites year ranges such as "2023-24" or "2023 / 2024" to
// "2023-2024". Other values are returned trimmed and otherwise unchanged.
func CanonicalYear(year string) string {
	year = strings.TrimSpace(year)
	m := yearCanonRaw.FindStringSubmatch(year)
	if m == nil {
		return year
	}
	return joinYears(m[1], m[2])
}

func joinYears(start, end string) string {
	if len(end) == 2 {
		end = start[:2] + end
	}
	return start + "-" + end
}

// periodYears renders an NLU date-period value ({"startDate": ..., "endDate": ...})
// as "YYYY-YYYY". Anything else yields "".
func periodYears(period map[string]any) string {
	start, _ := period["startDate"].(string)
	end, _ := period["endDate"].(string)
	if len(start) < 4 || len(end) < 4 {
		return ""
	}
	return fmt.Sprintf("%s-%s", start[:4], end[:4])
}
