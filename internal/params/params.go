// Package params turns loosely-named NLU parameters and raw query text into
// the typed, canonical parameters each fulfillment handler consumes.
package params

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Parameter names as they arrive from the NLU agent. Case variants are
// listed in lookup order.
var (
	keysCourse        = []string{"engineeringcourse", "EngineeringCourse"}
	keysGender        = []string{"gender", "Gender"}
	keysAccommodation = []string{"accommodationtype", "AccommodationType"}
	keysExam          = []string{"entranceexam", "EntranceExam"}
	keysRankBand      = []string{"rankband", "RankBand"}
	keysNumber        = []string{"number"}
	keysYear          = []string{"Year", "year"}
)

// Bag is an untyped parameter map as produced by an NLU service.
type Bag map[string]any

// String returns the first alias whose value is non-empty after trimming.
// Numbers are rendered without a trailing ".0"; lists yield their first item.
func (b Bag) String(aliases ...string) string {
	for _, key := range aliases {
		v, ok := b[key]
		if !ok {
			continue
		}
		if s := strings.TrimSpace(stringify(v)); s != "" {
			return s
		}
	}
	return ""
}

// Int returns the first alias that parses as an integer.
func (b Bag) Int(aliases ...string) (int, bool) {
	for _, key := range aliases {
		v, ok := b[key]
		if !ok || v == nil {
			continue
		}
		if n, ok := toInt(v); ok {
			return n, true
		}
	}
	return 0, false
}

func stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		if t == math.Trunc(t) && !math.IsInf(t, 0) {
			return strconv.FormatInt(int64(t), 10)
		}
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case []any:
		if len(t) == 0 {
			return ""
		}
		return stringify(t[0])
	case map[string]any:
		return periodYears(t)
	default:
		return fmt.Sprint(t)
	}
}

func toInt(v any) (int, bool) {
	switch t := v.(type) {
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return 0, false
		}
		return int(t), true
	case int:
		return t, true
	case int64:
		return int(t), true
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(t))
		return n, err == nil
	case []any:
		if len(t) == 0 {
			return 0, false
		}
		return toInt(t[0])
	}
	return 0, false
}

// Course identifies the program a description is requested for.
type Course struct {
	Alias string
}

// Hostel identifies one fee schedule entry. Gender is as the user gave it;
// handlers upper-case it for lookup.
type Hostel struct {
	Gender        string
	Accommodation string
}

// Scholarship holds the exam and the resolved rank band. Band is empty when
// no band was given and none could be derived from a rank. Rank is the
// numeric rank the band was derived from, if any.
type Scholarship struct {
	Exam string
	Band string
	Rank int
}

// OutOfRange reports a classifiable rank that falls outside every band.
// Such a rank does not qualify; it is not a missing parameter.
func (s Scholarship) OutOfRange() bool {
	return s.Band == "" && s.Rank > 0 && Classifiable(s.Exam)
}

// Placement holds an optional canonical academic year.
type Placement struct {
	Year string
}

// CourseFrom resolves course parameters, inferring from text when absent.
func CourseFrom(bag Bag, text string) Course {
	alias := bag.String(keysCourse...)
	if alias == "" {
		alias = InferCourse(text)
	}
	return Course{Alias: alias}
}

// HostelFrom resolves hostel parameters, inferring each from text when absent.
func HostelFrom(bag Bag, text string) Hostel {
	h := Hostel{
		Gender:        bag.String(keysGender...),
		Accommodation: bag.String(keysAccommodation...),
	}
	if h.Gender == "" {
		h.Gender = InferGender(text)
	}
	if h.Accommodation == "" {
		h.Accommodation = InferAccommodation(text)
	}
	return h
}

// ScholarshipFrom resolves the exam and band. An explicit band wins; otherwise
// a rank (parameter "number", else the first digit run in text) is classified
// for EAPCET and JEE. ANURAGCET ranks are never classified.
func ScholarshipFrom(bag Bag, text string) Scholarship {
	s := Scholarship{
		Exam: bag.String(keysExam...),
		Band: bag.String(keysRankBand...),
	}
	if s.Exam == "" {
		s.Exam = InferExam(text)
	}
	if s.Band != "" || s.Exam == "" {
		return s
	}

	rank, ok := bag.Int(keysNumber...)
	if !ok {
		rank, ok = InferRank(text)
	}
	if ok {
		s.Rank = rank
		if band, classified := ClassifyRank(s.Exam, rank); classified {
			s.Band = band
		}
	}
	return s
}

// PlacementFrom resolves the academic year, inferring from text when absent.
func PlacementFrom(bag Bag, text string) Placement {
	year := bag.String(keysYear...)
	if year == "" {
		year = InferYear(text)
	}
	return Placement{Year: CanonicalYear(year)}
}
