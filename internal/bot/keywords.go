package bot

import (
	"regexp"
	"slices"
	"strings"
)

// BuildKeywordRegex creates a case-insensitive regex matching any keyword
// as a whole word anywhere in the text. Keywords are regex fragments and are
// sorted longest first so alternations prefer the most specific keyword.
// Panics if keywords is empty.
//
// Example:
//
//	BuildKeywordRegex([]string{"hostel", "room(s)?"}).MatchString("Hostel rooms?") // true
//	BuildKeywordRegex([]string{"mess"}).MatchString("message")                     // false
func BuildKeywordRegex(keywords []string) *regexp.Regexp {
	if len(keywords) == 0 {
		panic("BuildKeywordRegex: keywords cannot be empty")
	}

	sorted := slices.Clone(keywords)
	slices.SortFunc(sorted, func(a, b string) int {
		return len(b) - len(a)
	})

	return regexp.MustCompile(`(?i)\b(?:` + strings.Join(sorted, "|") + `)\b`)
}
