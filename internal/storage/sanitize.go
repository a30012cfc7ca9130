package storage

import "strings"

// sanitizeSearchTerm escapes SQLite LIKE wildcards so a term is matched
// literally. Queries using it must declare ESCAPE '\'.
func sanitizeSearchTerm(term string) string {
	replacer := strings.NewReplacer(
		"\\", "\\\\", // Escape backslash first
		"%", "\\%",
		"_", "\\_",
	)
	return replacer.Replace(term)
}
