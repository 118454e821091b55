package books

import "strings"

// Filter keeps records where every non-empty pattern is a case-insensitive
// substring of the corresponding field. Filters shape display and export
// only; they never narrow what gets persisted.
func Filter(list []Book, f Filters) []Book {
	if f.BookName == "" && f.Subject == "" && f.Publisher == "" {
		return list
	}
	out := make([]Book, 0, len(list))
	for _, b := range list {
		if matches(b.BookName, f.BookName) && matches(b.Subject, f.Subject) && matches(b.Publisher, f.Publisher) {
			out = append(out, b)
		}
	}
	return out
}

func matches(field, pattern string) bool {
	if pattern == "" {
		return true
	}
	return strings.Contains(strings.ToLower(field), strings.ToLower(pattern))
}
