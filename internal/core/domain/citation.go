package domain

import "regexp"

// citationPattern matches page markers such as "[p. 3]" or "[p.3]".
var citationPattern = regexp.MustCompile(`\[p\.\s*\d+\]`)

// ExtractCitations returns the distinct page markers found in text,
// in order of first occurrence. Markers are compared verbatim, so
// "[p. 3]" and "[p.3]" are different citations.
// The result is never nil.
func ExtractCitations(text string) []string {
	matches := citationPattern.FindAllString(text, -1)
	result := make([]string, 0, len(matches))
	seen := make(map[string]struct{}, len(matches))
	for _, m := range matches {
		if _, ok := seen[m]; ok {
			continue
		}
		seen[m] = struct{}{}
		result = append(result, m)
	}
	return result
}
