package chunker

import (
	"regexp"
	"strings"
)

// boundary matches sentence-ending punctuation followed by whitespace, or a
// blank-line paragraph break. RE2 has no lookbehind, so the punctuation is
// matched and handed back to the preceding unit.
var boundary = regexp.MustCompile(`[.!?]\s+|\n{2,}`)

// splitUnits breaks text into trimmed, non-empty sentence or paragraph units.
func splitUnits(text string) []string {
	var units []string
	add := func(s string) {
		if s = strings.TrimSpace(s); s != "" {
			units = append(units, s)
		}
	}

	start := 0
	for _, m := range boundary.FindAllStringIndex(text, -1) {
		end := m[0]
		if c := text[m[0]]; c == '.' || c == '!' || c == '?' {
			end++
		}
		add(text[start:end])
		start = m[1]
	}
	add(text[start:])

	return units
}
