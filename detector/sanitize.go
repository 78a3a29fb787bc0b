package detector

import (
	"sort"

	"blindmatch_server/models"
)

// Sanitize returns a copy of text with every finding span replaced by the
// placeholder token. Replacements are applied back-to-front, by descending
// start offset, so earlier offsets stay valid while later spans are rewritten.
// Text outside flagged spans is never altered, and sanitizing a message with
// no findings returns it unchanged.
func Sanitize(text string, findings []models.PIIFinding, placeholder string) string {
	if len(findings) == 0 {
		return text
	}

	ordered := make([]models.PIIFinding, len(findings))
	copy(ordered, findings)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].StartOffset > ordered[j].StartOffset
	})

	out := text
	lastStart := len(text)
	for _, f := range ordered {
		start, end := f.StartOffset, f.EndOffset
		if start < 0 || end > len(text) || start >= end {
			continue
		}
		// overlapping spans collapse into the replacement already applied
		if end > lastStart {
			if start >= lastStart {
				continue
			}
			end = lastStart
		}
		out = out[:start] + placeholder + out[end:]
		lastStart = start
	}
	return out
}
