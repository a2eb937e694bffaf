package domain

import "strings"

// NormalizeTerm converts raw text into the canonical cache-key form:
// trimmed, lowercased, inner whitespace collapsed to single spaces.
// Multi-word phrases keep their word boundaries.
func NormalizeTerm(text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}
	text = strings.ToLower(text)

	var b strings.Builder
	b.Grow(len(text))
	prevSpace := false
	for _, r := range text {
		if r == ' ' || r == '\t' {
			if prevSpace {
				continue
			}
			prevSpace = true
			b.WriteRune(' ')
			continue
		}
		prevSpace = false
		b.WriteRune(r)
	}
	return b.String()
}
