// Package supplier implements the fuzzy-matched Supplier Registry (§4.E).
package supplier

import "strings"

var noisePrefixes = []string{"sp ", "visa purchase ", "eftpos ", "paypal ", "sq "}
var noiseSuffixes = []string{"pty ltd", "ltd", "inc", "com", "au"}

// Normalize lowercases s, strips punctuation, and strips the common noise
// prefixes/suffixes from spec §3, producing the canonical form used for
// deduplication and fuzzy matching.
func Normalize(s string) string {
	s = strings.ToLower(s)
	s = stripPunctuation(s)
	s = strings.TrimSpace(s)

	changed := true
	for changed {
		changed = false
		for _, p := range noisePrefixes {
			if strings.HasPrefix(s, p) {
				s = strings.TrimSpace(strings.TrimPrefix(s, p))
				changed = true
			}
		}
		for _, suf := range noiseSuffixes {
			trimmed := strings.TrimSuffix(s, suf)
			if trimmed != s && strings.HasSuffix(s, " "+suf) {
				s = strings.TrimSpace(strings.TrimSuffix(s, suf))
				changed = true
			} else if trimmed != s && trimmed == "" {
				s = ""
				changed = true
			}
		}
	}
	return strings.TrimSpace(s)
}

func stripPunctuation(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == ' ':
			b.WriteRune(r)
		default:
			b.WriteRune(' ')
		}
	}
	return collapseSpaces(b.String())
}

func collapseSpaces(s string) string {
	var b strings.Builder
	prevSpace := false
	for _, r := range s {
		if r == ' ' {
			if !prevSpace {
				b.WriteRune(' ')
			}
			prevSpace = true
			continue
		}
		prevSpace = false
		b.WriteRune(r)
	}
	return strings.TrimSpace(b.String())
}
