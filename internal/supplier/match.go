package supplier

import "strings"

// FuzzyEqual reports whether a and b are the same supplier per spec §3:
// exact equality, substring containment, or equality under the
// normalized (stripped) variants.
func FuzzyEqual(a, b string) bool {
	if a == b {
		return true
	}
	if strings.Contains(a, b) || strings.Contains(b, a) {
		return true
	}
	na, nb := Normalize(a), Normalize(b)
	if na == "" || nb == "" {
		return false
	}
	return na == nb || strings.Contains(na, nb) || strings.Contains(nb, na)
}

// Score ranks how well candidate matches description, in [0,1]. Exact
// normalized equality scores highest; containment scores next; anything
// else falls back to a token-overlap ratio.
func Score(description, candidate string) float64 {
	nd, nc := Normalize(description), Normalize(candidate)
	if nd == "" || nc == "" {
		return 0
	}
	if nd == nc {
		return 1.0
	}
	if strings.Contains(nd, nc) || strings.Contains(nc, nd) {
		shorter, longer := nc, nd
		if len(nd) < len(nc) {
			shorter, longer = nd, nc
		}
		return 0.7 + 0.3*float64(len(shorter))/float64(len(longer))
	}
	return tokenOverlap(nd, nc)
}

func tokenOverlap(a, b string) float64 {
	aTokens := tokenSet(a)
	bTokens := tokenSet(b)
	if len(aTokens) == 0 || len(bTokens) == 0 {
		return 0
	}
	shared := 0
	for t := range aTokens {
		if bTokens[t] {
			shared++
		}
	}
	union := len(aTokens) + len(bTokens) - shared
	if union == 0 {
		return 0
	}
	return float64(shared) / float64(union)
}

func tokenSet(s string) map[string]bool {
	out := make(map[string]bool)
	for _, tok := range strings.Fields(s) {
		out[tok] = true
	}
	return out
}
