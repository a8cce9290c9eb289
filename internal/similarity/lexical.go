package similarity

import (
	"context"
	"strings"
)

// Lexical scores texts by Jaccard overlap of their whitespace-separated
// tokens. It is the fallback used when the embedding backend is disabled and
// is safe for concurrent use.
type Lexical struct{}

// Similarity returns |A ∩ B| / |A ∪ B| over lowercased token sets, or 0.0
// when either text has no tokens. It never fails.
func (Lexical) Similarity(_ context.Context, a, b string) (float64, error) {
	setA := tokenSet(a)
	setB := tokenSet(b)
	if len(setA) == 0 || len(setB) == 0 {
		return 0.0, nil
	}

	inter := 0
	for tok := range setA {
		if setB[tok] {
			inter++
		}
	}
	union := len(setA) + len(setB) - inter
	return float64(inter) / float64(union), nil
}

func tokenSet(text string) map[string]bool {
	fields := strings.Fields(strings.ToLower(text))
	set := make(map[string]bool, len(fields))
	for _, f := range fields {
		set[f] = true
	}
	return set
}
