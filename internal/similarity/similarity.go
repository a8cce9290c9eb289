// Package similarity provides the text-similarity backends consumed by the
// matching engine: a deterministic lexical fallback and a Gemini embedding
// scorer.
package similarity

import "context"

// Scorer computes a similarity between two texts in [0, 1]. Implementations
// must return 0.0 when either side has no usable tokens.
type Scorer interface {
	Similarity(ctx context.Context, a, b string) (float64, error)
}
