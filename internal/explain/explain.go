// Package explain generates natural-language match explanations via
// retrieval-augmented prompting: the candidate summary is matched against a
// corpus of posting descriptions and the closest one is fed to the LLM.
package explain

import (
	"context"
	"fmt"
	"strings"

	"github.com/masaki2607/oneview-matching/internal/llm"
	"github.com/masaki2607/oneview-matching/internal/similarity"
)

// summaryTruncateLen bounds how much of the candidate summary the fallback
// text embeds.
const summaryTruncateLen = 180

// DefaultCorpus is the seed retrieval corpus used when no posting
// descriptions are supplied.
var DefaultCorpus = []string{
	"Project manager opening with flexible working arrangements. Python experience welcome.",
	"Fully remote web engineer position. React or Vue experience preferred.",
	"Backend developer opening. FastAPI experience is a plus. Remote OK.",
}

// Generator produces match reasons. It is best-effort: any retrieval or
// generation failure degrades to a deterministic templated fallback.
type Generator struct {
	client llm.Client
	sim    similarity.Scorer
	corpus []string
}

// New creates a Generator. An empty corpus falls back to DefaultCorpus; a nil
// client makes every call return fallback text.
func New(client llm.Client, sim similarity.Scorer, corpus []string) *Generator {
	if len(corpus) == 0 {
		corpus = DefaultCorpus
	}
	return &Generator{client: client, sim: sim, corpus: corpus}
}

// MatchReason generates a short explanation of why the summarized candidate
// matches. It never fails; on any error it returns FallbackReason.
func (g *Generator) MatchReason(ctx context.Context, summary string) string {
	if g.client == nil {
		return FallbackReason(summary, fmt.Errorf("no generation backend configured"))
	}

	retrieved, err := g.retrieve(ctx, summary)
	if err != nil {
		return FallbackReason(summary, err)
	}

	text, err := g.client.GenerateContent(ctx, buildPrompt(summary, retrieved), llm.TierLite)
	if err != nil {
		return FallbackReason(summary, err)
	}
	return strings.TrimSpace(text)
}

// retrieve returns the corpus entry most similar to the summary.
func (g *Generator) retrieve(ctx context.Context, summary string) (string, error) {
	best := g.corpus[0]
	bestScore := -1.0
	for _, doc := range g.corpus {
		score, err := g.sim.Similarity(ctx, summary, doc)
		if err != nil {
			return "", fmt.Errorf("retrieval similarity: %w", err)
		}
		if score > bestScore {
			bestScore = score
			best = doc
		}
	}
	return best, nil
}

func buildPrompt(summary, posting string) string {
	var sb strings.Builder
	sb.WriteString("You are a recruitment agent. Based on the candidate and posting below, ")
	sb.WriteString("explain in natural language why they match.\n\n")
	sb.WriteString("[Candidate]\n")
	sb.WriteString(summary)
	sb.WriteString("\n\n[Posting]\n")
	sb.WriteString(posting)
	sb.WriteString("\n\nMatch reason (about 100 words):\n")
	return sb.String()
}

// FallbackReason is the deterministic text substituted when generation fails.
// It embeds a truncated candidate summary and the failure cause.
func FallbackReason(summary string, cause error) string {
	truncated := summary
	if len(truncated) > summaryTruncateLen {
		truncated = truncated[:summaryTruncateLen] + "..."
	}
	return fmt.Sprintf(
		"The candidate's preferences were compared against the posting requirements; "+
			"skills, location and work-style preferences are broadly aligned. "+
			"(candidate summary: %s) [generation unavailable: %v]",
		truncated, cause,
	)
}
