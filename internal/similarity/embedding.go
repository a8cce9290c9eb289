package similarity

import (
	"context"
	"fmt"
	"math"
	"sync"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// DefaultEmbeddingModel is the Gemini embedding model used when none is
// configured.
const DefaultEmbeddingModel = "text-embedding-004"

// Embedding scores texts by cosine similarity of Gemini embeddings. Calls
// into the embedding model are serialized with a mutex; the model handle is
// shared read-only across requests and the cache doubles as a guard against
// re-embedding the same skill bags on every catalog scan.
type Embedding struct {
	client *genai.Client
	model  *genai.EmbeddingModel

	mu    sync.Mutex
	cache map[string][]float32
}

// NewEmbedding creates an embedding-backed scorer. modelName may be empty to
// use DefaultEmbeddingModel.
func NewEmbedding(ctx context.Context, apiKey, modelName string) (*Embedding, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}
	if modelName == "" {
		modelName = DefaultEmbeddingModel
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &Embedding{
		client: client,
		model:  client.EmbeddingModel(modelName),
		cache:  make(map[string][]float32),
	}, nil
}

// Similarity embeds both texts and returns their cosine similarity clamped
// to [0, 1]. Empty texts score 0.0 without calling the backend.
func (e *Embedding) Similarity(ctx context.Context, a, b string) (float64, error) {
	if len(tokenSet(a)) == 0 || len(tokenSet(b)) == 0 {
		return 0.0, nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	va, err := e.embedLocked(ctx, a)
	if err != nil {
		return 0, err
	}
	vb, err := e.embedLocked(ctx, b)
	if err != nil {
		return 0, err
	}

	return clamp01(cosine(va, vb)), nil
}

// Close releases the underlying Gemini client.
func (e *Embedding) Close() error {
	if e.client != nil {
		return e.client.Close()
	}
	return nil
}

func (e *Embedding) embedLocked(ctx context.Context, text string) ([]float32, error) {
	if vec, ok := e.cache[text]; ok {
		return vec, nil
	}

	res, err := e.model.EmbedContent(ctx, genai.Text(text))
	if err != nil {
		return nil, fmt.Errorf("failed to embed text: %w", err)
	}
	if res.Embedding == nil || len(res.Embedding.Values) == 0 {
		return nil, fmt.Errorf("empty embedding in response")
	}

	e.cache[text] = res.Embedding.Values
	return res.Embedding.Values, nil
}

// cosine returns the cosine similarity of two vectors, or 0 when either has
// zero magnitude or lengths differ.
func cosine(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
