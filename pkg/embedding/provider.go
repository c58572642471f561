package embedding

import "context"

// EmbeddingProvider turns text into a fixed-dimension vector. The dimension
// must match the one used to build the corpus.
type EmbeddingProvider interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}
