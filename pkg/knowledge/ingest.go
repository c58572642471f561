package knowledge

import (
	"context"
	"fmt"

	"escapadas-chatbot-be/internal/entity"
	"escapadas-chatbot-be/pkg/embedding"
)

// ChunkID names the i-th chunk of a document.
func ChunkID(i int) string {
	return fmt.Sprintf("chunk_%d", i)
}

// EmbedChunks embeds every chunk and returns the chunk content and embedding
// files keyed by ChunkID.
func EmbedChunks(ctx context.Context, embedder embedding.EmbeddingProvider, chunks []string) (map[string]string, map[string][]float32, error) {
	content := make(map[string]string, len(chunks))
	vectors := make(map[string][]float32, len(chunks))
	for i, chunk := range chunks {
		vec, err := embedder.Embed(ctx, chunk)
		if err != nil {
			return nil, nil, fmt.Errorf("embed %s: %w", ChunkID(i), err)
		}
		content[ChunkID(i)] = chunk
		vectors[ChunkID(i)] = vec
	}
	return content, vectors, nil
}

// EmbedFAQ embeds the question of every FAQ entry. The question is the entry
// key, so the returned map shares the keys of data.
func EmbedFAQ(ctx context.Context, embedder embedding.EmbeddingProvider, data map[string]FAQRecord) (map[string][]float32, error) {
	vectors := make(map[string][]float32, len(data))
	for _, question := range sortedKeys(data) {
		vec, err := embedder.Embed(ctx, question)
		if err != nil {
			return nil, fmt.Errorf("embed faq %q: %w", question, err)
		}
		vectors[question] = vec
	}
	return vectors, nil
}

// ToEntities converts fragments of a universe into rows for the fragment
// repository.
func ToEntities(universe string, fragments []Fragment) []*entity.KnowledgeFragment {
	out := make([]*entity.KnowledgeFragment, len(fragments))
	for i, f := range fragments {
		out[i] = &entity.KnowledgeFragment{
			Universe:    universe,
			FragmentKey: f.ID,
			Content:     f.Content,
			MediaRef:    f.MediaRef,
			Embedding:   f.Embedding,
		}
	}
	return out
}
