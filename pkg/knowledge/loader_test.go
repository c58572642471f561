package knowledge

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"escapadas-chatbot-be/pkg/vector"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeJSON(t *testing.T, dir, name string, v any) string {
	t.Helper()
	raw, err := json.Marshal(v)
	require.NoError(t, err)
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, raw, 0o644))
	return path
}

func fixtureSource(t *testing.T) FileSource {
	t.Helper()
	dir := t.TempDir()
	return FileSource{
		FAQDataPath: writeJSON(t, dir, "faq_data.json", map[string]FAQRecord{
			"How much is Plan X?":   {Answer: "Plan X costs $100", Sticker: "plan-x.png"},
			"How do I register?":    {Respuesta: "Sign up on the website"},
			"Is there a free plan?": {Answer: "Yes, the basic plan is free"},
		}),
		FAQEmbeddingsPath: writeJSON(t, dir, "faq_embeddings.json", map[string][]float32{
			"How much is Plan X?":   {1, 0},
			"How do I register?":    {0, 1},
			"Is there a free plan?": {1, 1},
		}),
		ChunkDataPath: writeJSON(t, dir, "pdf_chunks.json", map[string]string{
			"chunk_0": "Visibility for tourism businesses.",
			"chunk_1": "Campaigns run all year round.",
		}),
		ChunkEmbeddingPath: writeJSON(t, dir, "pdf_embeddings.json", map[string][]float32{
			"chunk_0": {0.5, 0.5},
			"chunk_1": {-1, 0.2},
		}),
	}
}

func TestLoadCorpusFromFiles(t *testing.T) {
	corpus, err := LoadCorpus(context.Background(), fixtureSource(t))
	require.NoError(t, err)

	assert.Equal(t, 3, corpus.FAQ.Index.Len())
	assert.Equal(t, 2, corpus.Chunks.Index.Len())

	match, err := corpus.FAQ.Nearest([]float32{1, 0})
	require.NoError(t, err)
	assert.Equal(t, "How much is Plan X?", match.ID)
	assert.Equal(t, "Plan X costs $100", match.Entry.Content)
	assert.Equal(t, "plan-x.png", match.Entry.Tag())

	entry, ok := corpus.FAQ.Store.Get("How do I register?")
	require.True(t, ok)
	assert.Equal(t, "Sign up on the website", entry.Content)
	assert.Nil(t, entry.MediaRef)
}

func TestLoadCorpusMismatchedIDs(t *testing.T) {
	src := fixtureSource(t)
	src.ChunkEmbeddingPath = writeJSON(t, t.TempDir(), "pdf_embeddings.json", map[string][]float32{
		"chunk_0": {0.5, 0.5},
		"chunk_9": {-1, 0.2},
	})

	_, err := LoadCorpus(context.Background(), src)
	assert.ErrorIs(t, err, ErrCorpusLoad)
}

func TestLoadCorpusMissingFile(t *testing.T) {
	src := fixtureSource(t)
	src.FAQDataPath = filepath.Join(t.TempDir(), "missing.json")

	_, err := LoadCorpus(context.Background(), src)
	assert.ErrorIs(t, err, ErrCorpusLoad)
}

func TestLoadCorpusEmptyUniverse(t *testing.T) {
	src := fixtureSource(t)
	dir := t.TempDir()
	src.ChunkDataPath = writeJSON(t, dir, "pdf_chunks.json", map[string]string{})
	src.ChunkEmbeddingPath = writeJSON(t, dir, "pdf_embeddings.json", map[string][]float32{})

	_, err := LoadCorpus(context.Background(), src)
	assert.ErrorIs(t, err, ErrCorpusLoad)
}

func TestNewUniverseRejectsZeroEmbedding(t *testing.T) {
	_, err := NewUniverse(UniverseFAQ, []Fragment{
		{ID: "a", Embedding: []float32{0, 0}, Content: "x"},
	})
	assert.ErrorIs(t, err, ErrCorpusLoad)
	assert.ErrorIs(t, err, vector.ErrDegenerateVector)
}

func TestFileSourceOrdersFragmentsByID(t *testing.T) {
	fragments, err := fixtureSource(t).LoadUniverse(context.Background(), UniverseChunks)
	require.NoError(t, err)
	require.Len(t, fragments, 2)
	assert.Equal(t, "chunk_0", fragments[0].ID)
	assert.Equal(t, "chunk_1", fragments[1].ID)
}
