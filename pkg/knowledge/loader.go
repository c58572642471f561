package knowledge

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
)

// Source provides the fragments of a universe.
type Source interface {
	LoadUniverse(ctx context.Context, name string) ([]Fragment, error)
}

// Corpus holds both fragment universes.
type Corpus struct {
	FAQ    *Universe
	Chunks *Universe
}

// LoadCorpus loads and indexes both universes. Any failure is fatal for the
// caller and wraps ErrCorpusLoad.
func LoadCorpus(ctx context.Context, src Source) (*Corpus, error) {
	faqFragments, err := src.LoadUniverse(ctx, UniverseFAQ)
	if err != nil {
		return nil, wrapLoadErr(UniverseFAQ, err)
	}
	faq, err := NewUniverse(UniverseFAQ, faqFragments)
	if err != nil {
		return nil, err
	}

	chunkFragments, err := src.LoadUniverse(ctx, UniverseChunks)
	if err != nil {
		return nil, wrapLoadErr(UniverseChunks, err)
	}
	chunks, err := NewUniverse(UniverseChunks, chunkFragments)
	if err != nil {
		return nil, err
	}

	return &Corpus{FAQ: faq, Chunks: chunks}, nil
}

func wrapLoadErr(name string, err error) error {
	return fmt.Errorf("%w: universe %q: %w", ErrCorpusLoad, name, err)
}

// FileSource reads the JSON files produced by the ingest job.
type FileSource struct {
	FAQDataPath        string
	FAQEmbeddingsPath  string
	ChunkDataPath      string
	ChunkEmbeddingPath string
}

// FAQRecord is one entry of the FAQ content file. "respuesta" is accepted for
// files produced by the first version of the bot.
type FAQRecord struct {
	Answer    string `json:"answer,omitempty"`
	Respuesta string `json:"respuesta,omitempty"`
	Sticker   string `json:"sticker,omitempty"`
}

func (r FAQRecord) text() string {
	if r.Answer != "" {
		return r.Answer
	}
	return r.Respuesta
}

func (s FileSource) LoadUniverse(_ context.Context, name string) ([]Fragment, error) {
	switch name {
	case UniverseFAQ:
		return s.loadFAQ()
	case UniverseChunks:
		return s.loadChunks()
	default:
		return nil, fmt.Errorf("unknown universe %q", name)
	}
}

func (s FileSource) loadFAQ() ([]Fragment, error) {
	var data map[string]FAQRecord
	if err := readJSON(s.FAQDataPath, &data); err != nil {
		return nil, err
	}
	var embeddings map[string][]float32
	if err := readJSON(s.FAQEmbeddingsPath, &embeddings); err != nil {
		return nil, err
	}
	if err := sameKeys(data, embeddings); err != nil {
		return nil, err
	}

	fragments := make([]Fragment, 0, len(data))
	for _, id := range sortedKeys(data) {
		rec := data[id]
		f := Fragment{ID: id, Embedding: embeddings[id], Content: rec.text()}
		if rec.Sticker != "" {
			sticker := rec.Sticker
			f.MediaRef = &sticker
		}
		fragments = append(fragments, f)
	}
	return fragments, nil
}

func (s FileSource) loadChunks() ([]Fragment, error) {
	var data map[string]string
	if err := readJSON(s.ChunkDataPath, &data); err != nil {
		return nil, err
	}
	var embeddings map[string][]float32
	if err := readJSON(s.ChunkEmbeddingPath, &embeddings); err != nil {
		return nil, err
	}
	if err := sameKeys(data, embeddings); err != nil {
		return nil, err
	}

	fragments := make([]Fragment, 0, len(data))
	for _, id := range sortedKeys(data) {
		fragments = append(fragments, Fragment{ID: id, Embedding: embeddings[id], Content: data[id]})
	}
	return fragments, nil
}

func readJSON(path string, out any) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

func sameKeys[A, B any](content map[string]A, embeddings map[string]B) error {
	if len(content) != len(embeddings) {
		return fmt.Errorf("content has %d ids, embeddings has %d", len(content), len(embeddings))
	}
	for id := range content {
		if _, ok := embeddings[id]; !ok {
			return fmt.Errorf("id %q has content but no embedding", id)
		}
	}
	return nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
