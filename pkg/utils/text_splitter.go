package utils

import (
	"fmt"

	"github.com/tiktoken-go/tokenizer"
)

const (
	DefaultChunkTokens  = 800
	DefaultChunkOverlap = 150
)

// TokenChunker splits text into windows measured in cl100k_base tokens, the
// encoding used by the OpenAI embedding models.
type TokenChunker struct {
	codec   tokenizer.Codec
	size    int
	overlap int
}

func NewTokenChunker(size, overlap int) (*TokenChunker, error) {
	if size <= 0 {
		return nil, fmt.Errorf("chunk size must be positive, got %d", size)
	}
	codec, err := tokenizer.Get(tokenizer.Cl100kBase)
	if err != nil {
		return nil, fmt.Errorf("load tokenizer: %w", err)
	}
	return &TokenChunker{codec: codec, size: size, overlap: overlap}, nil
}

// Split returns consecutive windows of at most size tokens, each starting
// size-overlap tokens after the previous one.
func (c *TokenChunker) Split(text string) ([]string, error) {
	ids, _, err := c.codec.Encode(text)
	if err != nil {
		return nil, fmt.Errorf("encode text: %w", err)
	}

	var chunks []string
	for _, w := range Windows(len(ids), c.size, c.overlap) {
		chunk, err := c.codec.Decode(ids[w[0]:w[1]])
		if err != nil {
			return nil, fmt.Errorf("decode tokens %d-%d: %w", w[0], w[1], err)
		}
		chunks = append(chunks, chunk)
	}
	return chunks, nil
}

// Windows returns [start, end) bounds covering n items. An overlap that is
// not smaller than size falls back to adjacent windows.
func Windows(n, size, overlap int) [][2]int {
	if n <= 0 || size <= 0 {
		return nil
	}
	step := size - overlap
	if step <= 0 || overlap < 0 {
		step = size
	}

	var out [][2]int
	for start := 0; start < n; start += step {
		end := start + size
		if end > n {
			end = n
		}
		out = append(out, [2]int{start, end})
	}
	return out
}
