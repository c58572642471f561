package embedding

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingProvider struct {
	calls int
	err   error
}

func (c *countingProvider) Embed(_ context.Context, text string) ([]float32, error) {
	c.calls++
	if c.err != nil {
		return nil, c.err
	}
	return []float32{float32(len(text)), 1}, nil
}

func TestCachedProviderMemoizes(t *testing.T) {
	next := &countingProvider{}
	p := NewCachedProvider(next, NewMemoryCache(time.Minute), "test")
	ctx := context.Background()

	first, err := p.Embed(ctx, "hello")
	require.NoError(t, err)
	second, err := p.Embed(ctx, "hello")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, next.calls)

	_, err = p.Embed(ctx, "other")
	require.NoError(t, err)
	assert.Equal(t, 2, next.calls)
}

func TestCachedProviderDoesNotCacheErrors(t *testing.T) {
	boom := errors.New("quota")
	next := &countingProvider{err: boom}
	p := NewCachedProvider(next, NewMemoryCache(time.Minute), "test")

	_, err := p.Embed(context.Background(), "hello")
	assert.ErrorIs(t, err, boom)
	_, err = p.Embed(context.Background(), "hello")
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 2, next.calls)
}

func TestNewProviderRejectsUnknown(t *testing.T) {
	_, err := NewProvider(ProviderConfig{Provider: "word2vec"})
	assert.Error(t, err)

	_, err = NewProvider(ProviderConfig{Provider: "openai"})
	assert.Error(t, err)

	p, err := NewProvider(ProviderConfig{Provider: "ollama"})
	require.NoError(t, err)
	assert.IsType(t, &OllamaProvider{}, p)
}
