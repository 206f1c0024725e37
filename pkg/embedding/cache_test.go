package embedding_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coastwise/gcpkit/pkg/embedding"
)

// countingProvider embeds each text deterministically and records how many
// times each text was requested from the backend.
type countingProvider struct {
	dim   int
	calls int
	seen  map[string]int
	fail  bool
}

func newCountingProvider(dim int) *countingProvider {
	return &countingProvider{dim: dim, seen: map[string]int{}}
}

func (p *countingProvider) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	p.calls++
	if p.fail {
		return nil, errors.New("backend down")
	}
	out := make([][]float32, len(texts))
	for i, t := range texts {
		p.seen[t]++
		vec := make([]float32, p.dim)
		for j := range vec {
			vec[j] = float32(len(t) + j + 1)
		}
		out[i] = vec
	}
	return out, nil
}

func (p *countingProvider) Close() error { return nil }

func TestCachedProvider_ReadThrough(t *testing.T) {
	backend := newCountingProvider(4)
	cache, err := embedding.NewCachedProvider(backend, t.TempDir(), "test-model")
	require.NoError(t, err)
	defer cache.Close()

	ctx := context.Background()

	first, err := cache.EmbedBatch(ctx, []string{"alpha", "beta"})
	require.NoError(t, err)
	require.Len(t, first, 2)
	assert.Equal(t, 1, backend.seen["alpha"])

	second, err := cache.EmbedBatch(ctx, []string{"alpha", "beta"})
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, backend.seen["alpha"], "cached texts must not hit the backend again")
	assert.Equal(t, 1, backend.seen["beta"])
}

func TestCachedProvider_MixedHitsPreserveOrder(t *testing.T) {
	backend := newCountingProvider(3)
	cache, err := embedding.NewCachedProvider(backend, t.TempDir(), "test-model")
	require.NoError(t, err)
	defer cache.Close()

	ctx := context.Background()

	warm, err := cache.EmbedBatch(ctx, []string{"cached"})
	require.NoError(t, err)

	out, err := cache.EmbedBatch(ctx, []string{"new one", "cached", "another"})
	require.NoError(t, err)
	require.Len(t, out, 3)
	assert.Equal(t, warm[0], out[1])
	assert.Equal(t, 1, backend.seen["cached"])
	assert.Equal(t, 1, backend.seen["new one"])
}

func TestCachedProvider_BackendErrorPropagates(t *testing.T) {
	backend := newCountingProvider(3)
	cache, err := embedding.NewCachedProvider(backend, t.TempDir(), "test-model")
	require.NoError(t, err)
	defer cache.Close()

	backend.fail = true
	_, err = cache.EmbedBatch(context.Background(), []string{"miss"})
	assert.Error(t, err)
}
