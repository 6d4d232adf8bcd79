package index

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilderPreservesCorpusOrder(t *testing.T) {
	// More titles than the embedder's batch capacity so that the build
	// splits into several concurrent batches.
	store := newFakeStore(t, "Alien", "Heat", "Se7en", "Fargo", "Ronin", "Casino", "Memento")
	builder := NewBuilder(store, &fakeEmbedder{}, testLogger())

	idx, fingerprint, err := builder.Build(context.Background())
	require.NoError(t, err)

	require.Equal(t, 7, idx.Size())
	assert.Equal(t, []int64{1, 2, 3, 4, 5, 6, 7}, idx.IDs())
	assert.Equal(t, Fingerprint(idx.IDs()), fingerprint)

	// The fake embeds each text to [len(text), 1, 0], so the stored
	// vectors reveal whether batch results landed in their slots.
	for i, r := range store.records {
		want := float64(len(r.EmbeddingText()))
		assert.Equal(t, want, idx.vectors[i][0], "vector %d out of place", i)
	}
}

func TestBuilderEmptyCorpus(t *testing.T) {
	builder := NewBuilder(&fakeStore{}, &fakeEmbedder{}, testLogger())

	_, _, err := builder.Build(context.Background())
	assert.Error(t, err)
}
