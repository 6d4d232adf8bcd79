package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/floportop/floportop/infrastructure/index"
)

// probedEmbedder adds a readiness probe to the stub.
type probedEmbedder struct {
	stubEmbedder
	available bool
}

func (e *probedEmbedder) Available() bool { return e.available }

func TestStatusCheck(t *testing.T) {
	store := newMemStore(t, "Alien", "Heat")
	embedder := &stubEmbedder{}
	engine := index.NewEngine(store, embedder, index.NewCache(t.TempDir()), quietLogger())
	svc := NewStatusService(embedder, engine, store, "v5", quietLogger())

	status := svc.Check(context.Background())
	assert.True(t, status.Healthy)
	assert.Equal(t, "v5", status.ModelVersion)
	assert.Equal(t, "stub-embedder", status.EmbedderID)
	assert.True(t, status.EmbedderReady)
	assert.Equal(t, index.StateUnbuilt, status.IndexState, "unbuilt is healthy, first query builds")
	assert.Equal(t, int64(2), status.CorpusSize)

	// After a build the snapshot reflects the ready index.
	_, err := engine.Index(context.Background())
	require.NoError(t, err)
	status = svc.Check(context.Background())
	assert.True(t, status.Healthy)
	assert.Equal(t, index.StateReady, status.IndexState)
	assert.Equal(t, 2, status.IndexSize)
}

func TestStatusCheckCorpusUnreachable(t *testing.T) {
	store := &memStore{err: fmt.Errorf("database is down")}
	embedder := &stubEmbedder{}
	engine := index.NewEngine(store, embedder, index.NewCache(t.TempDir()), quietLogger())
	svc := NewStatusService(embedder, engine, store, "v5", quietLogger())

	status := svc.Check(context.Background())
	assert.False(t, status.Healthy)
	assert.Zero(t, status.CorpusSize)
}

func TestStatusCheckEmbedderProbe(t *testing.T) {
	store := newMemStore(t, "Alien")
	embedder := &probedEmbedder{available: false}
	engine := index.NewEngine(store, embedder, index.NewCache(t.TempDir()), quietLogger())
	svc := NewStatusService(embedder, engine, store, "v5", quietLogger())

	status := svc.Check(context.Background())
	assert.False(t, status.EmbedderReady)
	assert.False(t, status.Healthy)

	embedder.available = true
	status = svc.Check(context.Background())
	assert.True(t, status.EmbedderReady)
	assert.True(t, status.Healthy)
}
