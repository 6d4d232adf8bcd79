// Package provider implements the embedding providers: a local ONNX MiniLM
// embedder and a remote OpenAI-compatible endpoint.
package provider

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/knights-analytics/hugot"
	"github.com/knights-analytics/hugot/pipelines"

	"github.com/floportop/floportop/domain/search"
)

// MiniLM model constants. The similarity cache is keyed on the model ID, so
// changing it invalidates every cached embedding.
const (
	MiniLMModelID   = "sentence-transformers/all-MiniLM-L6-v2"
	MiniLMDimension = 384
)

const localBatchMax = 10

// ortSingleton holds the process-wide ONNX Runtime session and pipeline.
// ORT only allows one active session per process, so all LocalEmbedder
// instances must share it. The mutex serializes both initialization and
// inference (ORT is not thread-safe).
var ortSingleton struct {
	session  *hugot.Session
	pipeline *pipelines.FeatureExtractionPipeline
	mu       sync.Mutex
	ready    bool
}

// LocalEmbedder embeds text with the MiniLM sentence transformer running
// locally via hugot. Model files must exist on disk under modelsDir; use the
// download-model tool to fetch them.
type LocalEmbedder struct {
	modelsDir string
}

// NewLocalEmbedder creates a LocalEmbedder that looks for model files in
// modelsDir.
func NewLocalEmbedder(modelsDir string) *LocalEmbedder {
	return &LocalEmbedder{modelsDir: modelsDir}
}

// Available reports whether usable model files exist on disk.
func (l *LocalEmbedder) Available() bool {
	_, err := l.modelPath()
	return err == nil
}

// ID returns the embedding model identifier.
func (l *LocalEmbedder) ID() string { return MiniLMModelID }

// Dimension returns the embedding width.
func (l *LocalEmbedder) Dimension() int { return MiniLMDimension }

// Capacity returns the maximum number of texts per Embed call.
func (l *LocalEmbedder) Capacity() int { return localBatchMax }

func (l *LocalEmbedder) initialize() error {
	ortSingleton.mu.Lock()
	defer ortSingleton.mu.Unlock()

	if ortSingleton.ready {
		return nil
	}

	session, err := newHugotSession()
	if err != nil {
		return fmt.Errorf("create hugot session: %w", err)
	}

	modelPath, err := l.modelPath()
	if err != nil {
		_ = session.Destroy()
		return err
	}

	config := hugot.FeatureExtractionConfig{
		ModelPath: modelPath,
		Name:      "minilm-embeddings",
		Options: []hugot.FeatureExtractionOption{
			pipelines.WithNormalization(),
		},
	}
	pipeline, err := hugot.NewPipeline(session, config)
	if err != nil {
		_ = session.Destroy()
		return fmt.Errorf("create feature extraction pipeline: %w", err)
	}

	ortSingleton.session = session
	ortSingleton.pipeline = pipeline
	ortSingleton.ready = true
	return nil
}

// modelPath looks for a model subdirectory containing tokenizer.json inside
// modelsDir.
func (l *LocalEmbedder) modelPath() (string, error) {
	entries, err := os.ReadDir(l.modelsDir)
	if err != nil {
		return "", fmt.Errorf("read models directory %s: %w", l.modelsDir, err)
	}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		candidate := filepath.Join(l.modelsDir, entry.Name())
		if _, statErr := os.Stat(filepath.Join(candidate, "tokenizer.json")); statErr == nil {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("no model with tokenizer.json found in %s, run the download-model tool first", l.modelsDir)
}

// Warmup initializes the ONNX session and pipeline so that the first Embed
// call doesn't pay the model load cost.
func (l *LocalEmbedder) Warmup(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return l.initialize()
}

// Embed generates embeddings for the given texts using the local model.
// The number of texts must not exceed Capacity().
func (l *LocalEmbedder) Embed(ctx context.Context, texts []string) ([][]float64, error) {
	if len(texts) == 0 {
		return [][]float64{}, nil
	}
	if len(texts) > localBatchMax {
		return nil, fmt.Errorf("embed: %d texts exceeds capacity %d", len(texts), localBatchMax)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := l.initialize(); err != nil {
		return nil, fmt.Errorf("initialize local embedder: %w", err)
	}

	// Hold the singleton mutex for inference, ORT is not thread-safe.
	ortSingleton.mu.Lock()
	defer ortSingleton.mu.Unlock()

	result, err := ortSingleton.pipeline.RunPipeline(texts)
	if err != nil {
		return nil, fmt.Errorf("run embedding pipeline: %w", err)
	}

	embeddings := make([][]float64, len(result.Embeddings))
	for i, vec32 := range result.Embeddings {
		if len(vec32) != MiniLMDimension {
			return nil, fmt.Errorf("model produced %d-dim vector, expected %d", len(vec32), MiniLMDimension)
		}
		vec64 := make([]float64, len(vec32))
		for j, v := range vec32 {
			vec64[j] = float64(v)
		}
		embeddings[i] = vec64
	}
	return embeddings, nil
}

// Close is a no-op. The ONNX Runtime session is process-global and shared
// across all LocalEmbedder instances; it is cleaned up when the process exits.
func (l *LocalEmbedder) Close() error {
	return nil
}

var _ search.Embedder = (*LocalEmbedder)(nil)
