package index

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/floportop/floportop/domain/movie"
	"github.com/floportop/floportop/domain/search"
	"github.com/floportop/floportop/internal/log"
)

// State is the lifecycle state of the engine's index.
type State string

// Engine states.
const (
	StateUnbuilt  State = "unbuilt"
	StateBuilding State = "building"
	StateReady    State = "ready"
	StateFailed   State = "failed"
)

// ErrUnavailable indicates the index could not be built. The next query
// triggers a fresh attempt.
var ErrUnavailable = errors.New("similarity index unavailable")

// Engine owns the index lifecycle. The first query triggers a build; while
// the build runs, callers block until it finishes or their context ends. At
// most one build is ever in flight, and a build keeps running even when the
// query that started it is canceled. A failed build parks the engine in the
// failed state until the next query retries.
type Engine struct {
	store    movie.Store
	embedder search.Embedder
	builder  *Builder
	cache    *Cache
	logger   *log.Logger

	mu       sync.Mutex
	state    State
	idx      *FlatIndex
	buildErr error
	done     chan struct{}

	builds atomic.Int64
}

// NewEngine creates an Engine in the unbuilt state.
func NewEngine(store movie.Store, embedder search.Embedder, cache *Cache, logger *log.Logger) *Engine {
	if logger == nil {
		logger = log.Default()
	}
	return &Engine{
		store:    store,
		embedder: embedder,
		builder:  NewBuilder(store, embedder, logger),
		cache:    cache,
		logger:   logger,
		state:    StateUnbuilt,
	}
}

// State returns the current lifecycle state.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Size returns the number of indexed movies, or 0 when not ready.
func (e *Engine) Size() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != StateReady {
		return 0
	}
	return e.idx.Size()
}

// Builds returns how many corpus builds have run (cache loads not counted).
func (e *Engine) Builds() int64 {
	return e.builds.Load()
}

// Index returns the ready index, building it first if needed. A canceled
// context returns the context error; the build itself keeps running and
// later callers pick up its result.
func (e *Engine) Index(ctx context.Context) (*FlatIndex, error) {
	e.mu.Lock()
	switch e.state {
	case StateReady:
		idx := e.idx
		e.mu.Unlock()
		return idx, nil
	case StateUnbuilt, StateFailed:
		e.startBuildLocked(ctx)
	}
	done := e.done
	e.mu.Unlock()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-done:
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state == StateReady {
		return e.idx, nil
	}
	return nil, fmt.Errorf("%w: %v", ErrUnavailable, e.buildErr)
}

// Rebuild discards any persisted snapshot and builds the index from scratch.
// An in-flight build is waited out first so that only one build ever runs.
func (e *Engine) Rebuild(ctx context.Context) error {
	e.mu.Lock()
	for e.state == StateBuilding {
		done := e.done
		e.mu.Unlock()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-done:
		}
		e.mu.Lock()
	}

	e.state = StateUnbuilt
	e.idx = nil
	e.buildErr = nil
	if err := e.cache.Invalidate(); err != nil {
		e.mu.Unlock()
		return fmt.Errorf("invalidate index cache: %w", err)
	}
	e.mu.Unlock()

	_, err := e.Index(ctx)
	return err
}

// startBuildLocked transitions to building and spawns the build goroutine.
// Callers must hold e.mu.
func (e *Engine) startBuildLocked(ctx context.Context) {
	e.state = StateBuilding
	e.done = make(chan struct{})

	// Detach from the triggering request so its cancellation can't abort
	// a build other callers are waiting on. Context values survive for
	// log correlation.
	buildCtx := context.WithoutCancel(ctx)
	go e.runBuild(buildCtx, e.done)
}

func (e *Engine) runBuild(ctx context.Context, done chan struct{}) {
	idx, err := e.loadOrBuild(ctx)

	e.mu.Lock()
	if err != nil {
		e.state = StateFailed
		e.idx = nil
		e.buildErr = err
		e.logger.ErrorContext(ctx, "index build failed", "error", err)
	} else {
		e.state = StateReady
		e.idx = idx
		e.buildErr = nil
	}
	e.mu.Unlock()

	close(done)
}

// loadOrBuild reuses a persisted snapshot when its manifest matches the
// current embedder and corpus, otherwise embeds the corpus from scratch and
// persists the result. A failed persist is logged but not fatal; the
// in-memory index still serves.
func (e *Engine) loadOrBuild(ctx context.Context) (*FlatIndex, error) {
	corpusSize, err := e.store.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count corpus: %w", err)
	}
	fingerprint, err := e.store.Fingerprint(ctx)
	if err != nil {
		return nil, fmt.Errorf("fingerprint corpus: %w", err)
	}

	idx, err := e.cache.Load(e.embedder.ID(), e.embedder.Dimension(), int(corpusSize), fingerprint)
	if err == nil {
		e.logger.InfoContext(ctx, "index loaded from cache",
			"vectors", idx.Size(),
			"embedder", idx.EmbedderID(),
		)
		return idx, nil
	}
	e.logger.WarnContext(ctx, "index cache unusable, rebuilding", "reason", err)

	e.builds.Add(1)
	idx, builtFingerprint, err := e.builder.Build(ctx)
	if err != nil {
		return nil, err
	}

	if err := e.cache.Save(idx, builtFingerprint); err != nil {
		e.logger.WarnContext(ctx, "failed to persist index cache, serving in-memory", "error", err)
	}
	return idx, nil
}
