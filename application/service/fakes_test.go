package service

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/floportop/floportop/domain/feature"
	"github.com/floportop/floportop/domain/movie"
	"github.com/floportop/floportop/internal/config"
	"github.com/floportop/floportop/internal/log"
)

const stubDimension = 4

// stubEmbedder assigns axis-aligned vectors by title keyword so similarity
// rankings are predictable.
type stubEmbedder struct {
	err error
}

func (e *stubEmbedder) ID() string     { return "stub-embedder" }
func (e *stubEmbedder) Dimension() int { return stubDimension }
func (e *stubEmbedder) Capacity() int  { return 8 }

func (e *stubEmbedder) Embed(ctx context.Context, texts []string) ([][]float64, error) {
	if e.err != nil {
		return nil, e.err
	}
	out := make([][]float64, len(texts))
	for i, text := range texts {
		switch {
		case strings.Contains(text, "Alien"):
			out[i] = []float64{1, 0, 0, 0}
		case strings.Contains(text, "Heat"):
			out[i] = []float64{0, 1, 0, 0}
		case strings.Contains(text, "Se7en"):
			out[i] = []float64{0, 0, 1, 0}
		default:
			out[i] = []float64{0, 0, 0, 1}
		}
	}
	return out, nil
}

type memStore struct {
	records []movie.Record
	hidden  map[int64]bool
	err     error
}

func newMemStore(t *testing.T, titles ...string) *memStore {
	t.Helper()
	records := make([]movie.Record, len(titles))
	for i, title := range titles {
		r, err := movie.NewRecord(int64(i+1), title, 1990+i)
		require.NoError(t, err)
		records[i] = r.WithVotes(7.0+float64(i)/10, 1000)
	}
	return &memStore{records: records}
}

func (s *memStore) All(ctx context.Context) ([]movie.Record, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.records, nil
}

func (s *memStore) ByIDs(ctx context.Context, ids []int64) ([]movie.Record, error) {
	if s.err != nil {
		return nil, s.err
	}
	byID := make(map[int64]movie.Record, len(s.records))
	for _, r := range s.records {
		byID[r.ID()] = r
	}
	var out []movie.Record
	for _, id := range ids {
		if s.hidden[id] {
			continue
		}
		if r, ok := byID[id]; ok {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *memStore) Count(ctx context.Context) (int64, error) {
	if s.err != nil {
		return 0, s.err
	}
	return int64(len(s.records)), nil
}

func (s *memStore) Fingerprint(ctx context.Context) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	var sb strings.Builder
	for _, r := range s.records {
		sb.WriteString(r.Title())
		sb.WriteByte('\n')
	}
	return sb.String(), nil
}

func quietLogger() *log.Logger {
	return log.NewLoggerWithWriter(io.Discard, config.LogFormatJSON, "ERROR")
}

// stubReducer builds a reducer whose input width matches the stub embedder.
func stubReducer(t *testing.T) feature.Reducer {
	t.Helper()
	components := make([][]float64, feature.ComponentCount)
	for i := range components {
		components[i] = make([]float64, stubDimension)
		components[i][i%stubDimension] = 1
	}
	reducer, err := feature.NewReducer(make([]float64, stubDimension), components)
	require.NoError(t, err)
	return reducer
}

// stubPredictor returns the intercept for every input.
func stubPredictor(t *testing.T, intercept float64) feature.Predictor {
	t.Helper()
	names := feature.FeatureNames()
	predictor, err := feature.NewPredictor(names, make([]float64, len(names)), intercept, "v5")
	require.NoError(t, err)
	return predictor
}
