package floportop_test

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"unicode/utf8"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/floportop/floportop"
	"github.com/floportop/floportop/domain/feature"
	"github.com/floportop/floportop/domain/movie"
	"github.com/floportop/floportop/infrastructure/api"
	"github.com/floportop/floportop/infrastructure/api/v1/dto"
	"github.com/floportop/floportop/infrastructure/index"
	"github.com/floportop/floportop/internal/config"
	"github.com/floportop/floportop/internal/log"
)

// fakeEmbedder emits 384-wide vectors whose leading coordinates encode the
// title keyword, so similarity rankings are predictable.
type fakeEmbedder struct{}

func (fakeEmbedder) ID() string     { return "fake-embedder" }
func (fakeEmbedder) Dimension() int { return feature.EmbeddingDim }
func (fakeEmbedder) Capacity() int  { return 8 }

func (fakeEmbedder) Embed(ctx context.Context, texts []string) ([][]float64, error) {
	out := make([][]float64, len(texts))
	for i, text := range texts {
		v := make([]float64, feature.EmbeddingDim)
		switch {
		case strings.Contains(text, "Alien"):
			v[0] = 1
		case strings.Contains(text, "Heat"):
			v[1] = 1
		case strings.Contains(text, "Se7en"):
			v[2] = 1
		default:
			v[3] = 1
		}
		out[i] = v
	}
	return out, nil
}

type fakeStore struct {
	records []movie.Record
}

func (s *fakeStore) All(ctx context.Context) ([]movie.Record, error) {
	return s.records, nil
}

func (s *fakeStore) ByIDs(ctx context.Context, ids []int64) ([]movie.Record, error) {
	byID := make(map[int64]movie.Record, len(s.records))
	for _, r := range s.records {
		byID[r.ID()] = r
	}
	var out []movie.Record
	for _, id := range ids {
		if r, ok := byID[id]; ok {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *fakeStore) Count(ctx context.Context) (int64, error) {
	return int64(len(s.records)), nil
}

func (s *fakeStore) Fingerprint(ctx context.Context) (string, error) {
	ids := make([]int64, len(s.records))
	for i, r := range s.records {
		ids[i] = r.ID()
	}
	return index.Fingerprint(ids), nil
}

func corpus(t *testing.T) *fakeStore {
	t.Helper()
	titles := []string{"Alien", "Heat", "Se7en"}
	records := make([]movie.Record, len(titles))
	for i, title := range titles {
		r, err := movie.NewRecord(int64(i+1), title, 1990+i)
		require.NoError(t, err)
		records[i] = r.
			WithImdbID(fmt.Sprintf("tt%07d", i+1)).
			WithGenres([]string{"Drama"}).
			WithPlot("A plot about "+title+".", nil).
			WithVotes(7.5, 1000)
	}
	return &fakeStore{records: records}
}

func writeArtifacts(t *testing.T, dir string) {
	t.Helper()

	components := make([][]float64, feature.ComponentCount)
	for i := range components {
		components[i] = make([]float64, feature.EmbeddingDim)
		components[i][i] = 1
	}
	names := feature.FeatureNames()

	artifacts := map[string]any{
		"pca_transformer.json": map[string]any{
			"version":    feature.SchemaVersion,
			"mean":       make([]float64, feature.EmbeddingDim),
			"components": components,
		},
		"model_v5.json": map[string]any{
			"version":       feature.SchemaVersion,
			"feature_names": names,
			"coefficients":  make([]float64, len(names)),
			"intercept":     7.234,
		},
		"budget_medians.json": map[string]float64{"default": 16.0},
	}
	for name, v := range artifacts {
		data, err := json.Marshal(v)
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), data, 0o644))
	}
}

func newTestRouter(t *testing.T, withArtifacts bool) http.Handler {
	t.Helper()

	dataDir := t.TempDir()
	modelsDir := filepath.Join(dataDir, "models")
	require.NoError(t, os.MkdirAll(modelsDir, 0o755))
	if withArtifacts {
		writeArtifacts(t, modelsDir)
	}

	cfg := config.NewAppConfigWithOptions(
		config.WithDataDir(dataDir),
		config.WithModelsDir(modelsDir),
	)

	client, err := floportop.New(context.Background(),
		floportop.WithConfig(cfg),
		floportop.WithLogger(log.NewLoggerWithWriter(io.Discard, config.LogFormatJSON, "ERROR")),
		floportop.WithStore(corpus(t)),
		floportop.WithEmbedder(fakeEmbedder{}),
	)
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })

	server := api.NewServer(cfg.Addr(), client.Logger())
	api.MountRoutes(server, client)
	return server.Router()
}

func get(t *testing.T, router http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}

func TestRootEndpoint(t *testing.T) {
	router := newTestRouter(t, true)

	rec := get(t, router, "/")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[dto.RootResponse](t, rec)
	assert.Equal(t, "floportop", body.Name)
}

func TestHealthEndpoint(t *testing.T) {
	router := newTestRouter(t, true)

	rec := get(t, router, "/health")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[dto.HealthResponse](t, rec)
	assert.Equal(t, "online", body.Status)
	assert.Equal(t, "v5", body.ModelVersion)
	assert.Equal(t, "fake-embedder", body.EmbedderID)
	assert.Equal(t, int64(3), body.CorpusSize)
}

func TestPredictEndpoint(t *testing.T) {
	router := newTestRouter(t, true)

	params := url.Values{}
	params.Set("startYear", "1995")
	params.Set("runtimeMinutes", "120")
	params.Set("overview", "Two detectives hunt a serial killer through a rain-soaked city.")
	params.Set("genres", "Crime, Thriller, Gibberish")

	rec := get(t, router, "/api/v1/predict?"+params.Encode())
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	body := decode[dto.PredictResponse](t, rec)
	assert.Equal(t, 7.23, body.PredictedRating, "zero coefficients leave the rounded intercept")
	assert.Equal(t, "v5", body.ModelVersion)
	assert.Equal(t, 1995, body.Input.StartYear)
	assert.Equal(t, []string{"Crime", "Thriller"}, body.Input.Genres)
	assert.Equal(t, []string{"Gibberish"}, body.Input.DroppedGenres)
	assert.True(t, body.Input.ImputedBudget)
}

func TestPredictEndpointTruncatesOverview(t *testing.T) {
	router := newTestRouter(t, true)

	long := strings.Repeat("x", 150)
	rec := get(t, router, "/api/v1/predict?startYear=1995&runtimeMinutes=120&overview="+long)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decode[dto.PredictResponse](t, rec)
	assert.Equal(t, strings.Repeat("x", 100)+"...", body.Input.Overview)
}

func TestPredictEndpointTruncatesOverviewAtRuneBoundary(t *testing.T) {
	router := newTestRouter(t, true)

	// 150 two-byte runes would split mid-character at a byte cut.
	long := url.QueryEscape(strings.Repeat("é", 150))
	rec := get(t, router, "/api/v1/predict?startYear=1995&runtimeMinutes=120&overview="+long)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decode[dto.PredictResponse](t, rec)
	assert.True(t, utf8.ValidString(body.Input.Overview))
	assert.Equal(t, strings.Repeat("é", 100)+"...", body.Input.Overview)
}

func TestPredictEndpointValidation(t *testing.T) {
	router := newTestRouter(t, true)

	tests := []struct {
		name  string
		query string
	}{
		{"missing startYear", "runtimeMinutes=120&overview=plot"},
		{"missing runtimeMinutes", "startYear=1995&overview=plot"},
		{"year out of range", "startYear=1800&runtimeMinutes=120&overview=plot"},
		{"bad isAdult", "startYear=1995&runtimeMinutes=120&overview=plot&isAdult=maybe"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := get(t, router, "/api/v1/predict?"+tt.query)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, rec.Body.String(), "validation_error")
		})
	}
}

func TestPredictEndpointWithoutArtifacts(t *testing.T) {
	router := newTestRouter(t, false)

	rec := get(t, router, "/api/v1/predict?startYear=1995&runtimeMinutes=120&overview=plot")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "artifact_unavailable")

	// Similarity search still works without the prediction artifacts.
	rec = get(t, router, "/api/v1/similar?query=Alien&k=1")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestSimilarEndpoint(t *testing.T) {
	router := newTestRouter(t, true)

	rec := get(t, router, "/api/v1/similar?query=Alien&k=2")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	body := decode[dto.SimilarResponse](t, rec)
	assert.Equal(t, "Alien", body.Query)
	assert.Equal(t, 2, body.Count)
	require.Len(t, body.Results, 2)
	assert.Equal(t, "Alien", body.Results[0].Title)
	assert.InDelta(t, 1.0, body.Results[0].Score, 1e-9)
}

func TestSimilarEndpointDefaultK(t *testing.T) {
	router := newTestRouter(t, true)

	// The default limit exceeds the corpus, so the whole corpus comes back.
	rec := get(t, router, "/api/v1/similar?query=Alien")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[dto.SimilarResponse](t, rec)
	assert.Equal(t, 3, body.Count)
}

func TestSimilarEndpointValidation(t *testing.T) {
	router := newTestRouter(t, true)

	rec := get(t, router, "/api/v1/similar?k=5")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = get(t, router, "/api/v1/similar?query=Alien&k=zero")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRebuildEndpoint(t *testing.T) {
	router := newTestRouter(t, true)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/index/rebuild", nil))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	body := decode[dto.RebuildResponse](t, rec)
	assert.Equal(t, "success", body.Status)
	assert.Equal(t, 3, body.IndexSize)
}
