package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/floportop/floportop/application/service"
	"github.com/floportop/floportop/domain/feature"
	"github.com/floportop/floportop/infrastructure/artifact"
	"github.com/floportop/floportop/infrastructure/index"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{
			"validation error",
			feature.NewValidationError("startYear", "out of range"),
			http.StatusBadRequest, CodeValidation,
		},
		{
			"wrapped validation error",
			fmt.Errorf("predict: %w", feature.NewValidationError("k", "must be positive")),
			http.StatusBadRequest, CodeValidation,
		},
		{
			"index unavailable",
			fmt.Errorf("%w: corpus is empty", index.ErrUnavailable),
			http.StatusServiceUnavailable, CodeIndexUnavailable,
		},
		{
			"artifact unavailable",
			fmt.Errorf("%w: model_v5.json: no such file", artifact.ErrUnavailable),
			http.StatusServiceUnavailable, CodeArtifactUnavailable,
		},
		{
			"embedder unavailable",
			fmt.Errorf("%w: connection refused", service.ErrEmbedderUnavailable),
			http.StatusServiceUnavailable, CodeEmbedderUnavailable,
		},
		{
			"schema mismatch",
			feature.SchemaMismatchf("model artifact has 48 features, expected 49"),
			http.StatusInternalServerError, CodeSchemaMismatch,
		},
		{
			"deadline exceeded",
			context.DeadlineExceeded,
			http.StatusGatewayTimeout, CodeTimeout,
		},
		{
			"client canceled",
			context.Canceled,
			StatusClientClosedRequest, CodeTimeout,
		},
		{
			"unknown error",
			errors.New("something odd"),
			http.StatusInternalServerError, CodeInternal,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, code := classify(tt.err)
			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantCode, code)
		})
	}
}

func TestWriteError(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/predict", nil)

	WriteError(rec, req, feature.NewValidationError("startYear", "out of range"), nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body errorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, CodeValidation, body.Error.Code)
	assert.Contains(t, body.Error.Message, "startYear")
}
