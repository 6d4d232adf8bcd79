package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/floportop/floportop/application/service"
	"github.com/floportop/floportop/domain/feature"
	"github.com/floportop/floportop/infrastructure/artifact"
	"github.com/floportop/floportop/infrastructure/index"
)

// Error codes returned in API error bodies.
const (
	CodeValidation          = "validation_error"
	CodeIndexUnavailable    = "index_unavailable"
	CodeArtifactUnavailable = "artifact_unavailable"
	CodeEmbedderUnavailable = "embedder_unavailable"
	CodeSchemaMismatch      = "schema_mismatch"
	CodeTimeout             = "timeout"
	CodeInternal            = "internal_error"
)

// StatusClientClosedRequest mirrors nginx's non-standard 499 for requests
// abandoned by the client.
const StatusClientClosedRequest = 499

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// WriteJSON writes v as a JSON response with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError maps an error onto the API error taxonomy and writes it.
// Validation failures are the client's problem; unavailable dependencies ask
// the client to retry; a schema mismatch is a deployment defect and is
// logged loudly with the request ID.
func WriteError(w http.ResponseWriter, r *http.Request, err error, logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}
	requestID := middleware.GetReqID(r.Context())

	status, code := classify(err)

	switch {
	case errors.Is(err, feature.ErrSchemaMismatch):
		logger.Error("schema mismatch, artifacts disagree with runtime",
			"request_id", requestID,
			"path", r.URL.Path,
			"error", err,
		)
	case status >= http.StatusInternalServerError:
		logger.Error("request failed",
			"request_id", requestID,
			"path", r.URL.Path,
			"error", err,
		)
	default:
		logger.Debug("request rejected",
			"request_id", requestID,
			"path", r.URL.Path,
			"status", status,
			"error", err,
		)
	}

	WriteJSON(w, status, errorBody{Error: errorDetail{Code: code, Message: err.Error()}})
}

func classify(err error) (int, string) {
	var validation *feature.ValidationError
	switch {
	case errors.As(err, &validation):
		return http.StatusBadRequest, CodeValidation
	case errors.Is(err, index.ErrUnavailable):
		return http.StatusServiceUnavailable, CodeIndexUnavailable
	case errors.Is(err, artifact.ErrUnavailable):
		return http.StatusServiceUnavailable, CodeArtifactUnavailable
	case errors.Is(err, service.ErrEmbedderUnavailable):
		return http.StatusServiceUnavailable, CodeEmbedderUnavailable
	case errors.Is(err, feature.ErrSchemaMismatch):
		return http.StatusInternalServerError, CodeSchemaMismatch
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, CodeTimeout
	case errors.Is(err, context.Canceled):
		return StatusClientClosedRequest, CodeTimeout
	}
	return http.StatusInternalServerError, CodeInternal
}
