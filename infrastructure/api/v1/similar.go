package v1

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/floportop/floportop"
	"github.com/floportop/floportop/domain/feature"
	"github.com/floportop/floportop/infrastructure/api/middleware"
	"github.com/floportop/floportop/infrastructure/api/v1/dto"
)

// SimilarRouter handles similarity search endpoints.
type SimilarRouter struct {
	client *floportop.Client
	logger *slog.Logger
}

// NewSimilarRouter creates a new SimilarRouter.
func NewSimilarRouter(client *floportop.Client) *SimilarRouter {
	return &SimilarRouter{
		client: client,
		logger: client.Logger(),
	}
}

// Routes returns the chi router for similarity endpoints.
func (r *SimilarRouter) Routes() chi.Router {
	router := chi.NewRouter()
	router.Get("/", r.Similar)
	return router
}

// Similar handles GET /api/v1/similar. The k parameter defaults to the
// configured search limit when absent.
func (r *SimilarRouter) Similar(w http.ResponseWriter, req *http.Request) {
	ctx := req.Context()
	q := req.URL.Query()

	k := r.client.SearchLimit()
	if kRaw := q.Get("k"); kRaw != "" {
		parsed, err := strconv.Atoi(kRaw)
		if err != nil {
			middleware.WriteError(w, req, feature.NewValidationError("k", "must be an integer, got %q", kRaw), r.logger)
			return
		}
		k = parsed
	}

	query := q.Get("query")
	results, err := r.client.Similarity().Similar(ctx, query, k)
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	items := make([]dto.SimilarMovie, len(results))
	for i, res := range results {
		record := res.Record
		items[i] = dto.SimilarMovie{
			Title:       record.Title(),
			ImdbID:      record.ImdbID(),
			Overview:    record.Overview(),
			Genres:      record.Genres(),
			Directors:   record.Directors(),
			Cast:        record.Cast(),
			VoteAverage: record.VoteAverage(),
			Score:       res.Score,
		}
	}

	middleware.WriteJSON(w, http.StatusOK, dto.SimilarResponse{
		Query:   query,
		Count:   len(items),
		Results: items,
	})
}
