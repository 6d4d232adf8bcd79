package v1

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/floportop/floportop"
	"github.com/floportop/floportop/infrastructure/api/middleware"
	"github.com/floportop/floportop/infrastructure/api/v1/dto"
)

// IndexRouter handles index management endpoints.
type IndexRouter struct {
	client *floportop.Client
	logger *slog.Logger
}

// NewIndexRouter creates a new IndexRouter.
func NewIndexRouter(client *floportop.Client) *IndexRouter {
	return &IndexRouter{
		client: client,
		logger: client.Logger(),
	}
}

// Routes returns the chi router for index endpoints.
func (r *IndexRouter) Routes() chi.Router {
	router := chi.NewRouter()
	router.Post("/rebuild", r.Rebuild)
	return router
}

// Rebuild handles POST /api/v1/index/rebuild. Embedding the whole corpus can
// take minutes on a cold cache; the route is mounted without a timeout.
func (r *IndexRouter) Rebuild(w http.ResponseWriter, req *http.Request) {
	ctx := req.Context()

	if err := r.client.Similarity().Rebuild(ctx); err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	middleware.WriteJSON(w, http.StatusOK, dto.RebuildResponse{
		Status:    "success",
		IndexSize: r.client.Similarity().IndexSize(),
	})
}
