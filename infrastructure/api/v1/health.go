package v1

import (
	"log/slog"
	"net/http"

	"github.com/floportop/floportop"
	"github.com/floportop/floportop/infrastructure/api/middleware"
	"github.com/floportop/floportop/infrastructure/api/v1/dto"
)

// HealthRouter handles the health endpoint.
type HealthRouter struct {
	client *floportop.Client
	logger *slog.Logger
}

// NewHealthRouter creates a new HealthRouter.
func NewHealthRouter(client *floportop.Client) *HealthRouter {
	return &HealthRouter{
		client: client,
		logger: client.Logger(),
	}
}

// Health handles GET /health.
func (r *HealthRouter) Health(w http.ResponseWriter, req *http.Request) {
	status := r.client.Status().Check(req.Context())

	label := "online"
	httpStatus := http.StatusOK
	if !status.Healthy {
		label = "degraded"
		httpStatus = http.StatusServiceUnavailable
	}

	middleware.WriteJSON(w, httpStatus, dto.HealthResponse{
		Status:        label,
		ModelVersion:  status.ModelVersion,
		EmbedderID:    status.EmbedderID,
		EmbedderReady: status.EmbedderReady,
		IndexState:    string(status.IndexState),
		IndexSize:     status.IndexSize,
		CorpusSize:    status.CorpusSize,
	})
}
