package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/floportop/floportop"
	apimiddleware "github.com/floportop/floportop/infrastructure/api/middleware"
	v1 "github.com/floportop/floportop/infrastructure/api/v1"
	"github.com/floportop/floportop/infrastructure/api/v1/dto"
)

// requestTimeout bounds the prediction and similarity routes. The rebuild
// route is exempt because a cold corpus build can take minutes.
const requestTimeout = 60 * time.Second

// MountRoutes registers all API routes on the server.
func MountRoutes(server Server, client *floportop.Client) {
	router := server.Router()
	logger := client.Logger()

	router.Use(apimiddleware.Logging(logger))

	predictRouter := v1.NewPredictRouter(client)
	similarRouter := v1.NewSimilarRouter(client)
	indexRouter := v1.NewIndexRouter(client)
	healthRouter := v1.NewHealthRouter(client)

	router.Get("/", func(w http.ResponseWriter, r *http.Request) {
		apimiddleware.WriteJSON(w, http.StatusOK, dto.RootResponse{
			Name:    "floportop",
			Version: floportop.Version,
		})
	})
	router.Get("/health", healthRouter.Health)

	router.Route("/api/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(chimiddleware.Timeout(requestTimeout))
			r.Mount("/predict", predictRouter.Routes())
			r.Mount("/similar", similarRouter.Routes())
		})
		r.Mount("/index", indexRouter.Routes())
	})
}
