// Package v1 implements the v1 HTTP API.
package v1

import (
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"unicode/utf8"

	"github.com/go-chi/chi/v5"

	"github.com/floportop/floportop"
	"github.com/floportop/floportop/application/service"
	"github.com/floportop/floportop/domain/feature"
	"github.com/floportop/floportop/infrastructure/api/middleware"
	"github.com/floportop/floportop/infrastructure/api/v1/dto"
)

// PredictRouter handles rating prediction endpoints.
type PredictRouter struct {
	client *floportop.Client
	logger *slog.Logger
}

// NewPredictRouter creates a new PredictRouter.
func NewPredictRouter(client *floportop.Client) *PredictRouter {
	return &PredictRouter{
		client: client,
		logger: client.Logger(),
	}
}

// Routes returns the chi router for prediction endpoints.
func (r *PredictRouter) Routes() chi.Router {
	router := chi.NewRouter()
	router.Get("/", r.Predict)
	return router
}

// Predict handles GET /api/v1/predict.
func (r *PredictRouter) Predict(w http.ResponseWriter, req *http.Request) {
	ctx := req.Context()

	predictor, err := r.client.Prediction()
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	input, err := parsePredictQuery(req)
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	prediction, err := predictor.Predict(ctx, input)
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	middleware.WriteJSON(w, http.StatusOK, dto.PredictResponse{
		PredictedRating: math.Round(prediction.Rating*100) / 100,
		ModelVersion:    prediction.ModelVersion,
		Input: dto.PredictInput{
			StartYear:      input.StartYear,
			RuntimeMinutes: input.RuntimeMinutes,
			Overview:       truncate(input.Overview, 100),
			IsAdult:        input.IsAdult,
			Genres:         prediction.Genres,
			DroppedGenres:  prediction.DroppedGenres,
			Budget:         input.Budget,
			ImputedBudget:  prediction.ImputedBudget,
		},
	})
}

func parsePredictQuery(req *http.Request) (service.PredictionRequest, error) {
	q := req.URL.Query()

	yearRaw := q.Get("startYear")
	if yearRaw == "" {
		return service.PredictionRequest{}, feature.NewValidationError("startYear", "is required")
	}
	year, err := strconv.Atoi(yearRaw)
	if err != nil {
		return service.PredictionRequest{}, feature.NewValidationError("startYear", "must be an integer, got %q", yearRaw)
	}

	runtimeRaw := q.Get("runtimeMinutes")
	if runtimeRaw == "" {
		return service.PredictionRequest{}, feature.NewValidationError("runtimeMinutes", "is required")
	}
	runtime, err := strconv.ParseFloat(runtimeRaw, 64)
	if err != nil {
		return service.PredictionRequest{}, feature.NewValidationError("runtimeMinutes", "must be a number, got %q", runtimeRaw)
	}

	budget := 0.0
	if budgetRaw := q.Get("budget"); budgetRaw != "" {
		budget, err = strconv.ParseFloat(budgetRaw, 64)
		if err != nil {
			return service.PredictionRequest{}, feature.NewValidationError("budget", "must be a number, got %q", budgetRaw)
		}
	}

	isAdult := false
	if adultRaw := q.Get("isAdult"); adultRaw != "" {
		switch adultRaw {
		case "0", "false":
		case "1", "true":
			isAdult = true
		default:
			return service.PredictionRequest{}, feature.NewValidationError("isAdult", "must be 0 or 1, got %q", adultRaw)
		}
	}

	return service.PredictionRequest{
		StartYear:      year,
		RuntimeMinutes: runtime,
		Overview:       q.Get("overview"),
		Genres:         q.Get("genres"),
		Budget:         budget,
		IsAdult:        isAdult,
	}, nil
}

// truncate cuts s after n runes, never mid-character.
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n]) + "..."
}
