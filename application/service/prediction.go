package service

import (
	"context"
	"fmt"

	"github.com/floportop/floportop/domain/feature"
	"github.com/floportop/floportop/domain/search"
	"github.com/floportop/floportop/internal/log"
)

// PredictionRequest carries the raw prediction inputs as received from the
// API or CLI, before validation.
type PredictionRequest struct {
	StartYear      int
	RuntimeMinutes float64
	Overview       string
	Genres         string
	Budget         float64
	IsAdult        bool
}

// Prediction is the outcome of a rating prediction.
type Prediction struct {
	Rating        float64
	ModelVersion  string
	Genres        []string
	DroppedGenres []string
	ImputedBudget bool
}

// PredictionService runs the prediction pipeline: validate, embed the
// overview, reduce, assemble the feature vector, apply the regression.
type PredictionService struct {
	embedder  search.Embedder
	reducer   feature.Reducer
	assembler feature.Assembler
	predictor feature.Predictor
	logger    *log.Logger
}

// NewPredictionService creates a PredictionService.
func NewPredictionService(
	embedder search.Embedder,
	reducer feature.Reducer,
	predictor feature.Predictor,
	medians feature.BudgetMedians,
	logger *log.Logger,
) *PredictionService {
	if logger == nil {
		logger = log.Default()
	}
	return &PredictionService{
		embedder:  embedder,
		reducer:   reducer,
		assembler: feature.NewAssembler(medians),
		predictor: predictor,
		logger:    logger,
	}
}

// ModelVersion returns the loaded regression artifact version.
func (s *PredictionService) ModelVersion() string {
	return s.predictor.Version()
}

// Predict validates the request and produces a clamped rating.
func (s *PredictionService) Predict(ctx context.Context, req PredictionRequest) (Prediction, error) {
	meta, err := feature.NewMetadata(
		req.StartYear,
		req.RuntimeMinutes,
		req.Overview,
		req.Genres,
		req.Budget,
		req.IsAdult,
	)
	if err != nil {
		return Prediction{}, err
	}

	if dropped := meta.DroppedGenres(); len(dropped) > 0 {
		s.logger.WarnContext(ctx, "unknown genres dropped from prediction input", "genres", dropped)
	}

	vectors, err := s.embedder.Embed(ctx, []string{meta.Overview()})
	if err != nil {
		return Prediction{}, wrapEmbedderError(err)
	}
	if len(vectors) != 1 {
		return Prediction{}, fmt.Errorf("%w: got %d vectors for one text", ErrEmbedderUnavailable, len(vectors))
	}

	reduced, err := s.reducer.Reduce(vectors[0])
	if err != nil {
		return Prediction{}, err
	}

	features, err := s.assembler.Assemble(meta, reduced)
	if err != nil {
		return Prediction{}, err
	}

	rating, err := s.predictor.Predict(features)
	if err != nil {
		return Prediction{}, err
	}

	return Prediction{
		Rating:        rating,
		ModelVersion:  s.predictor.Version(),
		Genres:        meta.Genres(),
		DroppedGenres: meta.DroppedGenres(),
		ImputedBudget: !meta.HasBudget(),
	}, nil
}
