// Package dto defines the JSON request and response shapes for the v1 API.
package dto

// PredictInput echoes the interpreted prediction inputs back to the caller.
type PredictInput struct {
	StartYear      int      `json:"startYear"`
	RuntimeMinutes float64  `json:"runtimeMinutes"`
	Overview       string   `json:"overview"`
	IsAdult        bool     `json:"isAdult"`
	Genres         []string `json:"genres"`
	DroppedGenres  []string `json:"dropped_genres,omitempty"`
	Budget         float64  `json:"budget"`
	ImputedBudget  bool     `json:"imputed_budget"`
}

// PredictResponse is the body of GET /api/v1/predict.
type PredictResponse struct {
	PredictedRating float64      `json:"predicted_rating"`
	ModelVersion    string       `json:"model_version"`
	Input           PredictInput `json:"input"`
}

// SimilarMovie is one similarity hit.
type SimilarMovie struct {
	Title       string   `json:"title"`
	ImdbID      string   `json:"imdb_id"`
	Overview    string   `json:"overview"`
	Genres      []string `json:"genres"`
	Directors   []string `json:"directors"`
	Cast        []string `json:"cast"`
	VoteAverage float64  `json:"vote_average"`
	Score       float64  `json:"score"`
}

// SimilarResponse is the body of GET /api/v1/similar.
type SimilarResponse struct {
	Query   string         `json:"query"`
	Count   int            `json:"count"`
	Results []SimilarMovie `json:"results"`
}

// RebuildResponse is the body of POST /api/v1/index/rebuild.
type RebuildResponse struct {
	Status    string `json:"status"`
	IndexSize int    `json:"index_size"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status        string `json:"status"`
	ModelVersion  string `json:"model_version"`
	EmbedderID    string `json:"embedder_id"`
	EmbedderReady bool   `json:"embedder_ready"`
	IndexState    string `json:"index_state"`
	IndexSize     int    `json:"index_size"`
	CorpusSize    int64  `json:"corpus_size"`
}

// RootResponse is the body of GET /.
type RootResponse struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}
