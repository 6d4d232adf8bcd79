package persistence

import (
	"context"
	"fmt"

	"github.com/floportop/floportop/domain/movie"
	"github.com/floportop/floportop/infrastructure/index"
	"github.com/floportop/floportop/internal/database"
)

// MovieStore persists the movie corpus in a relational database. Read paths
// always order by id so callers observe a stable insertion order.
type MovieStore struct {
	db     *database.Database
	mapper movieMapper
}

// NewMovieStore creates a MovieStore and migrates its schema.
func NewMovieStore(db *database.Database) (*MovieStore, error) {
	if err := db.GORM().AutoMigrate(&movieModel{}); err != nil {
		return nil, fmt.Errorf("migrate movies table: %w", err)
	}
	return &MovieStore{db: db}, nil
}

// All returns every corpus record ordered by id.
func (s *MovieStore) All(ctx context.Context) ([]movie.Record, error) {
	var models []movieModel
	result := s.db.Session(ctx).Order("id ASC").Find(&models)
	if result.Error != nil {
		return nil, fmt.Errorf("load movies: %w", result.Error)
	}

	records := make([]movie.Record, len(models))
	for i, m := range models {
		records[i] = s.mapper.ToDomain(m)
	}
	return records, nil
}

// ByIDs returns the records for the given ids, in the order requested.
// Missing ids are skipped.
func (s *MovieStore) ByIDs(ctx context.Context, ids []int64) ([]movie.Record, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	var models []movieModel
	result := s.db.Session(ctx).Where("id IN ?", ids).Find(&models)
	if result.Error != nil {
		return nil, fmt.Errorf("load movies by id: %w", result.Error)
	}

	byID := make(map[int64]movieModel, len(models))
	for _, m := range models {
		byID[m.ID] = m
	}

	records := make([]movie.Record, 0, len(ids))
	for _, id := range ids {
		if m, ok := byID[id]; ok {
			records = append(records, s.mapper.ToDomain(m))
		}
	}
	return records, nil
}

// Count returns the corpus size.
func (s *MovieStore) Count(ctx context.Context) (int64, error) {
	var count int64
	result := s.db.Session(ctx).Model(&movieModel{}).Count(&count)
	if result.Error != nil {
		return 0, fmt.Errorf("count movies: %w", result.Error)
	}
	return count, nil
}

// Fingerprint digests the ordered corpus ids.
func (s *MovieStore) Fingerprint(ctx context.Context) (string, error) {
	var ids []int64
	result := s.db.Session(ctx).Model(&movieModel{}).Order("id ASC").Pluck("id", &ids)
	if result.Error != nil {
		return "", fmt.Errorf("fingerprint movies: %w", result.Error)
	}
	return index.Fingerprint(ids), nil
}

// Insert adds records to the corpus.
func (s *MovieStore) Insert(ctx context.Context, records []movie.Record) error {
	if len(records) == 0 {
		return nil
	}

	models := make([]movieModel, len(records))
	for i, r := range records {
		models[i] = s.mapper.ToModel(r)
	}

	result := s.db.Session(ctx).CreateInBatches(models, 500)
	if result.Error != nil {
		return fmt.Errorf("insert movies: %w", result.Error)
	}
	return nil
}

var _ movie.Store = (*MovieStore)(nil)
