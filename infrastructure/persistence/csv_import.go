package persistence

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"gorm.io/gorm"

	"github.com/floportop/floportop/domain/movie"
	"github.com/floportop/floportop/internal/database"
	"github.com/floportop/floportop/internal/log"
)

// importBatchSize is the number of rows inserted per database round trip.
const importBatchSize = 500

// CSVImporter seeds an empty movies table from the dataset pipeline's CSV
// export. Multi-valued columns (genres, keywords, cast, directors) hold
// comma-separated names.
type CSVImporter struct {
	store  *MovieStore
	logger *log.Logger
}

// NewCSVImporter creates a CSVImporter.
func NewCSVImporter(store *MovieStore, logger *log.Logger) *CSVImporter {
	if logger == nil {
		logger = log.Default()
	}
	return &CSVImporter{store: store, logger: logger}
}

// ImportIfEmpty imports the CSV only when the movies table is empty, and
// returns the number of rows imported (0 when the table already had data).
func (imp *CSVImporter) ImportIfEmpty(ctx context.Context, path string) (int, error) {
	count, err := imp.store.Count(ctx)
	if err != nil {
		return 0, err
	}
	if count > 0 {
		imp.logger.DebugContext(ctx, "movies table already seeded", "rows", count)
		return 0, nil
	}
	return imp.Import(ctx, path)
}

// Import reads the CSV and inserts every row inside a single transaction.
// Rows that cannot be parsed abort the import and roll back everything
// already inserted; a partially seeded corpus would silently skew results.
func (imp *CSVImporter) Import(ctx context.Context, path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("open corpus csv: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	header, err := reader.Read()
	if err != nil {
		return 0, fmt.Errorf("read corpus csv header: %w", err)
	}
	columns, err := mapColumns(header)
	if err != nil {
		return 0, err
	}

	total := 0
	err = database.WithTransaction(ctx, imp.store.db, func(tx *gorm.DB) error {
		var mapper movieMapper
		batch := make([]movieModel, 0, importBatchSize)
		flush := func() error {
			if len(batch) == 0 {
				return nil
			}
			if err := tx.Create(&batch).Error; err != nil {
				return fmt.Errorf("insert movies: %w", err)
			}
			total += len(batch)
			batch = batch[:0]
			return nil
		}

		for line := 2; ; line++ {
			row, err := reader.Read()
			if err == io.EOF {
				break
			}
			if err != nil {
				return fmt.Errorf("read corpus csv line %d: %w", line, err)
			}

			record, err := columns.parse(row)
			if err != nil {
				return fmt.Errorf("corpus csv line %d: %w", line, err)
			}

			batch = append(batch, mapper.ToModel(record))
			if len(batch) == importBatchSize {
				if err := flush(); err != nil {
					return err
				}
			}
		}
		return flush()
	})
	if err != nil {
		return 0, err
	}

	imp.logger.InfoContext(ctx, "corpus imported", "path", path, "rows", total)
	return total, nil
}

// columnMap resolves header names to column positions. Only id, title and
// year are required.
type columnMap struct {
	id, title, year                int
	imdbID, genres, keywords, cast int
	directors, overview            int
	voteAverage, voteCount         int
	runtime, budget, isAdult       int
}

func mapColumns(header []string) (columnMap, error) {
	pos := make(map[string]int, len(header))
	for i, name := range header {
		pos[strings.ToLower(strings.TrimSpace(name))] = i
	}

	find := func(names ...string) int {
		for _, n := range names {
			if i, ok := pos[n]; ok {
				return i
			}
		}
		return -1
	}

	cm := columnMap{
		id:          find("id", "movie_id"),
		title:       find("title"),
		year:        find("year", "startyear", "start_year"),
		imdbID:      find("imdb_id", "imdbid"),
		genres:      find("genres", "genre_names"),
		keywords:    find("keywords", "keyword_names"),
		cast:        find("cast", "cast_top"),
		directors:   find("directors", "director"),
		overview:    find("overview"),
		voteAverage: find("vote_average", "averagerating"),
		voteCount:   find("vote_count", "numvotes"),
		runtime:     find("runtime", "runtimeminutes", "runtime_minutes"),
		budget:      find("budget"),
		isAdult:     find("is_adult", "isadult"),
	}

	for name, idx := range map[string]int{"id": cm.id, "title": cm.title, "year": cm.year} {
		if idx < 0 {
			return columnMap{}, fmt.Errorf("corpus csv is missing required column %q", name)
		}
	}
	return cm, nil
}

func (cm columnMap) parse(row []string) (movie.Record, error) {
	get := func(idx int) string {
		if idx < 0 || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	id, err := strconv.ParseInt(get(cm.id), 10, 64)
	if err != nil {
		return movie.Record{}, fmt.Errorf("bad id %q", get(cm.id))
	}
	year, err := strconv.Atoi(get(cm.year))
	if err != nil {
		return movie.Record{}, fmt.Errorf("bad year %q", get(cm.year))
	}

	record, err := movie.NewRecord(id, get(cm.title), year)
	if err != nil {
		return movie.Record{}, err
	}

	voteAverage := parseFloat(get(cm.voteAverage))
	voteCount, _ := strconv.ParseInt(get(cm.voteCount), 10, 64)
	runtime := parseFloat(get(cm.runtime))
	budget := parseFloat(get(cm.budget))
	isAdult := parseBool(get(cm.isAdult))

	return record.
		WithImdbID(get(cm.imdbID)).
		WithGenres(splitNames(get(cm.genres))).
		WithPlot(get(cm.overview), splitNames(get(cm.keywords))).
		WithCredits(splitNames(get(cm.cast)), splitNames(get(cm.directors))).
		WithVotes(voteAverage, voteCount).
		WithProduction(runtime, budget, isAdult), nil
}

func splitNames(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	names := make([]string, 0, len(parts))
	for _, p := range parts {
		if name := strings.TrimSpace(p); name != "" {
			names = append(names, name)
		}
	}
	return names
}

func parseFloat(raw string) float64 {
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0
	}
	return v
}

func parseBool(raw string) bool {
	switch strings.ToLower(raw) {
	case "1", "true", "t", "yes":
		return true
	}
	return false
}
