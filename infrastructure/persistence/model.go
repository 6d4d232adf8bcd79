// Package persistence implements the movie corpus store on GORM.
package persistence

import (
	"database/sql/driver"
	"fmt"

	json "github.com/goccy/go-json"

	"github.com/floportop/floportop/domain/movie"
)

// StringSlice stores a []string as a JSON text column, portable across
// sqlite and postgres.
type StringSlice []string

// Scan implements sql.Scanner.
func (s *StringSlice) Scan(value any) error {
	if value == nil {
		*s = nil
		return nil
	}

	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into StringSlice", value)
	}

	if len(data) == 0 {
		*s = nil
		return nil
	}
	return json.Unmarshal(data, s)
}

// Value implements driver.Valuer.
func (s StringSlice) Value() (driver.Value, error) {
	if s == nil {
		return "[]", nil
	}
	data, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

// movieModel is the GORM entity for a corpus record.
type movieModel struct {
	ID          int64       `gorm:"primaryKey;autoIncrement:false"`
	ImdbID      string      `gorm:"index"`
	Title       string      `gorm:"not null"`
	Year        int         `gorm:"column:year"`
	Genres      StringSlice `gorm:"type:text"`
	Keywords    StringSlice `gorm:"type:text"`
	Cast        StringSlice `gorm:"column:cast_top;type:text"`
	Directors   StringSlice `gorm:"type:text"`
	Overview    string      `gorm:"type:text"`
	VoteAverage float64
	VoteCount   int64
	Runtime     float64
	Budget      float64
	IsAdult     bool
}

// TableName sets the table name for movieModel.
func (movieModel) TableName() string { return "movies" }

// movieMapper converts between the domain record and the GORM entity.
type movieMapper struct{}

func (movieMapper) ToDomain(m movieModel) movie.Record {
	return movie.ReconstructRecord(
		m.ID,
		m.ImdbID,
		m.Title,
		m.Year,
		m.Genres,
		m.Keywords,
		m.Cast,
		m.Directors,
		m.Overview,
		m.VoteAverage,
		m.VoteCount,
		m.Runtime,
		m.Budget,
		m.IsAdult,
	)
}

func (movieMapper) ToModel(r movie.Record) movieModel {
	return movieModel{
		ID:          r.ID(),
		ImdbID:      r.ImdbID(),
		Title:       r.Title(),
		Year:        r.Year(),
		Genres:      r.Genres(),
		Keywords:    r.Keywords(),
		Cast:        r.Cast(),
		Directors:   r.Directors(),
		Overview:    r.Overview(),
		VoteAverage: r.VoteAverage(),
		VoteCount:   r.VoteCount(),
		Runtime:     r.Runtime(),
		Budget:      r.Budget(),
		IsAdult:     r.IsAdult(),
	}
}
