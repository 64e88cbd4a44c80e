package population

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/OTGSJ/DiseaseOutbreakPredictor/internal/model"
	"github.com/OTGSJ/DiseaseOutbreakPredictor/internal/textnorm"
	"github.com/antzucaro/matchr"
)

// Years served by local tables instead of the IBGE aggregate API.
const (
	CensusYear    = 2022
	EstimatesYear = 2023
)

// ErrNoData means a year produced no usable municipality rows.
var ErrNoData = errors.New("no population data")

// Source is the part of the IBGE client population collection needs.
type Source interface {
	Municipalities(ctx context.Context, stateCode string) ([]model.Municipality, error)
	Population(ctx context.Context, year int, stateCode string) ([]model.PopulationRecord, error)
}

// Collector assembles one population table per year for a state.
type Collector struct {
	IBGE         Source
	CensusCSV    string
	EstimatesCSV string
	// Threshold is the minimum Jaro-Winkler similarity for a fuzzy name match.
	Threshold float64
	Log       *slog.Logger

	munis   []model.Municipality
	munisOf string
}

// Year returns the population records of state for year. Municipality names
// in the result are ASCII-folded with underscores for spaces.
func (c *Collector) Year(ctx context.Context, state model.State, year int) ([]model.PopulationRecord, error) {
	var (
		records []model.PopulationRecord
		err     error
	)
	switch year {
	case CensusYear:
		records, err = c.fromFile(ctx, state, year, c.CensusCSV, ReadCensus)
	case EstimatesYear:
		records, err = c.fromFile(ctx, state, year, c.EstimatesCSV, ReadEstimates)
	default:
		records, err = c.IBGE.Population(ctx, year, state.Code)
		for i := range records {
			records[i].Municipality = textnorm.Slug(records[i].Municipality)
		}
	}
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: %s %d", ErrNoData, state.Abbreviation, year)
	}
	return records, nil
}

type tableReader func(r io.Reader, uf string) ([]LocalRow, error)

func (c *Collector) fromFile(ctx context.Context, state model.State, year int, path string, read tableReader) ([]model.PopulationRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	rows, err := read(f, state.Abbreviation)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	munis, err := c.municipalities(ctx, state.Code)
	if err != nil {
		return nil, err
	}

	records, unmatched := Match(rows, munis, c.Threshold)
	for _, name := range unmatched {
		c.log().Warn("no municipality code for name", "name", name, "year", year, "file", path)
	}
	if len(unmatched) == len(rows) {
		return nil, fmt.Errorf("%w: no %s municipality in %s matched", ErrNoData, state.Abbreviation, path)
	}
	for i := range records {
		records[i].Year = year
	}
	return records, nil
}

func (c *Collector) municipalities(ctx context.Context, stateCode string) ([]model.Municipality, error) {
	if c.munis != nil && c.munisOf == stateCode {
		return c.munis, nil
	}
	m, err := c.IBGE.Municipalities(ctx, stateCode)
	if err != nil {
		return nil, fmt.Errorf("listing municipality codes: %w", err)
	}
	c.munis, c.munisOf = m, stateCode
	return m, nil
}

func (c *Collector) log() *slog.Logger {
	if c.Log != nil {
		return c.Log
	}
	return slog.Default()
}

// Match assigns an IBGE code to each local row. Names are compared in their
// ASCII-folded upper-case form; when no exact match exists the most similar
// name by Jaro-Winkler is taken if it reaches threshold. Rows that match
// nothing keep an empty code and are reported in unmatched.
func Match(rows []LocalRow, munis []model.Municipality, threshold float64) (records []model.PopulationRecord, unmatched []string) {
	exact := make(map[string]model.Municipality, len(munis))
	keys := make([]string, 0, len(munis))
	for _, m := range munis {
		k := textnorm.Key(m.Name)
		if _, dup := exact[k]; !dup {
			keys = append(keys, k)
		}
		exact[k] = m
	}

	for _, r := range rows {
		rec := model.PopulationRecord{
			Municipality: textnorm.Slug(r.Municipality),
			Population:   r.Population,
		}

		k := textnorm.Key(r.Municipality)
		if m, ok := exact[k]; ok {
			rec.Code = m.Code
		} else if best, score := closest(k, keys); score >= threshold && threshold > 0 {
			rec.Code = exact[best].Code
		} else {
			unmatched = append(unmatched, r.Municipality)
		}
		records = append(records, rec)
	}
	return records, unmatched
}

func closest(name string, candidates []string) (string, float64) {
	var (
		best  string
		score float64
	)
	for _, c := range candidates {
		if s := matchr.JaroWinkler(name, c, false); s > score {
			best, score = c, s
		}
	}
	return best, score
}

// HasInvalid reports whether any population is zero or negative.
func HasInvalid(records []model.PopulationRecord) bool {
	for _, r := range records {
		if r.Population <= 0 {
			return true
		}
	}
	return false
}
