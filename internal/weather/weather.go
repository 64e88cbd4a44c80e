package weather

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/OTGSJ/DiseaseOutbreakPredictor/internal/ibge"
	"github.com/OTGSJ/DiseaseOutbreakPredictor/internal/meteostat"
	"github.com/OTGSJ/DiseaseOutbreakPredictor/internal/model"
	"github.com/OTGSJ/DiseaseOutbreakPredictor/internal/textnorm"
)

// SeriesStart is the first day of every weather series.
var SeriesStart = time.Date(2021, time.January, 1, 0, 0, 0, 0, time.UTC)

// Geography supplies municipality outlines and names for a state.
type Geography interface {
	MunicipalBoundaries(ctx context.Context, stateCode string) ([]ibge.Boundary, error)
	Municipalities(ctx context.Context, stateCode string) ([]model.Municipality, error)
}

// DailySource returns a daily series at a point.
type DailySource interface {
	Daily(ctx context.Context, lat, lon float64, start, end time.Time) ([]meteostat.Day, error)
}

// Collect fetches the daily series at the centroid of every municipality of
// state from start to end. A municipality that fails is logged and skipped.
// Cancelling ctx stops before the next municipality and returns what was
// collected so far.
func Collect(ctx context.Context, geo Geography, src DailySource, state model.State, start, end time.Time, log *slog.Logger) ([]model.WeatherRecord, error) {
	if log == nil {
		log = slog.Default()
	}

	bounds, err := geo.MunicipalBoundaries(ctx, state.Code)
	if err != nil {
		return nil, fmt.Errorf("loading boundaries of %s: %w", state.Abbreviation, err)
	}
	if len(bounds) == 0 {
		return nil, fmt.Errorf("no municipalities found for %s", state.Name)
	}

	munis, err := geo.Municipalities(ctx, state.Code)
	if err != nil {
		return nil, fmt.Errorf("loading municipality names of %s: %w", state.Abbreviation, err)
	}
	names := make(map[string]string, len(munis))
	for _, m := range munis {
		names[m.Code] = textnorm.ASCII(m.Name)
	}

	var records []model.WeatherRecord
	for _, b := range bounds {
		if err := ctx.Err(); err != nil {
			log.Warn("weather collection interrupted", "collected", len(records), "err", err)
			break
		}

		city := names[b.Code]
		if city == "" {
			city = b.Code
		}

		lat, lon, err := Centroid(b.Geometry)
		if err != nil {
			log.Error("skipping municipality", "city", city, "code", b.Code, "err", err)
			continue
		}

		days, err := src.Daily(ctx, lat, lon, start, end)
		if err != nil {
			log.Error("skipping municipality", "city", city, "code", b.Code, "err", err)
			continue
		}
		if len(days) == 0 {
			log.Warn("no weather data", "city", city, "code", b.Code)
			continue
		}

		log.Info("weather collected", "city", city, "code", b.Code, "days", len(days))
		for _, d := range days {
			records = append(records, toRecord(d, b.Code, city, state.Name))
		}
	}
	return records, nil
}

func toRecord(d meteostat.Day, code, city, state string) model.WeatherRecord {
	return model.WeatherRecord{
		Date:     d.Date,
		CodeMuni: code,
		City:     city,
		State:    state,
		TAvg:     meteostat.OrZero(d.TAvg),
		TMin:     meteostat.OrZero(d.TMin),
		TMax:     meteostat.OrZero(d.TMax),
		Prcp:     meteostat.OrZero(d.Prcp),
		WSpd:     meteostat.OrZero(d.WSpd),
		Pres:     meteostat.OrZero(d.Pres),
		TSun:     meteostat.OrZero(d.TSun),
	}
}
