package aggregator

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/OTGSJ/DiseaseOutbreakPredictor/internal/epiweek"
	"github.com/OTGSJ/DiseaseOutbreakPredictor/internal/model"
	"github.com/OTGSJ/DiseaseOutbreakPredictor/internal/tabnet"
)

// ReportSource runs a TabNet query. *tabnet.Client satisfies it.
type ReportSource interface {
	FetchReport(ctx context.Context, q model.QuerySpec) ([]model.ReportRow, error)
}

// Options selects what a multi-year run collects.
type Options struct {
	State        string
	Municipality string
	FirstYear    int
	// LastYear defaults to the current epidemiological year.
	LastYear int
}

// YearRange resolves the inclusive year window for a run started at now.
func (o Options) YearRange(now time.Time) (first, last int) {
	first, last = o.FirstYear, o.LastYear
	if last == 0 {
		last = epiweek.CurrentYear(now)
	}
	return first, last
}

// Aggregate fetches and pivots one report per year and merges the records.
// A year that fails to fetch is logged, recorded in Failures and skipped.
// Cancelling ctx stops before the next year and returns what was collected.
func Aggregate(ctx context.Context, src ReportSource, opts Options, now time.Time, log *slog.Logger) (*model.CaseDataset, error) {
	if log == nil {
		log = slog.Default()
	}

	first, last := opts.YearRange(now)
	if first > last {
		return nil, fmt.Errorf("first year %d is after last year %d", first, last)
	}

	data := &model.CaseDataset{
		State:        opts.State,
		Municipality: opts.Municipality,
		FirstYear:    first,
		LastYear:     last,
	}

	for year := first; year <= last; year++ {
		if err := ctx.Err(); err != nil {
			log.Warn("run interrupted", "year", year, "err", err)
			break
		}

		rows, err := src.FetchReport(ctx, tabnet.CasesByWeek(opts.State, year))
		if err != nil {
			log.Error("skipping year", "year", year, "state", opts.State, "err", err)
			data.Failures = append(data.Failures, model.YearFailure{Year: year, Err: err.Error()})
			continue
		}

		records := tabnet.PivotByWeek(year, rows, opts.Municipality)
		log.Info("year collected", "year", year, "state", opts.State, "municipality", opts.Municipality, "records", len(records))
		data.Records = append(data.Records, records...)
	}

	return data, nil
}
