package model

import (
	"strconv"
	"time"
)

// QuerySpec describes one TabNet report request for a single (state, year) pair.
type QuerySpec struct {
	RowDimension    string            `json:"row_dimension"`
	ColumnDimension string            `json:"column_dimension"`
	Increment       string            `json:"increment"`
	SourceFileName  string            `json:"source_file_name"`
	StateCode       string            `json:"state_code"`
	Year            int               `json:"year"`
	ExtraFilters    map[string]string `json:"extra_filters,omitempty"`

	// Columns is the expected cell count per row. Zero means "width of the first row".
	Columns int `json:"columns"`
	// HeaderLabel identifies the header row by its first cell. Empty means the
	// first accepted row is the header.
	HeaderLabel string `json:"header_label"`
}

// ReportRow is one quote-stripped, semicolon-split line of a TabNet table.
type ReportRow []string

// Label returns the row-label cell, or "" for an empty row.
func (r ReportRow) Label() string {
	if len(r) == 0 {
		return ""
	}
	return r[0]
}

// CaseRecord is one (municipality, week) dengue count.
type CaseRecord struct {
	Year         int    `json:"year"`
	Week         string `json:"week"`
	Municipality string `json:"municipality"`
	Cases        string `json:"cases"`
}

// Count parses the normalized case cell.
func (c CaseRecord) Count() (int, error) {
	return strconv.Atoi(c.Cases)
}

// State is one entry of the federative-unit table.
type State struct {
	Abbreviation string `json:"abbreviation"`
	Name         string `json:"name"`
	Code         string `json:"code"`
}

// Municipality is an IBGE administrative division.
type Municipality struct {
	Code string `json:"tercodigo"`
	Name string `json:"name"`
}

// PopulationRecord is a resident population figure for one municipality and year.
type PopulationRecord struct {
	Year         int    `json:"year"`
	Code         string `json:"tercodigo"`
	Municipality string `json:"municipality"`
	Population   int    `json:"population"`
}

// IDHMRecord is the 2010 municipal human development index.
type IDHMRecord struct {
	Code         string  `json:"tercodigo"`
	Municipality string  `json:"municipality"`
	IDHM         float64 `json:"idhm"`
}

// WeatherRecord is one day of observations at a municipality centroid.
type WeatherRecord struct {
	Date     string  `json:"date"`
	CodeMuni string  `json:"code_muni"`
	City     string  `json:"city"`
	State    string  `json:"state"`
	TAvg     float64 `json:"tavg"`
	TMin     float64 `json:"tmin"`
	TMax     float64 `json:"tmax"`
	Prcp     float64 `json:"prcp"`
	WSpd     float64 `json:"wspd"`
	Pres     float64 `json:"pres"`
	TSun     float64 `json:"tsun"`
}

// Dataset names a kind of collection run.
type Dataset string

const (
	DatasetDengue     Dataset = "dengue"
	DatasetReport     Dataset = "report"
	DatasetPopulation Dataset = "population"
	DatasetIDHM       Dataset = "idhm"
	DatasetWeather    Dataset = "weather"
)

// Run records one invocation of a collector.
type Run struct {
	ID         string    `json:"id"`
	Dataset    Dataset   `json:"dataset"`
	State      string    `json:"state"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	Records    int       `json:"records"`
}

// YearFailure notes a year that was skipped during a multi-year run.
type YearFailure struct {
	Year int    `json:"year"`
	Err  string `json:"error"`
}

// CaseDataset is the accumulated output of a multi-year dengue run.
type CaseDataset struct {
	State        string        `json:"state"`
	Municipality string        `json:"municipality,omitempty"`
	FirstYear    int           `json:"first_year"`
	LastYear     int           `json:"last_year"`
	Records      []CaseRecord  `json:"records"`
	Failures     []YearFailure `json:"failures,omitempty"`
}
