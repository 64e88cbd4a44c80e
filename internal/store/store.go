package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/OTGSJ/DiseaseOutbreakPredictor/internal/model"
	_ "github.com/duckdb/duckdb-go/v2"
	"github.com/google/uuid"
)

// Store keeps every collected dataset in a local DuckDB file so the API
// server and status command can read them back.
type Store struct {
	DB      *sql.DB
	DataDir string
}

// New opens (or creates) a DuckDB database in the given data directory.
func New(dataDir string) (*Store, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data dir: %w", err)
	}

	dbPath := filepath.Join(dataDir, "outbreak.duckdb")
	db, err := sql.Open("duckdb", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening duckdb: %w", err)
	}

	s := &Store{DB: db, DataDir: dataDir}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrating schema: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.DB.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			dataset TEXT NOT NULL,
			state TEXT NOT NULL,
			started_at TIMESTAMP NOT NULL,
			finished_at TIMESTAMP,
			records INTEGER NOT NULL DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS cases (
			run_id TEXT NOT NULL,
			state TEXT NOT NULL,
			year INTEGER NOT NULL,
			week TEXT NOT NULL,
			municipality TEXT NOT NULL,
			cases TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS population (
			run_id TEXT NOT NULL,
			state TEXT NOT NULL,
			year INTEGER NOT NULL,
			tercodigo TEXT,
			municipality TEXT NOT NULL,
			population BIGINT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS idhm (
			run_id TEXT NOT NULL,
			state TEXT NOT NULL,
			tercodigo TEXT NOT NULL,
			municipality TEXT NOT NULL,
			idhm DOUBLE NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS weather (
			run_id TEXT NOT NULL,
			state TEXT NOT NULL,
			obs_date TEXT NOT NULL,
			code_muni TEXT NOT NULL,
			city TEXT NOT NULL,
			state_name TEXT NOT NULL,
			tavg DOUBLE, tmin DOUBLE, tmax DOUBLE, prcp DOUBLE,
			wspd DOUBLE, pres DOUBLE, tsun DOUBLE
		)`,
	}

	for _, stmt := range stmts {
		if _, err := s.DB.Exec(stmt); err != nil {
			return fmt.Errorf("executing migration %q: %w", stmt[:40], err)
		}
	}
	return nil
}

// StartRun records the beginning of a collector run and returns it.
func (s *Store) StartRun(dataset model.Dataset, state string) (*model.Run, error) {
	run := &model.Run{
		ID:        uuid.NewString(),
		Dataset:   dataset,
		State:     state,
		StartedAt: time.Now().UTC(),
	}
	_, err := s.DB.Exec("INSERT INTO runs (id, dataset, state, started_at) VALUES (?, ?, ?, ?)",
		run.ID, string(run.Dataset), run.State, run.StartedAt)
	if err != nil {
		return nil, fmt.Errorf("recording run: %w", err)
	}
	return run, nil
}

// FinishRun stamps the end time and record count of a run.
func (s *Store) FinishRun(run *model.Run, records int) error {
	run.FinishedAt = time.Now().UTC()
	run.Records = records
	_, err := s.DB.Exec("UPDATE runs SET finished_at = ?, records = ? WHERE id = ?", run.FinishedAt, run.Records, run.ID)
	return err
}

// ListRuns returns the most recent runs first.
func (s *Store) ListRuns(limit int) ([]model.Run, error) {
	rows, err := s.DB.Query(`SELECT id, dataset, state, started_at, finished_at, records
		FROM runs ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []model.Run
	for rows.Next() {
		var (
			r        model.Run
			dataset  string
			finished sql.NullTime
		)
		if err := rows.Scan(&r.ID, &dataset, &r.State, &r.StartedAt, &finished, &r.Records); err != nil {
			return nil, err
		}
		r.Dataset = model.Dataset(dataset)
		if finished.Valid {
			r.FinishedAt = finished.Time
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// WriteCases replaces the stored weeks of every (state, year) present in
// data with its records.
func (s *Store) WriteCases(runID string, data *model.CaseDataset) error {
	tx, err := s.DB.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	years := make(map[int]bool)
	for _, r := range data.Records {
		years[r.Year] = true
	}
	for y := range years {
		if _, err := tx.Exec("DELETE FROM cases WHERE state = ? AND year = ?", data.State, y); err != nil {
			return fmt.Errorf("clearing cases %s %d: %w", data.State, y, err)
		}
	}

	stmt, err := tx.Prepare("INSERT INTO cases (run_id, state, year, week, municipality, cases) VALUES (?, ?, ?, ?, ?, ?)")
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, r := range data.Records {
		if _, err := stmt.Exec(runID, data.State, r.Year, r.Week, r.Municipality, r.Cases); err != nil {
			return fmt.Errorf("inserting case %d/%s/%s: %w", r.Year, r.Week, r.Municipality, err)
		}
	}
	return tx.Commit()
}

// ReadCases returns stored case records for a state. year 0 means every
// year; municipality filters by case-insensitive substring.
func (s *Store) ReadCases(state string, year int, municipality string) ([]model.CaseRecord, error) {
	rows, err := s.DB.Query(`SELECT year, week, municipality, cases FROM cases
		WHERE state = ? AND (? = 0 OR year = ?) AND (? = '' OR upper(municipality) LIKE '%' || upper(?) || '%')
		ORDER BY year, municipality, week`, state, year, year, municipality, municipality)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.CaseRecord
	for rows.Next() {
		var r model.CaseRecord
		if err := rows.Scan(&r.Year, &r.Week, &r.Municipality, &r.Cases); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// WritePopulation replaces one state's figures for the years present in records.
func (s *Store) WritePopulation(runID, state string, records []model.PopulationRecord) error {
	tx, err := s.DB.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	years := make(map[int]bool)
	for _, r := range records {
		years[r.Year] = true
	}
	for y := range years {
		if _, err := tx.Exec("DELETE FROM population WHERE state = ? AND year = ?", state, y); err != nil {
			return fmt.Errorf("clearing population %s %d: %w", state, y, err)
		}
	}

	for _, r := range records {
		if _, err := tx.Exec("INSERT INTO population (run_id, state, year, tercodigo, municipality, population) VALUES (?, ?, ?, ?, ?, ?)",
			runID, state, r.Year, r.Code, r.Municipality, r.Population); err != nil {
			return fmt.Errorf("inserting population %s: %w", r.Municipality, err)
		}
	}
	return tx.Commit()
}

// ReadPopulation returns a state's figures; year 0 means every year.
func (s *Store) ReadPopulation(state string, year int) ([]model.PopulationRecord, error) {
	rows, err := s.DB.Query(`SELECT year, tercodigo, municipality, population FROM population
		WHERE state = ? AND (? = 0 OR year = ?) ORDER BY year, municipality`, state, year, year)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.PopulationRecord
	for rows.Next() {
		var (
			r    model.PopulationRecord
			code sql.NullString
		)
		if err := rows.Scan(&r.Year, &code, &r.Municipality, &r.Population); err != nil {
			return nil, err
		}
		r.Code = code.String
		out = append(out, r)
	}
	return out, rows.Err()
}

// WriteIDHM replaces one state's index values.
func (s *Store) WriteIDHM(runID, state string, records []model.IDHMRecord) error {
	tx, err := s.DB.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM idhm WHERE state = ?", state); err != nil {
		return fmt.Errorf("clearing idhm %s: %w", state, err)
	}
	for _, r := range records {
		if _, err := tx.Exec("INSERT INTO idhm (run_id, state, tercodigo, municipality, idhm) VALUES (?, ?, ?, ?, ?)",
			runID, state, r.Code, r.Municipality, r.IDHM); err != nil {
			return fmt.Errorf("inserting idhm %s: %w", r.Code, err)
		}
	}
	return tx.Commit()
}

// ReadIDHM returns a state's index values sorted by municipality.
func (s *Store) ReadIDHM(state string) ([]model.IDHMRecord, error) {
	rows, err := s.DB.Query("SELECT tercodigo, municipality, idhm FROM idhm WHERE state = ? ORDER BY municipality", state)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.IDHMRecord
	for rows.Next() {
		var r model.IDHMRecord
		if err := rows.Scan(&r.Code, &r.Municipality, &r.IDHM); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// WriteWeather replaces one state's daily series.
func (s *Store) WriteWeather(runID, state string, records []model.WeatherRecord) error {
	tx, err := s.DB.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM weather WHERE state = ?", state); err != nil {
		return fmt.Errorf("clearing weather %s: %w", state, err)
	}

	stmt, err := tx.Prepare(`INSERT INTO weather (run_id, state, obs_date, code_muni, city, state_name, tavg, tmin, tmax, prcp, wspd, pres, tsun)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, r := range records {
		if _, err := stmt.Exec(runID, state, r.Date, r.CodeMuni, r.City, r.State,
			r.TAvg, r.TMin, r.TMax, r.Prcp, r.WSpd, r.Pres, r.TSun); err != nil {
			return fmt.Errorf("inserting weather %s %s: %w", r.CodeMuni, r.Date, err)
		}
	}
	return tx.Commit()
}

// CaseCount returns the number of stored case records.
func (s *Store) CaseCount() int {
	return s.count("cases")
}

// PopulationCount returns the number of stored population records.
func (s *Store) PopulationCount() int {
	return s.count("population")
}

// IDHMCount returns the number of stored IDHM records.
func (s *Store) IDHMCount() int {
	return s.count("idhm")
}

// WeatherCount returns the number of stored daily observations.
func (s *Store) WeatherCount() int {
	return s.count("weather")
}

func (s *Store) count(table string) int {
	var n int
	s.DB.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", table)).Scan(&n)
	return n
}

// CountByState returns per-state row counts for one dataset table.
func (s *Store) CountByState(dataset model.Dataset) map[string]int {
	m := make(map[string]int)
	table, ok := datasetTables[dataset]
	if !ok {
		return m
	}
	rows, err := s.DB.Query(fmt.Sprintf("SELECT state, COUNT(*) FROM %s GROUP BY state ORDER BY state", table))
	if err != nil {
		return m
	}
	defer rows.Close()
	for rows.Next() {
		var state string
		var cnt int
		rows.Scan(&state, &cnt)
		m[state] = cnt
	}
	return m
}

var datasetTables = map[model.Dataset]string{
	model.DatasetDengue:     "cases",
	model.DatasetPopulation: "population",
	model.DatasetIDHM:       "idhm",
	model.DatasetWeather:    "weather",
}
