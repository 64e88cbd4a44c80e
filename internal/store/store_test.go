package store

import (
	"testing"

	"github.com/OTGSJ/DiseaseOutbreakPredictor/internal/model"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("creating store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestRunLifecycle(t *testing.T) {
	s := testStore(t)

	run, err := s.StartRun(model.DatasetDengue, "PE")
	if err != nil {
		t.Fatalf("starting run: %v", err)
	}
	if run.ID == "" {
		t.Fatal("expected a run id")
	}
	if err := s.FinishRun(run, 42); err != nil {
		t.Fatalf("finishing run: %v", err)
	}

	runs, err := s.ListRuns(10)
	if err != nil {
		t.Fatalf("listing runs: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("expected 1 run, got %d", len(runs))
	}
	if runs[0].ID != run.ID || runs[0].Records != 42 || runs[0].Dataset != model.DatasetDengue {
		t.Errorf("unexpected run %+v", runs[0])
	}
	if runs[0].FinishedAt.IsZero() {
		t.Error("expected finished_at to be set")
	}
}

func TestCasesRoundTrip(t *testing.T) {
	s := testStore(t)

	data := &model.CaseDataset{
		State: "PE",
		Records: []model.CaseRecord{
			{Year: 2022, Week: "SEMANA 01", Municipality: "261160 RECIFE", Cases: "12"},
			{Year: 2022, Week: "SEMANA 02", Municipality: "261160 RECIFE", Cases: "0"},
			{Year: 2022, Week: "SEMANA 01", Municipality: "260960 OLINDA", Cases: "3"},
			{Year: 2023, Week: "SEMANA 01", Municipality: "261160 RECIFE", Cases: "7"},
		},
	}
	if err := s.WriteCases("run-1", data); err != nil {
		t.Fatalf("writing cases: %v", err)
	}

	all, err := s.ReadCases("PE", 0, "")
	if err != nil {
		t.Fatalf("reading cases: %v", err)
	}
	if len(all) != 4 {
		t.Fatalf("expected 4 records, got %d", len(all))
	}

	recife, err := s.ReadCases("PE", 2022, "recife")
	if err != nil {
		t.Fatalf("reading cases: %v", err)
	}
	if len(recife) != 2 {
		t.Fatalf("expected 2 Recife records in 2022, got %+v", recife)
	}

	// Rewriting a year replaces it and leaves other years alone.
	again := &model.CaseDataset{
		State:   "PE",
		Records: []model.CaseRecord{{Year: 2022, Week: "SEMANA 01", Municipality: "261160 RECIFE", Cases: "13"}},
	}
	if err := s.WriteCases("run-2", again); err != nil {
		t.Fatalf("rewriting cases: %v", err)
	}
	if n := s.CaseCount(); n != 2 {
		t.Errorf("expected 2 records after rewrite, got %d", n)
	}
	if got := s.CountByState(model.DatasetDengue)["PE"]; got != 2 {
		t.Errorf("expected PE count 2, got %d", got)
	}
}

func TestPopulationRoundTrip(t *testing.T) {
	s := testStore(t)

	records := []model.PopulationRecord{
		{Year: 2021, Code: "2611606", Municipality: "Recife", Population: 1661017},
		{Year: 2022, Code: "", Municipality: "Atlantida", Population: 10},
	}
	if err := s.WritePopulation("run-1", "PE", records); err != nil {
		t.Fatalf("writing population: %v", err)
	}

	got, err := s.ReadPopulation("PE", 2021)
	if err != nil {
		t.Fatalf("reading population: %v", err)
	}
	if len(got) != 1 || got[0] != records[0] {
		t.Errorf("unexpected population %+v", got)
	}
	if n := s.PopulationCount(); n != 2 {
		t.Errorf("expected 2 rows, got %d", n)
	}
}

func TestIDHMRoundTrip(t *testing.T) {
	s := testStore(t)

	records := []model.IDHMRecord{
		{Code: "2611606", Municipality: "Recife", IDHM: 0.772},
		{Code: "2609600", Municipality: "Olinda", IDHM: 0.735},
	}
	if err := s.WriteIDHM("run-1", "PE", records); err != nil {
		t.Fatalf("writing idhm: %v", err)
	}

	got, err := s.ReadIDHM("PE")
	if err != nil {
		t.Fatalf("reading idhm: %v", err)
	}
	if len(got) != 2 || got[0].Municipality != "Olinda" {
		t.Errorf("expected records sorted by municipality, got %+v", got)
	}
}

func TestWeatherWrite(t *testing.T) {
	s := testStore(t)

	records := []model.WeatherRecord{
		{Date: "2021-01-01", CodeMuni: "2611606", City: "Recife", State: "Pernambuco", TAvg: 27.1},
		{Date: "2021-01-02", CodeMuni: "2611606", City: "Recife", State: "Pernambuco"},
	}
	if err := s.WriteWeather("run-1", "PE", records); err != nil {
		t.Fatalf("writing weather: %v", err)
	}
	if err := s.WriteWeather("run-2", "PE", records[:1]); err != nil {
		t.Fatalf("rewriting weather: %v", err)
	}
	if n := s.WeatherCount(); n != 1 {
		t.Errorf("expected 1 row after rewrite, got %d", n)
	}
}
