package tabnet

import (
	"testing"

	"github.com/OTGSJ/DiseaseOutbreakPredictor/internal/model"
	"github.com/google/go-cmp/cmp"
)

func TestPivotByWeek(t *testing.T) {
	rows := []model.ReportRow{
		{"Semana epidem. notificação", "W1", "W2"},
		{"Total", "10", "20"},
		{"CityA", "3", "7"},
	}

	got := PivotByWeek(2022, rows, "")
	want := []model.CaseRecord{
		{Year: 2022, Week: "W1", Municipality: "CITYA", Cases: "3"},
		{Year: 2022, Week: "W2", Municipality: "CITYA", Cases: "7"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("PivotByWeek mismatch (-want +got):\n%s", diff)
	}
}

func TestPivotByWeekSkipsTotalColumnAndCoercesPlaceholders(t *testing.T) {
	rows := []model.ReportRow{
		{"Município de notificação", "Semana 01", "Semana 02", "Total"},
		{"260005 Abreu e Lima", "-", "", "0"},
	}

	got := PivotByWeek(2023, rows, "")
	want := []model.CaseRecord{
		{Year: 2023, Week: "SEMANA 01", Municipality: "260005 ABREU E LIMA", Cases: "0"},
		{Year: 2023, Week: "SEMANA 02", Municipality: "260005 ABREU E LIMA", Cases: "0"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("PivotByWeek mismatch (-want +got):\n%s", diff)
	}
}

func TestPivotByWeekFilter(t *testing.T) {
	rows := []model.ReportRow{
		{"Município", "S01"},
		{"261160 RECIFE", "4"},
		{"260790 JABOATAO DOS GUARARAPES", "2"},
		{"Total", "6"},
	}

	got := PivotByWeek(2024, rows, "  recife ")
	if len(got) != 1 {
		t.Fatalf("expected 1 record, got %d: %+v", len(got), got)
	}
	if got[0].Municipality != "261160 RECIFE" || got[0].Cases != "4" {
		t.Errorf("unexpected record %+v", got[0])
	}

	if none := PivotByWeek(2024, rows, "OLINDA"); len(none) != 0 {
		t.Errorf("expected no records for unmatched filter, got %+v", none)
	}
}

func TestPivotByWeekEmpty(t *testing.T) {
	if got := PivotByWeek(2022, nil, ""); got != nil {
		t.Errorf("expected nil, got %+v", got)
	}
	if got := PivotByWeek(2022, []model.ReportRow{{"Município", "S01"}}, ""); len(got) != 0 {
		t.Errorf("expected no records from header-only table, got %+v", got)
	}
}
