package tabnet

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/OTGSJ/DiseaseOutbreakPredictor/internal/states"
)

func TestSourceFile(t *testing.T) {
	if got := SourceFile("PE", 2014); got != "dengpe14.dbf" {
		t.Errorf("got %q", got)
	}
	if got := SourceFile("sp", 2023); got != "dengsp23.dbf" {
		t.Errorf("got %q", got)
	}
}

func TestValidate(t *testing.T) {
	tbl := states.New()
	now := time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)

	valid := CasesByWeek("PE", 2022)
	if err := Validate(valid, tbl, now); err != nil {
		t.Fatalf("expected valid query, got %v", err)
	}

	tests := []struct {
		name   string
		mutate func() error
	}{
		{"year before 2014", func() error { return Validate(CasesByWeek("PE", 2013), tbl, now) }},
		{"year after now", func() error { return Validate(CasesByWeek("PE", 2026), tbl, now) }},
		{"unknown state", func() error { return Validate(CasesByWeek("ZZ", 2022), tbl, now) }},
		{"empty row", func() error {
			q := CasesByWeek("PE", 2022)
			q.RowDimension = " "
			return Validate(q, tbl, now)
		}},
		{"empty column", func() error {
			q := CasesByWeek("PE", 2022)
			q.ColumnDimension = ""
			return Validate(q, tbl, now)
		}},
		{"empty source file", func() error {
			q := CasesByWeek("PE", 2022)
			q.SourceFileName = ""
			return Validate(q, tbl, now)
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.mutate(); !errors.Is(err, ErrInvalidQuery) {
				t.Errorf("expected ErrInvalidQuery, got %v", err)
			}
		})
	}
}

func TestDetailByWeek(t *testing.T) {
	q := DetailByWeek("pe", 2014)
	if q.StateCode != "PE" || q.SourceFileName != "dengpe14.dbf" {
		t.Errorf("unexpected query %+v", q)
	}
	if q.Columns != 6 || q.HeaderLabel != DetailHeaderLabel {
		t.Errorf("detail report must expect 6 columns and the header label, got %d %q", q.Columns, q.HeaderLabel)
	}
	if len(q.ExtraFilters) != len(detailFilters) {
		t.Errorf("expected %d filters, got %d", len(detailFilters), len(q.ExtraFilters))
	}
	for name, v := range q.ExtraFilters {
		if v != AllCategories {
			t.Errorf("filter %s = %q", name, v)
		}
	}
}

func TestLatin1Escape(t *testing.T) {
	tests := map[string]string{
		"Município_de_notificação":     "Munic%EDpio_de_notifica%E7%E3o",
		"Casos_Prováveis":              "Casos_Prov%E1veis",
		"Semana_epidem._1º_Sintomas(s)": "Semana_epidem._1%BA_Sintomas%28s%29",
		"SReg.Metropolit/RIDE_de_resid": "SReg.Metropolit%2FRIDE_de_resid",
		"dengpe14.dbf":                  "dengpe14.dbf",
		"a b":                           "a+b",
	}
	for in, want := range tests {
		got, err := Latin1Escape(in)
		if err != nil {
			t.Errorf("Latin1Escape(%q): %v", in, err)
			continue
		}
		if got != want {
			t.Errorf("Latin1Escape(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestLatin1EscapeRejectsUnencodable(t *testing.T) {
	if _, err := Latin1Escape("semana €"); err == nil {
		t.Fatal("expected error for a rune outside ISO-8859-1")
	}
}

func TestEncodeForm(t *testing.T) {
	form, err := EncodeForm(CasesByWeek("PE", 2022))
	if err != nil {
		t.Fatalf("EncodeForm: %v", err)
	}
	want := "Linha=Munic%EDpio_de_notifica%E7%E3o&" +
		"Coluna=Semana_epidem._notifica%E7%E3o&" +
		"Incremento=Casos_Prov%E1veis&" +
		"Arquivos=dengpe22.dbf&" +
		"formato=prn&mostre=Mostra"
	if form != want {
		t.Errorf("form mismatch\n got: %s\nwant: %s", form, want)
	}
}

func TestEncodeFormDetailFiltersSorted(t *testing.T) {
	form, err := EncodeForm(DetailByWeek("PE", 2014))
	if err != nil {
		t.Fatalf("EncodeForm: %v", err)
	}
	if !strings.Contains(form, "SUF_F.infec%E7%E3o=TODAS_AS_CATEGORIAS__") {
		t.Error("expected UF filter in form")
	}
	i := strings.Index(form, "SAno_1%BA_Sintoma%28s%29=")
	j := strings.Index(form, "SSexo=")
	if i < 0 || j < 0 || i > j {
		t.Errorf("expected filters in name order, got positions %d and %d", i, j)
	}
	if !strings.HasSuffix(form, "&formato=prn&mostre=Mostra") {
		t.Error("expected form to end with formato/mostre")
	}
}
