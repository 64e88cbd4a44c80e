package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/OTGSJ/DiseaseOutbreakPredictor/internal/model"
	"github.com/OTGSJ/DiseaseOutbreakPredictor/internal/textnorm"
)

// bom is the UTF-8 byte-order mark spreadsheet tools use to detect encoding.
const bom = "\ufeff"

// Format controls how a table is written.
type Format struct {
	Delimiter rune
	BOM       bool
}

var (
	Semicolon    = Format{Delimiter: ';'}
	Comma        = Format{Delimiter: ','}
	CommaWithBOM = Format{Delimiter: ',', BOM: true}
)

// Write renders header (omitted when nil) and rows to w.
func Write(w io.Writer, f Format, header []string, rows [][]string) error {
	if f.BOM {
		if _, err := io.WriteString(w, bom); err != nil {
			return err
		}
	}
	cw := csv.NewWriter(w)
	if f.Delimiter != 0 {
		cw.Comma = f.Delimiter
	}
	if header != nil {
		if err := cw.Write(header); err != nil {
			return err
		}
	}
	if err := cw.WriteAll(rows); err != nil {
		return err
	}
	return cw.Error()
}

// WriteFile creates path (and its directory) and writes the table to it.
func WriteFile(path string, f Format, header []string, rows [][]string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
	}
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := Write(out, f, header, rows); err != nil {
		out.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return out.Close()
}

var (
	CaseHeader       = []string{"Ano", "Semana", "Municipio", "Casos"}
	PopulationHeader = []string{"TERCODIGO", "Municipio", "Populacao"}
	IDHMHeader       = []string{"Municipio", "IDHM_2010"}
	WeatherHeader    = []string{"date", "tavg", "tmin", "tmax", "prcp", "wspd", "pres", "tsun", "city", "code_muni", "state"}
)

// CaseRows flattens dengue records in Ano;Semana;Municipio;Casos order.
func CaseRows(records []model.CaseRecord) [][]string {
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, []string{strconv.Itoa(r.Year), r.Week, r.Municipality, r.Cases})
	}
	return rows
}

// ReportRows converts parsed report rows to plain string slices.
func ReportRows(records []model.ReportRow) [][]string {
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, []string(r))
	}
	return rows
}

func PopulationRows(records []model.PopulationRecord) [][]string {
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, []string{r.Code, r.Municipality, strconv.Itoa(r.Population)})
	}
	return rows
}

func IDHMRows(records []model.IDHMRecord) [][]string {
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, []string{r.Municipality, strconv.FormatFloat(r.IDHM, 'f', -1, 64)})
	}
	return rows
}

func WeatherRows(records []model.WeatherRecord) [][]string {
	num := func(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, []string{
			r.Date, num(r.TAvg), num(r.TMin), num(r.TMax), num(r.Prcp),
			num(r.WSpd), num(r.Pres), num(r.TSun), r.City, r.CodeMuni, r.State,
		})
	}
	return rows
}

// DengueFileName is dengue_<UF>[_<MUNI>]_<first>-<last>.csv.
func DengueFileName(state, municipality string, first, last int) string {
	name := "dengue_" + strings.ToUpper(state)
	if m := strings.TrimSpace(municipality); m != "" {
		name += "_" + strings.ToUpper(textnorm.Slug(m))
	}
	return fmt.Sprintf("%s_%d-%d.csv", name, first, last)
}

// ReportFileName names a single-year detail or raw report.
func ReportFileName(state string, year int, raw bool) string {
	if raw {
		return fmt.Sprintf("tabnet_raw_%s_%d.csv", strings.ToUpper(state), year)
	}
	return fmt.Sprintf("dengue_detalhado_%s_%d.csv", strings.ToUpper(state), year)
}

// PopulationDir is populacao_<State>_<YYYYmmdd_HHMM>.
func PopulationDir(stateName string, now time.Time) string {
	return fmt.Sprintf("populacao_%s_%s", textnorm.Slug(stateName), now.Format("20060102_1504"))
}

func PopulationFileName(stateName string, year int) string {
	return fmt.Sprintf("populacao_%s_%d.csv", textnorm.Slug(stateName), year)
}

func IDHMFileName(stateName string) string {
	return textnorm.Slug(stateName) + "_idhm_2010.csv"
}

func WeatherFileName(state string) string {
	return strings.ToUpper(state) + "_weather_data_2021_to_now.csv"
}
