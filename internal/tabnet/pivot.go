package tabnet

import (
	"strings"

	"github.com/OTGSJ/DiseaseOutbreakPredictor/internal/model"
)

// PivotByWeek turns a municipality x week table into one CaseRecord per
// (municipality, week). rows[0] supplies the week labels after its first
// cell. The Total row and the TOTAL column are skipped. A non-empty
// municipality keeps only rows whose label contains it, ignoring case.
func PivotByWeek(year int, rows []model.ReportRow, municipality string) []model.CaseRecord {
	if len(rows) == 0 {
		return nil
	}

	var weeks []string
	if len(rows[0]) > 1 {
		weeks = rows[0][1:]
	}
	filter := strings.ToUpper(strings.TrimSpace(municipality))

	var out []model.CaseRecord
	for _, row := range rows[1:] {
		if len(row) == 0 {
			continue
		}
		name := strings.ToUpper(strings.TrimSpace(row[0]))
		if name == strings.ToUpper(TotalLabel) {
			continue
		}
		if filter != "" && !strings.Contains(name, filter) {
			continue
		}

		for i, v := range row[1:] {
			if i >= len(weeks) {
				break
			}
			week := strings.ToUpper(strings.TrimSpace(weeks[i]))
			if week == strings.ToUpper(TotalLabel) {
				continue
			}
			out = append(out, model.CaseRecord{
				Year:         year,
				Week:         week,
				Municipality: name,
				Cases:        CoercePlaceholderToZero(v),
			})
		}
	}
	return out
}
