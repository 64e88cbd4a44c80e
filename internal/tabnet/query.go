package tabnet

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/OTGSJ/DiseaseOutbreakPredictor/internal/epiweek"
	"github.com/OTGSJ/DiseaseOutbreakPredictor/internal/model"
	"github.com/OTGSJ/DiseaseOutbreakPredictor/internal/states"
)

// FirstYear is the oldest year the dengue definitions cover.
const FirstYear = 2014

const (
	// DefaultIncrement is the measure tabulated in every cell.
	DefaultIncrement = "Casos_Prováveis"
	// AllCategories is TabNet's "no filter" value for a selection field.
	AllCategories = "TODAS_AS_CATEGORIAS__"
	// DetailHeaderLabel is the first cell of the header row in the detail report.
	DetailHeaderLabel = "Semana epidem. notificação"
	// DetailColumns is the cell count of every row in the detail report.
	DetailColumns = 6
)

// ErrInvalidQuery is returned when a QuerySpec fails validation.
var ErrInvalidQuery = errors.New("invalid query")

// detailFilters are the selection fields of the dengue definition, all left
// open. TabNet applies them as "no restriction"; sending them reproduces the
// form a browser would submit.
var detailFilters = []string{
	"SAno_1º_Sintoma(s)",
	"SMês_1º_Sintoma(s)",
	"SSemana_epidem._1º_Sintomas(s)",
	"SAno_notificação",
	"SMês_notificação",
	"SSemana_epidem._notificação",
	"SAno_epidem._notificação",
	"SAno_epidem._1º_Sintomas(s)",
	"SMunicípio_de_notificação",
	"SRegião_de_Saúde_(CIR)_de_notif",
	"SMacrorreg.de_Saúde_de_notific",
	"SDiv.adm.estadual_de_notific",
	"SMicrorregião_IBGE_de_notific",
	"SReg.Metropolit/RIDE_de_notific",
	"SMunicípio_de_residência",
	"SRegião_de_Saúde_(CIR)_de_resid",
	"SMacrorreg.de_Saúde_de_residênc",
	"SDiv.adm.estadual_de_residência",
	"SMicrorregião_IBGE_de_residênc",
	"SReg.Metropolit/RIDE_de_resid",
	"SAutoctone_Mun_Res",
	"SPaís_F._infecção",
	"SUF_F.infecção",
	"SMunicípio_infecção",
	"SCaso_autóctone_munic_resid",
	"SFaixa_Etária",
	"SRaça",
	"SSexo",
	"SClass._Final",
	"SCriterio_conf.",
	"SEvolução",
	"SExame_sorológico_(IgM)_Dengue",
	"SExame_sorologia_Elisa________",
	"SExame_isolamento_viral_______",
	"SExame_de_RT-PCR______________",
	"SSorotipo_____________________",
	"SExame_de_Histopatologia______",
	"SExame_de_Imunohistoquímica___",
	"SOcorreu_hospitalização_______",
}

// SourceFile names the per-state, per-year DBF the report is tabulated from,
// e.g. "dengpe22.dbf".
func SourceFile(state string, year int) string {
	return fmt.Sprintf("deng%s%02d.dbf", strings.ToLower(state), year%100)
}

// CasesByWeek builds the municipality x epidemiological-week query.
func CasesByWeek(state string, year int) model.QuerySpec {
	return model.QuerySpec{
		RowDimension:    "Município_de_notificação",
		ColumnDimension: "Semana_epidem._notificação",
		Increment:       DefaultIncrement,
		SourceFileName:  SourceFile(state, year),
		StateCode:       strings.ToUpper(state),
		Year:            year,
	}
}

// DetailByWeek builds the week-of-first-symptoms x UF-of-infection query with
// every selection field sent explicitly.
func DetailByWeek(state string, year int) model.QuerySpec {
	filters := make(map[string]string, len(detailFilters))
	for _, f := range detailFilters {
		filters[f] = AllCategories
	}
	return model.QuerySpec{
		RowDimension:    "Semana_epidem._1º_Sintomas(s)",
		ColumnDimension: "UF_F.infecção",
		Increment:       DefaultIncrement,
		SourceFileName:  SourceFile(state, year),
		StateCode:       strings.ToUpper(state),
		Year:            year,
		ExtraFilters:    filters,
		Columns:         DetailColumns,
		HeaderLabel:     DetailHeaderLabel,
	}
}

// Validate checks q against the state table and the year window
// [FirstYear, current year]. In the last days of December the current
// epidemiological year is already the next calendar year and is accepted.
func Validate(q model.QuerySpec, tbl *states.Table, now time.Time) error {
	lastYear := now.Year()
	if ey := epiweek.CurrentYear(now); ey > lastYear {
		lastYear = ey
	}

	switch {
	case strings.TrimSpace(q.RowDimension) == "":
		return fmt.Errorf("%w: empty row dimension", ErrInvalidQuery)
	case strings.TrimSpace(q.ColumnDimension) == "":
		return fmt.Errorf("%w: empty column dimension", ErrInvalidQuery)
	case strings.TrimSpace(q.SourceFileName) == "":
		return fmt.Errorf("%w: empty source file", ErrInvalidQuery)
	case !tbl.Contains(q.StateCode):
		return fmt.Errorf("%w: unknown state code %q", ErrInvalidQuery, q.StateCode)
	case q.Year < FirstYear || q.Year > lastYear:
		return fmt.Errorf("%w: year %d outside [%d, %d]", ErrInvalidQuery, q.Year, FirstYear, lastYear)
	case q.Columns < 0:
		return fmt.Errorf("%w: negative column count", ErrInvalidQuery)
	}
	return nil
}
