package ipea

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/OTGSJ/DiseaseOutbreakPredictor/internal/model"
	"github.com/OTGSJ/DiseaseOutbreakPredictor/internal/textnorm"
)

// IDHMYear is the census year the municipal index was published for.
const IDHMYear = "2010"

// UnknownMunicipality names a code missing from the IBGE list.
const UnknownMunicipality = "Desconhecido"

// Expected range of municipal IDHM values.
const (
	IDHMMin = 0.4
	IDHMMax = 0.9
)

// ErrNoValues means the series had no observations for the requested state.
var ErrNoValues = errors.New("no values")

// NameSource resolves municipality codes to names.
type NameSource interface {
	AllMunicipalities(ctx context.Context) ([]model.Municipality, error)
}

// IDHM returns the 2010 IDHM of every municipality of state, named from the
// IBGE list and sorted by name.
func (c *Client) IDHM(ctx context.Context, names NameSource, state model.State) ([]model.IDHMRecord, error) {
	if err := c.ConfirmSeries(ctx, IDHMSeries); err != nil {
		return nil, err
	}

	values, err := c.Values(ctx, IDHMSeries)
	if err != nil {
		return nil, err
	}

	values = FilterMunicipal(values, IDHMYear, state.Code)
	if len(values) == 0 {
		return nil, fmt.Errorf("%w: %s has no %s municipal IDHM", ErrNoValues, state.Name, IDHMYear)
	}

	munis, err := names.AllMunicipalities(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading municipality names: %w", err)
	}
	return BuildIDHM(values, munis), nil
}

// BuildIDHM joins filtered values to municipality names and sorts by name.
func BuildIDHM(values []Value, munis []model.Municipality) []model.IDHMRecord {
	byCode := make(map[string]string, len(munis))
	for _, m := range munis {
		byCode[m.Code] = textnorm.ASCII(m.Name)
	}

	records := make([]model.IDHMRecord, 0, len(values))
	for _, v := range values {
		name, ok := byCode[v.TerritoryCode]
		if !ok {
			name = UnknownMunicipality
		}
		records = append(records, model.IDHMRecord{
			Code:         v.TerritoryCode,
			Municipality: name,
			IDHM:         *v.Value,
		})
	}
	sort.SliceStable(records, func(i, j int) bool { return records[i].Municipality < records[j].Municipality })
	return records
}

// OutOfRange reports whether any value falls outside [IDHMMin, IDHMMax].
func OutOfRange(records []model.IDHMRecord) bool {
	for _, r := range records {
		if r.IDHM < IDHMMin || r.IDHM > IDHMMax {
			return true
		}
	}
	return false
}
