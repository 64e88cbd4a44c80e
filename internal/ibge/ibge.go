package ibge

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/OTGSJ/DiseaseOutbreakPredictor/internal/model"
	"github.com/OTGSJ/DiseaseOutbreakPredictor/internal/restyutil"
	"github.com/go-resty/resty/v2"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"
)

// Population aggregate and variable of the IBGE resident-population estimates.
const (
	PopulationAggregate = 6579
	PopulationVariable  = 9324
)

// Client talks to the IBGE data service (servicodados.ibge.gov.br/api).
type Client struct {
	http *resty.Client
	log  *slog.Logger
}

func NewClient(baseURL string, timeout time.Duration, log *slog.Logger) *Client {
	if log == nil {
		log = slog.Default()
	}
	return &Client{
		http: restyutil.New(restyutil.Options{BaseURL: baseURL, Timeout: timeout, Logger: log}),
		log:  log,
	}
}

type localidade struct {
	ID   json.Number `json:"id"`
	Nome string      `json:"nome"`
}

// Municipalities lists the municipalities of one state by its two-digit IBGE code.
func (c *Client) Municipalities(ctx context.Context, stateCode string) ([]model.Municipality, error) {
	var out []localidade
	res, err := c.http.R().
		SetContext(ctx).
		SetPathParam("code", stateCode).
		SetResult(&out).
		Get("/v1/localidades/estados/{code}/municipios")
	if err != nil {
		return nil, fmt.Errorf("listing municipalities of %s: %w", stateCode, err)
	}
	if err := restyutil.CheckStatus(res); err != nil {
		return nil, err
	}
	return toMunicipalities(out), nil
}

// AllMunicipalities lists every municipality in the country.
func (c *Client) AllMunicipalities(ctx context.Context) ([]model.Municipality, error) {
	var out []localidade
	res, err := c.http.R().
		SetContext(ctx).
		SetResult(&out).
		Get("/v1/localidades/municipios")
	if err != nil {
		return nil, fmt.Errorf("listing municipalities: %w", err)
	}
	if err := restyutil.CheckStatus(res); err != nil {
		return nil, err
	}
	return toMunicipalities(out), nil
}

func toMunicipalities(in []localidade) []model.Municipality {
	out := make([]model.Municipality, 0, len(in))
	for _, l := range in {
		out = append(out, model.Municipality{Code: l.ID.String(), Name: l.Nome})
	}
	return out
}

type aggregateResponse []struct {
	Resultados []struct {
		Series []struct {
			Localidade localidade        `json:"localidade"`
			Serie      map[string]string `json:"serie"`
		} `json:"series"`
	} `json:"resultados"`
}

// Population returns the municipal population estimates for one year,
// restricted to codes starting with stateCode. Municipality names are
// returned as IBGE sends them minus the " - UF" suffix. A value the service
// reports as missing ("...", "-") becomes 0.
func (c *Client) Population(ctx context.Context, year int, stateCode string) ([]model.PopulationRecord, error) {
	var out aggregateResponse
	res, err := c.http.R().
		SetContext(ctx).
		SetPathParams(map[string]string{
			"aggregate": strconv.Itoa(PopulationAggregate),
			"year":      strconv.Itoa(year),
			"variable":  strconv.Itoa(PopulationVariable),
		}).
		SetQueryParam("localidades", "N6[all]").
		SetResult(&out).
		Get("/v3/agregados/{aggregate}/periodos/{year}/variaveis/{variable}")
	if err != nil {
		return nil, fmt.Errorf("fetching population for %d: %w", year, err)
	}
	if err := restyutil.CheckStatus(res); err != nil {
		return nil, err
	}
	if len(out) == 0 || len(out[0].Resultados) == 0 {
		return nil, fmt.Errorf("empty population result for %d", year)
	}

	key := strconv.Itoa(year)
	var records []model.PopulationRecord
	for _, s := range out[0].Resultados[0].Series {
		code := s.Localidade.ID.String()
		if !strings.HasPrefix(code, stateCode) {
			continue
		}
		name, _, _ := strings.Cut(s.Localidade.Nome, " - ")
		pop, err := strconv.Atoi(s.Serie[key])
		if err != nil {
			c.log.Warn("non-numeric population value", "code", code, "year", year, "value", s.Serie[key])
			pop = 0
		}
		records = append(records, model.PopulationRecord{
			Year:         year,
			Code:         code,
			Municipality: strings.TrimSpace(name),
			Population:   pop,
		})
	}
	return records, nil
}

// Boundary is one municipality outline from the mesh service.
type Boundary struct {
	Code     string
	Geometry geom.T
}

// MunicipalBoundaries fetches the state mesh subdivided by municipality.
func (c *Client) MunicipalBoundaries(ctx context.Context, stateCode string) ([]Boundary, error) {
	res, err := c.http.R().
		SetContext(ctx).
		SetPathParam("code", stateCode).
		SetQueryParams(map[string]string{
			"formato":      "application/vnd.geo+json",
			"intrarregiao": "municipio",
		}).
		Get("/v3/malhas/estados/{code}")
	if err != nil {
		return nil, fmt.Errorf("fetching mesh of %s: %w", stateCode, err)
	}
	if err := restyutil.CheckStatus(res); err != nil {
		return nil, err
	}
	return ParseBoundaries(res.Body())
}

// ParseBoundaries decodes a mesh GeoJSON FeatureCollection. The municipality
// code is read from the "codarea" property.
func ParseBoundaries(body []byte) ([]Boundary, error) {
	var fc geojson.FeatureCollection
	if err := json.Unmarshal(body, &fc); err != nil {
		return nil, fmt.Errorf("decoding mesh: %w", err)
	}

	out := make([]Boundary, 0, len(fc.Features))
	for _, f := range fc.Features {
		code, _ := f.Properties["codarea"].(string)
		if code == "" {
			code = f.ID
		}
		if code == "" || f.Geometry == nil {
			continue
		}
		out = append(out, Boundary{Code: code, Geometry: f.Geometry})
	}
	return out, nil
}
