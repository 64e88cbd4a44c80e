package ipea

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/OTGSJ/DiseaseOutbreakPredictor/internal/restyutil"
	"github.com/go-resty/resty/v2"
)

// IDHMSeries is the Ipeadata code of the municipal human development index.
const IDHMSeries = "IDHM"

// MunicipalLevel is the NIVNOME of municipality-level observations.
const MunicipalLevel = "Municípios"

// ErrSeriesNotFound is returned when the metadata does not list a series.
var ErrSeriesNotFound = errors.New("series not found")

// Value is one observation of an Ipeadata series.
type Value struct {
	SeriesCode    string   `json:"SERCODIGO"`
	Date          string   `json:"VALDATA"`
	Value         *float64 `json:"VALVALOR"`
	Level         string   `json:"NIVNOME"`
	TerritoryCode string   `json:"TERCODIGO"`
}

// Year returns the four-digit year prefix of Date.
func (v Value) Year() string {
	if len(v.Date) < 4 {
		return v.Date
	}
	return v.Date[:4]
}

type metadata struct {
	SeriesCode string `json:"SERCODIGO"`
	Name       string `json:"SERNOME"`
}

type odata[T any] struct {
	Value []T `json:"value"`
}

// Client reads the Ipeadata OData v4 API.
type Client struct {
	http *resty.Client
}

func NewClient(baseURL string, timeout time.Duration, log *slog.Logger) *Client {
	return &Client{http: restyutil.New(restyutil.Options{BaseURL: baseURL, Timeout: timeout, Logger: log})}
}

// ConfirmSeries checks the metadata catalogue for code.
func (c *Client) ConfirmSeries(ctx context.Context, code string) error {
	var out odata[metadata]
	res, err := c.http.R().SetContext(ctx).SetResult(&out).Get("/Metadados")
	if err != nil {
		return fmt.Errorf("reading metadata: %w", err)
	}
	if err := restyutil.CheckStatus(res); err != nil {
		return err
	}
	for _, m := range out.Value {
		if m.SeriesCode == code {
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrSeriesNotFound, code)
}

// Values returns every observation of a series.
func (c *Client) Values(ctx context.Context, code string) ([]Value, error) {
	var out odata[Value]
	res, err := c.http.R().
		SetContext(ctx).
		SetResult(&out).
		Get(fmt.Sprintf("/ValoresSerie(SERCODIGO='%s')", code))
	if err != nil {
		return nil, fmt.Errorf("reading values of %s: %w", code, err)
	}
	if err := restyutil.CheckStatus(res); err != nil {
		return nil, err
	}
	return out.Value, nil
}

// FilterMunicipal keeps the observations of year at the municipal level
// whose territory code starts with stateCode. Observations with no value are
// dropped.
func FilterMunicipal(values []Value, year, stateCode string) []Value {
	var out []Value
	for _, v := range values {
		if v.Value == nil || v.Year() != year || v.Level != MunicipalLevel {
			continue
		}
		if !strings.HasPrefix(v.TerritoryCode, stateCode) {
			continue
		}
		out = append(out, v)
	}
	return out
}
