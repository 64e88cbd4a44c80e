package meteostat

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/OTGSJ/DiseaseOutbreakPredictor/internal/restyutil"
	"github.com/go-resty/resty/v2"
)

const dateLayout = "2006-01-02"

// ErrNoAPIKey is returned when a request is attempted without a key.
var ErrNoAPIKey = errors.New("meteostat api key not configured")

// Day is one daily observation. Missing measurements are nil.
type Day struct {
	Date string   `json:"date"`
	TAvg *float64 `json:"tavg"`
	TMin *float64 `json:"tmin"`
	TMax *float64 `json:"tmax"`
	Prcp *float64 `json:"prcp"`
	WSpd *float64 `json:"wspd"`
	Pres *float64 `json:"pres"`
	TSun *float64 `json:"tsun"`
}

type dailyResponse struct {
	Data []Day `json:"data"`
}

// Client queries the Meteostat point API through RapidAPI.
type Client struct {
	http   *resty.Client
	apiKey string
	pacer  *Pacer
}

// NewClient creates a client. rps paces requests; zero disables pacing.
func NewClient(baseURL, apiKey string, rps float64, timeout time.Duration, log *slog.Logger) *Client {
	return &Client{
		http:   restyutil.New(restyutil.Options{BaseURL: baseURL, Timeout: timeout, Logger: log}),
		apiKey: apiKey,
		pacer:  NewPacer(rps),
	}
}

// Daily returns the daily series interpolated at (lat, lon) for [start, end].
func (c *Client) Daily(ctx context.Context, lat, lon float64, start, end time.Time) ([]Day, error) {
	if c.apiKey == "" {
		return nil, ErrNoAPIKey
	}
	if err := c.pacer.Wait(ctx); err != nil {
		return nil, err
	}

	var out dailyResponse
	res, err := c.http.R().
		SetContext(ctx).
		SetHeader("x-rapidapi-key", c.apiKey).
		SetQueryParams(map[string]string{
			"lat":   strconv.FormatFloat(lat, 'f', 4, 64),
			"lon":   strconv.FormatFloat(lon, 'f', 4, 64),
			"start": start.Format(dateLayout),
			"end":   end.Format(dateLayout),
		}).
		SetResult(&out).
		Get("/point/daily")
	if err != nil {
		return nil, fmt.Errorf("fetching daily series at %.4f,%.4f: %w", lat, lon, err)
	}
	if err := restyutil.CheckStatus(res); err != nil {
		return nil, err
	}
	return out.Data, nil
}

// OrZero dereferences a measurement, treating a missing one as 0.
func OrZero(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
