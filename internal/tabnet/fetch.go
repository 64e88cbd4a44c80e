package tabnet

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/OTGSJ/DiseaseOutbreakPredictor/internal/model"
	"github.com/OTGSJ/DiseaseOutbreakPredictor/internal/states"
	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html/charset"
)

var (
	// ErrFetchFailed covers transport errors and non-2xx responses.
	ErrFetchFailed = errors.New("fetch failed")
	// ErrReportNotFound means the response had no <pre> block. Retrying the
	// same query will not help.
	ErrReportNotFound = errors.New("report not found")
)

// Client issues TabNet report queries.
type Client struct {
	// BaseURL is the tabcgi.exe endpoint.
	BaseURL string
	// DefinitionPath is a format string taking the lower-case state code,
	// e.g. "sinannet/cnv/dengueb%s.def".
	DefinitionPath string
	// Method is "POST" (default) or "GET".
	Method     string
	UserAgent  string
	HTTPClient *http.Client
	States     *states.Table
	Now        func() time.Time
}

// NewClient creates a Client with a per-request timeout. A zero timeout
// leaves requests unbounded.
func NewClient(baseURL, definitionPath, method, userAgent string, timeout time.Duration, tbl *states.Table) *Client {
	return &Client{
		BaseURL:        baseURL,
		DefinitionPath: definitionPath,
		Method:         method,
		UserAgent:      userAgent,
		HTTPClient:     &http.Client{Timeout: timeout},
		States:         tbl,
		Now:            time.Now,
	}
}

// Endpoint returns the definition URL for a state.
func (c *Client) Endpoint(state string) string {
	return c.BaseURL + "?" + fmt.Sprintf(c.DefinitionPath, strings.ToLower(state))
}

// FetchReport validates q, runs it and returns the parsed rows with the
// header first, the Total row second and the remaining rows in the order
// TabNet sent them.
func (c *Client) FetchReport(ctx context.Context, q model.QuerySpec) ([]model.ReportRow, error) {
	text, err := c.FetchText(ctx, q)
	if err != nil {
		return nil, err
	}
	return Parse(text, q.Columns, q.HeaderLabel).Combined(), nil
}

// FetchText validates q, runs it and returns the raw <pre> text.
func (c *Client) FetchText(ctx context.Context, q model.QuerySpec) (string, error) {
	if err := Validate(q, c.States, c.now()); err != nil {
		return "", err
	}

	form, err := EncodeForm(q)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidQuery, err)
	}

	req, err := c.newRequest(ctx, q.StateCode, form)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %s %d: %v", ErrFetchFailed, q.StateCode, q.Year, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("%w: %s %d: status %d", ErrFetchFailed, q.StateCode, q.Year, resp.StatusCode)
	}

	body, err := charset.NewReader(resp.Body, resp.Header.Get("Content-Type"))
	if err != nil {
		return "", fmt.Errorf("%w: decoding response: %v", ErrFetchFailed, err)
	}

	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return "", fmt.Errorf("%w: parsing report HTML: %v", ErrFetchFailed, err)
	}

	text, ok := ExtractReportText(doc)
	if !ok {
		return "", fmt.Errorf("%w: %s %d", ErrReportNotFound, q.StateCode, q.Year)
	}
	return text, nil
}

func (c *Client) newRequest(ctx context.Context, state, form string) (*http.Request, error) {
	endpoint := c.Endpoint(state)

	if strings.EqualFold(c.Method, http.MethodGet) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"&"+form, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("User-Agent", c.UserAgent)
		return req, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", c.UserAgent)
	return req, nil
}

func (c *Client) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return http.DefaultClient
}

func (c *Client) now() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now()
}
