package restyutil

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/go-resty/resty/v2"
)

// Options configures a client created by New.
type Options struct {
	BaseURL   string
	UserAgent string
	Timeout   time.Duration
	Logger    *slog.Logger
}

// New returns a resty client with the base URL, user agent and timeout
// applied and the request/response hooks from Instrument installed.
func New(opts Options) *resty.Client {
	client := resty.New()
	if opts.BaseURL != "" {
		client.SetBaseURL(opts.BaseURL)
	}
	if opts.UserAgent != "" {
		client.SetHeader("user-agent", opts.UserAgent)
	}
	if opts.Timeout > 0 {
		client.SetTimeout(opts.Timeout)
	}
	Instrument(client, opts.Logger)
	return client
}

// Instrument logs every request at debug level and every failed request at
// error level. A nil logger uses slog.Default().
func Instrument(client *resty.Client, log *slog.Logger) {
	if log == nil {
		log = slog.Default()
	}

	client.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
		log.DebugContext(req.Context(), "start request", "method", req.Method, "url", req.URL)
		return nil
	})
	client.OnAfterResponse(func(_ *resty.Client, res *resty.Response) error {
		log.DebugContext(res.Request.Context(), "request finished",
			"method", res.Request.Method,
			"url", res.Request.URL,
			"status", res.StatusCode(),
			"elapsed", res.Time(),
		)
		return nil
	})
	client.OnError(func(req *resty.Request, err error) {
		log.ErrorContext(req.Context(), "request failed", "method", req.Method, "url", req.URL, "err", err)
	})
}

// CheckStatus turns a non-2xx response into an error carrying the status
// and a prefix of the body.
func CheckStatus(res *resty.Response) error {
	if res.IsSuccess() {
		return nil
	}
	body := res.String()
	if len(body) > 200 {
		body = body[:200]
	}
	return fmt.Errorf("%s %s: status %d: %s", res.Request.Method, res.Request.URL, res.StatusCode(), body)
}
