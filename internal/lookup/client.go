// Package lookup is the HTTP client for the trip generation backend: reference
// data, city autocomplete and trip generation.
package lookup

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/goccy/go-json"
	"github.com/sethvargo/go-retry"

	"github.com/pkordes/trip-wizard/internal/domain"
)

// MinCityQuery is the shortest query, in runes, sent to the city endpoint.
const MinCityQuery = 2

// StatusError is returned for any non-2xx response.
type StatusError struct {
	StatusCode int
	Body       []byte
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("upstream returned status %d", e.StatusCode)
}

// Config configures a Client. Zero values select the defaults.
type Config struct {
	BaseURL    string
	Timeout    time.Duration // default 30s
	MaxRetries uint64        // retries of reference GETs, default 2
	RetryBase  time.Duration // first backoff delay, default 200ms
}

// Client talks to the trip generation backend.
type Client struct {
	base       string
	http       *http.Client
	maxRetries uint64
	retryBase  time.Duration
	log        *slog.Logger
}

// New returns a Client for cfg.BaseURL.
func New(cfg Config, log *slog.Logger) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = 2
	}
	if cfg.RetryBase <= 0 {
		cfg.RetryBase = 200 * time.Millisecond
	}
	if log == nil {
		log = slog.Default()
	}
	return &Client{
		base:       strings.TrimRight(cfg.BaseURL, "/"),
		http:       &http.Client{Timeout: cfg.Timeout},
		maxRetries: cfg.MaxRetries,
		retryBase:  cfg.RetryBase,
		log:        log,
	}
}

// Countries fetches GET /countries.
func (c *Client) Countries(ctx context.Context) ([]domain.Country, error) {
	var out []domain.Country
	if err := c.getReference(ctx, "/countries", &out); err != nil {
		return nil, fmt.Errorf("lookup.Client.Countries: %w", err)
	}
	return out, nil
}

// Currencies fetches GET /currencies.
func (c *Client) Currencies(ctx context.Context) ([]domain.Currency, error) {
	var out []domain.Currency
	if err := c.getReference(ctx, "/currencies", &out); err != nil {
		return nil, fmt.Errorf("lookup.Client.Currencies: %w", err)
	}
	return out, nil
}

// Cities fetches GET /autocomplete/cities. Queries shorter than MinCityQuery
// return no suggestions without touching the network. An empty or null body
// is an empty result.
func (c *Client) Cities(ctx context.Context, q string) ([]domain.CitySuggestion, error) {
	q = strings.TrimSpace(q)
	if utf8.RuneCountInString(q) < MinCityQuery {
		return nil, nil
	}
	body, err := c.do(ctx, http.MethodGet, "/autocomplete/cities?q="+url.QueryEscape(q), nil)
	if err != nil {
		return nil, fmt.Errorf("lookup.Client.Cities: %w", err)
	}
	var out []domain.CitySuggestion
	if err := decode(body, &out); err != nil {
		return nil, fmt.Errorf("lookup.Client.Cities: %w", err)
	}
	return out, nil
}

// GenerateTrip posts payload to POST /trips/generate and returns the raw
// response. It is sent exactly once.
func (c *Client) GenerateTrip(ctx context.Context, payload any) (domain.GeneratedTrip, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("lookup.Client.GenerateTrip: marshal: %w", err)
	}
	body, err := c.do(ctx, http.MethodPost, "/trips/generate", b)
	if err != nil {
		return nil, fmt.Errorf("lookup.Client.GenerateTrip: %w", err)
	}
	return domain.GeneratedTrip(body), nil
}

// getReference performs an idempotent GET, retrying network errors and 5xx
// responses with exponential backoff.
func (c *Client) getReference(ctx context.Context, path string, dst any) error {
	b := retry.WithMaxRetries(c.maxRetries, retry.NewExponential(c.retryBase))
	attempt := 0
	return retry.Do(ctx, b, func(ctx context.Context) error {
		attempt++
		body, err := c.do(ctx, http.MethodGet, path, nil)
		if err != nil {
			if transient(err) {
				c.log.Debug("retrying reference request", "path", path, "attempt", attempt, "error", err)
				return retry.RetryableError(err)
			}
			return err
		}
		return decode(body, dst)
	})
}

func (c *Client) do(ctx context.Context, method, path string, payload []byte) ([]byte, error) {
	var rdr io.Reader
	if payload != nil {
		rdr = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, rdr)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s %s: read body: %w", method, path, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: body}
	}
	return body, nil
}

func decode(body []byte, dst any) error {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// transient reports whether err is worth retrying: a 5xx answer or a failure
// that never produced a response. Context cancellation is final.
func transient(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var se *StatusError
	if errors.As(err, &se) {
		return se.StatusCode >= 500
	}
	return true
}
