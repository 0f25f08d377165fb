// Bani AI - Scripture Content and Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/baniai

package banidb

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/tomtom215/baniai/internal/metrics"
)

// DefaultBaseURL is the public BaniDB v2 endpoint.
const DefaultBaseURL = "https://api.banidb.com/v2"

// maxErrorBodySize caps how much of a failed response body is kept for diagnostics.
const maxErrorBodySize = 64 * 1024

// ErrNotFound is returned when BaniDB answers 404 or an empty document.
var ErrNotFound = errors.New("banidb: not found")

// StatusError is returned for non-200 responses.
type StatusError struct {
	Op         string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("banidb %s: status %d: %s", e.Op, e.StatusCode, e.Body)
}

// Is maps 404 responses to ErrNotFound.
func (e *StatusError) Is(target error) bool {
	return target == ErrNotFound && e.StatusCode == http.StatusNotFound
}

// API is the set of BaniDB operations used by the service.
// Client, CircuitBreakerClient and CachedClient implement it.
type API interface {
	Shabad(ctx context.Context, id int) (*Shabad, error)
	Ang(ctx context.Context, ang int, source string) (*Ang, error)
	Random(ctx context.Context, source string) (*Shabad, error)
	Search(ctx context.Context, query string, searchType SearchType) (*SearchResult, error)
	Metadata(ctx context.Context, kind MetadataKind) (Metadata, error)
}

// Config configures a Client.
type Config struct {
	BaseURL        string
	Timeout        time.Duration
	RateLimit      float64 // requests per second, 0 disables limiting
	Burst          int
	MaxRetries     int
	RetryBaseDelay time.Duration
	UserAgent      string
}

// DefaultConfig returns the client defaults.
func DefaultConfig() Config {
	return Config{
		BaseURL:        DefaultBaseURL,
		Timeout:        15 * time.Second,
		RateLimit:      10,
		Burst:          20,
		MaxRetries:     3,
		RetryBaseDelay: time.Second,
		UserAgent:      "baniai/1.0",
	}
}

// Client talks to the BaniDB REST API.
type Client struct {
	baseURL        string
	httpClient     *http.Client
	limiter        *rate.Limiter
	maxRetries     int
	retryBaseDelay time.Duration
	userAgent      string
	logger         zerolog.Logger
}

var _ API = (*Client)(nil)

// NewClient creates a BaniDB client. Zero values in cfg fall back to DefaultConfig.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewClient(cfg Config, logger zerolog.Logger) *Client {
	def := DefaultConfig()
	if cfg.BaseURL == "" {
		cfg.BaseURL = def.BaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = def.Timeout
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if cfg.RetryBaseDelay <= 0 {
		cfg.RetryBaseDelay = def.RetryBaseDelay
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = def.UserAgent
	}

	var limiter *rate.Limiter
	if cfg.RateLimit > 0 {
		burst := cfg.Burst
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), burst)
	}

	return &Client{
		baseURL:        strings.TrimRight(cfg.BaseURL, "/"),
		httpClient:     &http.Client{Timeout: cfg.Timeout},
		limiter:        limiter,
		maxRetries:     cfg.MaxRetries,
		retryBaseDelay: cfg.RetryBaseDelay,
		userAgent:      cfg.UserAgent,
		logger:         logger.With().Str("component", "banidb").Logger(),
	}
}

// Shabad fetches a shabad by ID.
func (c *Client) Shabad(ctx context.Context, id int) (*Shabad, error) {
	var out Shabad
	if err := c.get(ctx, "shabad", "/shabads/"+strconv.Itoa(id), nil, &out); err != nil {
		return nil, err
	}
	if out.ShabadInfo.ShabadID == 0 && len(out.Verses) == 0 {
		return nil, fmt.Errorf("shabad %d: %w", id, ErrNotFound)
	}
	return &out, nil
}

// Ang fetches all lines of a page of the given source.
func (c *Client) Ang(ctx context.Context, ang int, source string) (*Ang, error) {
	var out Ang
	path := "/angs/" + strconv.Itoa(ang) + "/" + url.PathEscape(source)
	if err := c.get(ctx, "ang", path, nil, &out); err != nil {
		return nil, err
	}
	if len(out.AllVerses()) == 0 {
		return nil, fmt.Errorf("ang %d/%s: %w", ang, source, ErrNotFound)
	}
	return &out, nil
}

// Random fetches a random shabad from the given source.
func (c *Client) Random(ctx context.Context, source string) (*Shabad, error) {
	var out Shabad
	if err := c.get(ctx, "random", "/random/"+url.PathEscape(source), nil, &out); err != nil {
		return nil, err
	}
	if out.ShabadInfo.ShabadID == 0 {
		return nil, fmt.Errorf("random %s: %w", source, ErrNotFound)
	}
	return &out, nil
}

// Search runs a BaniDB search.
func (c *Client) Search(ctx context.Context, query string, searchType SearchType) (*SearchResult, error) {
	params := url.Values{}
	params.Set("searchtype", strconv.Itoa(int(searchType)))

	var out SearchResult
	if err := c.get(ctx, "search", "/search/"+url.PathEscape(query), params, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Metadata fetches a raw metadata listing.
func (c *Client) Metadata(ctx context.Context, kind MetadataKind) (Metadata, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("banidb: unknown metadata kind %q", kind)
	}
	var out json.RawMessage
	if err := c.get(ctx, string(kind), "/"+string(kind), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// get performs a GET and decodes a 200 response into result.
func (c *Client) get(ctx context.Context, endpoint, path string, params url.Values, result interface{}) error {
	reqURL := c.baseURL + path
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	start := time.Now()
	resp, err := c.doRequestWithRateLimit(ctx, endpoint, reqURL)
	if err != nil {
		metrics.RecordUpstreamRequest(endpoint, 0, time.Since(start))
		return fmt.Errorf("banidb %s request: %w", endpoint, err)
	}
	defer resp.Body.Close()
	metrics.RecordUpstreamRequest(endpoint, resp.StatusCode, time.Since(start))

	if resp.StatusCode != http.StatusOK {
		return &StatusError{Op: endpoint, StatusCode: resp.StatusCode, Body: string(readBodyForError(resp.Body))}
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("decode banidb %s response: %w", endpoint, err)
	}
	return nil
}

// doRequestWithRateLimit waits on the local limiter, then retries HTTP 429
// responses with exponential backoff, honouring Retry-After when present.
func (c *Client) doRequestWithRateLimit(ctx context.Context, endpoint, reqURL string) (*http.Response, error) {
	for attempt := 0; ; attempt++ {
		if c.limiter != nil {
			if err := c.limiter.Wait(ctx); err != nil {
				return nil, err
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
		if err != nil {
			return nil, fmt.Errorf("create request: %w", err)
		}
		req.Header.Set("Accept", "application/json")
		req.Header.Set("User-Agent", c.userAgent)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode != http.StatusTooManyRequests {
			return resp, nil
		}

		_ = resp.Body.Close()
		metrics.UpstreamRateLimited.WithLabelValues(endpoint).Inc()

		if attempt >= c.maxRetries {
			return nil, fmt.Errorf("rate limit exceeded after %d retries (HTTP 429)", c.maxRetries)
		}

		delay := c.retryBaseDelay * time.Duration(1<<uint(attempt))
		if retryAfter := resp.Header.Get("Retry-After"); retryAfter != "" {
			if seconds, err := strconv.Atoi(retryAfter); err == nil && seconds >= 0 {
				delay = time.Duration(seconds) * time.Second
			}
		}

		c.logger.Debug().
			Str("endpoint", endpoint).
			Int("attempt", attempt+1).
			Dur("delay", delay).
			Msg("rate limited by BaniDB, backing off")

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

// readBodyForError reads at most maxErrorBodySize bytes of body.
func readBodyForError(r io.Reader) []byte {
	body, err := io.ReadAll(io.LimitReader(r, maxErrorBodySize))
	if err != nil {
		return []byte("(failed to read response body)")
	}
	if len(body) == maxErrorBodySize {
		return append(body, []byte("\n... (truncated)")...)
	}
	return body
}
