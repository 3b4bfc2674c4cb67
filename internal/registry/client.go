// Package registry talks to the crates.io web API.
package registry

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// DefaultBaseURL is the public crates.io API root
const DefaultBaseURL = "https://crates.io/api/v1"

// ErrNotFound is returned when the registry has no crate by that name
var ErrNotFound = errors.New("crate not found")

// APIError is a non-2xx response from the registry
type APIError struct {
	StatusCode int
	Detail     string
}

func (e *APIError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("registry returned %d", e.StatusCode)
	}
	return fmt.Sprintf("registry returned %d: %s", e.StatusCode, e.Detail)
}

// Options configures an HTTPClient
type Options struct {
	BaseURL   string
	UserAgent string
	// Timeout bounds each call. Zero means no timeout.
	Timeout time.Duration
	// RateLimit is the number of requests per second. Zero disables limiting.
	RateLimit float64
	Burst     int
}

// HTTPClient implements Client over the registry's JSON API
type HTTPClient struct {
	http    *http.Client
	base    string
	agent   string
	timeout time.Duration
	limiter *rate.Limiter
}

// NewHTTPClient creates a client. A nil http.Client uses http.DefaultClient.
func NewHTTPClient(hc *http.Client, opts Options) *HTTPClient {
	if hc == nil {
		hc = http.DefaultClient
	}
	base := strings.TrimRight(opts.BaseURL, "/")
	if base == "" {
		base = DefaultBaseURL
	}

	limiter := rate.NewLimiter(rate.Inf, 0)
	if opts.RateLimit > 0 {
		burst := opts.Burst
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), burst)
	}

	return &HTTPClient{
		http:    hc,
		base:    base,
		agent:   opts.UserAgent,
		timeout: opts.Timeout,
		limiter: limiter,
	}
}

type searchResponse struct {
	Crates []Crate `json:"crates"`
	Meta   struct {
		Total uint64 `json:"total"`
	} `json:"meta"`
}

type crateResponse struct {
	Crate Crate `json:"crate"`
}

type ownersResponse struct {
	Users []Owner `json:"users"`
}

type errorResponse struct {
	Errors []struct {
		Detail string `json:"detail"`
	} `json:"errors"`
}

// Search fetches one page of crates matching q
func (c *HTTPClient) Search(ctx context.Context, q SearchQuery) (SearchPage, error) {
	params := url.Values{}
	params.Set("q", q.Text)
	params.Set("page", strconv.Itoa(max(q.Page, 1)))
	if q.PerPage > 0 {
		params.Set("per_page", strconv.Itoa(q.PerPage))
	}
	params.Set("sort", q.Sort.Key())

	var resp searchResponse
	if err := c.get(ctx, "/crates?"+params.Encode(), &resp); err != nil {
		return SearchPage{}, fmt.Errorf("failed to search %q: %w", q.Text, err)
	}
	return SearchPage{Crates: resp.Crates, Total: resp.Meta.Total}, nil
}

// Crate fetches the full record of one crate together with its owners
func (c *HTTPClient) Crate(ctx context.Context, name string) (Crate, error) {
	var (
		crate  crateResponse
		owners ownersResponse
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return c.get(gctx, "/crates/"+url.PathEscape(name), &crate)
	})
	g.Go(func() error {
		return c.get(gctx, "/crates/"+url.PathEscape(name)+"/owners", &owners)
	})
	if err := g.Wait(); err != nil {
		return Crate{}, fmt.Errorf("failed to fetch crate %s: %w", name, err)
	}

	crate.Crate.Owners = owners.Users
	return crate.Crate, nil
}

// Summary fetches the registry front page lists
func (c *HTTPClient) Summary(ctx context.Context) (Summary, error) {
	var s Summary
	if err := c.get(ctx, "/summary", &s); err != nil {
		return Summary{}, fmt.Errorf("failed to fetch summary: %w", err)
	}
	return s, nil
}

func (c *HTTPClient) get(ctx context.Context, path string, out any) error {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+path, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.agent != "" {
		req.Header.Set("User-Agent", c.agent)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	log.WithFields(log.Fields{
		"path":    path,
		"status":  resp.StatusCode,
		"elapsed": time.Since(start).Round(time.Millisecond),
	}).Debug("registry request")

	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeAPIError(resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func decodeAPIError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}
	body, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return apiErr
	}

	var er errorResponse
	if json.Unmarshal(body, &er) == nil && len(er.Errors) > 0 {
		details := make([]string, 0, len(er.Errors))
		for _, e := range er.Errors {
			details = append(details, e.Detail)
		}
		apiErr.Detail = strings.Join(details, "; ")
	}
	return apiErr
}
