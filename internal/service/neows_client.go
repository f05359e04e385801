package service

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/jjenkins/neows/internal/dateutil"
	"github.com/jjenkins/neows/internal/metrics"
	"github.com/jjenkins/neows/internal/model"
)

const (
	defaultBaseURL = "https://api.nasa.gov"
	feedPath       = "/neo/rest/v1/feed"
	lookupPath     = "/neo/rest/v1/neo/"
	defaultTimeout = 30 * time.Second
	maxAttempts    = 3
	initialBackoff = 1 * time.Second

	// DemoAPIKey is NASA's shared public key, used when no personal key is
	// configured. It is limited to a handful of requests per hour per IP.
	DemoAPIKey = "DEMO_KEY"
)

// RateLimitError is returned once every attempt was answered with HTTP 429.
type RateLimitError struct {
	Attempts int
}

func (e *RateLimitError) Error() string {
	return "NASA API rate limit exceeded. Set NASA_API_KEY to your personal API key and retry, or wait a minute."
}

// APIError is returned for any other non-success response.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("NASA API error %d: %s", e.StatusCode, e.Body)
}

// ClientOptions configures a NeoWsClient. Zero values select the defaults.
type ClientOptions struct {
	BaseURL       string
	APIKey        string
	Timeout       time.Duration
	CacheTTL      time.Duration
	CacheCapacity int
}

// NeoWsClient handles communication with the NASA Near Earth Object Web Service
type NeoWsClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
	cache   *ResponseCache
	parser  *Parser
	logger  *log.Logger
	sleep   func(ctx context.Context, d time.Duration) error
}

// NewNeoWsClient creates a new NeoWs API client
func NewNeoWsClient(opts ClientOptions) *NeoWsClient {
	if opts.BaseURL == "" {
		opts.BaseURL = defaultBaseURL
	}
	if opts.APIKey == "" {
		opts.APIKey = DemoAPIKey
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}

	return &NeoWsClient{
		baseURL: strings.TrimRight(opts.BaseURL, "/"),
		apiKey:  opts.APIKey,
		client: &http.Client{
			Timeout: opts.Timeout,
		},
		cache:  NewResponseCache(opts.CacheTTL, opts.CacheCapacity),
		parser: NewParser(),
		logger: log.New(os.Stdout, "", log.LstdFlags),
		sleep:  sleepContext,
	}
}

// WithLogger replaces the client's logger
func (c *NeoWsClient) WithLogger(l *log.Logger) *NeoWsClient {
	c.logger = l
	return c
}

// UsingDemoKey reports whether requests are sent with the shared demo key
func (c *NeoWsClient) UsingDemoKey() bool {
	return c.apiKey == DemoAPIKey
}

// Cache exposes the client's response cache
func (c *NeoWsClient) Cache() *ResponseCache {
	return c.cache
}

// FetchWindow retrieves one feed page. NeoWs rejects windows longer than
// seven days; use FetchRange for arbitrary ranges.
func (c *NeoWsClient) FetchWindow(ctx context.Context, w model.Window) (*model.Feed, error) {
	q := url.Values{}
	q.Set("start_date", dateutil.FormatISODate(w.Start))
	q.Set("end_date", dateutil.FormatISODate(w.End))
	q.Set("api_key", c.apiKey)
	reqURL := c.baseURL + feedPath + "?" + q.Encode()

	body, err := c.get(ctx, "feed", reqURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch feed %s: %w", w, err)
	}

	return c.parser.ParseFeed(body)
}

// FetchDetails retrieves a single object, including its orbital data
func (c *NeoWsClient) FetchDetails(ctx context.Context, id string) (*model.NeoDetail, error) {
	q := url.Values{}
	q.Set("api_key", c.apiKey)
	reqURL := c.baseURL + lookupPath + url.PathEscape(id) + "?" + q.Encode()

	body, err := c.get(ctx, "lookup", reqURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch object %s: %w", id, err)
	}

	return c.parser.ParseDetail(body)
}

// get serves reqURL from the cache or performs the request with retry
func (c *NeoWsClient) get(ctx context.Context, endpoint, reqURL string) ([]byte, error) {
	if body, ok := c.cache.Get(reqURL); ok {
		return body, nil
	}

	body, err := c.fetchWithRetry(ctx, endpoint, reqURL)
	if err != nil {
		return nil, err
	}

	c.cache.Set(reqURL, body)
	return body, nil
}

// fetchWithRetry performs an HTTP GET, backing off exponentially while the
// API answers 429. Every other failure is returned immediately.
func (c *NeoWsClient) fetchWithRetry(ctx context.Context, endpoint, reqURL string) ([]byte, error) {
	backoff := initialBackoff

	for attempt := 1; ; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}

		resp, err := c.client.Do(req)
		if err != nil {
			metrics.RecordUpstream(endpoint, 0)
			return nil, fmt.Errorf("failed to reach NASA API: %w", err)
		}

		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		metrics.RecordUpstream(endpoint, resp.StatusCode)

		if resp.StatusCode == http.StatusTooManyRequests {
			if attempt >= maxAttempts {
				return nil, &RateLimitError{Attempts: attempt}
			}
			c.logger.Printf("NASA API rate limited %s request, retrying in %s (attempt %d/%d)",
				endpoint, backoff, attempt, maxAttempts)
			metrics.RecordRetry()
			if err := c.sleep(ctx, backoff); err != nil {
				return nil, err
			}
			backoff *= 2
			continue
		}

		if err != nil {
			return nil, fmt.Errorf("failed to read response body: %w", err)
		}

		if resp.StatusCode != http.StatusOK {
			return nil, &APIError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
		}

		return body, nil
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
