package search

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/jonwraymond/wikiredirect/observe"
	"github.com/jonwraymond/wikiredirect/resilience"
	"github.com/jonwraymond/wikiredirect/wiki"
)

// searchEndpoint is the content search endpoint under /wiki/rest/api.
const searchEndpoint = "content/search"

// maxResponseBytes bounds how much of a search response is read.
const maxResponseBytes = 4 << 20

// Config configures a Client.
type Config struct {
	// Site is the wiki the API lives on. Required.
	Site *wiki.Site

	// Filter pins results to a space and content type. Filter.Space is required.
	Filter Filter

	// Auth attaches credentials. Nil means NetrcAuth with the default path.
	Auth Authenticator

	// HTTPClient is shared across calls so connections are pooled.
	// Default: a client with a pooled transport, no overall timeout, and
	// redirects left unfollowed so a 3xx surfaces as *UpstreamError.
	HTTPClient *http.Client

	// Bulkhead bounds concurrent upstream requests. Nil means unbounded.
	Bulkhead *resilience.Bulkhead

	// Logger receives debug output. Nil discards.
	Logger observe.Logger
}

// Client searches wiki content by title.
//
// A Client is long-lived and safe for concurrent use.
type Client struct {
	site     *wiki.Site
	filter   Filter
	auth     Authenticator
	http     *http.Client
	bulkhead *resilience.Bulkhead
	logger   observe.Logger
}

// NewClient creates a Client.
func NewClient(cfg Config) (*Client, error) {
	if cfg.Site == nil {
		return nil, ErrNilSite
	}
	if cfg.Filter.Space == "" {
		return nil, ErrMissingSpace
	}
	if cfg.Auth == nil {
		cfg.Auth = NetrcAuth{}
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = defaultHTTPClient()
	}
	if cfg.Logger == nil {
		cfg.Logger = observe.NopLogger()
	}
	return &Client{
		site:     cfg.Site,
		filter:   cfg.Filter,
		auth:     cfg.Auth,
		http:     cfg.HTTPClient,
		bulkhead: cfg.Bulkhead,
		logger:   cfg.Logger,
	}, nil
}

func defaultHTTPClient() *http.Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.MaxIdleConnsPerHost = 16
	transport.IdleConnTimeout = 90 * time.Second
	return &http.Client{
		Transport: transport,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

type searchResponse struct {
	Results []wiki.Page `json:"results"`
}

// Search returns at most one page matching title. An empty slice means no
// match. Exactly one request is sent per call; a non-2xx answer is returned
// as *UpstreamError.
func (c *Client) Search(ctx context.Context, title string) ([]wiki.Page, error) {
	var pages []wiki.Page
	op := func(ctx context.Context) error {
		var err error
		pages, err = c.search(ctx, title)
		return err
	}

	if c.bulkhead == nil {
		return pages, op(ctx)
	}
	if err := c.bulkhead.Execute(ctx, op); err != nil {
		if errors.Is(err, resilience.ErrBulkheadFull) {
			return nil, fmt.Errorf("%w: %w", ErrUpstream, err)
		}
		return nil, err
	}
	return pages, nil
}

func (c *Client) search(ctx context.Context, title string) ([]wiki.Page, error) {
	cql := c.filter.CQL(title)
	c.logger.Debug(ctx, "search query", observe.F("cql", cql))

	params := url.Values{}
	params.Set("cql", cql)
	params.Set("limit", "1")
	endpoint := c.site.APIURL(searchEndpoint) + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("search: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if err := c.auth.Authenticate(req); err != nil {
		c.logger.Warn(ctx, "credentials unavailable; sending unauthenticated request", observe.F("error", err.Error()))
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBytes))
		return nil, &UpstreamError{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			URL:        c.site.APIURL(searchEndpoint),
		}
	}

	var body searchResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&body); err != nil {
		return nil, fmt.Errorf("%w: decode response: %w", ErrUpstream, err)
	}
	if len(body.Results) > 1 {
		body.Results = body.Results[:1]
	}
	return body.Results, nil
}
