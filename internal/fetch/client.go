package fetch

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"golang.org/x/net/html"
)

// Default client settings.
const (
	DefaultTimeout   = 30 * time.Second
	DefaultUserAgent = "nflstats/1.0"
)

// Outcomes reported to an Observer.
const (
	OutcomeOK     = "ok"
	OutcomeStatus = "status"
	OutcomeError  = "error"
)

// Observer is notified after every fetch. The metrics package implements it.
type Observer interface {
	ObserveFetch(outcome string, elapsed time.Duration)
}

// Fetcher is the interface the crawler and extractor depend on.
// *Client implements it; tests may substitute their own.
type Fetcher interface {
	Fetch(ctx context.Context, rawURL string) (*Page, error)
}

// Page is a successfully fetched and parsed HTML page.
type Page struct {
	// URL is the requested URL.
	URL string

	// FinalURL is the URL after redirects. Relative links on the page
	// resolve against it.
	FinalURL *url.URL

	// StatusCode is the HTTP status code (2xx).
	StatusCode int

	// Doc is the parsed document.
	Doc *goquery.Document
}

// Resolve resolves href against the page's final URL.
func (p *Page) Resolve(href string) (string, error) {
	ref, err := url.Parse(href)
	if err != nil {
		return "", fmt.Errorf("invalid href %q: %w", href, err)
	}
	return p.FinalURL.ResolveReference(ref).String(), nil
}

// Client fetches pages over HTTP using a shared resty client.
type Client struct {
	// http is the underlying resty client. Its timeout bounds each fetch.
	http *resty.Client

	// observer receives fetch outcomes; may be nil.
	observer Observer

	// logger for structured logging.
	logger *slog.Logger
}

// Option configures a Client.
type Option func(*clientSettings)

type clientSettings struct {
	timeout   time.Duration
	userAgent string
	observer  Observer
	logger    *slog.Logger
}

// WithTimeout sets the timeout of each fetch.
func WithTimeout(d time.Duration) Option {
	return func(s *clientSettings) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(s *clientSettings) {
		if ua != "" {
			s.userAgent = ua
		}
	}
}

// WithObserver sets the fetch observer.
func WithObserver(o Observer) Option {
	return func(s *clientSettings) {
		s.observer = o
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *clientSettings) {
		s.logger = logger
	}
}

// NewClient creates a Client. Redirects are followed; retries are disabled.
func NewClient(opts ...Option) *Client {
	s := &clientSettings{
		timeout:   DefaultTimeout,
		userAgent: DefaultUserAgent,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}

	rc := resty.New().
		SetTimeout(s.timeout).
		SetRetryCount(0).
		SetHeader("User-Agent", s.userAgent).
		SetHeader("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.8").
		SetHeader("Accept-Language", "en-US,en;q=0.5")

	return &Client{
		http:     rc,
		observer: s.observer,
		logger:   s.logger,
	}
}

// Fetch performs a GET request for rawURL and parses the response body.
// A non-2xx response returns a *StatusError.
func (c *Client) Fetch(ctx context.Context, rawURL string) (*Page, error) {
	if rawURL == "" {
		return nil, ErrEmptyURL
	}

	start := time.Now()
	c.logger.DebugContext(ctx, "fetching page", "url", rawURL)

	res, err := c.http.R().
		SetContext(ctx).
		Get(rawURL)
	if err != nil {
		c.observe(OutcomeError, start)
		return nil, fmt.Errorf("fetch %s: %w", rawURL, err)
	}

	if !res.IsSuccess() {
		c.observe(OutcomeStatus, start)
		return nil, &StatusError{
			URL:        rawURL,
			StatusCode: res.StatusCode(),
			Status:     res.Status(),
		}
	}

	finalURL, err := url.Parse(rawURL)
	if err != nil {
		c.observe(OutcomeError, start)
		return nil, fmt.Errorf("fetch %s: %w", rawURL, err)
	}
	if res.RawResponse != nil && res.RawResponse.Request != nil && res.RawResponse.Request.URL != nil {
		finalURL = res.RawResponse.Request.URL
	}

	doc, err := Parse(res.Body(), finalURL)
	if err != nil {
		c.observe(OutcomeError, start)
		return nil, fmt.Errorf("parse %s: %w", rawURL, err)
	}

	c.observe(OutcomeOK, start)
	c.logger.DebugContext(ctx, "fetched page",
		"url", rawURL,
		"status", res.StatusCode(),
		"bytes", len(res.Body()),
		"elapsed", time.Since(start).Round(time.Millisecond),
	)

	return &Page{
		URL:        rawURL,
		FinalURL:   finalURL,
		StatusCode: res.StatusCode(),
		Doc:        doc,
	}, nil
}

func (c *Client) observe(outcome string, start time.Time) {
	if c.observer != nil {
		c.observer.ObserveFetch(outcome, time.Since(start))
	}
}

// Parse parses an HTML body into a goquery document whose Url is base.
//
// Design decision: We parse with golang.org/x/net/html directly and wrap the
// node tree, rather than goquery.NewDocumentFromReader, so the same parsed
// tree can be handed to callers that only need the node API.
func Parse(body []byte, base *url.URL) (*goquery.Document, error) {
	root, err := html.Parse(bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	doc := goquery.NewDocumentFromNode(root)
	doc.Url = base
	return doc, nil
}

// ParseString parses an HTML string with the given base URL.
// It is a convenience for tests and fixtures.
func ParseString(body, baseURL string) (*goquery.Document, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, err
	}
	return Parse([]byte(body), base)
}
