// Package hunter queries the Hunter.io domain-search API for published
// email contacts.
package hunter

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"
)

const defaultBaseURL = "https://api.hunter.io/v2"

// ErrRequestFailed signals a failed upstream call (transport error, timeout
// or non-200 status). Callers skip the domain and continue; one failed
// lookup never aborts a batch.
var ErrRequestFailed = eris.New("hunter: upstream request failed")

// Client performs domain searches against the Hunter.io API.
type Client interface {
	DomainSearch(ctx context.Context, domain string, limit int) (*DomainSearchResult, error)
}

// DomainSearchResult is the data section of a domain-search response.
type DomainSearchResult struct {
	Domain       string  `json:"domain"`
	Organization string  `json:"organization"`
	Emails       []Email `json:"emails"`
}

// Email is one published contact found for a domain.
type Email struct {
	Value      string `json:"value"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Position   string `json:"position"`
	LinkedIn   string `json:"linkedin"`
	Twitter    string `json:"twitter"`
	Confidence int    `json:"confidence"`
}

// Option configures the client.
type Option func(*httpClient)

// WithBaseURL overrides the default API base URL.
func WithBaseURL(url string) Option {
	return func(c *httpClient) {
		c.baseURL = url
	}
}

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

// WithRateLimit throttles outbound requests to rps requests per second.
// Hunter enforces per-plan limits; the default is a conservative 10 req/s.
func WithRateLimit(rps float64) Option {
	return func(c *httpClient) {
		if rps > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(rps), max(int(rps), 1))
		} else {
			c.limiter = nil
		}
	}
}

type httpClient struct {
	apiKey  string
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
}

// NewClient creates a Hunter.io API client.
func NewClient(apiKey string, opts ...Option) Client {
	c := &httpClient{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		http: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		limiter: rate.NewLimiter(10, 1),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// domainSearchResponse is the full wire envelope.
type domainSearchResponse struct {
	Data   DomainSearchResult `json:"data"`
	Errors []struct {
		Code    int    `json:"code"`
		Details string `json:"details"`
	} `json:"errors"`
}

func (c *httpClient) DomainSearch(ctx context.Context, domain string, limit int) (*DomainSearchResult, error) {
	if domain == "" {
		return nil, eris.New("hunter: domain is required")
	}
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, eris.Wrap(err, "hunter: rate limit")
		}
	}

	q := url.Values{}
	q.Set("domain", domain)
	q.Set("api_key", c.apiKey)
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/domain-search?"+q.Encode(), nil)
	if err != nil {
		return nil, eris.Wrap(err, "hunter: create request")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, eris.Wrap(ErrRequestFailed, err.Error())
	}
	defer resp.Body.Close() //nolint:errcheck

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(ErrRequestFailed, err.Error())
	}
	if resp.StatusCode != http.StatusOK {
		return nil, eris.Wrap(ErrRequestFailed,
			fmt.Sprintf("status %d: %s", resp.StatusCode, string(body)))
	}

	var result domainSearchResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, eris.Wrap(err, "hunter: unmarshal response")
	}
	if result.Data.Domain == "" {
		result.Data.Domain = domain
	}
	return &result.Data, nil
}
