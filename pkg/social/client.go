// Package social fetches public profile statistics from social platform
// stats providers. Lookups are best-effort: callers treat every error as
// "no live data" and fall back to estimates.
package social

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"
)

const defaultBaseURL = "https://api.socialcounts.org/v1"

// Profile is the public statistics snapshot for one handle on one platform.
type Profile struct {
	Platform     string `json:"platform"`
	Handle       string `json:"handle"`
	Followers    int    `json:"followers"`
	Posts        int    `json:"posts"`
	TotalLikes   int    `json:"total_likes"`
	AverageLikes int    `json:"average_likes"`
	Bio          string `json:"bio"`
}

// Client fetches public profile statistics.
type Client interface {
	ProfileStats(ctx context.Context, platform, handle string) (*Profile, error)
}

// Option configures the client.
type Option func(*httpClient)

// WithBaseURL overrides the default stats provider base URL.
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

// WithRateLimit throttles outbound lookups to rps requests per second.
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

// NewClient creates a profile stats client. The API key may be empty for
// providers with an anonymous tier.
func NewClient(apiKey string, opts ...Option) Client {
	c := &httpClient{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		http: &http.Client{
			Timeout: 10 * time.Second,
			Transport: &http.Transport{
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		limiter: rate.NewLimiter(2, 1),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *httpClient) ProfileStats(ctx context.Context, platform, handle string) (*Profile, error) {
	if platform == "" || handle == "" {
		return nil, eris.New("social: platform and handle are required")
	}
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, eris.Wrap(err, "social: rate limit")
		}
	}

	endpoint := fmt.Sprintf("%s/%s/%s", c.baseURL,
		url.PathEscape(platform), url.PathEscape(handle))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, eris.Wrap(err, "social: create request")
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "social: send request")
	}
	defer resp.Body.Close() //nolint:errcheck

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "social: read response")
	}
	if resp.StatusCode == http.StatusNotFound {
		return nil, eris.Errorf("social: no public profile for %s/%s", platform, handle)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, eris.Errorf("social: unexpected status %d: %s", resp.StatusCode, string(body))
	}

	var profile Profile
	if err := json.Unmarshal(body, &profile); err != nil {
		return nil, eris.Wrap(err, "social: unmarshal response")
	}
	profile.Platform = platform
	if profile.Handle == "" {
		profile.Handle = handle
	}
	return &profile, nil
}
