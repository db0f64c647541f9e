package hunter

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDomainSearch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/domain-search", r.URL.Path)
		assert.Equal(t, "techcrunch.com", r.URL.Query().Get("domain"))
		assert.Equal(t, "test-key", r.URL.Query().Get("api_key"))
		assert.Equal(t, "25", r.URL.Query().Get("limit"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"data": {
				"domain": "techcrunch.com",
				"organization": "TechCrunch",
				"emails": [
					{"value": "jane@techcrunch.com", "first_name": "Jane", "last_name": "Doe",
					 "position": "Senior Editor", "linkedin": "janedoe", "twitter": "janed",
					 "confidence": 94}
				]
			}
		}`))
	}))
	defer srv.Close()

	c := NewClient("test-key", WithBaseURL(srv.URL), WithRateLimit(0))
	result, err := c.DomainSearch(context.Background(), "techcrunch.com", 25)
	require.NoError(t, err)

	assert.Equal(t, "TechCrunch", result.Organization)
	require.Len(t, result.Emails, 1)
	assert.Equal(t, "jane@techcrunch.com", result.Emails[0].Value)
	assert.Equal(t, "Senior Editor", result.Emails[0].Position)
	assert.Equal(t, 94, result.Emails[0].Confidence)
}

func TestDomainSearchUpstreamFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"errors":[{"code":429,"details":"rate limit exceeded"}]}`, http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewClient("test-key", WithBaseURL(srv.URL), WithRateLimit(0))
	_, err := c.DomainSearch(context.Background(), "techcrunch.com", 0)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRequestFailed)
}

func TestDomainSearchRequiresDomain(t *testing.T) {
	c := NewClient("test-key", WithRateLimit(0))
	_, err := c.DomainSearch(context.Background(), "", 0)
	assert.Error(t, err)
}
