package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/nova-labs/influencer-cli/pkg/hunter"
)

type mockHunter struct {
	mock.Mock
}

func (m *mockHunter) DomainSearch(ctx context.Context, domain string, limit int) (*hunter.DomainSearchResult, error) {
	args := m.Called(ctx, domain, limit)
	if res := args.Get(0); res != nil {
		return res.(*hunter.DomainSearchResult), args.Error(1)
	}
	return nil, args.Error(1)
}

func TestSearchDomains(t *testing.T) {
	client := new(mockHunter)
	client.On("DomainSearch", mock.Anything, "techcrunch.com", 25).Return(&hunter.DomainSearchResult{
		Domain: "techcrunch.com",
		Emails: []hunter.Email{
			{Value: "maya@techcrunch.com", FirstName: "Maya", LastName: "Chen", Position: "Senior Editor", LinkedIn: "mayachen"},
			{Value: "dev@techcrunch.com", Position: "Staff Writer"},
		},
	}, nil)
	client.On("DomainSearch", mock.Anything, "theverge.com", 25).Return(&hunter.DomainSearchResult{
		Domain: "theverge.com",
		Emails: []hunter.Email{
			{Value: "sam@theverge.com", FirstName: "Sam", LastName: "Rivera"},
		},
	}, nil)

	payloads := searchDomains(context.Background(), client,
		[]string{"techcrunch.com", "theverge.com"}, 25, 2)

	require.Len(t, payloads, 3)
	for _, p := range payloads {
		assert.Equal(t, "hunter", p.Provider)
		assert.NotEmpty(t, p.Domain)
		assert.NotEmpty(t, p.Fields["value"])
	}
	client.AssertExpectations(t)
}

func TestSearchDomains_FailureSkipsDomain(t *testing.T) {
	client := new(mockHunter)
	client.On("DomainSearch", mock.Anything, "down.example", 25).
		Return(nil, hunter.ErrRequestFailed)
	client.On("DomainSearch", mock.Anything, "up.example", 25).Return(&hunter.DomainSearchResult{
		Domain: "up.example",
		Emails: []hunter.Email{{Value: "a@up.example"}},
	}, nil)

	payloads := searchDomains(context.Background(), client,
		[]string{"down.example", "up.example"}, 25, 1)

	require.Len(t, payloads, 1)
	assert.Equal(t, "up.example", payloads[0].Domain)
	client.AssertExpectations(t)
}
