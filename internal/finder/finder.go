// Package finder discovers influencer contacts with a language-model
// assistant. Responses are parsed strictly; anything that is not the
// requested JSON shape fails closed to a clearly-labeled fallback list
// rather than surfacing an error.
package finder

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/nova-labs/influencer-cli/internal/model"
	"github.com/nova-labs/influencer-cli/internal/pipeline"
	"github.com/nova-labs/influencer-cli/internal/resilience"
	"github.com/nova-labs/influencer-cli/pkg/llm"
)

// retryConfig gives the assistant request a second chance on transient
// failures before the fallback catalog takes over.
var retryConfig = resilience.Config{
	Attempts:       2,
	InitialBackoff: time.Second,
}

const (
	defaultCount     = 10
	defaultMaxTokens = 4096

	systemPrompt = "You are a marketing research assistant. You respond with a " +
		"JSON array only: no prose, no markdown fences, no commentary. Each " +
		"element describes one real, currently-active influencer."
)

// Finder turns a filter set into influencer contact records via an
// assistant query.
type Finder struct {
	client    llm.Client
	model     string
	maxTokens int64
}

// New creates a Finder. An empty model uses the client default.
func New(client llm.Client, model string) *Finder {
	return &Finder{client: client, model: model, maxTokens: defaultMaxTokens}
}

// Find asks the assistant for up to count influencers matching the filter
// set. It never returns an empty result together with a nil error: when the
// assistant is unreachable or its reply does not parse, a fallback list is
// returned with every record marked IsFallback.
func (f *Finder) Find(ctx context.Context, filters model.FilterSet, count int) ([]model.ContactRecord, error) {
	if count <= 0 {
		count = defaultCount
	}
	if f == nil || f.client == nil {
		return Fallback(filters, count), nil
	}

	resp, err := resilience.Do(ctx, retryConfig, "assistant search",
		func(ctx context.Context) (*llm.MessageResponse, error) {
			return f.client.CreateMessage(ctx, llm.MessageRequest{
				Model:     f.model,
				MaxTokens: f.maxTokens,
				System:    systemPrompt,
				Messages: []llm.Message{
					{Role: "user", Content: BuildPrompt(filters, count)},
				},
			})
		})
	if err != nil {
		zap.L().Warn("finder: assistant request failed, using fallback data",
			zap.Error(err))
		return Fallback(filters, count), nil
	}
	resp.Usage.LogCost(resp.Model, "finder")

	records, err := parseRecords(resp.Text())
	if err != nil {
		zap.L().Warn("finder: assistant reply did not parse, using fallback data",
			zap.Error(err))
		return Fallback(filters, count), nil
	}
	if len(records) == 0 {
		return Fallback(filters, count), nil
	}
	if len(records) > count {
		records = records[:count]
	}
	return records, nil
}

// BuildPrompt renders the assistant query for a filter set.
func BuildPrompt(filters model.FilterSet, count int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Find %d influencers", count)
	if p := strings.TrimSpace(filters.ProductType); p != "" {
		fmt.Fprintf(&b, " who would promote %s products", p)
	}
	b.WriteString(".\nCriteria:\n")
	if a := strings.TrimSpace(filters.TargetAudience); a != "" {
		fmt.Fprintf(&b, "- Audience: %s\n", a)
	}
	if len(filters.ContentType) > 0 {
		fmt.Fprintf(&b, "- Content types: %s\n", strings.Join(filters.ContentType, ", "))
	}
	if loc := strings.TrimSpace(filters.Location); loc != "" {
		fmt.Fprintf(&b, "- Location: %s\n", loc)
	}
	if ind := strings.TrimSpace(filters.Industry); ind != "" {
		fmt.Fprintf(&b, "- Industry: %s\n", ind)
	}
	if filters.MinFollowers > 0 {
		fmt.Fprintf(&b, "- Minimum followers: %d\n", int(filters.MinFollowers))
	}
	if len(filters.Platforms) > 0 {
		fmt.Fprintf(&b, "- Platforms: %s\n", strings.Join(filters.Platforms, ", "))
	}
	b.WriteString("\nReturn a JSON array. Each element has these string fields: " +
		"full_name, domain_niche, industry, location, bio, use_case, email, " +
		"contact_link, followers, instagram_handle, twitter_handle, " +
		"linkedin_handle, youtube_handle. " +
		"Use \"\" for anything unknown, follower counts like \"250K\" or \"1.2M\".")
	return b.String()
}

// parseRecords decodes an assistant reply into contact records. The reply
// must contain exactly one JSON array of objects; markdown fences are
// tolerated, everything else is an error.
func parseRecords(text string) ([]model.ContactRecord, error) {
	start := strings.Index(text, "[")
	end := strings.LastIndex(text, "]")
	if start < 0 || end <= start {
		return nil, fmt.Errorf("no JSON array in reply")
	}

	var items []map[string]any
	if err := json.Unmarshal([]byte(text[start:end+1]), &items); err != nil {
		return nil, err
	}

	records := make([]model.ContactRecord, 0, len(items))
	for _, fields := range items {
		r, err := pipeline.Normalize(pipeline.RawPayload{
			Provider: "assistant",
			Source:   "assistant search",
			Fields:   fields,
		})
		if err != nil {
			continue
		}
		r.Platform = "Influencer"
		records = append(records, r)
	}
	return records, nil
}

// fallbackSeeds are shown when no live assistant data is available. Every
// record is labeled so downstream consumers can tell it apart from real
// results.
var fallbackSeeds = []model.ContactRecord{
	{FullName: "Alex Rivera", DomainNiche: "Lifestyle and product reviews", Location: "Los Angeles, CA", Followers: "850K", Bio: "Daily lifestyle content and honest product reviews"},
	{FullName: "Maya Chen", DomainNiche: "Tech tutorials and unboxings", Location: "San Francisco, CA", Followers: "420K", Bio: "Making technology approachable"},
	{FullName: "Jordan Blake", DomainNiche: "Fitness and wellness", Location: "Austin, TX", Followers: "275K", Bio: "Certified trainer sharing workout and nutrition tips"},
	{FullName: "Sofia Marino", DomainNiche: "Beauty and skincare", Location: "Miami, FL", Followers: "190K", Bio: "Skincare routines and makeup tutorials"},
	{FullName: "Dev Patel", DomainNiche: "Personal finance", Location: "New York, NY", Followers: "95K", Bio: "Money tips for young professionals"},
	{FullName: "Emma Lofgren", DomainNiche: "Sustainable living", Location: "Portland, OR", Followers: "48K", Bio: "Low-waste home and slow fashion"},
}

// Fallback returns up to count sample records matching the filter set as
// closely as the seed list allows, each marked as fallback data.
func Fallback(filters model.FilterSet, count int) []model.ContactRecord {
	out := make([]model.ContactRecord, 0, count)
	for _, seed := range fallbackSeeds {
		if len(out) == count {
			break
		}
		r := seed
		if p := strings.TrimSpace(filters.ProductType); p != "" {
			r.UseCase = fmt.Sprintf("Could feature %s products in their content", p)
		}
		r.SetHandle("instagram", instagramHandle(r.FullName))
		r.FollowerCount = model.ParseFollowerCount(r.Followers)
		r.Platform = "Influencer"
		r.Source = "fallback catalog"
		r.IsFallback = true
		r.DataSource = "fallback"
		r.IdentityKey = r.DeriveIdentityKey()
		out = append(out, r)
	}
	return out
}

func instagramHandle(fullName string) string {
	return strings.ToLower(strings.ReplaceAll(fullName, " ", "."))
}
