package pipeline

import (
	"fmt"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/nova-labs/influencer-cli/internal/model"
)

// ErrMalformedPayload signals that a provider payload carries no usable
// identity signal (no email, no handle, no name). Callers skip the payload
// and continue; one bad record never aborts a batch.
var ErrMalformedPayload = eris.New("pipeline: malformed payload")

// RawPayload is one upstream record before normalization.
type RawPayload struct {
	Provider string
	Domain   string
	Source   string
	Fields   map[string]any
}

// aliasTable maps canonical field names to the source field names a provider
// uses for them, in lookup order.
type aliasTable map[string][]string

// providerAliases lists the known provider schemas. Unknown providers fall
// back to genericAliases.
var providerAliases = map[string]aliasTable{
	"hunter": {
		"email":           {"value", "email"},
		"first_name":      {"first_name"},
		"last_name":       {"last_name"},
		"job_title":       {"position", "job_title"},
		"linkedin_handle": {"linkedin"},
		"twitter_handle":  {"twitter"},
	},
	"scrape": {
		"email":     {"email"},
		"full_name": {"full_name", "name"},
		"source":    {"source"},
	},
	"assistant": {
		"email":            {"email"},
		"full_name":        {"full_name", "name"},
		"job_title":        {"job_title", "domain_niche"},
		"domain_niche":     {"domain_niche", "job_title"},
		"industry":         {"industry", "category"},
		"location":         {"location"},
		"bio":              {"bio"},
		"use_case":         {"use_case"},
		"contact_link":     {"contact_link", "source_url"},
		"followers":        {"followers"},
		"instagram_handle": {"instagram_handle"},
		"twitter_handle":   {"twitter_handle"},
		"linkedin_handle":  {"linkedin_handle"},
		"youtube_handle":   {"youtube_handle"},
		"facebook_handle":  {"facebook_handle"},
	},
}

var genericAliases = aliasTable{
	"email":     {"email"},
	"full_name": {"name", "full_name"},
	"handle":    {"handle"},
	"followers": {"followers"},
}

// platformGroups maps domain keywords to platform categories, checked in
// order.
var platformGroups = []struct {
	category string
	keywords []string
}{
	{"Tech Media", []string{"techcrunch", "theverge", "wired", "ars", "engadget", "gizmodo", "mashable"}},
	{"Business Media", []string{"forbes", "bloomberg", "wsj", "ft", "businessinsider", "cnbc", "reuters"}},
	{"Marketing", []string{"hubspot", "marketingland", "adweek", "adage", "socialmedia", "contentmarketing"}},
	{"Social Media Platform", []string{"linkedin", "twitter", "meta", "snap", "tiktok", "pinterest"}},
	{"Influencer Platform", []string{"influencer", "grin", "aspire", "upfluence", "klear"}},
	{"Content Platform", []string{"medium", "substack", "ghost", "wordpress"}},
}

// IdentifyPlatform derives the platform category from a domain name.
func IdentifyPlatform(domain string) string {
	d := strings.ToLower(domain)
	for _, g := range platformGroups {
		for _, kw := range g.keywords {
			if strings.Contains(d, kw) {
				return g.category
			}
		}
	}
	return "Other"
}

// Normalize maps one provider payload into a canonical ContactRecord.
// The provider selects a field-name alias table; unknown providers get a
// best-effort generic mapping. Returns ErrMalformedPayload when the payload
// has no email, no handle and no name.
func Normalize(payload RawPayload) (model.ContactRecord, error) {
	aliases, ok := providerAliases[payload.Provider]
	if !ok {
		aliases = genericAliases
	}

	get := func(canonical string) string {
		for _, name := range aliases[canonical] {
			if v, ok := payload.Fields[name]; ok {
				if s := toStringField(v); s != "" {
					return s
				}
			}
		}
		return ""
	}

	r := model.ContactRecord{
		Email:       strings.ToLower(get("email")),
		FirstName:   get("first_name"),
		LastName:    get("last_name"),
		FullName:    get("full_name"),
		JobTitle:    get("job_title"),
		Industry:    get("industry"),
		DomainNiche: get("domain_niche"),
		Bio:         get("bio"),
		UseCase:     get("use_case"),
		Location:    get("location"),
		ContactLink: get("contact_link"),
		Domain:      payload.Domain,
		Platform:    IdentifyPlatform(payload.Domain),
		Source:      payload.Source,
	}
	if r.Source == "" {
		r.Source = payload.Provider + " - " + payload.Domain
	}
	if r.FullName == "" {
		r.FullName = strings.TrimSpace(r.FirstName + " " + r.LastName)
	}
	if r.FirstName == "" && r.FullName != "" {
		parts := strings.Fields(r.FullName)
		r.FirstName = parts[0]
		if len(parts) > 1 {
			r.LastName = strings.Join(parts[1:], " ")
		}
	}

	for _, platform := range []string{"instagram", "twitter", "linkedin", "youtube", "facebook"} {
		r.SetHandle(platform, cleanHandle(platform, get(platform+"_handle")))
	}
	if h := get("handle"); h != "" && !r.HasAnyHandle() {
		r.SetHandle("twitter", cleanHandle("twitter", h))
	}

	if f := get("followers"); f != "" {
		r.FollowerCount = model.ParseFollowerCount(f)
		r.Followers = f
	}

	if r.Email == "" && !r.HasAnyHandle() && r.FullName == "" {
		return model.ContactRecord{}, eris.Wrap(ErrMalformedPayload,
			fmt.Sprintf("provider %s domain %s", payload.Provider, payload.Domain))
	}

	r.IdentityKey = r.DeriveIdentityKey()
	return r, nil
}

// cleanHandle strips decoration the upstream sources leave on handles
// ("@name", "in/name", leading slashes).
func cleanHandle(platform, handle string) string {
	h := strings.TrimSpace(handle)
	h = strings.TrimPrefix(h, "@")
	if platform == "linkedin" {
		h = strings.TrimPrefix(h, "in/")
	}
	return strings.Trim(h, "/")
}

func toStringField(v any) string {
	switch s := v.(type) {
	case string:
		return strings.TrimSpace(s)
	case float64:
		return fmt.Sprintf("%.0f", s)
	case int:
		return fmt.Sprintf("%d", s)
	default:
		return ""
	}
}
