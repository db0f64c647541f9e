package export

import (
	"context"
	"strings"

	"github.com/jomei/notionapi"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/nova-labs/influencer-cli/internal/model"
	"github.com/nova-labs/influencer-cli/pkg/notion"
)

// NotionSink appends contact records as pages in a Notion database.
// The destination database needs a "Name" title property; all other
// properties are created per page.
type NotionSink struct {
	Client     notion.Client
	DatabaseID string
}

func (s *NotionSink) ExistingKeys(ctx context.Context) ([]string, error) {
	pages, err := notion.QueryAll(ctx, s.Client, s.DatabaseID, nil)
	if err != nil {
		return nil, eris.Wrap(ErrDestinationUnavailable, err.Error())
	}

	var keys []string
	for _, p := range pages {
		r := model.ContactRecord{Email: notion.RichTextValue(p, "Email")}
		r.SetHandle("linkedin", handleFromURL(notion.URLValue(p, "LinkedIn")))
		r.SetHandle("twitter", handleFromURL(notion.URLValue(p, "Twitter")))
		if key := r.DeriveIdentityKey(); key != "" {
			keys = append(keys, key)
		}
	}
	return keys, nil
}

func (s *NotionSink) Append(ctx context.Context, records []model.ContactRecord) (int, error) {
	existing, err := s.ExistingKeys(ctx)
	if err != nil {
		return 0, err
	}
	fresh := filterNew(records, keySet(existing))

	written := 0
	for _, r := range fresh {
		req := &notionapi.PageCreateRequest{
			Parent: notionapi.Parent{
				Type:       notionapi.ParentTypeDatabaseID,
				DatabaseID: notionapi.DatabaseID(s.DatabaseID),
			},
			Properties: contactProperties(r),
		}
		if _, err := s.Client.CreatePage(ctx, req); err != nil {
			if written > 0 {
				zap.L().Warn("notion sink: partial append",
					zap.Int("written", written),
					zap.Error(err),
				)
			}
			return written, eris.Wrap(ErrDestinationUnavailable, err.Error())
		}
		written++
	}
	return written, nil
}

func contactProperties(r model.ContactRecord) notionapi.Properties {
	name := r.FullName
	if name == "" {
		name = r.Email
	}

	props := notionapi.Properties{
		"Name": notionapi.TitleProperty{
			Title: []notionapi.RichText{{Text: &notionapi.Text{Content: name}}},
		},
	}

	text := func(key, val string) {
		if val == "" {
			return
		}
		props[key] = notionapi.RichTextProperty{
			RichText: []notionapi.RichText{{Text: &notionapi.Text{Content: val}}},
		}
	}
	text("Email", r.Email)
	text("Domain", r.Domain)
	text("Job Title", r.JobTitle)
	text("Source", r.Source)

	if r.Platform != "" {
		props["Platform"] = notionapi.SelectProperty{
			Select: notionapi.Option{Name: r.Platform},
		}
	}
	if r.Tier != "" {
		props["Tier"] = notionapi.SelectProperty{
			Select: notionapi.Option{Name: string(r.Tier)},
		}
	}
	if url := r.ProfileURL("linkedin"); url != "" {
		props["LinkedIn"] = notionapi.URLProperty{URL: url}
	}
	if url := r.ProfileURL("twitter"); url != "" {
		props["Twitter"] = notionapi.URLProperty{URL: url}
	}
	if r.FollowerCount > 0 {
		props["Followers"] = notionapi.NumberProperty{Number: float64(r.FollowerCount)}
	}
	if r.MatchScore > 0 {
		props["Score"] = notionapi.NumberProperty{Number: float64(r.MatchScore)}
	}

	return props
}

// handleFromURL recovers a social handle from a stored profile URL.
func handleFromURL(url string) string {
	if url == "" {
		return ""
	}
	url = strings.TrimRight(url, "/")
	seg := url[strings.LastIndex(url, "/")+1:]
	return strings.TrimPrefix(seg, "@")
}
