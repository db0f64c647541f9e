package notion

import (
	"context"
	"strings"

	"github.com/jomei/notionapi"
	"github.com/rotisserie/eris"
)

// QueryAll fetches all pages from a Notion database, handling pagination.
// Rate limiting is enforced by the Client (3 req/s by default).
func QueryAll(ctx context.Context, c Client, dbID string, filter *notionapi.DatabaseQueryRequest) ([]notionapi.Page, error) {
	var all []notionapi.Page

	req := &notionapi.DatabaseQueryRequest{}
	if filter != nil {
		req.Filter = filter.Filter
		req.Sorts = filter.Sorts
		req.PageSize = filter.PageSize
	}

	for {
		resp, err := c.QueryDatabase(ctx, dbID, req)
		if err != nil {
			return nil, eris.Wrap(err, "notion: query all pages")
		}

		all = append(all, resp.Results...)

		if !resp.HasMore {
			break
		}
		req.StartCursor = resp.NextCursor
	}

	return all, nil
}

// PlainText concatenates the plain-text content of a rich text array.
func PlainText(rt []notionapi.RichText) string {
	var b strings.Builder
	for _, t := range rt {
		b.WriteString(t.PlainText)
	}
	return strings.TrimSpace(b.String())
}

// TitleText reads a title property as plain text, or "" when absent.
func TitleText(p notionapi.Page, name string) string {
	if prop, ok := p.Properties[name]; ok {
		if tp, ok := prop.(*notionapi.TitleProperty); ok {
			return PlainText(tp.Title)
		}
	}
	return ""
}

// RichTextValue reads a rich_text property as plain text, or "" when absent.
func RichTextValue(p notionapi.Page, name string) string {
	if prop, ok := p.Properties[name]; ok {
		if rtp, ok := prop.(*notionapi.RichTextProperty); ok {
			return PlainText(rtp.RichText)
		}
	}
	return ""
}

// URLValue reads a url property, or "" when absent.
func URLValue(p notionapi.Page, name string) string {
	if prop, ok := p.Properties[name]; ok {
		if up, ok := prop.(*notionapi.URLProperty); ok {
			return up.URL
		}
	}
	return ""
}
