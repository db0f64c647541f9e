// Package scrape extracts published contact emails from a site's public
// pages, pairing them with author names found alongside.
package scrape

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/nova-labs/influencer-cli/internal/pipeline"
)

// ErrRequestFailed signals that a page could not be fetched. Callers skip
// the page and continue.
var ErrRequestFailed = eris.New("scrape: upstream request failed")

// candidatePaths are the site sections likely to publish contact details,
// fetched in order after the homepage.
var candidatePaths = []string{"/contact", "/about", "/team", "/authors", "/contact-us"}

var emailPattern = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)

// maxBodyBytes bounds how much of a page is read.
const maxBodyBytes = 2 << 20

// genericPrefixes are role-account localparts that never identify a person.
var genericPrefixes = []string{
	"noreply", "no-reply", "donotreply", "support", "info", "contact",
	"hello", "admin", "webmaster", "postmaster", "mailer-daemon", "sales",
	"press", "careers",
}

var titleCaser = cases.Title(language.English)

// Scraper fetches and parses a site's public contact pages.
type Scraper struct {
	http      *http.Client
	userAgent string
	maxPages  int
	exclude   *PathMatcher
}

// Option configures the scraper.
type Option func(*Scraper)

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(s *Scraper) {
		s.http = hc
	}
}

// WithUserAgent overrides the advertised user agent.
func WithUserAgent(ua string) Option {
	return func(s *Scraper) {
		s.userAgent = ua
	}
}

// WithMaxPages caps how many pages are fetched per domain.
func WithMaxPages(n int) Option {
	return func(s *Scraper) {
		if n > 0 {
			s.maxPages = n
		}
	}
}

// WithExcludePatterns overrides the default author-link exclusion globs.
func WithExcludePatterns(patterns []string) Option {
	return func(s *Scraper) {
		s.exclude = NewPathMatcher(patterns)
	}
}

// New creates a Scraper.
func New(opts ...Option) *Scraper {
	s := &Scraper{
		http: &http.Client{
			Timeout: 15 * time.Second,
		},
		userAgent: "influencer-cli/1.0 (contact research)",
		maxPages:  len(candidatePaths) + 1,
		exclude:   NewPathMatcher(nil),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// ScrapeDomain walks the domain's homepage and likely contact pages and
// returns one raw payload per personal email found. Author names recovered
// from the same site attach to the email whose localpart matches, so a
// found name rides along on an addressable contact rather than standing
// alone. Individual page failures are logged and skipped; an error is
// returned only when not a single page could be fetched.
func (s *Scraper) ScrapeDomain(ctx context.Context, domain string) ([]pipeline.RawPayload, error) {
	base := strings.TrimSuffix(domain, "/")
	if !strings.Contains(base, "://") {
		base = "https://" + base
	}

	type foundEmail struct {
		addr   string
		source string
	}
	var found []foundEmail
	emails := map[string]struct{}{}
	var names []string
	nameSet := map[string]struct{}{}
	fetched := 0

	paths := append([]string{""}, candidatePaths...)
	if len(paths) > s.maxPages {
		paths = paths[:s.maxPages]
	}
	for _, path := range paths {
		pageURL := base + path
		doc, err := s.fetch(ctx, pageURL)
		if err != nil {
			zap.L().Debug("scrape: skipping page",
				zap.String("url", pageURL), zap.Error(err))
			continue
		}
		fetched++

		for _, email := range pageEmails(doc) {
			if _, dup := emails[email]; dup || isGenericEmail(email) {
				continue
			}
			emails[email] = struct{}{}
			found = append(found, foundEmail{addr: email, source: pageURL})
		}
		for _, name := range authorNames(doc, s.exclude) {
			if _, dup := nameSet[name]; dup {
				continue
			}
			nameSet[name] = struct{}{}
			names = append(names, name)
		}
	}

	if fetched == 0 {
		return nil, eris.Wrap(ErrRequestFailed, domain)
	}

	payloads := make([]pipeline.RawPayload, 0, len(found))
	for _, fe := range found {
		fields := map[string]any{"email": fe.addr}
		if name := nameForEmail(fe.addr, names); name != "" {
			fields["full_name"] = name
		}
		payloads = append(payloads, pipeline.RawPayload{
			Provider: "scrape",
			Domain:   domain,
			Source:   "scraped - " + fe.source,
			Fields:   fields,
		})
	}
	return payloads, nil
}

// nameForEmail pairs an author name with the email whose localpart carries
// every significant token of the name: "Jane Doe" attaches to
// jane.doe@example.com but never to john.roe@example.com. Returns "" when
// no name matches.
func nameForEmail(email string, names []string) string {
	local := strings.ToLower(email)
	if i := strings.Index(local, "@"); i >= 0 {
		local = local[:i]
	}
	for _, name := range names {
		if nameMatchesLocal(local, name) {
			return name
		}
	}
	return ""
}

func nameMatchesLocal(local, name string) bool {
	significant := 0
	for _, tok := range strings.Fields(strings.ToLower(name)) {
		if len(tok) < 3 {
			continue
		}
		significant++
		if !strings.Contains(local, tok) {
			return false
		}
	}
	return significant > 0
}

func (s *Scraper) fetch(ctx context.Context, pageURL string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, eris.Wrap(err, "scrape: create request")
	}
	req.Header.Set("User-Agent", s.userAgent)

	resp, err := s.http.Do(req)
	if err != nil {
		return nil, eris.Wrap(ErrRequestFailed, err.Error())
	}
	defer resp.Body.Close() //nolint:errcheck

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, eris.Wrap(ErrRequestFailed, err.Error())
	}

	if blocked, bt := DetectBlock(resp, body); blocked {
		return nil, eris.Wrap(ErrRequestFailed,
			fmt.Sprintf("blocked (%s) at %s", bt, pageURL))
	}
	if resp.StatusCode != http.StatusOK {
		return nil, eris.Wrap(ErrRequestFailed,
			fmt.Sprintf("status %d for %s", resp.StatusCode, pageURL))
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, eris.Wrap(err, "scrape: parse html")
	}
	return doc, nil
}

// pageEmails collects addresses from mailto links and visible text.
func pageEmails(doc *goquery.Document) []string {
	var out []string
	seen := map[string]struct{}{}
	add := func(email string) {
		email = strings.ToLower(strings.TrimSpace(email))
		if email == "" {
			return
		}
		if _, dup := seen[email]; dup {
			return
		}
		seen[email] = struct{}{}
		out = append(out, email)
	}

	doc.Find(`a[href^="mailto:"]`).Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		addr := strings.TrimPrefix(href, "mailto:")
		if i := strings.IndexAny(addr, "?&"); i >= 0 {
			addr = addr[:i]
		}
		if emailPattern.MatchString(addr) {
			add(addr)
		}
	})
	for _, m := range emailPattern.FindAllString(doc.Text(), -1) {
		add(m)
	}
	return out
}

// authorNames recovers people's names from author page links, title-casing
// the URL slug ("/author/jane-doe" becomes "Jane Doe"). Links whose path
// matches the exclusion globs (pagination, tags, feeds) are skipped.
func authorNames(doc *goquery.Document, exclude *PathMatcher) []string {
	var out []string
	seen := map[string]struct{}{}
	doc.Find(`a[href*="/author/"], a[href*="/authors/"], a[rel="author"]`).Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		if exclude != nil && exclude.IsExcluded(href) {
			return
		}
		name := nameFromSlug(href)
		if name == "" {
			name = strings.TrimSpace(sel.Text())
		}
		if name == "" || !strings.Contains(name, " ") {
			return
		}
		if _, dup := seen[name]; dup {
			return
		}
		seen[name] = struct{}{}
		out = append(out, name)
	})
	return out
}

func nameFromSlug(href string) string {
	href = strings.TrimRight(href, "/")
	slug := href[strings.LastIndex(href, "/")+1:]
	slug = strings.ReplaceAll(slug, "-", " ")
	slug = strings.ReplaceAll(slug, "_", " ")
	if slug == "" || strings.ContainsAny(slug, ".?=") {
		return ""
	}
	return titleCaser.String(slug)
}

func isGenericEmail(email string) bool {
	local := email
	if i := strings.Index(email, "@"); i >= 0 {
		local = email[:i]
	}
	local = strings.ToLower(local)
	for _, prefix := range genericPrefixes {
		if local == prefix || strings.HasPrefix(local, prefix+".") {
			return true
		}
	}
	return false
}
