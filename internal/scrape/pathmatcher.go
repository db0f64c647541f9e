package scrape

import (
	"net/url"
	"path"
	"strings"
)

// defaultExcludePatterns drop link paths that look like author pages but
// never name a person.
var defaultExcludePatterns = []string{
	"/author/page/*",
	"/authors/page/*",
	"/tag/*",
	"/category/*",
	"/*.pdf",
	"/*.xml",
}

// PathMatcher filters URL paths with glob patterns. A pattern ending in
// "/*" matches any depth below its directory.
type PathMatcher struct {
	patterns []string
}

// NewPathMatcher creates a matcher, falling back to the default exclusion
// list when no patterns are given.
func NewPathMatcher(patterns []string) *PathMatcher {
	if len(patterns) == 0 {
		patterns = defaultExcludePatterns
	}
	return &PathMatcher{patterns: patterns}
}

// IsExcluded reports whether the URL's path matches any pattern.
// Unparseable URLs are excluded.
func (m *PathMatcher) IsExcluded(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return true
	}
	p := strings.ToLower(u.Path)
	for _, pattern := range m.patterns {
		if matchSegmented(strings.ToLower(pattern), p) {
			return true
		}
	}
	return false
}

func matchSegmented(pattern, urlPath string) bool {
	if ok, _ := path.Match(pattern, urlPath); ok {
		return true
	}
	if strings.HasSuffix(pattern, "/*") {
		prefix := strings.TrimSuffix(pattern, "/*")
		if urlPath == prefix || strings.HasPrefix(urlPath, prefix+"/") {
			return true
		}
	}
	return false
}
