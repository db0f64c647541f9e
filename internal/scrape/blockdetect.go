package scrape

import (
	"net/http"
	"strings"
)

// BlockType names the anti-bot measure a page responded with.
type BlockType string

const (
	BlockNone       BlockType = ""
	BlockCloudflare BlockType = "cloudflare"
	BlockCaptcha    BlockType = "captcha"
	BlockJSShell    BlockType = "js_shell"
)

// DetectBlock inspects a response for anti-bot protection. Blocked pages
// carry no real contact data; parsing them would only surface noise like a
// CDN's own support address.
func DetectBlock(resp *http.Response, body []byte) (bool, BlockType) {
	if resp == nil {
		return false, BlockNone
	}

	if resp.StatusCode == http.StatusForbidden || resp.StatusCode == http.StatusServiceUnavailable {
		if resp.Header.Get("cf-ray") != "" ||
			resp.Header.Get("cf-cache-status") != "" ||
			resp.Header.Get("server") == "cloudflare" {
			return true, BlockCloudflare
		}
	}

	lower := strings.ToLower(string(body))

	if strings.Contains(lower, "checking your browser") ||
		strings.Contains(lower, "cf-browser-verification") {
		return true, BlockCloudflare
	}

	if strings.Contains(lower, "recaptcha") ||
		strings.Contains(lower, "hcaptcha") ||
		strings.Contains(lower, "solve the captcha") {
		return true, BlockCaptcha
	}

	// A tiny body that only bootstraps JavaScript renders nothing we can
	// extract from.
	if len(body) > 0 && len(body) < 2000 {
		if strings.Contains(lower, "<noscript") && strings.Contains(lower, "javascript") {
			return true, BlockJSShell
		}
		if strings.Contains(lower, `http-equiv="refresh"`) {
			return true, BlockJSShell
		}
	}

	return false, BlockNone
}
