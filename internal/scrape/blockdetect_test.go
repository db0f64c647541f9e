package scrape

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func respWithHeaders(status int, headers map[string]string) *http.Response {
	h := http.Header{}
	for k, v := range headers {
		h.Set(k, v)
	}
	return &http.Response{StatusCode: status, Header: h}
}

func TestDetectBlock_Cloudflare(t *testing.T) {
	resp := respWithHeaders(http.StatusForbidden, map[string]string{"cf-ray": "abc123"})
	blocked, bt := DetectBlock(resp, nil)
	assert.True(t, blocked)
	assert.Equal(t, BlockCloudflare, bt)

	resp = respWithHeaders(http.StatusServiceUnavailable, map[string]string{"server": "cloudflare"})
	blocked, bt = DetectBlock(resp, nil)
	assert.True(t, blocked)
	assert.Equal(t, BlockCloudflare, bt)
}

func TestDetectBlock_ChallengePage(t *testing.T) {
	resp := respWithHeaders(http.StatusOK, nil)
	blocked, bt := DetectBlock(resp, []byte("<html>Checking your browser before accessing</html>"))
	assert.True(t, blocked)
	assert.Equal(t, BlockCloudflare, bt)
}

func TestDetectBlock_Captcha(t *testing.T) {
	resp := respWithHeaders(http.StatusOK, nil)
	blocked, bt := DetectBlock(resp, []byte(`<div class="g-recaptcha"></div>`))
	assert.True(t, blocked)
	assert.Equal(t, BlockCaptcha, bt)
}

func TestDetectBlock_JSShell(t *testing.T) {
	resp := respWithHeaders(http.StatusOK, nil)
	body := []byte(`<html><noscript>Please enable JavaScript</noscript></html>`)
	blocked, bt := DetectBlock(resp, body)
	assert.True(t, blocked)
	assert.Equal(t, BlockJSShell, bt)
}

func TestDetectBlock_CleanPage(t *testing.T) {
	resp := respWithHeaders(http.StatusOK, nil)
	body := []byte(`<html><body><a href="mailto:maya@example.com">contact</a></body></html>`)
	blocked, bt := DetectBlock(resp, body)
	assert.False(t, blocked)
	assert.Equal(t, BlockNone, bt)
}

func TestDetectBlock_NilResponse(t *testing.T) {
	blocked, bt := DetectBlock(nil, nil)
	assert.False(t, blocked)
	assert.Equal(t, BlockNone, bt)
}
