package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMessageResponseText(t *testing.T) {
	resp := &MessageResponse{Content: []ContentBlock{
		{Type: "text", Text: "Hello, "},
		{Type: "thinking", Text: "ignored"},
		{Type: "text", Text: "world"},
	}}
	assert.Equal(t, "Hello, world", resp.Text())

	assert.Empty(t, (&MessageResponse{}).Text())
}

func TestEstimateCost(t *testing.T) {
	usage := TokenUsage{InputTokens: 1_000_000, OutputTokens: 1_000_000}
	assert.InDelta(t, 18.0, usage.EstimateCost("claude-sonnet-4-5-20250929"), 0.001)
	assert.Zero(t, usage.EstimateCost("unknown-model"))
}
