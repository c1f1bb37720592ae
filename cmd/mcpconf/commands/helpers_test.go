package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMaskEntry(t *testing.T) {
	entry := map[string]any{
		"url":     "https://example.com/mcp",
		"headers": map[string]any{"Authorization": "Bearer abcdefgh", "Accept": "text/event-stream"},
		"env":     map[string]any{"API_TOKEN": "12345678"},
		"args":    []any{"--token", "abcdefgh"},
	}

	got := maskEntry(entry)
	assert.Equal(t, map[string]string{"Authorization": "****efgh", "Accept": "text/event-stream"}, got["headers"])
	assert.Equal(t, map[string]string{"API_TOKEN": "****5678"}, got["env"])
	assert.Equal(t, []string{"--token", "****efgh"}, got["args"])
	assert.Equal(t, "https://example.com/mcp", got["url"])

	assert.Equal(t, "Bearer abcdefgh", entry["headers"].(map[string]any)["Authorization"], "input must not change")
	assert.Nil(t, maskEntry(nil))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcdefg...", truncate("abcdefghijklmnop", 10))
	assert.Equal(t, "ab", truncate("abcdef", 2))
}
