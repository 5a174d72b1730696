package llm

import (
	"strings"
	"time"
)

// CleanJSONContent removes markdown code-fence wrapping that chat models
// add around JSON output despite instructions not to.
func CleanJSONContent(content string) string {
	content = strings.ReplaceAll(content, "```json", "")
	content = strings.ReplaceAll(content, "```", "")
	return strings.TrimSpace(content)
}

// ResolveTimeout returns the per-call timeout, falling back to the
// configured default when the caller passes zero.
func ResolveTimeout(requested, fallback time.Duration) time.Duration {
	if requested > 0 {
		return requested
	}
	return fallback
}
