// File: internal/services/chat/title.go
package chat

import (
	"strings"
	"unicode/utf8"
)

const defaultTitlePrefix = "Chat with "

// DefaultTitle is the placeholder title a chat gets at creation when the
// caller supplies none. Pure function of the guru name; no hidden state.
func DefaultTitle(guruName string) string {
	return defaultTitlePrefix + strings.TrimSpace(guruName)
}

// IsDefaultTitle reports whether a title is empty or still the
// "Chat with ..." placeholder, i.e. eligible for auto-titling.
func IsDefaultTitle(title string) bool {
	title = strings.TrimSpace(title)
	return title == "" || strings.HasPrefix(title, defaultTitlePrefix)
}

// AutoTitle derives a chat title from the first user message: the first
// maxLen characters, with an ellipsis when truncated. Truncation is
// rune-safe so multi-byte content never splits mid-character.
func AutoTitle(content string, maxLen int) string {
	content = strings.TrimSpace(content)
	if maxLen <= 0 || utf8.RuneCountInString(content) <= maxLen {
		return content
	}

	var b strings.Builder
	count := 0
	for _, r := range content {
		if count >= maxLen {
			break
		}
		b.WriteRune(r)
		count++
	}
	return b.String() + "..."
}
