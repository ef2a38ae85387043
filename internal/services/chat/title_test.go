// File: internal/services/chat/title_test.go
package chat

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestDefaultTitle(t *testing.T) {
	assert.Equal(t, "Chat with Ada", DefaultTitle("Ada"))
	assert.Equal(t, "Chat with Ada", DefaultTitle("  Ada  "))
}

func TestIsDefaultTitle(t *testing.T) {
	assert.True(t, IsDefaultTitle(""))
	assert.True(t, IsDefaultTitle("   "))
	assert.True(t, IsDefaultTitle("Chat with Ada"))
	assert.False(t, IsDefaultTitle("Homework help"))
	// A user title that merely mentions the guru is not the placeholder.
	assert.False(t, IsDefaultTitle("My chat with Ada"))
}

func TestAutoTitle(t *testing.T) {
	t.Run("short content is kept as-is", func(t *testing.T) {
		assert.Equal(t, "What is recursion?", AutoTitle("What is recursion?", 50))
	})

	t.Run("content at the limit gets no ellipsis", func(t *testing.T) {
		content := strings.Repeat("a", 50)
		assert.Equal(t, content, AutoTitle(content, 50))
	})

	t.Run("long content is truncated with ellipsis", func(t *testing.T) {
		content := strings.Repeat("a", 52)
		got := AutoTitle(content, 50)
		assert.Equal(t, strings.Repeat("a", 50)+"...", got)
	})

	t.Run("truncation is rune safe", func(t *testing.T) {
		content := strings.Repeat("é", 60)
		got := AutoTitle(content, 50)
		assert.True(t, utf8.ValidString(got))
		assert.Equal(t, strings.Repeat("é", 50)+"...", got)
	})

	t.Run("surrounding whitespace is trimmed first", func(t *testing.T) {
		assert.Equal(t, "hello", AutoTitle("  hello  ", 50))
	})
}
