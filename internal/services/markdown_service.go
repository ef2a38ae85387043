// File: internal/services/markdown_service.go
package services

import (
	"bytes"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

// MarkdownService renders guru replies (which arrive as markdown from
// the LLM) to HTML for the shared/public chat views.
type MarkdownService struct {
	md goldmark.Markdown
}

func NewMarkdownService() *MarkdownService {
	return &MarkdownService{
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithRendererOptions(html.WithHardWraps()),
		),
	}
}

// Render converts markdown to HTML. Raw HTML in the source is escaped by
// goldmark's default renderer, so model output cannot inject markup.
func (s *MarkdownService) Render(source string) (string, error) {
	var buf bytes.Buffer
	if err := s.md.Convert([]byte(source), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}
