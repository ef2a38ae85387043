// File: internal/services/guru/prompt.go
package guru

import "strings"

// BuildSystemPrompt derives a guru's system prompt from its identity
// fields. It is a pure function: the stored prompt is regenerated on
// every save where name, subject, or description changed, so the prompt
// never drifts from these three inputs.
func BuildSystemPrompt(name, subject, description string) string {
	var b strings.Builder
	b.WriteString("You are ")
	b.WriteString(strings.TrimSpace(name))
	b.WriteString(", an expert in ")
	b.WriteString(strings.TrimSpace(subject))
	b.WriteString(".")
	if desc := strings.TrimSpace(description); desc != "" {
		b.WriteString(" ")
		b.WriteString(desc)
		if !strings.HasSuffix(desc, ".") && !strings.HasSuffix(desc, "!") && !strings.HasSuffix(desc, "?") {
			b.WriteString(".")
		}
	}
	b.WriteString(" You are helpful, knowledgeable, and passionate about teaching.")
	b.WriteString(" Give clear, accurate answers in your area of expertise and encourage follow-up questions.")
	return b.String()
}
