package response

import "strings"

// Enrich wraps each blank-line separated block of text as an HTML paragraph
// followed by a line break. Empty blocks are dropped.
func Enrich(text string) string {
	if strings.TrimSpace(text) == "" {
		return ""
	}

	normalized := strings.ReplaceAll(text, "\r\n", "\n")
	var b strings.Builder
	for _, block := range strings.Split(normalized, "\n\n") {
		block = strings.TrimSpace(block)
		if block == "" {
			continue
		}
		b.WriteString("<p>")
		b.WriteString(block)
		b.WriteString("</p><br>")
	}
	return b.String()
}
