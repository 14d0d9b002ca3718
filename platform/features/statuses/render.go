package statuses

import (
	"html"
	"strings"
)

// RenderHTML turns the markdown text of a note into HTML paragraphs.
// Blank lines separate paragraphs, single line breaks become <br>. All text is escaped.
func RenderHTML(markdown string) string {
	normalized := strings.ReplaceAll(markdown, "\r\n", "\n")

	var out strings.Builder

	for _, paragraph := range strings.Split(normalized, "\n\n") {
		paragraph = strings.TrimSpace(paragraph)
		if paragraph == "" {
			continue
		}

		lines := strings.Split(paragraph, "\n")
		for i, line := range lines {
			lines[i] = html.EscapeString(strings.TrimSpace(line))
		}

		out.WriteString("<p>")
		out.WriteString(strings.Join(lines, "<br>"))
		out.WriteString("</p>\n")
	}

	return out.String()
}
