package html

import (
	"fmt"
	stdhtml "html"
	"strings"
)

func RenderLayout(title, body string) string {
	return fmt.Sprintf("<!doctype html><html><head><meta charset=\"utf-8\"><title>%s</title><link rel=\"stylesheet\" href=\"/assets/app.css\"></head><body>%s%s</body></html>", Esc(title), body, CSRFFormScript())
}

// Esc escapes text for interpolation into markup.
func Esc(s string) string {
	return stdhtml.EscapeString(s)
}

// StatusBanner renders a one-line status message, or nothing.
func StatusBanner(msg string) string {
	msg = strings.TrimSpace(msg)
	if msg == "" {
		return ""
	}
	return `<p class="status">` + Esc(msg) + `</p>`
}

// Table renders a plain table from a header row and data rows.
// Cell values must already be escaped by the caller if they carry
// markup; plain text cells can pass through Esc first.
func Table(headers []string, rows [][]string) string {
	var b strings.Builder
	b.WriteString("<table><thead><tr>")
	for _, h := range headers {
		b.WriteString("<th>" + Esc(h) + "</th>")
	}
	b.WriteString("</tr></thead><tbody>")
	for _, row := range rows {
		b.WriteString("<tr>")
		for _, cell := range row {
			b.WriteString("<td>" + cell + "</td>")
		}
		b.WriteString("</tr>")
	}
	b.WriteString("</tbody></table>")
	return b.String()
}

// SelectOptions renders option tags, marking selected.
func SelectOptions(options []string, selected string) string {
	var b strings.Builder
	for _, opt := range options {
		if opt == selected {
			b.WriteString(`<option value="` + Esc(opt) + `" selected>` + Esc(opt) + `</option>`)
			continue
		}
		b.WriteString(`<option value="` + Esc(opt) + `">` + Esc(opt) + `</option>`)
	}
	return b.String()
}
