package exports

import (
	"strings"

	"proptrack/frontend/shared/html"
	"proptrack/frontend/shared/nav"
)

func ExportsPage(message string) string {
	var b strings.Builder
	b.WriteString(nav.Bar("exports"))
	b.WriteString("<h1>Exports</h1>")
	b.WriteString(html.StatusBanner(message))
	b.WriteString(html.Table(
		[]string{"Export", "Description", ""},
		[][]string{
			{"Orders", "Every order with its lifecycle fields", `<a href="/lab/exports/orders.csv">Download</a>`},
			{"Batch summary", "Per-batch derived figures (losses, transfers, rooting)", `<a href="/lab/exports/batch-summary.csv">Download</a>`},
			{"Archive", "Completed orders with days to complete", `<a href="/lab/exports/archive.csv">Download</a>`},
			{"Label manifest", "Every label batch snapshot with its token", `<a href="/lab/exports/label-manifest.csv">Download</a>`},
		},
	))
	return html.RenderLayout("Exports", b.String())
}
