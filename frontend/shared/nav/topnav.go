package nav

import "strings"

type link struct {
	Path  string
	Label string
	Key   string
}

var links = []link{
	{"/lab/dashboard", "Dashboard", "dashboard"},
	{"/lab/orders", "Orders", "orders"},
	{"/lab/batches", "Batches", "batches"},
	{"/lab/contamination", "Contamination", "contamination"},
	{"/lab/transfers", "Transfers", "transfers"},
	{"/lab/rooting", "Rooting", "rooting"},
	{"/lab/deliveries", "Deliveries", "deliveries"},
	{"/lab/labels", "Labels", "labels"},
	{"/lab/timeline", "Timeline", "timeline"},
	{"/lab/stats", "Statistics", "stats"},
	{"/lab/archive", "Archive", "archive"},
	{"/lab/exports", "Exports", "exports"},
}

// Bar renders the top navigation, highlighting the active page.
func Bar(active string) string {
	var b strings.Builder
	b.WriteString(`<nav class="topnav">`)
	for _, l := range links {
		cls := ""
		if l.Key == active {
			cls = ` class="active"`
		}
		b.WriteString(`<a` + cls + ` href="` + l.Path + `">` + l.Label + `</a>`)
	}
	b.WriteString("</nav>")
	return b.String()
}
