package timeline

import (
	"fmt"
	"strings"

	"proptrack/frontend/shared/html"
	"proptrack/frontend/shared/nav"
)

type PageData struct {
	Message     string
	BatchFilter int64
	Batches     []BatchOption
	Summary     Summary
	Spans       []Span
	Events      []Event
}

func TimelinePage(data PageData) string {
	var b strings.Builder
	b.WriteString(nav.Bar("timeline"))
	b.WriteString("<h1>Timeline</h1>")
	b.WriteString(html.StatusBanner(data.Message))

	b.WriteString(`<form method="GET" action="/lab/timeline"><label>Batch <select name="batch">`)
	for _, opt := range data.Batches {
		selected := ""
		if opt.ID == data.BatchFilter {
			selected = " selected"
		}
		b.WriteString(fmt.Sprintf(`<option value="%d"%s>%s</option>`, opt.ID, selected, html.Esc(opt.Label)))
	}
	b.WriteString(`</select></label><button type="submit">Show</button></form>`)

	if data.BatchFilter > 0 {
		b.WriteString(fmt.Sprintf("<p>%d days across %d spans, currently at: %s</p>",
			data.Summary.TotalDays, data.Summary.SpanCount, html.Esc(data.Summary.CurrentStage)))

		spanRows := make([][]string, 0, len(data.Spans))
		for _, span := range data.Spans {
			bar := fmt.Sprintf(`<div class="bar bar-%s" style="width:%dpx"></div>`, span.Kind, 12*span.Days)
			spanRows = append(spanRows, []string{
				html.Esc(span.Stage),
				html.Esc(span.Label),
				html.Esc(span.Start),
				html.Esc(span.End),
				fmt.Sprintf("%d", span.Days),
				bar,
			})
		}
		b.WriteString("<h2>Gantt</h2>")
		b.WriteString(html.Table([]string{"Stage", "Event", "Start", "End", "Days", ""}, spanRows))

		eventRows := make([][]string, 0, len(data.Events))
		for _, ev := range data.Events {
			eventRows = append(eventRows, []string{html.Esc(ev.Date), html.Esc(ev.Stage), html.Esc(ev.Label)})
		}
		b.WriteString("<h2>Audit Trail</h2>")
		b.WriteString(html.Table([]string{"Date", "Stage", "Event"}, eventRows))
	}
	return html.RenderLayout("Timeline", b.String())
}
