package labels

import (
	"fmt"
	"strings"

	"proptrack/frontend/shared/html"
	"proptrack/frontend/shared/nav"
	"proptrack/models"
)

func LabelsPage(data PageData) string {
	var b strings.Builder
	b.WriteString(nav.Bar("labels"))
	b.WriteString("<h1>Labels</h1>")
	b.WriteString(html.StatusBanner(data.Message))

	rows := make([][]string, 0, len(data.Rows))
	for _, row := range data.Rows {
		rows = append(rows, []string{
			fmt.Sprintf("#%d", row.ID),
			html.Esc(row.ClientName),
			html.Esc(row.Cultivar),
			html.Esc(row.Stages),
			fmt.Sprintf("%d", row.NumLabels),
			html.Esc(row.Token),
			fmt.Sprintf(`<a href="/lab/labels/%d/pdf">PDF</a> <a href="/lab/labels/%d/csv">CSV</a> <form method="POST" action="/lab/labels/%d/delete" class="inline"><button type="submit">Delete</button></form>`, row.ID, row.ID, row.ID),
		})
	}
	b.WriteString(html.Table(
		[]string{"Batch", "Client", "Cultivar", "Stages", "Labels", "Token", ""},
		rows,
	))

	b.WriteString(generateForm(data.Orders))
	return html.RenderLayout("Labels", b.String())
}

func LookupPage(lb models.LabelBatch, message string) string {
	var b strings.Builder
	b.WriteString(nav.Bar("labels"))
	b.WriteString("<h1>Label Lookup</h1>")
	b.WriteString(html.StatusBanner(message))

	pathogens := "none"
	if lb.PathogenStatus != nil && *lb.PathogenStatus != "" {
		pathogens = *lb.PathogenStatus
	}
	explants := "N/A"
	if lb.NumExplants != nil {
		explants = fmt.Sprintf("%d", *lb.NumExplants)
	}
	b.WriteString(html.Table(
		[]string{"Field", "Value"},
		[][]string{
			{"Token", html.Esc(lb.Token)},
			{"Client", html.Esc(lb.ClientName)},
			{"Cultivar", html.Esc(lb.Cultivar)},
			{"Order date", html.Esc(lb.OrderDate)},
			{"Initiation date", html.Esc(lb.InitiationDate)},
			{"Stages", html.Esc(lb.Stages)},
			{"Explants", html.Esc(explants)},
			{"Pathogens", html.Esc(pathogens)},
		},
	))
	return html.RenderLayout("Label Lookup", b.String())
}

// PayloadPage renders a scanned payload that did not resolve to a
// stored batch.
func PayloadPage(p Payload, message string) string {
	var b strings.Builder
	b.WriteString(nav.Bar("labels"))
	b.WriteString("<h1>Scanned Payload</h1>")
	b.WriteString(html.StatusBanner(message))

	pathogens := "none"
	if p.Pathogens != nil && *p.Pathogens != "" {
		pathogens = *p.Pathogens
	}
	explants := "N/A"
	if p.NumExplants != nil {
		explants = fmt.Sprintf("%d", *p.NumExplants)
	}
	b.WriteString(html.Table(
		[]string{"Field", "Value"},
		[][]string{
			{"Token", html.Esc(p.Token)},
			{"Client", html.Esc(p.Client)},
			{"Cultivar", html.Esc(p.Cultivar)},
			{"Order date", html.Esc(p.OrderDate)},
			{"Initiation date", html.Esc(p.InitiationDate)},
			{"Stages", html.Esc(p.Stages)},
			{"Explants", html.Esc(explants)},
			{"Pathogens", html.Esc(pathogens)},
		},
	))
	return html.RenderLayout("Scanned Payload", b.String())
}

func generateForm(orders []OrderOption) string {
	var b strings.Builder
	b.WriteString("<h2>Generate Labels</h2>")
	b.WriteString(`<form method="POST" action="/lab/labels">`)
	b.WriteString(`<label>Order <select name="order_id">`)
	for _, opt := range orders {
		b.WriteString(fmt.Sprintf(`<option value="%d">%s</option>`, opt.ID, html.Esc(opt.Label)))
	}
	b.WriteString(`</select></label>`)
	b.WriteString(`<label>Number of labels <input type="number" name="num_labels" min="1" max="500" value="10"></label>`)
	b.WriteString(`<label>Start numbering at <input type="number" name="start_number" min="1" value="1"></label>`)
	b.WriteString(`<label>Initiation date <input type="date" name="initiation_date" required></label>`)
	b.WriteString(`<label>Number of explants <input type="number" name="num_explants" min="1" value="1"></label>`)
	b.WriteString(`<fieldset><legend>Stages</legend>`)
	for _, stage := range models.LabelStages {
		checked := ""
		if stage == "Initiation" {
			checked = " checked"
		}
		b.WriteString(fmt.Sprintf(`<label><input type="checkbox" name="stages" value="%s"%s> %s</label>`, html.Esc(stage), checked, html.Esc(stage)))
	}
	b.WriteString(`<label>Custom stage <input name="custom_stage"></label></fieldset>`)
	b.WriteString(`<label>Include detected pathogens <input type="checkbox" name="include_detected" value="1" checked></label>`)
	b.WriteString(`<label>Additional pathogens <input name="extra_pathogens" placeholder="comma-separated"></label>`)
	b.WriteString(`<fieldset><legend>Code</legend>`)
	b.WriteString(`<label><input type="radio" name="code_type" value="` + CodeQR + `" checked> QR Code</label>`)
	b.WriteString(`<label><input type="radio" name="code_type" value="` + CodeBarcode + `"> Barcode</label></fieldset>`)
	b.WriteString(`<label>Label width (in) <input type="number" name="label_width" step="0.25" min="1" max="4" value="2"></label>`)
	b.WriteString(`<label>Label height (in) <input type="number" name="label_height" step="0.25" min="0.5" max="3" value="1"></label>`)
	b.WriteString(`<label>Labels per row <input type="number" name="labels_per_row" min="1" max="5" value="3"></label>`)
	b.WriteString(`<label>Notes <textarea name="notes"></textarea></label>`)
	b.WriteString(`<button type="submit">Generate</button></form>`)

	b.WriteString(`<h2>Lookup</h2><form method="GET" action="/lab/labels/lookup"><label>Token <input name="token" required></label><button type="submit">Find</button></form>`)
	return b.String()
}
