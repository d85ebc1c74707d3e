package batches

import (
	"fmt"
	"strings"

	"proptrack/frontend/shared/html"
	"proptrack/frontend/shared/nav"
	"proptrack/models"
)

func BatchesPage(data PageData) string {
	var b strings.Builder
	b.WriteString(nav.Bar("batches"))
	b.WriteString("<h1>Explant Batches</h1>")
	b.WriteString(html.StatusBanner(data.Message))

	b.WriteString(`<form method="GET" action="/lab/batches"><label>Explant type <select name="explant_type"><option value="">All types</option>`)
	b.WriteString(html.SelectOptions(models.ExplantTypes, data.ExplantType))
	b.WriteString(`</select></label><button type="submit">Filter</button></form>`)

	rows := make([][]string, 0, len(data.Rows))
	for _, r := range data.Rows {
		orderCell := "no order linked"
		if r.OrderLabel != "" {
			orderCell = html.Esc(r.OrderLabel)
		} else if r.OrderID != 0 {
			// The linked order was deleted after the batch was created.
			orderCell = fmt.Sprintf("order %d (deleted)", r.OrderID)
		}
		rows = append(rows, []string{
			fmt.Sprintf("%d", r.ID),
			html.Esc(r.Name),
			orderCell,
			fmt.Sprintf("%d", r.NumExplants),
			fmt.Sprintf("%d", r.TotalLost),
			fmt.Sprintf("%d", r.HealthyRemaining),
			html.Esc(r.ExplantType),
			html.Esc(r.MediaType),
			html.Esc(r.InitiationDate),
			html.Esc(r.PathogenStatus),
			fmt.Sprintf("%d", r.TransferCount),
			fmt.Sprintf(`<a href="/lab/batches/%d/edit">Edit</a> <a href="/lab/transfers?batch=%d">Transfers</a> <form method="POST" action="/lab/batches/%d/delete" class="inline"><button type="submit">Delete</button></form>`, r.ID, r.ID, r.ID),
		})
	}
	b.WriteString(html.Table(
		[]string{"ID", "Batch", "Order", "Explants", "Lost", "Healthy", "Type", "Media", "Initiated", "Pathogen", "Transfers", ""},
		rows,
	))

	b.WriteString(batchForm("Create Batch", "/lab/batches", models.Batch{}, data.OrderOptions))
	return html.RenderLayout("Batches", b.String())
}

func EditBatchPage(batch models.Batch, options []OrderOption, message string) string {
	var b strings.Builder
	b.WriteString(nav.Bar("batches"))
	b.WriteString(fmt.Sprintf("<h1>Edit Batch %d</h1>", batch.ID))
	b.WriteString(html.StatusBanner(message))
	b.WriteString(batchForm("Save", fmt.Sprintf("/lab/batches/%d", batch.ID), batch, options))
	return html.RenderLayout("Edit Batch", b.String())
}

func batchForm(submit, action string, batch models.Batch, options []OrderOption) string {
	var b strings.Builder
	b.WriteString(`<form method="POST" action="` + action + `">`)
	b.WriteString(`<label>Link to order <select name="order_id"><option value="">None</option>`)
	for _, opt := range options {
		selected := ""
		if batch.OrderID != nil && *batch.OrderID == opt.ID {
			selected = " selected"
		}
		b.WriteString(fmt.Sprintf(`<option value="%d"%s>%s</option>`, opt.ID, selected, html.Esc(opt.Label)))
	}
	b.WriteString(`</select></label>`)
	b.WriteString(`<label>Batch name <input name="batch_name" required value="` + html.Esc(batch.Name) + `"></label>`)
	b.WriteString(fmt.Sprintf(`<label>Explants <input type="number" name="num_explants" min="1" required value="%d"></label>`, batch.NumExplants))
	b.WriteString(`<label>Explant type <select name="explant_type">` + html.SelectOptions(models.ExplantTypes, batch.ExplantType) + `</select></label>`)
	b.WriteString(`<label>Media <select name="media_type">` + html.SelectOptions(models.MediaTypes, batch.MediaType) + `</select></label>`)
	b.WriteString(`<label>Hormones <input name="hormones" value="` + html.Esc(deref(batch.Hormones)) + `"></label>`)
	b.WriteString(`<label>Additional elements <input name="additional_elements" value="` + html.Esc(deref(batch.AdditionalElements)) + `"></label>`)
	b.WriteString(`<label>Initiation date <input type="date" name="initiation_date" required value="` + html.Esc(batch.InitiationDate) + `"></label>`)
	b.WriteString(`<label>Pathogen <select name="pathogen_status"><option value="">None detected</option>` + html.SelectOptions(models.PathogenOptions, deref(batch.PathogenStatus)) + `</select></label>`)
	b.WriteString(`<label>Notes <textarea name="notes">` + html.Esc(batch.Notes) + `</textarea></label>`)
	b.WriteString(`<button type="submit">` + html.Esc(submit) + `</button></form>`)
	return b.String()
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
