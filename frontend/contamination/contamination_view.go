package contamination

import (
	"fmt"
	"strings"

	"proptrack/frontend/shared/html"
	"proptrack/frontend/shared/nav"
	"proptrack/models"
)

func ContaminationPage(data PageData) string {
	var b strings.Builder
	b.WriteString(nav.Bar("contamination"))
	b.WriteString("<h1>Contamination</h1>")
	b.WriteString(html.StatusBanner(data.Message))

	b.WriteString(`<form method="GET" action="/lab/contamination"><label>Batch <select name="batch"><option value="">All batches</option>`)
	for _, opt := range data.Batches {
		selected := ""
		if opt.ID == data.BatchFilter {
			selected = " selected"
		}
		b.WriteString(fmt.Sprintf(`<option value="%d"%s>%s</option>`, opt.ID, selected, html.Esc(opt.Label)))
	}
	b.WriteString(`</select></label><button type="submit">Filter</button></form>`)

	rows := make([][]string, 0, len(data.Rows))
	for _, r := range data.Rows {
		rows = append(rows, []string{
			fmt.Sprintf("%d", r.ID),
			html.Esc(r.BatchName),
			fmt.Sprintf("%d", r.NumLost),
			fmt.Sprintf("%d", r.NumAffected),
			html.Esc(r.ContaminationType),
			html.Esc(r.IdentificationDate),
			html.Esc(r.Notes),
			fmt.Sprintf(`<a href="/lab/contamination/%d/edit">Edit</a> <form method="POST" action="/lab/contamination/%d/delete" class="inline"><button type="submit">Delete</button></form>`, r.ID, r.ID),
		})
	}
	b.WriteString(html.Table(
		[]string{"ID", "Batch", "Lost", "Affected", "Type", "Identified", "Notes", ""},
		rows,
	))

	b.WriteString(recordForm("Record Contamination", "/lab/contamination", models.ContaminationRecord{}, data.Batches))
	return html.RenderLayout("Contamination", b.String())
}

func EditContaminationPage(rec models.ContaminationRecord, batches []BatchOption, message string) string {
	var b strings.Builder
	b.WriteString(nav.Bar("contamination"))
	b.WriteString(fmt.Sprintf("<h1>Edit Contamination Record %d</h1>", rec.ID))
	b.WriteString(html.StatusBanner(message))
	b.WriteString(recordForm("Save", fmt.Sprintf("/lab/contamination/%d", rec.ID), rec, batches))
	return html.RenderLayout("Edit Contamination", b.String())
}

func recordForm(submit, action string, rec models.ContaminationRecord, batches []BatchOption) string {
	lost := int64(0)
	affected := int64(0)
	if rec.NumLost != nil {
		lost = *rec.NumLost
	}
	if rec.NumAffected != nil {
		affected = *rec.NumAffected
	}
	var b strings.Builder
	b.WriteString(`<form method="POST" action="` + action + `">`)
	b.WriteString(`<label>Batch <select name="batch_id" required>`)
	for _, opt := range batches {
		selected := ""
		if opt.ID == rec.BatchID {
			selected = " selected"
		}
		b.WriteString(fmt.Sprintf(`<option value="%d"%s>%s</option>`, opt.ID, selected, html.Esc(opt.Label)))
	}
	b.WriteString(`</select></label>`)
	b.WriteString(fmt.Sprintf(`<label>Lost <input type="number" name="num_lost" min="0" value="%d"></label>`, lost))
	b.WriteString(fmt.Sprintf(`<label>Affected <input type="number" name="num_affected" min="0" value="%d"></label>`, affected))
	b.WriteString(`<label>Type <select name="contamination_type">` + html.SelectOptions(models.ContaminationTypes, rec.ContaminationType) + `</select></label>`)
	b.WriteString(`<label>Identified <input type="date" name="identification_date" required value="` + html.Esc(rec.IdentificationDate) + `"></label>`)
	b.WriteString(`<label>Notes <textarea name="notes">` + html.Esc(rec.Notes) + `</textarea></label>`)
	b.WriteString(`<button type="submit">` + html.Esc(submit) + `</button></form>`)
	return b.String()
}
