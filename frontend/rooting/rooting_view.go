package rooting

import (
	"fmt"
	"strings"

	"proptrack/frontend/shared/html"
	"proptrack/frontend/shared/nav"
	"proptrack/models"
)

func RootingPage(data PageData) string {
	var b strings.Builder
	b.WriteString(nav.Bar("rooting"))
	b.WriteString("<h1>Rooting</h1>")
	b.WriteString(html.StatusBanner(data.Message))

	b.WriteString(`<form method="GET" action="/lab/rooting"><label>Batch <select name="batch">`)
	for _, opt := range data.Batches {
		selected := ""
		if opt.ID == data.BatchFilter {
			selected = " selected"
		}
		b.WriteString(fmt.Sprintf(`<option value="%d"%s>%s</option>`, opt.ID, selected, html.Esc(opt.Label)))
	}
	b.WriteString(`</select></label><button type="submit">Show</button></form>`)

	rows := make([][]string, 0, len(data.Rows))
	for _, row := range data.Rows {
		source := "initiation"
		if row.TransferID > 0 {
			source = fmt.Sprintf("transfer #%d", row.TransferID)
		}
		status := "awaiting confirmation"
		if row.Confirmed {
			status = fmt.Sprintf("%d rooted on %s", row.NumRooted, html.Esc(row.RootingDate))
		}
		actions := fmt.Sprintf(`<a href="/lab/rooting/%d/edit">Edit</a> <form method="POST" action="/lab/rooting/%d/delete" class="inline"><button type="submit">Delete</button></form>`, row.ID, row.ID)
		if !row.Confirmed {
			actions = confirmForm(row) + " " + actions
		}
		rows = append(rows, []string{
			fmt.Sprintf("#%d", row.ID),
			html.Esc(row.BatchName),
			source,
			fmt.Sprintf("%d", row.NumPlaced),
			html.Esc(row.PlacementDate),
			status,
			html.Esc(row.Notes),
			actions,
		})
	}
	b.WriteString(html.Table(
		[]string{"Placement", "Batch", "Source", "Placed", "Date", "Status", "Notes", ""},
		rows,
	))

	if data.BatchFilter > 0 {
		b.WriteString(placementForm("Record Placement", "/lab/rooting", models.RootingRecord{BatchID: data.BatchFilter}, data.Transfers))
	}
	return html.RenderLayout("Rooting", b.String())
}

func EditRootingPage(rec models.RootingRecord, transfers []TransferOption, message string) string {
	var b strings.Builder
	b.WriteString(nav.Bar("rooting"))
	b.WriteString(fmt.Sprintf("<h1>Edit Rooting Placement %d</h1>", rec.ID))
	b.WriteString(html.StatusBanner(message))
	b.WriteString(placementForm("Save", fmt.Sprintf("/lab/rooting/%d", rec.ID), rec, transfers))
	return html.RenderLayout("Edit Rooting Placement", b.String())
}

func confirmForm(row RecordRow) string {
	return fmt.Sprintf(`<form method="POST" action="/lab/rooting/%d/confirm" class="inline">`+
		`<input type="number" name="num_rooted" min="0" max="%d" required>`+
		`<input type="date" name="rooting_date" required>`+
		`<button type="submit">Confirm</button></form>`, row.ID, row.NumPlaced)
}

func placementForm(submit, action string, rec models.RootingRecord, transfers []TransferOption) string {
	var b strings.Builder
	b.WriteString(`<form method="POST" action="` + action + `">`)
	b.WriteString(fmt.Sprintf(`<input type="hidden" name="batch_id" value="%d">`, rec.BatchID))
	b.WriteString(`<label>Source transfer <select name="transfer_id"><option value="">From initiation</option>`)
	for _, opt := range transfers {
		selected := ""
		if rec.TransferID != nil && *rec.TransferID == opt.ID {
			selected = " selected"
		}
		b.WriteString(fmt.Sprintf(`<option value="%d"%s>%s</option>`, opt.ID, selected, html.Esc(opt.Label)))
	}
	b.WriteString(`</select></label>`)
	b.WriteString(fmt.Sprintf(`<label>Explants placed <input type="number" name="num_placed" min="1" required value="%d"></label>`, rec.NumPlaced))
	b.WriteString(`<label>Placement date <input type="date" name="placement_date" required value="` + html.Esc(rec.PlacementDate) + `"></label>`)
	b.WriteString(`<label>Notes <textarea name="notes">` + html.Esc(rec.Notes) + `</textarea></label>`)
	b.WriteString(`<button type="submit">` + html.Esc(submit) + `</button></form>`)
	return b.String()
}
