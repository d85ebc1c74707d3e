package transfers

import (
	"fmt"
	"strings"

	"proptrack/frontend/shared/html"
	"proptrack/frontend/shared/nav"
	"proptrack/models"
)

func TransfersPage(data PageData) string {
	var b strings.Builder
	b.WriteString(nav.Bar("transfers"))
	b.WriteString("<h1>Transfers</h1>")
	b.WriteString(html.StatusBanner(data.Message))

	b.WriteString(`<form method="GET" action="/lab/transfers"><label>Batch <select name="batch">`)
	for _, opt := range data.Batches {
		selected := ""
		if opt.ID == data.BatchFilter {
			selected = " selected"
		}
		b.WriteString(fmt.Sprintf(`<option value="%d"%s>%s</option>`, opt.ID, selected, html.Esc(opt.Label)))
	}
	b.WriteString(`</select></label><button type="submit">Show</button></form>`)

	rows := make([][]string, 0, len(data.Lines))
	for _, l := range data.Lines {
		indent := strings.Repeat("&nbsp;&nbsp;", l.Depth)
		flags := ""
		if l.MultiplicationOccurred {
			flags += " multiplied"
		}
		if l.ToRooting {
			flags += " to-rooting"
		}
		rows = append(rows, []string{
			indent + fmt.Sprintf("#%d", l.ID),
			html.Esc(l.TransferDate),
			fmt.Sprintf("%d", l.ExplantsIn),
			fmt.Sprintf("%d", l.ExplantsOut),
			l.Ratio,
			html.Esc(l.NewMedia),
			strings.TrimSpace(flags),
			html.Esc(l.Notes),
			fmt.Sprintf(`<a href="/lab/transfers/%d/edit">Edit</a> <form method="POST" action="/lab/transfers/%d/delete" class="inline"><button type="submit">Delete</button></form>`, l.ID, l.ID),
		})
	}
	b.WriteString(html.Table(
		[]string{"Transfer", "Date", "In", "Out", "Ratio", "Media", "Flags", "Notes", ""},
		rows,
	))

	if data.BatchFilter > 0 {
		b.WriteString(transferForm("Record Transfer", "/lab/transfers", models.TransferRecord{BatchID: data.BatchFilter}, data.Parents))
	}
	return html.RenderLayout("Transfers", b.String())
}

func EditTransferPage(rec models.TransferRecord, parents []ParentOption, message string) string {
	var b strings.Builder
	b.WriteString(nav.Bar("transfers"))
	b.WriteString(fmt.Sprintf("<h1>Edit Transfer %d</h1>", rec.ID))
	b.WriteString(html.StatusBanner(message))
	b.WriteString(transferForm("Save", fmt.Sprintf("/lab/transfers/%d", rec.ID), rec, parents))
	return html.RenderLayout("Edit Transfer", b.String())
}

func transferForm(submit, action string, rec models.TransferRecord, parents []ParentOption) string {
	multiplied := ""
	if rec.MultiplicationOccurred {
		multiplied = " checked"
	}
	var b strings.Builder
	b.WriteString(`<form method="POST" action="` + action + `">`)
	b.WriteString(fmt.Sprintf(`<input type="hidden" name="batch_id" value="%d">`, rec.BatchID))
	b.WriteString(`<label>Parent transfer <select name="parent_transfer_id"><option value="">From initiation</option>`)
	for _, opt := range parents {
		if rec.ID != 0 && opt.ID == rec.ID {
			continue
		}
		selected := ""
		if rec.ParentTransferID != nil && *rec.ParentTransferID == opt.ID {
			selected = " selected"
		}
		b.WriteString(fmt.Sprintf(`<option value="%d"%s>%s</option>`, opt.ID, selected, html.Esc(opt.Label)))
	}
	b.WriteString(`</select></label>`)
	b.WriteString(`<label>Date <input type="date" name="transfer_date" required value="` + html.Esc(rec.TransferDate) + `"></label>`)
	b.WriteString(fmt.Sprintf(`<label>Explants in <input type="number" name="explants_in" min="1" required value="%d"></label>`, rec.ExplantsIn))
	b.WriteString(fmt.Sprintf(`<label>Explants out <input type="number" name="explants_out" min="1" required value="%d"></label>`, rec.ExplantsOut))
	b.WriteString(`<label>New media <select name="new_media">` + html.SelectOptions(models.MediaTypes, rec.NewMedia) + `</select></label>`)
	b.WriteString(`<label>Hormones <input name="hormones" value="` + html.Esc(deref(rec.Hormones)) + `"></label>`)
	b.WriteString(`<label>Additional elements <input name="additional_elements" value="` + html.Esc(deref(rec.AdditionalElements)) + `"></label>`)
	b.WriteString(`<label>Multiplication occurred <input type="checkbox" name="multiplication_occurred" value="1"` + multiplied + `></label>`)
	b.WriteString(`<label>Notes <textarea name="notes">` + html.Esc(rec.Notes) + `</textarea></label>`)
	b.WriteString(`<button type="submit">` + html.Esc(submit) + `</button></form>`)
	return b.String()
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
