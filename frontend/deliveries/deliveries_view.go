package deliveries

import (
	"fmt"
	"strings"

	"proptrack/frontend/shared/html"
	"proptrack/frontend/shared/nav"
	"proptrack/models"
)

func DeliveriesPage(data PageData) string {
	var b strings.Builder
	b.WriteString(nav.Bar("deliveries"))
	b.WriteString("<h1>Deliveries</h1>")
	b.WriteString(html.StatusBanner(data.Message))

	rows := make([][]string, 0, len(data.Rows))
	for _, row := range data.Rows {
		orderCell := "-"
		if row.OrderID > 0 {
			orderCell = html.Esc(row.OrderLabel)
			if orderCell == "" {
				orderCell = fmt.Sprintf("order %d (deleted)", row.OrderID)
			}
		}
		batchCell := "-"
		if row.BatchID > 0 {
			batchCell = html.Esc(row.BatchName)
			if batchCell == "" {
				batchCell = fmt.Sprintf("batch %d (deleted)", row.BatchID)
			}
		}
		rows = append(rows, []string{
			fmt.Sprintf("#%d", row.ID),
			orderCell,
			batchCell,
			fmt.Sprintf("%d", row.NumDelivered),
			html.Esc(row.DeliveryDate),
			html.Esc(row.DeliveryMethod),
			html.Esc(row.Notes),
			fmt.Sprintf(`<a href="/lab/deliveries/%d/edit">Edit</a> <form method="POST" action="/lab/deliveries/%d/delete" class="inline"><button type="submit">Delete</button></form>`, row.ID, row.ID),
		})
	}
	b.WriteString(html.Table(
		[]string{"Delivery", "Order", "Batch", "Plants", "Date", "Method", "Notes", ""},
		rows,
	))

	b.WriteString(deliveryForm("Record Delivery", "/lab/deliveries", models.DeliveryRecord{}, data.Orders, data.Batches))
	return html.RenderLayout("Deliveries", b.String())
}

func EditDeliveryPage(rec models.DeliveryRecord, orders []OrderOption, batches []BatchOption, message string) string {
	var b strings.Builder
	b.WriteString(nav.Bar("deliveries"))
	b.WriteString(fmt.Sprintf("<h1>Edit Delivery %d</h1>", rec.ID))
	b.WriteString(html.StatusBanner(message))
	b.WriteString(deliveryForm("Save", fmt.Sprintf("/lab/deliveries/%d", rec.ID), rec, orders, batches))
	return html.RenderLayout("Edit Delivery", b.String())
}

func deliveryForm(submit, action string, rec models.DeliveryRecord, orders []OrderOption, batches []BatchOption) string {
	var b strings.Builder
	b.WriteString(`<form method="POST" action="` + action + `">`)
	b.WriteString(`<label>Order <select name="order_id"><option value="">None</option>`)
	for _, opt := range orders {
		selected := ""
		if rec.OrderID != nil && *rec.OrderID == opt.ID {
			selected = " selected"
		}
		b.WriteString(fmt.Sprintf(`<option value="%d"%s>%s</option>`, opt.ID, selected, html.Esc(opt.Label)))
	}
	b.WriteString(`</select></label>`)
	b.WriteString(`<label>Batch <select name="batch_id"><option value="">None</option>`)
	for _, opt := range batches {
		selected := ""
		if rec.BatchID != nil && *rec.BatchID == opt.ID {
			selected = " selected"
		}
		b.WriteString(fmt.Sprintf(`<option value="%d"%s>%s</option>`, opt.ID, selected, html.Esc(opt.Label)))
	}
	b.WriteString(`</select></label>`)
	b.WriteString(fmt.Sprintf(`<label>Plants delivered <input type="number" name="num_delivered" min="1" required value="%d"></label>`, rec.NumDelivered))
	b.WriteString(`<label>Delivery date <input type="date" name="delivery_date" required value="` + html.Esc(rec.DeliveryDate) + `"></label>`)
	b.WriteString(`<label>Method <input name="delivery_method" value="` + html.Esc(rec.DeliveryMethod) + `"></label>`)
	b.WriteString(`<label>Notes <textarea name="notes">` + html.Esc(rec.Notes) + `</textarea></label>`)
	b.WriteString(`<button type="submit">` + html.Esc(submit) + `</button></form>`)
	return b.String()
}
