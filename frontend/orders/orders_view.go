package orders

import (
	"fmt"
	"strings"

	"proptrack/frontend/shared/html"
	"proptrack/frontend/shared/nav"
	"proptrack/models"
)

func OrdersPage(data PageData) string {
	var b strings.Builder
	b.WriteString(nav.Bar("orders"))
	b.WriteString("<h1>Orders</h1>")
	b.WriteString(html.StatusBanner(data.Message))

	b.WriteString(`<form method="GET" action="/lab/orders"><label>Client <select name="client"><option value="">All clients</option>`)
	b.WriteString(html.SelectOptions(data.Clients, data.ClientFilter))
	b.WriteString(`</select></label><button type="submit">Filter</button></form>`)

	rows := make([][]string, 0, len(data.Rows))
	for _, r := range data.Rows {
		recurring := ""
		if r.IsRecurring {
			recurring = "yes"
		}
		rows = append(rows, []string{
			fmt.Sprintf("%d", r.ID),
			html.Esc(r.ClientName),
			html.Esc(r.Cultivar),
			fmt.Sprintf("%d", r.NumPlants),
			html.Esc(r.PlantSize),
			html.Esc(r.OrderDate),
			fmt.Sprintf("%d / %d", r.Delivered, r.DeliveryQuantity),
			recurring,
			fmt.Sprintf("%d", r.BatchCount),
			actionsCell(r.ID),
		})
	}
	b.WriteString(html.Table(
		[]string{"ID", "Client", "Cultivar", "Plants", "Size", "Ordered", "Delivered", "Recurring", "Batches", ""},
		rows,
	))

	b.WriteString(orderForm("Create Order", "/lab/orders", models.Order{}))
	return html.RenderLayout("Orders", b.String())
}

func EditOrderPage(order models.Order, message string) string {
	var b strings.Builder
	b.WriteString(nav.Bar("orders"))
	b.WriteString(fmt.Sprintf("<h1>Edit Order %d</h1>", order.ID))
	b.WriteString(html.StatusBanner(message))
	b.WriteString(orderForm("Save", fmt.Sprintf("/lab/orders/%d", order.ID), order))
	return html.RenderLayout("Edit Order", b.String())
}

func ArchivePage(rows []ArchiveRow, summary ArchiveSummary, message string) string {
	var b strings.Builder
	b.WriteString(nav.Bar("archive"))
	b.WriteString("<h1>Completed Orders</h1>")
	b.WriteString(html.StatusBanner(message))
	b.WriteString(fmt.Sprintf("<p>%d completed orders, average %.1f days to complete</p>", summary.Count, summary.AvgDaysToComplete))

	tableRows := make([][]string, 0, len(rows))
	for _, r := range rows {
		tableRows = append(tableRows, []string{
			fmt.Sprintf("%d", r.ID),
			html.Esc(r.ClientName),
			html.Esc(r.Cultivar),
			fmt.Sprintf("%d", r.NumPlants),
			html.Esc(r.OrderDate),
			html.Esc(r.CompletionDate),
			fmt.Sprintf("%d", r.DaysToComplete),
			`<form method="POST" action="` + fmt.Sprintf("/lab/orders/%d/reopen", r.ID) + `"><button type="submit">Reopen</button></form>`,
		})
	}
	b.WriteString(html.Table(
		[]string{"ID", "Client", "Cultivar", "Plants", "Ordered", "Completed", "Days", ""},
		tableRows,
	))
	return html.RenderLayout("Archive", b.String())
}

func actionsCell(id int64) string {
	return fmt.Sprintf(
		`<a href="/lab/orders/%d/edit">Edit</a> `+
			`<a href="/lab/timeline?order=%d">Timeline</a> `+
			`<form method="POST" action="/lab/orders/%d/complete" class="inline"><input type="date" name="completion_date" required><button type="submit">Complete</button></form>`+
			`<form method="POST" action="/lab/orders/%d/delete" class="inline"><button type="submit">Delete</button></form>`,
		id, id, id, id)
}

func orderForm(submit, action string, o models.Order) string {
	recurring := ""
	if o.IsRecurring {
		recurring = " checked"
	}
	var b strings.Builder
	b.WriteString(`<form method="POST" action="` + action + `">`)
	b.WriteString(`<label>Client <input name="client_name" required value="` + html.Esc(o.ClientName) + `"></label>`)
	b.WriteString(`<label>Cultivar <input name="cultivar" required value="` + html.Esc(o.Cultivar) + `"></label>`)
	b.WriteString(fmt.Sprintf(`<label>Plants <input type="number" name="num_plants" min="1" required value="%d"></label>`, o.NumPlants))
	b.WriteString(`<label>Size <select name="plant_size">` + html.SelectOptions(models.PlantSizes, o.PlantSize) + `</select></label>`)
	b.WriteString(`<label>Order date <input type="date" name="order_date" required value="` + html.Esc(o.OrderDate) + `"></label>`)
	b.WriteString(fmt.Sprintf(`<label>Delivery quantity <input type="number" name="delivery_quantity" min="0" value="%d"></label>`, o.DeliveryQuantity))
	b.WriteString(`<label>Recurring <input type="checkbox" name="is_recurring" value="1"` + recurring + `></label>`)
	b.WriteString(`<label>Notes <textarea name="notes">` + html.Esc(o.Notes) + `</textarea></label>`)
	b.WriteString(`<button type="submit">` + html.Esc(submit) + `</button></form>`)
	return b.String()
}
