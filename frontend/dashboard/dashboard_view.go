package dashboard

import (
	"fmt"
	"strings"

	"proptrack/frontend/shared/html"
	"proptrack/frontend/shared/nav"
)

func DashboardPage(s Summary, orders []RecentOrder, batches []RecentBatch, message string) string {
	var b strings.Builder
	b.WriteString(nav.Bar("dashboard"))
	b.WriteString("<h1>Lab Dashboard</h1>")
	b.WriteString(html.StatusBanner(message))

	b.WriteString(html.Table(
		[]string{"Open Orders", "Batches", "Explants Initiated", "Explants Lost", "Infection Rate"},
		[][]string{{
			fmt.Sprintf("%d", s.OpenOrders),
			fmt.Sprintf("%d", s.TotalBatches),
			fmt.Sprintf("%d", s.TotalExplants),
			fmt.Sprintf("%d", s.TotalLost),
			fmt.Sprintf("%.1f%%", s.InfectionRate),
		}},
	))

	b.WriteString("<h2>Recent Orders</h2>")
	orderRows := make([][]string, 0, len(orders))
	for _, o := range orders {
		orderRows = append(orderRows, []string{
			fmt.Sprintf(`<a href="/lab/orders/%d/edit">#%d</a>`, o.ID, o.ID),
			html.Esc(o.ClientName),
			html.Esc(o.Cultivar),
			fmt.Sprintf("%d", o.NumPlants),
			html.Esc(o.OrderDate),
		})
	}
	b.WriteString(html.Table([]string{"Order", "Client", "Cultivar", "Plants", "Date"}, orderRows))

	b.WriteString("<h2>Recent Batches</h2>")
	batchRows := make([][]string, 0, len(batches))
	for _, batch := range batches {
		batchRows = append(batchRows, []string{
			fmt.Sprintf(`<a href="/lab/batches/%d/edit">#%d</a>`, batch.ID, batch.ID),
			html.Esc(batch.BatchName),
			fmt.Sprintf("%d", batch.NumExplants),
			html.Esc(batch.InitiationDate),
		})
	}
	b.WriteString(html.Table([]string{"Batch", "Name", "Explants", "Initiated"}, batchRows))

	return html.RenderLayout("Dashboard", b.String())
}
