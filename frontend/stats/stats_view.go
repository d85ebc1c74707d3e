package stats

import (
	"fmt"
	"strings"

	"proptrack/frontend/shared/html"
	"proptrack/frontend/shared/nav"
)

type PageData struct {
	Message         string
	IncludeArchived bool
	Global          GlobalStats
	ByCultivar      []CultivarStats
	Population      []PopulationPoint
	CultivarCurves  []CultivarPopulation
}

func StatsPage(data PageData) string {
	var b strings.Builder
	b.WriteString(nav.Bar("stats"))
	b.WriteString("<h1>Statistics</h1>")
	b.WriteString(html.StatusBanner(data.Message))

	checked := ""
	if data.IncludeArchived {
		checked = " checked"
	}
	b.WriteString(`<form method="GET" action="/lab/stats"><label>Include archived orders <input type="checkbox" name="archived" value="1"` + checked + `></label><button type="submit">Apply</button></form>`)

	g := data.Global
	b.WriteString("<h2>Global</h2>")
	b.WriteString(html.Table(
		[]string{"Metric", "Value"},
		[][]string{
			{"Batches", fmt.Sprintf("%d", g.TotalBatches)},
			{"Total explants", fmt.Sprintf("%d", g.TotalExplants)},
			{"Infection rate", fmt.Sprintf("%.1f%%", g.InfectionRate)},
			{"Loss rate", fmt.Sprintf("%.1f%%", g.LossRate)},
			{"Rooting rate", fmt.Sprintf("%.1f%%", g.RootingRate)},
			{"Avg days: initiation to first transfer", avgOrNA(g.AvgInitToTransferDays, g.InitToTransferSamples)},
			{"Avg days in rooting media", avgOrNA(g.AvgDaysInRooting, g.RootingTimeSamples)},
		},
	))

	b.WriteString("<h2>Per Cultivar</h2>")
	cultivarRows := make([][]string, 0, len(data.ByCultivar))
	for _, c := range data.ByCultivar {
		cultivarRows = append(cultivarRows, []string{
			html.Esc(c.Cultivar),
			fmt.Sprintf("%d", c.Batches),
			fmt.Sprintf("%d", c.TotalExplants),
			fmt.Sprintf("%.1f%%", c.InfectionRate),
			fmt.Sprintf("%.1f%%", c.LossRate),
			fmt.Sprintf("%.1f%%", c.RootingRate),
			avgOrNA(c.AvgDaysInRooting, c.RootingTimeSamples),
		})
	}
	b.WriteString(html.Table(
		[]string{"Cultivar", "Batches", "Explants", "Infection", "Loss", "Rooting", "Avg Days in Rooting"},
		cultivarRows,
	))

	b.WriteString("<h2>Explants Over Time</h2>")
	popRows := make([][]string, 0, len(data.Population))
	for _, p := range data.Population {
		popRows = append(popRows, []string{
			html.Esc(p.Date),
			fmt.Sprintf("%+d", p.Change),
			fmt.Sprintf("%d", p.Cumulative),
		})
	}
	b.WriteString(html.Table([]string{"Date", "Change", "Cumulative"}, popRows))

	for _, curve := range data.CultivarCurves {
		b.WriteString("<h3>" + html.Esc(curve.Cultivar) + "</h3>")
		rows := make([][]string, 0, len(curve.Points))
		for _, p := range curve.Points {
			rows = append(rows, []string{
				html.Esc(p.Date),
				fmt.Sprintf("%+d", p.Change),
				fmt.Sprintf("%d", p.Cumulative),
			})
		}
		b.WriteString(html.Table([]string{"Date", "Change", "Cumulative"}, rows))
	}

	return html.RenderLayout("Statistics", b.String())
}

func avgOrNA(avg float64, samples int) string {
	if samples == 0 {
		return "N/A"
	}
	return fmt.Sprintf("%.1f", avg)
}
