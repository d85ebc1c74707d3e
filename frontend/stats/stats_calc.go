package stats

import (
	"sort"
	"time"

	"proptrack/lineage"
	"proptrack/models"
)

// Records is the raw material for every figure on the statistics page,
// already filtered for archive inclusion by the caller.
type Records struct {
	Batches       []models.Batch
	Contamination []models.ContaminationRecord
	Transfers     []models.TransferRecord
	Rooting       []models.RootingRecord
}

type GlobalStats struct {
	TotalBatches  int
	TotalExplants int64
	TotalInfected int64
	TotalLost     int64
	TotalPlaced   int64
	TotalRooted   int64

	InfectionRate float64
	LossRate      float64
	RootingRate   float64

	AvgInitToTransferDays float64
	InitToTransferSamples int
	AvgDaysInRooting      float64
	RootingTimeSamples    int
}

// ComputeGlobal derives the headline figures. All rates are
// percentages; zero denominators yield zero.
func ComputeGlobal(rec Records) GlobalStats {
	g := GlobalStats{TotalBatches: len(rec.Batches)}
	for _, b := range rec.Batches {
		g.TotalExplants += b.NumExplants
	}
	for _, cr := range rec.Contamination {
		g.TotalInfected += cr.NumInfected
		g.TotalLost += lineage.NormalizeContamination(cr).Lost
	}
	for _, rr := range rec.Rooting {
		g.TotalPlaced += rr.NumPlaced
		if rr.NumRooted != nil {
			g.TotalRooted += *rr.NumRooted
		}
	}
	g.InfectionRate = lineage.Rate(g.TotalInfected, g.TotalExplants)
	g.LossRate = lineage.Rate(g.TotalLost, g.TotalExplants)
	g.RootingRate = lineage.Rate(g.TotalRooted, g.TotalPlaced)
	g.AvgInitToTransferDays, g.InitToTransferSamples = avgInitToFirstTransfer(rec.Batches, rec.Transfers)
	g.AvgDaysInRooting, g.RootingTimeSamples = avgDaysInRooting(rec.Rooting)
	return g
}

type CultivarStats struct {
	Cultivar      string
	Batches       int
	TotalExplants int64
	TotalInfected int64
	TotalLost     int64

	InfectionRate float64
	LossRate      float64
	RootingRate   float64

	AvgDaysInRooting   float64
	RootingTimeSamples int
}

// ComputeByCultivar splits the global figures by the owning order's
// cultivar. Batches with no resolvable order fall under "(no order)".
func ComputeByCultivar(rec Records, cultivarByBatch map[int64]string) []CultivarStats {
	split := splitByCultivar(rec, cultivarByBatch)

	out := make([]CultivarStats, 0, len(split))
	for cultivar, r := range split {
		g := ComputeGlobal(r)
		out = append(out, CultivarStats{
			Cultivar:           cultivar,
			Batches:            g.TotalBatches,
			TotalExplants:      g.TotalExplants,
			TotalInfected:      g.TotalInfected,
			TotalLost:          g.TotalLost,
			InfectionRate:      g.InfectionRate,
			LossRate:           g.LossRate,
			RootingRate:        g.RootingRate,
			AvgDaysInRooting:   g.AvgDaysInRooting,
			RootingTimeSamples: g.RootingTimeSamples,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Cultivar < out[j].Cultivar })
	return out
}

func splitByCultivar(rec Records, cultivarByBatch map[int64]string) map[string]Records {
	split := make(map[string]Records)
	for _, b := range rec.Batches {
		key := cultivarKey(cultivarByBatch, b.ID)
		r := split[key]
		r.Batches = append(r.Batches, b)
		split[key] = r
	}
	for _, cr := range rec.Contamination {
		key := cultivarKey(cultivarByBatch, cr.BatchID)
		r := split[key]
		r.Contamination = append(r.Contamination, cr)
		split[key] = r
	}
	for _, tr := range rec.Transfers {
		key := cultivarKey(cultivarByBatch, tr.BatchID)
		r := split[key]
		r.Transfers = append(r.Transfers, tr)
		split[key] = r
	}
	for _, rr := range rec.Rooting {
		key := cultivarKey(cultivarByBatch, rr.BatchID)
		r := split[key]
		r.Rooting = append(r.Rooting, rr)
		split[key] = r
	}
	return split
}

func cultivarKey(cultivarByBatch map[int64]string, batchID int64) string {
	if c, ok := cultivarByBatch[batchID]; ok && c != "" {
		return c
	}
	return "(no order)"
}

// PopulationPoint is one step of the explant-count-over-time series.
type PopulationPoint struct {
	Date       string
	Change     int64
	Cumulative int64
}

// PopulationSeries folds initiations (+count), contamination losses
// (−lost) and transfer net change (out−in) into a daily cumulative
// population curve.
func PopulationSeries(rec Records) []PopulationPoint {
	changes := make(map[string]int64)
	for _, b := range rec.Batches {
		changes[b.InitiationDate] += b.NumExplants
	}
	for _, cr := range rec.Contamination {
		changes[cr.IdentificationDate] -= lineage.NormalizeContamination(cr).Lost
	}
	for _, tr := range rec.Transfers {
		changes[tr.TransferDate] += tr.ExplantsOut - tr.ExplantsIn
	}

	dates := make([]string, 0, len(changes))
	for d := range changes {
		dates = append(dates, d)
	}
	sort.Strings(dates)

	points := make([]PopulationPoint, 0, len(dates))
	var running int64
	for _, d := range dates {
		running += changes[d]
		points = append(points, PopulationPoint{Date: d, Change: changes[d], Cumulative: running})
	}
	return points
}

// CultivarPopulation pairs a cultivar with its own population curve.
type CultivarPopulation struct {
	Cultivar string
	Points   []PopulationPoint
}

func PopulationSeriesByCultivar(rec Records, cultivarByBatch map[int64]string) []CultivarPopulation {
	split := splitByCultivar(rec, cultivarByBatch)
	out := make([]CultivarPopulation, 0, len(split))
	for cultivar, r := range split {
		out = append(out, CultivarPopulation{Cultivar: cultivar, Points: PopulationSeries(r)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Cultivar < out[j].Cultivar })
	return out
}

func avgInitToFirstTransfer(batches []models.Batch, transfers []models.TransferRecord) (float64, int) {
	firstTransfer := make(map[int64]time.Time)
	for _, tr := range transfers {
		d, err := time.Parse(models.DateLayout, tr.TransferDate)
		if err != nil {
			continue
		}
		if prev, ok := firstTransfer[tr.BatchID]; !ok || d.Before(prev) {
			firstTransfer[tr.BatchID] = d
		}
	}
	var total float64
	var n int
	for _, b := range batches {
		first, ok := firstTransfer[b.ID]
		if !ok {
			continue
		}
		init, err := time.Parse(models.DateLayout, b.InitiationDate)
		if err != nil {
			continue
		}
		days := first.Sub(init).Hours() / 24
		if days >= 0 {
			total += days
			n++
		}
	}
	if n == 0 {
		return 0, 0
	}
	return total / float64(n), n
}

func avgDaysInRooting(rooting []models.RootingRecord) (float64, int) {
	var total float64
	var n int
	for _, rr := range rooting {
		if rr.RootingDate == nil {
			continue
		}
		placed, err := time.Parse(models.DateLayout, rr.PlacementDate)
		if err != nil {
			continue
		}
		rooted, err := time.Parse(models.DateLayout, *rr.RootingDate)
		if err != nil {
			continue
		}
		days := rooted.Sub(placed).Hours() / 24
		if days >= 0 {
			total += days
			n++
		}
	}
	if n == 0 {
		return 0, 0
	}
	return total / float64(n), n
}
