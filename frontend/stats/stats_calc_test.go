package stats

import (
	"math"
	"testing"

	"proptrack/models"
)

func intPtr(n int64) *int64   { return &n }
func strPtr(s string) *string { return &s }

func sampleRecords() Records {
	return Records{
		Batches: []models.Batch{
			{ID: 1, Name: "BD-1", NumExplants: 100, InitiationDate: "2025-01-15"},
			{ID: 2, Name: "GG-1", NumExplants: 50, InitiationDate: "2025-02-01"},
		},
		Contamination: []models.ContaminationRecord{
			// modern split: 10 lost, 5 affected (15 infected total)
			{ID: 1, BatchID: 1, NumInfected: 15, NumLost: intPtr(10), NumAffected: intPtr(5),
				ContaminationType: "Fungal", IdentificationDate: "2025-01-25"},
			// legacy aggregate: all 12 count as lost
			{ID: 2, BatchID: 2, NumInfected: 12,
				ContaminationType: "Bacterial", IdentificationDate: "2025-02-10"},
		},
		Transfers: []models.TransferRecord{
			{ID: 1, BatchID: 1, TransferDate: "2025-01-25", ExplantsIn: 20, ExplantsOut: 50, NewMedia: "100% MS"},
			{ID: 2, BatchID: 1, TransferDate: "2025-01-20", ExplantsIn: 10, ExplantsOut: 10, NewMedia: "100% MS"},
		},
		Rooting: []models.RootingRecord{
			{ID: 1, BatchID: 1, NumPlaced: 40, PlacementDate: "2025-03-01",
				NumRooted: intPtr(30), RootingDate: strPtr("2025-03-11")},
			{ID: 2, BatchID: 1, NumPlaced: 10, PlacementDate: "2025-03-01"},
		},
	}
}

func approx(got, want float64) bool { return math.Abs(got-want) < 1e-9 }

func TestComputeGlobal(t *testing.T) {
	g := ComputeGlobal(sampleRecords())

	if g.TotalExplants != 150 || g.TotalInfected != 27 || g.TotalLost != 22 {
		t.Fatalf("totals: %+v", g)
	}
	if !approx(g.InfectionRate, 18) { // 27/150
		t.Fatalf("infection rate = %v", g.InfectionRate)
	}
	if !approx(g.RootingRate, 60) { // 30/50
		t.Fatalf("rooting rate = %v", g.RootingRate)
	}
	// Batch 1's earliest transfer is 2025-01-20, 5 days after
	// initiation; batch 2 has none.
	if g.InitToTransferSamples != 1 || !approx(g.AvgInitToTransferDays, 5) {
		t.Fatalf("init-to-transfer: %v over %d samples", g.AvgInitToTransferDays, g.InitToTransferSamples)
	}
	if g.RootingTimeSamples != 1 || !approx(g.AvgDaysInRooting, 10) {
		t.Fatalf("days in rooting: %v over %d samples", g.AvgDaysInRooting, g.RootingTimeSamples)
	}
}

func TestComputeGlobalEmpty(t *testing.T) {
	g := ComputeGlobal(Records{})
	if g.InfectionRate != 0 || g.RootingRate != 0 || g.LossRate != 0 {
		t.Fatalf("zero denominators must yield zero rates: %+v", g)
	}
	if g.InitToTransferSamples != 0 || g.RootingTimeSamples != 0 {
		t.Fatalf("no samples expected: %+v", g)
	}
}

func TestComputeByCultivar(t *testing.T) {
	rec := sampleRecords()
	byCultivar := ComputeByCultivar(rec, map[int64]string{1: "Blue Dream"})

	if len(byCultivar) != 2 {
		t.Fatalf("expected Blue Dream plus (no order): %+v", byCultivar)
	}
	// sorted alphabetically: "(no order)" then "Blue Dream"
	noOrder, blueDream := byCultivar[0], byCultivar[1]
	if noOrder.Cultivar != "(no order)" || noOrder.TotalExplants != 50 || noOrder.TotalLost != 12 {
		t.Fatalf("unlinked batch bucket: %+v", noOrder)
	}
	if blueDream.Cultivar != "Blue Dream" || blueDream.TotalExplants != 100 || blueDream.TotalLost != 10 {
		t.Fatalf("blue dream bucket: %+v", blueDream)
	}
	if !approx(blueDream.RootingRate, 60) {
		t.Fatalf("blue dream rooting rate = %v", blueDream.RootingRate)
	}
}

func TestPopulationSeriesByCultivar(t *testing.T) {
	curves := PopulationSeriesByCultivar(sampleRecords(), map[int64]string{1: "Blue Dream"})

	if len(curves) != 2 {
		t.Fatalf("expected Blue Dream plus (no order): %+v", curves)
	}
	noOrder, blueDream := curves[0], curves[1]
	if noOrder.Cultivar != "(no order)" || len(noOrder.Points) != 2 {
		t.Fatalf("unlinked curve: %+v", noOrder)
	}
	if last := noOrder.Points[len(noOrder.Points)-1]; last.Cumulative != 38 { // 50 - 12 legacy
		t.Fatalf("unlinked cumulative = %+v", last)
	}
	if blueDream.Cultivar != "Blue Dream" {
		t.Fatalf("cultivar curve: %+v", blueDream)
	}
	if last := blueDream.Points[len(blueDream.Points)-1]; last.Cumulative != 120 {
		t.Fatalf("blue dream cumulative = %+v", last)
	}
}

func TestPopulationSeries(t *testing.T) {
	points := PopulationSeries(sampleRecords())

	want := []PopulationPoint{
		{Date: "2025-01-15", Change: 100, Cumulative: 100},
		{Date: "2025-01-20", Change: 0, Cumulative: 100},  // transfer 10 in, 10 out
		{Date: "2025-01-25", Change: 20, Cumulative: 120}, // +30 transfer net, -10 lost
		{Date: "2025-02-01", Change: 50, Cumulative: 170},
		{Date: "2025-02-10", Change: -12, Cumulative: 158}, // legacy aggregate
	}
	if len(points) != len(want) {
		t.Fatalf("expected %d points, got %+v", len(want), points)
	}
	for i, p := range points {
		if p != want[i] {
			t.Fatalf("point %d = %+v, want %+v", i, p, want[i])
		}
	}
}
