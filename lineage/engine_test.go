package lineage

import (
	"testing"

	"proptrack/models"
)

func i64(v int64) *int64 { return &v }

func TestNormalizeContaminationLegacyFallback(t *testing.T) {
	legacy := models.ContaminationRecord{ID: 1, BatchID: 7, NumInfected: 12}
	got := NormalizeContamination(legacy)
	if got.Lost != 12 || got.Affected != 0 {
		t.Fatalf("legacy row: got lost=%d affected=%d, want 12/0", got.Lost, got.Affected)
	}

	modern := models.ContaminationRecord{ID: 2, BatchID: 7, NumInfected: 12, NumLost: i64(4), NumAffected: i64(8)}
	got = NormalizeContamination(modern)
	if got.Lost != 4 || got.Affected != 8 {
		t.Fatalf("modern row: got lost=%d affected=%d, want 4/8", got.Lost, got.Affected)
	}

	// One modern field present is enough to suppress the fallback.
	partial := models.ContaminationRecord{ID: 3, BatchID: 7, NumInfected: 5, NumAffected: i64(5)}
	got = NormalizeContamination(partial)
	if got.Lost != 0 || got.Affected != 5 {
		t.Fatalf("partial row: got lost=%d affected=%d, want 0/5", got.Lost, got.Affected)
	}
}

func TestHealthyRemaining(t *testing.T) {
	batch := models.Batch{Name: "B1", NumExplants: 100}
	recs := []Contamination{{ID: 1, Lost: 30, Affected: 10}}
	if got := HealthyRemaining(batch, recs); got != 70 {
		t.Fatalf("healthy remaining = %d, want 70", got)
	}
}

func TestValidateContaminationRejectsOverdraw(t *testing.T) {
	batch := models.Batch{Name: "B1", NumExplants: 100}
	existing := []Contamination{{ID: 1, Lost: 30}}

	err := ValidateContamination(batch, existing, Contamination{Lost: 80}, 0)
	if err == nil {
		t.Fatal("expected rejection: 80 lost with only 70 remaining")
	}

	if err := ValidateContamination(batch, existing, Contamination{Lost: 70}, 0); err != nil {
		t.Fatalf("70 lost with 70 remaining should pass: %v", err)
	}
}

func TestValidateContaminationEditAddsBackOwnLoss(t *testing.T) {
	batch := models.Batch{Name: "B1", NumExplants: 100}
	existing := []Contamination{{ID: 1, Lost: 30}, {ID: 2, Lost: 50}}

	// Editing record 2: its own 50 return to the pool, so up to 70 is fine.
	if err := ValidateContamination(batch, existing, Contamination{ID: 2, Lost: 70}, 2); err != nil {
		t.Fatalf("edit raising own loss to 70 should pass: %v", err)
	}
	if err := ValidateContamination(batch, existing, Contamination{ID: 2, Lost: 71}, 2); err == nil {
		t.Fatal("expected rejection: 71 lost with only 70 available on edit")
	}
}

func TestValidateContaminationRejectsEmptyRecord(t *testing.T) {
	batch := models.Batch{Name: "B1", NumExplants: 100}
	if err := ValidateContamination(batch, nil, Contamination{}, 0); err == nil {
		t.Fatal("expected rejection of record with zero lost and zero affected")
	}
	if err := ValidateContamination(batch, nil, Contamination{Affected: 5}, 0); err != nil {
		t.Fatalf("affected-only record should pass: %v", err)
	}
}

func TestValidateRootingCumulativePlacement(t *testing.T) {
	transfer := &models.TransferRecord{ID: 9, ExplantsOut: 50}
	existing := []models.RootingRecord{{ID: 1, TransferID: i64(9), NumPlaced: 30}}

	err := ValidateRooting(transfer, existing, models.RootingRecord{TransferID: i64(9), NumPlaced: 25}, 0)
	if err == nil {
		t.Fatal("expected rejection: 30+25 placed exceeds 50 produced")
	}
	if err := ValidateRooting(transfer, existing, models.RootingRecord{TransferID: i64(9), NumPlaced: 20}, 0); err != nil {
		t.Fatalf("30+20 within 50 should pass: %v", err)
	}
}

func TestValidateRootingRootedWithinPlaced(t *testing.T) {
	rec := models.RootingRecord{NumPlaced: 10, NumRooted: i64(11)}
	if err := ValidateRooting(nil, nil, rec, 0); err == nil {
		t.Fatal("expected rejection: rooted exceeds placed")
	}
	rec.NumRooted = i64(10)
	if err := ValidateRooting(nil, nil, rec, 0); err != nil {
		t.Fatalf("rooted equal to placed should pass: %v", err)
	}
}

func TestValidateRootingEditExcludesOwnPlacement(t *testing.T) {
	transfer := &models.TransferRecord{ID: 9, ExplantsOut: 50}
	existing := []models.RootingRecord{
		{ID: 1, TransferID: i64(9), NumPlaced: 30},
		{ID: 2, TransferID: i64(9), NumPlaced: 20},
	}
	// Editing record 2 up to 20 again is fine; 21 overdraws.
	if err := ValidateRooting(transfer, existing, models.RootingRecord{ID: 2, TransferID: i64(9), NumPlaced: 20}, 2); err != nil {
		t.Fatalf("edit keeping placement at 20 should pass: %v", err)
	}
	if err := ValidateRooting(transfer, existing, models.RootingRecord{ID: 2, TransferID: i64(9), NumPlaced: 21}, 2); err == nil {
		t.Fatal("expected rejection: 30+21 exceeds 50 on edit")
	}
}

func TestMultiplicationRatio(t *testing.T) {
	if got := FormatRatio(MultiplicationRatio(20, 50)); got != "2.50" {
		t.Fatalf("ratio 50/20 formatted = %q, want 2.50", got)
	}
	if got := MultiplicationRatio(0, 50); got != 0 {
		t.Fatalf("zero input ratio = %v, want 0", got)
	}
}

func TestRatesZeroDenominator(t *testing.T) {
	if got := InfectionRate(nil, 0); got != 0 {
		t.Fatalf("infection rate with empty batch = %v, want 0", got)
	}
	if got := LossRate(nil, 0); got != 0 {
		t.Fatalf("loss rate with empty batch = %v, want 0", got)
	}
	if got := RootingRate(nil); got != 0 {
		t.Fatalf("rooting rate with no placements = %v, want 0", got)
	}
}

func TestRateFromTotals(t *testing.T) {
	if got := Rate(27, 150); got != 18 {
		t.Fatalf("rate 27/150 = %v, want 18", got)
	}
	if got := Rate(30, 50); got != 60 {
		t.Fatalf("rate 30/50 = %v, want 60", got)
	}
	if got := Rate(5, 0); got != 0 {
		t.Fatalf("rate with zero whole = %v, want 0", got)
	}
}

func TestRates(t *testing.T) {
	recs := []Contamination{{Lost: 10, Affected: 15}, {Lost: 5}}
	if got := InfectionRate(recs, 100); got != 30 {
		t.Fatalf("infection rate = %v, want 30", got)
	}
	if got := LossRate(recs, 100); got != 15 {
		t.Fatalf("loss rate = %v, want 15", got)
	}
	rooting := []models.RootingRecord{
		{NumPlaced: 40, NumRooted: i64(30)},
		{NumPlaced: 10}, // placement awaiting confirmation
	}
	if got := RootingRate(rooting); got != 60 {
		t.Fatalf("rooting rate = %v, want 60", got)
	}
}
