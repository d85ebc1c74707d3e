// Package lineage holds the quantity and lineage arithmetic shared by
// the record stores, the timeline assembler and the statistics views.
// Everything here is pure: callers load rows and pass them in.
package lineage

import (
	"fmt"

	"proptrack/models"
)

// Contamination is a contamination record normalized to the modern
// two-field shape. Lost explants leave the batch population; affected
// explants are flagged but remain.
type Contamination struct {
	ID       int64
	BatchID  int64
	Lost     int64
	Affected int64
}

// NormalizeContamination resolves the legacy aggregate field. Rows
// written before the lost/affected split carry only num_infected; the
// whole aggregate counts as lost. Rows with either modern field set
// use the modern fields alone.
func NormalizeContamination(rec models.ContaminationRecord) Contamination {
	c := Contamination{ID: rec.ID, BatchID: rec.BatchID}
	if rec.NumLost == nil && rec.NumAffected == nil {
		c.Lost = rec.NumInfected
		return c
	}
	if rec.NumLost != nil {
		c.Lost = *rec.NumLost
	}
	if rec.NumAffected != nil {
		c.Affected = *rec.NumAffected
	}
	return c
}

// NormalizeAll maps NormalizeContamination over a result set.
func NormalizeAll(recs []models.ContaminationRecord) []Contamination {
	out := make([]Contamination, 0, len(recs))
	for _, r := range recs {
		out = append(out, NormalizeContamination(r))
	}
	return out
}

// TotalLost sums explants permanently removed by contamination.
func TotalLost(recs []Contamination) int64 {
	var total int64
	for _, r := range recs {
		total += r.Lost
	}
	return total
}

// HealthyRemaining is the batch population still in culture after all
// contamination losses.
func HealthyRemaining(batch models.Batch, recs []Contamination) int64 {
	return batch.NumExplants - TotalLost(recs)
}

// ValidateContamination checks a proposed contamination record against
// the batch population. On edits, excludeID names the record being
// replaced so its own losses are not counted against the remainder.
func ValidateContamination(batch models.Batch, existing []Contamination, proposed Contamination, excludeID int64) error {
	if proposed.Lost == 0 && proposed.Affected == 0 {
		return fmt.Errorf("contamination record must report at least one lost or affected explant")
	}
	if proposed.Lost < 0 || proposed.Affected < 0 {
		return fmt.Errorf("lost and affected counts cannot be negative")
	}
	var lostElsewhere int64
	for _, r := range existing {
		if excludeID != 0 && r.ID == excludeID {
			continue
		}
		lostElsewhere += r.Lost
	}
	available := batch.NumExplants - lostElsewhere
	if proposed.Lost > available {
		return fmt.Errorf("cannot lose %d explants: only %d remain in batch %q", proposed.Lost, available, batch.Name)
	}
	return nil
}

// ValidateTransfer checks the counts on a proposed transfer.
func ValidateTransfer(t models.TransferRecord) error {
	if t.ExplantsIn <= 0 {
		return fmt.Errorf("explants in must be positive")
	}
	if t.ExplantsOut <= 0 {
		return fmt.Errorf("explants out must be positive")
	}
	return nil
}

// ValidateRooting checks a proposed rooting placement against the
// source transfer output. Placements drawing on the same transfer may
// not cumulatively exceed its explants out. On edits, excludeID names
// the record being replaced.
func ValidateRooting(transfer *models.TransferRecord, existing []models.RootingRecord, proposed models.RootingRecord, excludeID int64) error {
	if proposed.NumPlaced <= 0 {
		return fmt.Errorf("number placed must be positive")
	}
	if proposed.NumRooted != nil {
		if *proposed.NumRooted < 0 {
			return fmt.Errorf("number rooted cannot be negative")
		}
		if *proposed.NumRooted > proposed.NumPlaced {
			return fmt.Errorf("number rooted (%d) cannot exceed number placed (%d)", *proposed.NumRooted, proposed.NumPlaced)
		}
	}
	if transfer == nil {
		return nil
	}
	var placedElsewhere int64
	for _, r := range existing {
		if excludeID != 0 && r.ID == excludeID {
			continue
		}
		if r.TransferID != nil && *r.TransferID == transfer.ID {
			placedElsewhere += r.NumPlaced
		}
	}
	if placedElsewhere+proposed.NumPlaced > transfer.ExplantsOut {
		return fmt.Errorf("cannot place %d explants: transfer produced %d and %d are already placed", proposed.NumPlaced, transfer.ExplantsOut, placedElsewhere)
	}
	return nil
}

// MultiplicationRatio is explants out over explants in. A zero input
// yields zero rather than dividing.
func MultiplicationRatio(in, out int64) float64 {
	if in == 0 {
		return 0
	}
	return float64(out) / float64(in)
}

// FormatRatio renders a multiplication ratio to two decimal places.
func FormatRatio(ratio float64) string {
	return fmt.Sprintf("%.2f", ratio)
}

// Rate is part over whole as a percentage. A zero whole yields zero
// rather than dividing.
func Rate(part, whole int64) float64 {
	if whole == 0 {
		return 0
	}
	return float64(part) / float64(whole) * 100
}

// InfectionRate is total infected (lost + affected) over the initial
// batch population, as a percentage. Zero population yields zero.
func InfectionRate(recs []Contamination, numExplants int64) float64 {
	var infected int64
	for _, r := range recs {
		infected += r.Lost + r.Affected
	}
	return Rate(infected, numExplants)
}

// LossRate is total lost over the initial batch population, as a
// percentage. Zero population yields zero.
func LossRate(recs []Contamination, numExplants int64) float64 {
	return Rate(TotalLost(recs), numExplants)
}

// RootingRate is confirmed rooted over placed, as a percentage across
// a set of rooting records. Unconfirmed records contribute placements
// but no rooted count. Zero placements yields zero.
func RootingRate(recs []models.RootingRecord) float64 {
	var placed, rooted int64
	for _, r := range recs {
		placed += r.NumPlaced
		if r.NumRooted != nil {
			rooted += *r.NumRooted
		}
	}
	return Rate(rooted, placed)
}
