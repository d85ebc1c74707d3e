package contamination

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"

	"proptrack/infrastructure/audit"
	"proptrack/infrastructure/sqlite"
	"proptrack/lineage"
	"proptrack/models"
)

// List returns contamination records normalized to the modern
// lost/affected shape, optionally filtered by batch.
func List(ctx context.Context, db *sqlite.DB, batchID int64) ([]RecordRow, error) {
	recs := make([]models.ContaminationRecord, 0)
	names := make(map[int64]string)
	err := db.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		q := tx.NewSelect().Model(&recs).Order("cr.identification_date DESC", "cr.id DESC")
		if batchID > 0 {
			q = q.Where("cr.batch_id = ?", batchID)
		}
		if err := q.Scan(ctx); err != nil {
			return err
		}
		type nameRow struct {
			ID   int64  `bun:"id"`
			Name string `bun:"batch_name"`
		}
		nameRows := make([]nameRow, 0)
		if err := tx.NewRaw(`SELECT id, batch_name FROM explant_batches`).Scan(ctx, &nameRows); err != nil {
			return err
		}
		for _, n := range nameRows {
			names[n.ID] = n.Name
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	rows := make([]RecordRow, 0, len(recs))
	for _, rec := range recs {
		norm := lineage.NormalizeContamination(rec)
		rows = append(rows, RecordRow{
			ID:                 rec.ID,
			BatchID:            rec.BatchID,
			BatchName:          names[rec.BatchID],
			NumLost:            norm.Lost,
			NumAffected:        norm.Affected,
			ContaminationType:  rec.ContaminationType,
			IdentificationDate: rec.IdentificationDate,
			Notes:              rec.Notes,
		})
	}
	return rows, nil
}

// LoadByID loads one record.
func LoadByID(ctx context.Context, db *sqlite.DB, id int64) (models.ContaminationRecord, error) {
	var rec models.ContaminationRecord
	err := db.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		return tx.NewSelect().Model(&rec).Where("cr.id = ?", id).Limit(1).Scan(ctx)
	})
	return rec, err
}

// ListBatchOptions returns batches with their healthy remainder for
// the record form.
func ListBatchOptions(ctx context.Context, db *sqlite.DB) ([]BatchOption, error) {
	type row struct {
		ID        int64  `bun:"id"`
		Name      string `bun:"batch_name"`
		Explants  int64  `bun:"num_explants"`
		TotalLost int64  `bun:"total_lost"`
	}
	raw := make([]row, 0)
	err := db.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		return tx.NewRaw(`
SELECT b.id, b.batch_name, b.num_explants,
       COALESCE((SELECT SUM(CASE WHEN cr.num_lost IS NULL AND cr.num_affected IS NULL THEN cr.num_infected ELSE COALESCE(cr.num_lost, 0) END)
                 FROM contamination_records cr WHERE cr.batch_id = b.id), 0) AS total_lost
FROM explant_batches b
ORDER BY b.initiation_date DESC, b.id DESC`).Scan(ctx, &raw)
	})
	if err != nil {
		return nil, err
	}
	options := make([]BatchOption, 0, len(raw))
	for _, r := range raw {
		options = append(options, BatchOption{
			ID:        r.ID,
			Label:     fmt.Sprintf("%s (%d healthy)", r.Name, r.Explants-r.TotalLost),
			Remaining: r.Explants - r.TotalLost,
		})
	}
	return options, nil
}

// Create validates the record against the batch population and inserts
// it. num_infected is written as lost+affected so legacy readers keep
// seeing the aggregate.
func Create(ctx context.Context, db *sqlite.DB, auditSvc *audit.Service, rec models.ContaminationRecord) (models.ContaminationRecord, error) {
	err := db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		if err := validateInTx(ctx, tx, rec, 0); err != nil {
			return err
		}
		rec.NumInfected = derefInt(rec.NumLost) + derefInt(rec.NumAffected)
		if _, err := tx.NewInsert().Model(&rec).Exec(ctx); err != nil {
			return err
		}
		return auditSvc.Write(ctx, tx, "contamination.create", "contamination_records", fmt.Sprintf("%d", rec.ID), nil, rec)
	})
	return rec, err
}

// Update validates and replaces a record. The record's own prior loss
// is excluded when checking the remainder.
func Update(ctx context.Context, db *sqlite.DB, auditSvc *audit.Service, rec models.ContaminationRecord) error {
	return db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		var before models.ContaminationRecord
		if err := tx.NewSelect().Model(&before).Where("cr.id = ?", rec.ID).Limit(1).Scan(ctx); err != nil {
			return err
		}
		if err := validateInTx(ctx, tx, rec, rec.ID); err != nil {
			return err
		}
		rec.NumInfected = derefInt(rec.NumLost) + derefInt(rec.NumAffected)
		if _, err := tx.ExecContext(ctx, `
UPDATE contamination_records
SET batch_id = ?, num_infected = ?, num_lost = ?, num_affected = ?, contamination_type = ?, identification_date = ?, notes = ?
WHERE id = ?`,
			rec.BatchID, rec.NumInfected, rec.NumLost, rec.NumAffected, rec.ContaminationType,
			rec.IdentificationDate, rec.Notes, rec.ID); err != nil {
			return err
		}
		return auditSvc.Write(ctx, tx, "contamination.update", "contamination_records", fmt.Sprintf("%d", rec.ID), before, rec)
	})
}

// Delete removes one record; the explants it had removed return to the
// batch's healthy remainder.
func Delete(ctx context.Context, db *sqlite.DB, auditSvc *audit.Service, id int64) error {
	return db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		var before models.ContaminationRecord
		if err := tx.NewSelect().Model(&before).Where("cr.id = ?", id).Limit(1).Scan(ctx); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM contamination_records WHERE id = ?`, id); err != nil {
			return err
		}
		return auditSvc.Write(ctx, tx, "contamination.delete", "contamination_records", fmt.Sprintf("%d", id), before, nil)
	})
}

func validateInTx(ctx context.Context, tx bun.Tx, rec models.ContaminationRecord, excludeID int64) error {
	var batch models.Batch
	if err := tx.NewSelect().Model(&batch).Where("b.id = ?", rec.BatchID).Limit(1).Scan(ctx); err != nil {
		return fmt.Errorf("batch %d not found", rec.BatchID)
	}
	existing := make([]models.ContaminationRecord, 0)
	if err := tx.NewSelect().Model(&existing).Where("cr.batch_id = ?", rec.BatchID).Scan(ctx); err != nil {
		return err
	}
	return lineage.ValidateContamination(batch, lineage.NormalizeAll(existing), lineage.NormalizeContamination(rec), excludeID)
}

func derefInt(v *int64) int64 {
	if v == nil {
		return 0
	}
	return *v
}
