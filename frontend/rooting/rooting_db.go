package rooting

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/uptrace/bun"

	"proptrack/infrastructure/audit"
	"proptrack/infrastructure/sqlite"
	"proptrack/lineage"
	"proptrack/models"
)

// List returns rooting records, optionally filtered by batch.
func List(ctx context.Context, db *sqlite.DB, batchID int64) ([]RecordRow, error) {
	rows := make([]RecordRow, 0)
	err := db.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		q := `
SELECT rr.id, COALESCE(rr.transfer_id, 0) AS transfer_id, rr.batch_id,
       COALESCE(b.batch_name, '') AS batch_name,
       rr.num_placed, rr.placement_date,
       COALESCE(rr.num_rooted, 0) AS num_rooted,
       CASE WHEN rr.num_rooted IS NOT NULL THEN 1 ELSE 0 END AS confirmed,
       COALESCE(rr.rooting_date, '') AS rooting_date,
       COALESCE(rr.notes, '') AS notes
FROM rooting_records rr
LEFT JOIN explant_batches b ON b.id = rr.batch_id`
		args := []any{}
		if batchID > 0 {
			q += ` WHERE rr.batch_id = ?`
			args = append(args, batchID)
		}
		q += ` ORDER BY rr.placement_date DESC, rr.id DESC`
		return tx.NewRaw(q, args...).Scan(ctx, &rows)
	})
	return rows, err
}

// LoadByID loads one record.
func LoadByID(ctx context.Context, db *sqlite.DB, id int64) (models.RootingRecord, error) {
	var rec models.RootingRecord
	err := db.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		return tx.NewSelect().Model(&rec).Where("rr.id = ?", id).Limit(1).Scan(ctx)
	})
	return rec, err
}

// ListBatchOptions returns all batches.
func ListBatchOptions(ctx context.Context, db *sqlite.DB) ([]BatchOption, error) {
	type row struct {
		ID   int64  `bun:"id"`
		Name string `bun:"batch_name"`
	}
	raw := make([]row, 0)
	err := db.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		return tx.NewRaw(`SELECT id, batch_name FROM explant_batches ORDER BY initiation_date DESC, id DESC`).Scan(ctx, &raw)
	})
	if err != nil {
		return nil, err
	}
	options := make([]BatchOption, 0, len(raw))
	for _, r := range raw {
		options = append(options, BatchOption{ID: r.ID, Label: r.Name})
	}
	return options, nil
}

// ListTransferOptions returns a batch's transfers with the unplaced
// remainder of each.
func ListTransferOptions(ctx context.Context, db *sqlite.DB, batchID int64) ([]TransferOption, error) {
	type row struct {
		ID           int64  `bun:"id"`
		TransferDate string `bun:"transfer_date"`
		ExplantsOut  int64  `bun:"explants_out"`
		Placed       int64  `bun:"placed"`
	}
	raw := make([]row, 0)
	err := db.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		return tx.NewRaw(`
SELECT tr.id, tr.transfer_date, tr.explants_out,
       COALESCE((SELECT SUM(rr.num_placed) FROM rooting_records rr WHERE rr.transfer_id = tr.id), 0) AS placed
FROM transfer_records tr
WHERE tr.batch_id = ?
ORDER BY tr.transfer_date ASC, tr.id ASC`, batchID).Scan(ctx, &raw)
	})
	if err != nil {
		return nil, err
	}
	options := make([]TransferOption, 0, len(raw))
	for _, r := range raw {
		options = append(options, TransferOption{
			ID:        r.ID,
			Label:     fmt.Sprintf("#%d %s (%d unplaced)", r.ID, r.TransferDate, r.ExplantsOut-r.Placed),
			Remaining: r.ExplantsOut - r.Placed,
		})
	}
	return options, nil
}

// Create validates a placement against its source transfer and inserts
// it.
func Create(ctx context.Context, db *sqlite.DB, auditSvc *audit.Service, rec models.RootingRecord) (models.RootingRecord, error) {
	err := db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		if err := validateInTx(ctx, tx, rec, 0); err != nil {
			return err
		}
		if _, err := tx.NewInsert().Model(&rec).Exec(ctx); err != nil {
			return err
		}
		return auditSvc.Write(ctx, tx, "rooting.create", "rooting_records", fmt.Sprintf("%d", rec.ID), nil, rec)
	})
	return rec, err
}

// Update validates and replaces a record, excluding its own prior
// placement from the transfer remainder.
func Update(ctx context.Context, db *sqlite.DB, auditSvc *audit.Service, rec models.RootingRecord) error {
	return db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		var before models.RootingRecord
		if err := tx.NewSelect().Model(&before).Where("rr.id = ?", rec.ID).Limit(1).Scan(ctx); err != nil {
			return err
		}
		if rec.NumRooted == nil {
			rec.NumRooted = before.NumRooted
			rec.RootingDate = before.RootingDate
		}
		if err := validateInTx(ctx, tx, rec, rec.ID); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `
UPDATE rooting_records
SET transfer_id = ?, batch_id = ?, num_placed = ?, placement_date = ?, num_rooted = ?, rooting_date = ?, notes = ?
WHERE id = ?`,
			rec.TransferID, rec.BatchID, rec.NumPlaced, rec.PlacementDate, rec.NumRooted, rec.RootingDate, rec.Notes, rec.ID); err != nil {
			return err
		}
		return auditSvc.Write(ctx, tx, "rooting.update", "rooting_records", fmt.Sprintf("%d", rec.ID), before, rec)
	})
}

// Confirm records the rooted count and date on an open placement.
func Confirm(ctx context.Context, db *sqlite.DB, auditSvc *audit.Service, id, numRooted int64, rootingDate string) error {
	return db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		var before models.RootingRecord
		if err := tx.NewSelect().Model(&before).Where("rr.id = ?", id).Limit(1).Scan(ctx); err != nil {
			return err
		}
		if numRooted < 0 || numRooted > before.NumPlaced {
			return fmt.Errorf("number rooted (%d) must be between 0 and number placed (%d)", numRooted, before.NumPlaced)
		}
		if _, err := tx.ExecContext(ctx, `UPDATE rooting_records SET num_rooted = ?, rooting_date = ? WHERE id = ?`, numRooted, rootingDate, id); err != nil {
			return err
		}
		after := before
		after.NumRooted = &numRooted
		after.RootingDate = &rootingDate
		return auditSvc.Write(ctx, tx, "rooting.confirm", "rooting_records", fmt.Sprintf("%d", id), before, after)
	})
}

// Delete removes one placement.
func Delete(ctx context.Context, db *sqlite.DB, auditSvc *audit.Service, id int64) error {
	return db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		var before models.RootingRecord
		if err := tx.NewSelect().Model(&before).Where("rr.id = ?", id).Limit(1).Scan(ctx); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM rooting_records WHERE id = ?`, id); err != nil {
			return err
		}
		return auditSvc.Write(ctx, tx, "rooting.delete", "rooting_records", fmt.Sprintf("%d", id), before, nil)
	})
}

func validateInTx(ctx context.Context, tx bun.Tx, rec models.RootingRecord, excludeID int64) error {
	var transfer *models.TransferRecord
	var existing []models.RootingRecord
	if rec.TransferID != nil {
		var t models.TransferRecord
		if err := tx.NewSelect().Model(&t).Where("tr.id = ?", *rec.TransferID).Limit(1).Scan(ctx); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return fmt.Errorf("transfer %d not found", *rec.TransferID)
			}
			return err
		}
		transfer = &t
		existing = make([]models.RootingRecord, 0)
		if err := tx.NewSelect().Model(&existing).Where("rr.transfer_id = ?", *rec.TransferID).Scan(ctx); err != nil {
			return err
		}
	}
	return lineage.ValidateRooting(transfer, existing, rec, excludeID)
}
