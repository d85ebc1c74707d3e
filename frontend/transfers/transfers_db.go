package transfers

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"

	"proptrack/infrastructure/audit"
	"proptrack/infrastructure/sqlite"
	"proptrack/lineage"
	"proptrack/models"
)

// ListByBatch returns a batch's transfers arranged as a lineage
// forest, flattened to display lines with indentation depth.
func ListByBatch(ctx context.Context, db *sqlite.DB, batchID int64) ([]TransferLine, error) {
	recs := make([]models.TransferRecord, 0)
	err := db.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		return tx.NewSelect().Model(&recs).Where("tr.batch_id = ?", batchID).Scan(ctx)
	})
	if err != nil {
		return nil, err
	}

	lines := make([]TransferLine, 0, len(recs))
	lineage.Walk(lineage.BuildTransferForest(recs), func(n *lineage.TransferNode, depth int) {
		rec := n.Record
		lines = append(lines, TransferLine{
			ID:                     rec.ID,
			Depth:                  depth,
			TransferDate:           rec.TransferDate,
			ExplantsIn:             rec.ExplantsIn,
			ExplantsOut:            rec.ExplantsOut,
			Ratio:                  lineage.FormatRatio(lineage.MultiplicationRatio(rec.ExplantsIn, rec.ExplantsOut)),
			NewMedia:               rec.NewMedia,
			MultiplicationOccurred: rec.MultiplicationOccurred,
			ToRooting:              rec.NewMedia == models.RootingMedia,
			Notes:                  rec.Notes,
		})
	})
	return lines, nil
}

// LoadByID loads one transfer.
func LoadByID(ctx context.Context, db *sqlite.DB, id int64) (models.TransferRecord, error) {
	var rec models.TransferRecord
	err := db.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		return tx.NewSelect().Model(&rec).Where("tr.id = ?", id).Limit(1).Scan(ctx)
	})
	return rec, err
}

// ListBatchOptions returns all batches for the batch selector.
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

// ListParentOptions returns a batch's transfers for the parent
// selector. When excludeID names the transfer under edit, that
// transfer and everything beneath it are left out, since choosing a
// descendant would close a cycle.
func ListParentOptions(ctx context.Context, db *sqlite.DB, batchID, excludeID int64) ([]ParentOption, error) {
	recs := make([]models.TransferRecord, 0)
	err := db.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		return tx.NewSelect().Model(&recs).Where("tr.batch_id = ?", batchID).
			OrderExpr("tr.transfer_date ASC, tr.id ASC").Scan(ctx)
	})
	if err != nil {
		return nil, err
	}
	var blocked map[int64]bool
	if excludeID > 0 {
		blocked = lineage.DescendantIDs(recs, excludeID)
	}
	options := make([]ParentOption, 0, len(recs))
	for _, r := range recs {
		if blocked[r.ID] {
			continue
		}
		options = append(options, ParentOption{ID: r.ID, Label: fmt.Sprintf("#%d %s (%s)", r.ID, r.TransferDate, r.NewMedia)})
	}
	return options, nil
}

// Create validates and inserts a transfer.
func Create(ctx context.Context, db *sqlite.DB, auditSvc *audit.Service, rec models.TransferRecord) (models.TransferRecord, error) {
	if err := lineage.ValidateTransfer(rec); err != nil {
		return rec, err
	}
	err := db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		if err := validateParentInTx(ctx, tx, rec); err != nil {
			return err
		}
		if _, err := tx.NewInsert().Model(&rec).Exec(ctx); err != nil {
			return err
		}
		return auditSvc.Write(ctx, tx, "transfer.create", "transfer_records", fmt.Sprintf("%d", rec.ID), nil, rec)
	})
	return rec, err
}

// Update validates and replaces a transfer's editable fields.
func Update(ctx context.Context, db *sqlite.DB, auditSvc *audit.Service, rec models.TransferRecord) error {
	if err := lineage.ValidateTransfer(rec); err != nil {
		return err
	}
	return db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		var before models.TransferRecord
		if err := tx.NewSelect().Model(&before).Where("tr.id = ?", rec.ID).Limit(1).Scan(ctx); err != nil {
			return err
		}
		if err := validateParentInTx(ctx, tx, rec); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `
UPDATE transfer_records
SET batch_id = ?, parent_transfer_id = ?, transfer_date = ?, explants_in = ?, explants_out = ?,
    new_media = ?, hormones = ?, additional_elements = ?, multiplication_occurred = ?, notes = ?
WHERE id = ?`,
			rec.BatchID, rec.ParentTransferID, rec.TransferDate, rec.ExplantsIn, rec.ExplantsOut,
			rec.NewMedia, rec.Hormones, rec.AdditionalElements, rec.MultiplicationOccurred, rec.Notes, rec.ID); err != nil {
			return err
		}
		return auditSvc.Write(ctx, tx, "transfer.update", "transfer_records", fmt.Sprintf("%d", rec.ID), before, rec)
	})
}

// validateParentInTx walks the proposed parent chain against the
// batch's stored transfers so a write can never persist a cycle.
func validateParentInTx(ctx context.Context, tx bun.Tx, rec models.TransferRecord) error {
	if rec.ParentTransferID == nil {
		return nil
	}
	siblings := make([]models.TransferRecord, 0)
	if err := tx.NewSelect().Model(&siblings).Where("tr.batch_id = ?", rec.BatchID).Scan(ctx); err != nil {
		return err
	}
	return lineage.ValidateParentChain(siblings, rec)
}

// Delete removes a transfer and the rooting records placed from it.
// Child transfers are detached (parent cleared) so the forest builder
// surfaces them as roots.
func Delete(ctx context.Context, db *sqlite.DB, auditSvc *audit.Service, id int64) error {
	return db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		var before models.TransferRecord
		if err := tx.NewSelect().Model(&before).Where("tr.id = ?", id).Limit(1).Scan(ctx); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM rooting_records WHERE transfer_id = ?`, id); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `UPDATE transfer_records SET parent_transfer_id = NULL WHERE parent_transfer_id = ?`, id); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM transfer_records WHERE id = ?`, id); err != nil {
			return err
		}
		return auditSvc.Write(ctx, tx, "transfer.delete", "transfer_records", fmt.Sprintf("%d", id), before, nil)
	})
}
