package batches

import (
	"context"
	"fmt"
	"strings"

	"github.com/uptrace/bun"

	"proptrack/infrastructure/audit"
	"proptrack/infrastructure/sqlite"
	"proptrack/models"
)

// List returns batches with lineage summaries, optionally filtered by
// explant type. The lost subtotal uses the legacy aggregate only when
// a record carries neither modern field, matching
// lineage.NormalizeContamination.
func List(ctx context.Context, db *sqlite.DB, explantType string) ([]BatchRow, error) {
	rows := make([]BatchRow, 0)
	explantType = strings.TrimSpace(explantType)
	err := db.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		q := `
SELECT b.id, COALESCE(b.order_id, 0) AS order_id,
       COALESCE(o.client_name || ' - ' || o.cultivar, '') AS order_label,
       b.batch_name, b.num_explants, b.explant_type, b.media_type, b.initiation_date,
       COALESCE(b.pathogen_status, '') AS pathogen_status,
       COALESCE((SELECT SUM(CASE WHEN cr.num_lost IS NULL AND cr.num_affected IS NULL THEN cr.num_infected ELSE COALESCE(cr.num_lost, 0) END)
                 FROM contamination_records cr WHERE cr.batch_id = b.id), 0) AS total_lost,
       (SELECT COUNT(*) FROM transfer_records tr WHERE tr.batch_id = b.id) AS transfer_count
FROM explant_batches b
LEFT JOIN orders o ON o.id = b.order_id`
		args := []any{}
		if explantType != "" {
			q += ` WHERE b.explant_type = ?`
			args = append(args, explantType)
		}
		q += ` ORDER BY b.initiation_date DESC, b.id DESC`
		return tx.NewRaw(q, args...).Scan(ctx, &rows)
	})
	if err != nil {
		return nil, err
	}
	for i := range rows {
		rows[i].HealthyRemaining = rows[i].NumExplants - rows[i].TotalLost
	}
	return rows, nil
}

// LoadByID loads one batch.
func LoadByID(ctx context.Context, db *sqlite.DB, id int64) (models.Batch, error) {
	var batch models.Batch
	err := db.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		return tx.NewSelect().Model(&batch).Where("b.id = ?", id).Limit(1).Scan(ctx)
	})
	return batch, err
}

// ListOrderOptions returns open orders for the batch link dropdown.
func ListOrderOptions(ctx context.Context, db *sqlite.DB) ([]OrderOption, error) {
	type row struct {
		ID    int64  `bun:"id"`
		Label string `bun:"label"`
	}
	raw := make([]row, 0)
	err := db.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		return tx.NewRaw(`
SELECT id, client_name || ' - ' || cultivar || ' (' || order_date || ')' AS label
FROM orders WHERE completed = 0 ORDER BY order_date DESC, id DESC`).Scan(ctx, &raw)
	})
	if err != nil {
		return nil, err
	}
	options := make([]OrderOption, 0, len(raw))
	for _, r := range raw {
		options = append(options, OrderOption{ID: r.ID, Label: r.Label})
	}
	return options, nil
}

// Create inserts a batch.
func Create(ctx context.Context, db *sqlite.DB, auditSvc *audit.Service, batch models.Batch) (models.Batch, error) {
	err := db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewInsert().Model(&batch).Exec(ctx); err != nil {
			return err
		}
		return auditSvc.Write(ctx, tx, "batch.create", "explant_batches", fmt.Sprintf("%d", batch.ID), nil, batch)
	})
	return batch, err
}

// Update replaces a batch's editable fields.
func Update(ctx context.Context, db *sqlite.DB, auditSvc *audit.Service, batch models.Batch) error {
	return db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		var before models.Batch
		if err := tx.NewSelect().Model(&before).Where("b.id = ?", batch.ID).Limit(1).Scan(ctx); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `
UPDATE explant_batches
SET order_id = ?, batch_name = ?, num_explants = ?, explant_type = ?, media_type = ?,
    hormones = ?, additional_elements = ?, initiation_date = ?, pathogen_status = ?, notes = ?
WHERE id = ?`,
			batch.OrderID, batch.Name, batch.NumExplants, batch.ExplantType, batch.MediaType,
			batch.Hormones, batch.AdditionalElements, batch.InitiationDate, batch.PathogenStatus, batch.Notes, batch.ID); err != nil {
			return err
		}
		return auditSvc.Write(ctx, tx, "batch.update", "explant_batches", fmt.Sprintf("%d", batch.ID), before, batch)
	})
}

// Delete removes a batch and cascades to its contamination, transfer
// and rooting records in one transaction.
func Delete(ctx context.Context, db *sqlite.DB, auditSvc *audit.Service, id int64) error {
	return db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		var before models.Batch
		if err := tx.NewSelect().Model(&before).Where("b.id = ?", id).Limit(1).Scan(ctx); err != nil {
			return err
		}
		for _, stmt := range []string{
			`DELETE FROM rooting_records WHERE batch_id = ?`,
			`DELETE FROM transfer_records WHERE batch_id = ?`,
			`DELETE FROM contamination_records WHERE batch_id = ?`,
			`DELETE FROM explant_batches WHERE id = ?`,
		} {
			if _, err := tx.ExecContext(ctx, stmt, id); err != nil {
				return err
			}
		}
		return auditSvc.Write(ctx, tx, "batch.delete", "explant_batches", fmt.Sprintf("%d", id), before, nil)
	})
}
