package timeline

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/uptrace/bun"

	"proptrack/infrastructure/sqlite"
	"proptrack/models"
)

type BatchOption struct {
	ID    int64
	Label string
}

// ListBatchOptions returns all batches for the timeline selector.
func ListBatchOptions(ctx context.Context, db *sqlite.DB) ([]BatchOption, error) {
	type row struct {
		ID       int64  `bun:"id"`
		Name     string `bun:"batch_name"`
		Cultivar string `bun:"cultivar"`
	}
	raw := make([]row, 0)
	err := db.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		return tx.NewRaw(`
SELECT b.id, b.batch_name, COALESCE(o.cultivar, '') AS cultivar
FROM explant_batches b
LEFT JOIN orders o ON o.id = b.order_id
ORDER BY b.initiation_date DESC, b.id DESC`).Scan(ctx, &raw)
	})
	if err != nil {
		return nil, err
	}
	options := make([]BatchOption, 0, len(raw))
	for _, r := range raw {
		label := r.Name
		if r.Cultivar != "" {
			label = fmt.Sprintf("%s (%s)", r.Name, r.Cultivar)
		}
		options = append(options, BatchOption{ID: r.ID, Label: label})
	}
	return options, nil
}

// LoadInput gathers the full record set for one batch in a single read
// transaction so the assembler sees a consistent snapshot.
func LoadInput(ctx context.Context, db *sqlite.DB, batchID int64) (Input, error) {
	in := Input{Today: time.Now().Format(models.DateLayout)}
	err := db.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		if err := tx.NewSelect().Model(&in.Batch).Where("b.id = ?", batchID).Limit(1).Scan(ctx); err != nil {
			return fmt.Errorf("batch %d not found", batchID)
		}
		if in.Batch.OrderID != nil {
			var order models.Order
			err := tx.NewSelect().Model(&order).Where("o.id = ?", *in.Batch.OrderID).Limit(1).Scan(ctx)
			switch {
			case err == nil:
				in.Order = &order
			case errors.Is(err, sql.ErrNoRows):
				// dangling order reference, render as unlinked
			default:
				return err
			}
		}
		if err := tx.NewSelect().Model(&in.Contamination).Where("cr.batch_id = ?", batchID).
			Order("cr.identification_date ASC", "cr.id ASC").Scan(ctx); err != nil {
			return err
		}
		if err := tx.NewSelect().Model(&in.Transfers).Where("tr.batch_id = ?", batchID).
			Order("tr.transfer_date ASC", "tr.id ASC").Scan(ctx); err != nil {
			return err
		}
		if err := tx.NewSelect().Model(&in.Rooting).Where("rr.batch_id = ?", batchID).
			Order("rr.placement_date ASC", "rr.id ASC").Scan(ctx); err != nil {
			return err
		}
		return tx.NewSelect().Model(&in.Deliveries).Where("dr.batch_id = ?", batchID).
			Order("dr.delivery_date ASC", "dr.id ASC").Scan(ctx)
	})
	return in, err
}
