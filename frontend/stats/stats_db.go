package stats

import (
	"context"

	"github.com/uptrace/bun"

	"proptrack/infrastructure/sqlite"
)

// LoadRecords pulls every record the statistics page needs in one read
// transaction. With includeArchived false, batches owned by completed
// orders (and their child records) are filtered out; batches with no
// order, or a dangling order reference, always stay in.
func LoadRecords(ctx context.Context, db *sqlite.DB, includeArchived bool) (Records, map[int64]string, error) {
	var rec Records
	cultivarByBatch := make(map[int64]string)
	err := db.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		batchFilter := ""
		if !includeArchived {
			batchFilter = `
WHERE b.order_id IS NULL
   OR NOT EXISTS (SELECT 1 FROM orders o WHERE o.id = b.order_id AND o.completed = 1)`
		}
		if err := tx.NewRaw(`SELECT b.* FROM explant_batches b` + batchFilter).Scan(ctx, &rec.Batches); err != nil {
			return err
		}
		inBatches := ` WHERE batch_id IN (SELECT b.id FROM explant_batches b` + batchFilter + `)`
		if err := tx.NewRaw(`SELECT * FROM contamination_records` + inBatches).Scan(ctx, &rec.Contamination); err != nil {
			return err
		}
		if err := tx.NewRaw(`SELECT * FROM transfer_records` + inBatches).Scan(ctx, &rec.Transfers); err != nil {
			return err
		}
		if err := tx.NewRaw(`SELECT * FROM rooting_records` + inBatches).Scan(ctx, &rec.Rooting); err != nil {
			return err
		}

		type link struct {
			BatchID  int64  `bun:"batch_id"`
			Cultivar string `bun:"cultivar"`
		}
		var links []link
		if err := tx.NewRaw(`
SELECT b.id AS batch_id, o.cultivar
FROM explant_batches b
JOIN orders o ON o.id = b.order_id`).Scan(ctx, &links); err != nil {
			return err
		}
		for _, l := range links {
			cultivarByBatch[l.BatchID] = l.Cultivar
		}
		return nil
	})
	return rec, cultivarByBatch, err
}
