package deliveries

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"

	"proptrack/infrastructure/audit"
	"proptrack/infrastructure/sqlite"
	"proptrack/models"
)

// List returns all deliveries, newest first, with order and batch
// labels resolved where the referenced rows still exist.
func List(ctx context.Context, db *sqlite.DB) ([]DeliveryRow, error) {
	rows := make([]DeliveryRow, 0)
	err := db.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		return tx.NewRaw(`
SELECT dr.id, COALESCE(dr.order_id, 0) AS order_id,
       COALESCE(o.client_name || ' / ' || o.cultivar, '') AS order_label,
       COALESCE(dr.batch_id, 0) AS batch_id,
       COALESCE(b.batch_name, '') AS batch_name,
       dr.num_delivered, dr.delivery_date,
       COALESCE(dr.delivery_method, '') AS delivery_method,
       COALESCE(dr.notes, '') AS notes
FROM delivery_records dr
LEFT JOIN orders o ON o.id = dr.order_id
LEFT JOIN explant_batches b ON b.id = dr.batch_id
ORDER BY dr.delivery_date DESC, dr.id DESC`).Scan(ctx, &rows)
	})
	return rows, err
}

// LoadByID loads one delivery.
func LoadByID(ctx context.Context, db *sqlite.DB, id int64) (models.DeliveryRecord, error) {
	var rec models.DeliveryRecord
	err := db.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		return tx.NewSelect().Model(&rec).Where("dr.id = ?", id).Limit(1).Scan(ctx)
	})
	return rec, err
}

// ListOrderOptions returns open orders with delivered-so-far tallies.
func ListOrderOptions(ctx context.Context, db *sqlite.DB) ([]OrderOption, error) {
	type row struct {
		ID         int64  `bun:"id"`
		ClientName string `bun:"client_name"`
		Cultivar   string `bun:"cultivar"`
		NumPlants  int64  `bun:"num_plants"`
		Delivered  int64  `bun:"delivered"`
	}
	raw := make([]row, 0)
	err := db.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		return tx.NewRaw(`
SELECT o.id, o.client_name, o.cultivar, o.num_plants,
       COALESCE((SELECT SUM(dr.num_delivered) FROM delivery_records dr WHERE dr.order_id = o.id), 0) AS delivered
FROM orders o
WHERE o.completed = 0
ORDER BY o.order_date ASC, o.id ASC`).Scan(ctx, &raw)
	})
	if err != nil {
		return nil, err
	}
	options := make([]OrderOption, 0, len(raw))
	for _, r := range raw {
		options = append(options, OrderOption{
			ID:        r.ID,
			Label:     fmt.Sprintf("%s / %s (%d of %d delivered)", r.ClientName, r.Cultivar, r.Delivered, r.NumPlants),
			Ordered:   r.NumPlants,
			Delivered: r.Delivered,
		})
	}
	return options, nil
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

// Create inserts a delivery.
func Create(ctx context.Context, db *sqlite.DB, auditSvc *audit.Service, rec models.DeliveryRecord) (models.DeliveryRecord, error) {
	err := db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		if rec.NumDelivered <= 0 {
			return fmt.Errorf("number delivered must be greater than zero")
		}
		if _, err := tx.NewInsert().Model(&rec).Exec(ctx); err != nil {
			return err
		}
		return auditSvc.Write(ctx, tx, "delivery.create", "delivery_records", fmt.Sprintf("%d", rec.ID), nil, rec)
	})
	return rec, err
}

// Update replaces a delivery.
func Update(ctx context.Context, db *sqlite.DB, auditSvc *audit.Service, rec models.DeliveryRecord) error {
	return db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		if rec.NumDelivered <= 0 {
			return fmt.Errorf("number delivered must be greater than zero")
		}
		var before models.DeliveryRecord
		if err := tx.NewSelect().Model(&before).Where("dr.id = ?", rec.ID).Limit(1).Scan(ctx); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `
UPDATE delivery_records
SET order_id = ?, batch_id = ?, num_delivered = ?, delivery_date = ?, delivery_method = ?, notes = ?
WHERE id = ?`,
			rec.OrderID, rec.BatchID, rec.NumDelivered, rec.DeliveryDate, rec.DeliveryMethod, rec.Notes, rec.ID); err != nil {
			return err
		}
		return auditSvc.Write(ctx, tx, "delivery.update", "delivery_records", fmt.Sprintf("%d", rec.ID), before, rec)
	})
}

// Delete removes a delivery.
func Delete(ctx context.Context, db *sqlite.DB, auditSvc *audit.Service, id int64) error {
	return db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		var before models.DeliveryRecord
		if err := tx.NewSelect().Model(&before).Where("dr.id = ?", id).Limit(1).Scan(ctx); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM delivery_records WHERE id = ?`, id); err != nil {
			return err
		}
		return auditSvc.Write(ctx, tx, "delivery.delete", "delivery_records", fmt.Sprintf("%d", id), before, nil)
	})
}
