package orders

import (
	"context"
	"fmt"
	"strings"

	"github.com/uptrace/bun"

	"proptrack/infrastructure/audit"
	"proptrack/infrastructure/sqlite"
	"proptrack/models"
)

// List returns open orders, optionally filtered to one client.
func List(ctx context.Context, db *sqlite.DB, clientFilter string) ([]OrderRow, error) {
	rows := make([]OrderRow, 0)
	clientFilter = strings.TrimSpace(clientFilter)
	err := db.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		q := `
SELECT o.id, o.client_name, o.cultivar, o.num_plants, o.plant_size, o.order_date,
       o.delivery_quantity, o.is_recurring, o.completed,
       COALESCE(o.completion_date, '') AS completion_date,
       COALESCE(o.notes, '') AS notes,
       (SELECT COUNT(*) FROM explant_batches b WHERE b.order_id = o.id) AS batch_count,
       COALESCE((SELECT SUM(d.num_delivered) FROM delivery_records d WHERE d.order_id = o.id), 0) AS delivered
FROM orders o
WHERE o.completed = 0`
		args := []any{}
		if clientFilter != "" {
			q += ` AND o.client_name = ?`
			args = append(args, clientFilter)
		}
		q += ` ORDER BY o.order_date DESC, o.id DESC`
		return tx.NewRaw(q, args...).Scan(ctx, &rows)
	})
	return rows, err
}

// ListClients returns the distinct client names across all orders.
func ListClients(ctx context.Context, db *sqlite.DB) ([]string, error) {
	clients := make([]string, 0)
	err := db.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		return tx.NewRaw(`SELECT DISTINCT client_name FROM orders ORDER BY client_name ASC`).Scan(ctx, &clients)
	})
	return clients, err
}

// LoadByID loads one order.
func LoadByID(ctx context.Context, db *sqlite.DB, id int64) (models.Order, error) {
	var order models.Order
	err := db.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		return tx.NewSelect().Model(&order).Where("o.id = ?", id).Limit(1).Scan(ctx)
	})
	return order, err
}

// Create inserts an order and writes its audit row.
func Create(ctx context.Context, db *sqlite.DB, auditSvc *audit.Service, order models.Order) (models.Order, error) {
	err := db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewInsert().Model(&order).Exec(ctx); err != nil {
			return err
		}
		return auditSvc.Write(ctx, tx, "order.create", "orders", fmt.Sprintf("%d", order.ID), nil, order)
	})
	return order, err
}

// Update replaces an order's editable fields.
func Update(ctx context.Context, db *sqlite.DB, auditSvc *audit.Service, order models.Order) error {
	return db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		var before models.Order
		if err := tx.NewSelect().Model(&before).Where("o.id = ?", order.ID).Limit(1).Scan(ctx); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `
UPDATE orders
SET client_name = ?, cultivar = ?, num_plants = ?, plant_size = ?, order_date = ?, delivery_quantity = ?, is_recurring = ?, notes = ?
WHERE id = ?`,
			order.ClientName, order.Cultivar, order.NumPlants, order.PlantSize, order.OrderDate,
			order.DeliveryQuantity, order.IsRecurring, order.Notes, order.ID); err != nil {
			return err
		}
		return auditSvc.Write(ctx, tx, "order.update", "orders", fmt.Sprintf("%d", order.ID), before, order)
	})
}

// Delete removes the order row only. Batches, deliveries and labels
// that reference it keep their order_id and render as unlinked.
func Delete(ctx context.Context, db *sqlite.DB, auditSvc *audit.Service, id int64) error {
	return db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		var before models.Order
		if err := tx.NewSelect().Model(&before).Where("o.id = ?", id).Limit(1).Scan(ctx); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM orders WHERE id = ?`, id); err != nil {
			return err
		}
		return auditSvc.Write(ctx, tx, "order.delete", "orders", fmt.Sprintf("%d", id), before, nil)
	})
}

// MarkCompleted closes an order on the given date.
func MarkCompleted(ctx context.Context, db *sqlite.DB, auditSvc *audit.Service, id int64, completionDate string) error {
	return db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		var before models.Order
		if err := tx.NewSelect().Model(&before).Where("o.id = ?", id).Limit(1).Scan(ctx); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `UPDATE orders SET completed = 1, completion_date = ? WHERE id = ?`, completionDate, id); err != nil {
			return err
		}
		after := before
		after.Completed = true
		after.CompletionDate = &completionDate
		return auditSvc.Write(ctx, tx, "order.complete", "orders", fmt.Sprintf("%d", id), before, after)
	})
}

// MarkIncomplete reopens a completed order and clears its completion
// date.
func MarkIncomplete(ctx context.Context, db *sqlite.DB, auditSvc *audit.Service, id int64) error {
	return db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		var before models.Order
		if err := tx.NewSelect().Model(&before).Where("o.id = ?", id).Limit(1).Scan(ctx); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `UPDATE orders SET completed = 0, completion_date = NULL WHERE id = ?`, id); err != nil {
			return err
		}
		after := before
		after.Completed = false
		after.CompletionDate = nil
		return auditSvc.Write(ctx, tx, "order.reopen", "orders", fmt.Sprintf("%d", id), before, after)
	})
}

// ListArchive returns completed orders with days-to-complete, newest
// completion first.
func ListArchive(ctx context.Context, db *sqlite.DB) ([]ArchiveRow, ArchiveSummary, error) {
	rows := make([]ArchiveRow, 0)
	var summary ArchiveSummary
	err := db.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		return tx.NewRaw(`
SELECT o.id, o.client_name, o.cultivar, o.num_plants, o.order_date,
       COALESCE(o.completion_date, '') AS completion_date,
       CAST(julianday(o.completion_date) - julianday(o.order_date) AS INTEGER) AS days_to_complete
FROM orders o
WHERE o.completed = 1 AND o.completion_date IS NOT NULL
ORDER BY o.completion_date DESC, o.id DESC`).Scan(ctx, &rows)
	})
	if err != nil {
		return nil, summary, err
	}
	summary.Count = int64(len(rows))
	if len(rows) > 0 {
		var total int64
		for _, r := range rows {
			total += r.DaysToComplete
		}
		summary.AvgDaysToComplete = float64(total) / float64(len(rows))
	}
	return rows, summary, nil
}
