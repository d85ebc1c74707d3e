package labels

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"proptrack/infrastructure/audit"
	"proptrack/infrastructure/sqlite"
	"proptrack/models"
)

// List returns label batches, newest first, optionally scoped to one
// order.
func List(ctx context.Context, db *sqlite.DB, orderID int64) ([]LabelRow, error) {
	rows := make([]LabelRow, 0)
	err := db.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		q := `
SELECT lb.id, lb.order_id, lb.label_uuid, lb.client_name, lb.cultivar,
       lb.order_date, lb.initiation_date, lb.stages,
       COALESCE(lb.pathogen_status, '') AS pathogen_status,
       COALESCE(lb.num_explants, 0) AS num_explants,
       lb.num_labels, COALESCE(lb.notes, '') AS notes, lb.created_at
FROM label_batches lb`
		args := []any{}
		if orderID > 0 {
			q += ` WHERE lb.order_id = ?`
			args = append(args, orderID)
		}
		q += ` ORDER BY lb.created_at DESC, lb.id DESC`
		return tx.NewRaw(q, args...).Scan(ctx, &rows)
	})
	return rows, err
}

// LoadByID loads one snapshot.
func LoadByID(ctx context.Context, db *sqlite.DB, id int64) (models.LabelBatch, error) {
	var lb models.LabelBatch
	err := db.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		return tx.NewSelect().Model(&lb).Where("lb.id = ?", id).Limit(1).Scan(ctx)
	})
	return lb, err
}

// LoadByToken resolves a scanned barcode or QR token.
func LoadByToken(ctx context.Context, db *sqlite.DB, token string) (models.LabelBatch, error) {
	var lb models.LabelBatch
	err := db.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		return tx.NewSelect().Model(&lb).Where("lb.label_uuid = ?", token).Limit(1).Scan(ctx)
	})
	return lb, err
}

// ListOrderOptions returns open orders plus the pathogens flagged on
// their batches, for pre-filling the generation form.
func ListOrderOptions(ctx context.Context, db *sqlite.DB) ([]OrderOption, error) {
	type orderRow struct {
		ID         int64  `bun:"id"`
		ClientName string `bun:"client_name"`
		Cultivar   string `bun:"cultivar"`
	}
	type pathogenRow struct {
		OrderID        int64  `bun:"order_id"`
		PathogenStatus string `bun:"pathogen_status"`
	}
	var orders []orderRow
	var pathogens []pathogenRow
	err := db.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		if err := tx.NewRaw(`
SELECT o.id, o.client_name, o.cultivar
FROM orders o
WHERE o.completed = 0
ORDER BY o.order_date DESC, o.id DESC`).Scan(ctx, &orders); err != nil {
			return err
		}
		return tx.NewRaw(`
SELECT DISTINCT b.order_id AS order_id, b.pathogen_status
FROM explant_batches b
WHERE b.order_id IS NOT NULL AND b.pathogen_status IS NOT NULL AND b.pathogen_status != ''`).Scan(ctx, &pathogens)
	})
	if err != nil {
		return nil, err
	}
	byOrder := make(map[int64][]string)
	for _, p := range pathogens {
		byOrder[p.OrderID] = append(byOrder[p.OrderID], p.PathogenStatus)
	}
	options := make([]OrderOption, 0, len(orders))
	for _, o := range orders {
		options = append(options, OrderOption{
			ID:        o.ID,
			Label:     fmt.Sprintf("%s / %s (#%d)", o.ClientName, o.Cultivar, o.ID),
			Pathogens: byOrder[o.ID],
		})
	}
	return options, nil
}

// Generate snapshots the order into a new label batch with a fresh
// token. The snapshot survives later edits or deletion of the order.
func Generate(ctx context.Context, db *sqlite.DB, auditSvc *audit.Service, req GenerateRequest) (models.LabelBatch, error) {
	var lb models.LabelBatch
	err := db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		if req.NumLabels <= 0 {
			return fmt.Errorf("number of labels must be greater than zero")
		}
		stages := append([]string{}, req.Stages...)
		if s := strings.TrimSpace(req.CustomStage); s != "" {
			stages = append(stages, s)
		}
		if len(stages) == 0 {
			return fmt.Errorf("select at least one stage or enter a custom stage")
		}

		var order models.Order
		if err := tx.NewSelect().Model(&order).Where("o.id = ?", req.OrderID).Limit(1).Scan(ctx); err != nil {
			return fmt.Errorf("order %d not found", req.OrderID)
		}

		var pathogens []string
		if req.IncludeDetected {
			if err := tx.NewRaw(`
SELECT DISTINCT b.pathogen_status
FROM explant_batches b
WHERE b.order_id = ? AND b.pathogen_status IS NOT NULL AND b.pathogen_status != ''`, req.OrderID).Scan(ctx, &pathogens); err != nil {
				return err
			}
		}
		for _, p := range strings.Split(req.ExtraPathogens, ",") {
			if p = strings.TrimSpace(p); p != "" {
				pathogens = append(pathogens, p)
			}
		}

		lb = models.LabelBatch{
			OrderID:        order.ID,
			Token:          uuid.NewString(),
			ClientName:     order.ClientName,
			Cultivar:       order.Cultivar,
			OrderDate:      order.OrderDate,
			InitiationDate: req.InitiationDate,
			Stages:         strings.Join(stages, ", "),
			NumLabels:      req.NumLabels,
			Notes:          req.Notes,
		}
		if len(pathogens) > 0 {
			joined := strings.Join(pathogens, ", ")
			lb.PathogenStatus = &joined
		}
		if req.NumExplants > 0 {
			n := req.NumExplants
			lb.NumExplants = &n
		}
		if _, err := tx.NewInsert().Model(&lb).Exec(ctx); err != nil {
			return err
		}
		return auditSvc.Write(ctx, tx, "label.create", "label_batches", fmt.Sprintf("%d", lb.ID), nil, lb)
	})
	return lb, err
}

// Delete removes a label batch snapshot. Printed labels bearing its
// token stop resolving.
func Delete(ctx context.Context, db *sqlite.DB, auditSvc *audit.Service, id int64) error {
	return db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		var before models.LabelBatch
		if err := tx.NewSelect().Model(&before).Where("lb.id = ?", id).Limit(1).Scan(ctx); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM label_batches WHERE id = ?`, id); err != nil {
			return err
		}
		return auditSvc.Write(ctx, tx, "label.delete", "label_batches", fmt.Sprintf("%d", id), before, nil)
	})
}
