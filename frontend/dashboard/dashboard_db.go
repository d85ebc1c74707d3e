package dashboard

import (
	"context"

	"github.com/uptrace/bun"

	"proptrack/infrastructure/sqlite"
	"proptrack/lineage"
)

type Summary struct {
	OpenOrders    int64
	TotalBatches  int64
	TotalExplants int64
	TotalInfected int64
	TotalLost     int64
	InfectionRate float64
}

type RecentOrder struct {
	ID         int64  `bun:"id"`
	ClientName string `bun:"client_name"`
	Cultivar   string `bun:"cultivar"`
	NumPlants  int64  `bun:"num_plants"`
	OrderDate  string `bun:"order_date"`
}

type RecentBatch struct {
	ID             int64  `bun:"id"`
	BatchName      string `bun:"batch_name"`
	NumExplants    int64  `bun:"num_explants"`
	InitiationDate string `bun:"initiation_date"`
}

// LoadSummary computes the landing-page headline figures in one read
// transaction.
func LoadSummary(ctx context.Context, db *sqlite.DB) (Summary, []RecentOrder, []RecentBatch, error) {
	var s Summary
	orders := make([]RecentOrder, 0)
	batches := make([]RecentBatch, 0)
	err := db.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		if err := tx.NewRaw(`SELECT COUNT(*) FROM orders WHERE completed = 0`).Scan(ctx, &s.OpenOrders); err != nil {
			return err
		}
		if err := tx.NewRaw(`SELECT COUNT(*) FROM explant_batches`).Scan(ctx, &s.TotalBatches); err != nil {
			return err
		}
		if err := tx.NewRaw(`SELECT COALESCE(SUM(num_explants), 0) FROM explant_batches`).Scan(ctx, &s.TotalExplants); err != nil {
			return err
		}
		if err := tx.NewRaw(`SELECT COALESCE(SUM(num_infected), 0) FROM contamination_records`).Scan(ctx, &s.TotalInfected); err != nil {
			return err
		}
		if err := tx.NewRaw(`
SELECT COALESCE(SUM(CASE WHEN num_lost IS NULL AND num_affected IS NULL
                         THEN num_infected ELSE COALESCE(num_lost, 0) END), 0)
FROM contamination_records`).Scan(ctx, &s.TotalLost); err != nil {
			return err
		}
		if err := tx.NewRaw(`
SELECT o.id, o.client_name, o.cultivar, o.num_plants, o.order_date
FROM orders o
WHERE o.completed = 0
ORDER BY o.order_date DESC, o.id DESC
LIMIT 5`).Scan(ctx, &orders); err != nil {
			return err
		}
		return tx.NewRaw(`
SELECT b.id, b.batch_name, b.num_explants, b.initiation_date
FROM explant_batches b
ORDER BY b.initiation_date DESC, b.id DESC
LIMIT 5`).Scan(ctx, &batches)
	})
	if err != nil {
		return s, nil, nil, err
	}
	s.InfectionRate = lineage.Rate(s.TotalInfected, s.TotalExplants)
	return s, orders, batches, nil
}
