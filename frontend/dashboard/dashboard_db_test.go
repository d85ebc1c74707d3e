package dashboard

import (
	"context"
	"math"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/uptrace/bun"

	"proptrack/infrastructure/sqlite"
)

func openDashboardTestDB(t *testing.T) *sqlite.DB {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "dashboard-test.db")
	db, err := sqlite.OpenDB(dbPath)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatalf("runtime caller unavailable")
	}
	migrationsDir := filepath.Join(filepath.Dir(file), "..", "..", "infrastructure", "sqlite", "migrations")
	if err := sqlite.ApplyMigrations(context.Background(), db, migrationsDir); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	return db
}

func TestLoadSummary(t *testing.T) {
	db := openDashboardTestDB(t)
	ctx := context.Background()

	if err := db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.ExecContext(ctx, `
INSERT INTO orders (client_name, cultivar, num_plants, plant_size, order_date, completed, completion_date)
VALUES ('Green Valley', 'Blue Dream', 200, 'Clones', '2025-01-10', 0, NULL),
       ('Hilltop', 'Gorilla Glue', 100, 'Teens', '2024-11-01', 1, '2025-01-05')`); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `
INSERT INTO explant_batches (order_id, batch_name, num_explants, explant_type, media_type, initiation_date)
VALUES (1, 'BD-1', 100, 'Node', '100% MS', '2025-01-15'),
       (NULL, 'LOOSE-1', 50, 'Microshoot', '50% MS', '2025-02-01')`); err != nil {
			return err
		}
		// One modern split (10 lost + 5 affected) and one legacy aggregate.
		_, err := tx.ExecContext(ctx, `
INSERT INTO contamination_records (batch_id, num_infected, num_lost, num_affected, contamination_type, identification_date)
VALUES (1, 15, 10, 5, 'Fungal', '2025-01-25'),
       (2, 12, NULL, NULL, 'Bacterial', '2025-02-10')`)
		return err
	}); err != nil {
		t.Fatalf("seed records: %v", err)
	}

	summary, orders, batches, err := LoadSummary(ctx, db)
	if err != nil {
		t.Fatalf("load summary: %v", err)
	}
	if summary.OpenOrders != 1 || summary.TotalBatches != 2 || summary.TotalExplants != 150 {
		t.Fatalf("counts: %+v", summary)
	}
	if summary.TotalInfected != 27 || summary.TotalLost != 22 {
		t.Fatalf("contamination totals: %+v", summary)
	}
	if math.Abs(summary.InfectionRate-18) > 1e-9 { // 27/150
		t.Fatalf("infection rate = %v, want 18", summary.InfectionRate)
	}
	if len(orders) != 1 || orders[0].ClientName != "Green Valley" {
		t.Fatalf("recent orders: %+v", orders)
	}
	if len(batches) != 2 || batches[0].BatchName != "LOOSE-1" {
		t.Fatalf("recent batches: %+v", batches)
	}
}

func TestLoadSummaryEmpty(t *testing.T) {
	db := openDashboardTestDB(t)

	summary, _, _, err := LoadSummary(context.Background(), db)
	if err != nil {
		t.Fatalf("load summary: %v", err)
	}
	if summary.InfectionRate != 0 {
		t.Fatalf("empty db infection rate = %v, want 0", summary.InfectionRate)
	}
}
