package batches

import (
	"context"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/uptrace/bun"

	"proptrack/infrastructure/audit"
	"proptrack/infrastructure/sqlite"
	"proptrack/models"
)

func openBatchesTestDB(t *testing.T) *sqlite.DB {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "batches-test.db")
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

func seedBatch(t *testing.T, db *sqlite.DB) models.Batch {
	t.Helper()
	auditSvc := audit.NewService()
	batch, err := Create(context.Background(), db, auditSvc, models.Batch{
		Name:           "B-100",
		NumExplants:    100,
		ExplantType:    "Node",
		MediaType:      "50% MS",
		InitiationDate: "2025-01-15",
	})
	if err != nil {
		t.Fatalf("create batch: %v", err)
	}
	return batch
}

func TestListComputesHealthyRemaining(t *testing.T) {
	db := openBatchesTestDB(t)
	batch := seedBatch(t, db)
	ctx := context.Background()

	// One modern record (lost 20) and one legacy aggregate (12, all
	// counted as lost).
	if err := db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.ExecContext(ctx, `
INSERT INTO contamination_records (batch_id, num_infected, num_lost, num_affected, contamination_type, identification_date)
VALUES (?, 25, 20, 5, 'Fungal', '2025-02-01')`, batch.ID); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, `
INSERT INTO contamination_records (batch_id, num_infected, contamination_type, identification_date)
VALUES (?, 12, 'Bacterial', '2025-02-03')`, batch.ID)
		return err
	}); err != nil {
		t.Fatalf("seed contamination: %v", err)
	}

	rows, err := List(ctx, db, "")
	if err != nil {
		t.Fatalf("list batches: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 batch, got %d", len(rows))
	}
	if rows[0].TotalLost != 32 {
		t.Fatalf("total lost = %d, want 32 (20 modern + 12 legacy)", rows[0].TotalLost)
	}
	if rows[0].HealthyRemaining != 68 {
		t.Fatalf("healthy remaining = %d, want 68", rows[0].HealthyRemaining)
	}
}

func TestListFiltersByExplantType(t *testing.T) {
	db := openBatchesTestDB(t)
	auditSvc := audit.NewService()
	ctx := context.Background()

	for _, typ := range []string{"Node", "Meristem"} {
		if _, err := Create(ctx, db, auditSvc, models.Batch{
			Name: "B-" + typ, NumExplants: 10, ExplantType: typ, MediaType: "100% MS", InitiationDate: "2025-01-20",
		}); err != nil {
			t.Fatalf("create %s batch: %v", typ, err)
		}
	}
	rows, err := List(ctx, db, "Meristem")
	if err != nil {
		t.Fatalf("list filtered: %v", err)
	}
	if len(rows) != 1 || rows[0].ExplantType != "Meristem" {
		t.Fatalf("unexpected filter result: %+v", rows)
	}
}

func TestDeleteCascadesToDescendantRecords(t *testing.T) {
	db := openBatchesTestDB(t)
	batch := seedBatch(t, db)
	auditSvc := audit.NewService()
	ctx := context.Background()

	if err := db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.ExecContext(ctx, `
INSERT INTO contamination_records (batch_id, num_infected, num_lost, num_affected, contamination_type, identification_date)
VALUES (?, 5, 5, 0, 'Fungal', '2025-02-01')`, batch.ID); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `
INSERT INTO transfer_records (batch_id, transfer_date, explants_in, explants_out, new_media)
VALUES (?, '2025-02-10', 50, 120, '100% MS')`, batch.ID); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, `
INSERT INTO rooting_records (transfer_id, batch_id, num_placed, placement_date)
VALUES (1, ?, 30, '2025-03-01')`, batch.ID)
		return err
	}); err != nil {
		t.Fatalf("seed records: %v", err)
	}

	if err := Delete(ctx, db, auditSvc, batch.ID); err != nil {
		t.Fatalf("delete batch: %v", err)
	}

	for _, table := range []string{"contamination_records", "transfer_records", "rooting_records", "explant_batches"} {
		var count int
		if err := db.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
			return tx.NewRaw(`SELECT COUNT(*) FROM `+table).Scan(ctx, &count)
		}); err != nil {
			t.Fatalf("count %s: %v", table, err)
		}
		if count != 0 {
			t.Fatalf("expected %s to be empty after cascade delete, got %d", table, count)
		}
	}
}
