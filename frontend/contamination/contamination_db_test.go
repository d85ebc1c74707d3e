package contamination

import (
	"context"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/uptrace/bun"

	"proptrack/infrastructure/audit"
	"proptrack/infrastructure/sqlite"
	"proptrack/models"
)

func openContaminationTestDB(t *testing.T) *sqlite.DB {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "contamination-test.db")
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
	if err := db.WithWriteTx(context.Background(), func(ctx context.Context, tx bun.Tx) error {
		_, err := tx.ExecContext(ctx, `
INSERT INTO explant_batches (batch_name, num_explants, explant_type, media_type, initiation_date)
VALUES ('B-1', 100, 'Node', '50% MS', '2025-01-15')`)
		return err
	}); err != nil {
		t.Fatalf("seed batch: %v", err)
	}
	return db
}

func i64(v int64) *int64 { return &v }

func TestCreateEnforcesRemainder(t *testing.T) {
	db := openContaminationTestDB(t)
	auditSvc := audit.NewService()
	ctx := context.Background()

	if _, err := Create(ctx, db, auditSvc, models.ContaminationRecord{
		BatchID: 1, NumLost: i64(30), NumAffected: i64(0),
		ContaminationType: "Fungal", IdentificationDate: "2025-02-01",
	}); err != nil {
		t.Fatalf("create first record: %v", err)
	}

	_, err := Create(ctx, db, auditSvc, models.ContaminationRecord{
		BatchID: 1, NumLost: i64(80), NumAffected: i64(0),
		ContaminationType: "Fungal", IdentificationDate: "2025-02-05",
	})
	if err == nil {
		t.Fatal("expected rejection: only 70 explants remain")
	}
	if !strings.Contains(err.Error(), "remain") {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := Create(ctx, db, auditSvc, models.ContaminationRecord{
		BatchID: 1, NumLost: i64(70), NumAffected: i64(0),
		ContaminationType: "Bacterial", IdentificationDate: "2025-02-06",
	}); err != nil {
		t.Fatalf("70 lost should be accepted with 70 remaining: %v", err)
	}
}

func TestCreateRejectsEmptyRecord(t *testing.T) {
	db := openContaminationTestDB(t)
	auditSvc := audit.NewService()

	_, err := Create(context.Background(), db, auditSvc, models.ContaminationRecord{
		BatchID: 1, NumLost: i64(0), NumAffected: i64(0),
		ContaminationType: "Fungal", IdentificationDate: "2025-02-01",
	})
	if err == nil {
		t.Fatal("expected rejection of zero lost and zero affected")
	}
}

func TestCreateWritesLegacyAggregate(t *testing.T) {
	db := openContaminationTestDB(t)
	auditSvc := audit.NewService()
	ctx := context.Background()

	rec, err := Create(ctx, db, auditSvc, models.ContaminationRecord{
		BatchID: 1, NumLost: i64(10), NumAffected: i64(15),
		ContaminationType: "Bacterial", IdentificationDate: "2025-02-01",
	})
	if err != nil {
		t.Fatalf("create record: %v", err)
	}
	if rec.NumInfected != 25 {
		t.Fatalf("num_infected = %d, want lost+affected = 25", rec.NumInfected)
	}
}

func TestUpdateExcludesOwnLoss(t *testing.T) {
	db := openContaminationTestDB(t)
	auditSvc := audit.NewService()
	ctx := context.Background()

	rec, err := Create(ctx, db, auditSvc, models.ContaminationRecord{
		BatchID: 1, NumLost: i64(60), NumAffected: i64(0),
		ContaminationType: "Fungal", IdentificationDate: "2025-02-01",
	})
	if err != nil {
		t.Fatalf("create record: %v", err)
	}

	// Raising the same record to 100 is within bounds once its own 60
	// are added back.
	rec.NumLost = i64(100)
	if err := Update(ctx, db, auditSvc, rec); err != nil {
		t.Fatalf("update to full population should pass: %v", err)
	}
	rec.NumLost = i64(101)
	if err := Update(ctx, db, auditSvc, rec); err == nil {
		t.Fatal("expected rejection above full population")
	}
}

func TestListNormalizesLegacyRows(t *testing.T) {
	db := openContaminationTestDB(t)
	ctx := context.Background()

	if err := db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		_, err := tx.ExecContext(ctx, `
INSERT INTO contamination_records (batch_id, num_infected, contamination_type, identification_date)
VALUES (1, 12, 'Fungal', '2024-12-01')`)
		return err
	}); err != nil {
		t.Fatalf("seed legacy row: %v", err)
	}

	rows, err := List(ctx, db, 1)
	if err != nil {
		t.Fatalf("list records: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	if rows[0].NumLost != 12 || rows[0].NumAffected != 0 {
		t.Fatalf("legacy normalization: got lost=%d affected=%d, want 12/0", rows[0].NumLost, rows[0].NumAffected)
	}
}

func TestDeleteReturnsExplants(t *testing.T) {
	db := openContaminationTestDB(t)
	auditSvc := audit.NewService()
	ctx := context.Background()

	rec, err := Create(ctx, db, auditSvc, models.ContaminationRecord{
		BatchID: 1, NumLost: i64(100), NumAffected: i64(0),
		ContaminationType: "Fungal", IdentificationDate: "2025-02-01",
	})
	if err != nil {
		t.Fatalf("create record: %v", err)
	}
	if err := Delete(ctx, db, auditSvc, rec.ID); err != nil {
		t.Fatalf("delete record: %v", err)
	}
	// Population restored: the full amount is insertable again.
	if _, err := Create(ctx, db, auditSvc, models.ContaminationRecord{
		BatchID: 1, NumLost: i64(100), NumAffected: i64(0),
		ContaminationType: "Fungal", IdentificationDate: "2025-02-02",
	}); err != nil {
		t.Fatalf("full population should be available after delete: %v", err)
	}
}
