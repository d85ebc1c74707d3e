package rooting

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

func openRootingTestDB(t *testing.T) *sqlite.DB {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "rooting-test.db")
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
		if _, err := tx.ExecContext(ctx, `
INSERT INTO explant_batches (batch_name, num_explants, explant_type, media_type, initiation_date)
VALUES ('B-1', 100, 'Node', '100% MS', '2025-01-15')`); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, `
INSERT INTO transfer_records (batch_id, transfer_date, explants_in, explants_out, new_media)
VALUES (1, '2025-02-01', 20, 50, 'Rooting Media')`)
		return err
	}); err != nil {
		t.Fatalf("seed batch and transfer: %v", err)
	}
	return db
}

func TestCreateEnforcesTransferCapacity(t *testing.T) {
	db := openRootingTestDB(t)
	auditSvc := audit.NewService()
	ctx := context.Background()
	transferID := int64(1)

	if _, err := Create(ctx, db, auditSvc, models.RootingRecord{
		TransferID: &transferID, BatchID: 1, NumPlaced: 30, PlacementDate: "2025-03-01",
	}); err != nil {
		t.Fatalf("first placement of 30: %v", err)
	}
	_, err := Create(ctx, db, auditSvc, models.RootingRecord{
		TransferID: &transferID, BatchID: 1, NumPlaced: 25, PlacementDate: "2025-03-05",
	})
	if err == nil {
		t.Fatal("expected rejection: 30 + 25 exceeds the transfer's 50 explants")
	}
	if _, err := Create(ctx, db, auditSvc, models.RootingRecord{
		TransferID: &transferID, BatchID: 1, NumPlaced: 20, PlacementDate: "2025-03-05",
	}); err != nil {
		t.Fatalf("placement of remaining 20: %v", err)
	}
}

func TestCreateWithoutTransferSkipsCapacityCheck(t *testing.T) {
	db := openRootingTestDB(t)
	auditSvc := audit.NewService()
	ctx := context.Background()

	if _, err := Create(ctx, db, auditSvc, models.RootingRecord{
		BatchID: 1, NumPlaced: 500, PlacementDate: "2025-03-01",
	}); err != nil {
		t.Fatalf("placement straight from initiation: %v", err)
	}
}

func TestUpdateExcludesOwnPlacement(t *testing.T) {
	db := openRootingTestDB(t)
	auditSvc := audit.NewService()
	ctx := context.Background()
	transferID := int64(1)

	rec, err := Create(ctx, db, auditSvc, models.RootingRecord{
		TransferID: &transferID, BatchID: 1, NumPlaced: 30, PlacementDate: "2025-03-01",
	})
	if err != nil {
		t.Fatalf("create placement: %v", err)
	}

	// Growing the placement to the full 50 is fine once its own 30 is
	// excluded from the tally.
	rec.NumPlaced = 50
	if err := Update(ctx, db, auditSvc, rec); err != nil {
		t.Fatalf("update to 50: %v", err)
	}
	rec.NumPlaced = 51
	if err := Update(ctx, db, auditSvc, rec); err == nil {
		t.Fatal("expected rejection of 51 against a transfer of 50")
	}
}

func TestConfirmBoundsRootedByPlaced(t *testing.T) {
	db := openRootingTestDB(t)
	auditSvc := audit.NewService()
	ctx := context.Background()
	transferID := int64(1)

	rec, err := Create(ctx, db, auditSvc, models.RootingRecord{
		TransferID: &transferID, BatchID: 1, NumPlaced: 10, PlacementDate: "2025-03-01",
	})
	if err != nil {
		t.Fatalf("create placement: %v", err)
	}

	if err := Confirm(ctx, db, auditSvc, rec.ID, 11, "2025-03-20"); err == nil {
		t.Fatal("expected rejection of 11 rooted from 10 placed")
	}
	if err := Confirm(ctx, db, auditSvc, rec.ID, 10, "2025-03-20"); err != nil {
		t.Fatalf("confirm 10 rooted: %v", err)
	}

	rows, err := List(ctx, db, 1)
	if err != nil {
		t.Fatalf("list rooting: %v", err)
	}
	if len(rows) != 1 || !rows[0].Confirmed || rows[0].NumRooted != 10 || rows[0].RootingDate != "2025-03-20" {
		t.Fatalf("unexpected confirmed row: %+v", rows)
	}
}

func TestUpdatePreservesConfirmation(t *testing.T) {
	db := openRootingTestDB(t)
	auditSvc := audit.NewService()
	ctx := context.Background()
	transferID := int64(1)

	rec, err := Create(ctx, db, auditSvc, models.RootingRecord{
		TransferID: &transferID, BatchID: 1, NumPlaced: 20, PlacementDate: "2025-03-01",
	})
	if err != nil {
		t.Fatalf("create placement: %v", err)
	}
	if err := Confirm(ctx, db, auditSvc, rec.ID, 15, "2025-03-20"); err != nil {
		t.Fatalf("confirm: %v", err)
	}

	rec.Notes = "moved to shelf 3"
	if err := Update(ctx, db, auditSvc, rec); err != nil {
		t.Fatalf("update notes: %v", err)
	}
	rows, err := List(ctx, db, 1)
	if err != nil {
		t.Fatalf("list rooting: %v", err)
	}
	if len(rows) != 1 || !rows[0].Confirmed || rows[0].NumRooted != 15 {
		t.Fatalf("confirmation should survive an edit: %+v", rows)
	}
	if rows[0].Notes != "moved to shelf 3" {
		t.Fatalf("notes = %q", rows[0].Notes)
	}
}

func TestTransferOptionsReportRemaining(t *testing.T) {
	db := openRootingTestDB(t)
	auditSvc := audit.NewService()
	ctx := context.Background()
	transferID := int64(1)

	if _, err := Create(ctx, db, auditSvc, models.RootingRecord{
		TransferID: &transferID, BatchID: 1, NumPlaced: 30, PlacementDate: "2025-03-01",
	}); err != nil {
		t.Fatalf("create placement: %v", err)
	}

	options, err := ListTransferOptions(ctx, db, 1)
	if err != nil {
		t.Fatalf("list transfer options: %v", err)
	}
	if len(options) != 1 || options[0].Remaining != 20 {
		t.Fatalf("expected 20 unplaced, got %+v", options)
	}
	if !strings.Contains(options[0].Label, "20 unplaced") {
		t.Fatalf("label should show remainder: %q", options[0].Label)
	}
}
