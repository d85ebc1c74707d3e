package labels

import (
	"context"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/uptrace/bun"

	"proptrack/infrastructure/audit"
	"proptrack/infrastructure/sqlite"
)

func openLabelsTestDB(t *testing.T) *sqlite.DB {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "labels-test.db")
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
INSERT INTO orders (client_name, cultivar, num_plants, plant_size, order_date)
VALUES ('Green Valley', 'Blue Dream', 200, 'Clones', '2025-01-10')`); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, `
INSERT INTO explant_batches (order_id, batch_name, num_explants, explant_type, media_type, initiation_date, pathogen_status)
VALUES (1, 'BD-1', 100, 'Node', '100% MS', '2025-01-15', 'Hop Latent Viroid')`)
		return err
	}); err != nil {
		t.Fatalf("seed order and batch: %v", err)
	}
	return db
}

func TestGenerateSnapshotsOrder(t *testing.T) {
	db := openLabelsTestDB(t)
	auditSvc := audit.NewService()
	ctx := context.Background()

	lb, err := Generate(ctx, db, auditSvc, GenerateRequest{
		OrderID:         1,
		NumLabels:       10,
		StartNumber:     1,
		InitiationDate:  "2025-01-15",
		NumExplants:     100,
		Stages:          []string{"Initiation", "Multiplication"},
		IncludeDetected: true,
		ExtraPathogens:  "Fusarium oxysporum",
	})
	if err != nil {
		t.Fatalf("generate labels: %v", err)
	}
	if lb.Token == "" {
		t.Fatal("expected a token")
	}
	if lb.ClientName != "Green Valley" || lb.Cultivar != "Blue Dream" || lb.OrderDate != "2025-01-10" {
		t.Fatalf("snapshot fields wrong: %+v", lb)
	}
	if lb.Stages != "Initiation, Multiplication" {
		t.Fatalf("stages = %q", lb.Stages)
	}
	if lb.PathogenStatus == nil ||
		!strings.Contains(*lb.PathogenStatus, "Hop Latent Viroid") ||
		!strings.Contains(*lb.PathogenStatus, "Fusarium oxysporum") {
		t.Fatalf("pathogens not compiled: %+v", lb.PathogenStatus)
	}

	loaded, err := LoadByToken(ctx, db, lb.Token)
	if err != nil {
		t.Fatalf("load by token: %v", err)
	}
	if loaded.ID != lb.ID {
		t.Fatalf("token resolved to batch %d, want %d", loaded.ID, lb.ID)
	}
}

func TestGenerateRequiresStage(t *testing.T) {
	db := openLabelsTestDB(t)
	auditSvc := audit.NewService()
	ctx := context.Background()

	_, err := Generate(ctx, db, auditSvc, GenerateRequest{
		OrderID: 1, NumLabels: 5, InitiationDate: "2025-01-15",
	})
	if err == nil {
		t.Fatal("expected rejection when no stage is given")
	}
	if _, err := Generate(ctx, db, auditSvc, GenerateRequest{
		OrderID: 1, NumLabels: 5, InitiationDate: "2025-01-15", CustomStage: "Cold Storage",
	}); err != nil {
		t.Fatalf("custom stage alone should suffice: %v", err)
	}
}

func TestSnapshotSurvivesOrderDeletion(t *testing.T) {
	db := openLabelsTestDB(t)
	auditSvc := audit.NewService()
	ctx := context.Background()

	lb, err := Generate(ctx, db, auditSvc, GenerateRequest{
		OrderID: 1, NumLabels: 3, InitiationDate: "2025-01-15", Stages: []string{"Rooting"},
	})
	if err != nil {
		t.Fatalf("generate labels: %v", err)
	}
	if err := db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		_, err := tx.ExecContext(ctx, `DELETE FROM orders WHERE id = 1`)
		return err
	}); err != nil {
		t.Fatalf("delete order: %v", err)
	}

	loaded, err := LoadByToken(ctx, db, lb.Token)
	if err != nil {
		t.Fatalf("snapshot should outlive the order: %v", err)
	}
	if loaded.ClientName != "Green Valley" {
		t.Fatalf("snapshot mutated: %+v", loaded)
	}
}

func TestDeleteLabelBatch(t *testing.T) {
	db := openLabelsTestDB(t)
	auditSvc := audit.NewService()
	ctx := context.Background()

	lb, err := Generate(ctx, db, auditSvc, GenerateRequest{
		OrderID: 1, NumLabels: 3, InitiationDate: "2025-01-15", Stages: []string{"Rooting"},
	})
	if err != nil {
		t.Fatalf("generate labels: %v", err)
	}
	if err := Delete(ctx, db, auditSvc, lb.ID); err != nil {
		t.Fatalf("delete label batch: %v", err)
	}
	if _, err := LoadByToken(ctx, db, lb.Token); err == nil {
		t.Fatal("deleted token should no longer resolve")
	}
	rows, err := List(ctx, db, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(rows) != 0 {
		t.Fatalf("expected empty list, got %+v", rows)
	}
}
