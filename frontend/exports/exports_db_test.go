package exports

import (
	"bytes"
	"context"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/uptrace/bun"

	"proptrack/infrastructure/sqlite"
)

func openExportsTestDB(t *testing.T) *sqlite.DB {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "exports-test.db")
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
INSERT INTO orders (client_name, cultivar, num_plants, plant_size, order_date, completed, completion_date)
VALUES ('Green Valley', 'Blue Dream', 200, 'Clones', '2025-01-10', 1, '2025-03-01'),
       ('Hilltop', 'Gorilla Glue', 50, 'Teens', '2025-02-01', 0, NULL)`); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `
INSERT INTO explant_batches (order_id, batch_name, num_explants, explant_type, media_type, initiation_date)
VALUES (1, 'BD-1', 100, 'Node', '100% MS', '2025-01-15')`); err != nil {
			return err
		}
		// one legacy, one modern contamination row
		_, err := tx.ExecContext(ctx, `
INSERT INTO contamination_records (batch_id, num_infected, num_lost, num_affected, contamination_type, identification_date)
VALUES (1, 12, NULL, NULL, 'Fungal', '2025-01-25'),
       (1, 15, 10, 5, 'Bacterial', '2025-02-01')`)
		return err
	}); err != nil {
		t.Fatalf("seed: %v", err)
	}
	return db
}

func TestWriteOrdersCSV(t *testing.T) {
	db := openExportsTestDB(t)
	var buf bytes.Buffer
	if err := writeOrdersCSV(context.Background(), db, &buf); err != nil {
		t.Fatalf("write orders csv: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header plus 2 orders, got %d lines", len(lines))
	}
	if lines[0] != "id,client_name,cultivar,num_plants,plant_size,order_date,delivery_quantity,is_recurring,completed,completion_date,notes" {
		t.Fatalf("unexpected header: %q", lines[0])
	}
	if !strings.Contains(lines[1], "Green Valley") || !strings.Contains(lines[1], "2025-03-01") {
		t.Fatalf("completed order row: %q", lines[1])
	}
}

func TestWriteBatchSummaryCSVNormalizesLosses(t *testing.T) {
	db := openExportsTestDB(t)
	var buf bytes.Buffer
	if err := writeBatchSummaryCSV(context.Background(), db, &buf); err != nil {
		t.Fatalf("write batch summary csv: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected header plus 1 batch, got %d lines", len(lines))
	}
	// legacy 12 + modern 10 lost = 22; 100 - 22 = 78 healthy
	fields := strings.Split(lines[1], ",")
	if fields[5] != "22" || fields[6] != "78" {
		t.Fatalf("total_lost/healthy_remaining = %s/%s, want 22/78", fields[5], fields[6])
	}
}

func TestWriteArchiveCSVOnlyCompleted(t *testing.T) {
	db := openExportsTestDB(t)
	var buf bytes.Buffer
	if err := writeArchiveCSV(context.Background(), db, &buf); err != nil {
		t.Fatalf("write archive csv: %v", err)
	}
	out := buf.String()
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected only the completed order, got %d lines", len(lines))
	}
	if !strings.Contains(lines[1], "Green Valley") || strings.Contains(out, "Hilltop") {
		t.Fatalf("archive rows wrong: %q", out)
	}
	// 2025-01-10 to 2025-03-01 is 50 days
	if !strings.HasSuffix(lines[1], ",50") {
		t.Fatalf("days_to_complete: %q", lines[1])
	}
}

func TestWriteLabelManifestCSV(t *testing.T) {
	db := openExportsTestDB(t)
	if err := db.WithWriteTx(context.Background(), func(ctx context.Context, tx bun.Tx) error {
		_, err := tx.ExecContext(ctx, `
INSERT INTO label_batches (order_id, label_uuid, client_name, cultivar, order_date, initiation_date, stages, num_labels)
VALUES (1, 'aaaa-bbbb', 'Green Valley', 'Blue Dream', '2025-01-10', '2025-01-15', 'Initiation', 10)`)
		return err
	}); err != nil {
		t.Fatalf("seed label batch: %v", err)
	}

	var buf bytes.Buffer
	if err := writeLabelManifestCSV(context.Background(), db, &buf); err != nil {
		t.Fatalf("write label manifest csv: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 || !strings.Contains(lines[1], "aaaa-bbbb") {
		t.Fatalf("manifest rows: %+v", lines)
	}
}
