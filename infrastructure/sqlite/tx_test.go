package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/uptrace/bun"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := OpenDB(dbPath)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() {
		_ = db.Close()
	})
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatalf("runtime caller unavailable")
	}
	migrationsDir := filepath.Join(filepath.Dir(file), "migrations")
	if err := ApplyMigrations(context.Background(), db, migrationsDir); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	return db
}

func TestWithWriteTxRollsBackOnError(t *testing.T) {
	db := openTestDB(t)

	boom := errors.New("boom")
	err := db.WithWriteTx(context.Background(), func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.ExecContext(ctx, `INSERT INTO orders (client_name, cultivar, num_plants, plant_size, order_date) VALUES (?, ?, ?, ?, ?)`, "Rollback Farms", "Gelato", 100, "Clones", "2025-01-10"); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom error, got: %v", err)
	}

	var count int
	err = db.WithReadTx(context.Background(), func(ctx context.Context, tx bun.Tx) error {
		return tx.NewRaw(`SELECT COUNT(*) FROM orders WHERE client_name = ?`, "Rollback Farms").Scan(ctx, &count)
	})
	if err != nil {
		t.Fatalf("count orders: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected rollback to remove insert, count=%d", count)
	}
}

func TestWithWriteTxCommitsOnSuccess(t *testing.T) {
	db := openTestDB(t)

	err := db.WithWriteTx(context.Background(), func(ctx context.Context, tx bun.Tx) error {
		_, err := tx.ExecContext(ctx, `INSERT INTO orders (client_name, cultivar, num_plants, plant_size, order_date) VALUES (?, ?, ?, ?, ?)`, "Commit Farms", "Runtz", 50, "Teens", "2025-01-11")
		return err
	})
	if err != nil {
		t.Fatalf("write tx failed: %v", err)
	}

	var count int
	err = db.WithReadTx(context.Background(), func(ctx context.Context, tx bun.Tx) error {
		return tx.NewRaw(`SELECT COUNT(*) FROM orders WHERE client_name = ?`, "Commit Farms").Scan(ctx, &count)
	})
	if err != nil {
		t.Fatalf("count orders: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected committed insert, count=%d", count)
	}
}

func TestWithReadTxRejectsWrite(t *testing.T) {
	db := openTestDB(t)

	err := db.WithReadTx(context.Background(), func(ctx context.Context, tx bun.Tx) error {
		_, err := tx.ExecContext(ctx, `INSERT INTO orders (client_name, cultivar, num_plants, plant_size, order_date) VALUES (?, ?, ?, ?, ?)`, "ReadOnly Farms", "Zkittlez", 10, "Other", "2025-01-12")
		return err
	})
	var count int
	if err := db.WithReadTx(context.Background(), func(ctx context.Context, tx bun.Tx) error {
		return tx.NewRaw(`SELECT COUNT(*) FROM orders WHERE client_name = ?`, "ReadOnly Farms").Scan(ctx, &count)
	}); err != nil {
		t.Fatalf("count orders: %v", err)
	}
	if err == nil && count > 0 {
		t.Fatalf("expected write in read tx to be blocked; write succeeded")
	}
}
