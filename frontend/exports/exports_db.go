package exports

import (
	"context"
	"encoding/csv"
	"io"
	"strconv"

	"github.com/uptrace/bun"

	"proptrack/infrastructure/sqlite"
)

func writeOrdersCSV(ctx context.Context, db *sqlite.DB, w io.Writer) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()

	header := []string{"id", "client_name", "cultivar", "num_plants", "plant_size", "order_date", "delivery_quantity", "is_recurring", "completed", "completion_date", "notes"}
	if err := writer.Write(header); err != nil {
		return err
	}

	type row struct {
		ID               int64  `bun:"id"`
		ClientName       string `bun:"client_name"`
		Cultivar         string `bun:"cultivar"`
		NumPlants        int64  `bun:"num_plants"`
		PlantSize        string `bun:"plant_size"`
		OrderDate        string `bun:"order_date"`
		DeliveryQuantity int64  `bun:"delivery_quantity"`
		IsRecurring      int64  `bun:"is_recurring"`
		Completed        int64  `bun:"completed"`
		CompletionDate   string `bun:"completion_date"`
		Notes            string `bun:"notes"`
	}

	rows := make([]row, 0)
	err := db.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		return tx.NewRaw(`
SELECT o.id, o.client_name, o.cultivar, o.num_plants, o.plant_size, o.order_date,
       o.delivery_quantity, o.is_recurring, o.completed,
       COALESCE(o.completion_date, '') AS completion_date,
       COALESCE(o.notes, '') AS notes
FROM orders o
ORDER BY o.id ASC`).Scan(ctx, &rows)
	})
	if err != nil {
		return err
	}

	for _, r := range rows {
		record := []string{
			toString(r.ID), r.ClientName, r.Cultivar, toString(r.NumPlants), r.PlantSize,
			r.OrderDate, toString(r.DeliveryQuantity), toString(r.IsRecurring),
			toString(r.Completed), r.CompletionDate, r.Notes,
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	return writer.Error()
}

func writeBatchSummaryCSV(ctx context.Context, db *sqlite.DB, w io.Writer) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()

	header := []string{"id", "batch_name", "order_id", "cultivar", "num_explants", "total_lost", "healthy_remaining", "transfer_count", "total_placed", "total_rooted", "initiation_date"}
	if err := writer.Write(header); err != nil {
		return err
	}

	type row struct {
		ID             int64  `bun:"id"`
		BatchName      string `bun:"batch_name"`
		OrderID        int64  `bun:"order_id"`
		Cultivar       string `bun:"cultivar"`
		NumExplants    int64  `bun:"num_explants"`
		TotalLost      int64  `bun:"total_lost"`
		TransferCount  int64  `bun:"transfer_count"`
		TotalPlaced    int64  `bun:"total_placed"`
		TotalRooted    int64  `bun:"total_rooted"`
		InitiationDate string `bun:"initiation_date"`
	}

	rows := make([]row, 0)
	err := db.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		return tx.NewRaw(`
SELECT b.id, b.batch_name, COALESCE(b.order_id, 0) AS order_id,
       COALESCE(o.cultivar, '') AS cultivar,
       b.num_explants,
       COALESCE((SELECT SUM(CASE WHEN cr.num_lost IS NULL AND cr.num_affected IS NULL
                                 THEN cr.num_infected ELSE COALESCE(cr.num_lost, 0) END)
                 FROM contamination_records cr WHERE cr.batch_id = b.id), 0) AS total_lost,
       (SELECT COUNT(*) FROM transfer_records tr WHERE tr.batch_id = b.id) AS transfer_count,
       COALESCE((SELECT SUM(rr.num_placed) FROM rooting_records rr WHERE rr.batch_id = b.id), 0) AS total_placed,
       COALESCE((SELECT SUM(rr.num_rooted) FROM rooting_records rr WHERE rr.batch_id = b.id), 0) AS total_rooted,
       b.initiation_date
FROM explant_batches b
LEFT JOIN orders o ON o.id = b.order_id
ORDER BY b.id ASC`).Scan(ctx, &rows)
	})
	if err != nil {
		return err
	}

	for _, r := range rows {
		record := []string{
			toString(r.ID), r.BatchName, toString(r.OrderID), r.Cultivar,
			toString(r.NumExplants), toString(r.TotalLost),
			toString(r.NumExplants - r.TotalLost),
			toString(r.TransferCount), toString(r.TotalPlaced), toString(r.TotalRooted),
			r.InitiationDate,
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	return writer.Error()
}

func writeArchiveCSV(ctx context.Context, db *sqlite.DB, w io.Writer) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()

	header := []string{"id", "client_name", "cultivar", "num_plants", "order_date", "completion_date", "days_to_complete"}
	if err := writer.Write(header); err != nil {
		return err
	}

	type row struct {
		ID             int64  `bun:"id"`
		ClientName     string `bun:"client_name"`
		Cultivar       string `bun:"cultivar"`
		NumPlants      int64  `bun:"num_plants"`
		OrderDate      string `bun:"order_date"`
		CompletionDate string `bun:"completion_date"`
		DaysToComplete int64  `bun:"days_to_complete"`
	}

	rows := make([]row, 0)
	err := db.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		return tx.NewRaw(`
SELECT o.id, o.client_name, o.cultivar, o.num_plants, o.order_date,
       COALESCE(o.completion_date, '') AS completion_date,
       COALESCE(CAST(julianday(o.completion_date) - julianday(o.order_date) AS INTEGER), 0) AS days_to_complete
FROM orders o
WHERE o.completed = 1
ORDER BY o.completion_date DESC, o.id DESC`).Scan(ctx, &rows)
	})
	if err != nil {
		return err
	}

	for _, r := range rows {
		record := []string{
			toString(r.ID), r.ClientName, r.Cultivar, toString(r.NumPlants),
			r.OrderDate, r.CompletionDate, toString(r.DaysToComplete),
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	return writer.Error()
}

func writeLabelManifestCSV(ctx context.Context, db *sqlite.DB, w io.Writer) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()

	header := []string{"id", "order_id", "label_uuid", "client_name", "cultivar", "order_date", "initiation_date", "stages", "pathogen_status", "num_explants", "num_labels", "created_at"}
	if err := writer.Write(header); err != nil {
		return err
	}

	type row struct {
		ID             int64  `bun:"id"`
		OrderID        int64  `bun:"order_id"`
		LabelUUID      string `bun:"label_uuid"`
		ClientName     string `bun:"client_name"`
		Cultivar       string `bun:"cultivar"`
		OrderDate      string `bun:"order_date"`
		InitiationDate string `bun:"initiation_date"`
		Stages         string `bun:"stages"`
		PathogenStatus string `bun:"pathogen_status"`
		NumExplants    int64  `bun:"num_explants"`
		NumLabels      int64  `bun:"num_labels"`
		CreatedAt      string `bun:"created_at"`
	}

	rows := make([]row, 0)
	err := db.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		return tx.NewRaw(`
SELECT lb.id, lb.order_id, lb.label_uuid, lb.client_name, lb.cultivar,
       lb.order_date, lb.initiation_date, lb.stages,
       COALESCE(lb.pathogen_status, '') AS pathogen_status,
       COALESCE(lb.num_explants, 0) AS num_explants,
       lb.num_labels, lb.created_at
FROM label_batches lb
ORDER BY lb.id ASC`).Scan(ctx, &rows)
	})
	if err != nil {
		return err
	}

	for _, r := range rows {
		record := []string{
			toString(r.ID), toString(r.OrderID), r.LabelUUID, r.ClientName, r.Cultivar,
			r.OrderDate, r.InitiationDate, r.Stages, r.PathogenStatus,
			toString(r.NumExplants), toString(r.NumLabels), r.CreatedAt,
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	return writer.Error()
}

func toString(v int64) string {
	return strconv.FormatInt(v, 10)
}
