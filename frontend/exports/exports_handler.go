package exports

import (
	"log/slog"
	"net/http"
	"strings"

	"proptrack/infrastructure/sqlite"
)

func ExportsPageQueryHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(ExportsPage(strings.TrimSpace(r.URL.Query().Get("status")))))
	}
}

func OrdersExportCSVHandler(db *sqlite.DB) http.HandlerFunc {
	return csvHandler(db, "orders.csv", "orders_csv", writeOrdersCSV)
}

func BatchSummaryExportCSVHandler(db *sqlite.DB) http.HandlerFunc {
	return csvHandler(db, "batch-summary.csv", "batch_summary_csv", writeBatchSummaryCSV)
}

func ArchiveExportCSVHandler(db *sqlite.DB) http.HandlerFunc {
	return csvHandler(db, "archive.csv", "archive_csv", writeArchiveCSV)
}

func LabelManifestExportCSVHandler(db *sqlite.DB) http.HandlerFunc {
	return csvHandler(db, "label-manifest.csv", "label_manifest_csv", writeLabelManifestCSV)
}

func csvHandler(db *sqlite.DB, filename, exportType string, write writeFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", "attachment; filename="+filename)
		if err := write(r.Context(), db, w); err != nil {
			http.Error(w, "failed to export csv", http.StatusInternalServerError)
			return
		}
		slog.Info("export generated", slog.String("type", exportType))
	}
}
