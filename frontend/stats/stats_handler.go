package stats

import (
	"net/http"
	"strings"

	"proptrack/infrastructure/sqlite"
)

func StatsPageQueryHandler(db *sqlite.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		includeArchived := r.URL.Query().Get("archived") == "1"
		rec, cultivarByBatch, err := LoadRecords(r.Context(), db, includeArchived)
		if err != nil {
			http.Error(w, "failed to load statistics", http.StatusInternalServerError)
			return
		}
		data := PageData{
			Message:         strings.TrimSpace(r.URL.Query().Get("status")),
			IncludeArchived: includeArchived,
			Global:          ComputeGlobal(rec),
			ByCultivar:      ComputeByCultivar(rec, cultivarByBatch),
			Population:      PopulationSeries(rec),
			CultivarCurves:  PopulationSeriesByCultivar(rec, cultivarByBatch),
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(StatsPage(data)))
	}
}
