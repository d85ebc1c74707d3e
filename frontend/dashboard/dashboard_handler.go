package dashboard

import (
	"net/http"
	"strings"

	"proptrack/infrastructure/sqlite"
)

func DashboardPageQueryHandler(db *sqlite.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		summary, orders, batches, err := LoadSummary(r.Context(), db)
		if err != nil {
			http.Error(w, "failed to load dashboard", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(DashboardPage(summary, orders, batches, strings.TrimSpace(r.URL.Query().Get("status")))))
	}
}
