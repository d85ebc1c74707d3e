package timeline

import (
	"net/http"
	"strconv"
	"strings"

	"proptrack/infrastructure/sqlite"
)

func TimelinePageQueryHandler(db *sqlite.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		batches, err := ListBatchOptions(r.Context(), db)
		if err != nil {
			http.Error(w, "failed to load batches", http.StatusInternalServerError)
			return
		}
		var batchFilter int64
		if v := strings.TrimSpace(r.URL.Query().Get("batch")); v != "" {
			if id, err := strconv.ParseInt(v, 10, 64); err == nil && id > 0 {
				batchFilter = id
			}
		}
		if batchFilter == 0 && len(batches) > 0 {
			batchFilter = batches[0].ID
		}

		data := PageData{
			Message:     strings.TrimSpace(r.URL.Query().Get("status")),
			BatchFilter: batchFilter,
			Batches:     batches,
		}
		if batchFilter > 0 {
			in, err := LoadInput(r.Context(), db, batchFilter)
			if err != nil {
				http.Error(w, "failed to load batch history", http.StatusInternalServerError)
				return
			}
			data.Spans = AssembleGantt(in)
			data.Events = AssembleAudit(in)
			data.Summary = Summarize(data.Spans)
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(TimelinePage(data)))
	}
}
