package batches

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"proptrack/infrastructure/audit"
	"proptrack/infrastructure/sqlite"
	"proptrack/models"
)

func BatchesPageQueryHandler(db *sqlite.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		explantType := strings.TrimSpace(r.URL.Query().Get("explant_type"))
		rows, err := List(r.Context(), db, explantType)
		if err != nil {
			http.Error(w, "failed to load batches", http.StatusInternalServerError)
			return
		}
		options, err := ListOrderOptions(r.Context(), db)
		if err != nil {
			http.Error(w, "failed to load orders", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(BatchesPage(PageData{
			Message:      strings.TrimSpace(r.URL.Query().Get("status")),
			ExplantType:  explantType,
			Rows:         rows,
			OrderOptions: options,
		})))
	}
}

func EditBatchPageQueryHandler(db *sqlite.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil || id <= 0 {
			http.Error(w, "invalid batch id", http.StatusBadRequest)
			return
		}
		batch, err := LoadByID(r.Context(), db, id)
		if err != nil {
			http.Error(w, "batch not found", http.StatusNotFound)
			return
		}
		options, err := ListOrderOptions(r.Context(), db)
		if err != nil {
			http.Error(w, "failed to load orders", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(EditBatchPage(batch, options, strings.TrimSpace(r.URL.Query().Get("status")))))
	}
}

func CreateBatchCommandHandler(db *sqlite.DB, auditSvc *audit.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		batch, err := batchFromForm(r)
		if err != nil {
			http.Redirect(w, r, "/lab/batches?status="+url.QueryEscape(err.Error()), http.StatusSeeOther)
			return
		}
		if _, err := Create(r.Context(), db, auditSvc, batch); err != nil {
			http.Redirect(w, r, "/lab/batches?status="+url.QueryEscape("Failed to create batch"), http.StatusSeeOther)
			return
		}
		http.Redirect(w, r, "/lab/batches?status="+url.QueryEscape("Batch created"), http.StatusSeeOther)
	}
}

func UpdateBatchCommandHandler(db *sqlite.DB, auditSvc *audit.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil || id <= 0 {
			http.Error(w, "invalid batch id", http.StatusBadRequest)
			return
		}
		batch, err := batchFromForm(r)
		if err != nil {
			http.Redirect(w, r, "/lab/batches?status="+url.QueryEscape(err.Error()), http.StatusSeeOther)
			return
		}
		batch.ID = id
		if err := Update(r.Context(), db, auditSvc, batch); err != nil {
			http.Redirect(w, r, "/lab/batches?status="+url.QueryEscape("Failed to update batch"), http.StatusSeeOther)
			return
		}
		http.Redirect(w, r, "/lab/batches?status="+url.QueryEscape("Batch updated"), http.StatusSeeOther)
	}
}

func DeleteBatchCommandHandler(db *sqlite.DB, auditSvc *audit.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil || id <= 0 {
			http.Error(w, "invalid batch id", http.StatusBadRequest)
			return
		}
		if err := Delete(r.Context(), db, auditSvc, id); err != nil {
			http.Redirect(w, r, "/lab/batches?status="+url.QueryEscape("Failed to delete batch"), http.StatusSeeOther)
			return
		}
		http.Redirect(w, r, "/lab/batches?status="+url.QueryEscape("Batch and its records deleted"), http.StatusSeeOther)
	}
}

func batchFromForm(r *http.Request) (models.Batch, error) {
	var batch models.Batch
	if err := r.ParseForm(); err != nil {
		return batch, errInvalidForm
	}
	batch.Name = strings.TrimSpace(r.FormValue("batch_name"))
	batch.ExplantType = strings.TrimSpace(r.FormValue("explant_type"))
	batch.MediaType = strings.TrimSpace(r.FormValue("media_type"))
	batch.InitiationDate = strings.TrimSpace(r.FormValue("initiation_date"))
	batch.Notes = strings.TrimSpace(r.FormValue("notes"))

	if batch.Name == "" || batch.ExplantType == "" || batch.MediaType == "" {
		return batch, errMissingFields
	}
	if _, err := time.Parse(models.DateLayout, batch.InitiationDate); err != nil {
		return batch, errInvalidDate
	}
	numExplants, err := strconv.ParseInt(strings.TrimSpace(r.FormValue("num_explants")), 10, 64)
	if err != nil || numExplants <= 0 {
		return batch, errInvalidCount
	}
	batch.NumExplants = numExplants

	if v := strings.TrimSpace(r.FormValue("order_id")); v != "" {
		orderID, err := strconv.ParseInt(v, 10, 64)
		if err != nil || orderID <= 0 {
			return batch, errInvalidForm
		}
		batch.OrderID = &orderID
	}
	if v := strings.TrimSpace(r.FormValue("hormones")); v != "" {
		batch.Hormones = &v
	}
	if v := strings.TrimSpace(r.FormValue("additional_elements")); v != "" {
		batch.AdditionalElements = &v
	}
	if v := strings.TrimSpace(r.FormValue("pathogen_status")); v != "" {
		batch.PathogenStatus = &v
	}
	return batch, nil
}
