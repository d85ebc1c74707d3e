package contamination

import (
	"errors"
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

var (
	errInvalidForm = errors.New("Invalid form data")
	errInvalidDate = errors.New("Invalid identification date")
)

func ContaminationPageQueryHandler(db *sqlite.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var batchFilter int64
		if v := strings.TrimSpace(r.URL.Query().Get("batch")); v != "" {
			id, err := strconv.ParseInt(v, 10, 64)
			if err == nil && id > 0 {
				batchFilter = id
			}
		}
		rows, err := List(r.Context(), db, batchFilter)
		if err != nil {
			http.Error(w, "failed to load contamination records", http.StatusInternalServerError)
			return
		}
		batches, err := ListBatchOptions(r.Context(), db)
		if err != nil {
			http.Error(w, "failed to load batches", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(ContaminationPage(PageData{
			Message:     strings.TrimSpace(r.URL.Query().Get("status")),
			BatchFilter: batchFilter,
			Batches:     batches,
			Rows:        rows,
		})))
	}
}

func EditContaminationPageQueryHandler(db *sqlite.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil || id <= 0 {
			http.Error(w, "invalid record id", http.StatusBadRequest)
			return
		}
		rec, err := LoadByID(r.Context(), db, id)
		if err != nil {
			http.Error(w, "record not found", http.StatusNotFound)
			return
		}
		batches, err := ListBatchOptions(r.Context(), db)
		if err != nil {
			http.Error(w, "failed to load batches", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(EditContaminationPage(rec, batches, strings.TrimSpace(r.URL.Query().Get("status")))))
	}
}

func CreateContaminationCommandHandler(db *sqlite.DB, auditSvc *audit.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec, err := recordFromForm(r)
		if err != nil {
			http.Redirect(w, r, "/lab/contamination?status="+url.QueryEscape(err.Error()), http.StatusSeeOther)
			return
		}
		if _, err := Create(r.Context(), db, auditSvc, rec); err != nil {
			http.Redirect(w, r, "/lab/contamination?status="+url.QueryEscape(err.Error()), http.StatusSeeOther)
			return
		}
		http.Redirect(w, r, "/lab/contamination?status="+url.QueryEscape("Contamination recorded"), http.StatusSeeOther)
	}
}

func UpdateContaminationCommandHandler(db *sqlite.DB, auditSvc *audit.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil || id <= 0 {
			http.Error(w, "invalid record id", http.StatusBadRequest)
			return
		}
		rec, err := recordFromForm(r)
		if err != nil {
			http.Redirect(w, r, "/lab/contamination?status="+url.QueryEscape(err.Error()), http.StatusSeeOther)
			return
		}
		rec.ID = id
		if err := Update(r.Context(), db, auditSvc, rec); err != nil {
			http.Redirect(w, r, "/lab/contamination?status="+url.QueryEscape(err.Error()), http.StatusSeeOther)
			return
		}
		http.Redirect(w, r, "/lab/contamination?status="+url.QueryEscape("Contamination record updated"), http.StatusSeeOther)
	}
}

func DeleteContaminationCommandHandler(db *sqlite.DB, auditSvc *audit.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil || id <= 0 {
			http.Error(w, "invalid record id", http.StatusBadRequest)
			return
		}
		if err := Delete(r.Context(), db, auditSvc, id); err != nil {
			http.Redirect(w, r, "/lab/contamination?status="+url.QueryEscape("Failed to delete record"), http.StatusSeeOther)
			return
		}
		http.Redirect(w, r, "/lab/contamination?status="+url.QueryEscape("Record deleted; explants returned to batch"), http.StatusSeeOther)
	}
}

func recordFromForm(r *http.Request) (models.ContaminationRecord, error) {
	var rec models.ContaminationRecord
	if err := r.ParseForm(); err != nil {
		return rec, errInvalidForm
	}
	batchID, err := strconv.ParseInt(strings.TrimSpace(r.FormValue("batch_id")), 10, 64)
	if err != nil || batchID <= 0 {
		return rec, errInvalidForm
	}
	rec.BatchID = batchID
	rec.ContaminationType = strings.TrimSpace(r.FormValue("contamination_type"))
	rec.IdentificationDate = strings.TrimSpace(r.FormValue("identification_date"))
	rec.Notes = strings.TrimSpace(r.FormValue("notes"))
	if rec.ContaminationType == "" {
		return rec, errInvalidForm
	}
	if _, err := time.Parse(models.DateLayout, rec.IdentificationDate); err != nil {
		return rec, errInvalidDate
	}

	lost, err := parseCount(r.FormValue("num_lost"))
	if err != nil {
		return rec, err
	}
	affected, err := parseCount(r.FormValue("num_affected"))
	if err != nil {
		return rec, err
	}
	// Always store the modern pair; the legacy aggregate is derived at
	// write time.
	rec.NumLost = &lost
	rec.NumAffected = &affected
	return rec, nil
}

func parseCount(v string) (int64, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return 0, nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil || n < 0 {
		return 0, errors.New("Counts must be non-negative numbers")
	}
	return n, nil
}
