package transfers

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
	errInvalidDate = errors.New("Invalid transfer date")
)

func TransfersPageQueryHandler(db *sqlite.DB) http.HandlerFunc {
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
			if data.Lines, err = ListByBatch(r.Context(), db, batchFilter); err != nil {
				http.Error(w, "failed to load transfers", http.StatusInternalServerError)
				return
			}
			if data.Parents, err = ListParentOptions(r.Context(), db, batchFilter, 0); err != nil {
				http.Error(w, "failed to load parent transfers", http.StatusInternalServerError)
				return
			}
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(TransfersPage(data)))
	}
}

func EditTransferPageQueryHandler(db *sqlite.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil || id <= 0 {
			http.Error(w, "invalid transfer id", http.StatusBadRequest)
			return
		}
		rec, err := LoadByID(r.Context(), db, id)
		if err != nil {
			http.Error(w, "transfer not found", http.StatusNotFound)
			return
		}
		parents, err := ListParentOptions(r.Context(), db, rec.BatchID, id)
		if err != nil {
			http.Error(w, "failed to load parent transfers", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(EditTransferPage(rec, parents, strings.TrimSpace(r.URL.Query().Get("status")))))
	}
}

func CreateTransferCommandHandler(db *sqlite.DB, auditSvc *audit.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec, err := transferFromForm(r)
		if err != nil {
			http.Redirect(w, r, "/lab/transfers?status="+url.QueryEscape(err.Error()), http.StatusSeeOther)
			return
		}
		if _, err := Create(r.Context(), db, auditSvc, rec); err != nil {
			http.Redirect(w, r, transfersURL(rec.BatchID, err.Error()), http.StatusSeeOther)
			return
		}
		http.Redirect(w, r, transfersURL(rec.BatchID, "Transfer recorded"), http.StatusSeeOther)
	}
}

func UpdateTransferCommandHandler(db *sqlite.DB, auditSvc *audit.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil || id <= 0 {
			http.Error(w, "invalid transfer id", http.StatusBadRequest)
			return
		}
		rec, err := transferFromForm(r)
		if err != nil {
			http.Redirect(w, r, "/lab/transfers?status="+url.QueryEscape(err.Error()), http.StatusSeeOther)
			return
		}
		rec.ID = id
		if err := Update(r.Context(), db, auditSvc, rec); err != nil {
			http.Redirect(w, r, transfersURL(rec.BatchID, err.Error()), http.StatusSeeOther)
			return
		}
		http.Redirect(w, r, transfersURL(rec.BatchID, "Transfer updated"), http.StatusSeeOther)
	}
}

func DeleteTransferCommandHandler(db *sqlite.DB, auditSvc *audit.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil || id <= 0 {
			http.Error(w, "invalid transfer id", http.StatusBadRequest)
			return
		}
		rec, err := LoadByID(r.Context(), db, id)
		if err != nil {
			http.Error(w, "transfer not found", http.StatusNotFound)
			return
		}
		if err := Delete(r.Context(), db, auditSvc, id); err != nil {
			http.Redirect(w, r, transfersURL(rec.BatchID, "Failed to delete transfer"), http.StatusSeeOther)
			return
		}
		http.Redirect(w, r, transfersURL(rec.BatchID, "Transfer and its rooting placements deleted"), http.StatusSeeOther)
	}
}

func transfersURL(batchID int64, status string) string {
	return "/lab/transfers?batch=" + strconv.FormatInt(batchID, 10) + "&status=" + url.QueryEscape(status)
}

func transferFromForm(r *http.Request) (models.TransferRecord, error) {
	var rec models.TransferRecord
	if err := r.ParseForm(); err != nil {
		return rec, errInvalidForm
	}
	batchID, err := strconv.ParseInt(strings.TrimSpace(r.FormValue("batch_id")), 10, 64)
	if err != nil || batchID <= 0 {
		return rec, errInvalidForm
	}
	rec.BatchID = batchID
	rec.TransferDate = strings.TrimSpace(r.FormValue("transfer_date"))
	rec.NewMedia = strings.TrimSpace(r.FormValue("new_media"))
	rec.Notes = strings.TrimSpace(r.FormValue("notes"))
	rec.MultiplicationOccurred = r.FormValue("multiplication_occurred") == "1"
	if rec.NewMedia == "" {
		return rec, errInvalidForm
	}
	if _, err := time.Parse(models.DateLayout, rec.TransferDate); err != nil {
		return rec, errInvalidDate
	}
	if rec.ExplantsIn, err = strconv.ParseInt(strings.TrimSpace(r.FormValue("explants_in")), 10, 64); err != nil {
		return rec, errInvalidForm
	}
	if rec.ExplantsOut, err = strconv.ParseInt(strings.TrimSpace(r.FormValue("explants_out")), 10, 64); err != nil {
		return rec, errInvalidForm
	}
	if v := strings.TrimSpace(r.FormValue("parent_transfer_id")); v != "" {
		parentID, err := strconv.ParseInt(v, 10, 64)
		if err != nil || parentID <= 0 {
			return rec, errInvalidForm
		}
		rec.ParentTransferID = &parentID
	}
	if v := strings.TrimSpace(r.FormValue("hormones")); v != "" {
		rec.Hormones = &v
	}
	if v := strings.TrimSpace(r.FormValue("additional_elements")); v != "" {
		rec.AdditionalElements = &v
	}
	return rec, nil
}
