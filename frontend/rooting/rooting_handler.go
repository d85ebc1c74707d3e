package rooting

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
	errInvalidDate = errors.New("Invalid placement date")
)

func RootingPageQueryHandler(db *sqlite.DB) http.HandlerFunc {
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
			if data.Rows, err = List(r.Context(), db, batchFilter); err != nil {
				http.Error(w, "failed to load rooting records", http.StatusInternalServerError)
				return
			}
			if data.Transfers, err = ListTransferOptions(r.Context(), db, batchFilter); err != nil {
				http.Error(w, "failed to load transfers", http.StatusInternalServerError)
				return
			}
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(RootingPage(data)))
	}
}

func EditRootingPageQueryHandler(db *sqlite.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil || id <= 0 {
			http.Error(w, "invalid rooting record id", http.StatusBadRequest)
			return
		}
		rec, err := LoadByID(r.Context(), db, id)
		if err != nil {
			http.Error(w, "rooting record not found", http.StatusNotFound)
			return
		}
		transfers, err := ListTransferOptions(r.Context(), db, rec.BatchID)
		if err != nil {
			http.Error(w, "failed to load transfers", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(EditRootingPage(rec, transfers, strings.TrimSpace(r.URL.Query().Get("status")))))
	}
}

func CreateRootingCommandHandler(db *sqlite.DB, auditSvc *audit.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec, err := placementFromForm(r)
		if err != nil {
			http.Redirect(w, r, "/lab/rooting?status="+url.QueryEscape(err.Error()), http.StatusSeeOther)
			return
		}
		if _, err := Create(r.Context(), db, auditSvc, rec); err != nil {
			http.Redirect(w, r, rootingURL(rec.BatchID, err.Error()), http.StatusSeeOther)
			return
		}
		http.Redirect(w, r, rootingURL(rec.BatchID, "Placement recorded"), http.StatusSeeOther)
	}
}

func UpdateRootingCommandHandler(db *sqlite.DB, auditSvc *audit.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil || id <= 0 {
			http.Error(w, "invalid rooting record id", http.StatusBadRequest)
			return
		}
		rec, err := placementFromForm(r)
		if err != nil {
			http.Redirect(w, r, "/lab/rooting?status="+url.QueryEscape(err.Error()), http.StatusSeeOther)
			return
		}
		rec.ID = id
		if err := Update(r.Context(), db, auditSvc, rec); err != nil {
			http.Redirect(w, r, rootingURL(rec.BatchID, err.Error()), http.StatusSeeOther)
			return
		}
		http.Redirect(w, r, rootingURL(rec.BatchID, "Placement updated"), http.StatusSeeOther)
	}
}

func ConfirmRootingCommandHandler(db *sqlite.DB, auditSvc *audit.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil || id <= 0 {
			http.Error(w, "invalid rooting record id", http.StatusBadRequest)
			return
		}
		rec, err := LoadByID(r.Context(), db, id)
		if err != nil {
			http.Error(w, "rooting record not found", http.StatusNotFound)
			return
		}
		if err := r.ParseForm(); err != nil {
			http.Redirect(w, r, rootingURL(rec.BatchID, errInvalidForm.Error()), http.StatusSeeOther)
			return
		}
		numRooted, err := strconv.ParseInt(strings.TrimSpace(r.FormValue("num_rooted")), 10, 64)
		if err != nil {
			http.Redirect(w, r, rootingURL(rec.BatchID, errInvalidForm.Error()), http.StatusSeeOther)
			return
		}
		rootingDate := strings.TrimSpace(r.FormValue("rooting_date"))
		if _, err := time.Parse(models.DateLayout, rootingDate); err != nil {
			http.Redirect(w, r, rootingURL(rec.BatchID, "Invalid rooting date"), http.StatusSeeOther)
			return
		}
		if err := Confirm(r.Context(), db, auditSvc, id, numRooted, rootingDate); err != nil {
			http.Redirect(w, r, rootingURL(rec.BatchID, err.Error()), http.StatusSeeOther)
			return
		}
		http.Redirect(w, r, rootingURL(rec.BatchID, "Rooting confirmed"), http.StatusSeeOther)
	}
}

func DeleteRootingCommandHandler(db *sqlite.DB, auditSvc *audit.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil || id <= 0 {
			http.Error(w, "invalid rooting record id", http.StatusBadRequest)
			return
		}
		rec, err := LoadByID(r.Context(), db, id)
		if err != nil {
			http.Error(w, "rooting record not found", http.StatusNotFound)
			return
		}
		if err := Delete(r.Context(), db, auditSvc, id); err != nil {
			http.Redirect(w, r, rootingURL(rec.BatchID, "Failed to delete placement"), http.StatusSeeOther)
			return
		}
		http.Redirect(w, r, rootingURL(rec.BatchID, "Placement deleted"), http.StatusSeeOther)
	}
}

func rootingURL(batchID int64, status string) string {
	return "/lab/rooting?batch=" + strconv.FormatInt(batchID, 10) + "&status=" + url.QueryEscape(status)
}

func placementFromForm(r *http.Request) (models.RootingRecord, error) {
	var rec models.RootingRecord
	if err := r.ParseForm(); err != nil {
		return rec, errInvalidForm
	}
	batchID, err := strconv.ParseInt(strings.TrimSpace(r.FormValue("batch_id")), 10, 64)
	if err != nil || batchID <= 0 {
		return rec, errInvalidForm
	}
	rec.BatchID = batchID
	rec.PlacementDate = strings.TrimSpace(r.FormValue("placement_date"))
	rec.Notes = strings.TrimSpace(r.FormValue("notes"))
	if _, err := time.Parse(models.DateLayout, rec.PlacementDate); err != nil {
		return rec, errInvalidDate
	}
	if rec.NumPlaced, err = strconv.ParseInt(strings.TrimSpace(r.FormValue("num_placed")), 10, 64); err != nil {
		return rec, errInvalidForm
	}
	if v := strings.TrimSpace(r.FormValue("transfer_id")); v != "" {
		transferID, err := strconv.ParseInt(v, 10, 64)
		if err != nil || transferID <= 0 {
			return rec, errInvalidForm
		}
		rec.TransferID = &transferID
	}
	return rec, nil
}
