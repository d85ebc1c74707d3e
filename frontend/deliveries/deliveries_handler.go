package deliveries

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
	errInvalidDate = errors.New("Invalid delivery date")
)

func DeliveriesPageQueryHandler(db *sqlite.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data := PageData{Message: strings.TrimSpace(r.URL.Query().Get("status"))}
		var err error
		if data.Rows, err = List(r.Context(), db); err != nil {
			http.Error(w, "failed to load deliveries", http.StatusInternalServerError)
			return
		}
		if data.Orders, err = ListOrderOptions(r.Context(), db); err != nil {
			http.Error(w, "failed to load orders", http.StatusInternalServerError)
			return
		}
		if data.Batches, err = ListBatchOptions(r.Context(), db); err != nil {
			http.Error(w, "failed to load batches", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(DeliveriesPage(data)))
	}
}

func EditDeliveryPageQueryHandler(db *sqlite.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil || id <= 0 {
			http.Error(w, "invalid delivery id", http.StatusBadRequest)
			return
		}
		rec, err := LoadByID(r.Context(), db, id)
		if err != nil {
			http.Error(w, "delivery not found", http.StatusNotFound)
			return
		}
		orders, err := ListOrderOptions(r.Context(), db)
		if err != nil {
			http.Error(w, "failed to load orders", http.StatusInternalServerError)
			return
		}
		batches, err := ListBatchOptions(r.Context(), db)
		if err != nil {
			http.Error(w, "failed to load batches", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(EditDeliveryPage(rec, orders, batches, strings.TrimSpace(r.URL.Query().Get("status")))))
	}
}

func CreateDeliveryCommandHandler(db *sqlite.DB, auditSvc *audit.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec, err := deliveryFromForm(r)
		if err != nil {
			http.Redirect(w, r, deliveriesURL(err.Error()), http.StatusSeeOther)
			return
		}
		if _, err := Create(r.Context(), db, auditSvc, rec); err != nil {
			http.Redirect(w, r, deliveriesURL(err.Error()), http.StatusSeeOther)
			return
		}
		http.Redirect(w, r, deliveriesURL("Delivery recorded"), http.StatusSeeOther)
	}
}

func UpdateDeliveryCommandHandler(db *sqlite.DB, auditSvc *audit.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil || id <= 0 {
			http.Error(w, "invalid delivery id", http.StatusBadRequest)
			return
		}
		rec, err := deliveryFromForm(r)
		if err != nil {
			http.Redirect(w, r, deliveriesURL(err.Error()), http.StatusSeeOther)
			return
		}
		rec.ID = id
		if err := Update(r.Context(), db, auditSvc, rec); err != nil {
			http.Redirect(w, r, deliveriesURL(err.Error()), http.StatusSeeOther)
			return
		}
		http.Redirect(w, r, deliveriesURL("Delivery updated"), http.StatusSeeOther)
	}
}

func DeleteDeliveryCommandHandler(db *sqlite.DB, auditSvc *audit.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil || id <= 0 {
			http.Error(w, "invalid delivery id", http.StatusBadRequest)
			return
		}
		if err := Delete(r.Context(), db, auditSvc, id); err != nil {
			http.Redirect(w, r, deliveriesURL("Failed to delete delivery"), http.StatusSeeOther)
			return
		}
		http.Redirect(w, r, deliveriesURL("Delivery deleted"), http.StatusSeeOther)
	}
}

func deliveriesURL(status string) string {
	return "/lab/deliveries?status=" + url.QueryEscape(status)
}

func deliveryFromForm(r *http.Request) (models.DeliveryRecord, error) {
	var rec models.DeliveryRecord
	if err := r.ParseForm(); err != nil {
		return rec, errInvalidForm
	}
	rec.DeliveryDate = strings.TrimSpace(r.FormValue("delivery_date"))
	rec.DeliveryMethod = strings.TrimSpace(r.FormValue("delivery_method"))
	rec.Notes = strings.TrimSpace(r.FormValue("notes"))
	if _, err := time.Parse(models.DateLayout, rec.DeliveryDate); err != nil {
		return rec, errInvalidDate
	}
	var err error
	if rec.NumDelivered, err = strconv.ParseInt(strings.TrimSpace(r.FormValue("num_delivered")), 10, 64); err != nil {
		return rec, errInvalidForm
	}
	if v := strings.TrimSpace(r.FormValue("order_id")); v != "" {
		orderID, err := strconv.ParseInt(v, 10, 64)
		if err != nil || orderID <= 0 {
			return rec, errInvalidForm
		}
		rec.OrderID = &orderID
	}
	if v := strings.TrimSpace(r.FormValue("batch_id")); v != "" {
		batchID, err := strconv.ParseInt(v, 10, 64)
		if err != nil || batchID <= 0 {
			return rec, errInvalidForm
		}
		rec.BatchID = &batchID
	}
	return rec, nil
}
