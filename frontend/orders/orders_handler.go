package orders

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

func OrdersPageQueryHandler(db *sqlite.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		clientFilter := strings.TrimSpace(r.URL.Query().Get("client"))
		rows, err := List(r.Context(), db, clientFilter)
		if err != nil {
			http.Error(w, "failed to load orders", http.StatusInternalServerError)
			return
		}
		clients, err := ListClients(r.Context(), db)
		if err != nil {
			http.Error(w, "failed to load clients", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(OrdersPage(PageData{
			Message:      strings.TrimSpace(r.URL.Query().Get("status")),
			ClientFilter: clientFilter,
			Clients:      clients,
			Rows:         rows,
		})))
	}
}

func EditOrderPageQueryHandler(db *sqlite.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil || id <= 0 {
			http.Error(w, "invalid order id", http.StatusBadRequest)
			return
		}
		order, err := LoadByID(r.Context(), db, id)
		if err != nil {
			http.Error(w, "order not found", http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(EditOrderPage(order, strings.TrimSpace(r.URL.Query().Get("status")))))
	}
}

func CreateOrderCommandHandler(db *sqlite.DB, auditSvc *audit.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		order, err := orderFromForm(r)
		if err != nil {
			http.Redirect(w, r, "/lab/orders?status="+url.QueryEscape(err.Error()), http.StatusSeeOther)
			return
		}
		if _, err := Create(r.Context(), db, auditSvc, order); err != nil {
			http.Redirect(w, r, "/lab/orders?status="+url.QueryEscape("Failed to create order"), http.StatusSeeOther)
			return
		}
		http.Redirect(w, r, "/lab/orders?status="+url.QueryEscape("Order created"), http.StatusSeeOther)
	}
}

func UpdateOrderCommandHandler(db *sqlite.DB, auditSvc *audit.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil || id <= 0 {
			http.Error(w, "invalid order id", http.StatusBadRequest)
			return
		}
		order, err := orderFromForm(r)
		if err != nil {
			http.Redirect(w, r, "/lab/orders?status="+url.QueryEscape(err.Error()), http.StatusSeeOther)
			return
		}
		order.ID = id
		if err := Update(r.Context(), db, auditSvc, order); err != nil {
			http.Redirect(w, r, "/lab/orders?status="+url.QueryEscape("Failed to update order"), http.StatusSeeOther)
			return
		}
		http.Redirect(w, r, "/lab/orders?status="+url.QueryEscape("Order updated"), http.StatusSeeOther)
	}
}

func DeleteOrderCommandHandler(db *sqlite.DB, auditSvc *audit.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil || id <= 0 {
			http.Error(w, "invalid order id", http.StatusBadRequest)
			return
		}
		if err := Delete(r.Context(), db, auditSvc, id); err != nil {
			http.Redirect(w, r, "/lab/orders?status="+url.QueryEscape("Failed to delete order"), http.StatusSeeOther)
			return
		}
		http.Redirect(w, r, "/lab/orders?status="+url.QueryEscape("Order deleted; its batches remain"), http.StatusSeeOther)
	}
}

func CompleteOrderCommandHandler(db *sqlite.DB, auditSvc *audit.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil || id <= 0 {
			http.Error(w, "invalid order id", http.StatusBadRequest)
			return
		}
		completionDate := strings.TrimSpace(r.FormValue("completion_date"))
		if _, err := time.Parse(models.DateLayout, completionDate); err != nil {
			http.Redirect(w, r, "/lab/orders?status="+url.QueryEscape("Invalid completion date"), http.StatusSeeOther)
			return
		}
		if err := MarkCompleted(r.Context(), db, auditSvc, id, completionDate); err != nil {
			http.Redirect(w, r, "/lab/orders?status="+url.QueryEscape("Failed to complete order"), http.StatusSeeOther)
			return
		}
		http.Redirect(w, r, "/lab/orders?status="+url.QueryEscape("Order completed"), http.StatusSeeOther)
	}
}

func ReopenOrderCommandHandler(db *sqlite.DB, auditSvc *audit.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil || id <= 0 {
			http.Error(w, "invalid order id", http.StatusBadRequest)
			return
		}
		if err := MarkIncomplete(r.Context(), db, auditSvc, id); err != nil {
			http.Redirect(w, r, "/lab/archive?status="+url.QueryEscape("Failed to reopen order"), http.StatusSeeOther)
			return
		}
		http.Redirect(w, r, "/lab/orders?status="+url.QueryEscape("Order reopened"), http.StatusSeeOther)
	}
}

func ArchivePageQueryHandler(db *sqlite.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rows, summary, err := ListArchive(r.Context(), db)
		if err != nil {
			http.Error(w, "failed to load archive", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(ArchivePage(rows, summary, strings.TrimSpace(r.URL.Query().Get("status")))))
	}
}

func orderFromForm(r *http.Request) (models.Order, error) {
	var order models.Order
	if err := r.ParseForm(); err != nil {
		return order, errInvalidForm
	}
	order.ClientName = strings.TrimSpace(r.FormValue("client_name"))
	order.Cultivar = strings.TrimSpace(r.FormValue("cultivar"))
	order.PlantSize = strings.TrimSpace(r.FormValue("plant_size"))
	order.OrderDate = strings.TrimSpace(r.FormValue("order_date"))
	order.Notes = strings.TrimSpace(r.FormValue("notes"))
	order.IsRecurring = r.FormValue("is_recurring") == "1"

	if order.ClientName == "" || order.Cultivar == "" {
		return order, errMissingFields
	}
	if _, err := time.Parse(models.DateLayout, order.OrderDate); err != nil {
		return order, errInvalidDate
	}
	numPlants, err := strconv.ParseInt(strings.TrimSpace(r.FormValue("num_plants")), 10, 64)
	if err != nil || numPlants <= 0 {
		return order, errInvalidCount
	}
	order.NumPlants = numPlants
	if v := strings.TrimSpace(r.FormValue("delivery_quantity")); v != "" {
		qty, err := strconv.ParseInt(v, 10, 64)
		if err != nil || qty < 0 {
			return order, errInvalidCount
		}
		order.DeliveryQuantity = qty
	}
	return order, nil
}
