package labels

import (
	"fmt"
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

func LabelsPageQueryHandler(db *sqlite.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data := PageData{Message: strings.TrimSpace(r.URL.Query().Get("status"))}
		var err error
		var orderID int64
		if v := strings.TrimSpace(r.URL.Query().Get("order")); v != "" {
			orderID, _ = strconv.ParseInt(v, 10, 64)
		}
		if data.Rows, err = List(r.Context(), db, orderID); err != nil {
			http.Error(w, "failed to load label batches", http.StatusInternalServerError)
			return
		}
		if data.Orders, err = ListOrderOptions(r.Context(), db); err != nil {
			http.Error(w, "failed to load orders", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(LabelsPage(data)))
	}
}

func GenerateLabelsCommandHandler(db *sqlite.DB, auditSvc *audit.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req, opts, err := generateRequestFromForm(r)
		if err != nil {
			http.Redirect(w, r, labelsURL(err.Error()), http.StatusSeeOther)
			return
		}
		lb, err := Generate(r.Context(), db, auditSvc, req)
		if err != nil {
			http.Redirect(w, r, labelsURL(err.Error()), http.StatusSeeOther)
			return
		}
		// Land on the fresh sheet with the chosen layout baked into
		// the URL so it can be re-downloaded as-is.
		http.Redirect(w, r, sheetURL(lb.ID, opts), http.StatusSeeOther)
	}
}

func LabelSheetQueryHandler(db *sqlite.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		lb, ok := loadBatch(w, r, db)
		if !ok {
			return
		}
		raw, err := RenderSheet(lb, printOptionsFromQuery(r))
		if err != nil {
			http.Error(w, "failed to render label sheet", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="labels_order_%d_%s.pdf"`, lb.OrderID, shortToken(lb.Token)))
		_, _ = w.Write(raw)
	}
}

func LabelCSVQueryHandler(db *sqlite.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		lb, ok := loadBatch(w, r, db)
		if !ok {
			return
		}
		start := int64(1)
		if v := strings.TrimSpace(r.URL.Query().Get("start")); v != "" {
			if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
				start = n
			}
		}
		raw, err := RenderCSV(lb, start)
		if err != nil {
			http.Error(w, "failed to render label CSV", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="labels_order_%d_%s.csv"`, lb.OrderID, shortToken(lb.Token)))
		_, _ = w.Write(raw)
	}
}

func LookupLabelQueryHandler(db *sqlite.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := strings.TrimSpace(r.URL.Query().Get("token"))
		if token == "" {
			http.Redirect(w, r, labelsURL("Enter a label token"), http.StatusSeeOther)
			return
		}
		// A QR scan pastes the full JSON document; a 1D barcode scan
		// pastes the bare token. A scanned payload is displayed even
		// when its token no longer resolves.
		if strings.HasPrefix(token, "{") {
			p, err := DecodePayload(token)
			if err != nil {
				http.Redirect(w, r, labelsURL("Could not parse the scanned payload"), http.StatusSeeOther)
				return
			}
			message := ""
			if p.Token != "" {
				if lb, err := LoadByToken(r.Context(), db, p.Token); err == nil {
					w.Header().Set("Content-Type", "text/html; charset=utf-8")
					_, _ = w.Write([]byte(LookupPage(lb, "")))
					return
				}
				message = "Payload parsed, but its token matches no stored label batch"
			}
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			_, _ = w.Write([]byte(PayloadPage(p, message)))
			return
		}
		lb, err := LoadByToken(r.Context(), db, token)
		if err != nil {
			http.Redirect(w, r, labelsURL("No label batch matches that token"), http.StatusSeeOther)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(LookupPage(lb, "")))
	}
}

func DeleteLabelCommandHandler(db *sqlite.DB, auditSvc *audit.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil || id <= 0 {
			http.Error(w, "invalid label batch id", http.StatusBadRequest)
			return
		}
		if err := Delete(r.Context(), db, auditSvc, id); err != nil {
			http.Redirect(w, r, labelsURL("Failed to delete label batch"), http.StatusSeeOther)
			return
		}
		http.Redirect(w, r, labelsURL("Label batch deleted"), http.StatusSeeOther)
	}
}

func loadBatch(w http.ResponseWriter, r *http.Request, db *sqlite.DB) (models.LabelBatch, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		http.Error(w, "invalid label batch id", http.StatusBadRequest)
		return models.LabelBatch{}, false
	}
	lb, err := LoadByID(r.Context(), db, id)
	if err != nil {
		http.Error(w, "label batch not found", http.StatusNotFound)
		return models.LabelBatch{}, false
	}
	return lb, true
}

func labelsURL(status string) string {
	return "/lab/labels?status=" + url.QueryEscape(status)
}

func sheetURL(id int64, opts PrintOptions) string {
	q := url.Values{}
	q.Set("code", opts.CodeType)
	q.Set("w", strconv.FormatFloat(opts.LabelWidth, 'f', -1, 64))
	q.Set("h", strconv.FormatFloat(opts.LabelHeight, 'f', -1, 64))
	q.Set("per_row", strconv.Itoa(opts.LabelsPerRow))
	q.Set("start", strconv.FormatInt(opts.StartNumber, 10))
	for name, on := range map[string]bool{
		"cultivar":   opts.IncludeCultivar,
		"client":     opts.IncludeClient,
		"order_date": opts.IncludeOrderDate,
		"init_date":  opts.IncludeInitDate,
		"stages":     opts.IncludeStages,
		"explants":   opts.IncludeExplants,
		"pathogens":  opts.IncludePathogens,
	} {
		if !on {
			q.Set("no_"+name, "1")
		}
	}
	return fmt.Sprintf("/lab/labels/%d/pdf?%s", id, q.Encode())
}

func printOptionsFromQuery(r *http.Request) PrintOptions {
	opts := DefaultPrintOptions()
	q := r.URL.Query()
	if q.Get("code") == CodeBarcode {
		opts.CodeType = CodeBarcode
	}
	if v, err := strconv.ParseFloat(q.Get("w"), 64); err == nil && v >= 1 && v <= 4 {
		opts.LabelWidth = v
	}
	if v, err := strconv.ParseFloat(q.Get("h"), 64); err == nil && v >= 0.5 && v <= 3 {
		opts.LabelHeight = v
	}
	if v, err := strconv.Atoi(q.Get("per_row")); err == nil && v >= 1 && v <= 5 {
		opts.LabelsPerRow = v
	}
	if v, err := strconv.ParseInt(q.Get("start"), 10, 64); err == nil && v >= 1 {
		opts.StartNumber = v
	}
	opts.IncludeCultivar = q.Get("no_cultivar") == ""
	opts.IncludeClient = q.Get("no_client") == ""
	opts.IncludeOrderDate = q.Get("no_order_date") == ""
	opts.IncludeInitDate = q.Get("no_init_date") == ""
	opts.IncludeStages = q.Get("no_stages") == ""
	opts.IncludeExplants = q.Get("no_explants") == ""
	opts.IncludePathogens = q.Get("no_pathogens") == ""
	return opts
}

func generateRequestFromForm(r *http.Request) (GenerateRequest, PrintOptions, error) {
	var req GenerateRequest
	opts := DefaultPrintOptions()
	if err := r.ParseForm(); err != nil {
		return req, opts, fmt.Errorf("Invalid form data")
	}
	var err error
	if req.OrderID, err = strconv.ParseInt(strings.TrimSpace(r.FormValue("order_id")), 10, 64); err != nil || req.OrderID <= 0 {
		return req, opts, fmt.Errorf("Invalid order")
	}
	if req.NumLabels, err = strconv.ParseInt(strings.TrimSpace(r.FormValue("num_labels")), 10, 64); err != nil || req.NumLabels <= 0 || req.NumLabels > 500 {
		return req, opts, fmt.Errorf("Number of labels must be between 1 and 500")
	}
	req.InitiationDate = strings.TrimSpace(r.FormValue("initiation_date"))
	if _, err := time.Parse(models.DateLayout, req.InitiationDate); err != nil {
		return req, opts, fmt.Errorf("Invalid initiation date")
	}
	req.StartNumber = 1
	if v, err := strconv.ParseInt(strings.TrimSpace(r.FormValue("start_number")), 10, 64); err == nil && v >= 1 {
		req.StartNumber = v
	}
	if v, err := strconv.ParseInt(strings.TrimSpace(r.FormValue("num_explants")), 10, 64); err == nil && v > 0 {
		req.NumExplants = v
	}
	req.Stages = r.Form["stages"]
	req.CustomStage = strings.TrimSpace(r.FormValue("custom_stage"))
	req.IncludeDetected = r.FormValue("include_detected") == "1"
	req.ExtraPathogens = strings.TrimSpace(r.FormValue("extra_pathogens"))
	req.Notes = strings.TrimSpace(r.FormValue("notes"))

	if r.FormValue("code_type") == CodeBarcode {
		opts.CodeType = CodeBarcode
	}
	if v, err := strconv.ParseFloat(strings.TrimSpace(r.FormValue("label_width")), 64); err == nil && v >= 1 && v <= 4 {
		opts.LabelWidth = v
	}
	if v, err := strconv.ParseFloat(strings.TrimSpace(r.FormValue("label_height")), 64); err == nil && v >= 0.5 && v <= 3 {
		opts.LabelHeight = v
	}
	if v, err := strconv.Atoi(strings.TrimSpace(r.FormValue("labels_per_row"))); err == nil && v >= 1 && v <= 5 {
		opts.LabelsPerRow = v
	}
	opts.StartNumber = req.StartNumber
	return req, opts, nil
}

func shortToken(token string) string {
	if len(token) > 8 {
		return token[:8]
	}
	return token
}
