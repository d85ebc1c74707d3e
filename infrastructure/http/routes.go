package http

import (
	"proptrack/frontend/batches"
	"proptrack/frontend/contamination"
	"proptrack/frontend/dashboard"
	"proptrack/frontend/deliveries"
	exportspage "proptrack/frontend/exports"
	labelspage "proptrack/frontend/labels"
	"proptrack/frontend/orders"
	"proptrack/frontend/rooting"
	statspage "proptrack/frontend/stats"
	timelinepage "proptrack/frontend/timeline"
	"proptrack/frontend/transfers"

	"github.com/go-chi/chi/v5"
)

// RegisterLabRoutes registers every lab screen under /lab.
func (s *Server) RegisterLabRoutes(r chi.Router) chi.Router {
	r.Get("/dashboard", dashboard.DashboardPageQueryHandler(s.DB))

	s.RegisterOrderRoutes(r)
	s.RegisterBatchRoutes(r)
	s.RegisterPropagationRoutes(r)
	s.RegisterLabelRoutes(r)
	s.RegisterReportRoutes(r)

	return r
}

func (s *Server) RegisterOrderRoutes(r chi.Router) {
	r.Get("/orders", orders.OrdersPageQueryHandler(s.DB))
	r.Post("/orders", orders.CreateOrderCommandHandler(s.DB, s.Audit))
	r.Get("/orders/{id}/edit", orders.EditOrderPageQueryHandler(s.DB))
	r.Post("/orders/{id}", orders.UpdateOrderCommandHandler(s.DB, s.Audit))
	r.Post("/orders/{id}/delete", orders.DeleteOrderCommandHandler(s.DB, s.Audit))
	r.Post("/orders/{id}/complete", orders.CompleteOrderCommandHandler(s.DB, s.Audit))
	r.Post("/orders/{id}/reopen", orders.ReopenOrderCommandHandler(s.DB, s.Audit))

	r.Get("/archive", orders.ArchivePageQueryHandler(s.DB))
}

func (s *Server) RegisterBatchRoutes(r chi.Router) {
	r.Get("/batches", batches.BatchesPageQueryHandler(s.DB))
	r.Post("/batches", batches.CreateBatchCommandHandler(s.DB, s.Audit))
	r.Get("/batches/{id}/edit", batches.EditBatchPageQueryHandler(s.DB))
	r.Post("/batches/{id}", batches.UpdateBatchCommandHandler(s.DB, s.Audit))
	r.Post("/batches/{id}/delete", batches.DeleteBatchCommandHandler(s.DB, s.Audit))
}

func (s *Server) RegisterPropagationRoutes(r chi.Router) {
	r.Get("/contamination", contamination.ContaminationPageQueryHandler(s.DB))
	r.Post("/contamination", contamination.CreateContaminationCommandHandler(s.DB, s.Audit))
	r.Get("/contamination/{id}/edit", contamination.EditContaminationPageQueryHandler(s.DB))
	r.Post("/contamination/{id}", contamination.UpdateContaminationCommandHandler(s.DB, s.Audit))
	r.Post("/contamination/{id}/delete", contamination.DeleteContaminationCommandHandler(s.DB, s.Audit))

	r.Get("/transfers", transfers.TransfersPageQueryHandler(s.DB))
	r.Post("/transfers", transfers.CreateTransferCommandHandler(s.DB, s.Audit))
	r.Get("/transfers/{id}/edit", transfers.EditTransferPageQueryHandler(s.DB))
	r.Post("/transfers/{id}", transfers.UpdateTransferCommandHandler(s.DB, s.Audit))
	r.Post("/transfers/{id}/delete", transfers.DeleteTransferCommandHandler(s.DB, s.Audit))

	r.Get("/rooting", rooting.RootingPageQueryHandler(s.DB))
	r.Post("/rooting", rooting.CreateRootingCommandHandler(s.DB, s.Audit))
	r.Get("/rooting/{id}/edit", rooting.EditRootingPageQueryHandler(s.DB))
	r.Post("/rooting/{id}", rooting.UpdateRootingCommandHandler(s.DB, s.Audit))
	r.Post("/rooting/{id}/confirm", rooting.ConfirmRootingCommandHandler(s.DB, s.Audit))
	r.Post("/rooting/{id}/delete", rooting.DeleteRootingCommandHandler(s.DB, s.Audit))

	r.Get("/deliveries", deliveries.DeliveriesPageQueryHandler(s.DB))
	r.Post("/deliveries", deliveries.CreateDeliveryCommandHandler(s.DB, s.Audit))
	r.Get("/deliveries/{id}/edit", deliveries.EditDeliveryPageQueryHandler(s.DB))
	r.Post("/deliveries/{id}", deliveries.UpdateDeliveryCommandHandler(s.DB, s.Audit))
	r.Post("/deliveries/{id}/delete", deliveries.DeleteDeliveryCommandHandler(s.DB, s.Audit))
}

func (s *Server) RegisterLabelRoutes(r chi.Router) {
	r.Get("/labels", labelspage.LabelsPageQueryHandler(s.DB))
	r.Post("/labels", labelspage.GenerateLabelsCommandHandler(s.DB, s.Audit))
	r.Get("/labels/lookup", labelspage.LookupLabelQueryHandler(s.DB))
	r.Get("/labels/{id}/pdf", labelspage.LabelSheetQueryHandler(s.DB))
	r.Get("/labels/{id}/csv", labelspage.LabelCSVQueryHandler(s.DB))
	r.Post("/labels/{id}/delete", labelspage.DeleteLabelCommandHandler(s.DB, s.Audit))
}

func (s *Server) RegisterReportRoutes(r chi.Router) {
	r.Get("/timeline", timelinepage.TimelinePageQueryHandler(s.DB))
	r.Get("/stats", statspage.StatsPageQueryHandler(s.DB))

	r.Get("/exports", exportspage.ExportsPageQueryHandler())
	r.Get("/exports/orders.csv", exportspage.OrdersExportCSVHandler(s.DB))
	r.Get("/exports/batch-summary.csv", exportspage.BatchSummaryExportCSVHandler(s.DB))
	r.Get("/exports/archive.csv", exportspage.ArchiveExportCSVHandler(s.DB))
	r.Get("/exports/label-manifest.csv", exportspage.LabelManifestExportCSVHandler(s.DB))
}
