package http

import (
	"net/http"

	"github.com/Seyfullahkurt9/warehouse-system-AP/internal/auth"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

func NewRouter(handler *Handler, authn Authenticator, gate AccessChecker, logger *zap.Logger) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}

	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(Logger(logger))
	r.Use(Recoverer(logger))
	r.Use(Timeout)
	r.Use(CORS)

	r.Get("/healthz", handler.Health)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(RequireAuth(authn))

		r.Get("/orders", handler.ListOrders)
		r.Post("/orders", handler.CreateOrder)
		r.Get("/orders/personnel/{id}", handler.ListOrdersByPersonnel)
		r.Get("/orders/supplier/{id}", handler.ListOrdersBySupplier)
		r.Get("/orders/{id}", handler.GetOrder)
		r.Put("/orders/{id}", handler.UpdateOrder)
		r.Delete("/orders/{id}", handler.DeleteOrder)

		r.Get("/stocks", handler.ListStocks)
		r.Post("/stocks", handler.CreateStock)
		r.Post("/stocks/import", handler.ImportStockExcel)
		r.Get("/stocks/{id}", handler.GetStock)
		r.Put("/stocks/{id}", handler.UpdateStock)
		r.Patch("/stocks/{id}/exit", handler.RecordStockExit)
		r.Delete("/stocks/{id}", handler.DeleteStock)

		r.Route("/reports", func(r chi.Router) {
			r.With(RequireOperation(gate, logger, auth.OpStockSummary)).Get("/stock-summary", handler.StockSummary)
			r.With(RequireOperation(gate, logger, auth.OpLowStock)).Get("/low-stock-alerts", handler.LowStockAlerts)
			r.With(RequireOperation(gate, logger, auth.OpStockMovement)).Get("/stock-movement", handler.StockMovement)
		})

		r.Get("/companies", handler.ListCompanies)
		r.Post("/companies", handler.CreateCompany)
		r.Get("/companies/{id}", handler.GetCompany)
		r.Put("/companies/{id}", handler.UpdateCompany)
		r.Delete("/companies/{id}", handler.DeleteCompany)

		r.Get("/personnel", handler.ListPersonnel)
		r.Post("/personnel", handler.CreatePersonnel)
		r.Get("/personnel/{id}", handler.GetPersonnel)
		r.Put("/personnel/{id}", handler.UpdatePersonnel)
		r.Delete("/personnel/{id}", handler.DeletePersonnel)

		r.Get("/suppliers", handler.ListSuppliers)
		r.Post("/suppliers", handler.CreateSupplier)
		r.Get("/suppliers/{id}", handler.GetSupplier)
		r.Put("/suppliers/{id}", handler.UpdateSupplier)
		r.Delete("/suppliers/{id}", handler.DeleteSupplier)
	})

	return r
}
