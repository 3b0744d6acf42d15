package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/bizhub-erp/bizhub/internal/cash"
	"github.com/bizhub-erp/bizhub/internal/expenses"
	"github.com/bizhub-erp/bizhub/internal/items"
	"github.com/bizhub-erp/bizhub/internal/observability"
	"github.com/bizhub-erp/bizhub/internal/parties"
	"github.com/bizhub-erp/bizhub/internal/purchases"
	"github.com/bizhub-erp/bizhub/internal/reports"
	"github.com/bizhub-erp/bizhub/internal/sales"
	"github.com/bizhub-erp/bizhub/internal/tenant"
	"github.com/bizhub-erp/bizhub/jobs"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger           *slog.Logger
	Config           *Config
	PartiesHandler   *parties.Handler
	ItemsHandler     *items.Handler
	SalesHandler     *sales.Handler
	PurchasesHandler *purchases.Handler
	ExpensesHandler  *expenses.Handler
	CashHandler      *cash.Handler
	ReportsHandler   *reports.Handler
	JobHandler       *jobs.Handler
	Metrics          *observability.Metrics
}

// NewRouter constructs the chi.Router with application defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:  params.Logger,
		Config:  params.Config,
		Metrics: params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api/business-hub", func(r chi.Router) {
		r.Use(tenant.Middleware(params.Logger))
		r.Route("/parties", params.PartiesHandler.MountRoutes)
		r.Route("/items", params.ItemsHandler.MountRoutes)
		r.Route("/sales", params.SalesHandler.MountRoutes)
		r.Route("/purchases", params.PurchasesHandler.MountRoutes)
		r.Route("/expenses", params.ExpensesHandler.MountRoutes)
		r.Route("/cash-transactions", params.CashHandler.MountTransactionRoutes)
		r.Route("/bank-accounts", params.CashHandler.MountAccountRoutes)
		r.Route("/reports", params.ReportsHandler.MountRoutes)
		r.Route("/dashboard", params.ReportsHandler.MountDashboard)
	})

	if params.JobHandler != nil {
		r.Route("/jobs", params.JobHandler.MountRoutes)
	}
	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	return r
}
