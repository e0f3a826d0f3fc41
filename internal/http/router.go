package http

import (
	"net/http"

	"ledger-backend/internal/handlers"
	"ledger-backend/internal/middleware"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Handlers struct {
	Auth      *handlers.AuthHandler
	Directory *handlers.DirectoryHandler
	Ledger    *handlers.LedgerHandler
	Report    *handlers.ReportHandler
	Health    *handlers.HealthHandler
}

func NewRouter(h Handlers, authMiddleware *middleware.AuthMiddleware) *mux.Router {
	r := mux.NewRouter()
	r.Use(middleware.MetricsMiddleware)

	// Public routes
	r.HandleFunc("/auth/login", h.Auth.Login).Methods(http.MethodPost)
	r.HandleFunc("/health", h.Health.BasicHealth).Methods(http.MethodGet)
	r.HandleFunc("/health/ready", h.Health.ReadinessHealth).Methods(http.MethodGet)
	r.HandleFunc("/health/detailed", h.Health.DetailedHealth).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	// Protected API routes - operator token required
	api := r.PathPrefix("/api").Subrouter()
	api.Use(authMiddleware.Authenticate)

	// Master directory
	api.HandleFunc("/salesmen", h.Directory.ListSalesmen).Methods(http.MethodGet)
	api.HandleFunc("/salesmen", h.Directory.CreateSalesman).Methods(http.MethodPost)
	api.HandleFunc("/customers", h.Directory.ListCustomers).Methods(http.MethodGet)
	api.HandleFunc("/customers", h.Directory.CreateCustomer).Methods(http.MethodPost)

	// Statements and exports
	api.HandleFunc("/customers/{name}/statement", h.Ledger.GetStatement).Methods(http.MethodGet)
	api.HandleFunc("/customers/{name}/statement.csv", h.Report.StatementCSV).Methods(http.MethodGet)
	api.HandleFunc("/customers/{name}/statement.pdf", h.Report.StatementPDF).Methods(http.MethodGet)
	api.HandleFunc("/customers/{name}/statement/archive", h.Report.ArchiveStatement).Methods(http.MethodPost)

	// Documents, clearing and red-ink reversal
	api.HandleFunc("/documents", h.Ledger.SubmitDocument).Methods(http.MethodPost)
	api.HandleFunc("/entries/{id}", h.Ledger.GetEntry).Methods(http.MethodGet)
	api.HandleFunc("/entries/{id}/payments", h.Ledger.ApplyPayment).Methods(http.MethodPost)
	api.HandleFunc("/entries/{id}/void", h.Ledger.VoidEntry).Methods(http.MethodPost)
	api.HandleFunc("/contracts/payments", h.Ledger.ApplyContractPayment).Methods(http.MethodPost)

	// Dashboard and audit centre
	api.HandleFunc("/dashboard", h.Ledger.GetDashboard).Methods(http.MethodGet)
	api.HandleFunc("/audit/voided", h.Ledger.ListVoided).Methods(http.MethodGet)

	return r
}
