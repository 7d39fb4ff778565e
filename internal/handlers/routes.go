// internal/handlers/routes.go
package handlers

import (
	"net/http"

	"github.com/ammerola/pharmacy-be/internal/core/domain"
	"github.com/ammerola/pharmacy-be/internal/core/ports"
	"github.com/ammerola/pharmacy-be/internal/handlers/middleware"
)

const apiV1 = "/api/v1"

// Handlers groups every HTTP handler of the API.
type Handlers struct {
	Auth         *AuthHandler
	Purchases    *PurchaseHandler
	Sales        *SaleHandler
	Batches      *BatchHandler
	Stock        *StockHandler
	Medicines    *MedicineHandler
	Catalog      *CatalogHandler
	Transactions *TransactionHandler
	Imports      *ImportHandler
	Dashboard    *DashboardHandler
	Users        *UserHandler
	AuditLogs    *AuditLogHandler
	Health       *HealthHandler
}

// RegisterRoutes mounts the API on mux using method-specific patterns.
// Everything except health, login, register and refresh requires a bearer
// token verified by auth.
func RegisterRoutes(mux *http.ServeMux, h Handlers, auth ports.AuthService) {
	authed := middleware.Authenticate(auth)
	adminOnly := middleware.RequireRole(domain.RoleAdmin)

	private := func(pattern string, fn http.HandlerFunc) {
		mux.Handle(pattern, authed(fn))
	}
	admin := func(pattern string, fn http.HandlerFunc) {
		mux.Handle(pattern, authed(adminOnly(fn)))
	}

	if h.Health != nil {
		mux.HandleFunc("GET /health", h.Health.Health)
		mux.HandleFunc("GET /ready", h.Health.Readiness)
		mux.HandleFunc("GET "+apiV1+"/health", h.Health.Health)
		mux.HandleFunc("GET "+apiV1+"/ready", h.Health.Readiness)
	}

	mux.HandleFunc("POST "+apiV1+"/auth/register", h.Auth.Register)
	mux.HandleFunc("POST "+apiV1+"/auth/login", h.Auth.Login)
	mux.HandleFunc("POST "+apiV1+"/auth/refresh", h.Auth.Refresh)
	private("POST "+apiV1+"/auth/logout", h.Auth.Logout)
	private("GET "+apiV1+"/auth/me", h.Auth.Me)

	private("POST "+apiV1+"/purchases", h.Purchases.CreatePurchase)
	private("GET "+apiV1+"/purchases", h.Purchases.ListPurchases)
	private("GET "+apiV1+"/purchases/{id}", h.Purchases.GetPurchase)
	private("PUT "+apiV1+"/purchases/{id}", h.Purchases.UpdatePurchase)
	private("DELETE "+apiV1+"/purchases/{id}", h.Purchases.DeletePurchase)

	private("POST "+apiV1+"/sells", h.Sales.CreateSale)
	private("GET "+apiV1+"/sells", h.Sales.ListSales)
	private("GET "+apiV1+"/sells/{id}", h.Sales.GetSale)

	private("POST "+apiV1+"/batches", h.Batches.CreateBatch)
	private("GET "+apiV1+"/batches", h.Batches.ListBatches)
	private("GET "+apiV1+"/batches/{id}", h.Batches.GetBatch)
	private("PATCH "+apiV1+"/batches/{id}", h.Batches.UpdateBatch)
	private("DELETE "+apiV1+"/batches/{id}", h.Batches.DeleteBatch)
	private("GET "+apiV1+"/batches/{id}/summary", h.Batches.BatchSummary)

	private("GET "+apiV1+"/stock", h.Stock.ListStock)
	private("GET "+apiV1+"/stock/export", h.Stock.ExportStock)
	private("GET "+apiV1+"/stock/medicine/{id}", h.Stock.GetStock)
	private("PATCH "+apiV1+"/stock/medicine/{id}/adjust", h.Stock.AdjustStock)
	private("PUT "+apiV1+"/stock/medicine/{id}", h.Stock.SetStock)

	private("POST "+apiV1+"/medicines", h.Medicines.CreateMedicine)
	private("GET "+apiV1+"/medicines", h.Medicines.ListMedicines)
	private("GET "+apiV1+"/medicines/{id}", h.Medicines.GetMedicine)
	private("PUT "+apiV1+"/medicines/{id}", h.Medicines.UpdateMedicine)
	admin("DELETE "+apiV1+"/medicines/{id}", h.Medicines.DeleteMedicine)

	private("POST "+apiV1+"/catalog/{kind}", h.Catalog.CreateEntry)
	private("GET "+apiV1+"/catalog/{kind}", h.Catalog.ListEntries)
	private("GET "+apiV1+"/catalog/{kind}/{id}", h.Catalog.GetEntry)
	private("PUT "+apiV1+"/catalog/{kind}/{id}", h.Catalog.UpdateEntry)
	admin("DELETE "+apiV1+"/catalog/{kind}/{id}", h.Catalog.DeleteEntry)

	private("POST "+apiV1+"/transactions", h.Transactions.RecordTransaction)
	private("GET "+apiV1+"/transactions", h.Transactions.ListTransactions)
	private("GET "+apiV1+"/transactions/sale/{saleId}", h.Transactions.ListSaleTransactions)

	private("POST "+apiV1+"/imports/{kind}", h.Imports.Import)
	private("GET "+apiV1+"/imports/{jobId}", h.Imports.ImportStatus)
	private("GET "+apiV1+"/imports/templates/{kind}", h.Imports.Template)

	if h.Dashboard != nil {
		private("GET "+apiV1+"/dashboard", h.Dashboard.GetDashboard)
	}

	if h.Users != nil {
		admin("GET "+apiV1+"/users", h.Users.ListUsers)
		admin("GET "+apiV1+"/users/{id}", h.Users.GetUser)
		admin("PUT "+apiV1+"/users/{id}", h.Users.UpdateUser)
		admin("DELETE "+apiV1+"/users/{id}", h.Users.DeleteUser)
	}

	if h.AuditLogs != nil {
		private("POST "+apiV1+"/audit-logs", h.AuditLogs.CreateAuditLog)
		private("GET "+apiV1+"/audit-logs", h.AuditLogs.ListAuditLogs)
		admin("GET "+apiV1+"/audit-logs/user/{userId}", h.AuditLogs.ListUserAuditLogs)
	}
}
