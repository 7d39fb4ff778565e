//go:build e2e

// test/e2e/pharmacy_workflow_test.go
package e2e_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/tealeg/xlsx/v3"

	"github.com/ammerola/pharmacy-be/internal/adapters/db"
	redis_a "github.com/ammerola/pharmacy-be/internal/adapters/redis_adapter"
	"github.com/ammerola/pharmacy-be/internal/adapters/spreadsheet"
	"github.com/ammerola/pharmacy-be/internal/core/domain"
	"github.com/ammerola/pharmacy-be/internal/core/services"
	"github.com/ammerola/pharmacy-be/internal/handlers"
	"github.com/ammerola/pharmacy-be/internal/handlers/middleware"
	"github.com/ammerola/pharmacy-be/test/helpers"
)

type PharmacyWorkflowSuite struct {
	suite.Suite
	testDB    *helpers.TestDB
	testRedis *helpers.TestRedis
	server    *httptest.Server
	client    *http.Client
	token     string
}

func TestPharmacyWorkflow(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping e2e tests in short mode")
	}
	suite.Run(t, new(PharmacyWorkflowSuite))
}

func (s *PharmacyWorkflowSuite) SetupSuite() {
	t := s.T()
	logger := helpers.TestLogger()
	cfg := helpers.LoadTestConfig()

	s.testDB = helpers.SetupTestDB(t)
	s.testRedis = helpers.SetupTestRedis(t)

	cache := redis_a.NewCache(s.testRedis.Client, time.Minute, logger)
	store := db.NewStore(s.testDB.Database, logger)
	sheets := spreadsheet.New()

	auth := services.NewAuthService(store, cache, services.AuthConfig{
		Secret:     cfg.Security.JWTSecret,
		Issuer:     cfg.Security.JWTIssuer,
		AccessTTL:  cfg.Security.JWTExpiration,
		RefreshTTL: cfg.Security.JWTRefreshExpiration,
		BcryptCost: cfg.Security.BcryptCost,
	}, logger)
	catalog := services.NewCatalogService(store, cache, logger)
	medicines := services.NewMedicineService(store, catalog, cache, logger)
	purchases := services.NewPurchaseService(store, cache, logger)
	imports := services.NewImportService(store, catalog, medicines, purchases, sheets, logger)

	h := handlers.Handlers{
		Auth:         handlers.NewAuthHandler(auth, logger),
		Purchases:    handlers.NewPurchaseHandler(purchases, logger),
		Sales:        handlers.NewSaleHandler(services.NewSaleService(store, cache, logger), logger),
		Batches:      handlers.NewBatchHandler(services.NewBatchService(store, cache, time.Minute, logger), logger),
		Stock:        handlers.NewStockHandler(services.NewStockService(store, cache, time.Minute, logger), sheets, logger),
		Medicines:    handlers.NewMedicineHandler(medicines, logger),
		Catalog:      handlers.NewCatalogHandler(catalog, logger),
		Transactions: handlers.NewTransactionHandler(services.NewTransactionService(store, logger), logger),
		Imports:      handlers.NewImportHandler(imports, nil, sheets, logger, 0),
		Dashboard:    handlers.NewDashboardHandler(services.NewDashboardService(store, cache, time.Minute, logger), logger),
		Users:        handlers.NewUserHandler(services.NewUserService(store, cfg.Security.BcryptCost, logger), logger),
		AuditLogs:    handlers.NewAuditLogHandler(services.NewAuditService(store, logger), logger),
		Health:       handlers.NewHealthHandler(s.testDB.Database, cache, nil, "e2e", "test", logger),
	}

	mux := http.NewServeMux()
	handlers.RegisterRoutes(mux, h, auth)

	var handler http.Handler = mux
	handler = middleware.Recovery(logger)(handler)
	handler = middleware.RequestID("X-Request-ID")(handler)

	s.server = httptest.NewServer(handler)
	s.client = &http.Client{Timeout: 30 * time.Second}
}

func (s *PharmacyWorkflowSuite) TearDownSuite() {
	if s.server != nil {
		s.server.Close()
	}
}

func (s *PharmacyWorkflowSuite) SetupTest() {
	helpers.TruncateAllTables(s.T(), s.testDB.PgxPool)
	s.testRedis.Server.FlushAll()
	s.token = s.registerAndLogin("pharmacist@example.com", "correct-horse-battery")
}

func (s *PharmacyWorkflowSuite) TestHealthEndpoint() {
	resp := s.makeRequest(http.MethodGet, "/health", nil)
	defer resp.Body.Close()
	s.Equal(http.StatusOK, resp.StatusCode)

	var body map[string]any
	s.decodeResponse(resp, &body)
	s.Equal("e2e", body["version"])
}

func (s *PharmacyWorkflowSuite) TestUnauthenticatedRequestIsRejected() {
	req, err := http.NewRequest(http.MethodGet, s.server.URL+"/api/v1/medicines", nil)
	s.Require().NoError(err)
	resp, err := s.client.Do(req)
	s.Require().NoError(err)
	defer resp.Body.Close()
	s.Equal(http.StatusUnauthorized, resp.StatusCode)
}

func (s *PharmacyWorkflowSuite) TestCompleteSaleWorkflow() {
	medicineID := s.createMedicine("Amoxicillin", "4.25", 0)

	var batch domain.Batch
	resp := s.makeRequest(http.MethodPost, "/api/v1/batches", map[string]any{"note": "weekly delivery"})
	s.Require().Equal(http.StatusCreated, resp.StatusCode)
	s.decodeResponse(resp, &batch)

	var purchase domain.Purchase
	resp = s.makeRequest(http.MethodPost, "/api/v1/purchases", map[string]any{
		"medicine_id":   medicineID,
		"batch_id":      batch.ID,
		"quantity":      10,
		"cost_per_unit": "1.50",
	})
	s.Require().Equal(http.StatusCreated, resp.StatusCode)
	s.decodeResponse(resp, &purchase)
	s.Equal(int64(10), s.stockOf(medicineID))

	var sale domain.Sale
	resp = s.makeRequest(http.MethodPost, "/api/v1/sells", map[string]any{
		"medicine_id": medicineID,
		"quantity":    3,
	})
	s.Require().Equal(http.StatusCreated, resp.StatusCode)
	s.decodeResponse(resp, &sale)
	s.Equal("12.75", sale.TotalPrice.StringFixed(2))
	s.Equal(int64(7), s.stockOf(medicineID))

	resp = s.makeRequest(http.MethodPost, "/api/v1/sells", map[string]any{
		"medicine_id": medicineID,
		"quantity":    8,
	})
	resp.Body.Close()
	s.Equal(http.StatusBadRequest, resp.StatusCode, "overselling must be rejected")
	s.Equal(int64(7), s.stockOf(medicineID))

	var page domain.TransactionPage
	resp = s.makeRequest(http.MethodGet, "/api/v1/transactions", nil)
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	s.decodeResponse(resp, &page)
	var refs []string
	for _, tx := range page.Items {
		refs = append(refs, tx.ReferenceNumber)
	}
	s.Contains(refs, "SALE-1")

	var salePage domain.TransactionPage
	resp = s.makeRequest(http.MethodGet, fmt.Sprintf("/api/v1/transactions/sale/%d", sale.ID), nil)
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	s.decodeResponse(resp, &salePage)
	s.Require().Len(salePage.Items, 1)
	s.Equal("SALE-1", salePage.Items[0].ReferenceNumber)

	resp = s.makeRequest(http.MethodDelete, fmt.Sprintf("/api/v1/batches/%d", batch.ID), nil)
	resp.Body.Close()
	s.Equal(http.StatusConflict, resp.StatusCode)

	resp = s.makeRequest(http.MethodPatch, fmt.Sprintf("/api/v1/stock/medicine/%d/adjust", medicineID), map[string]any{"delta": -7})
	resp.Body.Close()
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	s.Equal(int64(0), s.stockOf(medicineID))

	var dashboard domain.Dashboard
	resp = s.makeRequest(http.MethodGet, "/api/v1/dashboard", nil)
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	s.decodeResponse(resp, &dashboard)
	s.Equal(int64(1), dashboard.Summary.SalesToday)
	s.Equal(int64(1), dashboard.Summary.PurchasesToday)
	s.Require().Len(dashboard.LowStock, 1)
	s.Equal(medicineID, dashboard.LowStock[0].MedicineID)

	resp = s.makeRequest(http.MethodGet, "/api/v1/stock/export", nil)
	defer resp.Body.Close()
	s.Equal(http.StatusOK, resp.StatusCode)
	data, err := io.ReadAll(resp.Body)
	s.Require().NoError(err)
	s.NotEmpty(data)
}

func (s *PharmacyWorkflowSuite) TestAuditTrail() {
	resp := s.makeRequest(http.MethodPost, "/api/v1/audit-logs", map[string]any{
		"action":  "stock.export",
		"details": "monthly report",
	})
	resp.Body.Close()
	s.Require().Equal(http.StatusCreated, resp.StatusCode)

	var page domain.AuditLogPage
	resp = s.makeRequest(http.MethodGet, "/api/v1/audit-logs?limit=5", nil)
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	s.decodeResponse(resp, &page)
	s.Require().Len(page.Items, 1)
	s.Equal("stock.export", page.Items[0].Action)
	s.Equal("pharmacist@example.com", page.Items[0].UserEmail)

	resp = s.makeRequest(http.MethodGet, "/api/v1/users", nil)
	resp.Body.Close()
	s.Equal(http.StatusForbidden, resp.StatusCode)
}

func (s *PharmacyWorkflowSuite) TestConcurrentSaleOfLastUnit() {
	medicineID := s.createMedicine("Insulin", "30.00", 1)

	const buyers = 6
	payload, err := json.Marshal(map[string]any{"medicine_id": medicineID, "quantity": 1})
	s.Require().NoError(err)

	statuses := make([]int, buyers)
	errs := make([]error, buyers)
	var wg sync.WaitGroup
	for i := range buyers {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			req, err := http.NewRequest(http.MethodPost, s.server.URL+"/api/v1/sells", bytes.NewReader(payload))
			if err != nil {
				errs[i] = err
				return
			}
			req.Header.Set("Content-Type", "application/json")
			req.Header.Set("Authorization", "Bearer "+s.token)
			resp, err := s.client.Do(req)
			if err != nil {
				errs[i] = err
				return
			}
			resp.Body.Close()
			statuses[i] = resp.StatusCode
		}(i)
	}
	wg.Wait()
	for _, err := range errs {
		s.Require().NoError(err)
	}

	counts := map[int]int{}
	for _, code := range statuses {
		counts[code]++
	}
	s.Equal(1, counts[http.StatusCreated])
	s.Equal(buyers-1, counts[http.StatusBadRequest])
	s.Equal(int64(0), s.stockOf(medicineID))
}

func (s *PharmacyWorkflowSuite) TestMedicineImport() {
	file := workbook(s.T(), spreadsheet.MedicineColumns,
		[]string{"Ibuprofen", "Acme Pharma", "tablet", "Analgesic", "3.10", "40", "200mg", ""},
		[]string{"Cetirizine", "Acme Pharma", "tablet", "Antihistamine", "2.00", "15", "10mg", ""},
		[]string{"", "Acme Pharma", "tablet", "Analgesic", "1.00", "1", "", ""},
	)

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", "medicines.xlsx")
	s.Require().NoError(err)
	_, err = part.Write(file)
	s.Require().NoError(err)
	s.Require().NoError(writer.Close())

	req, err := http.NewRequest(http.MethodPost, s.server.URL+"/api/v1/imports/medicines", &body)
	s.Require().NoError(err)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+s.token)

	resp, err := s.client.Do(req)
	s.Require().NoError(err)
	s.Require().Equal(http.StatusOK, resp.StatusCode)

	var report domain.ImportReport
	s.decodeResponse(resp, &report)
	s.Equal(2, report.SuccessCount)
	s.Equal(1, report.ErrorCount)

	var meds []domain.Medicine
	resp = s.makeRequest(http.MethodGet, "/api/v1/medicines", nil)
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	s.decodeResponse(resp, &meds)
	s.Len(meds, 2)
	for _, m := range meds {
		if m.Name == "Ibuprofen" {
			s.Equal(int64(40), s.stockOf(m.ID))
		}
	}
}

func (s *PharmacyWorkflowSuite) registerAndLogin(email, password string) string {
	resp := s.post("/api/v1/auth/register", map[string]any{
		"name":     "Test Pharmacist",
		"email":    email,
		"password": password,
	}, "")
	resp.Body.Close()
	s.Require().Equal(http.StatusCreated, resp.StatusCode)

	resp = s.post("/api/v1/auth/login", map[string]any{
		"email":    email,
		"password": password,
	}, "")
	s.Require().Equal(http.StatusOK, resp.StatusCode)

	var pair domain.TokenPair
	s.decodeResponse(resp, &pair)
	s.Require().NotEmpty(pair.AccessToken)
	return pair.AccessToken
}

func (s *PharmacyWorkflowSuite) createMedicine(name, price string, initial int64) int64 {
	resp := s.makeRequest(http.MethodPost, "/api/v1/medicines", map[string]any{
		"name":             name,
		"manufacturer":     "Acme Pharma",
		"unit":             "tablet",
		"category":         "General",
		"sell_price":       price,
		"initial_quantity": initial,
	})
	s.Require().Equal(http.StatusCreated, resp.StatusCode)

	var med domain.Medicine
	s.decodeResponse(resp, &med)
	return med.ID
}

func (s *PharmacyWorkflowSuite) stockOf(medicineID int64) int64 {
	resp := s.makeRequest(http.MethodGet, fmt.Sprintf("/api/v1/stock/medicine/%d", medicineID), nil)
	s.Require().Equal(http.StatusOK, resp.StatusCode)

	var entry domain.StockEntry
	s.decodeResponse(resp, &entry)
	return entry.Quantity
}

func (s *PharmacyWorkflowSuite) makeRequest(method, path string, body any) *http.Response {
	return s.do(method, path, body, s.token)
}

func (s *PharmacyWorkflowSuite) post(path string, body any, token string) *http.Response {
	return s.do(http.MethodPost, path, body, token)
}

func (s *PharmacyWorkflowSuite) do(method, path string, body any, token string) *http.Response {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(s.T(), err)
		reader = bytes.NewReader(data)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	s.T().Cleanup(cancel)

	req, err := http.NewRequestWithContext(ctx, method, s.server.URL+path, reader)
	require.NoError(s.T(), err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := s.client.Do(req)
	require.NoError(s.T(), err)
	return resp
}

func (s *PharmacyWorkflowSuite) decodeResponse(resp *http.Response, v any) {
	defer resp.Body.Close()
	require.NoError(s.T(), json.NewDecoder(resp.Body).Decode(v))
}

func workbook(t *testing.T, header []string, rows ...[]string) []byte {
	t.Helper()
	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Sheet1")
	require.NoError(t, err)
	for _, values := range append([][]string{header}, rows...) {
		row := sheet.AddRow()
		for _, v := range values {
			row.AddCell().Value = v
		}
	}
	var buf bytes.Buffer
	require.NoError(t, file.Write(&buf))
	assert.NotZero(t, buf.Len())
	return buf.Bytes()
}
