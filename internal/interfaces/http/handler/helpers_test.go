package handler

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"
	billingapp "github.com/trucklot/backend/internal/application/billing"
	lotapp "github.com/trucklot/backend/internal/application/lot"
	"github.com/trucklot/backend/internal/infrastructure/migration"
	"github.com/trucklot/backend/internal/infrastructure/persistence"
	"github.com/trucklot/backend/internal/interfaces/http/dto"
	"github.com/trucklot/backend/internal/interfaces/http/middleware"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// testAPI serves the handlers over a migrated in-memory database.
type testAPI struct {
	engine *gin.Engine
	db     *persistence.Database
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	require.NoError(t, middleware.SetupValidator())

	sqlDB, err := sql.Open("sqlite3", "file::memory:?_foreign_keys=on")
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	m, err := migration.New(sqlDB, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, m.Up())

	db, err := persistence.NewDatabaseWithConn(sqlDB, zap.NewNop())
	require.NoError(t, err)

	log := zap.NewNop()
	customerRepo := persistence.NewGormCustomerRepository(db.DB)
	truckRepo := persistence.NewGormTruckRepository(db.DB)
	contractRepo := persistence.NewGormContractRepository(db.DB)
	reader := persistence.NewGormBillingReader(db.DB)
	engine := billingapp.NewEngine(reader, log)

	customers := NewCustomerHandler(lotapp.NewCustomerService(customerRepo, log))
	trucks := NewTruckHandler(lotapp.NewTruckService(truckRepo, customerRepo, log))
	contracts := NewContractHandler(lotapp.NewContractService(contractRepo, customerRepo, truckRepo, log))
	billing := NewBillingHandler(
		engine,
		billingapp.NewPaymentService(engine, persistence.NewGormPaymentLedger(db.DB), 12, log),
		billingapp.NewReportService(reader, 30, log),
		billingapp.DefaultPaymentsLimit,
	)

	r := gin.New()
	r.Use(middleware.RequestID())
	api := r.Group("/api/v1")
	api.GET("/health", NewHealthHandler(db).Check)

	api.POST("/customers", customers.Create)
	api.GET("/customers", customers.List)
	api.GET("/customers/:id", customers.GetByID)
	api.PUT("/customers/:id", customers.Update)
	api.DELETE("/customers/:id", customers.Delete)
	api.GET("/customers/:id/ledger", billing.Ledger)

	api.POST("/trucks", trucks.Create)
	api.GET("/trucks", trucks.List)
	api.GET("/trucks/:id", trucks.GetByID)
	api.DELETE("/trucks/:id", trucks.Delete)

	api.POST("/contracts", contracts.Create)
	api.GET("/contracts", contracts.List)
	api.GET("/contracts/:id", contracts.GetByID)
	api.PUT("/contracts/:id/active", contracts.SetActive)
	api.PUT("/contracts/:id/end", contracts.End)
	api.DELETE("/contracts/:id", contracts.Delete)

	api.GET("/billing/invoices", billing.Invoices)
	api.GET("/billing/customers/:id/invoice", billing.CustomerInvoice)
	api.GET("/billing/contracts/:id/outstanding", billing.Outstanding)
	api.POST("/billing/contracts/:id/payments", billing.RecordPayment)
	api.DELETE("/billing/contracts/:id/payments", billing.ResetPayments)
	api.GET("/billing/overdue", billing.Overdue)
	api.GET("/billing/statement", billing.Statement)
	api.GET("/billing/dashboard", billing.Dashboard)

	return &testAPI{engine: r, db: db}
}

// do sends a request and returns the recorder. body is JSON-encoded when
// not nil.
func (a *testAPI) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	a.engine.ServeHTTP(w, req)
	return w
}

// envelope decodes a response, placing data into out when given.
func envelope(t *testing.T, w *httptest.ResponseRecorder, out any) dto.Response {
	t.Helper()
	var raw struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
		Error   *dto.ErrorInfo  `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &raw), w.Body.String())
	if out != nil && len(raw.Data) > 0 {
		require.NoError(t, json.Unmarshal(raw.Data, out))
	}
	return dto.Response{Success: raw.Success, Error: raw.Error}
}

// createdID posts body to path and returns the new resource id.
func (a *testAPI) createdID(t *testing.T, path string, body any) int64 {
	t.Helper()
	w := a.do(t, http.MethodPost, path, body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created struct {
		ID int64 `json:"id"`
	}
	envelope(t, w, &created)
	require.NotZero(t, created.ID)
	return created.ID
}
