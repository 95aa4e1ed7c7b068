package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trucklot/backend/internal/interfaces/http/handler"
	"github.com/trucklot/backend/internal/interfaces/http/middleware"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type okPinger struct{}

func (okPinger) Ping(context.Context) error { return nil }

func TestNewRouter(t *testing.T) {
	r := NewRouter(gin.New())
	assert.Equal(t, "v1", r.apiVersion)
	assert.Empty(t, r.registrars)

	r = NewRouter(gin.New(), WithAPIVersion("v2"))
	assert.Equal(t, "v2", r.apiVersion)
}

func TestDomainGroup(t *testing.T) {
	t.Run("name and prefix", func(t *testing.T) {
		g := NewDomainGroup("trucks", "/trucks")
		assert.Equal(t, "trucks", g.Name())
		assert.Equal(t, "/trucks", g.Prefix())
	})

	t.Run("methods, middleware and subgroups", func(t *testing.T) {
		engine := gin.New()
		g := NewDomainGroup("billing", "/billing")
		g.Use(func(c *gin.Context) {
			c.Header("X-Group", "billing")
			c.Next()
		})
		ok := func(c *gin.Context) { c.String(http.StatusOK, c.Request.Method) }
		g.GET("/a", ok).POST("/a", ok).PUT("/a", ok).DELETE("/a", ok)
		g.Group("contracts", "/contracts").GET("/:id/outstanding", ok)

		NewRouter(engine).Register(g).Setup()

		for _, method := range []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete} {
			w := httptest.NewRecorder()
			engine.ServeHTTP(w, httptest.NewRequest(method, "/api/v1/billing/a", nil))
			assert.Equal(t, http.StatusOK, w.Code, method)
			assert.Equal(t, method, w.Body.String())
			assert.Equal(t, "billing", w.Header().Get("X-Group"))
		}

		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/billing/contracts/7/outstanding", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestNewEngine(t *testing.T) {
	engine := NewEngine(zap.NewNop(), 16)
	engine.POST("/echo", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	engine.GET("/panic", func(*gin.Context) { panic("boom") })

	t.Run("unknown route uses the envelope", func(t *testing.T) {
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/nope", nil))
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Contains(t, w.Body.String(), "ROUTE_NOT_FOUND")
		assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))
	})

	t.Run("body limit", func(t *testing.T) {
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/echo", strings.NewReader(strings.Repeat("x", 32))))
		assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	})

	t.Run("panic becomes a 500", func(t *testing.T) {
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Contains(t, w.Body.String(), "INTERNAL_ERROR")
	})
}

func TestNewAPI_Routes(t *testing.T) {
	engine, err := NewAPI(Handlers{
		Customers: &handler.CustomerHandler{},
		Trucks:    &handler.TruckHandler{},
		Contracts: &handler.ContractHandler{},
		Billing:   &handler.BillingHandler{},
		Health:    handler.NewHealthHandler(okPinger{}),
	}, zap.NewNop(), 0)
	require.NoError(t, err)

	var got []string
	for _, route := range engine.Routes() {
		got = append(got, route.Method+" "+route.Path)
	}
	sort.Strings(got)

	want := []string{
		"DELETE /api/v1/billing/contracts/:id/payments",
		"DELETE /api/v1/contracts/:id",
		"DELETE /api/v1/customers/:id",
		"DELETE /api/v1/trucks/:id",
		"GET /api/v1/billing/contracts/:id/outstanding",
		"GET /api/v1/billing/customers/:id/invoice",
		"GET /api/v1/billing/dashboard",
		"GET /api/v1/billing/invoices",
		"GET /api/v1/billing/overdue",
		"GET /api/v1/billing/statement",
		"GET /api/v1/contracts",
		"GET /api/v1/contracts/:id",
		"GET /api/v1/customers",
		"GET /api/v1/customers/:id",
		"GET /api/v1/customers/:id/ledger",
		"GET /api/v1/health",
		"GET /api/v1/trucks",
		"GET /api/v1/trucks/:id",
		"POST /api/v1/billing/contracts/:id/payments",
		"POST /api/v1/contracts",
		"POST /api/v1/customers",
		"POST /api/v1/trucks",
		"PUT /api/v1/contracts/:id/active",
		"PUT /api/v1/contracts/:id/end",
		"PUT /api/v1/customers/:id",
	}
	assert.Equal(t, want, got)

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}
