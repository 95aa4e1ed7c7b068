package router

import (
	"github.com/gin-gonic/gin"
	"github.com/trucklot/backend/internal/infrastructure/logger"
	"github.com/trucklot/backend/internal/interfaces/http/dto"
	"github.com/trucklot/backend/internal/interfaces/http/handler"
	"github.com/trucklot/backend/internal/interfaces/http/middleware"
	"go.uber.org/zap"
)

// Handlers are the endpoints mounted by NewAPI
type Handlers struct {
	Customers *handler.CustomerHandler
	Trucks    *handler.TruckHandler
	Contracts *handler.ContractHandler
	Billing   *handler.BillingHandler
	Health    *handler.HealthHandler
}

// NewEngine returns a gin engine with the request pipeline every API
// request goes through. Unknown routes answer in the API envelope.
func NewEngine(log *zap.Logger, bodyLimit int64) *gin.Engine {
	if bodyLimit <= 0 {
		bodyLimit = middleware.DefaultBodyLimit
	}

	engine := gin.New()
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.BodyLimit(bodyLimit))

	engine.NoRoute(func(c *gin.Context) {
		c.JSON(dto.GetHTTPStatus(dto.ErrCodeRouteNotFound), dto.NewErrorResponseWithRequestID(
			dto.ErrCodeRouteNotFound,
			"No route for "+c.Request.Method+" "+c.Request.URL.Path,
			middleware.GetRequestID(c),
		))
	})
	return engine
}

// NewAPI builds the engine and mounts every route under /api/v1.
func NewAPI(h Handlers, log *zap.Logger, bodyLimit int64) (*gin.Engine, error) {
	if err := middleware.SetupValidator(); err != nil {
		return nil, err
	}

	engine := NewEngine(log, bodyLimit)
	NewRouter(engine).Register(Groups(h)...).Setup()
	return engine, nil
}

// Groups lays out the API routes.
func Groups(h Handlers) []RouteRegistrar {
	health := NewDomainGroup("health", "/health")
	health.GET("", h.Health.Check)

	customers := NewDomainGroup("customers", "/customers")
	customers.GET("", h.Customers.List).
		POST("", h.Customers.Create).
		GET("/:id", h.Customers.GetByID).
		PUT("/:id", h.Customers.Update).
		DELETE("/:id", h.Customers.Delete).
		GET("/:id/ledger", h.Billing.Ledger)

	trucks := NewDomainGroup("trucks", "/trucks")
	trucks.GET("", h.Trucks.List).
		POST("", h.Trucks.Create).
		GET("/:id", h.Trucks.GetByID).
		DELETE("/:id", h.Trucks.Delete)

	contracts := NewDomainGroup("contracts", "/contracts")
	contracts.GET("", h.Contracts.List).
		POST("", h.Contracts.Create).
		GET("/:id", h.Contracts.GetByID).
		PUT("/:id/active", h.Contracts.SetActive).
		PUT("/:id/end", h.Contracts.End).
		DELETE("/:id", h.Contracts.Delete)

	billing := NewDomainGroup("billing", "/billing")
	billing.GET("/invoices", h.Billing.Invoices).
		GET("/overdue", h.Billing.Overdue).
		GET("/statement", h.Billing.Statement).
		GET("/dashboard", h.Billing.Dashboard)
	billing.Group("customers", "/customers").
		GET("/:id/invoice", h.Billing.CustomerInvoice)
	billing.Group("contracts", "/contracts").
		GET("/:id/outstanding", h.Billing.Outstanding).
		POST("/:id/payments", h.Billing.RecordPayment).
		DELETE("/:id/payments", h.Billing.ResetPayments)

	return []RouteRegistrar{health, customers, trucks, contracts, billing}
}
