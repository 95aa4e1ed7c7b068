package handler

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	billingapp "github.com/trucklot/backend/internal/application/billing"
	"github.com/trucklot/backend/internal/domain/billing"
	"github.com/trucklot/backend/internal/domain/calendar"
	"github.com/trucklot/backend/internal/interfaces/http/middleware"
)

// BillingHandler serves invoices, payments and reports
type BillingHandler struct {
	BaseHandler
	engine        *billingapp.Engine
	payments      *billingapp.PaymentService
	reports       *billingapp.ReportService
	paymentsLimit int
}

// NewBillingHandler creates a new BillingHandler. paymentsLimit is the
// number of recent payments on an invoice when the request does not say.
func NewBillingHandler(
	engine *billingapp.Engine,
	payments *billingapp.PaymentService,
	reports *billingapp.ReportService,
	paymentsLimit int,
) *BillingHandler {
	return &BillingHandler{
		engine:        engine,
		payments:      payments,
		reports:       reports,
		paymentsLimit: paymentsLimit,
	}
}

// InvoicesResponse is the invoice overview for every customer
type InvoicesResponse struct {
	AsOf             string                 `json:"as_of"`
	Customers        []billing.InvoiceGroup `json:"customers"`
	TotalOutstanding decimal.Decimal        `json:"total_outstanding"`
}

// OutstandingResponse is one contract's balance
type OutstandingResponse struct {
	ContractID  int64           `json:"contract_id"`
	AsOf        string          `json:"as_of"`
	Outstanding decimal.Decimal `json:"outstanding"`
	Status      billing.Status  `json:"status"`
}

// RecordPaymentRequest is the body of POST /billing/contracts/:id/payments
type RecordPaymentRequest struct {
	Amount    string `json:"amount" binding:"required,money"`
	PaidAt    string `json:"paid_at" binding:"omitempty,ymd"`
	Method    string `json:"method" binding:"required,paymethod"`
	Reference string `json:"reference" binding:"omitempty,max=60"`
	Notes     string `json:"notes" binding:"omitempty,max=300"`
}

// Invoices handles GET /billing/invoices?as_of=
func (h *BillingHandler) Invoices(c *gin.Context) {
	asOf, ok := h.asOf(c)
	if !ok {
		return
	}

	groups, total, err := h.engine.BuildInvoiceGroups(c.Request.Context(), asOf)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, InvoicesResponse{
		AsOf:             calendar.FormatYMD(asOf),
		Customers:        groups,
		TotalOutstanding: total,
	})
}

// CustomerInvoice handles GET /billing/customers/:id/invoice?as_of=&payments=
func (h *BillingHandler) CustomerInvoice(c *gin.Context) {
	customerID, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	asOf, ok := h.asOf(c)
	if !ok {
		return
	}
	limit := h.paymentsLimit
	if raw := c.Query("payments"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			h.BadRequest(c, "Invalid payments: must be zero or a positive integer")
			return
		}
		limit = n
	}

	data, err := h.engine.BuildInvoiceData(c.Request.Context(), customerID, asOf, limit)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, data)
}

// Outstanding handles GET /billing/contracts/:id/outstanding?as_of=
func (h *BillingHandler) Outstanding(c *gin.Context) {
	contractID, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	asOf, ok := h.asOf(c)
	if !ok {
		return
	}

	outstanding, err := h.engine.ContractOutstanding(c.Request.Context(), contractID, asOf)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, OutstandingResponse{
		ContractID:  contractID,
		AsOf:        calendar.FormatYMD(asOf),
		Outstanding: outstanding,
		Status:      billing.StatusFor(outstanding),
	})
}

// RecordPayment handles POST /billing/contracts/:id/payments?as_of=.
// paid_at defaults to the as-of date.
func (h *BillingHandler) RecordPayment(c *gin.Context) {
	contractID, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	asOf, ok := h.asOf(c)
	if !ok {
		return
	}

	var req RecordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}
	paidAt := strings.TrimSpace(req.PaidAt)
	if paidAt == "" {
		paidAt = calendar.FormatYMD(asOf)
	}

	result, err := h.payments.RecordPayment(c.Request.Context(), billingapp.RecordPaymentRequest{
		ContractID: contractID,
		AsOf:       asOf,
		Amount:     req.Amount,
		PaidAt:     paidAt,
		Method:     req.Method,
		Reference:  req.Reference,
		Notes:      req.Notes,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, result)
}

// ResetPayments handles DELETE /billing/contracts/:id/payments
func (h *BillingHandler) ResetPayments(c *gin.Context) {
	contractID, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	result, err := h.payments.ResetPayments(c.Request.Context(), contractID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// Overdue handles GET /billing/overdue?as_of=&q=
func (h *BillingHandler) Overdue(c *gin.Context) {
	asOf, ok := h.asOf(c)
	if !ok {
		return
	}

	lines, err := h.reports.Overdue(c.Request.Context(), asOf, c.Query("q"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, lines)
}

// Statement handles GET /billing/statement?month=YYYY-MM, defaulting to
// the current month.
func (h *BillingHandler) Statement(c *gin.Context) {
	month := strings.TrimSpace(c.Query("month"))
	if month == "" {
		month = calendar.YM(calendar.Today())
	}

	statement, err := h.reports.Statement(c.Request.Context(), month)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, statement)
}

// Dashboard handles GET /billing/dashboard?as_of=
func (h *BillingHandler) Dashboard(c *gin.Context) {
	asOf, ok := h.asOf(c)
	if !ok {
		return
	}

	dashboard, err := h.reports.Dashboard(c.Request.Context(), asOf)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dashboard)
}

// Ledger handles GET /customers/:id/ledger?as_of=
func (h *BillingHandler) Ledger(c *gin.Context) {
	customerID, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	asOf, ok := h.asOf(c)
	if !ok {
		return
	}

	ledger, err := h.reports.Ledger(c.Request.Context(), customerID, asOf)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, ledger)
}
