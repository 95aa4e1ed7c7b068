package lot

import (
	"github.com/shopspring/decimal"
	"github.com/trucklot/backend/internal/domain/calendar"
	"github.com/trucklot/backend/internal/domain/shared"
)

// PaymentMethod is how a payment was made.
type PaymentMethod string

const (
	PaymentMethodCash  PaymentMethod = "cash"
	PaymentMethodCard  PaymentMethod = "card"
	PaymentMethodZelle PaymentMethod = "zelle"
	PaymentMethodVenmo PaymentMethod = "venmo"
	PaymentMethodOther PaymentMethod = "other"
)

// PaymentMethods lists the accepted methods in display order.
var PaymentMethods = []PaymentMethod{
	PaymentMethodCash,
	PaymentMethodCard,
	PaymentMethodZelle,
	PaymentMethodVenmo,
	PaymentMethodOther,
}

// IsValid reports whether m is one of PaymentMethods.
func (m PaymentMethod) IsValid() bool {
	for _, known := range PaymentMethods {
		if m == known {
			return true
		}
	}
	return false
}

// Payment is money received against a contract's anchor invoice.
type Payment struct {
	ID        int64
	InvoiceID int64
	PaidAt    string
	Amount    decimal.Decimal
	Method    PaymentMethod
	Reference *string
	Notes     *string
}

// PaymentInput carries raw payment fields.
type PaymentInput struct {
	Amount    string
	PaidAt    string
	Method    string
	Reference string
	Notes     string
}

// ValidatedPayment is a payment that passed input validation but is not yet
// attached to an invoice.
type ValidatedPayment struct {
	Amount    decimal.Decimal
	PaidAt    string
	Method    PaymentMethod
	Reference *string
	Notes     *string
}

// ValidatePayment checks raw payment fields.
func ValidatePayment(in PaymentInput) (*ValidatedPayment, error) {
	amount, err := ParseAmount("Amount", in.Amount)
	if err != nil {
		return nil, err
	}
	paidAtText, err := RequiredText("Payment Date", in.PaidAt, 20)
	if err != nil {
		return nil, err
	}
	paidAt, ok := calendar.ParseYMD(paidAtText)
	if !ok {
		return nil, shared.InvalidInputf("Payment date format must be YYYY-MM-DD.")
	}
	method := PaymentMethod(NormalizeWhitespace(in.Method))
	if !method.IsValid() {
		return nil, shared.NewDomainError("INVALID_PAYMENT_METHOD", "Payment method is invalid.")
	}
	ref, err := OptionalText("Reference", in.Reference, MaxReferenceLen)
	if err != nil {
		return nil, err
	}
	notes, err := OptionalText("Notes", in.Notes, MaxNotesLen)
	if err != nil {
		return nil, err
	}

	return &ValidatedPayment{
		Amount:    amount,
		PaidAt:    calendar.FormatYMD(paidAt),
		Method:    method,
		Reference: ref,
		Notes:     notes,
	}, nil
}

// AttachTo turns the validated payment into a payment on invoiceID.
func (v *ValidatedPayment) AttachTo(invoiceID int64) *Payment {
	return &Payment{
		InvoiceID: invoiceID,
		PaidAt:    v.PaidAt,
		Amount:    v.Amount,
		Method:    v.Method,
		Reference: v.Reference,
		Notes:     v.Notes,
	}
}
