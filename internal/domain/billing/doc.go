// Package billing holds the billing rules for monthly truck lot contracts.
//
// Everything here is a pure function of contract rows, payment totals and
// an as-of date:
//   - Accrual: months elapsed and expected rent for one contract
//   - ContractLine / InvoiceGroup: per-contract and per-customer summaries
//   - NextDueAfter: the next anniversary date a month of rent becomes due
//   - Statement and aging figures used by reports
//
// Store access is described by the Reader interface and implemented in the
// persistence layer; orchestration lives in the application billing service.
package billing
