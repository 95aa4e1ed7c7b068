// Package lot models the truck lot's records: customers, their trucks,
// monthly parking contracts, anchor invoices and payments.
//
// Constructors validate and normalize user input the same way for every
// entry point (CLI, HTTP, seeding), so the store only ever sees clean
// values. Billing rules live in package billing.
package lot
