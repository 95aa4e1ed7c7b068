package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	billingapp "github.com/trucklot/backend/internal/application/billing"
	"github.com/trucklot/backend/internal/domain/billing"
	"github.com/trucklot/backend/internal/domain/calendar"
)

func newInvoicesCmd(opts *globalOptions) *cobra.Command {
	var asOfFlag string
	cmd := &cobra.Command{
		Use:   "invoices",
		Short: "Show what every customer owes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			asOf, err := parseAsOf(asOfFlag)
			if err != nil {
				return err
			}
			a, err := openApp(opts, true)
			if err != nil {
				return err
			}
			defer a.Close()

			groups, total, err := a.engine.BuildInvoiceGroups(cmd.Context(), asOf)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Invoices as of %s\n", calendar.FormatYMD(asOf))
			for _, g := range groups {
				fmt.Fprintf(out, "\n%s (#%d)  %s  %s\n", g.CustomerName, g.CustomerID, money(g.TotalOutstanding), g.Status)
				writeLines(out, g.Lines)
			}
			fmt.Fprintf(out, "\nTotal outstanding: %s\n", money(total))
			return nil
		},
	}
	addAsOfFlag(cmd, &asOfFlag)
	return cmd
}

func writeLines(out io.Writer, lines []billing.ContractLine) {
	tw := newTable(out)
	row(tw, "CONTRACT", "SCOPE", "RATE", "START", "END", "MONTHS", "EXPECTED", "PAID", "OUTSTANDING", "STATUS")
	for _, l := range lines {
		row(tw, l.ContractID, l.Scope, money(l.MonthlyRate), l.StartDate, orDash(l.EndDate),
			l.MonthsElapsed, money(l.Expected), money(l.PaidTotal), money(l.Outstanding), l.Status)
	}
	tw.Flush()
}

func newInvoiceCmd(opts *globalOptions) *cobra.Command {
	var (
		asOfFlag string
		payments int
	)
	cmd := &cobra.Command{
		Use:   "invoice <customer-id>",
		Short: "Print one customer's invoice",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			customerID, err := parseID("customer", args[0])
			if err != nil {
				return err
			}
			asOf, err := parseAsOf(asOfFlag)
			if err != nil {
				return err
			}
			a, err := openApp(opts, true)
			if err != nil {
				return err
			}
			defer a.Close()

			if !cmd.Flags().Changed("payments") {
				payments = a.cfg.Billing.PaymentsLimit
			}
			data, err := a.engine.BuildInvoiceData(cmd.Context(), customerID, asOf, payments)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "INVOICE %s\n", data.InvoiceUUID)
			fmt.Fprintf(out, "Date: %s\n", calendar.FormatYMD(data.AsOf))
			fmt.Fprintf(out, "Bill to: %s\n", data.Customer.Name)
			if data.Customer.Company != nil {
				fmt.Fprintf(out, "         %s\n", *data.Customer.Company)
			}
			if data.Customer.Phone != nil {
				fmt.Fprintf(out, "Phone: %s\n", *data.Customer.Phone)
			}
			fmt.Fprintln(out)
			writeLines(out, data.Lines)

			fmt.Fprintf(out, "\nExpected: %s\nPaid: %s\nBalance due: %s\n",
				money(data.TotalExpected), money(data.TotalPaid), money(data.TotalOutstanding))
			if data.NextDueDate != nil {
				fmt.Fprintf(out, "Next due: %s\n", calendar.FormatYMD(*data.NextDueDate))
			}

			if len(data.RecentPayments) > 0 {
				fmt.Fprintln(out, "\nRecent payments")
				tw := newTable(out)
				row(tw, "DATE", "AMOUNT", "METHOD", "REFERENCE", "SCOPE")
				for _, p := range data.RecentPayments {
					row(tw, p.PaidAt, money(p.Amount), p.Method, orDash(deref(p.Reference)), billing.ScopeLabel(p.Plate))
				}
				tw.Flush()
			}
			return nil
		},
	}
	addAsOfFlag(cmd, &asOfFlag)
	cmd.Flags().IntVar(&payments, "payments", billingapp.DefaultPaymentsLimit, "number of recent payments to list")
	return cmd
}

func newOutstandingCmd(opts *globalOptions) *cobra.Command {
	var asOfFlag string
	cmd := &cobra.Command{
		Use:   "outstanding <contract-id>",
		Short: "Show one contract's balance",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			contractID, err := parseID("contract", args[0])
			if err != nil {
				return err
			}
			asOf, err := parseAsOf(asOfFlag)
			if err != nil {
				return err
			}
			a, err := openApp(opts, true)
			if err != nil {
				return err
			}
			defer a.Close()

			outstanding, err := a.engine.ContractOutstanding(cmd.Context(), contractID, asOf)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Contract %d as of %s: %s (%s)\n",
				contractID, calendar.FormatYMD(asOf), money(outstanding), billing.StatusFor(outstanding))
			return nil
		},
	}
	addAsOfFlag(cmd, &asOfFlag)
	return cmd
}

func newPayCmd(opts *globalOptions) *cobra.Command {
	var req billingapp.RecordPaymentRequest
	var asOfFlag string
	cmd := &cobra.Command{
		Use:   "pay <contract-id>",
		Short: "Record a payment against a contract",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			contractID, err := parseID("contract", args[0])
			if err != nil {
				return err
			}
			asOf, err := parseAsOf(asOfFlag)
			if err != nil {
				return err
			}
			a, err := openApp(opts, true)
			if err != nil {
				return err
			}
			defer a.Close()

			req.ContractID = contractID
			req.AsOf = asOf
			if strings.TrimSpace(req.PaidAt) == "" {
				req.PaidAt = calendar.FormatYMD(asOf)
			}
			result, err := a.payments.RecordPayment(cmd.Context(), req)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Payment #%d: %s %s on %s (invoice #%d). Balance %s -> %s\n",
				result.PaymentID, money(result.Amount), result.Method, result.PaidAt, result.InvoiceID,
				money(result.OutstandingBefore), money(result.OutstandingAfter))
			return nil
		},
	}
	addAsOfFlag(cmd, &asOfFlag)
	cmd.Flags().StringVar(&req.Amount, "amount", "", "amount paid, e.g. 450 or $1,200.00")
	cmd.Flags().StringVar(&req.PaidAt, "paid-at", "", "payment date, YYYY-MM-DD (default: --as-of)")
	cmd.Flags().StringVar(&req.Method, "method", "cash", "cash, card, zelle, venmo or other")
	cmd.Flags().StringVar(&req.Reference, "ref", "", "check or confirmation number")
	cmd.Flags().StringVar(&req.Notes, "notes", "", "free-form notes")
	_ = cmd.MarkFlagRequired("amount")
	return cmd
}

func newResetPaymentsCmd(opts *globalOptions) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "reset-payments <contract-id>",
		Short: "Delete every payment recorded on a contract",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			contractID, err := parseID("contract", args[0])
			if err != nil {
				return err
			}
			if !yes {
				return fmt.Errorf("reset-payments deletes payment history; pass --yes to confirm")
			}
			a, err := openApp(opts, true)
			if err != nil {
				return err
			}
			defer a.Close()

			result, err := a.payments.ResetPayments(cmd.Context(), contractID)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d payment(s) totalling %s from contract %d\n",
				result.Deleted, money(result.Reversed), contractID)
			return nil
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "confirm deleting the payments")
	return cmd
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
