package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/trucklot/backend/internal/domain/calendar"
)

func newOverdueCmd(opts *globalOptions) *cobra.Command {
	var asOfFlag, query string
	cmd := &cobra.Command{
		Use:   "overdue",
		Short: "List contracts with an unpaid balance",
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

			lines, err := a.reports.Overdue(cmd.Context(), asOf, query)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(lines) == 0 {
				fmt.Fprintf(out, "Nothing overdue as of %s\n", calendar.FormatYMD(asOf))
				return nil
			}
			tw := newTable(out)
			row(tw, "CUSTOMER", "SCOPE", "CONTRACT", "RATE", "MONTHS", "EXPECTED", "PAID", "OUTSTANDING")
			for _, l := range lines {
				row(tw, l.CustomerName, l.Scope, l.ContractID, money(l.MonthlyRate), l.MonthsElapsed,
					money(l.Expected), money(l.PaidTotal), money(l.Outstanding))
			}
			return tw.Flush()
		},
	}
	addAsOfFlag(cmd, &asOfFlag)
	cmd.Flags().StringVar(&query, "q", "", "only customers or plates containing this text")
	return cmd
}

func newStatementCmd(opts *globalOptions) *cobra.Command {
	var month string
	cmd := &cobra.Command{
		Use:   "statement",
		Short: "Expected and collected rent for one month",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if strings.TrimSpace(month) == "" {
				month = calendar.YM(calendar.Today())
			}
			a, err := openApp(opts, true)
			if err != nil {
				return err
			}
			defer a.Close()

			st, err := a.reports.Statement(cmd.Context(), month)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Statement %s\nExpected: %s\nPaid: %s\nBalance: %s\n\n",
				st.Month, money(st.Expected), money(st.Paid), money(st.Balance))
			tw := newTable(out)
			row(tw, "MONTH", "EXPECTED")
			for _, p := range st.Trend {
				row(tw, p.Month, money(p.Expected))
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVar(&month, "month", "", "month as YYYY-MM (default: this month)")
	return cmd
}

func newDashboardCmd(opts *globalOptions) *cobra.Command {
	var asOfFlag string
	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Headline figures for the lot",
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

			d, err := a.reports.Dashboard(cmd.Context(), asOf)
			if err != nil {
				return err
			}

			tw := newTable(cmd.OutOrStdout())
			row(tw, "As of", d.AsOf)
			row(tw, "Active contracts", d.ActiveContracts)
			row(tw, "Expected this month", money(d.ExpectedThisMonth))
			row(tw, "Total outstanding", money(d.TotalOutstanding))
			row(tw, fmt.Sprintf("Overdue (%d+ days)", d.OverdueThresholdDays), d.OverdueCount)
			return tw.Flush()
		},
	}
	addAsOfFlag(cmd, &asOfFlag)
	return cmd
}

func newLedgerCmd(opts *globalOptions) *cobra.Command {
	var asOfFlag string
	cmd := &cobra.Command{
		Use:   "ledger <customer-id>",
		Short: "A customer's contracts and every payment on them",
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

			l, err := a.reports.Ledger(cmd.Context(), customerID, asOf)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Ledger for %s (#%d) as of %s\n", l.Customer.Name, l.Customer.ID, l.AsOf)
			for _, c := range l.Contracts {
				state := "ended"
				if c.IsActive {
					state = "active"
				}
				fmt.Fprintf(out, "\nContract %d  %s  %s/mo  %s to %s  [%s]\n",
					c.ContractID, c.Scope, money(c.MonthlyRate), c.StartDate, orDash(c.EndDate), state)
				fmt.Fprintf(out, "Billed %s  Paid %s  Outstanding %s\n", money(c.Billed), money(c.Paid), money(c.Outstanding))
				if len(c.Payments) == 0 {
					continue
				}
				tw := newTable(out)
				row(tw, "DATE", "AMOUNT", "METHOD", "REFERENCE")
				for _, p := range c.Payments {
					row(tw, p.PaidAt, money(p.Amount), p.Method, orDash(deref(p.Reference)))
				}
				tw.Flush()
			}
			fmt.Fprintf(out, "\nTotal billed %s  Total paid %s  Total outstanding %s\n",
				money(l.TotalBilled), money(l.TotalPaid), money(l.TotalOutstanding))
			return nil
		},
	}
	addAsOfFlag(cmd, &asOfFlag)
	return cmd
}
