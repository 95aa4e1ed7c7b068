package main

import (
	"github.com/spf13/cobra"
)

var version = "dev"

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}

	root := &cobra.Command{
		Use:   "trucklot",
		Short: "Billing for a monthly truck parking lot",
		Long: `trucklot bills monthly parking contracts for trucks, records
payments and prints invoices and reports. Dates are YYYY-MM-DD and
default to today; every command works against one SQLite file.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.configFile, "config", "", "config file (default: ./config.toml when present)")
	flags.StringVar(&opts.dbPath, "db", "", "SQLite database file (overrides database.path)")
	flags.StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn, error")

	root.AddCommand(
		newServeCmd(opts),
		newMigrateCmd(opts),
		newInvoicesCmd(opts),
		newInvoiceCmd(opts),
		newOutstandingCmd(opts),
		newPayCmd(opts),
		newResetPaymentsCmd(opts),
		newOverdueCmd(opts),
		newStatementCmd(opts),
		newDashboardCmd(opts),
		newLedgerCmd(opts),
		newBackupCmd(opts),
		newSeedCmd(opts),
	)
	return root
}
