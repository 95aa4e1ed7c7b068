package main

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/trucklot/backend/internal/application/seed"
	"github.com/trucklot/backend/internal/infrastructure/backup"
	"github.com/trucklot/backend/internal/infrastructure/scheduler"
	"github.com/trucklot/backend/internal/infrastructure/storage"
	"go.uber.org/zap"
)

func newBackupCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "backup",
		Short: "Snapshot the database into the backup directory",
		Long: `backup writes a consistent copy of the database with VACUUM INTO,
checks it, prunes old copies beyond backup.keep and, when backup.upload
is set, sends it to the configured S3 bucket.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := openApp(opts, true)
			if err != nil {
				return err
			}
			defer a.Close()

			svc, err := a.backupService()
			if err != nil {
				return err
			}
			result, err := svc.Run(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Backup written: %s (%d bytes)\n", result.Path, result.Size)
			tw := newTable(out)
			for _, table := range backup.CoreTables {
				row(tw, table, result.RowCounts[table])
			}
			tw.Flush()
			for _, name := range result.Pruned {
				fmt.Fprintf(out, "Pruned: %s\n", filepath.Base(name))
			}
			if result.RemoteKey != "" {
				fmt.Fprintf(out, "Uploaded: s3://%s/%s\n", a.cfg.Storage.Bucket, result.RemoteKey)
			}
			return nil
		},
	}
}

// backupService builds the backup service from config, attaching the S3
// uploader when backup.upload is set.
func (a *app) backupService() (*backup.Service, error) {
	var backupOpts []backup.Option
	if a.cfg.Backup.Upload {
		store, err := storage.NewS3BackupStore(&a.cfg.Storage, storage.WithLogger(a.log))
		if err != nil {
			return nil, err
		}
		backupOpts = append(backupOpts, backup.WithUploader(store))
	}
	return backup.NewService(a.db.DB, a.cfg.Backup.Dir, a.cfg.Backup.Keep, a.log, backupOpts...), nil
}

// backupScheduler returns nil when backup.interval is zero.
func (a *app) backupScheduler() (*scheduler.Scheduler, error) {
	if a.cfg.Backup.Interval <= 0 {
		return nil, nil
	}
	svc, err := a.backupService()
	if err != nil {
		return nil, err
	}
	cfg := scheduler.DefaultConfig()
	cfg.Interval = a.cfg.Backup.Interval
	cfg.RetryAttempts = a.cfg.Backup.Retries
	cfg.RetryDelay = a.cfg.Backup.RetryDelay
	return scheduler.New("backup", cfg, func(ctx context.Context) error {
		_, err := svc.Run(ctx)
		return err
	}, a.log)
}

func newSeedCmd(opts *globalOptions) *cobra.Command {
	var (
		customers int
		seedValue uint64
		asOfFlag  string
	)
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Fill the database with demo customers, trucks, contracts and payments",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if customers < 1 {
				return fmt.Errorf("--customers must be at least 1")
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

			seeder := seed.NewSeeder(a.customers, a.trucks, a.contracts, a.payments, a.log)
			summary, err := seeder.Run(cmd.Context(), customers, seedValue, asOf)
			if err != nil {
				return err
			}
			a.log.Info("seed finished", zap.Int("customers", summary.Customers), zap.Uint64("seed", seedValue))
			fmt.Fprintf(cmd.OutOrStdout(), "Created %d customers, %d trucks, %d contracts, %d payments\n",
				summary.Customers, summary.Trucks, summary.Contracts, summary.Payments)
			return nil
		},
	}
	cmd.Flags().IntVar(&customers, "customers", 25, "number of customers to create")
	cmd.Flags().Uint64Var(&seedValue, "seed", 0, "random seed; the same seed gives the same data (0 = random)")
	addAsOfFlag(cmd, &asOfFlag)
	return cmd
}
