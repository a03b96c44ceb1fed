// Copyright (c) 2025 tasdomas
// Grafana charm - dashboard state reconciliation agent
// This source code is licensed under the MIT license found in the LICENSE file.

// main.go sets up the command-line interface (CLI) for the agent using the
// Cobra library. It defines the root command, subcommands (reconcile,
// rotate-admin, export) and the flag-to-config wiring.

package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/tasdomas/juju-charm-grafana/internal/backup"
	"github.com/tasdomas/juju-charm-grafana/internal/config"
	"github.com/tasdomas/juju-charm-grafana/internal/db"
	"github.com/tasdomas/juju-charm-grafana/internal/i18n"
	"github.com/tasdomas/juju-charm-grafana/internal/logging"
	"github.com/tasdomas/juju-charm-grafana/internal/reconcile"
	"github.com/tasdomas/juju-charm-grafana/internal/state"
	"github.com/tasdomas/juju-charm-grafana/internal/watch"
	"golang.org/x/term"
)

var version = "dev" // this will be set by the linker

var cfgFile string
var watchMode bool
var rotatePassword string // flag for rotate-admin

var appConfig config.Config

// setupDefaultServices loads configuration and initializes the shared
// services every command relies on. Used as PreRunE on all subcommands.
func setupDefaultServices(cmd *cobra.Command, args []string) error {
	var configPath *string
	if cfgFile != "" {
		configPath = &cfgFile
	}

	var err error
	appConfig, err = config.LoadConfig[config.Config](cmd, config.Defaults(), configPath)
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}

	i18n.Init(appConfig.Language)
	logging.SetDebug(appConfig.Debug)
	db.SetDebug(appConfig.Debug)
	return nil
}

// newDriver wires the reconciliation driver from the loaded configuration.
func newDriver() (*reconcile.Driver, error) {
	unit, err := state.Open(appConfig.StateFile)
	if err != nil {
		return nil, fmt.Errorf("%s", i18n.T("cli.error_state", err))
	}
	opener := func() (db.Store, error) {
		return db.NewStoreFromDSN(appConfig.Database.Type, appConfig.Database.Dsn)
	}
	opts := reconcile.Options{
		AdminPassword: appConfig.AdminPassword,
		NagiosContext: appConfig.NagiosContext,
		StartupDelay:  time.Duration(appConfig.BootstrapDelaySeconds) * time.Second,
	}
	return reconcile.NewDriver(opener, unit, opts), nil
}

// Execute runs the root command. Errors are reported by Cobra; the process
// exit code signals failure to the caller.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "grafana-charm",
	Short: "grafana-charm converges a Grafana database against desired state",
	Long: `grafana-charm is a reconciliation agent for a Grafana deployment.
It reads a desired-state document describing the datasources related
services want configured, and converges Grafana's own database against it:
missing datasources are inserted, existing ones have their basic-auth
credentials updated. It also manages the admin account credential,
rotating it once after Grafana's first start.`,
}

func init() {
	rootCmd.AddCommand(reconcileCmd)
	rootCmd.AddCommand(rotateAdminCmd)
	rootCmd.AddCommand(exportCmd)

	rootCmd.Version = version

	// Flag names match the viper config keys so LoadConfig's BindPFlags
	// resolves precedence without an alias table.
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is /etc/grafana-charm/grafana-charm.yaml)")
	rootCmd.PersistentFlags().String("database.type", "sqlite", "Grafana database type (sqlite, postgres, mysql)")
	rootCmd.PersistentFlags().String("database.dsn", "/var/lib/grafana/grafana.db", "Grafana database connection string (DSN)")
	rootCmd.PersistentFlags().String("sources_file", "/var/lib/grafana-charm/datasources.yaml", "desired-state snapshot file")
	rootCmd.PersistentFlags().String("state_file", "/var/lib/grafana-charm/state.yaml", "unit state file")
	rootCmd.PersistentFlags().String("language", "en", `status message language ("en")`)
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")

	reconcileCmd.Flags().BoolVar(&watchMode, "watch", false, "keep running and reconcile on desired-state file changes")
	rotateAdminCmd.Flags().StringVarP(&rotatePassword, "password", "p", "", "admin password to set (prompted when omitted)")
}

// reconcileCmd applies the desired-state document once, or continuously
// with --watch.
var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Converge Grafana's datasources against the desired-state file",
	Long: `Reads the desired-state document and converges the Grafana database
against it. Each datasource is handled independently: a failure on one is
logged and the rest still converge. Identical consecutive documents are
skipped.

With --watch the agent keeps running and reconciles again whenever the
desired-state file changes. The one-time admin credential bootstrap runs
in the background in watch mode and inline otherwise.`,
	PreRunE: setupDefaultServices,
	Run: func(cmd *cobra.Command, args []string) {
		driver, err := newDriver()
		if err != nil {
			logging.Fatalf("%s", err)
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if !watchMode {
			if err := runOnce(ctx, driver); err != nil {
				logging.Fatalf("%s", i18n.T("cli.error_reconcile", err))
			}
			return
		}

		runWatch(ctx, driver)
	},
}

// runReconcile loads the snapshot file and applies it.
func runReconcile(ctx context.Context, driver *reconcile.Driver) error {
	snap, err := LoadSnapshot(appConfig.SourcesFile)
	if err != nil {
		return err
	}
	return driver.Reconcile(ctx, snap)
}

// runOnce is the one-shot mode: the admin bootstrap first, then one
// reconciliation pass. A failed rotation is logged but never blocks
// datasource convergence; the unset bootstrap marker retries it on the
// next start.
func runOnce(ctx context.Context, driver *reconcile.Driver) error {
	if err := driver.EnsureAdminBootstrap(ctx); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		logging.Errorf("%s", i18n.T("cli.error_rotate", err))
	}
	return runReconcile(ctx, driver)
}

// runWatch is the long-running mode: an initial pass, the admin bootstrap in
// the background, then a reconcile on every change of the desired-state file
// until the process is signalled.
func runWatch(ctx context.Context, driver *reconcile.Driver) {
	go func() {
		if err := driver.EnsureAdminBootstrap(ctx); err != nil && ctx.Err() == nil {
			logging.Errorf("%s", i18n.T("cli.error_rotate", err))
		}
	}()

	if err := runReconcile(ctx, driver); err != nil {
		// Watch mode stays up on a failed pass; the next file change retries.
		logging.Errorf("%s", i18n.T("cli.error_reconcile", err))
	}

	watcher, err := watch.New(appConfig.SourcesFile, 0)
	if err != nil {
		logging.Fatalf("%s", i18n.T("cli.error_watch", err))
	}

	changed := make(chan struct{}, 1)
	go func() { _ = watcher.Run(ctx, changed) }()

	logging.Infof("%s", i18n.T("cli.watching", appConfig.SourcesFile))
	for {
		select {
		case <-ctx.Done():
			logging.Infof("%s", i18n.T("cli.shutting_down"))
			return
		case <-changed:
			logging.Infof("%s", i18n.T("cli.snapshot_changed"))
			if err := runReconcile(ctx, driver); err != nil {
				logging.Errorf("%s", i18n.T("cli.error_reconcile", err))
			}
		}
	}
}

// rotateAdminCmd rotates the Grafana admin credential on demand.
var rotateAdminCmd = &cobra.Command{
	Use:   "rotate-admin",
	Short: "Rotate the Grafana admin account password",
	Long: `Derives a password hash with the admin account's existing salt and
updates the admin row in place. The password comes from --password, from
the configured admin_password, or is generated once and kept in unit state.`,
	PreRunE: setupDefaultServices,
	Run: func(cmd *cobra.Command, args []string) {
		password := rotatePassword
		if password == "" && appConfig.AdminPassword == "" {
			if term.IsTerminal(int(os.Stdin.Fd())) {
				fmt.Print(i18n.T("cli.password_prompt"))
				bytePassword, err := term.ReadPassword(int(os.Stdin.Fd()))
				if err != nil {
					logging.Fatalf("%s", i18n.T("cli.error_read_password", err))
				}
				password = string(bytePassword)
				fmt.Println()
			}
		}
		if password != "" {
			appConfig.AdminPassword = password
		}

		driver, err := newDriver()
		if err != nil {
			logging.Fatalf("%s", err)
		}
		if err := driver.RotateAdmin(cmd.Context()); err != nil {
			logging.Fatalf("%s", i18n.T("cli.error_rotate", err))
		}
	},
}

// exportCmd writes a compressed dump of the reconciled tables for support
// bundles.
var exportCmd = &cobra.Command{
	Use:   "export <file>",
	Short: "Export the reconciled store tables as compressed JSON",
	Long: `Reads the datasource and account rows the agent manages and writes
them as a Zstandard-compressed JSON document. Password hashes are not
included.`,
	Args:    cobra.ExactArgs(1),
	PreRunE: setupDefaultServices,
	Run: func(cmd *cobra.Command, args []string) {
		outPath := args[0]

		st, err := db.NewStoreFromDSN(appConfig.Database.Type, appConfig.Database.Dsn)
		if err != nil {
			logging.Fatalf("%s", i18n.T("cli.error_init_store", err))
		}
		defer st.Close()

		f, err := os.Create(outPath)
		if err != nil {
			logging.Fatalf("%s", i18n.T("cli.error_export", err))
		}
		defer f.Close()

		if err := backup.Export(cmd.Context(), st, f); err != nil {
			logging.Fatalf("%s", i18n.T("cli.error_export", err))
		}
		fmt.Println(i18n.T("cli.export_success", outPath))
	},
}
