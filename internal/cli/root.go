// Package cli implements procurementctl, the operator command line:
//
//	procurementctl migrate
//	procurementctl import
//	procurementctl export --out sales.xlsx
//	procurementctl version
package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/stwalsh4118/procurement/internal/config"
	"github.com/stwalsh4118/procurement/internal/logger"
)

// Version and BuildDate are set at build time with -ldflags "-X".
var (
	Version   = "0.1.0"
	BuildDate = "unknown"
)

// app carries what every subcommand needs.
type app struct {
	load    func() (*config.Config, error)
	open    Opener
	verbose bool
}

// NewRootCommand builds the command tree. load and open are injected so the
// commands can run against fakes.
func NewRootCommand(load func() (*config.Config, error), open Opener) *cobra.Command {
	a := &app{load: load, open: open}

	root := &cobra.Command{
		Use:           "procurementctl",
		Short:         "Operate the procurement records service",
		SilenceUsage:  true,
		SilenceErrors: true,
		Run: func(cmd *cobra.Command, args []string) {
			_ = cmd.Help()
		},
	}
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Log at debug level")

	root.AddCommand(
		a.migrateCommand(),
		a.importCommand(),
		a.exportCommand(),
		versionCommand(),
	)
	return root
}

// Execute runs procurementctl against the real configuration and database.
func Execute() {
	root := NewRootCommand(config.Load, OpenPostgres)
	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// withBackend loads configuration, opens the backend and runs fn. Logs go to
// stderr so command output on stdout stays clean.
func (a *app) withBackend(cmd *cobra.Command, fn func(ctx context.Context, b Backend, log *logger.Logger) error) error {
	cfg, err := a.load()
	if err != nil {
		return err
	}

	level := cfg.Server.LogLevel
	if a.verbose {
		level = "debug"
	}
	log := logger.NewWithWriter(cmd.ErrOrStderr(), level).WithComponent("cli")

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	b, err := a.open(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("failed to connect: %w", err)
	}
	defer b.Close()

	return fn(ctx, b, log)
}

func versionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Display the application version",
		Run: func(cmd *cobra.Command, args []string) {
			printVersion(cmd.OutOrStdout())
		},
	}
}

func printVersion(w io.Writer) {
	fmt.Fprintln(w, "procurementctl")
	fmt.Fprintf(w, "Version:    %s\n", Version)
	fmt.Fprintf(w, "Build Date: %s\n", BuildDate)
}
