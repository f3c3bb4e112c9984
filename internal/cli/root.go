// Package cli implements payrollctl, the operator command line for the payroll
// engine.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/cmlabs-hris/hris-payroll-go/internal/bootstrap"
	"github.com/cmlabs-hris/hris-payroll-go/internal/config"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/payroll"
	"github.com/spf13/cobra"
)

// Env is what every command runs against.
type Env struct {
	Service payroll.PayrollService
	Storage *bootstrap.Storage
	Logger  *slog.Logger
	Close   func()
}

// Opener builds the Env for a command invocation.
type Opener func(ctx context.Context, opts *GlobalOptions) (*Env, error)

type GlobalOptions struct {
	Driver     string
	SQLitePath string
	Verbose    bool
}

// NewRootCmd assembles payrollctl. open is called lazily by each subcommand.
func NewRootCmd(open Opener) *cobra.Command {
	opts := &GlobalOptions{}

	rootCmd := &cobra.Command{
		Use:   "payrollctl",
		Short: "Operate the HRIS payroll engine",
		Long: `payrollctl previews, commits and inspects monthly payroll records
against the configured PostgreSQL or SQLite store.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&opts.Driver, "driver", "", "Storage driver override: postgres or sqlite")
	rootCmd.PersistentFlags().StringVar(&opts.SQLitePath, "sqlite-path", "", "SQLite database file override")
	rootCmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "Log to stderr")

	with := func(run func(cmd *cobra.Command, args []string, env *Env) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			env, err := open(cmd.Context(), opts)
			if err != nil {
				return err
			}
			if env.Close != nil {
				defer env.Close()
			}
			return run(cmd, args, env)
		}
	}

	rootCmd.AddCommand(newPreviewCmd(with))
	rootCmd.AddCommand(newCommitCmd(with))
	rootCmd.AddCommand(newRunCmd(with))
	rootCmd.AddCommand(newStatusCmd(with))
	rootCmd.AddCommand(newListCmd(with))
	rootCmd.AddCommand(newSummaryCmd(with))
	rootCmd.AddCommand(newExportCmd(with))
	rootCmd.AddCommand(newPayslipCmd(with))
	rootCmd.AddCommand(newSeedCmd(with))

	return rootCmd
}

type withEnv func(run func(cmd *cobra.Command, args []string, env *Env) error) func(*cobra.Command, []string) error

// Execute is the entry point called from main.
func Execute() {
	if err := NewRootCmd(OpenFromConfig).ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// OpenFromConfig loads storage settings from the environment, applies flag
// overrides and opens the configured store.
func OpenFromConfig(ctx context.Context, opts *GlobalOptions) (*Env, error) {
	cfg, err := config.Read()
	if err != nil {
		return nil, err
	}
	if opts.Driver != "" {
		cfg.Storage.Driver = opts.Driver
	}
	if opts.SQLitePath != "" {
		cfg.Storage.SQLitePath = opts.SQLitePath
	}
	if err := cfg.ValidateStorage(); err != nil {
		return nil, err
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	if opts.Verbose {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	}

	store, err := bootstrap.OpenStorage(ctx, cfg)
	if err != nil {
		return nil, err
	}
	publisher := bootstrap.NewPublisher(cfg, logger, nil)

	return &Env{
		Service: bootstrap.NewPayrollService(store, publisher, logger),
		Storage: store,
		Logger:  logger,
		Close: func() {
			_ = publisher.Close()
			store.Close()
		},
	}, nil
}

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
