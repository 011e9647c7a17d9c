// Package cli provides the command-line interface for structproof.
package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/raphaelgruber/structproof/internal/audit"
	"github.com/raphaelgruber/structproof/internal/config"
	"github.com/raphaelgruber/structproof/internal/metrics"
	"github.com/raphaelgruber/structproof/internal/service"
	"github.com/spf13/cobra"
)

var (
	// Version is set at build time.
	Version = "0.1.0"

	// Global flags
	verbose    bool
	configFile string

	// Global config, logger, and lazily shared state
	cfg           config.Config
	defaultLogger *slog.Logger
	logCleanup    func() error
	auditStore    *audit.Store
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "structproof",
	Short: "Structural soundness validation for byte sequences",
	Long: `Structproof decides whether a byte sequence, read as a large integer,
satisfies a set of number-theoretic structural soundness properties, and can
emit a portable proof of that decision that verifies without the original
bytes.

Inputs are files, stdin, or hex strings; policy (entropy threshold, divisor
echo, timeout) comes from the environment, an optional YAML file, and flags.`,
	Version: Version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg = config.Load()

		if configFile != "" {
			var err error
			cfg, err = config.LoadFile(cfg, configFile)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
		}

		level := cfg.LogLevel
		if verbose {
			level = slog.LevelDebug
		}
		defaultLogger, logCleanup = config.SetupLogger(cfg.LogFile, level)

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if auditStore != nil {
			if err := auditStore.Close(); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: failed to close audit store: %v\n", err)
			}
		}
		if logCleanup != nil {
			if err := logCleanup(); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: failed to close log file: %v\n", err)
			}
		}
	},
}

// getService builds the validation service, opening the audit store when
// one is configured.
func getService() (*service.ValidationService, error) {
	if cfg.AuditDBPath != "" && auditStore == nil {
		var err error
		auditStore, err = audit.Open(cfg.AuditDBPath)
		if err != nil {
			return nil, fmt.Errorf("open audit store: %w", err)
		}
	}
	return service.NewValidationService(defaultLogger, metrics.NewCollector(), auditStore), nil
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "path to YAML config file")

	// Add subcommands
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(entropyCmd)
	rootCmd.AddCommand(proveCmd)
	rootCmd.AddCommand(verifyCmd)
	rootCmd.AddCommand(batchCmd)
	rootCmd.AddCommand(auditCmd)
	rootCmd.AddCommand(remoteCmd)
}
