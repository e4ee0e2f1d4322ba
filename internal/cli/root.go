// Package cli implements the monad-testbot command-line interface.
//
// This package uses global variables to manage CLI state, which is the
// standard pattern for Cobra-based CLI applications. The globals are
// initialized in PersistentPreRunE and cleaned up in PersistentPostRun.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level state
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Barneybot002/monad-testbot/internal/config"
)

var (
	// Global flags
	homeDir string
	verbose bool

	// Global state initialized in PersistentPreRunE
	cfg    *config.Config
	logger *config.Logger
)

// rootCmd is the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "monad-testbot",
	Short: "A Telegram trading bot for the Monad testnet",
	Long: `monad-testbot is a chat-driven trading assistant for the Monad test
network. Users create or import a wallet, look up any ERC-20 token by
address, and swap MON for tokens through a UniswapV2-style router,
entirely from a Telegram conversation.

Example:
  monad-testbot config init
  BOT_TELEGRAM_TOKEN=... monad-testbot run`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		return initGlobals()
	},
	PersistentPostRun: func(_ *cobra.Command, _ []string) {
		cleanup()
	},
}

// Execute runs the root command.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
	}
	return err
}

// initGlobals loads configuration and sets up the logger.
func initGlobals() error {
	config.LoadDotEnv()

	home := homeDir
	if home == "" {
		home = os.Getenv(config.EnvHome)
	}
	if home == "" {
		home = config.DefaultHome()
	}

	var err error
	cfg, err = config.Load(config.Path(home))
	if err != nil {
		// First run: fall back to defaults without writing anything.
		cfg = config.Defaults()
		cfg.Home = home
	}

	config.ApplyEnvironment(cfg)

	if homeDir != "" {
		cfg.Home = homeDir
	}
	if verbose {
		cfg.Logging.Level = "debug"
	}

	logger, err = config.NewLogger(config.ParseLogLevel(cfg.Logging.Level), cfg.Logging.File)
	if err != nil {
		logger = config.NullLogger()
	}

	return nil
}

func cleanup() {
	if logger != nil {
		_ = logger.Close()
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&homeDir, "home", "", "config and data directory (default ~/.monad-testbot)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}
