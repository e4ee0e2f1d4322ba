package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Barneybot002/monad-testbot/internal/bot"
	"github.com/Barneybot002/monad-testbot/internal/chain"
	"github.com/Barneybot002/monad-testbot/internal/config"
	"github.com/Barneybot002/monad-testbot/internal/session"
	"github.com/Barneybot002/monad-testbot/internal/swap"
	"github.com/Barneybot002/monad-testbot/internal/wallet"
	boterr "github.com/Barneybot002/monad-testbot/pkg/errors"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the trading bot",
	Long: `Run connects to Telegram and serves trading conversations until
interrupted. The wallet store passphrase is read from ` + config.EnvStorePassphrase + `
or prompted for on the terminal.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := cfg.Validate(); err != nil {
			return err
		}
		if cfg.Telegram.Token == "" {
			return boterr.WithSuggestion(boterr.ErrTransportToken,
				"set "+config.EnvTelegramToken+" or telegram token in config")
		}

		passphrase, err := storePassphrase()
		if err != nil {
			return err
		}

		wallets := wallet.NewStore(cfg.WalletStorePath(), passphrase, logger)
		defer wallets.Close()
		if err := wallets.Load(); err != nil {
			return err
		}
		logger.Info("wallet store loaded: %d wallet(s)", wallets.Count())

		limiter := chain.NewRateLimiter(cfg.Network.RateLimit, cfg.Network.Burst)
		client, err := chain.NewClient(cfg.Network.RPC, cfg.Network.ChainID, limiter)
		if err != nil {
			return err
		}
		defer client.Close()

		engine, err := swap.NewRouter(client, cfg.Router, logger)
		if err != nil {
			return err
		}

		transport, err := bot.NewTelegram(cfg.Telegram.Token, cfg.Telegram.Debug, logger)
		if err != nil {
			return err
		}

		dispatcher := bot.New(wallets, session.NewStore(), engine, client, transport, cfg, logger)

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		logger.Info("bot running on chain %d via %s", cfg.Network.ChainID, cfg.Network.RPC)
		if err := dispatcher.Run(ctx); err != nil && ctx.Err() == nil {
			return err
		}

		logger.Info("shutting down")
		return nil
	},
}

// storePassphrase resolves the wallet store passphrase from the
// environment, falling back to a hidden terminal prompt.
func storePassphrase() (string, error) {
	if p := config.StorePassphrase(); p != "" {
		return p, nil
	}
	if !isTerminal(os.Stdin) {
		return "", boterr.WithSuggestion(boterr.ErrConfigInvalid,
			"set "+config.EnvStorePassphrase+" when running non-interactively")
	}
	p, err := promptPassphrase("Wallet store passphrase: ")
	if err != nil {
		return "", err
	}
	if p == "" {
		return "", boterr.WithSuggestion(boterr.ErrConfigInvalid, "passphrase must not be empty")
	}
	return p, nil
}

func init() {
	rootCmd.AddCommand(runCmd)
}
