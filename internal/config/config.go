// Package config provides configuration management for monad-testbot.
package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	boterr "github.com/Barneybot002/monad-testbot/pkg/errors"
)

// Config represents the application configuration.
type Config struct {
	Version  int            `yaml:"version"`
	Home     string         `yaml:"home"`
	Telegram TelegramConfig `yaml:"telegram"`
	Network  NetworkConfig  `yaml:"network"`
	Router   RouterConfig   `yaml:"router"`
	Trading  TradingConfig  `yaml:"trading"`
	Storage  StorageConfig  `yaml:"storage"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// TelegramConfig defines chat transport settings. The bot token is never
// written to the config file; it comes from the environment.
type TelegramConfig struct {
	// Token is populated from BOT_TELEGRAM_TOKEN at startup.
	Token string `yaml:"-"`

	// Debug enables transport-level update logging.
	Debug bool `yaml:"debug"`
}

// NetworkConfig defines the Monad testnet RPC settings.
type NetworkConfig struct {
	RPC            string `yaml:"rpc"`
	ChainID        int64  `yaml:"chain_id"`
	NativeSymbol   string `yaml:"native_symbol"`
	NativeDecimals int    `yaml:"native_decimals"`
	Explorer       string `yaml:"explorer"`

	// RateLimit is the RPC request budget in requests per second.
	RateLimit float64 `yaml:"rate_limit"`
	Burst     int     `yaml:"burst"`
}

// RouterConfig defines the DEX router the swap engine trades against.
type RouterConfig struct {
	Address       string `yaml:"address"`
	WrappedNative string `yaml:"wrapped_native"`
	SlippageBps   int    `yaml:"slippage_bps"`
	DeadlineSecs  int    `yaml:"deadline_secs"`
}

// TradingConfig defines the conversational trading defaults.
type TradingConfig struct {
	// FixedBuyAmounts are the native-currency quick-buy choices shown in
	// the buy amount keyboard, as decimal strings.
	FixedBuyAmounts []string `yaml:"fixed_buy_amounts"`
}

// StorageConfig defines where persistent state lives.
type StorageConfig struct {
	// WalletFile is the path of the encrypted wallet store, relative to
	// Home unless absolute.
	WalletFile string `yaml:"wallet_file"`
}

// LoggingConfig defines logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// Load reads configuration from the specified file, applying defaults
// for any fields the file omits.
func Load(path string) (*Config, error) {
	// #nosec G304 -- config file path is from validated user input
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := Defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, boterr.Wrap(err, "parsing config")
	}

	return cfg, nil
}

// Save writes configuration to the specified file.
func Save(cfg *Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0o600)
}

// Path returns the default config file path under home.
func Path(home string) string {
	return filepath.Join(home, "config.yaml")
}

// WalletStorePath resolves the wallet store file path against Home.
func (c *Config) WalletStorePath() string {
	if filepath.IsAbs(c.Storage.WalletFile) {
		return c.Storage.WalletFile
	}
	return filepath.Join(c.Home, c.Storage.WalletFile)
}

// Validate checks that the configuration is usable for running the bot.
func (c *Config) Validate() error {
	if c.Telegram.Token == "" {
		return boterr.ErrTransportToken
	}
	if c.Network.RPC == "" {
		return boterr.WithSuggestion(boterr.ErrConfigInvalid, "network.rpc must be set")
	}
	if c.Router.Address == "" || c.Router.WrappedNative == "" {
		return boterr.WithSuggestion(boterr.ErrConfigInvalid, "router.address and router.wrapped_native must be set")
	}
	if c.Router.SlippageBps < 0 || c.Router.SlippageBps >= 10000 {
		return boterr.WithSuggestion(boterr.ErrConfigInvalid, "router.slippage_bps must be in [0, 10000)")
	}
	if len(c.Trading.FixedBuyAmounts) == 0 {
		return boterr.WithSuggestion(boterr.ErrConfigInvalid, "trading.fixed_buy_amounts must not be empty")
	}
	return nil
}

// DefaultHome returns the default data directory.
func DefaultHome() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".monad-testbot"
	}
	return filepath.Join(home, ".monad-testbot")
}
