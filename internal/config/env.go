package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Environment variable names.
const (
	EnvHome            = "BOT_HOME"
	EnvTelegramToken   = "BOT_TELEGRAM_TOKEN" // #nosec G101 -- const name, not a credential
	EnvRPC             = "BOT_RPC"
	EnvChainID         = "BOT_CHAIN_ID"
	EnvRouter          = "BOT_ROUTER"
	EnvWrappedNative   = "BOT_WRAPPED_NATIVE"
	EnvStorePassphrase = "BOT_STORE_PASSPHRASE" // #nosec G101 -- const name, not a credential
	EnvLogLevel        = "BOT_LOG_LEVEL"
	EnvLogFile         = "BOT_LOG_FILE"
)

// LoadDotEnv loads a .env file from the working directory when present.
// A missing file is not an error; explicit environment wins over .env.
func LoadDotEnv() {
	_ = godotenv.Load()
}

// ApplyEnvironment applies environment variable overrides to the
// configuration. The Telegram token only ever comes from the environment.
func ApplyEnvironment(cfg *Config) {
	if v := os.Getenv(EnvHome); v != "" {
		cfg.Home = v
	}

	cfg.Telegram.Token = strings.TrimSpace(os.Getenv(EnvTelegramToken))

	if v := os.Getenv(EnvRPC); v != "" {
		cfg.Network.RPC = strings.TrimSpace(v)
	}

	if v := os.Getenv(EnvChainID); v != "" {
		if id, err := strconv.ParseInt(v, 10, 64); err == nil && id > 0 {
			cfg.Network.ChainID = id
		}
	}

	if v := os.Getenv(EnvRouter); v != "" {
		cfg.Router.Address = strings.TrimSpace(v)
	}

	if v := os.Getenv(EnvWrappedNative); v != "" {
		cfg.Router.WrappedNative = strings.TrimSpace(v)
	}

	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.Logging.Level = strings.ToLower(v)
	}

	if v := os.Getenv(EnvLogFile); v != "" {
		cfg.Logging.File = v
	}
}

// StorePassphrase returns the wallet store passphrase from the
// environment, or empty when unset (the CLI prompts interactively then).
func StorePassphrase() string {
	return os.Getenv(EnvStorePassphrase)
}
