package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Barneybot002/monad-testbot/internal/config"
	boterr "github.com/Barneybot002/monad-testbot/pkg/errors"
)

func TestDefaults(t *testing.T) {
	t.Parallel()

	cfg := config.Defaults()
	assert.Equal(t, config.DefaultRPCURL, cfg.Network.RPC)
	assert.Equal(t, int64(config.DefaultChainID), cfg.Network.ChainID)
	assert.Equal(t, "MON", cfg.Network.NativeSymbol)
	assert.Equal(t, 18, cfg.Network.NativeDecimals)
	assert.Len(t, cfg.Trading.FixedBuyAmounts, 4)
	assert.Equal(t, 500, cfg.Router.SlippageBps)
}

func TestSaveAndLoad(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	path := config.Path(tmpDir)

	cfg := config.Defaults()
	cfg.Network.RPC = "http://localhost:8545"
	cfg.Router.Address = "0x1111111111111111111111111111111111111111"

	require.NoError(t, config.Save(cfg, path))

	loaded, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8545", loaded.Network.RPC)
	assert.Equal(t, cfg.Router.Address, loaded.Router.Address)
	// Fields omitted from the file keep their defaults.
	assert.Equal(t, cfg.Trading.FixedBuyAmounts, loaded.Trading.FixedBuyAmounts)
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("network:\n  rpc: http://example.com\n"), 0o600))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "http://example.com", cfg.Network.RPC)
	assert.Equal(t, int64(config.DefaultChainID), cfg.Network.ChainID)
}

func TestLoad_InvalidYAML(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("{not yaml"), 0o600))

	_, err := config.Load(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	t.Parallel()

	valid := func() *config.Config {
		cfg := config.Defaults()
		cfg.Telegram.Token = "123:abc"
		cfg.Router.Address = "0x1111111111111111111111111111111111111111"
		cfg.Router.WrappedNative = "0x2222222222222222222222222222222222222222"
		return cfg
	}

	assert.NoError(t, valid().Validate())

	noToken := valid()
	noToken.Telegram.Token = ""
	assert.ErrorIs(t, noToken.Validate(), boterr.ErrTransportToken)

	noRouter := valid()
	noRouter.Router.Address = ""
	assert.ErrorIs(t, noRouter.Validate(), boterr.ErrConfigInvalid)

	badSlippage := valid()
	badSlippage.Router.SlippageBps = 10000
	assert.ErrorIs(t, badSlippage.Validate(), boterr.ErrConfigInvalid)

	noAmounts := valid()
	noAmounts.Trading.FixedBuyAmounts = nil
	assert.ErrorIs(t, noAmounts.Validate(), boterr.ErrConfigInvalid)
}

func TestWalletStorePath(t *testing.T) {
	t.Parallel()

	cfg := config.Defaults()
	cfg.Home = "/data/bot"
	cfg.Storage.WalletFile = "wallets.age"
	assert.Equal(t, filepath.Join("/data/bot", "wallets.age"), cfg.WalletStorePath())

	cfg.Storage.WalletFile = "/abs/wallets.age"
	assert.Equal(t, "/abs/wallets.age", cfg.WalletStorePath())
}

func TestApplyEnvironment(t *testing.T) {
	t.Setenv(config.EnvTelegramToken, "  42:token  ")
	t.Setenv(config.EnvRPC, "http://rpc.test")
	t.Setenv(config.EnvChainID, "777")
	t.Setenv(config.EnvRouter, "0x3333333333333333333333333333333333333333")
	t.Setenv(config.EnvLogLevel, "DEBUG")

	cfg := config.Defaults()
	config.ApplyEnvironment(cfg)

	assert.Equal(t, "42:token", cfg.Telegram.Token)
	assert.Equal(t, "http://rpc.test", cfg.Network.RPC)
	assert.Equal(t, int64(777), cfg.Network.ChainID)
	assert.Equal(t, "0x3333333333333333333333333333333333333333", cfg.Router.Address)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestApplyEnvironment_IgnoresBadChainID(t *testing.T) {
	t.Setenv(config.EnvChainID, "not-a-number")

	cfg := config.Defaults()
	config.ApplyEnvironment(cfg)
	assert.Equal(t, int64(config.DefaultChainID), cfg.Network.ChainID)
}
