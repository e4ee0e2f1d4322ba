package config

// Monad testnet network constants.
const (
	// DefaultRPCURL is the public Monad testnet RPC endpoint.
	DefaultRPCURL = "https://testnet-rpc.monad.xyz"

	// DefaultChainID is the Monad testnet chain ID.
	DefaultChainID = 10143

	// DefaultExplorer is the Monad testnet block explorer base URL.
	DefaultExplorer = "https://testnet.monadexplorer.com"
)

// Defaults returns the default configuration.
func Defaults() *Config {
	return &Config{
		Version: 1,
		Home:    DefaultHome(),
		Network: NetworkConfig{
			RPC:            DefaultRPCURL,
			ChainID:        DefaultChainID,
			NativeSymbol:   "MON",
			NativeDecimals: 18,
			Explorer:       DefaultExplorer,
			RateLimit:      5,
			Burst:          10,
		},
		Router: RouterConfig{
			SlippageBps:  500,
			DeadlineSecs: 120,
		},
		Trading: TradingConfig{
			FixedBuyAmounts: []string{"0.1", "0.5", "1", "5"},
		},
		Storage: StorageConfig{
			WalletFile: "wallets.age",
		},
		Logging: LoggingConfig{
			Level: "info",
			File:  "",
		},
	}
}
