package swap

import (
	"context"
	"math/big"
)

// TokenInfo describes an ERC-20 token looked up on chain.
type TokenInfo struct {
	Address  string `json:"address"`
	Symbol   string `json:"symbol"`
	Name     string `json:"name"`
	Decimals uint8  `json:"decimals"`
}

// Receipt summarizes a broadcast swap.
type Receipt struct {
	TxHash       string   // Transaction hash, 0x-prefixed
	AmountIn     *big.Int // Input amount in base units
	AmountOutMin *big.Int // Slippage-bounded minimum output
}

// Engine performs token lookups, quotes, and swaps. The dispatcher
// depends on this interface so flows can be tested without a network.
type Engine interface {
	// TokenInfo fetches symbol, name, and decimals for a token.
	TokenInfo(ctx context.Context, tokenAddress string) (*TokenInfo, error)

	// QuoteBuy returns the expected token output for a native input.
	QuoteBuy(ctx context.Context, tokenAddress string, amountInWei *big.Int) (*big.Int, error)

	// QuoteSell returns the expected native output for a token input.
	QuoteSell(ctx context.Context, tokenAddress string, amountIn *big.Int) (*big.Int, error)

	// ExecuteBuy swaps native MON for the token. signerKey is the
	// wallet's hex private key; amountInWei is the native amount.
	ExecuteBuy(ctx context.Context, signerKey, tokenAddress string, amountInWei *big.Int) (*Receipt, error)

	// ExecuteSell swaps the token for native MON. amountIn is in the
	// token's base units.
	ExecuteSell(ctx context.Context, signerKey, tokenAddress string, amountIn *big.Int) (*Receipt, error)
}
