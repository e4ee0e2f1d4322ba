package swap

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/Barneybot002/monad-testbot/internal/chain"
	"github.com/Barneybot002/monad-testbot/internal/config"
	boterr "github.com/Barneybot002/monad-testbot/pkg/errors"
)

// Gas limit fallbacks used when estimation fails.
const (
	fallbackGasApprove = 80000
	fallbackGasSwap    = 400000
)

const bpsDenominator = 10000

// Router swaps through a UniswapV2-style router contract, routing every
// trade over the wrapped-native pair.
type Router struct {
	client  *chain.Client
	router  string
	wrapped string

	slippageBps  int
	deadlineSecs int64
	log          *config.Logger
}

// NewRouter creates a router-backed swap engine from network and router
// configuration.
func NewRouter(client *chain.Client, cfg config.RouterConfig, log *config.Logger) (*Router, error) {
	if !chain.IsAddress(cfg.Address) {
		return nil, boterr.WithSuggestion(boterr.ErrConfigInvalid, "router address must be set")
	}
	if !chain.IsAddress(cfg.WrappedNative) {
		return nil, boterr.WithSuggestion(boterr.ErrConfigInvalid, "wrapped native address must be set")
	}
	if log == nil {
		log = config.NullLogger()
	}

	slippage := cfg.SlippageBps
	if slippage <= 0 || slippage >= bpsDenominator {
		slippage = 500
	}
	deadline := cfg.DeadlineSecs
	if deadline <= 0 {
		deadline = 120
	}

	return &Router{
		client:       client,
		router:       cfg.Address,
		wrapped:      cfg.WrappedNative,
		slippageBps:  slippage,
		deadlineSecs: int64(deadline),
		log:          log,
	}, nil
}

// TokenInfo fetches symbol, name, and decimals from the token contract.
// Decimals are mandatory; a contract without them is not tradeable.
func (r *Router) TokenInfo(ctx context.Context, tokenAddress string) (*TokenInfo, error) {
	if !chain.IsAddress(tokenAddress) {
		return nil, boterr.ErrInvalidAddress
	}

	decRaw, err := r.client.Call(ctx, tokenAddress, DecimalsData())
	if err != nil {
		return nil, boterr.WrapAs(boterr.ErrTokenLookup, err, "reading decimals for %s", tokenAddress)
	}
	dec, err := DecodeUint256(decRaw)
	if err != nil || dec.Cmp(big.NewInt(255)) > 0 {
		return nil, boterr.Wrap(boterr.ErrTokenLookup, "token %s has no decimals", tokenAddress)
	}

	info := &TokenInfo{
		Address:  tokenAddress,
		Decimals: uint8(dec.Uint64()),
	}

	// Symbol and name are optional on chain; fall back to placeholders.
	if raw, err := r.client.Call(ctx, tokenAddress, SymbolData()); err == nil {
		if s, err := DecodeString(raw); err == nil && s != "" {
			info.Symbol = s
		}
	}
	if info.Symbol == "" {
		info.Symbol = "UNKNOWN"
	}
	if raw, err := r.client.Call(ctx, tokenAddress, NameData()); err == nil {
		if s, err := DecodeString(raw); err == nil && s != "" {
			info.Name = s
		}
	}
	if info.Name == "" {
		info.Name = info.Symbol
	}

	return info, nil
}

// QuoteBuy returns the expected token output for a native input.
func (r *Router) QuoteBuy(ctx context.Context, tokenAddress string, amountInWei *big.Int) (*big.Int, error) {
	return r.quote(ctx, amountInWei, []string{r.wrapped, tokenAddress})
}

// QuoteSell returns the expected native output for a token input.
func (r *Router) QuoteSell(ctx context.Context, tokenAddress string, amountIn *big.Int) (*big.Int, error) {
	return r.quote(ctx, amountIn, []string{tokenAddress, r.wrapped})
}

func (r *Router) quote(ctx context.Context, amountIn *big.Int, path []string) (*big.Int, error) {
	if amountIn == nil || amountIn.Sign() <= 0 {
		return nil, boterr.ErrInvalidAmount
	}
	raw, err := r.client.Call(ctx, r.router, AmountsOutData(amountIn, path))
	if err != nil {
		return nil, boterr.WrapAs(boterr.ErrSwapFailed, err, "quoting %s", path[len(path)-1])
	}
	out, err := DecodeAmountsOut(raw)
	if err != nil {
		return nil, boterr.WrapAs(boterr.ErrSwapFailed, err, "decoding quote")
	}
	return out, nil
}

// ExecuteBuy swaps native MON for the token via
// swapExactETHForTokens, bounding the output by the configured
// slippage.
func (r *Router) ExecuteBuy(ctx context.Context, signerKey, tokenAddress string, amountInWei *big.Int) (*Receipt, error) {
	if amountInWei == nil || amountInWei.Sign() <= 0 {
		return nil, boterr.ErrInvalidAmount
	}

	key, err := crypto.HexToECDSA(signerKey)
	if err != nil {
		return nil, boterr.ErrInvalidPrivateKey
	}
	from := crypto.PubkeyToAddress(key.PublicKey).Hex()

	path := []string{r.wrapped, tokenAddress}
	expected, err := r.quote(ctx, amountInWei, path)
	if err != nil {
		return nil, err
	}
	minOut := ApplySlippage(expected, r.slippageBps)

	data := SwapExactNativeForTokensData(minOut, path, from, r.deadline())

	hash, err := r.send(ctx, key, from, r.router, amountInWei, data, 0)
	if err != nil {
		return nil, boterr.WrapAs(boterr.ErrSwapFailed, err, "buying %s", tokenAddress)
	}

	r.log.Info("buy broadcast: token=%s in=%s minOut=%s tx=%s", tokenAddress, amountInWei, minOut, hash)
	return &Receipt{TxHash: hash, AmountIn: amountInWei, AmountOutMin: minOut}, nil
}

// ExecuteSell swaps the token for native MON via
// swapExactTokensForETH. An exact-amount approve is broadcast first
// when the router's allowance is short.
func (r *Router) ExecuteSell(ctx context.Context, signerKey, tokenAddress string, amountIn *big.Int) (*Receipt, error) {
	if amountIn == nil || amountIn.Sign() <= 0 {
		return nil, boterr.ErrInvalidAmount
	}

	key, err := crypto.HexToECDSA(signerKey)
	if err != nil {
		return nil, boterr.ErrInvalidPrivateKey
	}
	from := crypto.PubkeyToAddress(key.PublicKey).Hex()

	path := []string{tokenAddress, r.wrapped}
	expected, err := r.quote(ctx, amountIn, path)
	if err != nil {
		return nil, err
	}
	minOut := ApplySlippage(expected, r.slippageBps)

	nonceOffset := uint64(0)
	allowance, err := r.allowance(ctx, tokenAddress, from)
	if err != nil {
		return nil, err
	}
	if allowance.Cmp(amountIn) < 0 {
		approveHash, err := r.send(ctx, key, from, tokenAddress, big.NewInt(0), ApproveData(r.router, amountIn), 0)
		if err != nil {
			return nil, boterr.WrapAs(boterr.ErrSwapFailed, err, "approving %s", tokenAddress)
		}
		r.log.Debug("approve broadcast: token=%s amount=%s tx=%s", tokenAddress, amountIn, approveHash)
		nonceOffset = 1
	}

	data := SwapExactTokensForNativeData(amountIn, minOut, path, from, r.deadline())

	hash, err := r.send(ctx, key, from, r.router, big.NewInt(0), data, nonceOffset)
	if err != nil {
		return nil, boterr.WrapAs(boterr.ErrSwapFailed, err, "selling %s", tokenAddress)
	}

	r.log.Info("sell broadcast: token=%s in=%s minOut=%s tx=%s", tokenAddress, amountIn, minOut, hash)
	return &Receipt{TxHash: hash, AmountIn: amountIn, AmountOutMin: minOut}, nil
}

func (r *Router) allowance(ctx context.Context, tokenAddress, owner string) (*big.Int, error) {
	raw, err := r.client.Call(ctx, tokenAddress, AllowanceData(owner, r.router))
	if err != nil {
		return nil, boterr.WrapAs(boterr.ErrSwapFailed, err, "reading allowance for %s", tokenAddress)
	}
	if len(raw) == 0 {
		return big.NewInt(0), nil
	}
	return DecodeUint256(raw)
}

// send builds, signs, and broadcasts a legacy transaction. nonceOffset
// lets a swap follow its own approve without waiting for inclusion.
func (r *Router) send(ctx context.Context, key *ecdsa.PrivateKey, from, to string, value *big.Int, data []byte, nonceOffset uint64) (string, error) {
	nonce, err := r.client.PendingNonce(ctx, from)
	if err != nil {
		return "", err
	}
	gasPrice, err := r.client.GasPrice(ctx)
	if err != nil {
		return "", err
	}
	chainID, err := r.client.ChainID(ctx)
	if err != nil {
		return "", err
	}

	fallback := uint64(fallbackGasSwap)
	if to != r.router {
		fallback = fallbackGasApprove
	}
	gasLimit := r.client.EstimateGas(ctx, from, to, value, data, fallback)

	toAddr := common.HexToAddress(to)
	tx := types.NewTx(&types.LegacyTx{
		Nonce:    nonce + nonceOffset,
		To:       &toAddr,
		Value:    value,
		Gas:      gasLimit,
		GasPrice: gasPrice,
		Data:     data,
	})

	signed, err := types.SignTx(tx, types.NewEIP155Signer(chainID), key)
	if err != nil {
		return "", fmt.Errorf("signing transaction: %w", err)
	}

	if err := r.client.SendTransaction(ctx, signed); err != nil {
		return "", err
	}
	return signed.Hash().Hex(), nil
}

func (r *Router) deadline() *big.Int {
	return big.NewInt(time.Now().Unix() + r.deadlineSecs)
}

// ApplySlippage reduces an expected output by bps basis points,
// flooring toward zero.
func ApplySlippage(amount *big.Int, bps int) *big.Int {
	out := new(big.Int).Mul(amount, big.NewInt(int64(bpsDenominator-bps)))
	return out.Div(out, big.NewInt(bpsDenominator))
}
