package chain

import (
	"context"
	"fmt"
	"math/big"
	"sync"

	ethereum "github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"

	boterr "github.com/Barneybot002/monad-testbot/pkg/errors"
)

// erc20BalanceOfSelector is keccak256("balanceOf(address)")[0:4].
//
//nolint:gochecknoglobals // ERC-20 constant
var erc20BalanceOfSelector = []byte{0x70, 0xa0, 0x82, 0x31}

// Client provides Monad testnet RPC operations. The connection is
// dialed lazily on first use so construction never blocks startup, and
// all reads pass through the rate limiter and transient-error retry.
type Client struct {
	rpcURL  string
	chainID *big.Int
	limiter *RateLimiter

	mu  sync.Mutex
	eth *ethclient.Client
}

// NewClient creates a client for the given RPC endpoint. chainID may be
// zero to auto-detect on first connect.
func NewClient(rpcURL string, chainID int64, limiter *RateLimiter) (*Client, error) {
	if rpcURL == "" {
		return nil, boterr.WithSuggestion(boterr.ErrConfigInvalid, "RPC URL is required")
	}
	if limiter == nil {
		limiter = NewRateLimiter(5, 10)
	}

	c := &Client{
		rpcURL:  rpcURL,
		limiter: limiter,
	}
	if chainID > 0 {
		c.chainID = big.NewInt(chainID)
	}
	return c, nil
}

// ChainID returns the network chain ID, detecting it if unknown.
func (c *Client) ChainID(ctx context.Context) (*big.Int, error) {
	c.mu.Lock()
	if c.chainID != nil {
		id := new(big.Int).Set(c.chainID)
		c.mu.Unlock()
		return id, nil
	}
	c.mu.Unlock()

	// connect takes the same lock; fetch outside it.
	eth, err := c.connect(ctx)
	if err != nil {
		return nil, err
	}
	id, err := eth.ChainID(ctx)
	if err != nil {
		return nil, boterr.WrapAs(boterr.ErrNetwork, err, "getting chain ID")
	}

	c.mu.Lock()
	c.chainID = id
	c.mu.Unlock()
	return new(big.Int).Set(id), nil
}

// NativeBalance retrieves the MON balance for an address in wei.
func (c *Client) NativeBalance(ctx context.Context, address string) (*big.Int, error) {
	if !IsAddress(address) {
		return nil, boterr.ErrInvalidAddress
	}
	eth, err := c.connect(ctx)
	if err != nil {
		return nil, err
	}

	return Retry(ctx, func() (*big.Int, error) {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
		balance, err := eth.BalanceAt(ctx, common.HexToAddress(address), nil)
		if err != nil {
			return nil, WrapRetryable(fmt.Errorf("getting balance: %w", err))
		}
		return balance, nil
	})
}

// TokenBalance retrieves the ERC-20 token balance for an address, in
// the token's base units.
func (c *Client) TokenBalance(ctx context.Context, address, tokenAddress string) (*big.Int, error) {
	if !IsAddress(address) || !IsAddress(tokenAddress) {
		return nil, boterr.ErrInvalidAddress
	}

	// balanceOf(address) with the holder left-padded to 32 bytes.
	data := make([]byte, 0, 36)
	data = append(data, erc20BalanceOfSelector...)
	data = append(data, common.LeftPadBytes(common.HexToAddress(address).Bytes(), 32)...)

	result, err := c.Call(ctx, tokenAddress, data)
	if err != nil {
		return nil, fmt.Errorf("calling balanceOf: %w", err)
	}
	if len(result) < 32 {
		return big.NewInt(0), nil
	}
	return new(big.Int).SetBytes(result[:32]), nil
}

// Call executes a read-only eth_call against a contract.
func (c *Client) Call(ctx context.Context, to string, data []byte) ([]byte, error) {
	if !IsAddress(to) {
		return nil, boterr.ErrInvalidAddress
	}
	eth, err := c.connect(ctx)
	if err != nil {
		return nil, err
	}

	toAddr := common.HexToAddress(to)
	msg := ethereum.CallMsg{To: &toAddr, Data: data}

	return Retry(ctx, func() ([]byte, error) {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
		out, err := eth.CallContract(ctx, msg, nil)
		if err != nil {
			return nil, WrapRetryable(err)
		}
		return out, nil
	})
}

// PendingNonce returns the next nonce for an address.
func (c *Client) PendingNonce(ctx context.Context, address string) (uint64, error) {
	eth, err := c.connect(ctx)
	if err != nil {
		return 0, err
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return 0, err
	}
	nonce, err := eth.PendingNonceAt(ctx, common.HexToAddress(address))
	if err != nil {
		return 0, fmt.Errorf("getting nonce: %w", err)
	}
	return nonce, nil
}

// GasPrice returns the suggested gas price.
func (c *Client) GasPrice(ctx context.Context) (*big.Int, error) {
	eth, err := c.connect(ctx)
	if err != nil {
		return nil, err
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	price, err := eth.SuggestGasPrice(ctx)
	if err != nil {
		return nil, fmt.Errorf("getting gas price: %w", err)
	}
	return price, nil
}

// EstimateGas estimates gas for a contract call with value. Returns the
// fallback limit when estimation fails (a revert at estimation time is
// surfaced later by the actual call).
func (c *Client) EstimateGas(ctx context.Context, from, to string, value *big.Int, data []byte, fallback uint64) uint64 {
	eth, err := c.connect(ctx)
	if err != nil {
		return fallback
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return fallback
	}

	toAddr := common.HexToAddress(to)
	msg := ethereum.CallMsg{
		From:  common.HexToAddress(from),
		To:    &toAddr,
		Value: value,
		Data:  data,
	}

	limit, err := eth.EstimateGas(ctx, msg)
	if err != nil {
		return fallback
	}
	// Headroom over the estimate; router gas use varies with reserves.
	return limit + limit/5
}

// SendTransaction broadcasts a signed transaction. Never retried, so a
// transient failure cannot double-spend.
func (c *Client) SendTransaction(ctx context.Context, tx *types.Transaction) error {
	eth, err := c.connect(ctx)
	if err != nil {
		return err
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}
	if err := eth.SendTransaction(ctx, tx); err != nil {
		return fmt.Errorf("broadcasting transaction: %w", err)
	}
	return nil
}

// Close closes the underlying connection.
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.eth != nil {
		c.eth.Close()
		c.eth = nil
	}
}

// connect establishes the RPC connection if not already connected.
func (c *Client) connect(ctx context.Context) (*ethclient.Client, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.eth != nil {
		return c.eth, nil
	}

	eth, err := ethclient.DialContext(ctx, c.rpcURL)
	if err != nil {
		return nil, boterr.WrapAs(boterr.ErrNetwork, err, "dialing %s", c.rpcURL)
	}
	c.eth = eth
	return eth, nil
}
