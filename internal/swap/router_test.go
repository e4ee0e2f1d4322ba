package swap_test

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Barneybot002/monad-testbot/internal/chain"
	"github.com/Barneybot002/monad-testbot/internal/config"
	"github.com/Barneybot002/monad-testbot/internal/swap"
	boterr "github.com/Barneybot002/monad-testbot/pkg/errors"
)

// callObject accepts both the legacy "data" and current "input" field
// names for eth_call payloads.
type callObject struct {
	To    string `json:"to"`
	Data  string `json:"data"`
	Input string `json:"input"`
}

func (c callObject) callData() string {
	if c.Input != "" {
		return c.Input
	}
	return c.Data
}

// newCallServer serves eth_call keyed by the four-byte selector of the
// incoming call data, plus the chain ID handshake.
func newCallServer(t *testing.T, bySelector map[string]string) *httptest.Server {
	t.Helper()

	handler := func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			ID     json.RawMessage   `json:"id"`
			Method string            `json:"method"`
			Params []json.RawMessage `json:"params"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		var result string
		switch req.Method {
		case "eth_chainId":
			result = "0x279f"
		case "eth_call":
			var call callObject
			require.NoError(t, json.Unmarshal(req.Params[0], &call))
			data := call.callData()
			require.GreaterOrEqual(t, len(data), 10)
			sel := data[2:10]
			var ok bool
			result, ok = bySelector[sel]
			require.True(t, ok, "unexpected selector %s", sel)
		default:
			t.Errorf("unexpected RPC method %q", req.Method)
			result = "0x"
		}

		w.Header().Set("Content-Type", "application/json")
		resp := map[string]any{"jsonrpc": "2.0", "id": req.ID, "result": result}
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}

	server := httptest.NewServer(http.HandlerFunc(handler))
	t.Cleanup(server.Close)
	return server
}

func abiWord(v int64) string {
	return hex.EncodeToString(new(big.Int).SetInt64(v).FillBytes(make([]byte, 32)))
}

func abiString(s string) string {
	body := make([]byte, 64+32)
	body[31] = 32
	body[63] = byte(len(s))
	copy(body[64:], s)
	return hex.EncodeToString(body)
}

func routerConfig() config.RouterConfig {
	return config.RouterConfig{
		Address:       "0xfB8e1C3b833f9E67a71C859a132cf783b645e436",
		WrappedNative: wrappedAddr,
		SlippageBps:   500,
		DeadlineSecs:  120,
	}
}

func newTestRouter(t *testing.T, rpcURL string) *swap.Router {
	t.Helper()

	client, err := chain.NewClient(rpcURL, 10143, nil)
	require.NoError(t, err)
	t.Cleanup(client.Close)

	router, err := swap.NewRouter(client, routerConfig(), config.NullLogger())
	require.NoError(t, err)
	return router
}

func TestNewRouter_Validation(t *testing.T) {
	t.Parallel()

	client, err := chain.NewClient("http://127.0.0.1:1", 10143, nil)
	require.NoError(t, err)

	cfg := routerConfig()
	cfg.Address = ""
	_, err = swap.NewRouter(client, cfg, nil)
	assert.True(t, boterr.Is(err, boterr.ErrConfigInvalid))

	cfg = routerConfig()
	cfg.WrappedNative = "nope"
	_, err = swap.NewRouter(client, cfg, nil)
	assert.True(t, boterr.Is(err, boterr.ErrConfigInvalid))
}

func TestRouter_TokenInfo(t *testing.T) {
	t.Parallel()

	server := newCallServer(t, map[string]string{
		"313ce567": "0x" + abiWord(18),          // decimals
		"95d89b41": "0x" + abiString("CHOG"),    // symbol
		"06fdde03": "0x" + abiString("Chog Token"), // name
	})

	router := newTestRouter(t, server.URL)

	info, err := router.TokenInfo(context.Background(), tokenAddr)
	require.NoError(t, err)
	assert.Equal(t, tokenAddr, info.Address)
	assert.Equal(t, "CHOG", info.Symbol)
	assert.Equal(t, "Chog Token", info.Name)
	assert.Equal(t, uint8(18), info.Decimals)
}

func TestRouter_TokenInfo_MissingMetadata(t *testing.T) {
	t.Parallel()

	server := newCallServer(t, map[string]string{
		"313ce567": "0x" + abiWord(6),
		"95d89b41": "0x",
		"06fdde03": "0x",
	})

	router := newTestRouter(t, server.URL)

	info, err := router.TokenInfo(context.Background(), tokenAddr)
	require.NoError(t, err)
	assert.Equal(t, "UNKNOWN", info.Symbol)
	assert.Equal(t, "UNKNOWN", info.Name)
	assert.Equal(t, uint8(6), info.Decimals)
}

func TestRouter_TokenInfo_InvalidAddress(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t, "http://127.0.0.1:1")

	_, err := router.TokenInfo(context.Background(), "f39Fd6")
	assert.ErrorIs(t, err, boterr.ErrInvalidAddress)
}

func TestRouter_QuoteBuy(t *testing.T) {
	t.Parallel()

	// getAmountsOut returns [in, out].
	amounts := "0x" + abiWord(32) + abiWord(2) + abiWord(1000) + abiWord(123456)
	server := newCallServer(t, map[string]string{
		"d06ca61f": amounts,
	})

	router := newTestRouter(t, server.URL)

	out, err := router.QuoteBuy(context.Background(), tokenAddr, big.NewInt(1000))
	require.NoError(t, err)
	assert.Equal(t, int64(123456), out.Int64())
}

// newRevertingCallServer answers the chain ID handshake but fails every
// eth_call with an execution revert carrying the given reason.
func newRevertingCallServer(t *testing.T, reason string) *httptest.Server {
	t.Helper()

	handler := func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			ID     json.RawMessage `json:"id"`
			Method string          `json:"method"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		w.Header().Set("Content-Type", "application/json")
		resp := map[string]any{"jsonrpc": "2.0", "id": req.ID}
		if req.Method == "eth_chainId" {
			resp["result"] = "0x279f"
		} else {
			resp["error"] = map[string]any{"code": 3, "message": "execution reverted: " + reason}
		}
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}

	server := httptest.NewServer(http.HandlerFunc(handler))
	t.Cleanup(server.Close)
	return server
}

func TestRouter_QuoteSurfacesRevertReason(t *testing.T) {
	t.Parallel()

	server := newRevertingCallServer(t, "NO_LIQUIDITY")
	router := newTestRouter(t, server.URL)

	_, err := router.QuoteBuy(context.Background(), tokenAddr, big.NewInt(1000))
	require.Error(t, err)
	assert.True(t, boterr.Is(err, boterr.ErrSwapFailed))

	// The revert reason reaches the user; the sentinel text is not doubled.
	msg := boterr.UserMessage(err)
	assert.Contains(t, msg, "NO_LIQUIDITY")
	assert.NotContains(t, msg, "swap failed: swap failed")
}

func TestRouter_Quote_RejectsNonPositive(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t, "http://127.0.0.1:1")

	_, err := router.QuoteBuy(context.Background(), tokenAddr, big.NewInt(0))
	assert.ErrorIs(t, err, boterr.ErrInvalidAmount)

	_, err = router.QuoteSell(context.Background(), tokenAddr, nil)
	assert.ErrorIs(t, err, boterr.ErrInvalidAmount)
}

func TestRouter_ExecuteBuy_RejectsBadKey(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t, "http://127.0.0.1:1")

	_, err := router.ExecuteBuy(context.Background(), "not-hex", tokenAddr, big.NewInt(1))
	assert.ErrorIs(t, err, boterr.ErrInvalidPrivateKey)
}
