package swap_test

import (
	"encoding/hex"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Barneybot002/monad-testbot/internal/swap"
)

const (
	wrappedAddr = "0x760AfE86e5de5fa0Ee542fc7B7B713e1c5425701"
	tokenAddr   = "0x5FbDB2315678afecb367f032d93F642f64180aa3"
	traderAddr  = "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266"
)

// Selector prefixes are pinned to the published four-byte registry
// values so an encoding slip cannot silently call the wrong function.
func TestCallData_Selectors(t *testing.T) {
	t.Parallel()

	one := big.NewInt(1)
	path := []string{wrappedAddr, tokenAddr}

	tests := []struct {
		name     string
		data     []byte
		selector string
	}{
		{"symbol", swap.SymbolData(), "95d89b41"},
		{"name", swap.NameData(), "06fdde03"},
		{"decimals", swap.DecimalsData(), "313ce567"},
		{"approve", swap.ApproveData(tokenAddr, one), "095ea7b3"},
		{"allowance", swap.AllowanceData(traderAddr, tokenAddr), "dd62ed3e"},
		{"getAmountsOut", swap.AmountsOutData(one, path), "d06ca61f"},
		{"swapExactETHForTokens", swap.SwapExactNativeForTokensData(one, path, traderAddr, one), "7ff36ab5"},
		{"swapExactTokensForETH", swap.SwapExactTokensForNativeData(one, one, path, traderAddr, one), "18cbafe5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			require.GreaterOrEqual(t, len(tt.data), 4)
			assert.Equal(t, tt.selector, hex.EncodeToString(tt.data[:4]))
		})
	}
}

func TestAmountsOutData_Layout(t *testing.T) {
	t.Parallel()

	amountIn := big.NewInt(1000)
	path := []string{wrappedAddr, tokenAddr}
	data := swap.AmountsOutData(amountIn, path)

	// selector + amountIn + offset + length + 2 addresses
	require.Len(t, data, 4+5*32)

	body := data[4:]
	assert.Equal(t, int64(1000), new(big.Int).SetBytes(body[:32]).Int64())
	assert.Equal(t, int64(64), new(big.Int).SetBytes(body[32:64]).Int64(), "path offset")
	assert.Equal(t, int64(2), new(big.Int).SetBytes(body[64:96]).Int64(), "path length")
	assert.Equal(t,
		"000000000000000000000000760afe86e5de5fa0ee542fc7b7b713e1c5425701",
		hex.EncodeToString(body[96:128]))
}

func TestSwapExactNativeForTokensData_Layout(t *testing.T) {
	t.Parallel()

	minOut := big.NewInt(95)
	deadline := big.NewInt(1700000000)
	path := []string{wrappedAddr, tokenAddr}
	data := swap.SwapExactNativeForTokensData(minOut, path, traderAddr, deadline)

	// selector + minOut + offset + to + deadline + length + 2 addresses
	require.Len(t, data, 4+7*32)

	body := data[4:]
	assert.Equal(t, int64(95), new(big.Int).SetBytes(body[:32]).Int64())
	assert.Equal(t, int64(128), new(big.Int).SetBytes(body[32:64]).Int64(), "path offset")
	assert.Equal(t,
		"000000000000000000000000f39fd6e51aad88f6f4ce6ab8827279cfffb92266",
		hex.EncodeToString(body[64:96]), "recipient")
	assert.Equal(t, int64(1700000000), new(big.Int).SetBytes(body[96:128]).Int64())
	assert.Equal(t, int64(2), new(big.Int).SetBytes(body[128:160]).Int64(), "path length")
}

func TestSwapExactTokensForNativeData_Layout(t *testing.T) {
	t.Parallel()

	data := swap.SwapExactTokensForNativeData(
		big.NewInt(500), big.NewInt(490),
		[]string{tokenAddr, wrappedAddr},
		traderAddr, big.NewInt(1700000000))

	// selector + amountIn + minOut + offset + to + deadline + length + 2 addresses
	require.Len(t, data, 4+8*32)

	body := data[4:]
	assert.Equal(t, int64(500), new(big.Int).SetBytes(body[:32]).Int64())
	assert.Equal(t, int64(490), new(big.Int).SetBytes(body[32:64]).Int64())
	assert.Equal(t, int64(160), new(big.Int).SetBytes(body[64:96]).Int64(), "path offset")
}

func TestDecodeString(t *testing.T) {
	t.Parallel()

	t.Run("dynamic encoding", func(t *testing.T) {
		t.Parallel()

		// offset=32, length=4, "WMON" right-padded.
		data := make([]byte, 96)
		data[31] = 32
		data[63] = 4
		copy(data[64:], "WMON")

		s, err := swap.DecodeString(data)
		require.NoError(t, err)
		assert.Equal(t, "WMON", s)
	})

	t.Run("legacy bytes32", func(t *testing.T) {
		t.Parallel()

		data := make([]byte, 32)
		copy(data, "MKR")

		s, err := swap.DecodeString(data)
		require.NoError(t, err)
		assert.Equal(t, "MKR", s)
	})

	t.Run("empty return", func(t *testing.T) {
		t.Parallel()

		_, err := swap.DecodeString(nil)
		assert.Error(t, err)
	})

	t.Run("offset out of range", func(t *testing.T) {
		t.Parallel()

		data := make([]byte, 64)
		data[31] = 255

		_, err := swap.DecodeString(data)
		assert.Error(t, err)
	})
}

func TestDecodeAmountsOut(t *testing.T) {
	t.Parallel()

	// offset=32, length=2, [1000, 987].
	data := make([]byte, 128)
	data[31] = 32
	data[63] = 2
	copy(data[64:96], new(big.Int).SetInt64(1000).FillBytes(make([]byte, 32)))
	copy(data[96:128], new(big.Int).SetInt64(987).FillBytes(make([]byte, 32)))

	out, err := swap.DecodeAmountsOut(data)
	require.NoError(t, err)
	assert.Equal(t, int64(987), out.Int64())

	_, err = swap.DecodeAmountsOut(data[:16])
	assert.Error(t, err)

	// Zero-length array.
	empty := make([]byte, 64)
	empty[31] = 32
	_, err = swap.DecodeAmountsOut(empty)
	assert.Error(t, err)
}

// Offset and length words come back from arbitrary token contracts; a
// hostile value must produce an error, never a slice panic.
func TestDecode_HostileWords(t *testing.T) {
	t.Parallel()

	word := func(v *big.Int) []byte { return v.FillBytes(make([]byte, 32)) }
	nearMax := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 64), big.NewInt(32))
	max256 := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1))

	t.Run("offset wraps uint64", func(t *testing.T) {
		t.Parallel()

		// offset+32 overflows to 0 and would pass a naive bounds check.
		data := append(word(nearMax), word(big.NewInt(0))...)

		_, err := swap.DecodeString(data)
		assert.Error(t, err)
		_, err = swap.DecodeAmountsOut(data)
		assert.Error(t, err)
	})

	t.Run("offset exceeds uint64", func(t *testing.T) {
		t.Parallel()

		data := append(word(max256), word(big.NewInt(0))...)

		_, err := swap.DecodeString(data)
		assert.Error(t, err)
		_, err = swap.DecodeAmountsOut(data)
		assert.Error(t, err)
	})

	t.Run("length wraps uint64", func(t *testing.T) {
		t.Parallel()

		data := append(word(big.NewInt(32)), word(nearMax)...)

		_, err := swap.DecodeString(data)
		assert.Error(t, err)
		_, err = swap.DecodeAmountsOut(data)
		assert.Error(t, err)
	})
}

func TestApplySlippage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		amount int64
		bps    int
		want   int64
	}{
		{"five percent", 10000, 500, 9500},
		{"one bp", 10000, 1, 9999},
		{"floors toward zero", 999, 500, 949},
		{"zero amount", 0, 500, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := swap.ApplySlippage(big.NewInt(tt.amount), tt.bps)
			assert.Equal(t, tt.want, got.Int64())
		})
	}
}
