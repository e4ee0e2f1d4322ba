package swap

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"golang.org/x/crypto/sha3"
)

const wordSize = 32

// Function selectors, keccak256(signature)[0:4].
//
//nolint:gochecknoglobals // ABI constants
var (
	selSymbol              = selector("symbol()")
	selName                = selector("name()")
	selDecimals            = selector("decimals()")
	selApprove             = selector("approve(address,uint256)")
	selAllowance           = selector("allowance(address,address)")
	selGetAmountsOut       = selector("getAmountsOut(uint256,address[])")
	selSwapExactETHForToks = selector("swapExactETHForTokens(uint256,address[],address,uint256)")
	selSwapExactToksForETH = selector("swapExactTokensForETH(uint256,uint256,address[],address,uint256)")
)

func selector(signature string) []byte {
	hash := sha3.NewLegacyKeccak256()
	hash.Write([]byte(signature))
	return hash.Sum(nil)[:4]
}

// uintWord left-pads an unsigned integer to a 32-byte ABI word.
func uintWord(v *big.Int) []byte {
	return common.LeftPadBytes(v.Bytes(), wordSize)
}

// addressWord left-pads an address to a 32-byte ABI word.
func addressWord(addr string) []byte {
	return common.LeftPadBytes(common.HexToAddress(addr).Bytes(), wordSize)
}

// pathTail encodes an address[] tail: length word followed by elements.
func pathTail(path []string) []byte {
	out := make([]byte, 0, (len(path)+1)*wordSize)
	out = append(out, uintWord(big.NewInt(int64(len(path))))...)
	for _, p := range path {
		out = append(out, addressWord(p)...)
	}
	return out
}

// SymbolData builds call data for symbol().
func SymbolData() []byte { return append([]byte{}, selSymbol...) }

// NameData builds call data for name().
func NameData() []byte { return append([]byte{}, selName...) }

// DecimalsData builds call data for decimals().
func DecimalsData() []byte { return append([]byte{}, selDecimals...) }

// ApproveData builds call data for approve(spender, amount).
func ApproveData(spender string, amount *big.Int) []byte {
	data := make([]byte, 0, 4+2*wordSize)
	data = append(data, selApprove...)
	data = append(data, addressWord(spender)...)
	data = append(data, uintWord(amount)...)
	return data
}

// AllowanceData builds call data for allowance(owner, spender).
func AllowanceData(owner, spender string) []byte {
	data := make([]byte, 0, 4+2*wordSize)
	data = append(data, selAllowance...)
	data = append(data, addressWord(owner)...)
	data = append(data, addressWord(spender)...)
	return data
}

// AmountsOutData builds call data for getAmountsOut(amountIn, path).
func AmountsOutData(amountIn *big.Int, path []string) []byte {
	data := make([]byte, 0, 4+(3+len(path))*wordSize)
	data = append(data, selGetAmountsOut...)
	data = append(data, uintWord(amountIn)...)
	data = append(data, uintWord(big.NewInt(2*wordSize))...) // offset of path
	data = append(data, pathTail(path)...)
	return data
}

// SwapExactNativeForTokensData builds call data for
// swapExactETHForTokens(amountOutMin, path, to, deadline). The native
// amount rides as the transaction value.
func SwapExactNativeForTokensData(amountOutMin *big.Int, path []string, to string, deadline *big.Int) []byte {
	data := make([]byte, 0, 4+(5+len(path))*wordSize)
	data = append(data, selSwapExactETHForToks...)
	data = append(data, uintWord(amountOutMin)...)
	data = append(data, uintWord(big.NewInt(4*wordSize))...) // offset of path
	data = append(data, addressWord(to)...)
	data = append(data, uintWord(deadline)...)
	data = append(data, pathTail(path)...)
	return data
}

// SwapExactTokensForNativeData builds call data for
// swapExactTokensForETH(amountIn, amountOutMin, path, to, deadline).
func SwapExactTokensForNativeData(amountIn, amountOutMin *big.Int, path []string, to string, deadline *big.Int) []byte {
	data := make([]byte, 0, 4+(6+len(path))*wordSize)
	data = append(data, selSwapExactToksForETH...)
	data = append(data, uintWord(amountIn)...)
	data = append(data, uintWord(amountOutMin)...)
	data = append(data, uintWord(big.NewInt(5*wordSize))...) // offset of path
	data = append(data, addressWord(to)...)
	data = append(data, uintWord(deadline)...)
	data = append(data, pathTail(path)...)
	return data
}

// DecodeUint256 decodes a single uint256 return value.
func DecodeUint256(data []byte) (*big.Int, error) {
	if len(data) < wordSize {
		return nil, fmt.Errorf("short uint256 return: %d bytes", len(data))
	}
	return new(big.Int).SetBytes(data[:wordSize]), nil
}

// DecodeString decodes a string return value. Handles both the dynamic
// ABI string encoding and the legacy bytes32 form some tokens use.
func DecodeString(data []byte) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("empty string return")
	}

	// Legacy bytes32: fixed word, right-padded with zeros.
	if len(data) == wordSize {
		return strings.TrimRight(string(data), "\x00"), nil
	}

	if len(data) < 2*wordSize {
		return "", fmt.Errorf("short string return: %d bytes", len(data))
	}

	// Offset and length words come from arbitrary contract return data;
	// bound them before any arithmetic so a hostile value cannot wrap.
	offsetWord := new(big.Int).SetBytes(data[:wordSize])
	if !offsetWord.IsUint64() || offsetWord.Uint64() > uint64(len(data)-wordSize) {
		return "", fmt.Errorf("string offset out of range")
	}
	offset := offsetWord.Uint64()
	start := offset + wordSize
	lengthWord := new(big.Int).SetBytes(data[offset:start])
	if !lengthWord.IsUint64() || lengthWord.Uint64() > uint64(len(data))-start {
		return "", fmt.Errorf("string length out of range")
	}
	length := lengthWord.Uint64()
	return string(data[start : start+length]), nil
}

// DecodeAmountsOut decodes a uint256[] return value and returns the
// final element, the output amount at the end of the path.
func DecodeAmountsOut(data []byte) (*big.Int, error) {
	if len(data) < 2*wordSize {
		return nil, fmt.Errorf("short amounts return: %d bytes", len(data))
	}
	offsetWord := new(big.Int).SetBytes(data[:wordSize])
	if !offsetWord.IsUint64() || offsetWord.Uint64() > uint64(len(data)-wordSize) {
		return nil, fmt.Errorf("amounts offset out of range")
	}
	offset := offsetWord.Uint64()
	lengthWord := new(big.Int).SetBytes(data[offset : offset+wordSize])
	if !lengthWord.IsUint64() {
		return nil, fmt.Errorf("amounts array truncated")
	}
	length := lengthWord.Uint64()
	if length == 0 {
		return nil, fmt.Errorf("empty amounts array")
	}
	if length > (uint64(len(data))-offset-wordSize)/wordSize {
		return nil, fmt.Errorf("amounts array truncated")
	}
	last := offset + wordSize + (length-1)*wordSize
	return new(big.Int).SetBytes(data[last : last+wordSize]), nil
}
