// Package chain provides the Monad testnet RPC client and common
// amount/rate-limit/retry utilities shared by the wallet and swap layers.
package chain

import (
	"math/big"
	"regexp"
	"strings"

	boterr "github.com/Barneybot002/monad-testbot/pkg/errors"
)

// PercentDecimals is the display precision for percentage-of-balance
// sell amounts.
const PercentDecimals = 6

// addressRegex validates 0x-prefixed EVM addresses.
var addressRegex = regexp.MustCompile(`^0x[0-9a-fA-F]{40}$`)

// IsAddress reports whether s looks like an EVM address.
func IsAddress(s string) bool {
	return addressRegex.MatchString(s)
}

// ParseDecimalAmount parses a decimal amount string to base units with
// the given decimal places. For example, "1.5" with 18 decimals returns
// 1500000000000000000. Negative, empty, and malformed input is rejected.
//
//nolint:gocognit,gocyclo // Decimal parsing requires sequential validation steps
func ParseDecimalAmount(amount string, decimalPlaces int) (*big.Int, error) {
	amount = strings.TrimSpace(amount)
	if amount == "" || strings.HasPrefix(amount, "-") || strings.HasPrefix(amount, "+") {
		return nil, boterr.ErrInvalidAmount
	}

	parts := strings.Split(amount, ".")
	if len(parts) > 2 {
		return nil, boterr.ErrInvalidAmount
	}

	intPart := parts[0]
	decPart := ""
	if len(parts) == 2 {
		decPart = parts[1]
	}
	if intPart == "" && decPart == "" {
		return nil, boterr.ErrInvalidAmount
	}
	if intPart == "" {
		intPart = "0"
	}

	for _, c := range intPart {
		if c < '0' || c > '9' {
			return nil, boterr.ErrInvalidAmount
		}
	}
	intVal, ok := new(big.Int).SetString(intPart, 10)
	if !ok {
		return nil, boterr.ErrInvalidAmount
	}

	multiplier := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimalPlaces)), nil)
	result := new(big.Int).Mul(intVal, multiplier)

	if decPart != "" {
		for _, c := range decPart {
			if c < '0' || c > '9' {
				return nil, boterr.ErrInvalidAmount
			}
		}

		// Pad or truncate the fractional part to the token's precision.
		for len(decPart) < decimalPlaces {
			decPart += "0"
		}
		decPart = decPart[:decimalPlaces]

		if decPart != "" {
			decVal, ok := new(big.Int).SetString(decPart, 10)
			if !ok {
				return nil, boterr.ErrInvalidAmount
			}
			result.Add(result, decVal)
		}
	}

	return result, nil
}

// ParsePositiveDecimalAmount is ParseDecimalAmount with a strictly
// positive requirement: zero is rejected alongside malformed input.
func ParsePositiveDecimalAmount(amount string, decimalPlaces int) (*big.Int, error) {
	v, err := ParseDecimalAmount(amount, decimalPlaces)
	if err != nil {
		return nil, err
	}
	if v.Sign() <= 0 {
		return nil, boterr.ErrInvalidAmount
	}
	return v, nil
}

// FormatDecimalAmount converts base units to a human-readable string.
// Trailing zeros after the decimal point are removed; 1500000000000000000
// with 18 decimals renders as "1.5".
func FormatDecimalAmount(amount *big.Int, decimalPlaces int) string {
	if amount == nil {
		return "0"
	}
	// 0-decimals tokens are whole numbers; no point to insert.
	if decimalPlaces <= 0 {
		return amount.String()
	}

	str := amount.String()
	for len(str) <= decimalPlaces {
		str = "0" + str
	}

	decimalPos := len(str) - decimalPlaces
	result := str[:decimalPos] + "." + str[decimalPos:]

	for len(result) > 1 && result[len(result)-1] == '0' && result[len(result)-2] != '.' {
		result = result[:len(result)-1]
	}

	return result
}

// PercentOf computes pct percent of a base-unit balance, rendered as a
// decimal string with exactly PercentDecimals fractional digits:
// balance 100.0, pct 25 gives "25.000000". The result is truncated, not
// rounded, so 100% never exceeds the balance it was computed from.
func PercentOf(balance *big.Int, decimalPlaces, pct int) string {
	zero := "0." + strings.Repeat("0", PercentDecimals)
	if balance == nil || balance.Sign() <= 0 || pct <= 0 {
		return zero
	}

	// floor(balance * pct * 10^PercentDecimals / (100 * 10^decimals)),
	// then reinterpret as a fixed-point value with PercentDecimals digits.
	num := new(big.Int).Mul(balance, big.NewInt(int64(pct)))
	num.Mul(num, new(big.Int).Exp(big.NewInt(10), big.NewInt(PercentDecimals), nil))

	denom := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimalPlaces)), nil)
	denom.Mul(denom, big.NewInt(100))

	scaled := num.Quo(num, denom)
	if scaled.Sign() <= 0 {
		return zero
	}

	str := scaled.String()
	for len(str) <= PercentDecimals {
		str = "0" + str
	}
	pos := len(str) - PercentDecimals
	return str[:pos] + "." + str[pos:]
}
