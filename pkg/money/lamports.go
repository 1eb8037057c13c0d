package money

import (
	"fmt"
	"strings"
)

// LamportsPerSOL is the number of lamports in one SOL.
const LamportsPerSOL int64 = 1_000_000_000

// solDecimals is the number of decimal places in a SOL amount.
const solDecimals = 9

// ToLamports converts a human-readable SOL amount string to lamports.
// Handles decimal inputs like "2.5" → 2500000000 without going through
// floating point: the string is split and recombined digit-wise.
func ToLamports(amountStr string) (int64, error) {
	amountStr = strings.TrimSpace(amountStr)
	if amountStr == "" {
		return 0, fmt.Errorf("amount is required")
	}
	if strings.HasPrefix(amountStr, "-") {
		return 0, fmt.Errorf("amount must be positive")
	}

	parts := strings.Split(amountStr, ".")
	if len(parts) > 2 {
		return 0, fmt.Errorf("invalid amount format")
	}

	intPart := parts[0]
	if intPart == "" {
		intPart = "0"
	}

	decPart := ""
	if len(parts) > 1 {
		decPart = parts[1]
	}
	if len(decPart) > solDecimals {
		return 0, fmt.Errorf("amount has more than %d decimal places", solDecimals)
	}
	decPart = decPart + strings.Repeat("0", solDecimals-len(decPart))

	combined := strings.TrimLeft(intPart+decPart, "0")
	if combined == "" {
		return 0, fmt.Errorf("amount must be positive")
	}

	var result int64
	for _, c := range combined {
		if c < '0' || c > '9' {
			return 0, fmt.Errorf("invalid amount format")
		}
		digit := int64(c - '0')
		if result > (1<<63-1-digit)/10 {
			return 0, fmt.Errorf("amount too large")
		}
		result = result*10 + digit
	}

	return result, nil
}

// FromLamports converts lamports to a human-readable SOL string.
// E.g. 2500000000 → "2.5".
func FromLamports(lamports int64) string {
	neg := lamports < 0
	if neg {
		lamports = -lamports
	}

	str := fmt.Sprintf("%d", lamports)
	for len(str) <= solDecimals {
		str = "0" + str
	}

	pos := len(str) - solDecimals
	result := str[:pos] + "." + str[pos:]
	result = strings.TrimRight(result, "0")
	result = strings.TrimRight(result, ".")
	if result == "" {
		result = "0"
	}
	if neg {
		result = "-" + result
	}
	return result
}

// WholeSOL returns the whole-SOL part of a lamport amount, discarding the
// fractional remainder. Used for threshold comparisons in major units.
func WholeSOL(lamports int64) int64 {
	return lamports / LamportsPerSOL
}
