package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Stellar native-asset amounts carry at most 7 decimal places (1 XLM =
// 10^7 stroops). Amounts travel as strings end to end; parsing happens only
// at validation and arithmetic boundaries.
const maxAmountPlaces = 7

var ErrInvalidAmount = errors.New("invalid amount")

// ParseAmount validates and parses a ledger-native decimal amount string.
// The amount must be a positive decimal with at most 7 fractional digits.
func ParseAmount(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, fmt.Errorf("%w: amount is required", ErrInvalidAmount)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q is not a decimal", ErrInvalidAmount, s)
	}
	if !d.IsPositive() {
		return decimal.Zero, fmt.Errorf("%w: %q must be positive", ErrInvalidAmount, s)
	}
	if d.Exponent() < -maxAmountPlaces {
		return decimal.Zero, fmt.Errorf("%w: %q has more than %d decimal places", ErrInvalidAmount, s, maxAmountPlaces)
	}
	return d, nil
}

// SumAmounts parses and adds every amount string. Unparseable entries are
// skipped: persisted rows are authoritative and may predate validation.
func SumAmounts(amounts []string) decimal.Decimal {
	total := decimal.Zero
	for _, a := range amounts {
		d, err := decimal.NewFromString(a)
		if err != nil {
			continue
		}
		total = total.Add(d)
	}
	return total
}
