// Package core holds the domain types of the expense ledger: monetary
// amounts, the category taxonomy and the expense Record itself.
package core

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// Money is a monetary amount in cents. Arithmetic on cents avoids
// floating-point drift; no currency unit is tracked.
type Money struct {
	Cents int64
}

var ErrInvalidAmount = errors.New("invalid amount")

// ParseDecimalToCents converts a decimal string to cents with half-up
// rounding on the third decimal place.
//
// It accepts both dot (12.34) and comma (12,34) decimal separators.
// Zero is a valid amount; negative values and malformed input return
// ErrInvalidAmount.
func ParseDecimalToCents(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidAmount
	}
	// Normalize decimal comma to dot
	s = strings.ReplaceAll(s, ",", ".")
	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		// Only non-negative values allowed
		return 0, ErrInvalidAmount
	}
	parts := strings.Split(s, ".")
	if len(parts) > 2 {
		return 0, ErrInvalidAmount
	}
	intPart := parts[0]
	fracPart := ""
	if len(parts) == 2 {
		fracPart = parts[1]
	}
	if intPart == "" {
		intPart = "0"
	}
	for _, r := range intPart {
		if !unicode.IsDigit(r) {
			return 0, ErrInvalidAmount
		}
	}
	for _, r := range fracPart {
		if !unicode.IsDigit(r) {
			return 0, ErrInvalidAmount
		}
	}
	iv, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	// Prevent overflow when multiplying by 100
	const maxSafeInt64 = (1<<63 - 1) / 100
	if iv > maxSafeInt64 {
		return 0, ErrInvalidAmount
	}
	// Take first two fractional digits; then half-up rounding on third
	var fracCents int64 = 0
	if len(fracPart) > 0 {
		d1 := int64(fracPart[0] - '0')
		fracCents = d1 * 10
		if len(fracPart) > 1 {
			d2 := int64(fracPart[1] - '0')
			fracCents += d2
			if len(fracPart) > 2 {
				if fracPart[2] >= '5' {
					fracCents++
				}
			}
		}
	}
	cents := iv*100 + fracCents
	if cents < 0 {
		// iv*100 left no room for the fractional cents
		return 0, ErrInvalidAmount
	}
	return cents, nil
}

// ParseMoney wraps ParseDecimalToCents into a Money value.
func ParseMoney(s string) (Money, error) {
	cents, err := ParseDecimalToCents(s)
	if err != nil {
		return Money{}, err
	}
	return Money{Cents: cents}, nil
}

func (m Money) Validate() error {
	if m.Cents < 0 {
		return ErrInvalidAmount
	}
	return nil
}

// String formats the amount with two decimal places, e.g. "12.34".
// Both rendering and the persisted CSV rows use this single formatting
// rule; the source program wrote raw decimals to disk, which is unified
// here.
func (m Money) String() string {
	return fmt.Sprintf("%d.%02d", m.Cents/100, m.Cents%100)
}

// Add returns the sum of two amounts.
func (m Money) Add(other Money) Money {
	return Money{Cents: m.Cents + other.Cents}
}
