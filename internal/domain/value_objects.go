package domain

import (
	"errors"
	"fmt"
	"math"
	"strconv"
)

// CurrencyUSD is the only currency the storefront sells in.
const CurrencyUSD = "usd"

// MaxChargeMinor is the largest amount the processor accepts for one charge.
const MaxChargeMinor = 99999999

type Money struct {
	Amount   int64
	Currency string
}

func NewMoney(amount int64, currency string) (Money, error) {
	if amount < 0 {
		return Money{}, errors.New("amount cannot be negative")
	}
	if currency == "" {
		return Money{}, errors.New("currency is required")
	}
	return Money{Amount: amount, Currency: currency}, nil
}

// String renders minor units as a two-decimal currency amount, e.g. 13500 -> "135.00".
func (m Money) String() string {
	return FormatMinorUnits(m.Amount)
}

// FormatMinorUnits divides by 100 and fixes to two decimals.
func FormatMinorUnits(minor int64) string {
	sign := ""
	if minor < 0 {
		sign = "-"
		minor = -minor
	}
	return fmt.Sprintf("%s%d.%02d", sign, minor/100, minor%100)
}

// FormatMinorUnitsString formats a stringified minor-unit amount as stored in session metadata.
// Unparseable input yields ok=false.
func FormatMinorUnitsString(s string) (string, bool) {
	minor, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return "", false
	}
	return FormatMinorUnits(minor), true
}

// ToMinorUnits converts a currency amount to minor units rounding half up.
// Amounts outside the int64 range saturate; NaN gives 0.
func ToMinorUnits(amount float64) int64 {
	minor := math.Floor(amount*100 + 0.5)
	switch {
	case math.IsNaN(minor):
		return 0
	case minor >= math.MaxInt64:
		return math.MaxInt64
	case minor <= math.MinInt64:
		return math.MinInt64
	}
	return int64(minor)
}

// SessionID is the processor's opaque checkout session identifier.
type SessionID string

// EventID is the processor's event identifier, stable across redeliveries.
type EventID string
