package pricing

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

// ErrInvalidMoney is returned when an amount cannot be represented in minor units.
var ErrInvalidMoney = errors.New("invalid money amount")

var (
	hundred  = decimal.New(100, 0)
	maxCents = decimal.New(math.MaxInt64, 0)
)

// FormatMoney renders m as dollars with thousands separators, e.g. $1,000.00.
func FormatMoney(m Money) string {
	sign := ""
	if m < 0 {
		sign = "-"
		m = -m
	}
	return fmt.Sprintf("%s$%s.%02d", sign, humanize.Comma(m/100), m%100)
}

// ParseMoney parses a non-negative decimal amount such as "12.50" into minor units.
func ParseMoney(value string) (Money, error) {
	trimmed := strings.TrimPrefix(strings.TrimSpace(value), "$")
	if trimmed == "" {
		return 0, fmt.Errorf("%w: empty amount", ErrInvalidMoney)
	}
	d, err := decimal.NewFromString(strings.ReplaceAll(trimmed, ",", ""))
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidMoney, value)
	}
	if d.Sign() < 0 {
		return 0, fmt.Errorf("%w: negative amount %q", ErrInvalidMoney, value)
	}
	cents := d.Mul(hundred)
	if !cents.Equal(cents.Truncate(0)) {
		return 0, fmt.Errorf("%w: more than two decimals in %q", ErrInvalidMoney, value)
	}
	if cents.GreaterThan(maxCents) {
		return 0, fmt.Errorf("%w: %q is too large", ErrInvalidMoney, value)
	}
	return cents.IntPart(), nil
}

// Dollars converts a whole dollar amount into minor units.
func Dollars(d int64) Money {
	return d * 100
}
