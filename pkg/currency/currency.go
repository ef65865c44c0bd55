// Package currency converts between major-unit decimal amounts and the
// minor units (pesewas) expected by the payment gateway.
package currency

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var ErrInvalidAmount = errors.New("invalid_amount")

// ToMinorUnits parses a major-unit decimal string ("149", "149.5", "149.00")
// into minor units using integer arithmetic only. Amounts with more than two
// decimal places are rejected rather than rounded.
func ToMinorUnits(amount string) (int64, error) {
	amount = strings.TrimSpace(amount)
	if amount == "" || strings.HasPrefix(amount, "+") {
		return 0, ErrInvalidAmount
	}

	whole, frac, _ := strings.Cut(amount, ".")
	if whole == "" || strings.HasPrefix(whole, "-") {
		return 0, ErrInvalidAmount
	}
	if len(frac) > 2 {
		return 0, ErrInvalidAmount
	}
	for len(frac) < 2 {
		frac += "0"
	}

	major, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	cents, err := strconv.ParseInt(frac, 10, 64)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	return major*100 + cents, nil
}

// FromMinorUnits renders minor units as a major-unit float for API responses.
func FromMinorUnits(minor int64) float64 {
	return float64(minor) / 100
}

// FormatMajor renders minor units as a two-decimal string.
func FormatMajor(minor int64) string {
	sign := ""
	if minor < 0 {
		sign = "-"
		minor = -minor
	}
	return fmt.Sprintf("%s%d.%02d", sign, minor/100, minor%100)
}
