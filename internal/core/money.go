// Package core holds the ledger's value types: dates, money in cents, expense
// records and drafts.
package core

import (
	"math"
	"strconv"
	"strings"
)

// ParseAmount reads a decimal amount typed by a user. Both "12.34" and
// "12,34" are accepted, as is a leading sign. Digits past the second decimal
// round half up. Positivity is left to Validate so that a rejected value can
// still be shown back.
func ParseAmount(s string) (Money, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
	neg := false
	switch {
	case strings.HasPrefix(s, "-"):
		neg, s = true, s[1:]
	case strings.HasPrefix(s, "+"):
		s = s[1:]
	}

	intPart, fracPart, _ := strings.Cut(s, ".")
	if intPart == "" && fracPart == "" {
		return Money{}, ErrInvalidAmount
	}
	if intPart == "" {
		intPart = "0"
	}
	if !allDigits(intPart) || !allDigits(fracPart) {
		return Money{}, ErrInvalidAmount
	}

	units, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil || units > (math.MaxInt64-100)/100 {
		return Money{}, ErrInvalidAmount
	}

	var frac int64
	for i := 0; i < 2; i++ {
		frac *= 10
		if i < len(fracPart) {
			frac += int64(fracPart[i] - '0')
		}
	}
	if len(fracPart) > 2 && fracPart[2] >= '5' {
		frac++
	}

	cents := units*100 + frac
	if neg {
		cents = -cents
	}
	return Money{Cents: cents}, nil
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// Float returns the amount as a float64 for display and serialization.
// Use cents for calculations to avoid floating-point precision issues.
func (m Money) Float() float64 {
	return float64(m.Cents) / 100.0
}

// String formats the amount with two decimals, e.g. "12.50".
func (m Money) String() string {
	return strconv.FormatFloat(m.Float(), 'f', 2, 64)
}

// MaxCents bounds every amount, income included, and the running total of a
// ledger. Sums and differences of bounded values cannot overflow int64.
const MaxCents int64 = 1e17

// FromFloat converts a float amount to Money, rounding half away from zero to
// the nearest cent. NaN, infinities and magnitudes above MaxCents yield zero,
// which fails Validate.
func FromFloat(v float64) Money {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Money{}
	}
	c := math.Round(v * 100)
	if math.Abs(c) > float64(MaxCents) {
		return Money{}
	}
	return Money{Cents: int64(c)}
}

// AddChecked returns m+o, or ErrInvalidAmount when the sum leaves
// [-MaxCents, MaxCents].
func (m Money) AddChecked(o Money) (Money, error) {
	if m.Cents > MaxCents || m.Cents < -MaxCents || o.Cents > MaxCents || o.Cents < -MaxCents {
		return Money{}, ErrInvalidAmount
	}
	sum := m.Cents + o.Cents
	if sum > MaxCents || sum < -MaxCents {
		return Money{}, ErrInvalidAmount
	}
	return Money{Cents: sum}, nil
}
