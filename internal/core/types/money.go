// Package types provides common type aliases and utilities.
package types

import (
	"github.com/shopspring/decimal"
)

// Money represents a monetary value with full precision.
// Uses decimal.Decimal to avoid floating-point errors; internal totals keep
// full precision, rounding to two digits happens only at presentation and
// payload boundaries.
type Money = decimal.Decimal

// NewMoney creates a Money value from a float.
// WARNING: Use NewMoneyFromString for precise values.
func NewMoney(f float64) Money {
	return decimal.NewFromFloat(f)
}

// NewMoneyFromString creates a Money value from a string.
// This is the preferred method for monetary values.
func NewMoneyFromString(s string) (Money, error) {
	return decimal.NewFromString(s)
}

// MustMoney creates a Money value from a string, panics on error.
// Use only for constants and tests.
func MustMoney(s string) Money {
	d, err := NewMoneyFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// Zero returns zero Money value.
func Zero() Money {
	return decimal.Zero
}

// Round2 rounds to two fraction digits (banker-free, half away from zero).
func Round2(m Money) Money {
	return m.Round(2)
}

// ToFloat converts Money to float64 for wire formats that expect JSON numbers.
// Lossy beyond ~15 significant digits; acceptable at the two-digit payload boundary.
func ToFloat(m Money) float64 {
	f, _ := m.Float64()
	return f
}

// ToWire rounds to two digits and converts to float64 in one step.
func ToWire(m Money) float64 {
	return ToFloat(m.Round(2))
}
