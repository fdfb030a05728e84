// Package types provides common type aliases and decimal utilities.
package types

import (
	"github.com/shopspring/decimal"
)

// Money represents a monetary value with full precision.
// Uses decimal.Decimal to avoid floating-point errors.
type Money = decimal.Decimal

// Quantity represents a stock quantity. Stored as NUMERIC(19,3) in the
// database; arithmetic here is add/subtract/compare only, so a decimal
// keeps parity with Money maths at checkout without scale juggling.
type Quantity = decimal.Decimal

// CurrencyScale is the number of fractional digits for monetary amounts.
const CurrencyScale = 2

// NewMoneyFromString creates a Money value from a string.
// This is the preferred method for monetary values.
func NewMoneyFromString(s string) (Money, error) {
	return decimal.NewFromString(s)
}

// MustMoney creates a Money value from a string, panics on error.
// Use only for constants and tests.
func MustMoney(s string) Money {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// Zero returns zero Money value.
func Zero() Money {
	return decimal.Zero
}

// RoundMoney rounds an amount to currency precision (2 decimal places,
// half-up). decimal.Round rounds half away from zero, which matches
// half-up for the non-negative amounts this core produces.
func RoundMoney(d Money) Money {
	return d.Round(CurrencyScale)
}

// LineTotal computes the rounded total for one sale line.
func LineTotal(unitPrice Money, quantity Quantity) Money {
	return RoundMoney(unitPrice.Mul(quantity))
}
