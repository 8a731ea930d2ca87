package model

import (
	"fmt"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// ParseAmount parses a decimal amount string and checks it with ValidateAmount.
func ParseAmount(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q is not a number", ErrInvalidAmount, s)
	}
	if err := ValidateAmount(d); err != nil {
		return decimal.Zero, err
	}
	return d, nil
}

// ValidateAmount requires a positive amount with no more than 2 decimal places.
func ValidateAmount(d decimal.Decimal) error {
	if !d.IsPositive() {
		return fmt.Errorf("%w: %s must be greater than zero", ErrInvalidAmount, d.String())
	}
	if !d.Mul(hundred).Equal(d.Mul(hundred).Floor()) {
		return fmt.Errorf("%w: %s has more than 2 decimal places", ErrInvalidAmount, d.String())
	}
	return nil
}

// ValidateAllocation is ValidateAmount for budget allocations, where zero is allowed.
func ValidateAllocation(d decimal.Decimal) error {
	if d.IsZero() {
		return nil
	}
	if d.IsNegative() {
		return fmt.Errorf("%w: %s must not be negative", ErrInvalidAmount, d.String())
	}
	return ValidateAmount(d)
}

// FormatAmount renders an amount with 2 decimal places.
func FormatAmount(d decimal.Decimal) string {
	return d.StringFixed(2)
}
