// Package amount turns user supplied text into calculator amounts. Anything
// that is not a non-negative whole number of the smallest currency unit is
// rejected before it reaches the calculator.
package amount

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/eugenenazirov/change-calculator/internal/calculator"
)

var (
	// ErrMalformed is returned when the input is not a number.
	ErrMalformed = errors.New("amount is not a number")
	// ErrNegative is returned for amounts below zero.
	ErrNegative = errors.New("amount must not be negative")
	// ErrFractional is returned for amounts with a sub-unit part.
	ErrFractional = errors.New("amount must be a whole number of currency units")
	// ErrOutOfRange is returned for amounts that do not fit into 64 bits.
	ErrOutOfRange = errors.New("amount is too large")
)

var maxAmount = decimal.NewFromInt(math.MaxInt64)

// maxExponent bounds exponent notation. Integer and range checks on a
// decimal cost time proportional to its exponent, and no int64 amount needs
// more than 18 digits on either side of the point.
const maxExponent = 18

// Parse converts raw into an Amount. Plain integers, trailing zero decimals
// ("100.00") and exponent notation ("1e3") are accepted.
func Parse(raw string) (calculator.Amount, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return 0, fmt.Errorf("%w: empty input", ErrMalformed)
	}

	value, err := decimal.NewFromString(trimmed)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrMalformed, raw)
	}
	if exp := value.Exponent(); exp > maxExponent || exp < -maxExponent {
		return 0, fmt.Errorf("%w: exponent of %q", ErrOutOfRange, raw)
	}
	if value.IsNegative() {
		return 0, fmt.Errorf("%w: %q", ErrNegative, raw)
	}
	if !value.IsInteger() {
		return 0, fmt.Errorf("%w: %q", ErrFractional, raw)
	}
	if value.GreaterThan(maxAmount) {
		return 0, fmt.Errorf("%w: %q", ErrOutOfRange, raw)
	}

	return calculator.Amount(value.IntPart()), nil
}

// ParsePair parses the charged and given amounts, in that order.
func ParsePair(charged, given string) (calculator.Amount, calculator.Amount, error) {
	amountCharged, err := Parse(charged)
	if err != nil {
		return 0, 0, fmt.Errorf("amount charged: %w", err)
	}
	amountGiven, err := Parse(given)
	if err != nil {
		return 0, 0, fmt.Errorf("amount given: %w", err)
	}
	return amountCharged, amountGiven, nil
}

// ParseList parses a comma separated list of denominations such as "1,5,10".
// Empty elements are skipped.
func ParseList(raw string) ([]int64, error) {
	parts := strings.Split(raw, ",")
	units := make([]int64, 0, len(parts))
	for _, part := range parts {
		if strings.TrimSpace(part) == "" {
			continue
		}
		value, err := Parse(part)
		if err != nil {
			return nil, err
		}
		if value == 0 {
			return nil, fmt.Errorf("denomination must be positive, got %q", strings.TrimSpace(part))
		}
		units = append(units, int64(value))
	}
	if len(units) == 0 {
		return nil, fmt.Errorf("no denominations provided")
	}
	return units, nil
}
