package calculator

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"testing"
)

func TestCharge(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		charged  Amount
		given    Amount
		want     ChargeResult
		wantErr  error
		contains []string
	}{
		{
			name:    "ExactAmount",
			charged: 100,
			given:   100,
			want:    ChargeResult{},
		},
		{
			name:    "NothingCharged",
			charged: 0,
			given:   100,
			want:    ChargeResult{100: 1},
		},
		{
			name:    "SingleNote",
			charged: 50,
			given:   100,
			want:    ChargeResult{50: 1},
		},
		{
			name:    "MixedCoins",
			charged: 1,
			given:   10,
			want:    ChargeResult{5: 1, 1: 4},
		},
		{
			name:    "LargeBanknote",
			charged: 7,
			given:   5000,
			want:    ChargeResult{2000: 2, 500: 2, 50: 1, 1: 3},
		},
		{
			name:    "BeyondLargestDenomination",
			charged: 0,
			given:   12_345,
			want:    ChargeResult{5000: 2, 2000: 1, 100: 3, 20: 2, 5: 1},
		},
		{
			name:     "InsufficientAmount",
			charged:  3,
			given:    2,
			wantErr:  ErrInsufficientAmount,
			contains: []string{"2", "3"},
		},
		{
			name:    "NegativeAmount",
			charged: -1,
			given:   10,
			wantErr: ErrNegativeAmount,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			got, err := NewDefault().Charge(tc.charged, tc.given)

			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected error %v, got %v", tc.wantErr, err)
			}
			if tc.wantErr != nil {
				if got != nil {
					t.Fatalf("expected no result on error, got %v", got)
				}
				for _, s := range tc.contains {
					if !strings.Contains(err.Error(), s) {
						t.Fatalf("expected error %q to mention %q", err.Error(), s)
					}
				}
				return
			}

			if !equalResults(got, tc.want) {
				t.Fatalf("unexpected result: got %v want %v", got, tc.want)
			}
		})
	}
}

func TestChargeValidationErrorMessage(t *testing.T) {
	t.Parallel()

	_, err := NewDefault().Charge(3, 2)
	if !IsValidationError(err) {
		t.Fatalf("expected ValidationError, got %T", err)
	}
	if want := "Given amount 2 is too little to charge 3."; err.Error() != want {
		t.Fatalf("expected message %q, got %q", want, err.Error())
	}

	var vErr *ValidationError
	if !errors.As(err, &vErr) || vErr.AmountCharged != 3 || vErr.AmountGiven != 2 {
		t.Fatalf("expected amounts to be carried, got %+v", vErr)
	}

	if IsValidationError(ErrNegativeAmount) {
		t.Fatalf("negative amount must not be reported as validation error")
	}
	if !IsValidationError(fmt.Errorf("wrapped: %w", err)) {
		t.Fatalf("expected wrapped ValidationError to be detected")
	}
}

func TestChargeProperties(t *testing.T) {
	t.Parallel()

	calc := NewDefault()
	units := DefaultDenominations().Units()

	for charged := Amount(0); charged <= 300; charged += 7 {
		for given := charged; given <= charged+12_000; given += 131 {
			got, err := calc.Charge(charged, given)
			if err != nil {
				t.Fatalf("charge(%d, %d): unexpected error %v", charged, given, err)
			}

			if total := got.Total(); total != int64(given-charged) {
				t.Fatalf("charge(%d, %d): total %d, want %d", charged, given, total, given-charged)
			}

			remaining := int64(given - charged)
			for _, unit := range units {
				count, ok := got[unit]
				if ok && count == 0 {
					t.Fatalf("charge(%d, %d): zero count stored for %d", charged, given, unit)
				}
				if want := remaining / unit; count != want {
					t.Fatalf("charge(%d, %d): count for %d is %d, want %d", charged, given, unit, count, want)
				}
				remaining -= count * unit
			}
		}
	}
}

func TestChargeInsufficientForAll(t *testing.T) {
	t.Parallel()

	calc := NewDefault()
	for given := Amount(0); given < 50; given++ {
		if _, err := calc.Charge(given+1, given); !errors.Is(err, ErrInsufficientAmount) {
			t.Fatalf("charge(%d, %d): expected ErrInsufficientAmount, got %v", given+1, given, err)
		}
	}
}

func TestChargeCustomDenominations(t *testing.T) {
	t.Parallel()

	denoms, err := NewDenominations(4, 1, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Greedy is not minimal here (3+3 would be two pieces) but stays exact.
	got, err := New(denoms).Charge(0, 6)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := ChargeResult{4: 1, 1: 2}
	if !equalResults(got, want) {
		t.Fatalf("unexpected result: got %v want %v", got, want)
	}
}

func TestNewFallsBackToDefaultTable(t *testing.T) {
	t.Parallel()

	got, err := New(Denominations{}).Charge(0, 5000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !equalResults(got, ChargeResult{5000: 1}) {
		t.Fatalf("unexpected result: %v", got)
	}
}

func TestNewDenominations(t *testing.T) {
	t.Parallel()

	got, err := NewDenominations(5, 1, 10, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := []int64{10, 5, 1}; !slices.Equal(got.Units(), want) {
		t.Fatalf("expected %v, got %v", want, got.Units())
	}
	if !got.Contains(5) || got.Contains(2) {
		t.Fatalf("unexpected Contains result for %v", got.Units())
	}

	units := got.Units()
	units[0] = 999
	if got.Units()[0] != 10 {
		t.Fatalf("expected defensive copy, table was mutated")
	}
}

func TestNewDenominationsRejectsInvalidInput(t *testing.T) {
	t.Parallel()

	invalidCases := [][]int64{
		nil,
		{},
		{0, 1},
		{-5, 1},
		{5, 10},
		{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16, 17},
	}

	for _, units := range invalidCases {
		units := units
		t.Run(fmt.Sprintf("%v", units), func(t *testing.T) {
			if _, err := NewDenominations(units...); !errors.Is(err, ErrInvalidDenominations) {
				t.Fatalf("expected ErrInvalidDenominations for %v, got %v", units, err)
			}
		})
	}
}

func TestChargeResultHelpers(t *testing.T) {
	t.Parallel()

	result := ChargeResult{1: 3, 2000: 2, 50: 1, 500: 2}
	if result.Total() != 4993 {
		t.Fatalf("expected total 4993, got %d", result.Total())
	}
	if result.Pieces() != 8 {
		t.Fatalf("expected 8 pieces, got %d", result.Pieces())
	}

	want := []Entry{{2000, 2}, {500, 2}, {50, 1}, {1, 3}}
	if got := result.Sorted(); !slices.Equal(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func equalResults(got, want ChargeResult) bool {
	if got == nil {
		return false
	}
	if len(got) != len(want) {
		return false
	}
	for k, wantVal := range want {
		if gotVal, ok := got[k]; !ok || gotVal != wantVal {
			return false
		}
	}
	return true
}

func BenchmarkChargeDefault(b *testing.B) {
	calc := NewDefault()
	for i := 0; i < b.N; i++ {
		if _, err := calc.Charge(7, 1_000_000); err != nil {
			b.Fatalf("unexpected error: %v", err)
		}
	}
}
