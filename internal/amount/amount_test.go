package amount

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eugenenazirov/change-calculator/internal/calculator"
)

func TestParse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		raw     string
		want    calculator.Amount
		wantErr error
	}{
		{name: "Integer", raw: "100", want: 100},
		{name: "Zero", raw: "0", want: 0},
		{name: "Whitespace", raw: "  42 \n", want: 42},
		{name: "TrailingZeroDecimals", raw: "100.00", want: 100},
		{name: "Exponent", raw: "5e3", want: 5000},
		{name: "MaxInt64", raw: "9223372036854775807", want: 9223372036854775807},
		{name: "Empty", raw: "   ", wantErr: ErrMalformed},
		{name: "Letters", raw: "ten", wantErr: ErrMalformed},
		{name: "Mixed", raw: "10abc", wantErr: ErrMalformed},
		{name: "Negative", raw: "-1", wantErr: ErrNegative},
		{name: "Fractional", raw: "0.5", wantErr: ErrFractional},
		{name: "TooLarge", raw: "9223372036854775808", wantErr: ErrOutOfRange},
		{name: "LargeExponent", raw: "1e19", wantErr: ErrOutOfRange},
		{name: "LongFraction", raw: "1.0000000000000000000", wantErr: ErrOutOfRange},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got, err := Parse(tc.raw)
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestParseRejectsExtremeExponentsQuickly(t *testing.T) {
	t.Parallel()

	for _, raw := range []string{"0e-200000000", "1e2000000000", "-1e-2000000000"} {
		raw := raw
		t.Run(raw, func(t *testing.T) {
			t.Parallel()

			start := time.Now()
			_, err := Parse(raw)
			require.ErrorIs(t, err, ErrOutOfRange)
			assert.Less(t, time.Since(start), time.Second)
		})
	}

	_, err := ParseList("1,5,1e2000000000")
	require.ErrorIs(t, err, ErrOutOfRange)
}

func TestParsePair(t *testing.T) {
	t.Parallel()

	charged, given, err := ParsePair("7", "5000")
	require.NoError(t, err)
	assert.Equal(t, calculator.Amount(7), charged)
	assert.Equal(t, calculator.Amount(5000), given)

	_, _, err = ParsePair("x", "10")
	require.ErrorIs(t, err, ErrMalformed)
	assert.Contains(t, err.Error(), "amount charged")

	_, _, err = ParsePair("1", "-10")
	require.ErrorIs(t, err, ErrNegative)
	assert.Contains(t, err.Error(), "amount given")
}

func TestParseList(t *testing.T) {
	t.Parallel()

	got, err := ParseList("1, 5 ,10,,25")
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 5, 10, 25}, got)

	_, err = ParseList(" , ")
	assert.Error(t, err)

	_, err = ParseList("1,a")
	assert.ErrorIs(t, err, ErrMalformed)

	_, err = ParseList("0,1")
	assert.Error(t, err)
}
