package calculator

import "sort"

const maxDenominations = 16

var defaultUnits = []int64{1, 5, 10, 20, 50, 100, 500, 1000, 2000, 5000}

// Denominations is an immutable table of coin and banknote values, held largest first.
//
// Change is produced greedily, which is always exact because the table must
// contain the unit 1. It is minimal in piece count only for canonical systems
// such as the default table; a non-canonical table (e.g. 1, 3, 4) may yield a
// valid but non-minimal breakdown.
type Denominations struct {
	units []int64
}

// DefaultDenominations returns the standard 1..5000 table.
func DefaultDenominations() Denominations {
	d, err := NewDenominations(defaultUnits...)
	if err != nil {
		panic(err)
	}
	return d
}

// NewDenominations validates, deduplicates and sorts the provided units.
func NewDenominations(units ...int64) (Denominations, error) {
	if len(units) == 0 {
		return Denominations{}, ErrInvalidDenominations
	}

	unique := make(map[int64]struct{}, len(units))
	for _, unit := range units {
		if unit <= 0 {
			return Denominations{}, ErrInvalidDenominations
		}
		unique[unit] = struct{}{}
		if len(unique) > maxDenominations {
			return Denominations{}, ErrInvalidDenominations
		}
	}
	if _, ok := unique[1]; !ok {
		return Denominations{}, ErrInvalidDenominations
	}

	sorted := make([]int64, 0, len(unique))
	for unit := range unique {
		sorted = append(sorted, unit)
	}
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] > sorted[j] })

	return Denominations{units: sorted}, nil
}

// Units returns a copy of the table, largest first.
func (d Denominations) Units() []int64 {
	out := make([]int64, len(d.units))
	copy(out, d.units)
	return out
}

// Len returns the number of denominations in the table.
func (d Denominations) Len() int {
	return len(d.units)
}

// Contains reports whether unit is part of the table.
func (d Denominations) Contains(unit int64) bool {
	for _, u := range d.units {
		if u == unit {
			return true
		}
	}
	return false
}
