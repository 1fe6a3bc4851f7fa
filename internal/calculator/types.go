package calculator

import "sort"

// Amount is a non-negative sum of money expressed in the smallest currency unit.
type Amount int64

// Calculator describes the behaviour required from a change calculator.
type Calculator interface {
	Charge(amountCharged, amountGiven Amount) (ChargeResult, error)
}

// ChargeResult maps a denomination to the number of units handed back.
// Denominations with a zero count are never present.
type ChargeResult map[int64]int64

// Entry is a single denomination/count pair of a ChargeResult.
type Entry struct {
	Denomination int64
	Count        int64
}

// Total returns the sum of denomination × count over all entries.
func (r ChargeResult) Total() int64 {
	var total int64
	for denom, count := range r {
		total += denom * count
	}
	return total
}

// Pieces returns the number of coins and banknotes in the result.
func (r ChargeResult) Pieces() int64 {
	var pieces int64
	for _, count := range r {
		pieces += count
	}
	return pieces
}

// Sorted returns the entries ordered from the largest denomination to the smallest.
func (r ChargeResult) Sorted() []Entry {
	entries := make([]Entry, 0, len(r))
	for denom, count := range r {
		entries = append(entries, Entry{Denomination: denom, Count: count})
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Denomination > entries[j].Denomination
	})
	return entries
}
