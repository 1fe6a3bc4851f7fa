package calculator

type greedyCalculator struct {
	denominations Denominations
}

// New creates a Calculator that hands out change greedily from denoms.
// A zero Denominations value falls back to the default table.
func New(denoms Denominations) Calculator {
	if denoms.Len() == 0 {
		denoms = DefaultDenominations()
	}
	return &greedyCalculator{denominations: denoms}
}

// NewDefault creates a Calculator bound to DefaultDenominations.
func NewDefault() Calculator {
	return New(DefaultDenominations())
}

func (c *greedyCalculator) Charge(amountCharged, amountGiven Amount) (ChargeResult, error) {
	if amountCharged < 0 || amountGiven < 0 {
		return nil, ErrNegativeAmount
	}
	if amountCharged > amountGiven {
		return nil, &ValidationError{AmountCharged: amountCharged, AmountGiven: amountGiven}
	}

	result := ChargeResult{}
	if amountCharged == amountGiven {
		return result, nil
	}

	remaining := int64(amountGiven - amountCharged)
	for _, unit := range c.denominations.units {
		if remaining < unit {
			continue
		}
		count := remaining / unit
		result[unit] = count
		remaining -= count * unit
	}

	return result, nil
}
