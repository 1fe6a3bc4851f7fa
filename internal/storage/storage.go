package storage

import (
	"errors"
	"strings"

	"github.com/eugenenazirov/change-calculator/internal/calculator"
)

// DefaultCurrency is reported when no currency code is configured.
const DefaultCurrency = "JPY"

var (
	// ErrInvalidCurrency indicates the currency code is not a three letter ISO 4217 code.
	ErrInvalidCurrency = errors.New("currency must be a three letter code")
)

// Storage provides access to the denomination table used by the calculator.
type Storage interface {
	GetDenominations() (calculator.Denominations, error)
	Currency() string
}

// MemoryStorage keeps the denomination table in-memory. The table is fixed at
// construction, so concurrent readers need no locking.
type MemoryStorage struct {
	currency      string
	denominations calculator.Denominations
}

// NewMemoryStorage initialises storage with the default denomination table.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		currency:      DefaultCurrency,
		denominations: calculator.DefaultDenominations(),
	}
}

// NewMemoryStorageWith initialises storage with a currency code and a table
// built from units.
func NewMemoryStorageWith(currency string, units []int64) (*MemoryStorage, error) {
	code, err := normalizeCurrency(currency)
	if err != nil {
		return nil, err
	}
	denoms, err := calculator.NewDenominations(units...)
	if err != nil {
		return nil, err
	}
	return &MemoryStorage{
		currency:      code,
		denominations: denoms,
	}, nil
}

// GetDenominations returns the configured table. Denominations is immutable so
// no copy is needed.
func (s *MemoryStorage) GetDenominations() (calculator.Denominations, error) {
	return s.denominations, nil
}

// Currency returns the upper-cased currency code.
func (s *MemoryStorage) Currency() string {
	return s.currency
}

func normalizeCurrency(raw string) (string, error) {
	code := strings.ToUpper(strings.TrimSpace(raw))
	if code == "" {
		return DefaultCurrency, nil
	}
	if len(code) != 3 {
		return "", ErrInvalidCurrency
	}
	for _, r := range code {
		if r < 'A' || r > 'Z' {
			return "", ErrInvalidCurrency
		}
	}
	return code, nil
}
